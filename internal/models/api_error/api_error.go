package api_error

import (
	"errors"
	"github.com/gin-gonic/gin"
	"net/http"
	"time"
)

type APIError struct {
	error
	httpStatus int
	message    string
}

func (e *APIError) Unwrap() error {
	return e.error
}

func (e *APIError) HTTPStatus() int {
	return e.httpStatus
}

func (e *APIError) Message() string {
	return e.message
}

func New(e error, httpStatus int, message string) APIError {
	return APIError{
		error:      e,
		httpStatus: httpStatus,
		message:    message,
	}
}

func NewFromErr(e error, httpStatus int) APIError {
	return APIError{
		error:      e,
		httpStatus: httpStatus,
		message:    "",
	}
}

func NewFromStr(s string, httpStatus int) APIError {
	return APIError{
		error:      errors.New(s),
		httpStatus: httpStatus,
		message:    "",
	}
}

func Validation(s string) APIError {
	return NewFromStr(s, http.StatusBadRequest)
}

func Unauthorized(s string) APIError {
	return NewFromStr(s, http.StatusUnauthorized)
}

func Forbidden(s string) APIError {
	return NewFromStr(s, http.StatusForbidden)
}

func NotFound(s string) APIError {
	return NewFromStr(s, http.StatusNotFound)
}

func Conflict(s string) APIError {
	return NewFromStr(s, http.StatusConflict)
}

func RateLimited(s string) APIError {
	return NewFromStr(s, http.StatusTooManyRequests)
}

// ToResponse serializes any error into the uniform failure envelope.
// APIError carries its own status; everything else becomes a 500.
func ToResponse(c *gin.Context, e error) {
	var currentErr APIError

	if errors.As(e, &currentErr) {
		body := gin.H{
			"success":   false,
			"message":   currentErr.Error(),
			"timestamp": time.Now().UTC(),
		}
		if currentErr.Message() != "" {
			body["message"] = currentErr.Message()
			body["details"] = currentErr.Error()
		}
		c.JSON(currentErr.HTTPStatus(), body)
		return
	}

	c.JSON(http.StatusInternalServerError, gin.H{
		"success":   false,
		"message":   "internal server error",
		"timestamp": time.Now().UTC(),
	})
}
