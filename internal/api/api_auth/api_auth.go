package api_auth

import (
	"database/sql"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/fortaxe/finlook-backend/internal/models"
	"github.com/fortaxe/finlook-backend/internal/models/api_error"
	"github.com/fortaxe/finlook-backend/internal/utils/utils_auth"
	"github.com/fortaxe/finlook-backend/internal/utils/utils_db"
	"github.com/fortaxe/finlook-backend/internal/utils/utils_handler"
	"github.com/fortaxe/finlook-backend/internal/utils/utils_otp"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

func getCache(c *gin.Context) *redis.Client {
	return c.MustGet("cache").(*redis.Client)
}

func insertUser(db *sqlx.DB, user *models.User) error {
	_, err := db.Exec(
		`INSERT INTO users (id, name, username, email, mobile, password_hash, role, is_verified, creation_date)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		user.ID, user.Name, user.Username, user.Email, user.Mobile,
		user.PasswordHash, user.Role, user.IsVerified, user.CreationDate)
	return err
}

func conflictMessage(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		switch {
		case strings.Contains(pqErr.Constraint, "username"):
			return api_error.Conflict("username already taken")
		case strings.Contains(pqErr.Constraint, "email"):
			return api_error.Conflict("email already registered")
		case strings.Contains(pqErr.Constraint, "mobile"):
			return api_error.Conflict("mobile number already registered")
		}
		return api_error.Conflict("account already exists")
	}
	return err
}

// sendOTP issues and "delivers" a code. SMS delivery is handled by an
// external provider in deployment; the code is logged for now.
// TODO: plug in the SMS gateway once the account is provisioned.
func sendOTP(c *gin.Context, mobile string) error {
	code, err := utils_otp.Send(c.Request.Context(), getCache(c), mobile)
	if err != nil {
		return err
	}
	log.Printf("otp for %s: %s", mobile, code)
	return nil
}

func SignUp(c *gin.Context) {
	db := utils_handler.GetDB(c)

	req, err := utils_handler.GetObj[models.SignUpRequest](c)
	if err != nil {
		c.Error(api_error.NewFromErr(err, http.StatusBadRequest))
		return
	}

	newUser := models.User{
		ID:           uuid.New(),
		Name:         req.Name,
		Username:     req.Username,
		Email:        req.Email,
		Mobile:       req.Mobile,
		Role:         models.RoleUser,
		IsVerified:   false,
		CreationDate: time.Now().UTC(),
	}

	if err := insertUser(db, &newUser); err != nil {
		c.Error(conflictMessage(err))
		return
	}

	if err := sendOTP(c, newUser.Mobile); err != nil {
		c.Error(err)
		return
	}

	token, err := utils_auth.GenerateToken(&newUser)
	if err != nil {
		c.Error(err)
		return
	}

	utils_handler.Created(c, "account created, otp sent", models.AuthResponse{
		User:  newUser,
		Token: token,
	})
}

func SendOTP(c *gin.Context) {
	db := utils_handler.GetDB(c)

	req, err := utils_handler.GetObj[models.SendOTPRequest](c)
	if err != nil {
		c.Error(api_error.NewFromErr(err, http.StatusBadRequest))
		return
	}

	exists, err := utils_db.Exists(db, "SELECT COUNT(*) FROM users WHERE mobile = $1", req.Mobile)
	if err != nil {
		c.Error(err)
		return
	}
	if !exists {
		c.Error(api_error.NotFound("no account found for this mobile number"))
		return
	}

	if err := sendOTP(c, req.Mobile); err != nil {
		c.Error(err)
		return
	}

	utils_handler.OK(c, "otp sent", nil)
}

func VerifyOTP(c *gin.Context) {
	db := utils_handler.GetDB(c)

	req, err := utils_handler.GetObj[models.VerifyOTPRequest](c)
	if err != nil {
		c.Error(api_error.NewFromErr(err, http.StatusBadRequest))
		return
	}

	if err := utils_otp.Verify(c.Request.Context(), getCache(c), req.Mobile, req.Code); err != nil {
		c.Error(err)
		return
	}

	_, err = db.Exec("UPDATE users SET is_verified = TRUE, updated_date = $1 WHERE mobile = $2",
		time.Now().UTC(), req.Mobile)
	if err != nil {
		c.Error(err)
		return
	}

	user, err := utils_db.FetchOne[models.User](db, "SELECT * FROM users WHERE mobile = $1", req.Mobile)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.Error(api_error.NotFound("no account found for this mobile number"))
			return
		}
		c.Error(err)
		return
	}

	token, err := utils_auth.GenerateToken(&user)
	if err != nil {
		c.Error(err)
		return
	}

	utils_handler.OK(c, "otp verified", models.AuthResponse{User: user, Token: token})
}

func AdminSignIn(c *gin.Context) {
	db := utils_handler.GetDB(c)

	req, err := utils_handler.GetObj[models.AdminSignInRequest](c)
	if err != nil {
		c.Error(api_error.NewFromErr(err, http.StatusBadRequest))
		return
	}

	user, err := utils_db.FetchOne[models.User](db, "SELECT * FROM users WHERE email = $1", req.Email)
	if err != nil || user.Role != models.RoleAdmin || user.PasswordHash == nil {
		c.Error(api_error.Unauthorized("invalid email or password"))
		return
	}

	if !utils_auth.VerifyArgon2Hash(req.Password, *user.PasswordHash) {
		c.Error(api_error.Unauthorized("invalid email or password"))
		return
	}

	token, err := utils_auth.GenerateToken(&user)
	if err != nil {
		c.Error(err)
		return
	}

	utils_handler.OK(c, "signed in", models.AuthResponse{User: user, Token: token})
}

func AdminCreate(c *gin.Context) {
	db := utils_handler.GetDB(c)

	req, err := utils_handler.GetObj[models.AdminCreateRequest](c)
	if err != nil {
		c.Error(api_error.NewFromErr(err, http.StatusBadRequest))
		return
	}

	passwordHash := utils_auth.GenerateArgon2Hash(req.Password)
	newAdmin := models.User{
		ID:           uuid.New(),
		Name:         req.Name,
		Username:     req.Username,
		Email:        req.Email,
		Mobile:       req.Mobile,
		PasswordHash: &passwordHash,
		Role:         models.RoleAdmin,
		IsVerified:   true,
		CreationDate: time.Now().UTC(),
	}

	if err := insertUser(db, &newAdmin); err != nil {
		c.Error(conflictMessage(err))
		return
	}

	utils_handler.Created(c, "admin account created", newAdmin)
}

func Profile(c *gin.Context) {
	db, userID := utils_handler.GetReqCx(c)

	user, err := utils_db.FetchOne[models.User](db, "SELECT * FROM users WHERE id = $1", userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.Error(api_error.NotFound("user not found"))
			return
		}
		c.Error(err)
		return
	}

	utils_handler.OK(c, "profile fetched", user)
}
