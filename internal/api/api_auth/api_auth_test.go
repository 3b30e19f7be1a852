package api_auth

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/fortaxe/finlook-backend/internal/middleware"
	"github.com/fortaxe/finlook-backend/internal/models"
	"github.com/fortaxe/finlook-backend/internal/utils/utils_auth"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var userColumns = []string{
	"id", "name", "username", "email", "mobile", "password_hash", "role",
	"is_verified", "avatar", "is_influencer", "influencer_url",
	"creation_date", "updated_date",
}

func userRow(id uuid.UUID, mobile string, role models.Role, passwordHash interface{}) *sqlmock.Rows {
	return sqlmock.NewRows(userColumns).AddRow(
		id.String(), "Tester", "tester", "tester@finlook.app", mobile,
		passwordHash, string(role), true, nil, false, nil,
		time.Now().UTC(), nil)
}

func newTestRouter(t *testing.T) (*gin.Engine, sqlmock.Sqlmock, *miniredis.Miniredis) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	db := sqlx.NewDb(mockDB, "postgres").Unsafe()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	r := gin.New()
	r.Use(middleware.ErrorHandler())
	r.Use(func(c *gin.Context) {
		c.Set("db", db)
		c.Set("cache", rdb)
	})

	return r, mock, mr
}

func doJSON(r *gin.Engine, method, target string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}

	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func authResponseOf(t *testing.T, w *httptest.ResponseRecorder) (map[string]interface{}, string) {
	t.Helper()

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	data, ok := body["data"].(map[string]interface{})
	require.True(t, ok, w.Body.String())

	token, _ := data["token"].(string)
	return data, token
}

func TestSignUpSendsOTPAndIssuesToken(t *testing.T) {
	r, mock, mr := newTestRouter(t)
	r.POST("/auth/signup", SignUp)

	mock.ExpectExec("INSERT INTO users").
		WillReturnResult(sqlmock.NewResult(0, 1))

	w := doJSON(r, http.MethodPost, "/auth/signup", gin.H{
		"name":     "Tester",
		"username": "tester",
		"email":    "tester@finlook.app",
		"mobile":   "9876543210",
	})

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	_, token := authResponseOf(t, w)

	claims, err := utils_auth.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, claims.Role)
	assert.Equal(t, "tester@finlook.app", claims.Email)

	// The OTP must actually land in the store.
	code, err := mr.Get("otp:9876543210")
	require.NoError(t, err)
	assert.Regexp(t, `^\d{6}$`, code)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSignUpDuplicateConflicts(t *testing.T) {
	tests := []struct {
		constraint string
		message    string
	}{
		{"users_username_key", "username already taken"},
		{"users_email_key", "email already registered"},
		{"users_mobile_key", "mobile number already registered"},
	}

	for _, tt := range tests {
		t.Run(tt.constraint, func(t *testing.T) {
			r, mock, _ := newTestRouter(t)
			r.POST("/auth/signup", SignUp)

			mock.ExpectExec("INSERT INTO users").
				WillReturnError(&pq.Error{Code: "23505", Constraint: tt.constraint})

			w := doJSON(r, http.MethodPost, "/auth/signup", gin.H{
				"name":     "Tester",
				"username": "tester",
				"email":    "tester@finlook.app",
				"mobile":   "9876543210",
			})

			assert.Equal(t, http.StatusConflict, w.Code)
			assert.Contains(t, w.Body.String(), tt.message)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestSignUpRejectsBadMobile(t *testing.T) {
	r, _, _ := newTestRouter(t)
	r.POST("/auth/signup", SignUp)

	w := doJSON(r, http.MethodPost, "/auth/signup", gin.H{
		"name":     "Tester",
		"username": "tester",
		"email":    "tester@finlook.app",
		"mobile":   "98765",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestVerifyOTPIssuesUserToken(t *testing.T) {
	r, mock, mr := newTestRouter(t)
	r.POST("/auth/verify-otp", VerifyOTP)

	require.NoError(t, mr.Set("otp:9876543210", "123456"))

	userID := uuid.New()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET is_verified = TRUE")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM users WHERE mobile = $1")).
		WillReturnRows(userRow(userID, "9876543210", models.RoleUser, nil))

	w := doJSON(r, http.MethodPost, "/auth/verify-otp", gin.H{
		"mobile": "9876543210",
		"code":   "123456",
	})

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	data, token := authResponseOf(t, w)

	claims, err := utils_auth.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, claims.Role)
	assert.Equal(t, userID, claims.UserID)

	user := data["user"].(map[string]interface{})
	assert.Equal(t, true, user["is_verified"])

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVerifyOTPWrongCode(t *testing.T) {
	r, _, mr := newTestRouter(t)
	r.POST("/auth/verify-otp", VerifyOTP)

	require.NoError(t, mr.Set("otp:9876543210", "123456"))

	w := doJSON(r, http.MethodPost, "/auth/verify-otp", gin.H{
		"mobile": "9876543210",
		"code":   "654321",
	})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminSignIn(t *testing.T) {
	hash := utils_auth.GenerateArgon2Hash("correct-horse-battery")
	adminID := uuid.New()

	t.Run("correct password", func(t *testing.T) {
		r, mock, _ := newTestRouter(t)
		r.POST("/auth/admin/signin", AdminSignIn)

		mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM users WHERE email = $1")).
			WillReturnRows(userRow(adminID, "9876543210", models.RoleAdmin, hash))

		w := doJSON(r, http.MethodPost, "/auth/admin/signin", gin.H{
			"email":    "tester@finlook.app",
			"password": "correct-horse-battery",
		})

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		_, token := authResponseOf(t, w)

		claims, err := utils_auth.ParseToken(token)
		require.NoError(t, err)
		assert.Equal(t, models.RoleAdmin, claims.Role)
	})

	t.Run("wrong password", func(t *testing.T) {
		r, mock, _ := newTestRouter(t)
		r.POST("/auth/admin/signin", AdminSignIn)

		mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM users WHERE email = $1")).
			WillReturnRows(userRow(adminID, "9876543210", models.RoleAdmin, hash))

		w := doJSON(r, http.MethodPost, "/auth/admin/signin", gin.H{
			"email":    "tester@finlook.app",
			"password": "wrong-password",
		})

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("non-admin account", func(t *testing.T) {
		r, mock, _ := newTestRouter(t)
		r.POST("/auth/admin/signin", AdminSignIn)

		mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM users WHERE email = $1")).
			WillReturnRows(userRow(adminID, "9876543210", models.RoleUser, hash))

		w := doJSON(r, http.MethodPost, "/auth/admin/signin", gin.H{
			"email":    "tester@finlook.app",
			"password": "correct-horse-battery",
		})

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
