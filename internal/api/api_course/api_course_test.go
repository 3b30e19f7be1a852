package api_course

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/fortaxe/finlook-backend/internal/middleware"
	"github.com/fortaxe/finlook-backend/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var courseColumns = []string{
	"id", "title", "description", "price", "original_price", "level",
	"category", "thumbnail", "is_active", "creation_date", "updated_date",
}

func courseRow(id uuid.UUID, price int) *sqlmock.Rows {
	return sqlmock.NewRows(courseColumns).AddRow(
		id.String(), "Options 101", "Learn options", price, nil,
		"beginner", "derivatives", nil, true, time.Now().UTC(), nil)
}

type viewer struct {
	id   uuid.UUID
	role models.Role
}

func newTestRouter(t *testing.T, v *viewer) (*gin.Engine, sqlmock.Sqlmock) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	db := sqlx.NewDb(mockDB, "postgres").Unsafe()

	r := gin.New()
	r.Use(middleware.ErrorHandler())
	r.Use(func(c *gin.Context) {
		c.Set("db", db)
		if v != nil {
			c.Set("UserID", v.id)
			c.Set("Role", v.role)
		}
	})

	return r, mock
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

func dataOf(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	data, _ := body["data"].(map[string]interface{})
	return data
}

func TestPurchaseSnapshotsPrice(t *testing.T) {
	v := &viewer{id: uuid.New(), role: models.RoleUser}
	courseID := uuid.New()
	r, mock := newTestRouter(t, v)
	r.POST("/courses/:id/purchase", Purchase)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM courses WHERE id = $1 AND is_active")).
		WillReturnRows(courseRow(courseID, 49900))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM course_purchases")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec("INSERT INTO course_purchases").
		WillReturnResult(sqlmock.NewResult(0, 1))

	w := doJSON(r, http.MethodPost, "/courses/"+courseID.String()+"/purchase", nil)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	data := dataOf(t, w)
	assert.Equal(t, float64(49900), data["purchase_price"])

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPurchaseTwiceConflicts(t *testing.T) {
	v := &viewer{id: uuid.New(), role: models.RoleUser}
	courseID := uuid.New()
	r, mock := newTestRouter(t, v)
	r.POST("/courses/:id/purchase", Purchase)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM courses WHERE id = $1 AND is_active")).
		WillReturnRows(courseRow(courseID, 49900))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM course_purchases")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	w := doJSON(r, http.MethodPost, "/courses/"+courseID.String()+"/purchase", nil)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPurchaseInactiveCourse(t *testing.T) {
	v := &viewer{id: uuid.New(), role: models.RoleUser}
	r, mock := newTestRouter(t, v)
	r.POST("/courses/:id/purchase", Purchase)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM courses WHERE id = $1 AND is_active")).
		WillReturnRows(sqlmock.NewRows(courseColumns))

	w := doJSON(r, http.MethodPost, "/courses/"+uuid.NewString()+"/purchase", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListVideosRequiresPurchase(t *testing.T) {
	v := &viewer{id: uuid.New(), role: models.RoleUser}
	courseID := uuid.New()
	r, mock := newTestRouter(t, v)
	r.GET("/courses/:id/videos", ListVideos)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM courses WHERE id = $1 AND is_active")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM course_purchases")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	w := doJSON(r, http.MethodGet, "/courses/"+courseID.String()+"/videos", nil)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListVideosAdminSkipsGate(t *testing.T) {
	v := &viewer{id: uuid.New(), role: models.RoleAdmin}
	courseID := uuid.New()
	r, mock := newTestRouter(t, v)
	r.GET("/courses/:id/videos", ListVideos)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM courses WHERE id = $1 AND is_active")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM course_videos WHERE course_id = $1 AND is_active")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "course_id", "title", "video_url", "duration", "order_index", "is_active", "creation_date", "updated_date"}).
			AddRow(uuid.NewString(), courseID.String(), "Intro", "https://cdn.finlook.app/v1.mp4", 120, 0, true, time.Now().UTC(), nil))

	w := doJSON(r, http.MethodGet, "/courses/"+courseID.String()+"/videos", nil)

	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListVideosAnonymousPasses(t *testing.T) {
	courseID := uuid.New()
	r, mock := newTestRouter(t, nil)
	r.GET("/courses/:id/videos", ListVideos)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM courses WHERE id = $1 AND is_active")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM course_videos WHERE course_id = $1 AND is_active")).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	w := doJSON(r, http.MethodGet, "/courses/"+courseID.String()+"/videos", nil)

	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNewCourseRollsBackOnVideoFailure(t *testing.T) {
	v := &viewer{id: uuid.New(), role: models.RoleAdmin}
	r, mock := newTestRouter(t, v)
	r.POST("/courses", New)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO courses").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO course_videos").
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	w := doJSON(r, http.MethodPost, "/courses", gin.H{
		"title":       "Options 101",
		"description": "Learn options",
		"price":       49900,
		"level":       "beginner",
		"category":    "derivatives",
		"videos": []gin.H{
			{"title": "Intro", "video_url": "https://cdn.finlook.app/v1.mp4", "duration": 120},
		},
	})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteIsSoft(t *testing.T) {
	v := &viewer{id: uuid.New(), role: models.RoleAdmin}
	courseID := uuid.New()
	r, mock := newTestRouter(t, v)
	r.DELETE("/courses/:id", Delete)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE courses SET is_active = FALSE")).
		WillReturnResult(sqlmock.NewResult(0, 1))

	w := doJSON(r, http.MethodDelete, "/courses/"+courseID.String(), nil)

	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteAlreadyInactive(t *testing.T) {
	v := &viewer{id: uuid.New(), role: models.RoleAdmin}
	r, mock := newTestRouter(t, v)
	r.DELETE("/courses/:id", Delete)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE courses SET is_active = FALSE")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	w := doJSON(r, http.MethodDelete, "/courses/"+uuid.NewString(), nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
