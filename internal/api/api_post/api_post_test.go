package api_post

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
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var postViewColumns = []string{
	"id", "user_id", "username", "name", "avatar", "is_influencer",
	"content", "images", "like_count", "share_count", "bookmark_count",
	"is_retweet", "original_post_id", "creation_date", "updated_date",
}

func postViewRow(id, userID uuid.UUID, content string, isRetweet bool, originalID interface{}) *sqlmock.Rows {
	return sqlmock.NewRows(postViewColumns).AddRow(
		id.String(), userID.String(), "tester", "Tester", nil, false,
		content, "{}", 0, 0, 0,
		isRetweet, originalID, time.Now().UTC(), nil)
}

var postColumns = []string{
	"id", "user_id", "content", "images", "like_count", "share_count",
	"bookmark_count", "is_retweet", "original_post_id", "creation_date", "updated_date",
}

func newTestRouter(t *testing.T, viewerID *uuid.UUID) (*gin.Engine, sqlmock.Sqlmock) {
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
		if viewerID != nil {
			c.Set("UserID", *viewerID)
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

func envelope(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

// expectAssembly covers the queries AssemblePost runs for a plain post
// when a viewer is known: preview comments plus the three state probes.
func expectAssembly(mock sqlmock.Sqlmock, withViewer bool) {
	mock.ExpectQuery("FROM comments c").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	if withViewer {
		mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM likes")).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM bookmarks")).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM posts WHERE user_id = $1 AND original_post_id = $2")).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	}
}

func TestNewPostRejectsEmpty(t *testing.T) {
	userID := uuid.New()
	r, _ := newTestRouter(t, &userID)
	r.POST("/posts", New)

	w := doJSON(r, http.MethodPost, "/posts", gin.H{})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := envelope(t, w)
	assert.Equal(t, false, body["success"])
}

func TestNewPostStartsWithZeroCounters(t *testing.T) {
	userID := uuid.New()
	r, mock := newTestRouter(t, &userID)
	r.POST("/posts", New)

	mock.ExpectExec("INSERT INTO posts").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("FROM posts p").
		WillReturnRows(postViewRow(uuid.New(), userID, "hello", false, nil))
	expectAssembly(mock, true)

	w := doJSON(r, http.MethodPost, "/posts", gin.H{"content": "hello"})

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	body := envelope(t, w)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, float64(0), data["like_count"])
	assert.Equal(t, float64(0), data["share_count"])
	assert.Equal(t, float64(0), data["bookmark_count"])
	assert.NotNil(t, data["viewer"])

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRetweetOfRetweetRejected(t *testing.T) {
	userID := uuid.New()
	originalID := uuid.New()
	r, mock := newTestRouter(t, &userID)
	r.POST("/posts/retweet", Retweet)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM posts WHERE id = $1")).
		WillReturnRows(sqlmock.NewRows(postColumns).AddRow(
			originalID.String(), uuid.New().String(), "already a retweet", "{}",
			0, 0, 0, true, uuid.New().String(), time.Now().UTC(), nil))

	w := doJSON(r, http.MethodPost, "/posts/retweet", gin.H{"original_post_id": originalID})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRetweetMissingOriginal(t *testing.T) {
	userID := uuid.New()
	r, mock := newTestRouter(t, &userID)
	r.POST("/posts/retweet", Retweet)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM posts WHERE id = $1")).
		WillReturnRows(sqlmock.NewRows(postColumns))

	w := doJSON(r, http.MethodPost, "/posts/retweet", gin.H{"original_post_id": uuid.New()})

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRetweetDuplicateConflict(t *testing.T) {
	userID := uuid.New()
	originalID := uuid.New()
	r, mock := newTestRouter(t, &userID)
	r.POST("/posts/retweet", Retweet)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM posts WHERE id = $1")).
		WillReturnRows(sqlmock.NewRows(postColumns).AddRow(
			originalID.String(), uuid.New().String(), "original", "{}",
			0, 0, 0, false, nil, time.Now().UTC(), nil))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM posts WHERE user_id = $1 AND original_post_id = $2")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	w := doJSON(r, http.MethodPost, "/posts/retweet", gin.H{"original_post_id": originalID})

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRetweetBumpsShareCount(t *testing.T) {
	userID := uuid.New()
	originalID := uuid.New()
	originalAuthor := uuid.New()
	r, mock := newTestRouter(t, &userID)
	r.POST("/posts/retweet", Retweet)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM posts WHERE id = $1")).
		WillReturnRows(sqlmock.NewRows(postColumns).AddRow(
			originalID.String(), originalAuthor.String(), "original", "{}",
			0, 3, 0, false, nil, time.Now().UTC(), nil))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM posts WHERE user_id = $1 AND original_post_id = $2")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec("INSERT INTO posts").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE posts SET share_count = share_count + 1")).
		WithArgs(originalID.String()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	retweetID := uuid.New()
	mock.ExpectQuery("FROM posts p").
		WillReturnRows(postViewRow(retweetID, userID, "take", true, originalID.String()))
	expectAssembly(mock, true)

	// Depth-1 assembly of the original: its view plus comments only.
	mock.ExpectQuery("FROM posts p").
		WillReturnRows(postViewRow(originalID, originalAuthor, "original", false, nil))
	mock.ExpectQuery("FROM comments c").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	w := doJSON(r, http.MethodPost, "/posts/retweet", gin.H{"original_post_id": originalID, "content": "take"})

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	body := envelope(t, w)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, true, data["is_retweet"])

	original := data["original_post"].(map[string]interface{})
	assert.Equal(t, originalID.String(), original["id"])
	// Depth stops at one: the embedded original never carries its own
	// original_post.
	assert.Nil(t, original["original_post"])

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByIDNotFound(t *testing.T) {
	r, mock := newTestRouter(t, nil)
	r.GET("/posts/:id", GetByID)

	mock.ExpectQuery("FROM posts p").
		WillReturnRows(sqlmock.NewRows(postViewColumns))

	w := doJSON(r, http.MethodGet, "/posts/"+uuid.NewString(), nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByIDOmitsViewerState(t *testing.T) {
	r, mock := newTestRouter(t, nil)
	r.GET("/posts/:id", GetByID)

	postID := uuid.New()
	mock.ExpectQuery("FROM posts p").
		WillReturnRows(postViewRow(postID, uuid.New(), "hello", false, nil))
	expectAssembly(mock, false)

	w := doJSON(r, http.MethodGet, "/posts/"+postID.String(), nil)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := envelope(t, w)
	data := body["data"].(map[string]interface{})
	assert.Nil(t, data["viewer"])

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestToggleLikeOn(t *testing.T) {
	userID := uuid.New()
	postID := uuid.New()
	r, mock := newTestRouter(t, &userID)
	r.POST("/posts/:id/like", ToggleLike)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT like_count FROM posts WHERE id = $1")).
		WillReturnRows(sqlmock.NewRows([]string{"like_count"}).AddRow(0))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM likes")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec("INSERT INTO likes").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE posts SET like_count = like_count + 1")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT like_count FROM posts WHERE id = $1")).
		WillReturnRows(sqlmock.NewRows([]string{"like_count"}).AddRow(1))

	w := doJSON(r, http.MethodPost, "/posts/"+postID.String()+"/like", nil)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := envelope(t, w)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, true, data["active"])
	assert.Equal(t, float64(1), data["count"])

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestToggleLikeOff(t *testing.T) {
	userID := uuid.New()
	postID := uuid.New()
	r, mock := newTestRouter(t, &userID)
	r.POST("/posts/:id/like", ToggleLike)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT like_count FROM posts WHERE id = $1")).
		WillReturnRows(sqlmock.NewRows([]string{"like_count"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM likes")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectExec("DELETE FROM likes").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE posts SET like_count = like_count - 1")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT like_count FROM posts WHERE id = $1")).
		WillReturnRows(sqlmock.NewRows([]string{"like_count"}).AddRow(0))

	w := doJSON(r, http.MethodPost, "/posts/"+postID.String()+"/like", nil)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := envelope(t, w)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, false, data["active"])
	assert.Equal(t, float64(0), data["count"])

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateForbiddenForOtherUser(t *testing.T) {
	userID := uuid.New()
	postID := uuid.New()
	r, mock := newTestRouter(t, &userID)
	r.PUT("/posts/:id", Update)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM posts WHERE id = $1")).
		WillReturnRows(sqlmock.NewRows(postColumns).AddRow(
			postID.String(), uuid.New().String(), "someone else's", "{}",
			0, 0, 0, false, nil, time.Now().UTC(), nil))

	w := doJSON(r, http.MethodPut, "/posts/"+postID.String(), gin.H{"content": "hijack"})

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
