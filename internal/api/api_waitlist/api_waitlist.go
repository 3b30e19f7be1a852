package api_waitlist

import (
	"net/http"
	"time"

	"github.com/fortaxe/finlook-backend/internal/models"
	"github.com/fortaxe/finlook-backend/internal/models/api_error"
	"github.com/fortaxe/finlook-backend/internal/utils/utils_db"
	"github.com/fortaxe/finlook-backend/internal/utils/utils_handler"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func Join(c *gin.Context) {
	db := utils_handler.GetDB(c)

	req, err := utils_handler.GetObj[models.WaitlistJoinRequest](c)
	if err != nil {
		c.Error(api_error.NewFromErr(err, http.StatusBadRequest))
		return
	}

	entry := models.WaitlistUser{
		ID:           uuid.New(),
		Name:         req.Name,
		Email:        req.Email,
		Mobile:       req.Mobile,
		CreationDate: time.Now().UTC(),
	}

	_, err = db.Exec(
		"INSERT INTO waitlist_users (id, name, email, mobile, creation_date) VALUES ($1, $2, $3, $4, $5)",
		entry.ID, entry.Name, entry.Email, entry.Mobile, entry.CreationDate)
	if err != nil {
		if utils_db.IsUniqueViolation(err) {
			c.Error(api_error.Conflict("email already on the waitlist"))
			return
		}
		c.Error(err)
		return
	}

	utils_handler.Created(c, "joined the waitlist", entry)
}

func CountEntries(c *gin.Context) {
	db := utils_handler.GetDB(c)

	total, err := utils_db.Count(db, "SELECT COUNT(*) FROM waitlist_users")
	if err != nil {
		c.Error(err)
		return
	}

	utils_handler.OK(c, "waitlist count fetched", gin.H{"count": total})
}

func AdminList(c *gin.Context) {
	db := utils_handler.GetDB(c)

	page, limit, err := utils_handler.GetPageReq(c)
	if err != nil {
		c.Error(err)
		return
	}

	entries, err := utils_db.FetchAll[models.WaitlistUser](db,
		"SELECT * FROM waitlist_users ORDER BY creation_date DESC LIMIT $1 OFFSET $2",
		limit, (page-1)*limit)
	if err != nil {
		c.Error(err)
		return
	}

	total, err := utils_db.Count(db, "SELECT COUNT(*) FROM waitlist_users")
	if err != nil {
		c.Error(err)
		return
	}

	utils_handler.Paginated(c, "waitlist fetched", entries, models.NewPagination(page, limit, total))
}

func AdminDelete(c *gin.Context) {
	db := utils_handler.GetDB(c)

	entryID, err := utils_handler.GetIDParam(c, "id")
	if err != nil {
		c.Error(err)
		return
	}

	result, err := db.Exec("DELETE FROM waitlist_users WHERE id = $1", entryID)
	if err != nil {
		c.Error(err)
		return
	}

	if rows, _ := result.RowsAffected(); rows == 0 {
		c.Error(api_error.NotFound("waitlist entry not found"))
		return
	}

	utils_handler.OK(c, "waitlist entry deleted", nil)
}
