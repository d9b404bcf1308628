package api

import (
	"errors"
	"net/http"

	"neurodrafts/notes-api/demo"
	"neurodrafts/notes-api/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// owner is the resolved identity a request's data is scoped to. Either
// UserID or SessionID is set, never both.
type owner struct {
	UserID    string
	SessionID string
	Admin     bool
}

// scope narrows a query to rows the owner may touch. Admins see
// everything.
func (o owner) scope(q *gorm.DB) *gorm.DB {
	if o.Admin {
		return q
	}

	if o.UserID != "" {
		return q.Where("user_id = ?", o.UserID)
	}

	return q.Where("demo_session_id = ?", o.SessionID)
}

// ids returns the pointer pair stored on owned rows
func (o owner) ids() (userID, sessionID *string) {
	if o.UserID != "" {
		return &o.UserID, nil
	}

	return nil, &o.SessionID
}

// resolveOwner decides who the caller is: a logged in user (set by the
// optional JWT middleware) or an anonymous visitor with an active demo
// session. Without either the request is rejected and the caller has
// to go through login or demo entry. Returns false after writing the
// response.
func (a *API) resolveOwner(c *gin.Context) (owner, bool) {
	requestID := c.MustGet("requestID").(string)

	if userID := c.GetString("userID"); userID != "" {
		return owner{
			UserID: userID,
			Admin:  c.GetString("userRole") == model.RoleAdmin,
		}, true
	}

	s, err := a.Demo.Active(c.ClientIP())
	if err != nil {
		if errors.Is(err, demo.ErrNoActiveSession) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error":     "Demo session expired or missing. Log in or start a new demo",
				"requestID": requestID,
			})
			return owner{}, false
		}

		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to resolve demo session", zap.Error(err), zap.String("requestID", requestID))
		return owner{}, false
	}

	return owner{SessionID: s.ID}, true
}

// ownedFolder loads a folder only if the owner may touch it
func (a *API) ownedFolder(c *gin.Context, o owner, folderID string) (*model.Folder, bool) {
	requestID := c.MustGet("requestID").(string)

	var folder model.Folder

	err := o.scope(a.DB.Where("id = ?", folderID)).First(&folder).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
				"error":     "Folder not found. It either doesn't exist or you don't own it",
				"requestID": requestID,
			})
			return nil, false
		}

		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to look up folder", zap.Error(err), zap.String("requestID", requestID))
		return nil, false
	}

	return &folder, true
}
