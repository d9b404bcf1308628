package api

import (
	"errors"
	"math"
	"net/http"
	"time"

	"neurodrafts/notes-api/demo"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// DemoEnter starts an anonymous demo session for the caller's IP, or
// re-enters the one that is already running. Banned IPs are told how
// long until they may come back.
func (a *API) DemoEnter(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	res, err := a.Demo.Enter(c.ClientIP())
	if err != nil {
		var banned *demo.BannedError
		if errors.As(err, &banned) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"status":              "rejected",
				"retry_after_minutes": int(math.Ceil(banned.RetryAfter(time.Now()).Minutes())),
				"requestID":           requestID,
			})
			return
		}

		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to enter demo", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	status := "active"
	if res.Created {
		status = "created"
	}

	c.JSON(http.StatusOK, gin.H{
		"status":            status,
		"session_id":        res.Session.ID,
		"remaining_seconds": max(0, int(time.Until(res.Session.ExpiresAt).Seconds())),
		"expires_at":        res.Session.ExpiresAt.UTC(),
	})
}
