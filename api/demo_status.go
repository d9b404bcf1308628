package api

import (
	"errors"
	"net/http"

	"neurodrafts/notes-api/demo"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// DemoStatus reports the caller's demo session state without creating,
// refreshing or deleting anything. Used by the frontend countdown.
func (a *API) DemoStatus(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	st, err := a.Demo.Status(c.ClientIP())
	if err != nil {
		if errors.Is(err, demo.ErrSessionNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
				"error":     "No demo session for this address",
				"requestID": requestID,
			})
			return
		}

		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to check demo status", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"active":            st.Active,
		"remaining_seconds": st.RemainingSeconds,
		"expires_at":        st.ExpiresAt.UTC(),
	})
}
