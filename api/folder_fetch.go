package api

import (
	"net/http"

	"neurodrafts/notes-api/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func (a *API) FolderFetch(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	o, ok := a.resolveOwner(c)
	if !ok {
		return
	}

	folders := []model.Folder{}

	err := o.scope(a.DB.Model(model.Folder{})).
		Order("created_at DESC").
		Find(&folders).
		Error
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to fetch folders", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, folders)
}
