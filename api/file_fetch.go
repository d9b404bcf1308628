package api

import (
	"net/http"

	"neurodrafts/notes-api/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func (a *API) FileFetch(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	o, ok := a.resolveOwner(c)
	if !ok {
		return
	}

	folder, ok := a.ownedFolder(c, o, c.Param("folderID"))
	if !ok {
		return
	}

	files := []model.File{}

	err := a.DB.Where("folder_id = ?", folder.ID).
		Order("created_at DESC").
		Find(&files).
		Error
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to fetch files", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, files)
}
