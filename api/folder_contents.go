package api

import (
	"net/http"

	"neurodrafts/notes-api/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// FolderContents returns a folder's notes and files in one response so
// the folder view needs a single round trip.
func (a *API) FolderContents(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	o, ok := a.resolveOwner(c)
	if !ok {
		return
	}

	folder, ok := a.ownedFolder(c, o, c.Param("folderID"))
	if !ok {
		return
	}

	notes := []model.Note{}
	files := []model.File{}

	err := a.DB.Where("folder_id = ?", folder.ID).Order("created_at DESC").Find(&notes).Error
	if err == nil {
		err = a.DB.Where("folder_id = ?", folder.ID).Order("created_at DESC").Find(&files).Error
	}

	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to fetch folder contents", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"folder": folder,
		"notes":  notes,
		"files":  files,
	})
}
