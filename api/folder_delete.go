package api

import (
	"context"
	"net/http"

	"neurodrafts/notes-api/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// FolderDelete removes a folder with all its notes and files. Stored
// blobs go last, after the database commit, so a failed transaction
// never leaves file rows pointing at deleted blobs.
func (a *API) FolderDelete(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	o, ok := a.resolveOwner(c)
	if !ok {
		return
	}

	folder, ok := a.ownedFolder(c, o, c.Param("folderID"))
	if !ok {
		return
	}

	var keys []string

	err := a.DB.Transaction(func(tx *gorm.DB) error {
		err := tx.Model(model.File{}).
			Where("folder_id = ?", folder.ID).
			Pluck("file_key", &keys).
			Error
		if err != nil {
			return err
		}

		if err := tx.Where("folder_id = ?", folder.ID).Delete(&model.Note{}).Error; err != nil {
			return err
		}

		if err := tx.Where("folder_id = ?", folder.ID).Delete(&model.File{}).Error; err != nil {
			return err
		}

		return tx.Delete(&model.Folder{}, folder.ID).Error
	})
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to delete folder", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if len(keys) > 0 {
		if err := a.Store.Delete(context.TODO(), keys...); err != nil {
			// Rows are gone, orphaned blobs are only a cost problem
			zap.L().Error("Failed to delete stored files", zap.Error(err), zap.String("requestID", requestID))
		}
	}

	c.Status(http.StatusOK)
}
