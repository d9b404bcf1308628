package api

import (
	"errors"
	"net/http"

	"neurodrafts/notes-api/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func (a *API) FileDelete(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	o, ok := a.resolveOwner(c)
	if !ok {
		return
	}

	var file model.File

	err := o.scope(a.DB.Where("id = ?", c.Param("fileID"))).First(&file).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
				"error":     "File not found. It either doesn't exist or you don't own it",
				"requestID": requestID,
			})
			return
		}

		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to look up file", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if err := a.DB.Delete(&model.File{}, file.ID).Error; err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to delete file record", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if err := a.Store.Delete(c.Request.Context(), file.FileKey); err != nil {
		// Row is gone, an orphaned blob is only a cost problem
		zap.L().Error("Failed to delete stored file", zap.Error(err), zap.String("requestID", requestID))
	}

	c.Status(http.StatusOK)
}
