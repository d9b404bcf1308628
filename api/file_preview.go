package api

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"neurodrafts/notes-api/model"
	"neurodrafts/notes-api/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// FilePreview streams the stored file back. Zipped uploads are
// unpacked on the fly so the browser sees the original, images come
// back as the recompressed JPEG.
func (a *API) FilePreview(c *gin.Context) {
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

	rc, err := a.Store.Open(c.Request.Context(), file.FileKey)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to open stored file", zap.Error(err), zap.String("requestID", requestID))
		return
	}
	defer rc.Close()

	if strings.HasSuffix(file.FileKey, ".zip") {
		data, err := io.ReadAll(rc)
		if err == nil {
			_, content, uerr := util.UnzipFirst(data)
			err = uerr
			data = content
		}

		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error":     "Internal server error",
				"requestID": requestID,
			})

			zap.L().Error("Failed to unpack stored file", zap.Error(err), zap.String("requestID", requestID))
			return
		}

		c.Header("Content-Disposition", `inline; filename="`+file.OriginalName+`"`)
		c.Data(http.StatusOK, file.Format, data)
		return
	}

	c.Header("Content-Disposition", `inline; filename="`+file.OriginalName+`"`)
	c.Header("Content-Type", "image/jpeg")
	c.Status(http.StatusOK)

	if _, err := io.Copy(c.Writer, rc); err != nil {
		zap.L().Debug("Preview stream interrupted", zap.Error(err), zap.String("requestID", requestID))
	}
}
