package api

import (
	"net/http"
	"strings"

	"neurodrafts/notes-api/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type folderEditBody struct {
	Name string `json:"name"`
}

func (a *API) FolderEdit(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	o, ok := a.resolveOwner(c)
	if !ok {
		return
	}

	var data folderEditBody
	if err := c.ShouldBind(&data); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid request body",
			"requestID": requestID,
		})
		return
	}

	data.Name = strings.TrimSpace(data.Name)
	if data.Name == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Folder name can't be empty",
			"requestID": requestID,
		})
		return
	}

	folder, ok := a.ownedFolder(c, o, c.Param("folderID"))
	if !ok {
		return
	}

	err := a.DB.Model(model.Folder{}).
		Where("id = ?", folder.ID).
		Update("name", data.Name).
		Error
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to rename folder", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	folder.Name = data.Name
	c.JSON(http.StatusOK, folder)
}
