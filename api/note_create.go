package api

import (
	"net/http"
	"strings"
	"time"

	"neurodrafts/notes-api/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type noteCreateBody struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

func (a *API) NoteCreate(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	o, ok := a.resolveOwner(c)
	if !ok {
		return
	}

	var data noteCreateBody
	if err := c.ShouldBind(&data); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid request body",
			"requestID": requestID,
		})
		return
	}

	data.Title = strings.TrimSpace(data.Title)
	if data.Title == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Note title can't be empty",
			"requestID": requestID,
		})
		return
	}

	folder, ok := a.ownedFolder(c, o, c.Param("folderID"))
	if !ok {
		return
	}

	userID, sessionID := o.ids()

	note := model.Note{
		Title:         data.Title,
		Content:       data.Content,
		FolderID:      folder.ID,
		UserID:        userID,
		DemoSessionID: sessionID,
		CreatedAt:     time.Now().Unix(),
	}

	if err := a.DB.Create(&note).Error; err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to create note", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusCreated, note)
}
