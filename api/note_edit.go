package api

import (
	"errors"
	"net/http"
	"strings"

	"neurodrafts/notes-api/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type noteEditBody struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
}

func (a *API) NoteEdit(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	o, ok := a.resolveOwner(c)
	if !ok {
		return
	}

	var data noteEditBody
	if err := c.ShouldBind(&data); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid request body",
			"requestID": requestID,
		})
		return
	}

	if data.Title == nil && data.Content == nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Nothing to update",
			"requestID": requestID,
		})
		return
	}

	var note model.Note

	err := o.scope(a.DB.Where("id = ?", c.Param("noteID"))).First(&note).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
				"error":     "Note not found. It either doesn't exist or you don't own it",
				"requestID": requestID,
			})
			return
		}

		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to look up note", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	updates := map[string]any{}

	if data.Title != nil {
		t := strings.TrimSpace(*data.Title)
		if t == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error":     "Note title can't be empty",
				"requestID": requestID,
			})
			return
		}

		updates["title"] = t
		note.Title = t
	}

	if data.Content != nil {
		updates["content"] = *data.Content
		note.Content = *data.Content
	}

	err = a.DB.Model(model.Note{}).
		Where("id = ?", note.ID).
		Updates(updates).
		Error
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to update note", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, note)
}
