package api

import (
	"fmt"
	"net/http"
	"strings"

	"neurodrafts/notes-api/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Keeps prompts inside the model's context window. Folder content past
// this point rarely changes a summary anyway.
const maxPromptRunes = 24000

type aiFolderBody struct {
	FolderID uint   `json:"folder_id"`
	Question string `json:"question"`

	// folder_presentation only
	PushToCanva bool `json:"push_to_canva"`
}

type aiNoteBody struct {
	NoteID uint   `json:"note_id"`
	Text   string `json:"text"`

	Question string `json:"question"`
	Voice    string `json:"voice"`
}

// bindFolderContent resolves the caller, loads the requested folder
// and assembles its notes and extracted file text into one prompt
// blob. Returns false after writing the response.
func (a *API) bindFolderContent(c *gin.Context) (*model.Folder, string, aiFolderBody, bool) {
	requestID := c.MustGet("requestID").(string)

	var data aiFolderBody
	if err := c.ShouldBind(&data); err != nil || data.FolderID == 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "folder_id is required",
			"requestID": requestID,
		})
		return nil, "", data, false
	}

	o, ok := a.resolveOwner(c)
	if !ok {
		return nil, "", data, false
	}

	folder, ok := a.ownedFolder(c, o, fmt.Sprint(data.FolderID))
	if !ok {
		return nil, "", data, false
	}

	var (
		notes []model.Note
		files []model.File
	)

	err := a.DB.Where("folder_id = ?", folder.ID).Find(&notes).Error
	if err == nil {
		err = a.DB.Where("folder_id = ?", folder.ID).Find(&files).Error
	}

	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to fetch folder contents", zap.Error(err), zap.String("requestID", requestID))
		return nil, "", data, false
	}

	var sb strings.Builder

	for _, n := range notes {
		fmt.Fprintf(&sb, "# %s\n%s\n\n", n.Title, n.Content)
	}

	for _, f := range files {
		if strings.TrimSpace(f.ExtractedText) == "" {
			continue
		}

		fmt.Fprintf(&sb, "# %s\n%s\n\n", f.OriginalName, f.ExtractedText)
	}

	content := strings.TrimSpace(sb.String())
	if content == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Folder has no usable content",
			"requestID": requestID,
		})
		return nil, "", data, false
	}

	if runes := []rune(content); len(runes) > maxPromptRunes {
		content = string(runes[:maxPromptRunes])
	}

	return folder, content, data, true
}

// bindNoteText resolves the text an AI note endpoint works on: either
// raw text in the body or the content of an owned note. Returns false
// after writing the response.
func (a *API) bindNoteText(c *gin.Context) (string, aiNoteBody, bool) {
	requestID := c.MustGet("requestID").(string)

	var data aiNoteBody
	if err := c.ShouldBind(&data); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid request body",
			"requestID": requestID,
		})
		return "", data, false
	}

	text := strings.TrimSpace(data.Text)

	if text == "" && data.NoteID != 0 {
		o, ok := a.resolveOwner(c)
		if !ok {
			return "", data, false
		}

		var note model.Note

		if err := o.scope(a.DB.Where("id = ?", data.NoteID)).First(&note).Error; err != nil {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
				"error":     "Note not found. It either doesn't exist or you don't own it",
				"requestID": requestID,
			})
			return "", data, false
		}

		text = strings.TrimSpace(note.Content)
	}

	if text == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Either text or note_id with content is required",
			"requestID": requestID,
		})
		return "", data, false
	}

	if runes := []rune(text); len(runes) > maxPromptRunes {
		text = string(runes[:maxPromptRunes])
	}

	return text, data, true
}

// aiError maps an upstream AI failure to a response
func aiError(c *gin.Context, requestID string, err error) {
	c.AbortWithStatusJSON(http.StatusBadGateway, gin.H{
		"error":     "AI request failed",
		"requestID": requestID,
	})

	zap.L().Error("AI request failed", zap.Error(err), zap.String("requestID", requestID))
}
