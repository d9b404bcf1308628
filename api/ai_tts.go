package api

import (
	"io"
	"net/http"
	"slices"

	"neurodrafts/notes-api/ai"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AIVoices lists the voices the TTS endpoint accepts. Public and
// cached, the list only changes with the upstream API.
func (a *API) AIVoices(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"voices":  ai.Voices,
		"default": a.AI.DefaultVoice(),
	})
}

// AINoteAudio summarizes the note and reads the summary aloud,
// streaming mpeg audio as it arrives from the TTS endpoint.
func (a *API) AINoteAudio(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	text, data, ok := a.bindNoteText(c)
	if !ok {
		return
	}

	if data.Voice != "" && !slices.Contains(ai.Voices, data.Voice) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Unknown voice",
			"requestID": requestID,
		})
		return
	}

	summary, err := a.AI.Chat(c.Request.Context(),
		"Summarize the note in a short spoken form, a minute of speech at most, in the same language as the note. Plain sentences only, no markdown.",
		text, 500, 0.3)
	if err != nil {
		aiError(c, requestID, err)
		return
	}

	audio, err := a.AI.Speech(c.Request.Context(), summary, data.Voice)
	if err != nil {
		aiError(c, requestID, err)
		return
	}
	defer audio.Close()

	c.Header("Content-Type", "audio/mpeg")
	c.Status(http.StatusOK)

	if _, err := io.Copy(c.Writer, audio); err != nil {
		zap.L().Debug("Audio stream interrupted", zap.Error(err), zap.String("requestID", requestID))
	}
}
