package api

import (
	"errors"
	"net/http"
	"strings"

	"neurodrafts/notes-api/ai"
	"neurodrafts/notes-api/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AIFolderSummary summarizes everything in a folder, notes and
// extracted file text alike.
func (a *API) AIFolderSummary(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	_, content, _, ok := a.bindFolderContent(c)
	if !ok {
		return
	}

	out, err := a.AI.Chat(c.Request.Context(),
		"You summarize study material. Write a concise summary of the provided content, in the same language as the content.",
		content, 800, 0.3)
	if err != nil {
		aiError(c, requestID, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"summary": out,
	})
}

// AIFolderTags generates up to five short topic tags for a folder and
// stores them on the folder row.
func (a *API) AIFolderTags(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	folder, content, _, ok := a.bindFolderContent(c)
	if !ok {
		return
	}

	out, err := a.AI.Chat(c.Request.Context(),
		"Extract at most 5 short topic tags from the content. Answer with the tags only, comma separated, no numbering.",
		content, 100, 0.2)
	if err != nil {
		aiError(c, requestID, err)
		return
	}

	tags := model.StringSlice{}

	for _, t := range strings.Split(out, ",") {
		t = strings.Trim(strings.TrimSpace(t), ".#")
		if t != "" && len(tags) < 5 {
			tags = append(tags, t)
		}
	}

	err = a.DB.Model(model.Folder{}).
		Where("id = ?", folder.ID).
		Update("tags", tags).
		Error
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to store folder tags", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tags": tags,
	})
}

// AIFolderChat answers a free form question using the folder's content
// as the only source material.
func (a *API) AIFolderChat(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	_, content, data, ok := a.bindFolderContent(c)
	if !ok {
		return
	}

	if strings.TrimSpace(data.Question) == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "question is required",
			"requestID": requestID,
		})
		return
	}

	out, err := a.AI.Chat(c.Request.Context(),
		"Answer the user's question using only the provided content. Say so when the content doesn't cover the question. Answer in the user's language.",
		"Content:\n"+content+"\n\nQuestion: "+data.Question, 800, 0.4)
	if err != nil {
		aiError(c, requestID, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"answer": out,
	})
}

const deckPrompt = `Build a slide deck from the content as JSON with this shape:
{"title": "...", "slides": [{"title": "...", "bullets": ["..."], "notes": "..."}]}
Between 6 and 10 slides, at most 5 short bullets each, speaker notes of 2-3 sentences per slide.
Use the language of the content. Answer with JSON only.`

// AIFolderPresentation builds a normalized slide deck from a folder
// and optionally pushes it to Canva as a design.
func (a *API) AIFolderPresentation(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	folder, content, data, ok := a.bindFolderContent(c)
	if !ok {
		return
	}

	out, err := a.AI.Chat(c.Request.Context(), deckPrompt, content, 2500, 0.5)
	if err != nil {
		aiError(c, requestID, err)
		return
	}

	deck := ai.ParsePresentation(out)
	if deck.Title == "" {
		deck.Title = folder.Name
	}

	deck = ai.Normalize(deck)

	resp := gin.H{
		"presentation": deck,
		"markdown":     ai.DeckMarkdown(deck),
	}

	if data.PushToCanva {
		res, err := a.Canva.Push(c.Request.Context(), deck)
		if err != nil {
			if errors.Is(err, ai.ErrCanvaNotConnected) {
				c.AbortWithStatusJSON(http.StatusConflict, gin.H{
					"error":     "Canva is not connected",
					"requestID": requestID,
				})
				return
			}

			c.AbortWithStatusJSON(http.StatusBadGateway, gin.H{
				"error":     "Canva push failed",
				"requestID": requestID,
			})

			zap.L().Error("Canva push failed", zap.Error(err), zap.String("requestID", requestID))
			return
		}

		resp["canva"] = res
	}

	c.JSON(http.StatusOK, resp)
}

// AIFolderPresentationGamma builds the same deck but renders it as
// markdown ready to paste into Gamma.
func (a *API) AIFolderPresentationGamma(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	folder, content, _, ok := a.bindFolderContent(c)
	if !ok {
		return
	}

	out, err := a.AI.Chat(c.Request.Context(), deckPrompt, content, 2500, 0.5)
	if err != nil {
		aiError(c, requestID, err)
		return
	}

	deck := ai.ParsePresentation(out)
	if deck.Title == "" {
		deck.Title = folder.Name
	}

	deck = ai.Normalize(deck)

	c.JSON(http.StatusOK, gin.H{
		"presentation": deck,
		"markdown":     ai.GammaMarkdown(deck),
	})
}
