package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

func (a *API) AINoteSummary(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	text, _, ok := a.bindNoteText(c)
	if !ok {
		return
	}

	out, err := a.AI.Chat(c.Request.Context(),
		"Summarize the note in a few short paragraphs, in the same language as the note.",
		text, 600, 0.3)
	if err != nil {
		aiError(c, requestID, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"summary": out,
	})
}

func (a *API) AINoteTitle(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	text, _, ok := a.bindNoteText(c)
	if !ok {
		return
	}

	out, err := a.AI.Chat(c.Request.Context(),
		"Suggest one short title for the note, at most 8 words, in the note's language. Answer with the title only, no quotes.",
		text, 40, 0.5)
	if err != nil {
		aiError(c, requestID, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"title": strings.Trim(out, `"' `),
	})
}

func (a *API) AINoteMarkdown(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	text, _, ok := a.bindNoteText(c)
	if !ok {
		return
	}

	out, err := a.AI.Chat(c.Request.Context(),
		"Reformat the note as clean markdown with headings and lists where they help. Keep the wording, fix only structure and obvious typos. Answer with markdown only.",
		text, 2000, 0.2)
	if err != nil {
		aiError(c, requestID, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"markdown": out,
	})
}

func (a *API) AINoteChat(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	text, data, ok := a.bindNoteText(c)
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
		"Answer the user's question using only the provided note. Say so when the note doesn't cover the question. Answer in the user's language.",
		"Note:\n"+text+"\n\nQuestion: "+data.Question, 800, 0.4)
	if err != nil {
		aiError(c, requestID, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"answer": out,
	})
}

// AINoteReferences lists the sources a note mentions, useful for
// building a bibliography from lecture notes.
func (a *API) AINoteReferences(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	text, _, ok := a.bindNoteText(c)
	if !ok {
		return
	}

	out, err := a.AI.Chat(c.Request.Context(),
		"List the books, papers, people and other sources the note references, one per line. Answer with the list only, or an empty answer when there are none.",
		text, 400, 0.2)
	if err != nil {
		aiError(c, requestID, err)
		return
	}

	refs := []string{}

	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(strings.TrimLeft(line, "-*0123456789. "))
		if line != "" {
			refs = append(refs, line)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"references": refs,
	})
}
