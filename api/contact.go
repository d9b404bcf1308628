package api

import (
	"net/http"
	"strings"
	"time"

	"neurodrafts/notes-api/model"
	"neurodrafts/notes-api/validators"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type contactBody struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// ContactSubmit stores a contact form message for later review
func (a *API) ContactSubmit(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	var data contactBody
	if err := c.ShouldBind(&data); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid request body",
			"requestID": requestID,
		})
		return
	}

	if strings.TrimSpace(data.Message) == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Message can't be empty",
			"requestID": requestID,
		})
		return
	}

	if err := validators.EmailValidator(data.Email); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     err.Error(),
			"requestID": requestID,
		})
		return
	}

	msg := model.ContactMessage{
		Name:      strings.TrimSpace(data.Name),
		Email:     data.Email,
		Message:   strings.TrimSpace(data.Message),
		CreatedAt: time.Now().Unix(),
	}

	if err := a.DB.Create(&msg).Error; err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to store contact message", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id": msg.ID,
	})
}
