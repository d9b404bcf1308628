package api

import (
	"errors"
	"net/http"
	"time"

	"neurodrafts/notes-api/model"
	"neurodrafts/notes-api/service"
	"neurodrafts/notes-api/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type forgotBody struct {
	Email string `json:"email"`
}

// UserForgotPassword mails a reset code. The response is the same
// whether the email exists or not, so it can't be used to probe for
// accounts.
func (a *API) UserForgotPassword(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	var data forgotBody
	if err := c.ShouldBind(&data); err != nil || data.Email == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Email is required",
			"requestID": requestID,
		})
		return
	}

	var user model.User

	err := a.DB.Where("email = ?", data.Email).First(&user).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			zap.L().Error("Failed to look up user", zap.Error(err), zap.String("requestID", requestID))
		}

		c.Status(http.StatusOK)
		return
	}

	code, err := util.RandDigits(6)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to generate reset code", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	err = a.DB.Create(&model.EmailCode{
		UserID:    user.ID,
		Code:      code,
		Purpose:   model.CodePurposeReset,
		ExpiresAt: time.Now().Add(codeTTL),
		CreatedAt: time.Now(),
	}).Error
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to store reset code", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if err := service.SendCodeMail(user.Email, code, model.CodePurposeReset); err != nil {
		zap.L().Error("Failed to send reset email", zap.Error(err), zap.String("requestID", requestID))
	}

	c.Status(http.StatusOK)
}
