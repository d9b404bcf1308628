package api

import (
	"errors"
	"net/http"

	"neurodrafts/notes-api/model"
	"neurodrafts/notes-api/security"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type loginBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (a *API) UserLogin(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	var data loginBody
	if err := c.ShouldBind(&data); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid request body",
			"requestID": requestID,
		})

		zap.L().Error("Can't bind request body", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if data.Email == "" || data.Password == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Email and password are required",
			"requestID": requestID,
		})
		return
	}

	var user model.User

	if err := a.DB.Where("email = ?", data.Email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":     "Invalid credentials",
				"requestID": requestID,
			})
			return
		}

		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to look up user", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	ok, err := a.Argon.VerifyPassword(data.Password, user.PasswordHash)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to verify password", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error":     "Invalid credentials",
			"requestID": requestID,
		})
		return
	}

	if !user.Active {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"error":     "Email not verified yet",
			"requestID": requestID,
		})
		return
	}

	if !a.setTokenCookies(c, &user) {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"userID": user.ID,
	})
}

// setTokenCookies mints both tokens and attaches them as httpOnly
// cookies. Shared between login and refresh. Returns false after
// writing an error response.
func (a *API) setTokenCookies(c *gin.Context, user *model.User) bool {
	requestID := c.MustGet("requestID").(string)

	access, err := security.MakeAccessToken(user.ID, user.Role)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to generate access token", zap.Error(err), zap.String("requestID", requestID))
		return false
	}

	refresh, err := security.MakeRefreshToken(user.ID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to generate refresh token", zap.Error(err), zap.String("requestID", requestID))
		return false
	}

	ssl := viper.GetBool("host.ssl.enabled")

	c.SetCookie("access_token", access, int(security.AccessTokenTTL.Seconds()), "/", "", ssl, true)
	c.SetCookie("refresh_token", refresh, int(security.RefreshTokenTTL.Seconds()), "/", "", ssl, true)
	c.SetCookie("logged_in", "1", int(security.RefreshTokenTTL.Seconds()), "/", "", ssl, false)

	return true
}
