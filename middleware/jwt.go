package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"neurodrafts/notes-api/model"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// NewJWTMiddleware rejects requests without a valid access_token
// cookie. On success userID and userRole are set on the context.
func NewJWTMiddleware(d *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.MustGet("requestID").(string)

		user, err := userFromCookie(c, d)
		if err != nil {
			status := http.StatusUnauthorized
			if errors.Is(err, gorm.ErrRecordNotFound) {
				status = http.StatusNotFound
			}

			c.AbortWithStatusJSON(status, gin.H{
				"error":     "token_invalid",
				"requestID": requestID,
			})
			return
		}

		if !user.Active {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":     "account_not_verified",
				"requestID": requestID,
			})
			return
		}

		c.Set("userID", user.ID)
		c.Set("userRole", user.Role)
		c.Next()
	}
}

// NewOptionalJWTMiddleware resolves the user when an access_token
// cookie is present and valid, and otherwise lets the request through
// anonymously. The demo flow depends on this: handlers that see no
// userID fall back to the caller's demo session.
func NewOptionalJWTMiddleware(d *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := userFromCookie(c, d)
		if err == nil && user.Active {
			c.Set("userID", user.ID)
			c.Set("userRole", user.Role)
		}

		c.Next()
	}
}

func userFromCookie(c *gin.Context, d *gorm.DB) (*model.User, error) {
	tokenStr, err := c.Cookie("access_token")
	if err != nil {
		return nil, err
	}

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing method: %s", t.Method.Alg())
		}

		return []byte(viper.GetString("jwt.secret")), nil
	})
	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid claims")
	}

	if typ, _ := claims["type"].(string); typ != "access" {
		return nil, errors.New("not an access token")
	}

	userID, ok := claims["user_id"].(string)
	if !ok {
		return nil, errors.New("missing user_id claim")
	}

	exp, ok := claims["exp"].(float64)
	if !ok || time.Now().Unix() >= int64(exp) {
		return nil, errors.New("token expired")
	}

	// In case someone logs in, deletes their account and keeps the
	// cookie, reject the request
	var user model.User
	if err := d.Where("id = ?", userID).First(&user).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			zap.L().Error("Failed to check if user exists", zap.Error(err))
		}

		return nil, err
	}

	return &user, nil
}
