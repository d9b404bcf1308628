package security

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/viper"
)

const (
	AccessTokenTTL  = 15 * time.Minute
	RefreshTokenTTL = 7 * 24 * time.Hour
)

// MakeAccessToken mints the short lived token carried in the
// access_token cookie
func MakeAccessToken(userID, role string) (string, error) {
	return makeToken(&jwt.MapClaims{
		"user_id": userID,
		"role":    role,
		"type":    "access",
		"iat":     time.Now().Unix(),
		"exp":     time.Now().Add(AccessTokenTTL).Unix(),
	})
}

// MakeRefreshToken mints the long lived token used to rotate access
// tokens without asking for credentials again
func MakeRefreshToken(userID string) (string, error) {
	return makeToken(&jwt.MapClaims{
		"user_id": userID,
		"type":    "refresh",
		"iat":     time.Now().Unix(),
		"exp":     time.Now().Add(RefreshTokenTTL).Unix(),
	})
}

func makeToken(c *jwt.MapClaims) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	return t.SignedString([]byte(viper.GetString("jwt.secret")))
}
