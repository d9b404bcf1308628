package util

import (
	"crypto/rand"
	"math/big"
)

// RandDigits returns an n digit numeric code, used for the email
// verification and password reset codes
func RandDigits(n int) (string, error) {
	b := make([]byte, n)

	for i := range b {
		d, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}

		b[i] = byte('0' + d.Int64())
	}

	return string(b), nil
}
