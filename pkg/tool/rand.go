package tool

import (
	cryptorand "crypto/rand"
	"math/big"
	"strings"
)

// RandDigits returns n cryptographically random decimal digits,
// used for email verification codes.
func RandDigits(n int) (string, error) {
	var b strings.Builder
	for i := 0; i < n; i++ {
		x, err := cryptorand.Int(cryptorand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		b.WriteByte(byte('0' + x.Int64()))
	}
	return b.String(), nil
}
