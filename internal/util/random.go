package util

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
)

// NumericCode returns a uniformly random decimal code with exactly digits digits
// (no leading zero), e.g. [100000, 999999] for six.
func NumericCode(digits int) (string, error) {
	if digits <= 0 {
		return "", fmt.Errorf("digits must be positive")
	}
	low := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(digits-1)), nil)
	span := new(big.Int).Sub(new(big.Int).Mul(low, big.NewInt(10)), low)
	n, err := rand.Int(rand.Reader, span)
	if err != nil {
		return "", fmt.Errorf("read random: %w", err)
	}
	return n.Add(n, low).String(), nil
}

// RandomToken returns n random bytes hex encoded, used for OAuth state values.
func RandomToken(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("read random: %w", err)
	}
	return hex.EncodeToString(b), nil
}
