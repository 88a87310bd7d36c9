package codegen

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const (
	tokenChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	// Short codes are relayed verbally, so skip characters that read alike (0/O, 1/I/L).
	shortCodeChars = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

	TokenLength     = 32
	ShortCodeLength = 6
)

func randomString(chars string, length int) (string, error) {
	b := make([]byte, length)
	max := big.NewInt(int64(len(chars)))
	for i := range b {
		val, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to generate random number for string: %w", err)
		}
		b[i] = chars[val.Int64()]
	}
	return string(b), nil
}

// NewInviteToken returns a 32-character capability token for invite links.
func NewInviteToken() (string, error) {
	return randomString(tokenChars, TokenLength)
}

// NewShortCode returns a 6-character human-relayable code. Always upper-case;
// lookups must normalize input the same way.
func NewShortCode() (string, error) {
	return randomString(shortCodeChars, ShortCodeLength)
}
