package services

import (
	"crypto/rand"
	"math/big"
	"strings"
)

const slugAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateSlug produces a random URL-path-safe, case-sensitive identifier.
// Uniqueness is not checked here; the unique index on qr_codes.slug is the
// backstop, and the create path retries once on a constraint violation.
func GenerateSlug(n int) (string, error) {
	if n <= 0 {
		n = 8
	}

	var b strings.Builder
	b.Grow(n)
	for i := 0; i < n; i++ {
		j, err := rand.Int(rand.Reader, big.NewInt(int64(len(slugAlphabet))))
		if err != nil {
			return "", err
		}
		b.WriteByte(slugAlphabet[j.Int64()])
	}
	return b.String(), nil
}
