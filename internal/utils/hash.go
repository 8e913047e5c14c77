package utils

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashIP produces the one-way visitor fingerprint stored with every scan.
// The raw address must never be persisted.
func HashIP(ip, salt string) string {
	h := sha256.Sum256([]byte(ip + salt))
	return hex.EncodeToString(h[:])
}
