package util

import (
	"crypto/sha256"
	"encoding/hex"
)

// userKeyLen is the number of hex characters kept from the digest. Half a
// SHA-256 is plenty for namespacing storage keys per user.
const userKeyLen = 32

// HashUserKey maps a user ID (typically "guest:<uuid>") to a fixed-length,
// filesystem-safe segment for storage keys. Raw IDs never appear in object
// paths.
func HashUserKey(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])[:userKeyLen]
}
