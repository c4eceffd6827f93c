// Package password implements the slow salted password hash used to verify
// passwords without storing them.
package password

import (
	"crypto/sha512"
	"crypto/subtle"

	"golang.org/x/crypto/pbkdf2"

	"github.com/dmitrijs2005/facevault/internal/common"
)

const (
	// SaltSize is the per-user random salt length, generated at enrollment.
	SaltSize = 32
	// HashSize is the derived hash length.
	HashSize = 64
	// Iterations is the PBKDF2 iteration count.
	Iterations = 100_000
)

// NewSalt returns a fresh random salt.
func NewSalt() []byte {
	return common.GenerateRandByteArray(SaltSize)
}

// Hash derives a fixed-length hash from password and salt using
// PBKDF2-HMAC-SHA512. Deterministic for the same inputs.
func Hash(password string, salt []byte) []byte {
	return pbkdf2.Key([]byte(password), salt, Iterations, HashSize, sha512.New)
}

// Verify recomputes the hash for password+salt and compares it to
// expectedHash in constant time.
func Verify(password string, salt, expectedHash []byte) bool {
	candidate := Hash(password, salt)
	defer common.WipeByteArray(candidate)
	return subtle.ConstantTimeCompare(candidate, expectedHash) == 1
}
