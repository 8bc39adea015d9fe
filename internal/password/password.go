// Package password derives and checks stored password bundles.
//
// A bundle has the form pbkdf2_sha256$<salt hex>$<key hex>.
package password

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

const (
	// Tag prefixes every hashed bundle.
	Tag        = "pbkdf2_sha256"
	Iterations = 100_000
	SaltSize   = 16
	KeySize    = sha256.Size
)

// Hash salts and derives password into a bundle.
func Hash(password string) (string, error) {
	salt := make([]byte, SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("read salt: %w", err)
	}
	key := derive(password, salt)
	return Tag + "$" + hex.EncodeToString(salt) + "$" + hex.EncodeToString(key), nil
}

// IsHashed reports whether stored carries the bundle tag.
func IsHashed(stored string) bool {
	return strings.HasPrefix(stored, Tag+"$")
}

// Verify re-derives password with the salt embedded in stored and compares
// in constant time. Untagged or malformed values never match.
func Verify(password, stored string) bool {
	if !IsHashed(stored) {
		return false
	}
	parts := strings.SplitN(stored, "$", 3)
	if len(parts) != 3 {
		return false
	}
	salt, err := hex.DecodeString(parts[1])
	if err != nil || len(salt) == 0 {
		return false
	}
	want, err := hex.DecodeString(parts[2])
	if err != nil || len(want) == 0 {
		return false
	}
	got := pbkdf2.Key([]byte(password), salt, Iterations, len(want), sha256.New)
	return subtle.ConstantTimeCompare(got, want) == 1
}

// VerifyLegacy compares password against a plaintext value from rows
// written before hashing was introduced.
func VerifyLegacy(password, stored string) bool {
	return subtle.ConstantTimeCompare([]byte(password), []byte(stored)) == 1
}

func derive(password string, salt []byte) []byte {
	return pbkdf2.Key([]byte(password), salt, Iterations, KeySize, sha256.New)
}
