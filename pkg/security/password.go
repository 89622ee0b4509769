package security

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
)

// DefaultSaltLen is the salt size in bytes for new credentials.
const DefaultSaltLen = 16

// RandomSalt returns length random bytes, hex encoded.
func RandomSalt(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("salt length must be positive")
	}
	salt := make([]byte, length)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	return hex.EncodeToString(salt), nil
}

// HashWithSalt computes hex(SHA-256(salt || password)). A single digest with
// no stretching: all state lives on the user's own device, so this scheme
// only has to match the credential layout already persisted there.
func HashWithSalt(password, saltHex string) (string, error) {
	if password == "" {
		return "", fmt.Errorf("password cannot be empty")
	}
	salt, err := hex.DecodeString(saltHex)
	if err != nil {
		return "", fmt.Errorf("decode salt: %w", err)
	}
	digest := sha256.New()
	digest.Write(salt)
	digest.Write([]byte(password))
	return hex.EncodeToString(digest.Sum(nil)), nil
}

// Verify reports whether password matches the stored salt+hash pair.
func Verify(password, saltHex, hashHex string) (bool, error) {
	computed, err := HashWithSalt(password, saltHex)
	if err != nil {
		return false, err
	}
	expected, err := hex.DecodeString(hashHex)
	if err != nil {
		return false, fmt.Errorf("decode hash: %w", err)
	}
	actual, err := hex.DecodeString(computed)
	if err != nil {
		return false, err
	}
	return subtle.ConstantTimeCompare(expected, actual) == 1, nil
}
