package security

import (
	"crypto/rand"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

const (
	hashScheme = "pbkdf2-sha512"
	saltSize   = 32 // 256 bits
	keySize    = 64 // 512 bits
	iterations = 100000
)

// HashPassword derives a PBKDF2-SHA512 hash with a random per-password salt.
// The iteration count is encoded into the stored string so it can be raised
// later without invalidating existing hashes.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", errors.New("password must not be empty")
	}

	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}

	key := pbkdf2.Key([]byte(password), salt, iterations, keySize, sha512.New)

	return fmt.Sprintf("%s$%d$%s$%s",
		hashScheme,
		iterations,
		base64.StdEncoding.EncodeToString(salt),
		base64.StdEncoding.EncodeToString(key)), nil
}

// VerifyPassword checks a password against a stored hash in constant time.
// A malformed stored hash reports false, never an error.
func VerifyPassword(password, stored string) bool {
	if password == "" || stored == "" {
		return false
	}

	parts := strings.Split(stored, "$")
	if len(parts) != 4 || parts[0] != hashScheme {
		return false
	}

	iters, err := strconv.Atoi(parts[1])
	if err != nil || iters < 1 {
		return false
	}

	salt, err := base64.StdEncoding.DecodeString(parts[2])
	if err != nil {
		return false
	}

	hash, err := base64.StdEncoding.DecodeString(parts[3])
	if err != nil || len(hash) == 0 {
		return false
	}

	key := pbkdf2.Key([]byte(password), salt, iters, len(hash), sha512.New)
	return subtle.ConstantTimeCompare(hash, key) == 1
}
