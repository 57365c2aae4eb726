package auth

import (
	"crypto/subtle"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Freshman secrets are imported either as plaintext (the last six characters
// of the national identity number) or as bcrypt hashes of that value.

// IsHashedSecret reports whether a stored secret is a bcrypt hash.
func IsHashedSecret(stored string) bool {
	return strings.HasPrefix(stored, "$2a$") ||
		strings.HasPrefix(stored, "$2b$") ||
		strings.HasPrefix(stored, "$2y$")
}

// VerifySecret checks a supplied secret against the stored one.
func VerifySecret(stored, supplied string) bool {
	if stored == "" || supplied == "" {
		return false
	}
	if IsHashedSecret(stored) {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(supplied)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(supplied)) == 1
}

// HashSecret produces the bcrypt form of a secret for import.
func HashSecret(secret string) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("secret is empty")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash secret: %w", err)
	}
	return string(hashed), nil
}
