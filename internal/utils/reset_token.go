package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// GenerateResetToken produces a password-reset token pair: a high-entropy
// plaintext value for delivery to the user, and its SHA-256 digest for
// server-side storage. The stored digest alone cannot be used to reset a
// password; only the plaintext can.
func GenerateResetToken() (plain string, hashed string, err error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", "", fmt.Errorf("failed to generate reset token: %w", err)
	}
	plain = hex.EncodeToString(buf)
	return plain, HashResetToken(plain), nil
}

// HashResetToken returns the hex-encoded SHA-256 digest of a plaintext
// reset token, the form in which tokens are stored and looked up.
func HashResetToken(plain string) string {
	sum := sha256.Sum256([]byte(plain))
	return hex.EncodeToString(sum[:])
}
