package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/streamhub/authd/internal/common"
)

// bcrypt embeds a per-call random salt, so hashing the same plaintext twice
// yields different digests.
const bcryptCost = 10

// HashPassword produces a salted one-way digest of plaintext. It fails only
// on underlying resource exhaustion or oversized input.
func HashPassword(plaintext string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrHashingFailure, err)
	}
	return string(digest), nil
}

// CheckPassword reports whether plaintext matches digest. The comparison is
// constant-time with respect to the digest contents; an ordinary mismatch is
// never an error.
func CheckPassword(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}
