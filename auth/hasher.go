// Package auth implements the credential service and the authentication
// gate of the staff directory: password hashing, login resolution by
// email or serial number, token issuance, and session storage.
package auth

import (
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/staffdir/staffdir"
)

// Hasher derives and verifies password hashes with bcrypt.
type Hasher struct {
	cost int
}

// NewHasher creates a hasher with the given bcrypt cost. Costs outside
// bcrypt's range fall back to the library default.
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Hasher{cost: cost}
}

// HashPassword derives a hash from the plain password. Empty or
// whitespace-only passwords are rejected.
func (h *Hasher) HashPassword(password string) (string, error) {
	if strings.TrimSpace(password) == "" {
		return "", staffdir.NewError(staffdir.ErrorTypeInvalidArgument,
			"password must not be empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", staffdir.NewErrorWithCause(staffdir.ErrorTypeInvalidArgument,
			"failed to hash password", err)
	}
	return string(hash), nil
}

// VerifyPassword reports whether the plain password matches the hash.
// Any failure, including a malformed hash, reads as mismatch.
func (h *Hasher) VerifyPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
