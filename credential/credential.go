package credential

import (
	"errors"
	"strings"

	"aiqr-api/apperror"

	"golang.org/x/crypto/bcrypt"
)

// Hasher hashes and checks passwords with bcrypt. Surrounding whitespace is
// never part of the secret.
type Hasher struct {
	Cost int
}

func NewHasher(cost int) Hasher {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return Hasher{Cost: cost}
}

func (h Hasher) Hash(plaintext string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(strings.TrimSpace(plaintext)), h.Cost)
	if err != nil {
		return "", apperror.Server("hash password", err)
	}
	return string(hashed), nil
}

// Verify reports whether plaintext matches hash. A malformed hash is an
// internal error, not a mismatch.
func (h Hasher) Verify(plaintext, hash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(strings.TrimSpace(plaintext)))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	}
	return false, apperror.Server("compare password", err)
}
