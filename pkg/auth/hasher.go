package auth

import (
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
)

// BcryptCost is the cost factor for bcrypt hashing.
const BcryptCost = 12

// Hasher is the password hashing scheme: a one-way hash plus an equality
// comparison. It is pluggable so tests can inject a cheap fake and a
// deployment can migrate algorithms without touching the auth flow. The
// default is bcrypt; anything weaker (an unsalted fast digest) should never
// be wired in outside of tests.
type Hasher interface {
	Hash(password string) (string, error)
	Compare(password, hash string) bool
}

// BcryptHasher hashes passwords with bcrypt.
type BcryptHasher struct {
	Cost int
}

func (h BcryptHasher) Hash(password string) (string, error) {
	cost := h.Cost
	if cost == 0 {
		cost = BcryptCost
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", errors.WithStack(err)
	}
	return string(hashed), nil
}

func (h BcryptHasher) Compare(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
