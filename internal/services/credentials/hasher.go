package credentials

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// Hasher derives and checks salted one-way password hashes
type Hasher interface {
	// Hash returns a new hash of password with a freshly generated salt
	Hash(password []byte) ([]byte, error)
	// Compare reports whether password matches hash
	// A mismatch is (false, nil); an error means the hash could not be used
	Compare(hash, password []byte) (bool, error)
}

// BcryptHasher implements Hasher with bcrypt
type BcryptHasher struct {
	Cost int
}

// Ensure BcryptHasher implements Hasher
var _ Hasher = BcryptHasher{}

// NewBcryptHasher returns a hasher using the given cost, or bcrypt.DefaultCost
// when cost is outside bcrypt's accepted range
func NewBcryptHasher(cost int) BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return BcryptHasher{Cost: cost}
}

func (h BcryptHasher) Hash(password []byte) ([]byte, error) {
	hash, err := bcrypt.GenerateFromPassword(password, h.Cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return nil, ErrPasswordTooLong
	}
	return hash, err
}

func (h BcryptHasher) Compare(hash, password []byte) (bool, error) {
	err := bcrypt.CompareHashAndPassword(hash, password)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, err
	}
}
