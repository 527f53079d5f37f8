package service

import "golang.org/x/crypto/bcrypt"

// PasswordHasher abstracts one-way password hashing so the user service can
// be tested with a cheap cost factor.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	// Verify reports whether plaintext matches digest. A malformed digest is
	// treated as a mismatch, never an error.
	Verify(plaintext, digest string) bool
}

// BcryptHasher hashes with bcrypt. Each call salts independently, so two
// hashes of the same password differ. Stateless and safe for concurrent use.
type BcryptHasher struct {
	cost int
}

func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Hash(plaintext string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

func (h *BcryptHasher) Verify(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}
