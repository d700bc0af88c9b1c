package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

var ErrEmptyPassphrase = errors.New("admin passphrase is not configured")

// Passphrase checks the shared admin passphrase against a bcrypt hash.
type Passphrase struct {
	hash []byte
}

// NewPassphrase prefers a precomputed bcrypt hash and otherwise hashes
// the plaintext once at startup.
func NewPassphrase(plain, hash string) (*Passphrase, error) {
	if hash != "" {
		if _, err := bcrypt.Cost([]byte(hash)); err != nil {
			return nil, err
		}
		return &Passphrase{hash: []byte(hash)}, nil
	}
	if plain == "" {
		return nil, ErrEmptyPassphrase
	}
	h, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return &Passphrase{hash: h}, nil
}

func (p *Passphrase) Check(candidate string) bool {
	return bcrypt.CompareHashAndPassword(p.hash, []byte(candidate)) == nil
}
