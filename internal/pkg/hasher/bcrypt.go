// Package hasher provides the bcrypt implementation of the password
// hashing port.
package hasher

import "golang.org/x/crypto/bcrypt"

// Bcrypt hashes passwords with bcrypt at the configured cost.
type Bcrypt struct {
	cost int
}

// NewBcrypt returns a Bcrypt hasher. A cost outside bcrypt's valid range
// falls back to bcrypt.DefaultCost.
func NewBcrypt(cost int) *Bcrypt {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Bcrypt{cost: cost}
}

func (b *Bcrypt) Hash(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), b.cost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

func (b *Bcrypt) Verify(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
