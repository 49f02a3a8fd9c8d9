package password

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultBcryptCost matches the cost new hashes are produced with unless
// configured otherwise.
const DefaultBcryptCost = 12

// Bcrypt hashes with bcrypt at a fixed cost.
type Bcrypt struct {
	cost int
}

// NewBcrypt returns a bcrypt hasher. cost 0 selects [DefaultBcryptCost].
func NewBcrypt(cost int) (*Bcrypt, error) {
	if cost == 0 {
		cost = DefaultBcryptCost
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("bcrypt cost must be in [%d, %d]", bcrypt.MinCost, bcrypt.MaxCost)
	}
	return &Bcrypt{cost: cost}, nil
}

// Hash implements goLogin.Credential.
func (b *Bcrypt) Hash(password string) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}
	out, err := bcrypt.GenerateFromPassword([]byte(password), b.cost)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// Verify implements goLogin.Credential. A mismatch is (false, nil); a hash
// that is not a bcrypt hash is an error.
func (b *Bcrypt) Verify(password, encodedHash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(encodedHash), []byte(password))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, fmt.Errorf("%w: %v", ErrMalformedHash, err)
}

// NeedsUpgrade reports whether encodedHash was produced with a lower cost.
func (b *Bcrypt) NeedsUpgrade(encodedHash string) (bool, error) {
	cost, err := bcrypt.Cost([]byte(encodedHash))
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrMalformedHash, err)
	}
	return cost < b.cost, nil
}
