package password

import "strings"

// Hasher is the shape shared by [Argon2] and [Bcrypt].
type Hasher interface {
	Hash(password string) (string, error)
	Verify(password, encodedHash string) (bool, error)
	NeedsUpgrade(encodedHash string) (bool, error)
}

// Multi hashes new passwords with a primary algorithm and verifies existing
// hashes with whichever algorithm produced them, chosen by prefix. It lets a
// deployment switch algorithms without invalidating stored credentials.
type Multi struct {
	primary Hasher
	bcrypt  Hasher
	argon2  Hasher
}

// NewMulti builds a dispatcher. Either of bcryptHasher or argon2Hasher may be
// nil when that format is never stored; primary must be one of them.
func NewMulti(primary Hasher, bcryptHasher *Bcrypt, argon2Hasher *Argon2) *Multi {
	m := &Multi{primary: primary}
	if bcryptHasher != nil {
		m.bcrypt = bcryptHasher
	}
	if argon2Hasher != nil {
		m.argon2 = argon2Hasher
	}
	return m
}

// Hash uses the primary algorithm.
func (m *Multi) Hash(password string) (string, error) {
	return m.primary.Hash(password)
}

// Verify dispatches on the hash prefix.
func (m *Multi) Verify(password, encodedHash string) (bool, error) {
	h := m.hasherFor(encodedHash)
	if h == nil {
		return false, ErrUnsupportedHash
	}
	return h.Verify(password, encodedHash)
}

// NeedsUpgrade is true when encodedHash was made by a non-primary algorithm,
// or by the primary one with weaker parameters.
func (m *Multi) NeedsUpgrade(encodedHash string) (bool, error) {
	h := m.hasherFor(encodedHash)
	if h == nil {
		return false, ErrUnsupportedHash
	}
	if h != m.primary {
		return true, nil
	}
	return h.NeedsUpgrade(encodedHash)
}

func (m *Multi) hasherFor(encodedHash string) Hasher {
	switch {
	case strings.HasPrefix(encodedHash, "$"+algorithmID+"$"):
		return m.argon2
	case strings.HasPrefix(encodedHash, "$2a$"),
		strings.HasPrefix(encodedHash, "$2b$"),
		strings.HasPrefix(encodedHash, "$2y$"):
		return m.bcrypt
	default:
		return nil
	}
}
