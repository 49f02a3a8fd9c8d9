package internal

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
)

// SessionToken is the raw entropy behind an opaque session token.
type SessionToken [16]byte

// NewSessionToken draws a fresh token from crypto/rand.
func NewSessionToken() (SessionToken, error) {
	var tok SessionToken
	_, err := rand.Read(tok[:])
	return tok, err
}

func (s SessionToken) String() string {
	// base64url, no padding, 22 chars
	return base64.RawURLEncoding.EncodeToString(s[:])
}

// ParseSessionToken reverses [SessionToken.String].
func ParseSessionToken(token string) (SessionToken, error) {
	var tok SessionToken

	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return tok, err
	}
	if len(raw) != len(tok) {
		return tok, errors.New("invalid session token size")
	}

	copy(tok[:], raw)
	return tok, nil
}
