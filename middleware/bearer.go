package middleware

import (
	"errors"
	"strings"
)

// Bearer extraction failures. Each carries the message returned to clients.
var (
	ErrMissingAuthorization   = errors.New("missing Authorization header")
	ErrMalformedAuthorization = errors.New("malformed Authorization header")
	ErrNotBearer              = errors.New("authorization scheme must be Bearer")
)

// BearerToken extracts the token from an Authorization header value of the
// form "Bearer <token>". The scheme is matched case-insensitively.
func BearerToken(header string) (string, error) {
	if strings.TrimSpace(header) == "" {
		return "", ErrMissingAuthorization
	}

	parts := strings.Fields(header)
	if len(parts) != 2 {
		return "", ErrMalformedAuthorization
	}
	if !strings.EqualFold(parts[0], "bearer") {
		return "", ErrNotBearer
	}

	return parts[1], nil
}
