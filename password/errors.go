package password

import "errors"

var (
	// ErrEmptyPassword is returned by Hash for an empty plaintext.
	ErrEmptyPassword = errors.New("password must not be empty")
	// ErrMalformedHash is returned by Verify when the stored hash cannot be parsed.
	ErrMalformedHash = errors.New("malformed password hash")
	// ErrUnsupportedHash is returned when no hasher recognizes the hash prefix.
	ErrUnsupportedHash = errors.New("unsupported password hash")
)
