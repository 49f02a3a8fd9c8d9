// Package validation holds the registration input predicates: username shape,
// password strength and email format.
package validation

import (
	"errors"
	"regexp"
	"unicode"
	"unicode/utf8"
)

const (
	UsernameMinLen    = 3
	UsernameMaxLen    = 20
	PasswordMinLength = 8
	// PasswordMaxBytes is the bcrypt input limit.
	PasswordMaxBytes = 72
)

var (
	ErrUsernameEmpty    = errors.New("username must not be empty")
	ErrUsernameLength   = errors.New("username must be 3-20 characters")
	ErrUsernameCharset  = errors.New("username may contain only letters, digits and underscores")
	ErrPasswordTooShort = errors.New("password must be at least 8 characters")
	ErrPasswordTooLong  = errors.New("password must be at most 72 bytes")
	ErrPasswordNoLower  = errors.New("password must contain a lowercase letter")
	ErrPasswordNoUpper  = errors.New("password must contain an uppercase letter")
	ErrPasswordNoDigit  = errors.New("password must contain a digit")
	ErrEmailFormat      = errors.New("email format is invalid")
)

var (
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
	emailPattern    = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
)

// Username checks length first, then charset.
func Username(username string) error {
	if username == "" {
		return ErrUsernameEmpty
	}
	n := utf8.RuneCountInString(username)
	if n < UsernameMinLen || n > UsernameMaxLen {
		return ErrUsernameLength
	}
	if !usernamePattern.MatchString(username) {
		return ErrUsernameCharset
	}
	return nil
}

// PasswordStrength requires 8+ characters, at most 72 bytes, and at least one
// ASCII lowercase, one ASCII uppercase and one digit. Rules are checked in
// that order and the first failure is returned.
func PasswordStrength(password string) error {
	if utf8.RuneCountInString(password) < PasswordMinLength {
		return ErrPasswordTooShort
	}
	if len(password) > PasswordMaxBytes {
		return ErrPasswordTooLong
	}

	var lower, upper, digit bool
	for _, r := range password {
		switch {
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case unicode.IsDigit(r):
			digit = true
		}
	}

	switch {
	case !lower:
		return ErrPasswordNoLower
	case !upper:
		return ErrPasswordNoUpper
	case !digit:
		return ErrPasswordNoDigit
	}
	return nil
}

// Email accepts the empty string; email is optional.
func Email(email string) error {
	if email == "" {
		return nil
	}
	if !emailPattern.MatchString(email) {
		return ErrEmailFormat
	}
	return nil
}
