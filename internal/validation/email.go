// Package validation holds input checks shared across service boundaries.
package validation

import (
	"errors"
	"net/mail"
)

// ValidateEmail checks an address with the stdlib RFC 5322 parser. The
// reminder digest recipient is validated at startup so a bad address fails
// loudly once instead of on every sweep.
func ValidateEmail(email string) error {
	if email == "" {
		return errors.New("email address is required")
	}
	if len(email) > 254 {
		return errors.New("email address is too long (max 254 characters)")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return errors.New("invalid email address format")
	}
	return nil
}
