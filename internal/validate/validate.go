// Package validate checks sign-up and sign-in form input before it is sent
// to the backend.
package validate

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/sakif/career-compass/internal/apperror"
)

// MinPasswordLength is the shortest accepted password.
const MinPasswordLength = 8

var (
	emailRe    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	passwordRe = regexp.MustCompile(`^[A-Za-z0-9@$!%*?&]+$`)
	phoneRe    = regexp.MustCompile(`^[0-9]{10}$`)
)

// Email returns a validation error unless email looks like local@host.tld.
func Email(email string) error {
	if !emailRe.MatchString(email) {
		return apperror.ValidationFailed("email", "Please enter a valid email address")
	}
	return nil
}

// Password requires at least MinPasswordLength characters drawn from
// letters, digits and @$!%*?&, with at least one lowercase letter, one
// uppercase letter and one digit.
func Password(password string) error {
	const msg = "Password must be at least 8 characters with uppercase, lowercase, and numbers"

	if len(password) < MinPasswordLength || !passwordRe.MatchString(password) {
		return apperror.ValidationFailed("password", msg)
	}

	var lower, upper, digit bool
	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	if !lower || !upper || !digit {
		return apperror.ValidationFailed("password", msg)
	}
	return nil
}

// Phone accepts exactly ten digits.
func Phone(phone string) error {
	if !phoneRe.MatchString(phone) {
		return apperror.ValidationFailed("phone", "Please enter a valid 10-digit phone number")
	}
	return nil
}

// Required fails when value is blank. label names the field in the message.
func Required(field, label, value string) error {
	if strings.TrimSpace(value) == "" {
		return apperror.ValidationFailed(field, "Please enter your "+label)
	}
	return nil
}
