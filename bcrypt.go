package userapi

import (
	"unicode"

	"github.com/goliatone/go-errors"
	"golang.org/x/crypto/bcrypt"
)

// HashPassword will generate a password hash
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", ErrMissingCredentials
	}

	h, err := bcrypt.GenerateFromPassword([]byte(password), passwordHashCost())
	return string(h), err
}

// ComparePasswordAndHash will validate the given cleartext
// password matches the hashed password
func ComparePasswordAndHash(password, hash string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrInvalidCredentials
		}
		return err
	}
	return nil
}

// ValidatePasswordPolicy enforces the credential store's complexity rules:
// at least 6 characters with a digit, a lowercase letter, an uppercase
// letter and a non-alphanumeric character.
func ValidatePasswordPolicy(password string) error {
	var hasDigit, hasLower, hasUpper, hasSymbol bool

	for _, r := range password {
		switch {
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsUpper(r):
			hasUpper = true
		default:
			hasSymbol = true
		}
	}

	if len(password) < 6 || !hasDigit || !hasLower || !hasUpper || !hasSymbol {
		return ErrWeakPassword
	}

	return nil
}
