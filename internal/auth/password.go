// Package auth handles credentials: password hashing, registration rules and
// bearer tokens.
package auth

import (
	"errors"
	"regexp"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const (
	MinUsernameLen = 3
	MinPasswordLen = 6
)

var (
	ErrUsernameTooShort = errors.New("Usuário deve ter no mínimo 3 caracteres")
	ErrPasswordTooShort = errors.New("Senha deve ter no mínimo 6 caracteres")
	ErrInvalidEmail     = errors.New("Email inválido")
)

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// HashPassword returns the bcrypt hash of password.
func HashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CheckPassword reports whether password matches hash.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// ValidateRegistration applies the sign-up rules. username and email are
// expected to be trimmed already; email may be empty.
func ValidateRegistration(username, password, email string) error {
	if len([]rune(username)) < MinUsernameLen {
		return ErrUsernameTooShort
	}
	if len(password) < MinPasswordLen {
		return ErrPasswordTooShort
	}
	if email != "" && !emailRe.MatchString(email) {
		return ErrInvalidEmail
	}
	return nil
}

// NormalizeEmail trims and lowercases an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
