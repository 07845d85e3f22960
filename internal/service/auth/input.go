package auth

import (
	"net/mail"
	"strings"
	"unicode"

	"github.com/baloria-app/baloria-backend/internal/domain"
)

const (
	usernameMinLen = 3
	usernameMaxLen = 30
	passwordMinLen = 8
	passwordMaxLen = 72 // bcrypt input cap
)

// RegisterInput carries the fields for creating a new account.
type RegisterInput struct {
	Email    string
	Username string
	Password string
}

func (in *RegisterInput) Validate() error {
	var errs []domain.FieldError

	email := strings.TrimSpace(in.Email)
	if email == "" {
		errs = append(errs, domain.FieldError{Field: "email", Message: "is required"})
	} else if _, err := mail.ParseAddress(email); err != nil {
		errs = append(errs, domain.FieldError{Field: "email", Message: "is not a valid address"})
	}

	username := strings.TrimSpace(in.Username)
	switch {
	case username == "":
		errs = append(errs, domain.FieldError{Field: "username", Message: "is required"})
	case len(username) < usernameMinLen || len(username) > usernameMaxLen:
		errs = append(errs, domain.FieldError{
			Field:   "username",
			Message: "must be between 3 and 30 characters",
		})
	case !isValidUsername(username):
		errs = append(errs, domain.FieldError{
			Field:   "username",
			Message: "may only contain letters, digits, underscores and hyphens",
		})
	}

	switch {
	case in.Password == "":
		errs = append(errs, domain.FieldError{Field: "password", Message: "is required"})
	case len(in.Password) < passwordMinLen:
		errs = append(errs, domain.FieldError{Field: "password", Message: "must be at least 8 characters"})
	case len(in.Password) > passwordMaxLen:
		errs = append(errs, domain.FieldError{Field: "password", Message: "must be at most 72 characters"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

func isValidUsername(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' && r != '-' {
			return false
		}
	}
	return true
}

// LoginInput carries the credentials for a password login.
type LoginInput struct {
	Email    string
	Password string
}

func (in *LoginInput) Validate() error {
	var errs []domain.FieldError
	if strings.TrimSpace(in.Email) == "" {
		errs = append(errs, domain.FieldError{Field: "email", Message: "is required"})
	}
	if in.Password == "" {
		errs = append(errs, domain.FieldError{Field: "password", Message: "is required"})
	}
	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}
