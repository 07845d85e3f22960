package user

import (
	"time"

	"github.com/baloria-app/baloria-backend/internal/domain"
)

const avatarURLMaxLen = 512

// UpdateProfileInput holds the optional profile fields. Nil means
// "leave unchanged".
type UpdateProfileInput struct {
	AvatarURL *string
	Timezone  *string
}

func (i UpdateProfileInput) Validate() error {
	var errs []domain.FieldError

	if i.AvatarURL != nil && len(*i.AvatarURL) > avatarURLMaxLen {
		errs = append(errs, domain.FieldError{Field: "avatar_url", Message: "too long"})
	}

	if i.Timezone != nil {
		if *i.Timezone == "" {
			errs = append(errs, domain.FieldError{Field: "timezone", Message: "cannot be empty"})
		} else if _, err := time.LoadLocation(*i.Timezone); err != nil {
			errs = append(errs, domain.FieldError{Field: "timezone", Message: "invalid IANA timezone"})
		}
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}
