package question

import (
	"strings"

	"github.com/baloria-app/baloria-backend/internal/domain"
)

const (
	themeMaxLen = 50
	textMaxLen  = 1000
)

// ---------------------------------------------------------------------------
// AskInput
// ---------------------------------------------------------------------------

// AskInput holds the parameters for posting a new question.
type AskInput struct {
	Theme string
	Text  string
}

// Validate checks all fields and collects all errors.
func (i AskInput) Validate() error {
	var errs []domain.FieldError

	if strings.TrimSpace(i.Theme) == "" {
		errs = append(errs, domain.FieldError{Field: "theme", Message: "required"})
	}
	if len(i.Theme) > themeMaxLen {
		errs = append(errs, domain.FieldError{Field: "theme", Message: "too long (max 50)"})
	}

	if strings.TrimSpace(i.Text) == "" {
		errs = append(errs, domain.FieldError{Field: "text", Message: "required"})
	}
	if len(i.Text) > textMaxLen {
		errs = append(errs, domain.FieldError{Field: "text", Message: "too long (max 1000)"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// ---------------------------------------------------------------------------
// ListInput
// ---------------------------------------------------------------------------

// ListInput holds the filter and pagination for question listings.
type ListInput struct {
	Theme  string
	Status domain.QuestionStatus
	Limit  int
	Offset int
}

// Validate checks all fields and collects all errors.
func (i ListInput) Validate() error {
	var errs []domain.FieldError

	if i.Status != "" && !i.Status.IsValid() {
		errs = append(errs, domain.FieldError{Field: "status", Message: "must be OPEN or CLOSED"})
	}
	if i.Limit < 0 || i.Limit > 100 {
		errs = append(errs, domain.FieldError{Field: "limit", Message: "must be 0..100"})
	}
	if i.Offset < 0 {
		errs = append(errs, domain.FieldError{Field: "offset", Message: "must be >= 0"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// normalized returns the input with the default page size applied.
func (i ListInput) normalized() ListInput {
	if i.Limit == 0 {
		i.Limit = 20
	}
	return i
}
