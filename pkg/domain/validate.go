package domain

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Validate checks the persistence preconditions: a positive code and non-blank
// full name, national id and course.
func (r Record) Validate() error {
	if r.Code <= 0 {
		return &ValidationError{Reason: "code must be positive"}
	}
	var missing []FieldID
	for _, id := range RequiredFields {
		if err := validate.Var(strings.TrimSpace(r.Text(id)), "required"); err != nil {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		return &ValidationError{Missing: missing}
	}
	return nil
}
