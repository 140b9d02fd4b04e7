package validators

import (
	"errors"
	"fmt"
	"html"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
)

// ValidationError reports which field constraint an input violated.
// Operations that reject input leave state untouched, so a caller may
// retry blindly after fixing the reported field.
type ValidationError struct {
	Field      string
	Constraint string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on field %q: %s", e.Field, e.Constraint)
}

// Validator validates request structs via their validate tags
type Validator struct {
	validate *validator.Validate
	policy   *bluemonday.Policy
}

// NewValidator creates a new Validator
func NewValidator() *Validator {
	return &Validator{
		validate: validator.New(validator.WithRequiredStructEnabled()),
		policy:   bluemonday.StrictPolicy(),
	}
}

// Validate checks every tagged field of the struct and returns a
// *ValidationError describing the first violated constraint.
func (v *Validator) Validate(i interface{}) error {
	if err := v.validate.Struct(i); err != nil {
		var errs validator.ValidationErrors
		if ok := errors.As(err, &errs); ok && len(errs) > 0 {
			return &ValidationError{Field: errs[0].Field(), Constraint: errs[0].Tag()}
		}
		return err
	}
	return nil
}

// Sanitize strips markup from free text and trims surrounding whitespace.
// Gratitude reflections and captions come straight from user input and may
// be rendered in contexts that do not escape HTML.
func (v *Validator) Sanitize(s string) string {
	return strings.TrimSpace(html.UnescapeString(v.policy.Sanitize(s)))
}
