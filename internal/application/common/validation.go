package common

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/andrescamacho/quoteflow-go/internal/domain/quote"
)

// Validator wraps go-playground/validator for command input validation.
// Failures surface as VALIDATION_ERROR domain errors before any mutation.
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a validator instance
func NewValidator() *Validator {
	return &Validator{validate: validator.New()}
}

// ValidateStruct validates a struct using its validation tags
func (v *Validator) ValidateStruct(i interface{}) error {
	err := v.validate.Struct(i)
	if err == nil {
		return nil
	}

	if validationErrs, ok := err.(validator.ValidationErrors); ok && len(validationErrs) > 0 {
		first := validationErrs[0]
		return quote.NewValidationError(
			lowerFirst(first.Field()),
			"failed "+first.Tag()+" validation",
		)
	}
	return quote.NewValidationError("input", err.Error())
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
