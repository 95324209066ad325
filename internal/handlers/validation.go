package handlers

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/leaguehq/leaguehq-auth/internal/models"
)

// Global validator instance (reused across all handlers)
var validate = validator.New()

// ValidateRequest validates a request struct and converts the first failure
// into a client-facing validation error.
func ValidateRequest(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	if ve, ok := err.(validator.ValidationErrors); ok && len(ve) > 0 {
		fe := ve[0]
		return models.ErrValidation.WithMessage(
			fmt.Sprintf("%s: %s", fe.Field(), formatValidationError(fe)))
	}
	return models.ErrValidation
}

func formatValidationError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must have a minimum of %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must have a maximum of %s characters", fe.Param())
	default:
		return fmt.Sprintf("failed validation: %s", fe.Tag())
	}
}
