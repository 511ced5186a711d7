package utils

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"ordercomposite/pkg/apperr"
)

// FormatValidationError flattens gin binding validation failures into a
// single InvalidInput application error.
func FormatValidationError(err error) error {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return apperr.Wrap(err, apperr.KindInvalidInput, "validation failed")
	}

	var messages []string
	for _, fieldError := range validationErrors {
		messages = append(messages, fieldErrorMessage(fieldError))
	}
	return apperr.New(apperr.KindInvalidInput, strings.Join(messages, "; "))
}

func fieldErrorMessage(fieldError validator.FieldError) string {
	field := fieldError.Field()
	param := fieldError.Param()

	switch fieldError.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, param)
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, param)
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, param)
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, param)
	case "dive":
		return fmt.Sprintf("%s contains invalid entries", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
