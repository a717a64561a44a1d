package handlers

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// queryParamNames maps struct fields to the query parameter the client sent
var queryParamNames = map[string]string{
	"Query": "q",
	"Tag":   "tag",
}

// ParseValidationErrors converts validator errors to user-friendly format
func ParseValidationErrors(err error) []ValidationError {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []ValidationError{}
	}

	out := make([]ValidationError, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		name := fe.Field()
		if param, ok := queryParamNames[name]; ok {
			name = param
		}
		out = append(out, ValidationError{
			Field:   name,
			Message: getErrorMessage(name, fe),
		})
	}
	return out
}

func getErrorMessage(name string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return name + " is required"
	case "min":
		return name + " must be at least " + fe.Param() + " characters"
	case "max":
		return name + " must not exceed " + fe.Param() + " characters"
	default:
		return name + " is invalid"
	}
}
