package shared

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
)

// Global validator instance for reuse
var validate = validator.New()

// DecodeJSON decodes the request body into the given struct.
func DecodeJSON(r *http.Request, v interface{}) error {
	return json.NewDecoder(r.Body).Decode(v)
}

// ValidateRequest validates the given struct using the validator package.
func ValidateRequest(v interface{}) error {
	return validate.Struct(v)
}

// FieldErrors converts a validator error into a field → message map
// suitable for a 422 response body. Returns a generic entry when the error
// is not a validator error.
func FieldErrors(err error) map[string]string {
	fieldErrors := make(map[string]string)

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		fieldErrors["request"] = "invalid request"
		return fieldErrors
	}

	for _, fieldErr := range validationErrs {
		fieldErrors[fieldErr.Field()] = tagMessage(fieldErr.Tag())
	}
	return fieldErrors
}

// tagMessage maps validation tags to user-friendly error messages.
func tagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "email":
		return "invalid email format"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}
