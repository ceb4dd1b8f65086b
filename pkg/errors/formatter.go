package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldError describes one rejected field of a request body.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

var tagMessages = map[string]string{
	"required": "This field is required",
	"email":    "Invalid email format",
	"oneof":    "Value is not one of the allowed options",
	"url":      "Invalid URL format",
	"max":      "Value is too long",
}

// FieldErrors converts a binding error into per-field messages keyed by the
// JSON names of model. Unknown error shapes yield nil.
func FieldErrors(err error, model any) []FieldError {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return []FieldError{{
			Field:   typeErr.Field,
			Message: fmt.Sprintf("Expected %s, got %s", typeErr.Type, typeErr.Value),
		}}
	}

	var invalid validator.ValidationErrors
	if !errors.As(err, &invalid) {
		return nil
	}

	structType := reflect.TypeOf(model)
	for structType != nil && structType.Kind() == reflect.Pointer {
		structType = structType.Elem()
	}

	out := make([]FieldError, 0, len(invalid))
	for _, fe := range invalid {
		message, ok := tagMessages[fe.Tag()]
		if !ok {
			message = "Invalid value"
		}
		out = append(out, FieldError{Field: jsonName(structType, fe.StructField()), Message: message})
	}
	return out
}

func jsonName(structType reflect.Type, field string) string {
	if structType == nil || structType.Kind() != reflect.Struct {
		return field
	}
	sf, ok := structType.FieldByName(field)
	if !ok {
		return field
	}
	name, _, _ := strings.Cut(sf.Tag.Get("json"), ",")
	if name == "" || name == "-" {
		return field
	}
	return name
}
