package model

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate *validator.Validate
	once     sync.Once
)

// GetValidator returns the shared validator. Field names in errors come
// from the flag tag, then the json tag, so messages match what users type.
func GetValidator() *validator.Validate {
	once.Do(func() {
		validate = validator.New()
		validate.RegisterTagNameFunc(fieldName)
	})
	return validate
}

func fieldName(f reflect.StructField) string {
	if name := f.Tag.Get("flag"); name != "" {
		return "-" + name
	}
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "-" || name == "" {
		return f.Name
	}
	return name
}

// FormatValidationError converts validator errors to ErrorDetail
func FormatValidationError(err error) *ErrorDetail {
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
		// Only the first failing field is reported.
		return &ErrorDetail{Code: "bad_request", Message: describe(validationErrors[0])}
	}

	return &ErrorDetail{
		Code:    "bad_request",
		Message: err.Error(),
	}
}

func describe(e validator.FieldError) string {
	switch e.Tag() {
	case "required", "required_without":
		return fmt.Sprintf("%s is required", e.Field())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", e.Field(), e.Param())
	case "min", "max":
		return fmt.Sprintf("%s must be %s %s", e.Field(), map[string]string{"min": "at least", "max": "at most"}[e.Tag()], e.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", e.Field(), e.Param())
	case "numeric":
		return fmt.Sprintf("%s must be a number, got %q", e.Field(), fmt.Sprint(e.Value()))
	case "url", "uri":
		return fmt.Sprintf("%s must be a valid URL", e.Field())
	case "uuid":
		return fmt.Sprintf("%s must be a UUID", e.Field())
	}
	return fmt.Sprintf("%s failed the %q check", e.Field(), e.Tag())
}
