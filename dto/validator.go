package dto

import (
	"errors"
	"reflect"
	"strings"
	"sync"
	"unicode"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// GetValidator returns the shared validator. Field names in errors are the
// JSON names clients send.
func GetValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		_ = validate.RegisterValidation("strong_password", validateStrongPassword)
	})
	return validate
}

// validateStrongPassword wants 8+ characters mixing upper, lower, digit and symbol.
func validateStrongPassword(fl validator.FieldLevel) bool {
	password := fl.Field().String()
	if len(password) < 8 {
		return false
	}

	var upper, lower, digit, symbol bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			symbol = true
		}
	}
	return upper && lower && digit && symbol
}

var validationMessages = map[string]func(fe validator.FieldError) string{
	"required": func(fe validator.FieldError) string { return fe.Field() + " is required" },
	"email":    func(fe validator.FieldError) string { return "Invalid email format" },
	"min": func(fe validator.FieldError) string {
		return fe.Field() + " must be at least " + fe.Param() + " characters"
	},
	"max": func(fe validator.FieldError) string {
		return fe.Field() + " must be at most " + fe.Param() + " characters"
	},
	"strong_password": func(fe validator.FieldError) string {
		return "Password must contain at least 8 characters with uppercase, lowercase, number, and special character"
	},
}

func FormatValidationErrors(err error) []ValidationError {
	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return nil
	}

	out := make([]ValidationError, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		message := fe.Field() + " is invalid"
		if format, ok := validationMessages[fe.Tag()]; ok {
			message = format(fe)
		}
		out = append(out, ValidationError{Field: fe.Field(), Message: message})
	}
	return out
}

func CreateValidationErrorResponse(err error) ValidationErrorResponse {
	return ValidationErrorResponse{
		Code:    400,
		Message: "Validation failed",
		Errors:  FormatValidationErrors(err),
	}
}
