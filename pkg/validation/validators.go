package validation

import (
	"fmt"
	"regexp"
	"unicode"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/restockr/auth-service/internal/constants"
	"github.com/restockr/auth-service/internal/model"
)

var phoneRegex = regexp.MustCompile(constants.PhonePattern)

// RegisterCustomValidators registers the project's validation tags on gin's
// binding engine so they can be used in DTO binding tags.
func RegisterCustomValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected binding validator engine %T", binding.Validator.Engine())
	}

	validators := map[string]validator.Func{
		"user_role":         validateUserRole,
		"phone_number":      validatePhoneNumber,
		"password_strength": validatePasswordStrength,
	}
	for tag, fn := range validators {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("register %q validator: %w", tag, err)
		}
	}
	return nil
}

func validateUserRole(fl validator.FieldLevel) bool {
	return model.UserRole(fl.Field().String()).IsValid()
}

// validatePhoneNumber accepts E.164 numbers, with or without the leading plus.
func validatePhoneNumber(fl validator.FieldLevel) bool {
	return phoneRegex.MatchString(fl.Field().String())
}

// validatePasswordStrength requires MinPasswordLength characters including an
// upper-case letter, a lower-case letter and a digit.
func validatePasswordStrength(fl validator.FieldLevel) bool {
	password := fl.Field().String()
	if len(password) < constants.MinPasswordLength || len(password) > constants.MaxPasswordLength {
		return false
	}

	var hasUpper, hasLower, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	return hasUpper && hasLower && hasDigit
}
