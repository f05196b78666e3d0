package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/frahmantamala/identity-access/internal"
	"github.com/go-playground/validator/v10"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// Validator returns the shared validator with the identity tags registered:
// identity_email (local@domain.tld) and notblank (non-empty after trim).
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})
		_ = v.RegisterValidation("identity_email", func(fl validator.FieldLevel) bool {
			return IsEmail(fl.Field().String())
		})
		_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		})
		validate = v
	})
	return validate
}

func IsEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// NormalizeName is the canonical form of role and permission names.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Struct validates a DTO and folds every failing field into one AppError.
func Struct(v any) *internal.AppError {
	err := Validator().Struct(v)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return internal.NewValidationFieldErrors([]internal.ValidationError{{
			Field:   "",
			Message: err.Error(),
			Code:    string(internal.ErrCodeValidationFailed),
		}})
	}

	fields := make([]internal.ValidationError, 0, len(ve))
	for _, fe := range ve {
		fields = append(fields, internal.ValidationError{
			Field:   fe.Field(),
			Message: fieldMessage(fe),
			Code:    string(internal.ErrCodeValidationFailed),
		})
	}
	return internal.NewValidationFieldErrors(fields)
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required", "notblank":
		return field + " is required"
	case "identity_email", "email":
		return field + " must be a valid email"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must not exceed %s characters", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}
