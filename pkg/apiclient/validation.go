package apiclient

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

const (
	reasonRequired   = "required"
	reasonIdentifier = "phone number or email is required"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		// Report fields under their wire names.
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "-" || name == "" {
				return f.Name
			}
			return name
		})
	})
	return validate
}

// validateStruct runs tag validation and converts the result into a
// *ValidationError. extra carries checks tags cannot express.
func validateStruct(v any, extra map[string]string) error {
	fields := make(map[string]string)
	for k, msg := range extra {
		fields[k] = msg
	}

	if err := validatorInstance().Struct(v); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		for _, fe := range verrs {
			if _, seen := fields[fe.Field()]; !seen {
				fields[fe.Field()] = reason(fe)
			}
		}
	}

	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}

func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return reasonRequired
	case "email":
		return "must be a valid email address"
	case "e164":
		return "must be an international phone number, e.g. +201012345678"
	case "min":
		return fmt.Sprintf("too short (min %s)", fe.Param())
	case "max":
		return fmt.Sprintf("too long (max %s)", fe.Param())
	case "len":
		return fmt.Sprintf("must be %s characters", fe.Param())
	case "numeric":
		return "must contain digits only"
	case "eqfield":
		return "does not match"
	case "oneof":
		return "must be one of: " + fe.Param()
	default:
		return "is invalid"
	}
}

func identifierCheck(phone, email string) map[string]string {
	if strings.TrimSpace(phone) == "" && strings.TrimSpace(email) == "" {
		return map[string]string{"phone_number": reasonIdentifier}
	}
	return nil
}

// Validate checks the request before it is sent.
func (r LoginRequest) Validate() error {
	return validateStruct(r, identifierCheck(r.PhoneNumber, r.Email))
}

// Validate checks the request before it is sent.
func (r RegisterRequest) Validate() error {
	var extra map[string]string
	for _, d := range r.Documents {
		if d.Field == "" || d.Filename == "" || d.Content == nil {
			extra = map[string]string{"documents": "each document needs a field, a filename and content"}
			break
		}
	}
	return validateStruct(r, extra)
}

// Validate checks the request before it is sent.
func (r OTPSendRequest) Validate() error {
	return validateStruct(r, identifierCheck(r.PhoneNumber, r.Email))
}

// Validate checks the request before it is sent.
func (r OTPVerifyRequest) Validate() error {
	return validateStruct(r, identifierCheck(r.PhoneNumber, r.Email))
}

// Validate checks the request before it is sent.
func (r TwoFactorVerifyRequest) Validate() error {
	return validateStruct(r, nil)
}

// Validate checks the request before it is sent.
func (r PasswordResetRequest) Validate() error {
	return validateStruct(r, identifierCheck(r.PhoneNumber, r.Email))
}

// Validate checks the request before it is sent.
func (r PasswordResetConfirmRequest) Validate() error {
	return validateStruct(r, identifierCheck(r.PhoneNumber, r.Email))
}
