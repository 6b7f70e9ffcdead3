// Package validation holds the account input rules shared by the HTTP API
// and authctl, so an account created from either side can log in from the
// other.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// MaxPasswordBytes is the bcrypt input limit.
const MaxPasswordBytes = 72

// Registration is the input for creating an account.
type Registration struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72,bcryptmax"`
	Name     string `json:"name" validate:"required,min=2,max=50"`
}

func (r *Registration) Normalize() {
	r.Email = NormalizeEmail(r.Email)
	r.Name = strings.TrimSpace(r.Name)
}

// Login is the input for exchanging credentials for a token.
type Login struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (r *Login) Normalize() {
	r.Email = NormalizeEmail(r.Email)
}

func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// FieldError describes one rejected input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// instance returns the validator, reporting json field names and knowing
// the bcryptmax rule.
func instance() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
		if err := v.RegisterValidation("bcryptmax", func(fl validator.FieldLevel) bool {
			return len(fl.Field().String()) <= MaxPasswordBytes
		}); err != nil {
			panic(err)
		}
		validate = v
	})
	return validate
}

// Check validates s and returns the rejected fields, or nil.
func Check(s any) []FieldError {
	return fieldErrors(instance().Struct(s))
}

// CheckFields validates only the named struct fields of s.
func CheckFields(s any, fields ...string) []FieldError {
	return fieldErrors(instance().StructPartial(s, fields...))
}

// Join renders field errors as a single error, or nil when there are none.
func Join(fields []FieldError) error {
	if len(fields) == 0 {
		return nil
	}
	msgs := make([]string, 0, len(fields))
	for _, f := range fields {
		msgs = append(msgs, f.Message)
	}
	return errors.New(strings.Join(msgs, "; "))
}

func fieldErrors(err error) []FieldError {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []FieldError{{Field: "body", Message: err.Error()}}
	}

	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{Field: fe.Field(), Message: message(fe)})
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return "Please provide a valid email address"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters long", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters long", fe.Field(), fe.Param())
	case "bcryptmax":
		return fmt.Sprintf("%s must be at most %d bytes", fe.Field(), MaxPasswordBytes)
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}
