// Package validation checks signup and login input with go-playground/validator
package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"

	"github.com/go-playground/validator/v10"
)

// Username and password bounds
const (
	UsernameMinLen = 3
	UsernameMaxLen = 32
	PasswordMaxLen = 72 // bcrypt only looks at the first 72 bytes
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

// Signup is the input of a signup request
type Signup struct {
	Username        string `validate:"required,min=3,max=32,username"`
	Password        string `validate:"required,maxbytes=72"`
	PasswordConfirm string `validate:"required"`
}

// Login is the input of a login request
// Only presence is checked so format rules do not leak through login errors
type Login struct {
	Username string `validate:"required"`
	Password string `validate:"required"`
}

// FieldErrors maps a form field name to a human-readable message
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	return fmt.Sprintf("%d invalid field(s)", len(fe))
}

// Validator wraps a configured validator.Validate
type Validator struct {
	validate *validator.Validate
}

// New creates a Validator with the username and maxbytes rules registered
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	})
	// max counts runes; bcrypt's limit is in bytes
	_ = v.RegisterValidation("maxbytes", func(fl validator.FieldLevel) bool {
		limit, err := strconv.Atoi(fl.Param())
		if err != nil {
			return false
		}
		return len(fl.Field().String()) <= limit
	})
	return &Validator{validate: v}
}

// Signup validates a signup request; the error is FieldErrors when input is invalid
func (v *Validator) Signup(in Signup) error {
	return v.check(in)
}

// Login validates a login request; the error is FieldErrors when input is invalid
func (v *Validator) Login(in Login) error {
	return v.check(in)
}

func (v *Validator) check(in any) error {
	err := v.validate.Struct(in)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	fields := make(FieldErrors, len(verrs))
	for _, fe := range verrs {
		name := fieldName(fe.Field())
		if _, seen := fields[name]; !seen {
			fields[name] = message(fe)
		}
	}
	return fields
}

func fieldName(structField string) string {
	switch structField {
	case "Username":
		return "username"
	case "Password":
		return "password"
	case "PasswordConfirm":
		return "password_confirm"
	default:
		return structField
	}
}

func message(fe validator.FieldError) string {
	label := map[string]string{
		"Username":        "Username",
		"Password":        "Password",
		"PasswordConfirm": "Password confirmation",
	}[fe.Field()]

	switch fe.Tag() {
	case "required":
		return label + " is required"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", label, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", label, fe.Param())
	case "maxbytes":
		return fmt.Sprintf("%s must be at most %s bytes", label, fe.Param())
	case "username":
		return label + " may only contain letters, digits, dots, underscores and dashes"
	default:
		return label + " is invalid"
	}
}
