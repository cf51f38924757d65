// Package validation checks form input before it reaches the gateway.
//
// Forms are plain structs tagged for go-playground/validator. A `label` tag
// names the field in messages:
//
//	type TransferForm struct {
//	    Receiver string  `label:"Receiver UPI ID" validate:"required,upi"`
//	    Amount   float64 `label:"Amount" validate:"gte=1,lte=100000"`
//	}
//
// Besides the built-in tags, upi, phone, mobile, username and digits4 are
// registered.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

var ErrInvalid = errors.New("invalid input")

var (
	UPIPattern      = regexp.MustCompile(`^[a-zA-Z0-9._-]+@[a-zA-Z0-9.-]+$`)
	PhonePattern    = regexp.MustCompile(`^[+]?[0-9]{10,15}$`)
	MobilePattern   = regexp.MustCompile(`^[0-9]{10}$`)
	UsernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
	digits4Pattern  = regexp.MustCompile(`^[0-9]{4}$`)
)

// Error lists per-field messages keyed by field label.
type Error struct {
	Fields map[string]string
}

func (e *Error) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, e.Fields[k])
	}
	return strings.Join(parts, "; ")
}

func (e *Error) Unwrap() error { return ErrInvalid }

// Field builds an Error for a single field.
func Field(label, msg string) *Error {
	return &Error{Fields: map[string]string{label: msg}}
}

type Validator struct {
	v *validator.Validate
}

// New registers the wallet tags. It panics if a tag cannot be registered.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if l := f.Tag.Get("label"); l != "" {
			return l
		}
		return f.Name
	})

	for tag, re := range map[string]*regexp.Regexp{
		"upi":      UPIPattern,
		"phone":    PhonePattern,
		"mobile":   MobilePattern,
		"username": UsernamePattern,
		"digits4":  digits4Pattern,
	} {
		re := re
		err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			return re.MatchString(fl.Field().String())
		})
		if err != nil {
			panic(fmt.Sprintf("register %q validation: %v", tag, err))
		}
	}

	return &Validator{v: v}
}

// Struct validates form and returns nil or an *Error.
func (v *Validator) Struct(form any) error {
	err := v.v.Struct(form)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	out := &Error{Fields: make(map[string]string, len(verrs))}
	for _, fe := range verrs {
		if _, seen := out.Fields[fe.Field()]; !seen {
			out.Fields[fe.Field()] = message(fe.Field(), fe)
		}
	}
	return out
}

// Var validates a single value against tag, reporting failures under label.
func (v *Validator) Var(value any, tag, label string) error {
	err := v.v.Var(value, tag)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	return Field(label, message(label, verrs[0]))
}

func message(label string, fe validator.FieldError) string {
	isString := fe.Kind() == reflect.String

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", label)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", label)
	case "upi":
		return fmt.Sprintf("%s must look like name@bank", label)
	case "phone":
		return fmt.Sprintf("%s must be 10 to 15 digits, optionally starting with +", label)
	case "mobile":
		return fmt.Sprintf("%s must be a 10-digit mobile number", label)
	case "username":
		return fmt.Sprintf("%s may only contain letters, digits and underscores", label)
	case "digits4":
		return fmt.Sprintf("%s must be exactly 4 digits", label)
	case "min", "gte":
		if isString {
			return fmt.Sprintf("%s must be at least %s characters", label, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", label, fe.Param())
	case "max", "lte":
		if isString {
			return fmt.Sprintf("%s must be at most %s characters", label, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", label, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", label, fe.Param())
	case "eqfield":
		return fmt.Sprintf("%s must match %s", label, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", label, fe.Param())
	}
	return fmt.Sprintf("%s is invalid", label)
}
