// Package validation wraps go-playground/validator and converts its failures
// into application validation errors.
package validation

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/Kerhoff/shoplist/internal/apperrors"
)

// Validator wraps go-playground/validator with application error conversion.
// It is safe for concurrent use.
type Validator struct {
	v *validator.Validate
}

// New creates a validator using JSON tag names and the "whole" tag, which
// accepts only integral numbers.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	// Registration only fails for an empty tag or nil func.
	_ = v.RegisterValidation("whole", isWhole)

	return &Validator{v: v}
}

func isWhole(fl validator.FieldLevel) bool {
	field := fl.Field()
	switch field.Kind() {
	case reflect.Float32, reflect.Float64:
		f := field.Float()
		return !math.IsInf(f, 0) && f == math.Trunc(f)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	default:
		return false
	}
}

// Struct validates s and reports failures as a validation error of op. The
// message names the first failing field; Details maps every failing field to
// its message.
func (v *Validator) Struct(op apperrors.Op, s any) error {
	if err := v.v.Struct(s); err != nil {
		return v.formatError(op, "", err)
	}
	return nil
}

// Var validates a single value against tag and reports failures under field.
func (v *Validator) Var(op apperrors.Op, field string, value any, tag string) error {
	if err := v.v.Var(value, tag); err != nil {
		return v.formatError(op, field, err)
	}
	return nil
}

// RequiredID trims id and fails when nothing is left.
func (v *Validator) RequiredID(op apperrors.Op, field, id string) (string, error) {
	id = strings.TrimSpace(id)
	if err := v.Var(op, field, id, "required"); err != nil {
		return "", err
	}
	return id, nil
}

func (v *Validator) formatError(op apperrors.Op, field string, err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return apperrors.Wrap(err, apperrors.CodeValidation, op, "invalid input")
	}

	fieldErrors := make(map[string]string, len(validationErrs))
	var names []string
	for _, e := range validationErrs {
		name := field
		if name == "" {
			name = e.Field()
		}
		if _, seen := fieldErrors[name]; !seen {
			names = append(names, name)
		}
		fieldErrors[name] = friendlyMessage(e)
	}

	first := names[0]
	return apperrors.Validationf(op, "%s %s", first, fieldErrors[first]).WithDetails(fieldErrors)
}

func friendlyMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "min":
		if e.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", e.Param())
		}
		return "must be at least " + e.Param()
	case "max":
		if e.Kind() == reflect.String {
			return fmt.Sprintf("must not exceed %s characters", e.Param())
		}
		return "must not exceed " + e.Param()
	case "uuid":
		return "must be a valid UUID"
	case "oneof":
		return "must be one of: " + e.Param()
	case "gt":
		return "must be greater than " + e.Param()
	case "gte":
		return "must be greater than or equal to " + e.Param()
	case "whole":
		return "must be a whole number"
	default:
		return "is invalid"
	}
}
