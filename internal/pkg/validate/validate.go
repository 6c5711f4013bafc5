// Package validate wraps go-playground/validator and turns its errors into
// *domain.ValidationError values keyed by JSON field name.
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/Aaya-Elsharief/Agri-pal/internal/core/domain"
)

// Validator checks struct tags before any persistence call is made.
type Validator struct {
	v *validator.Validate
}

var std = New()

// New returns a Validator that reports fields by their json tag name.
func New() *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(jsonName)
	return &Validator{v: v}
}

// Struct validates i with the package-level Validator.
func Struct(i any) error {
	return std.Struct(i)
}

// Struct validates i. Required-field failures are collected into
// ValidationError.Missing; any other failure becomes the error message.
func (vv *Validator) Struct(i any) error {
	err := vv.v.Struct(i)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}

	out := &domain.ValidationError{}
	var other []string
	for _, fe := range ve {
		if fe.Tag() == "required" {
			out.Missing = append(out.Missing, fe.Field())
			continue
		}
		other = append(other, fieldError(fe))
	}
	if len(out.Missing) == 0 {
		out.Message = strings.Join(other, "; ")
	}
	return out
}

// fieldError converts a single non-required failure into a readable message.
func fieldError(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}

func jsonName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	switch name {
	case "-":
		return ""
	case "":
		return f.Name
	}
	return name
}
