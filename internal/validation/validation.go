// Package validation is the field-level input validation collaborator.
//
// Request DTOs declare their rules with `validate` struct tags
// (go-playground/validator). Struct runs them and reports every failing field
// as a failure.Validation error whose fields keep struct order and use the
// JSON field names clients sent.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/tbourn/go-account-api/internal/failure"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// Struct validates v and returns nil or a *failure.Error of kind Validation.
func Struct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return failure.NewValidationMessage(err.Error())
	}

	var fields []failure.FieldError
	index := map[string]int{}
	for _, fe := range verrs {
		name := fe.Field()
		msg := Message(fe)
		if i, ok := index[name]; ok {
			fields[i].Messages = append(fields[i].Messages, msg)
			continue
		}
		index[name] = len(fields)
		fields = append(fields, failure.FieldError{Field: name, Messages: []string{msg}})
	}
	return failure.NewValidation(fields...)
}

// Message renders one rule violation.
func Message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("Ensure this field has at least %s characters.", fe.Param())
		}
		return fmt.Sprintf("Ensure this value is greater than or equal to %s.", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("Ensure this field has no more than %s characters.", fe.Param())
		}
		return fmt.Sprintf("Ensure this value is less than or equal to %s.", fe.Param())
	case "uuid", "uuid4":
		return "Must be a valid UUID."
	default:
		return "Invalid value."
	}
}
