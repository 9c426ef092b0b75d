// Package validation holds the stateless checks run before any solicitud
// state transition. Struct rules use `validate` tags; domain rules that tags
// cannot express (decimal amounts, payment detail) are plain functions.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"iglesia360/pkg/apperror"

	"github.com/go-playground/validator/v10"
)

const msgMissingFields = "Missing required fields"

// Violations maps a field path to what is wrong with it
type Violations map[string]string

func (v Violations) Empty() bool { return len(v) == 0 }

func (v Violations) Add(field, msg string) {
	if _, exists := v[field]; !exists {
		v[field] = msg
	}
}

// Err turns v into a validation error, or nil when v is empty
func (v Violations) Err(msg string) error {
	if v.Empty() {
		return nil
	}
	return apperror.Validation(msg+": "+v.String(), v)
}

// String lists violations in a stable order
func (v Violations) String() string {
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + " " + v[k]
	}
	return strings.Join(parts, ", ")
}

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
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	return v
}

// Struct runs the tag rules of s and reports failures as a validation error
func Struct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apperror.Wrap(err, "validation could not run")
	}

	v := Violations{}
	missing := false
	for _, fe := range fieldErrs {
		v.Add(fieldPath(fe), describe(fe))
		switch fe.Tag() {
		case "required", "notblank", "min":
			missing = true
		}
	}

	if missing {
		return v.Err(msgMissingFields)
	}
	return v.Err("Invalid request")
}

// fieldPath drops the root struct name from the namespace: "Req.items[0].amount" -> "items[0].amount"
func fieldPath(fe validator.FieldError) string {
	parts := strings.SplitN(fe.Namespace(), ".", 2)
	if len(parts) == 2 {
		return parts[1]
	}
	return fe.Field()
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "notblank":
		return "must not be blank"
	case "min":
		return fmt.Sprintf("must have at least %s element(s)", fe.Param())
	case "oneof":
		return "must be one of: " + fe.Param()
	case "email":
		return "must be a valid email"
	case "gt":
		return "must be greater than " + fe.Param()
	default:
		return "is invalid (" + fe.Tag() + ")"
	}
}

// RejectionReason requires a non-blank reason for rejecting a solicitud
func RejectionReason(reason string) error {
	if strings.TrimSpace(reason) == "" {
		return apperror.Validation("Rejection reason is required", Violations{"rejectionReason": "is required"})
	}
	return nil
}
