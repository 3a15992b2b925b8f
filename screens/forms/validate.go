package forms

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}
	return v
}

// ValidationError holds one message per invalid field, keyed by the field's
// wire name.
type ValidationError struct {
	fields map[string]string
}

func (e *ValidationError) Fields() map[string]string {
	return e.fields
}

func (e *ValidationError) Error() string {
	return strings.Join(fieldLines(e.fields), "\n")
}

func validateDraft(draft any) error {
	err := validate.Struct(draft)
	if err == nil {
		return nil
	}
	ve, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	fields := make(map[string]string, len(ve))
	for _, fe := range ve {
		if _, seen := fields[fe.Field()]; !seen {
			fields[fe.Field()] = fieldMessage(fe)
		}
	}
	return &ValidationError{fields: fields}
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return "This field is required."
	case "gt":
		return fmt.Sprintf("Must be greater than %s.", fe.Param())
	case "gte":
		return fmt.Sprintf("Must be at least %s.", fe.Param())
	case "lte":
		return fmt.Sprintf("Must be at most %s.", fe.Param())
	case "numeric", "number":
		return "Enter a valid number."
	case "email":
		return "Enter a valid email address."
	case "datetime":
		return "Enter a date as YYYY-MM-DD."
	case "oneof":
		return fmt.Sprintf("Must be one of: %s.", strings.ReplaceAll(fe.Param(), " ", ", "))
	case "len":
		return fmt.Sprintf("Must have length %s.", fe.Param())
	}
	return fmt.Sprintf("Failed validation for '%s'.", fe.Tag())
}

func fieldLines[V any](fields map[string]V) []string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		var msg string
		switch v := any(fields[k]).(type) {
		case string:
			msg = v
		case []string:
			msg = strings.Join(v, " ")
		}
		lines = append(lines, fmt.Sprintf("%s: %s", k, msg))
	}
	return lines
}
