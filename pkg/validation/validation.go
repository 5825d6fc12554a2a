// Package validation wraps go-playground/validator and renders its field
// errors with the messages clients already receive from the records API.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/ovaphlow/pitchfork/service-records-go/pkg/apperr"
)

const (
	MsgBlank   = "This field may not be blank."
	MsgEmail   = "Enter a valid email address."
	MsgPKValue = "Incorrect type. Expected pk value, received str."
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, key := range []string{"json", "yaml"} {
			name, _, _ := strings.Cut(f.Tag.Get(key), ",")
			if name != "" && name != "-" {
				return name
			}
		}
		return f.Name
	})
	return v
}

// Check validates value against tag and records the first failure on
// field. It reports whether value passed.
func Check(verr *apperr.ValidationError, field string, value any, tag string) bool {
	msgs := Var(value, tag)
	for _, m := range msgs {
		verr.Add(field, m)
	}
	return len(msgs) == 0
}

// Var returns the messages for value checked against tag, nil when valid.
func Var(value any, tag string) []string {
	return messages(validate.Var(value, tag))
}

// Struct validates the `validate` tags of v and returns messages keyed by
// the json (or yaml) field name.
func Struct(v any) map[string][]string {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		panic(err)
	}
	out := make(map[string][]string, len(ves))
	for _, fe := range ves {
		out[fe.Field()] = append(out[fe.Field()], Message(fe))
	}
	return out
}

// OneOf builds a oneof tag; choices containing spaces are quoted.
func OneOf(choices []string) string {
	quoted := make([]string, len(choices))
	for i, c := range choices {
		if strings.ContainsAny(c, " \t") {
			c = "'" + c + "'"
		}
		quoted[i] = c
	}
	return "oneof=" + strings.Join(quoted, " ")
}

// Max builds a max tag, or "" when n is not positive.
func Max(n int) string {
	if n <= 0 {
		return ""
	}
	return fmt.Sprintf("max=%d", n)
}

// Tags joins the non-empty tags with commas.
func Tags(tags ...string) string {
	out := tags[:0:0]
	for _, t := range tags {
		if t != "" {
			out = append(out, t)
		}
	}
	return strings.Join(out, ",")
}

// Message renders a single field error.
func Message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return MsgBlank
	case "max":
		return fmt.Sprintf("Ensure this field has no more than %s characters.", fe.Param())
	case "oneof":
		return fmt.Sprintf("%q is not a valid choice.", fmt.Sprint(fe.Value()))
	case "number", "numeric":
		return MsgPKValue
	case "email":
		return MsgEmail
	default:
		return fmt.Sprintf("Failed the %s check.", fe.Tag())
	}
}

func messages(err error) []string {
	if err == nil {
		return nil
	}
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		// InvalidValidationError only arises from a malformed call.
		panic(err)
	}
	out := make([]string, 0, len(ves))
	for _, fe := range ves {
		out = append(out, Message(fe))
	}
	return out
}
