package lib

import (
	"errors"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields under their form names instead of Go names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	if err := v.RegisterValidation("flag", isFlag); err != nil {
		panic(err)
	}

	return v
}

// isFlag accepts the boolean spellings an html form can submit
func isFlag(fl validator.FieldLevel) bool {
	_, ok := ParseFlag(fl.Field().String())
	return ok
}

// ParseFlag parses the two values a form can submit for a boolean, 1 and 0
func ParseFlag(s string) (bool, bool) {
	switch strings.TrimSpace(s) {
	case "1":
		return true, true
	case "0":
		return false, true
	}
	return false, false
}

var integerPattern = regexp.MustCompile(`^[+-]?(0|[1-9][0-9]*)$`)

// ParseInteger parses a base 10 integer with an optional sign. Leading zeros,
// fractions and values outside int64 are rejected.
func ParseInteger(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	if !integerPattern.MatchString(s) {
		return 0, false
	}

	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// ValidateStruct runs the struct's validate tags. Messages are looked up as
// "field.tag" in messages first, then fall back to a generic message.
// The first failing rule per field wins.
func ValidateStruct(s any, messages map[string]string, out *ValidationError) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}

	for _, e := range ve {
		field := e.Field()
		if msg, ok := messages[field+"."+e.Tag()]; ok {
			out.Add(field, msg)
			continue
		}
		out.Add(field, defaultMessage(field, e))
	}

	return nil
}

func defaultMessage(field string, e validator.FieldError) string {
	attribute := strings.ReplaceAll(field, "_", " ")

	switch e.Tag() {
	case "required":
		return "The " + attribute + " field is required."
	case "max":
		return "The " + attribute + " field must not be greater than " + e.Param() + " characters."
	case "min":
		return "The " + attribute + " field must be at least " + e.Param() + " characters."
	case "numeric", "number":
		return "The " + attribute + " field must be a number."
	case "flag", "boolean":
		return "The " + attribute + " field must be true or false."
	case "oneof":
		return "The selected " + attribute + " is invalid."
	default:
		return "The " + attribute + " field is invalid."
	}
}
