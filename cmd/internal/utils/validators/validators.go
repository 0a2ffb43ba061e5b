package validators

import (
	"reflect"
	"strings"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// Layouts accepted for appointment times. The first two are what an HTML
// datetime-local input produces; the value is stored exactly as received.
var iso8601Layouts = []string{
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	time.RFC3339,
	time.RFC3339Nano,
}

// New returns a validator with the project's custom tags registered and
// field names reported by their json tag.
func New() *validator.Validate {
	validate := validator.New()
	validate.RegisterTagNameFunc(jsonTagName)
	Register(validate)
	return validate
}

func Register(validate *validator.Validate) {
	_ = validate.RegisterValidation("iso8601", IsIso8601)
	_ = validate.RegisterValidation("nospaces", NoWhiteSpaces)
}

func IsIso8601(fl validator.FieldLevel) bool {
	return ParseIso8601(fl.Field().String()) == nil
}

func ParseIso8601(value string) error {
	var err error
	for _, layout := range iso8601Layouts {
		if _, err = time.Parse(layout, value); err == nil {
			return nil
		}
	}
	return err
}

func NoWhiteSpaces(fl validator.FieldLevel) bool {
	return !strings.ContainsFunc(fl.Field().String(), unicode.IsSpace)
}

func jsonTagName(field reflect.StructField) string {
	name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
	if name == "-" || name == "" {
		return field.Name
	}
	return name
}
