package schema

import (
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

var hhmmPattern = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

// MinutesOfDay converts HH:mm to minutes after midnight
func MinutesOfDay(hhmm string) (int, bool) {
	if !hhmmPattern.MatchString(hhmm) {
		return 0, false
	}
	h, _ := strconv.Atoi(hhmm[:2])
	m, _ := strconv.Atoi(hhmm[3:])
	return h*60 + m, true
}

func validateHHMM(fl validator.FieldLevel) bool {
	_, ok := MinutesOfDay(fl.Field().String())
	return ok
}

// validateTimeAfter checks an HH:mm field is strictly later than the sibling named by the param
func validateTimeAfter(fl validator.FieldLevel) bool {
	other, kind, _, found := fl.GetStructFieldOK2()
	if !found || kind != reflect.String {
		return false
	}
	to, okTo := MinutesOfDay(fl.Field().String())
	from, okFrom := MinutesOfDay(other.String())
	if !okTo || !okFrom {
		// reported by hhmm
		return true
	}
	return to > from
}

// NewValidator returns a validator that knows the custom tags and reports wire names
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		_, name := wireName(fld)
		return name
	})
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if t, ok := field.Interface().(Time); ok {
			return t.Time
		}
		return nil
	}, Time{})

	_ = v.RegisterValidation("hhmm", validateHHMM)
	_ = v.RegisterValidation("timeafter", validateTimeAfter)

	return v
}

// wireName returns the request part and the external name of a field
func wireName(fld reflect.StructField) (string, string) {
	for _, src := range []struct{ tag, part string }{
		{"json", "body"},
		{"query", "query"},
		{"param", "params"},
		{"header", "headers"},
	} {
		value, ok := fld.Tag.Lookup(src.tag)
		if !ok {
			continue
		}
		name := strings.Split(value, ",")[0]
		if name == "-" || name == "" {
			continue
		}
		return src.part, name
	}
	return "", lowerFirst(fld.Name)
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
