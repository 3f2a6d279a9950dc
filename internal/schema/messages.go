package schema

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Messages flattens validator output into "part.field reason" strings
func Messages(req interface{}, err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}

	root := reflect.TypeOf(req)
	out := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, fieldPath(root, fe.StructNamespace())+" "+describe(fe))
	}
	return out
}

// fieldPath maps a Go namespace such as Req.Address.Building to body.address.building
func fieldPath(root reflect.Type, structNs string) string {
	segments := strings.Split(structNs, ".")
	if len(segments) > 0 {
		segments = segments[1:] // type name
	}

	part := ""
	var names []string
	current := root
	for _, seg := range segments {
		name, index := seg, ""
		if i := strings.IndexByte(seg, '['); i >= 0 {
			name, index = seg[:i], seg[i:]
		}

		current = indirect(current)
		if current == nil || current.Kind() != reflect.Struct {
			names = append(names, seg)
			continue
		}
		fld, ok := current.FieldByName(name)
		if !ok {
			names = append(names, seg)
			continue
		}
		current = fld.Type
		if index != "" {
			current = indirect(current)
			if current != nil && (current.Kind() == reflect.Slice || current.Kind() == reflect.Array) {
				current = current.Elem()
			}
		}
		if fld.Anonymous {
			continue
		}

		p, wire := wireName(fld)
		if part == "" {
			part = p
		}
		names = append(names, wire+index)
	}

	if part == "" {
		part = "body"
	}
	return part + "." + strings.Join(names, ".")
}

func indirect(t reflect.Type) reflect.Type {
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t
}

func describe(fe validator.FieldError) string {
	kind := fe.Kind()
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "uuid", "uuid4":
		return "must be a valid UUID"
	case "url", "uri":
		return "must be a valid URL"
	case "hhmm":
		return "must be a time in HH:mm format"
	case "timeafter", "gtfield":
		return fmt.Sprintf("must be after %s", lowerFirst(fe.Param()))
	case "gtefield":
		return fmt.Sprintf("must not be before %s", lowerFirst(fe.Param()))
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", strings.Join(strings.Fields(fe.Param()), ", "))
	case "min", "gte":
		switch kind {
		case reflect.String:
			return fmt.Sprintf("length must be at least %s characters long", fe.Param())
		case reflect.Slice, reflect.Array, reflect.Map:
			return fmt.Sprintf("must contain at least %s items", fe.Param())
		}
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	case "max", "lte":
		switch kind {
		case reflect.String:
			return fmt.Sprintf("length must be less than or equal to %s characters long", fe.Param())
		case reflect.Slice, reflect.Array, reflect.Map:
			return fmt.Sprintf("must contain less than or equal to %s items", fe.Param())
		}
		return fmt.Sprintf("must be less than or equal to %s", fe.Param())
	}
	return fmt.Sprintf("failed the %q rule", fe.Tag())
}
