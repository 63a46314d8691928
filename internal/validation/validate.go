package validation

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/shelfd/library/internal/library"
)

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their json name so error paths match the wire format.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = validate.RegisterValidation("isbn", func(fl validator.FieldLevel) bool {
		return library.ValidISBN(fl.Field().String())
	})
}

// Struct validates s against its `validate` tags and returns one FieldError
// per offending field, keyed by field path. A nil map means s is valid.
func Struct(s any) map[string]FieldError {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		// InvalidValidationError only happens on non-struct input, which is a
		// programming error; surface it as a single opaque field error.
		return map[string]FieldError{
			"": NewFieldError("", KindFormat, err.Error(), nil, nil),
		}
	}

	out := make(map[string]FieldError, len(verrs))
	for _, fe := range verrs {
		translated := translate(fe)
		if _, exists := out[translated.Path]; !exists {
			out[translated.Path] = translated
		}
	}
	return out
}

// translate converts a single rule failure into the API's field descriptor,
// deriving the kind and bound properties from the violated tag.
func translate(fe validator.FieldError) FieldError {
	path := fe.Field()
	value := fe.Value()

	switch fe.Tag() {
	case "required":
		return NewFieldError(path, KindRequired, fmt.Sprintf("%s is required", path), nil, nil)
	case "oneof":
		allowed := strings.Fields(fe.Param())
		msg := fmt.Sprintf("%s must be one of: %s", path, strings.Join(allowed, ", "))
		return NewFieldError(path, KindInvalidEnumValue, msg, value, map[string]any{"enum": allowed})
	case "min", "gte":
		bound := paramNumber(fe.Param())
		if numericKind(fe.Kind()) {
			msg := fmt.Sprintf("%s must be at least %s", path, fe.Param())
			return NewFieldError(path, KindTooSmall, msg, value, map[string]any{"min": bound})
		}
		msg := fmt.Sprintf("%s must be at least %s characters", path, fe.Param())
		return NewFieldError(path, KindTooSmall, msg, value, map[string]any{"minLength": bound})
	case "max", "lte":
		bound := paramNumber(fe.Param())
		if numericKind(fe.Kind()) {
			msg := fmt.Sprintf("%s must be at most %s", path, fe.Param())
			return NewFieldError(path, KindTooBig, msg, value, map[string]any{"max": bound})
		}
		msg := fmt.Sprintf("%s must be at most %s characters", path, fe.Param())
		return NewFieldError(path, KindTooBig, msg, value, map[string]any{"maxLength": bound})
	case "isbn":
		return NewFieldError(path, KindFormat, "Invalid ISBN format", value, nil)
	case "uuid":
		return NewFieldError(path, KindFormat, "Invalid book ID format", value, nil)
	default:
		return NewFieldError(path, fe.Tag(), fmt.Sprintf("%s is invalid", path), value, nil)
	}
}

func numericKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

func paramNumber(p string) any {
	if n, err := strconv.Atoi(p); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(p, 64); err == nil {
		return f
	}
	return p
}
