// Package validation holds the per-field error descriptors used by the API's
// validation envelope and the translation from declarative rule failures
// into them.
package validation

// Error descriptor names used in the error envelope.
const (
	NameValidationError = "ValidationError"
	NameValidatorError  = "ValidatorError"
	NameNotFoundError   = "NotFoundError"
	NameDatabaseError   = "DatabaseError"
	NameError           = "Error"
)

// Violation kinds attached to field errors. The size/enum kinds come from
// the rule engine; unique/format and the borrow-specific kinds are raised by
// handlers and the persistence layer.
const (
	KindRequired          = "required"
	KindTooSmall          = "too_small"
	KindTooBig            = "too_big"
	KindInvalidEnumValue  = "invalid_enum_value"
	KindFormat            = "format"
	KindFuture            = "future"
	KindUnique            = "unique"
	KindAvailability      = "availability"
	KindInsufficientStock = "insufficient_stock"
)

// FieldError is the structured per-field validation failure descriptor.
type FieldError struct {
	Message    string         `json:"message"`
	Name       string         `json:"name"`
	Properties map[string]any `json:"properties"`
	Kind       string         `json:"kind"`
	Path       string         `json:"path"`
	Value      any            `json:"value"`
}

// NewFieldError builds a FieldError for path with the given kind, message and
// offending value. extra entries are merged into the properties map alongside
// the standard message/type pair.
func NewFieldError(path, kind, message string, value any, extra map[string]any) FieldError {
	props := map[string]any{
		"message": message,
		"type":    kind,
	}
	for k, v := range extra {
		props[k] = v
	}
	return FieldError{
		Message:    message,
		Name:       NameValidatorError,
		Properties: props,
		Kind:       kind,
		Path:       path,
		Value:      value,
	}
}

// ErrorDescriptor is the error payload of the envelope. A generic error
// carries only Name; a validation error carries Name "ValidationError" and
// one FieldError per offending field path.
type ErrorDescriptor struct {
	Name   string                `json:"name"`
	Errors map[string]FieldError `json:"errors,omitempty"`
}

// Generic returns a descriptor with only a name and no field breakdown.
func Generic(name string) ErrorDescriptor {
	return ErrorDescriptor{Name: name}
}

// Validation wraps field errors into a ValidationError descriptor.
func Validation(errs map[string]FieldError) ErrorDescriptor {
	return ErrorDescriptor{Name: NameValidationError, Errors: errs}
}

// Single is a convenience for the one-field validation failures raised by
// handlers (unique conflicts, malformed ids, borrow rejections).
func Single(fe FieldError) ErrorDescriptor {
	return Validation(map[string]FieldError{fe.Path: fe})
}
