package model

// Code classifies a validation failure found while deserializing
// client-supplied promotion data.
type Code string

const (
	CodeMalformedBody    Code = "MALFORMED_BODY"
	CodeMissingField     Code = "MISSING_FIELD"
	CodeInvalidType      Code = "INVALID_TYPE"
	CodeInvalidFormat    Code = "INVALID_FORMAT"
	CodeInvalidEnumValue Code = "INVALID_ENUM_VALUE"
)

// ValidationError reports the first violation found while deserializing a
// promotion. Field is empty for body-level failures.
type ValidationError struct {
	Code    Code
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func malformedBody() *ValidationError {
	return &ValidationError{
		Code:    CodeMalformedBody,
		Message: "invalid promotion: body of request contained bad or no data",
	}
}

func missingField(field string) *ValidationError {
	return &ValidationError{
		Code:    CodeMissingField,
		Field:   field,
		Message: "invalid promotion: missing " + field,
	}
}

func invalidType(field, want string) *ValidationError {
	return &ValidationError{
		Code:    CodeInvalidType,
		Field:   field,
		Message: "invalid promotion: " + field + " must be " + want,
	}
}

func invalidFormat(field string) *ValidationError {
	return &ValidationError{
		Code:    CodeInvalidFormat,
		Field:   field,
		Message: "invalid promotion: " + field + " must match the format " + TimeFormat,
	}
}
