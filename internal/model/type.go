package model

import "fmt"

// Type is the kind of discount a promotion applies.
type Type int

const (
	// TypeValue is a fixed amount off, e.g. $10 off.
	TypeValue Type = iota
	// TypePercentage is a fractional discount, e.g. 20% off.
	TypePercentage
	// TypeUnknown is a promotion whose discount kind is not classified.
	TypeUnknown
)

// String returns the wire name of the type.
func (t Type) String() string {
	switch t {
	case TypeValue:
		return "VALUE"
	case TypePercentage:
		return "PERCENTAGE"
	default:
		return "UNKNOWN"
	}
}

// ParseType maps a wire name to its Type. Unrecognized names return a
// ValidationError with code INVALID_ENUM_VALUE.
func ParseType(name string) (Type, error) {
	switch name {
	case "VALUE":
		return TypeValue, nil
	case "PERCENTAGE":
		return TypePercentage, nil
	case "UNKNOWN":
		return TypeUnknown, nil
	default:
		return TypeUnknown, &ValidationError{
			Code:    CodeInvalidEnumValue,
			Field:   "type",
			Message: fmt.Sprintf("invalid promotion: type %q is not a valid promotion type", name),
		}
	}
}
