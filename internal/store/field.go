package store

import (
	"errors"
	"fmt"
)

// ErrUnsupportedField is returned when a search names a field that cannot be searched.
var ErrUnsupportedField = errors.New("unsupported search field")

// Field is one of the contact attributes a search can match on.
type Field int

// The zero value is deliberately not a valid field.
const (
	FieldName Field = iota + 1
	FieldPhone
	FieldEmail
)

// fieldNames are the allowed values for a search field, in the order they are documented.
var fieldNames = []string{"name", "phone", "email"}

// ParseField maps the textual field name used on the command line to a Field.
func ParseField(s string) (Field, error) {
	switch s {
	case "name":
		return FieldName, nil
	case "phone":
		return FieldPhone, nil
	case "email":
		return FieldEmail, nil
	default:
		return 0, fmt.Errorf("%w %q: must be one of %v", ErrUnsupportedField, s, fieldNames)
	}
}

// String returns the command line name of the field.
func (f Field) String() string {
	switch f {
	case FieldName:
		return "name"
	case FieldPhone:
		return "phone"
	case FieldEmail:
		return "email"
	default:
		return fmt.Sprintf("Field(%d)", int(f))
	}
}

// FieldNames returns the names accepted by ParseField.
func FieldNames() []string {
	return append([]string(nil), fieldNames...)
}
