package domain

import (
	"errors"
	"fmt"
)

var (
	ErrProfileNotFound = errors.New("profile not found")
)

// InputErrorKind identifies the precise validation failure reported to the
// client.
type InputErrorKind string

const (
	KindMissingField          InputErrorKind = "missing_field"
	KindDescriptionTooLong    InputErrorKind = "description_too_long"
	KindFileTooLarge          InputErrorKind = "file_too_large"
	KindBadFileType           InputErrorKind = "bad_file_type"
	KindUnparseableCoordinate InputErrorKind = "unparseable_coordinate"
	KindBadRadius             InputErrorKind = "bad_radius"
)

// InvalidInputError is a client-correctable validation failure.
type InvalidInputError struct {
	Kind  InputErrorKind
	Field string
}

func (e *InvalidInputError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid input: %s", e.Kind)
	}
	return fmt.Sprintf("invalid input: %s (%s)", e.Kind, e.Field)
}

// NewInvalidInput builds an InvalidInputError for the given kind and field.
func NewInvalidInput(kind InputErrorKind, field string) *InvalidInputError {
	return &InvalidInputError{Kind: kind, Field: field}
}

// AsInvalidInput unwraps err into an InvalidInputError, if it is one.
func AsInvalidInput(err error) (*InvalidInputError, bool) {
	var iie *InvalidInputError
	if errors.As(err, &iie) {
		return iie, true
	}
	return nil, false
}
