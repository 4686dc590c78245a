package element

import (
	"errors"
	"fmt"
)

// Error names.
const (
	InvalidSelector      = "InvalidSelector"
	AdoptionWarning      = "AdoptionWarning"
	OrphanRemoval        = "OrphanRemoval"
	MissingBackReference = "MissingBackReference"
	UnknownTag           = "UnknownTag"
)

// Error is a named tdollar failure.
type Error struct {
	Name    string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Name, e.Message)
}

// Is reports whether err carries the given Error name anywhere in its chain.
func Is(err error, name string) bool {
	var e *Error
	return errors.As(err, &e) && e.Name == name
}

// ErrInvalidSelector creates an InvalidSelector error.
func ErrInvalidSelector(message string) *Error {
	return &Error{Name: InvalidSelector, Message: message}
}

// ErrAdoption creates an AdoptionWarning error.
func ErrAdoption(message string) *Error {
	return &Error{Name: AdoptionWarning, Message: message}
}

// ErrOrphanRemoval creates an OrphanRemoval error.
func ErrOrphanRemoval(message string) *Error {
	return &Error{Name: OrphanRemoval, Message: message}
}

// ErrMissingBackReference creates a MissingBackReference error.
func ErrMissingBackReference(message string) *Error {
	return &Error{Name: MissingBackReference, Message: message}
}

// ErrUnknownTag creates an UnknownTag error.
func ErrUnknownTag(message string) *Error {
	return &Error{Name: UnknownTag, Message: message}
}
