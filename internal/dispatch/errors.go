package dispatch

import (
	"errors"
	"strings"
)

var (
	// ErrNoInput is returned when there is no request to parse at all.
	ErrNoInput = errors.New("no dispatch request supplied")

	// ErrMissingRequiredField is wrapped by ValidationError.
	ErrMissingRequiredField = errors.New("missing required field")
)

// ValidationError lists the required pre-split fields that were absent.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return ErrMissingRequiredField.Error() + ": " + strings.Join(e.Fields, ", ")
}

func (e *ValidationError) Unwrap() error { return ErrMissingRequiredField }
