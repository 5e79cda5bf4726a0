package domain

import (
	"errors"
	"fmt"
)

// ErrEmptyResult marks a stage that legitimately produced nothing, for example
// a window with no listings. It is reported as a warning, never as a failure.
var ErrEmptyResult = errors.New("empty result")

// ErrNegativePrice is the invariant violation for prices below zero.
var ErrNegativePrice = errors.New("price must be non-negative")

// SchemaValidationError identifies the row and column of a CSV value that
// could not be coerced into a typed record.
type SchemaValidationError struct {
	Schema string // "currency" or "items"
	Row    int    // 1-based data row, header excluded
	Column string
	Value  string
	Err    error
}

func (e *SchemaValidationError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("%s row %d: %v", e.Schema, e.Row, e.Err)
	}
	return fmt.Sprintf("%s row %d column %s: invalid value %q: %v", e.Schema, e.Row, e.Column, e.Value, e.Err)
}

func (e *SchemaValidationError) Unwrap() error { return e.Err }

// IsValidation reports whether err is (or wraps) a row-level validation failure.
func IsValidation(err error) bool {
	var ve *SchemaValidationError
	return errors.As(err, &ve)
}

// IsEmpty reports whether err marks an empty result rather than a failure.
func IsEmpty(err error) bool {
	return errors.Is(err, ErrEmptyResult)
}
