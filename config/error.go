package config

import (
	"errors"
	"fmt"
)

// Error is returned for any invalid or incomplete configuration.
// Configuration errors are raised at job setup, before any task starts.
type Error struct {
	// the offending property - may be empty
	Field   string
	Message string
	// the underlying error, if any
	Err error
}

func NewError(field string, format string, args ...any) *Error {
	return &Error{
		Field:   field,
		Message: fmt.Sprintf(format, args...),
	}
}

// WrapError returns a configuration error carrying the message of err
func WrapError(field string, err error) *Error {
	return &Error{
		Field:   field,
		Message: err.Error(),
		Err:     err,
	}
}

func (e *Error) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("configuration error: %s", e.Message)
	}
	return fmt.Sprintf("configuration error: %s: %s", e.Field, e.Message)
}

// IsConfigError returns whether err is (or wraps) a configuration [Error]
func IsConfigError(err error) bool {
	var configErr *Error
	return errors.As(err, &configErr)
}

func (e *Error) Unwrap() error {
	return e.Err
}
