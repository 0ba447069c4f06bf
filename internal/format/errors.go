package format

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyInput is returned for zero-length sources, before any parsing.
	ErrEmptyInput = errors.New("empty input")
	// ErrUnsupportedFormat is returned when a decode is attempted for a
	// kind the classifier did not recognise.
	ErrUnsupportedFormat = errors.New("unsupported format")
)

// DecodeError reports malformed or unsupported content.
type DecodeError struct {
	Format string // e.g. "pcd", "ply", "geojson"
	Cause  string // the offending condition
	Err    error  // underlying error, may be nil
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Format, e.Cause, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Format, e.Cause)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Errorf builds a DecodeError with a formatted cause.
func Errorf(format, cause string, args ...any) *DecodeError {
	return &DecodeError{Format: format, Cause: fmt.Sprintf(cause, args...)}
}

// Wrap builds a DecodeError around an underlying error.
func Wrap(format, cause string, err error) *DecodeError {
	return &DecodeError{Format: format, Cause: cause, Err: err}
}
