// Package errs defines the error taxonomy shared by the animation engine.
//
// Static configuration mistakes (bad breakpoints, non-positive spring
// constants, unknown scene kinds) are reported as *ConfigurationError and
// propagate untouched to the caller. They are never recovered from inside the
// engine.
package errs

import (
	"errors"
	"fmt"
)

// Sentinel causes carried by ConfigurationError. Match them with errors.Is.
var (
	ErrNotIncreasing  = errors.New("breakpoints are not strictly increasing")
	ErrLengthMismatch = errors.New("input and output ranges differ in length")
	ErrTooFewPoints   = errors.New("at least two breakpoints are required")
	ErrNonPositive    = errors.New("value must be positive")
	ErrNegative       = errors.New("value must not be negative")
	ErrNotFinite      = errors.New("value must be finite")
	ErrUnknown        = errors.New("unknown name")
	ErrInvalid        = errors.New("invalid value")
)

// ErrFrameOutOfRange is returned when a composition frame lies outside
// [0, durationInFrames).
var ErrFrameOutOfRange = errors.New("frame out of range")

// ConfigurationError reports malformed static configuration.
type ConfigurationError struct {
	// Op is the operation that rejected the configuration (e.g. "interp.New").
	Op string
	// Field names the offending parameter, if known.
	Field string
	// Err is the underlying cause, usually one of the sentinels above.
	Err error
}

func (e *ConfigurationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Field, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// Config builds a *ConfigurationError.
func Config(op, field string, err error) error {
	return &ConfigurationError{Op: op, Field: field, Err: err}
}

// Configf builds a *ConfigurationError whose cause wraps sentinel with a
// formatted detail message.
func Configf(op, field string, sentinel error, format string, args ...any) error {
	return &ConfigurationError{
		Op:    op,
		Field: field,
		Err:   fmt.Errorf("%w: %s", sentinel, fmt.Sprintf(format, args...)),
	}
}

// IsConfiguration reports whether err is, or wraps, a *ConfigurationError.
func IsConfiguration(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}
