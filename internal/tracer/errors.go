package tracer

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes tracer construction errors.
type ErrorCode string

const (
	// ErrCodeInvalidType indicates a field was given a value of the wrong kind
	// (for example a string where a bound was expected). Raised by callers
	// that decode tracers from untyped input, such as the design compiler.
	ErrCodeInvalidType ErrorCode = "INVALID_TYPE"

	// ErrCodeNegativeLowerBound indicates lower bound < 0.
	ErrCodeNegativeLowerBound ErrorCode = "NEGATIVE_LOWER_BOUND"

	// ErrCodeUpperBoundRange indicates upper bound outside [0,1].
	ErrCodeUpperBoundRange ErrorCode = "UPPER_BOUND_RANGE"

	// ErrCodeBoundsOrder indicates upper bound < lower bound.
	ErrCodeBoundsOrder ErrorCode = "BOUNDS_ORDER"

	// ErrCodeInvalidIntervals indicates a non-positive interval count.
	ErrCodeInvalidIntervals ErrorCode = "INVALID_INTERVALS"

	// ErrCodeInvalidLabelling indicates an empty pattern or a symbol other
	// than '0' and '1'.
	ErrCodeInvalidLabelling ErrorCode = "INVALID_LABELLING"

	// ErrCodeNegativePrice indicates a price below zero.
	ErrCodeNegativePrice ErrorCode = "NEGATIVE_PRICE"
)

// Error is returned when a Tracer cannot be constructed.
// Values are rejected, never clamped.
type Error struct {
	Code    ErrorCode
	Tracer  string // substrate name, may be empty
	Field   string
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Tracer != "" {
		return fmt.Sprintf("%s: tracer %s: %s: %s", e.Code, e.Tracer, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s: %s", e.Code, e.Field, e.Message)
}

// IsConstructionError reports whether err (or anything it wraps) is a
// tracer construction error.
func IsConstructionError(err error) bool {
	var te *Error
	return errors.As(err, &te)
}

// CodeOf returns the code of a wrapped tracer error, or "" when err is not one.
func CodeOf(err error) ErrorCode {
	var te *Error
	if errors.As(err, &te) {
		return te.Code
	}
	return ""
}
