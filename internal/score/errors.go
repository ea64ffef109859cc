package score

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes scoring errors.
type ErrorCode string

const (
	// ErrCodeUnknownCriterion indicates a criterion name outside the closed set.
	ErrCodeUnknownCriterion ErrorCode = "UNKNOWN_CRITERION"

	// ErrCodeMissingParameter indicates a criterion parameter without default
	// (the threshold) was not given.
	ErrCodeMissingParameter ErrorCode = "MISSING_PARAMETER"

	// ErrCodeDuplicateCriterion indicates the same criterion was requested twice.
	ErrCodeDuplicateCriterion ErrorCode = "DUPLICATE_CRITERION"

	// ErrCodeNoCriteria indicates a Handler without criteria.
	ErrCodeNoCriteria ErrorCode = "NO_CRITERIA"

	// ErrCodeMissingMetadata indicates a configuration has no metadata value
	// for a criterion that needs one.
	ErrCodeMissingMetadata ErrorCode = "MISSING_METADATA"

	// ErrCodeMissingColumn indicates a configuration listed by the results has
	// no column.
	ErrCodeMissingColumn ErrorCode = "MISSING_COLUMN"

	// ErrCodeUnknownOperation indicates an operation name outside the closed set.
	ErrCodeUnknownOperation ErrorCode = "UNKNOWN_OPERATION"

	// ErrCodeDivisionByZero indicates a zero right-hand operand in Division.
	ErrCodeDivisionByZero ErrorCode = "DIVISION_BY_ZERO"

	// ErrCodeNonPositiveLog indicates Log10 met a value <= 0.
	ErrCodeNonPositiveLog ErrorCode = "NON_POSITIVE_LOG"

	// ErrCodeUnknownKey indicates Rank was asked for an entry no column has.
	ErrCodeUnknownKey ErrorCode = "UNKNOWN_KEY"
)

// Error is the single error type returned by this package.
type Error struct {
	Code          ErrorCode
	Configuration string // may be empty
	Criterion     string // may be empty
	Message       string
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case e.Configuration != "" && e.Criterion != "":
		return fmt.Sprintf("%s: %s (configuration=%s, criterion=%s)", e.Code, e.Message, e.Configuration, e.Criterion)
	case e.Configuration != "":
		return fmt.Sprintf("%s: %s (configuration=%s)", e.Code, e.Message, e.Configuration)
	case e.Criterion != "":
		return fmt.Sprintf("%s: %s (criterion=%s)", e.Code, e.Message, e.Criterion)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// CodeOf returns the code of a wrapped *Error, or "".
func CodeOf(err error) ErrorCode {
	var se *Error
	if errors.As(err, &se) {
		return se.Code
	}
	return ""
}

// IsDivisionByZero returns true if err is a division-by-zero scoring error.
func IsDivisionByZero(err error) bool {
	return CodeOf(err) == ErrCodeDivisionByZero
}

// IsMissingMetadata returns true if err reports missing metadata.
func IsMissingMetadata(err error) bool {
	return CodeOf(err) == ErrCodeMissingMetadata
}
