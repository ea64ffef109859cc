package mixture

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes combinator errors.
type ErrorCode string

const (
	// ErrCodeNoGroups indicates Generate was called without any group.
	ErrCodeNoGroups ErrorCode = "NO_GROUPS"

	// ErrCodeEmptyGroup indicates a substrate group with zero tracers.
	ErrCodeEmptyGroup ErrorCode = "EMPTY_GROUP"

	// ErrCodeDuplicateGroup indicates two groups share a substrate name.
	ErrCodeDuplicateGroup ErrorCode = "DUPLICATE_GROUP"

	// ErrCodeMixtureSum indicates a mixture whose sum is not exactly 1 or a
	// fraction outside [0,1].
	ErrCodeMixtureSum ErrorCode = "MIXTURE_SUM"

	// ErrCodeTooManyCombinations indicates the configured size bound would be
	// exceeded.
	ErrCodeTooManyCombinations ErrorCode = "TOO_MANY_COMBINATIONS"

	// ErrCodeCountOverflow indicates the combination count does not fit in
	// 64 bits.
	ErrCodeCountOverflow ErrorCode = "COUNT_OVERFLOW"
)

// ConsistencyError reports an internal-consistency failure. It is fatal:
// generation stops and no result is produced.
type ConsistencyError struct {
	Code      ErrorCode
	Substrate string
	Message   string
}

// Error implements the error interface.
func (e *ConsistencyError) Error() string {
	if e.Substrate != "" {
		return fmt.Sprintf("%s: %s (substrate=%s)", e.Code, e.Message, e.Substrate)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// LimitError reports that generation was refused because of its size.
type LimitError struct {
	Code ErrorCode

	// Substrate is set when a single group's mixtures already exceed the
	// bound, or when its candidate count overflows.
	Substrate string

	// Count is the size that was about to be materialized (0 on overflow).
	// For a single group it is a lower bound: generation stops at the first
	// mixture over the limit.
	Count uint64

	// Limit is the configured bound.
	Limit uint64
}

// Error implements the error interface.
func (e *LimitError) Error() string {
	if e.Code == ErrCodeCountOverflow {
		if e.Substrate != "" {
			return fmt.Sprintf("%s: candidate count overflows uint64 (substrate=%s)", e.Code, e.Substrate)
		}
		return fmt.Sprintf("%s: combination count overflows uint64", e.Code)
	}
	if e.Substrate != "" {
		return fmt.Sprintf("%s: at least %d mixtures exceed limit %d (substrate=%s)", e.Code, e.Count, e.Limit, e.Substrate)
	}
	return fmt.Sprintf("%s: %d combinations exceed limit %d", e.Code, e.Count, e.Limit)
}

// IsConsistencyError returns true if err is a ConsistencyError.
// Uses errors.As to handle wrapped errors.
func IsConsistencyError(err error) bool {
	var ce *ConsistencyError
	return errors.As(err, &ce)
}

// IsLimitError returns true if err is a LimitError.
// Uses errors.As to handle wrapped errors.
func IsLimitError(err error) bool {
	var le *LimitError
	return errors.As(err, &le)
}

// CodeOf returns the code carried by a combinator error, or "".
func CodeOf(err error) ErrorCode {
	var ce *ConsistencyError
	if errors.As(err, &ce) {
		return ce.Code
	}
	var le *LimitError
	if errors.As(err, &le) {
		return le.Code
	}
	return ""
}
