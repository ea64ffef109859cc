package compiler

import (
	"errors"
	"fmt"

	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/roach88/isodesign/internal/tracer"
)

// Error codes of design compilation. Tracer construction failures keep
// their tracer.ErrorCode.
const (
	CodeCUE                = "CUE"
	CodeMissingField       = "MISSING_FIELD"
	CodeUnknownField       = "UNKNOWN_FIELD"
	CodeInvalidType        = string(tracer.ErrCodeInvalidType)
	CodeInvalidValue       = "INVALID_VALUE"
	CodeLabellingLength    = "LABELLING_LENGTH"
	CodeDuplicateLabelling = "DUPLICATE_LABELLING"
	CodeNoSubstrates       = "NO_SUBSTRATES"
	CodeNoTracers          = "NO_TRACERS"
)

// CompileError is a compilation error with its source position.
type CompileError struct {
	Code    string
	Field   string // dotted path, e.g. substrate.Gluc.tracers[1].lower
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Code, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s: %s", e.Code, e.Field, e.Message)
}

// CodeOf returns the code of a wrapped *CompileError, or "".
func CodeOf(err error) string {
	var ce *CompileError
	if errors.As(err, &ce) {
		return ce.Code
	}
	return ""
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(field string, err error) error {
	if err == nil {
		return nil
	}

	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return &CompileError{Code: CodeCUE, Field: field, Message: err.Error()}
	}

	first := errs[0]
	ce := &CompileError{Code: CodeCUE, Field: field, Message: first.Error()}
	if positions := cueerrors.Positions(first); len(positions) > 0 {
		ce.Pos = positions[0]
	}
	return ce
}

// fromTracerError keeps the tracer code and moves the error to the CUE
// position of the tracer.
func fromTracerError(field string, pos token.Pos, err error) error {
	var te *tracer.Error
	if errors.As(err, &te) {
		return &CompileError{
			Code:    string(te.Code),
			Field:   field + "." + te.Field,
			Message: te.Message,
			Pos:     pos,
		}
	}
	return &CompileError{Code: CodeInvalidValue, Field: field, Message: err.Error(), Pos: pos}
}
