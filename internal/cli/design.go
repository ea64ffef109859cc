package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/roach88/isodesign/internal/compiler"
)

// DesignError is one compilation error as reported by the CLI.
type DesignError struct {
	Code    string `json:"code"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
	Line    int    `json:"line,omitempty"`
	Column  int    `json:"column,omitempty"`
}

func toDesignError(err error) DesignError {
	var ce *compiler.CompileError
	if errors.As(err, &ce) {
		de := DesignError{Code: ce.Code, Field: ce.Field, Message: ce.Message}
		if ce.Pos.IsValid() {
			de.Line = ce.Pos.Line()
			de.Column = ce.Pos.Column()
		}
		return de
	}
	return DesignError{Code: ErrCodeCompile, Message: err.Error()}
}

// loadDesign compiles path, reporting a missing file as a command error and
// the first compilation error as a failure.
func loadDesign(path string, f *OutputFormatter) (*compiler.Design, error) {
	if err := checkFile(path); err != nil {
		return nil, f.Fail(ExitCommandError, ErrCodeNotFound, err)
	}
	d, errs := compiler.LoadFile(path, compiler.FailFast)
	if len(errs) > 0 {
		de := toDesignError(errs[0])
		_ = f.Error(de.Code, errs[0].Error(), de)
		return nil, WrapExitError(ExitFailure, de.Code, errs[0])
	}
	f.VerboseLog("Compiled design %s: %d substrate(s)", d.Name, len(d.Substrates))
	return d, nil
}

func checkFile(path string) error {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("file not found: %s", path)
	}
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}
	return nil
}

func checkDir(path string) error {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("directory not found: %s", path)
	}
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("not a directory: %s", path)
	}
	return nil
}
