package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/isodesign/internal/compiler"
)

// ValidationResult is the output of validate.
type ValidationResult struct {
	Valid      bool             `json:"valid"`
	Design     string           `json:"design,omitempty"`
	Hash       string           `json:"hash,omitempty"`
	Substrates []SubstrateBrief `json:"substrates,omitempty"`
	Errors     []DesignError    `json:"errors,omitempty"`
}

// SubstrateBrief summarizes one compiled substrate.
type SubstrateBrief struct {
	Name    string `json:"name"`
	Carbons int    `json:"carbons"`
	Tracers int    `json:"tracers"`
}

// Text implements Texter.
func (r ValidationResult) Text(w io.Writer) error {
	if !r.Valid {
		fmt.Fprintln(w, "✗ Validation failed")
		fmt.Fprintln(w)
		for _, e := range r.Errors {
			if e.Line > 0 {
				fmt.Fprintf(w, "line %d\n", e.Line)
			}
			fmt.Fprintf(w, "  %s: %s: %s\n\n", e.Code, e.Field, e.Message)
		}
		return nil
	}
	fmt.Fprintf(w, "✓ Design %s valid\n", r.Design)
	for _, s := range r.Substrates {
		fmt.Fprintf(w, "  %s: %d carbon(s), %d tracer(s)\n", s.Name, s.Carbons, s.Tracers)
	}
	return nil
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <design.cue>",
		Short: "Compile a design file and report every error",
		Long: `Compile a CUE design file without generating anything.

All errors are reported, each with its position in the file.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	f := newFormatter(opts, cmd)
	if err := checkFile(path); err != nil {
		return f.Fail(ExitCommandError, ErrCodeNotFound, err)
	}

	d, errs := compiler.LoadFile(path, compiler.CollectAll)
	if len(errs) > 0 {
		result := ValidationResult{}
		for _, err := range errs {
			result.Errors = append(result.Errors, toDesignError(err))
		}
		if err := outputValidationErrors(f, result); err != nil {
			return err
		}
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
	}

	hash, err := d.Hash()
	if err != nil {
		return f.Fail(ExitFailure, ErrCodeCompile, err)
	}
	result := ValidationResult{Valid: true, Design: d.Name, Hash: hash}
	for _, s := range d.Substrates {
		result.Substrates = append(result.Substrates, SubstrateBrief{Name: s.Name, Carbons: s.Carbons, Tracers: len(s.Tracers)})
	}
	return f.Success(result)
}

func outputValidationErrors(f *OutputFormatter, result ValidationResult) error {
	if f.Format != "json" {
		return result.Text(f.Writer)
	}
	first := result.Errors[0]
	enc := json.NewEncoder(f.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(CLIResponse{
		Status: "error",
		Data:   result,
		Error:  &CLIError{Code: first.Code, Message: first.Message},
	})
}
