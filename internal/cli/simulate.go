package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/isodesign/internal/solver"
)

// SimulateOptions holds flags for the simulate command.
type SimulateOptions struct {
	Prefix string
	Mode   string
	Args   []string
	Solver string
}

// SimulateResult is the output of simulate.
type SimulateResult struct {
	Dir    string      `json:"dir"`
	Prefix string      `json:"prefix"`
	Mode   solver.Mode `json:"mode"`
	Args   []string    `json:"args,omitempty"`
}

// Text implements Texter.
func (r SimulateResult) Text(w io.Writer) error {
	_, err := fmt.Fprintf(w, "✓ %s finished for %s in %s\n", r.Mode, r.Prefix, r.Dir)
	return err
}

// NewSimulateCommand creates the simulate command.
func NewSimulateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SimulateOptions{}

	cmd := &cobra.Command{
		Use:   "simulate <dir>",
		Short: "Run influx_si on a directory written by combine",
		Long: `Run influx_s (stationary) or influx_i (instationary) with --prefix on
the given directory. Solver output is forwarded to stderr.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulate(rootOpts, opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Prefix, "prefix", "", "model prefix passed to the solver (required)")
	cmd.Flags().StringVar(&opts.Mode, "mode", "", "solver mode: influx_s or influx_i (default from config)")
	cmd.Flags().StringArrayVar(&opts.Args, "arg", nil, "extra solver argument, repeatable (default from config)")
	cmd.Flags().StringVar(&opts.Solver, "solver", "", "solver executable overriding the one named by the mode")
	_ = cmd.MarkFlagRequired("prefix")

	return cmd
}

func runSimulate(rootOpts *RootOptions, opts *SimulateOptions, dir string, cmd *cobra.Command) error {
	f := newFormatter(rootOpts, cmd)
	cfg, err := settings(rootOpts, f)
	if err != nil {
		return err
	}
	if err := checkDir(dir); err != nil {
		return f.Fail(ExitCommandError, ErrCodeNotFound, err)
	}

	mode, err := solver.ParseMode(firstNonEmpty(opts.Mode, cfg.Solver.Mode))
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeInvalidArgs, err)
	}
	args := cfg.Solver.Args
	if cmd.Flags().Changed("arg") {
		args = opts.Args
	}

	runnerOpts := []solver.Option{
		solver.WithLogger(rootOpts.Logger(cmd.ErrOrStderr())),
		solver.WithOutput(cmd.ErrOrStderr()),
	}
	if opts.Solver != "" {
		runnerOpts = append(runnerOpts, solver.WithPath(opts.Solver))
	}
	r, err := solver.New(mode, args, runnerOpts...)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeInvalidArgs, err)
	}
	if err := r.Run(cmd.Context(), dir, opts.Prefix); err != nil {
		return f.Fail(ExitFailure, ErrCodeSolver, err)
	}

	return f.Success(SimulateResult{Dir: dir, Prefix: opts.Prefix, Mode: mode, Args: args})
}
