package cli

import (
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/isodesign/internal/config"
	"github.com/roach88/isodesign/internal/ir"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"
	Config  string // explicit config file

	settings *config.Config
	ids      ir.IDGenerator
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command of the isodesign CLI.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "isodesign",
		Short: "Design isotope labelling experiments",
		Long: `isodesign enumerates candidate label inputs for 13C labelling
experiments, writes them for the influx_si flux solver and ranks the
simulated results.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			f := newFormatter(opts, cmd)
			if !isValidFormat(opts.Format) {
				f.Format = "text"
				return f.Fail(ExitCommandError, ErrCodeInvalidArgs,
					fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			slog.SetDefault(opts.Logger(cmd.ErrOrStderr()))
			if _, err := opts.Settings(); err != nil {
				return f.Fail(ExitCommandError, ErrCodeConfig, err)
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.Config, "config", "", "config file (default $"+config.EnvVar+" or ./"+config.DefaultFile+")")

	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewCountCommand(opts))
	cmd.AddCommand(NewCombineCommand(opts))
	cmd.AddCommand(NewSimulateCommand(opts))
	cmd.AddCommand(NewScoreCommand(opts))
	cmd.AddCommand(NewHistoryCommand(opts))
	cmd.AddCommand(NewCheckCommand(opts))

	return cmd
}

// Settings returns the tool configuration, loading it on first use.
func (o *RootOptions) Settings() (*config.Config, error) {
	if o.settings == nil {
		cfg, _, err := config.Load(o.Config)
		if err != nil {
			return nil, err
		}
		o.settings = cfg
	}
	return o.settings, nil
}

// Logger returns a text logger on w, at debug level when verbose.
func (o *RootOptions) Logger(w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if o.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// IDs returns the generator naming stored runs.
func (o *RootOptions) IDs() ir.IDGenerator {
	if o.ids == nil {
		return ir.UUIDv7Generator{}
	}
	return o.ids
}

func newFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
}

// settings loads the configuration for a subcommand run on its own, as tests
// do, reporting failures through f.
func settings(opts *RootOptions, f *OutputFormatter) (*config.Config, error) {
	cfg, err := opts.Settings()
	if err != nil {
		return nil, f.Fail(ExitCommandError, ErrCodeConfig, err)
	}
	return cfg, nil
}

func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}
