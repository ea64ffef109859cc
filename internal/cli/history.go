package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/isodesign/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	Database string
	Design   string
}

// HistoryResult is the output of history.
type HistoryResult struct {
	Designs   []store.DesignRecord `json:"designs,omitempty"`
	ScoreRuns []store.ScoreRun     `json:"score_runs,omitempty"`
}

// Text implements Texter.
func (r HistoryResult) Text(w io.Writer) error {
	if r.ScoreRuns != nil {
		if len(r.ScoreRuns) == 0 {
			fmt.Fprintln(w, "no score runs")
		}
		for _, run := range r.ScoreRuns {
			op := string(run.Operation)
			if op == "" {
				op = "-"
			}
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", run.Seq, run.ID, op, strings.Join(run.Criteria, ", "))
		}
		return nil
	}
	if len(r.Designs) == 0 {
		fmt.Fprintln(w, "no designs")
	}
	for _, d := range r.Designs {
		hash := d.Hash
		if len(hash) > 12 {
			hash = hash[:12]
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%d configuration(s)\t%s\n", d.Seq, d.ID, d.Name, d.Configurations, hash)
	}
	return nil
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List stored design runs",
		Long: `List the design runs recorded by combine --db, oldest first.

With --design, list the score runs of one design run instead.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(rootOpts, opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "run history database (default from config)")
	cmd.Flags().StringVar(&opts.Design, "design", "", "design run id")

	return cmd
}

func runHistory(rootOpts *RootOptions, opts *HistoryOptions, cmd *cobra.Command) error {
	f := newFormatter(rootOpts, cmd)
	cfg, err := settings(rootOpts, f)
	if err != nil {
		return err
	}
	dbPath := firstNonEmpty(opts.Database, cfg.Database)
	if dbPath == "" {
		return f.Fail(ExitCommandError, ErrCodeInvalidArgs, errors.New("--db is required when no database is configured"))
	}
	if err := checkFile(dbPath); err != nil {
		return f.Fail(ExitCommandError, ErrCodeNotFound, err)
	}

	st, err := store.Open(dbPath)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeStore, err)
	}
	defer st.Close()

	ctx := cmd.Context()
	if opts.Design != "" {
		if _, err := st.ReadDesign(ctx, opts.Design); err != nil {
			return f.Fail(ExitCommandError, ErrCodeNotFound, err)
		}
		runs, err := st.ListScoreRuns(ctx, opts.Design)
		if err != nil {
			return f.Fail(ExitCommandError, ErrCodeStore, err)
		}
		return f.Success(HistoryResult{ScoreRuns: runs})
	}

	designs, err := st.ListDesigns(ctx)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeStore, err)
	}
	return f.Success(HistoryResult{Designs: designs})
}
