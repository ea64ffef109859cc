package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/isodesign/internal/config"
	"github.com/roach88/isodesign/internal/score"
	"github.com/roach88/isodesign/internal/store"
	"github.com/roach88/isodesign/internal/summary"
)

// ScoreOptions holds flags for the score command.
type ScoreOptions struct {
	Criteria   []string
	Threshold  float64
	Weights    map[string]string
	Operation  string
	Log        bool
	Fluxes     []string
	Kinds      []string
	Database   string
	Design     string
	XLSX       string
	Rank       string
	Descending bool
}

// ScoreResult is the output of score.
type ScoreResult struct {
	Scores  *score.Table `json:"scores"`
	Rank    string       `json:"rank,omitempty"`
	Ranking []string     `json:"ranking,omitempty"`
	RunID   string       `json:"run_id,omitempty"`
	XLSX    string       `json:"xlsx,omitempty"`
}

// Text implements Texter: a tab-separated score table, then the ranking.
func (r ScoreResult) Text(w io.Writer) error {
	keys := r.Scores.Keys()
	fmt.Fprintf(w, "Configuration\t%s\n", strings.Join(keys, "\t"))
	for _, col := range r.Scores.Columns {
		fields := []string{col.Configuration}
		for _, k := range keys {
			v, _ := col.Get(k)
			fields = append(fields, strconv.FormatFloat(v, 'g', -1, 64))
		}
		fmt.Fprintln(w, strings.Join(fields, "\t"))
	}
	if r.Rank != "" {
		fmt.Fprintf(w, "\nranking by %s: %s\n", r.Rank, strings.Join(r.Ranking, ", "))
	}
	if r.RunID != "" {
		fmt.Fprintf(w, "run: %s\n", r.RunID)
	}
	if r.XLSX != "" {
		fmt.Fprintf(w, "xlsx: %s\n", r.XLSX)
	}
	return nil
}

// NewScoreCommand creates the score command.
func NewScoreCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ScoreOptions{}

	cmd := &cobra.Command{
		Use:   "score <results-dir>",
		Short: "Score simulated configurations",
		Long: `Load the *.tvar.sim files of a results directory and score every
configuration with the requested criteria.

Criteria: sum_sd, flux_sd (needs --threshold), labeled_inputs, price,
identified. labeled_inputs and price read the run history: pass --db and
--design with the run id printed by combine.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScore(rootOpts, opts, args[0], cmd)
		},
	}

	cmd.Flags().StringSliceVar(&opts.Criteria, "criteria", nil, "criteria keys (default from config)")
	cmd.Flags().Float64Var(&opts.Threshold, "threshold", 0, "SD threshold of flux_sd")
	cmd.Flags().StringToStringVar(&opts.Weights, "weight", nil, "criterion weight, key=value")
	cmd.Flags().StringVar(&opts.Operation, "operation", "", "combine criteria: Addition, Multiplication or Division")
	cmd.Flags().BoolVar(&opts.Log, "log", false, "apply log10 to every score")
	cmd.Flags().StringSliceVar(&opts.Fluxes, "flux", nil, "only score these flux names")
	cmd.Flags().StringSliceVar(&opts.Kinds, "kind", nil, "only score these flux kinds")
	cmd.Flags().StringVar(&opts.Database, "db", "", "run history database (default from config)")
	cmd.Flags().StringVar(&opts.Design, "design", "", "design run id whose metadata to use and to attach scores to")
	cmd.Flags().StringVar(&opts.XLSX, "xlsx", "", "write the results and scores to this xlsx file")
	cmd.Flags().StringVar(&opts.Rank, "rank", "", "rank configurations by this criterion key or score name")
	cmd.Flags().BoolVar(&opts.Descending, "descending", false, "rank highest first")

	return cmd
}

// scoring merges the flags that were set over the configured defaults.
func (o *ScoreOptions) scoring(cmd *cobra.Command, base config.Scoring) (config.Scoring, error) {
	s := base
	flags := cmd.Flags()
	if flags.Changed("criteria") {
		s.Criteria = o.Criteria
	}
	if flags.Changed("threshold") {
		t := o.Threshold
		s.Threshold = &t
	}
	if flags.Changed("operation") {
		s.Operation = o.Operation
	}
	if flags.Changed("log") {
		s.Log = o.Log
	}
	if len(o.Weights) > 0 {
		weights := make(map[string]float64, len(base.Weights)+len(o.Weights))
		for k, v := range base.Weights {
			weights[k] = v
		}
		for k, v := range o.Weights {
			w, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return s, fmt.Errorf("weight %s: %w", k, err)
			}
			weights[k] = w
		}
		s.Weights = weights
	}
	return s, nil
}

func runScore(rootOpts *RootOptions, opts *ScoreOptions, dir string, cmd *cobra.Command) error {
	f := newFormatter(rootOpts, cmd)
	cfg, err := settings(rootOpts, f)
	if err != nil {
		return err
	}
	sc, err := opts.scoring(cmd, cfg.Scoring)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeInvalidArgs, err)
	}
	if len(sc.Criteria) == 0 {
		return f.Fail(ExitCommandError, ErrCodeInvalidArgs, fmt.Errorf("no criteria: pass --criteria or set scoring.criteria"))
	}
	criteria, op, err := sc.Build()
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeInvalidArgs, err)
	}
	dbPath := firstNonEmpty(opts.Database, cfg.Database)
	if opts.Design != "" && dbPath == "" {
		return f.Fail(ExitCommandError, ErrCodeInvalidArgs, fmt.Errorf("--design needs --db"))
	}

	if err := checkDir(dir); err != nil {
		return f.Fail(ExitCommandError, ErrCodeNotFound, err)
	}
	results, err := summary.Load(dir)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeResults, err)
	}
	if len(opts.Fluxes) > 0 || len(opts.Kinds) > 0 {
		results = results.Filter(opts.Fluxes, opts.Kinds)
	}
	f.VerboseLog("Loaded %d configuration(s), %d flux row(s)", len(results.Configurations()), results.Len())

	var st *store.Store
	meta := results.Metadata()
	if opts.Design != "" {
		if st, err = store.Open(dbPath); err != nil {
			return f.Fail(ExitCommandError, ErrCodeStore, err)
		}
		defer st.Close()
		stored, err := st.ReadConfigInfos(cmd.Context(), opts.Design)
		if err != nil {
			return f.Fail(ExitCommandError, ErrCodeStore, err)
		}
		meta = stored.Merge(meta)
	}

	table, err := score.Handler{Criteria: criteria, Operation: op}.Score(results, meta)
	if err != nil {
		return f.Fail(ExitFailure, ErrCodeScore, err)
	}
	if sc.Log {
		if table, err = score.Log10(table); err != nil {
			return f.Fail(ExitFailure, ErrCodeScore, err)
		}
	}

	result := ScoreResult{Scores: table}
	if opts.Rank != "" {
		result.Rank = rankKey(table, opts.Rank)
		if result.Ranking, err = score.Rank(table, result.Rank, opts.Descending); err != nil {
			return f.Fail(ExitCommandError, ErrCodeInvalidArgs, err)
		}
	}
	if opts.XLSX != "" {
		if err := summary.ExportXLSX(opts.XLSX, results, table); err != nil {
			return f.Fail(ExitCommandError, ErrCodeWriteFailed, err)
		}
		result.XLSX = opts.XLSX
	}
	if st != nil {
		runID := rootOpts.IDs().Generate()
		if err := st.WriteScores(cmd.Context(), runID, opts.Design, table); err != nil {
			return f.Fail(ExitCommandError, ErrCodeStore, err)
		}
		result.RunID = runID
	}

	return f.Success(result)
}

// rankKey maps a criterion key (sum_sd) or operation name (add) to the
// entry name of the table. Anything else is returned unchanged.
func rankKey(t *score.Table, key string) string {
	for _, k := range t.Keys() {
		if k == key {
			return k
		}
	}
	zero := 0.0
	if c, err := score.Parse(key, score.Params{Threshold: &zero}); err == nil {
		return c.Name()
	}
	if op, err := score.ParseOperation(key); err == nil && op != score.OpNone {
		return string(op)
	}
	return key
}
