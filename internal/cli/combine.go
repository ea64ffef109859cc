package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/isodesign/internal/compiler"
	"github.com/roach88/isodesign/internal/linp"
	"github.com/roach88/isodesign/internal/mixture"
	"github.com/roach88/isodesign/internal/model"
	"github.com/roach88/isodesign/internal/store"
)

// CombineOptions holds flags for the combine command.
type CombineOptions struct {
	OutDir   string
	Model    string
	Exclude  []int
	Max      uint64
	Database string
}

// CombineResult is the output of combine.
type CombineResult struct {
	Design   string   `json:"design"`
	Hash     string   `json:"hash"`
	RunID    string   `json:"run_id,omitempty"`
	Total    int      `json:"total"`
	Written  int      `json:"written"`
	Excluded []int    `json:"excluded,omitempty"`
	Dir      string   `json:"dir"`
	IDs      []string `json:"ids"`
	VMTF     string   `json:"vmtf,omitempty"`
}

// Text implements Texter.
func (r CombineResult) Text(w io.Writer) error {
	fmt.Fprintf(w, "✓ %d of %d configuration(s) of %s written to %s\n", r.Written, r.Total, r.Design, r.Dir)
	if len(r.Excluded) > 0 {
		fmt.Fprintf(w, "  excluded: %v\n", r.Excluded)
	}
	if r.VMTF != "" {
		fmt.Fprintf(w, "  vmtf: %s\n", r.VMTF)
	}
	if r.RunID != "" {
		fmt.Fprintf(w, "  run: %s\n", r.RunID)
	}
	return nil
}

// NewCombineCommand creates the combine command.
func NewCombineCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CombineOptions{}

	cmd := &cobra.Command{
		Use:   "combine <design.cue>",
		Short: "Generate every label input configuration of a design",
		Long: `Generate the configurations of a design and write one .linp file per
configuration plus the files_combinations.txt manifest.

With --model the network model files are copied next to them and a .vmtf
file pairs each configuration with the model. With --db the design and its
configurations are recorded in the run history.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCombine(rootOpts, opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.OutDir, "out", "o", "", "output directory (default from config)")
	cmd.Flags().StringVar(&opts.Model, "model", "", "network model .netw file")
	cmd.Flags().IntSliceVar(&opts.Exclude, "exclude", nil, "1-based configuration indices to leave out")
	cmd.Flags().Uint64Var(&opts.Max, "max", 0, "maximum number of configurations (default from config, 0 = unbounded)")
	cmd.Flags().StringVar(&opts.Database, "db", "", "run history database (default from config)")

	return cmd
}

func runCombine(rootOpts *RootOptions, opts *CombineOptions, path string, cmd *cobra.Command) error {
	f := newFormatter(rootOpts, cmd)
	cfg, err := settings(rootOpts, f)
	if err != nil {
		return err
	}
	outDir := firstNonEmpty(opts.OutDir, cfg.OutputDir)
	dbPath := firstNonEmpty(opts.Database, cfg.Database)
	limit := cfg.MaxCombinations
	if cmd.Flags().Changed("max") {
		limit = opts.Max
	}

	var m *model.Model
	if opts.Model != "" {
		if m, err = model.Discover(opts.Model); err != nil {
			return f.Fail(ExitCommandError, ErrCodeNotFound, err)
		}
	}

	d, err := loadDesign(path, f)
	if err != nil {
		return err
	}
	hash, err := d.Hash()
	if err != nil {
		return f.Fail(ExitFailure, ErrCodeCompile, err)
	}

	groups := d.Groups()
	c := mixture.New(
		mixture.WithLogger(rootOpts.Logger(cmd.ErrOrStderr())),
		mixture.WithMaxCombinations(limit),
	)
	res, err := c.Generate(groups)
	if err != nil {
		return f.Fail(ExitFailure, ErrCodeGenerate, err)
	}
	plan, err := linp.Build(res, linp.PricesFromGroups(groups))
	if err != nil {
		return f.Fail(ExitFailure, ErrCodeGenerate, err)
	}
	sel, err := plan.Select().Exclude(opts.Exclude...)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeInvalidArgs, err)
	}
	if sel.Len() == 0 {
		return f.Fail(ExitCommandError, ErrCodeInvalidArgs, fmt.Errorf("every configuration is excluded"))
	}
	f.VerboseLog("Generated %d configuration(s), %d excluded", plan.Len(), len(sel.Excluded()))

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return f.Fail(ExitCommandError, ErrCodeWriteFailed, fmt.Errorf("failed to create output directory: %w", err))
	}
	ids, err := linp.WriteFiles(outDir, sel)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeWriteFailed, err)
	}

	result := CombineResult{
		Design:   d.Name,
		Hash:     hash,
		Total:    plan.Len(),
		Written:  sel.Len(),
		Excluded: sel.Excluded(),
		Dir:      outDir,
		IDs:      ids,
	}

	if m != nil {
		if err := m.CopyTo(outDir); err != nil {
			return f.Fail(ExitCommandError, ErrCodeWriteFailed, err)
		}
		if result.VMTF, err = linp.WriteVMTF(outDir, linp.VMTF{Name: m.Name, Constant: m.Kinds(), IDs: ids}); err != nil {
			return f.Fail(ExitCommandError, ErrCodeWriteFailed, err)
		}
	}

	if dbPath != "" {
		runID, err := recordDesign(cmd.Context(), dbPath, rootOpts.IDs().Generate(), d, hash, plan, sel)
		if err != nil {
			return f.Fail(ExitCommandError, ErrCodeStore, err)
		}
		result.RunID = runID
	}

	return f.Success(result)
}

func recordDesign(ctx context.Context, dbPath, runID string, d *compiler.Design, hash string, plan *linp.Plan, sel linp.Selection) (string, error) {
	st, err := store.Open(dbPath)
	if err != nil {
		return "", err
	}
	defer st.Close()

	rec := store.DesignRecord{ID: runID, Name: d.Name, Hash: hash, Configurations: plan.Len()}
	if err := st.WriteDesign(ctx, rec, d.Object()); err != nil {
		return "", err
	}
	if err := st.WriteConfigurations(ctx, runID, plan, sel); err != nil {
		return "", err
	}
	return runID, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
