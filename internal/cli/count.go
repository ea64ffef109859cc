package cli

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/isodesign/internal/mixture"
)

// CountResult is the output of count.
type CountResult struct {
	Design  string       `json:"design"`
	Groups  []GroupCount `json:"groups"`
	Total   uint64       `json:"total"`
	Limit   uint64       `json:"max_combinations,omitempty"`
	Exceeds bool         `json:"exceeds"` // combine would refuse the design

	estimate *mixture.Estimate
}

// GroupCount sizes one substrate group.
type GroupCount struct {
	Substrate  string `json:"substrate"`
	Free       int    `json:"free"`
	Candidates uint64 `json:"candidates"`
	Mixtures   uint64 `json:"mixtures"`
}

// Text implements Texter.
func (r CountResult) Text(w io.Writer) error {
	_, err := io.WriteString(w, r.estimate.String()+"\n")
	return err
}

// NewCountCommand creates the count command.
func NewCountCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "count <design.cue>",
		Short: "Estimate the number of configurations a design produces",
		Long: `Size the combination set of a design without building it.

Each substrate's candidate grid is walked to apply the sum filter. The count
is always reported; when it is above max_combinations, combine would refuse
the design and the output says so.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCount(rootOpts, args[0], cmd)
		},
	}
}

func runCount(opts *RootOptions, path string, cmd *cobra.Command) error {
	f := newFormatter(opts, cmd)
	cfg, err := settings(opts, f)
	if err != nil {
		return err
	}
	d, err := loadDesign(path, f)
	if err != nil {
		return err
	}

	c := mixture.New(
		mixture.WithLogger(opts.Logger(cmd.ErrOrStderr())),
		mixture.WithMaxCombinations(cfg.MaxCombinations),
	)
	est, err := c.Estimate(d.Groups())
	if err != nil {
		return f.Fail(ExitFailure, ErrCodeGenerate, err)
	}

	result := CountResult{Design: d.Name, Total: est.Total, Limit: est.Limit, Exceeds: est.Exceeds(), estimate: est}
	for _, g := range est.Groups {
		result.Groups = append(result.Groups, GroupCount{
			Substrate:  g.Substrate,
			Free:       g.Free,
			Candidates: g.Candidates,
			Mixtures:   g.Mixtures,
		})
	}
	return f.Success(result)
}
