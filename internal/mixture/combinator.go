package mixture

import (
	"fmt"
	"log/slog"

	"github.com/cockroachdb/apd/v3"

	"github.com/roach88/isodesign/internal/frac"
	"github.com/roach88/isodesign/internal/tracer"
)

// Combinator turns substrate groups into a combination set.
//
// A Combinator holds only configuration; Generate and Estimate are pure
// functions of their input and safe to call concurrently.
type Combinator struct {
	logger          *slog.Logger
	maxCombinations uint64
}

// Option configures a Combinator.
type Option func(*Combinator)

// WithLogger sets the logger used for generation diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(c *Combinator) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMaxCombinations bounds the number of configurations Generate may
// materialize, and the mixtures of any single group. Raw candidates are
// streamed and not bounded. 0 means unbounded.
func WithMaxCombinations(n uint64) Option {
	return func(c *Combinator) {
		c.maxCombinations = n
	}
}

// New creates a Combinator.
func New(opts ...Option) *Combinator {
	c := &Combinator{logger: slog.Default()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Estimate sizes the combination set of groups without building the cross
// product. Per-group candidates are walked to apply the sum filter but never
// stored. The size bound is reported through Estimate.Exceeds, never as an
// error.
func (c *Combinator) Estimate(groups []Group) (*Estimate, error) {
	if err := validateGroups(groups); err != nil {
		return nil, err
	}

	est := &Estimate{Total: 1, Limit: c.maxCombinations}
	for _, g := range groups {
		free := freeTracers(g)
		candidates, err := candidateCount(g.Substrate, free)
		if err != nil {
			return nil, err
		}

		var n uint64
		err = walkCandidates(grids(free), func(_ []*apd.Decimal, sum *apd.Decimal) error {
			if sum.Cmp(frac.One()) <= 0 {
				n++
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("estimate %s: %w", g.Substrate, err)
		}

		est.Groups = append(est.Groups, GroupEstimate{
			Substrate:  g.Substrate,
			Free:       len(free),
			Candidates: candidates,
			Mixtures:   n,
		})

		total, ok := mulCheck(est.Total, n)
		if !ok {
			return nil, &LimitError{Code: ErrCodeCountOverflow, Limit: c.maxCombinations}
		}
		est.Total = total
	}
	return est, nil
}

// Generate builds the complete combination set of groups.
//
// Groups are processed in slice order. The returned Result is fully
// populated; on any error no Result is returned.
func (c *Combinator) Generate(groups []Group) (*Result, error) {
	if err := validateGroups(groups); err != nil {
		return nil, err
	}

	b := newBuilder(len(groups))
	for _, g := range groups {
		gm, err := c.mixGroup(g)
		if err != nil {
			return nil, err
		}
		b.add(gm)
	}

	total, ok := b.total()
	if !ok {
		return nil, &LimitError{Code: ErrCodeCountOverflow, Limit: c.maxCombinations}
	}
	if c.maxCombinations > 0 && total > c.maxCombinations {
		return nil, &LimitError{Code: ErrCodeTooManyCombinations, Count: total, Limit: c.maxCombinations}
	}

	res := b.build()
	c.logger.Info("label input combinations generated",
		"groups", len(groups),
		"combinations", res.Len(),
	)
	return res, nil
}

// mixGroup runs the per-group steps: grids of the free tracers, outer
// product, sum filter, deduction of the first proportion and the sum check.
func (c *Combinator) mixGroup(g Group) (GroupMixtures, error) {
	free := freeTracers(g)
	deduce := len(g.Tracers) > 1

	if _, err := candidateCount(g.Substrate, free); err != nil {
		return GroupMixtures{}, err
	}
	for _, t := range free {
		if t.Inexact() {
			c.logger.Warn("fraction grid step is not a finite decimal, grid points rounded",
				"substrate", g.Substrate,
				"labelling", t.Labelling(),
				"intervals", t.Intervals(),
				"precision", frac.QuoPrecision,
			)
		}
	}

	one := frac.One()
	var mixtures []Mixture
	err := walkCandidates(grids(free), func(candidate []*apd.Decimal, sum *apd.Decimal) error {
		if sum.Cmp(one) > 0 {
			return nil
		}
		// One group's mixtures already bound the cross product from below.
		if c.maxCombinations > 0 && uint64(len(mixtures)) >= c.maxCombinations {
			return &LimitError{
				Code:      ErrCodeTooManyCombinations,
				Substrate: g.Substrate,
				Count:     uint64(len(mixtures)) + 1,
				Limit:     c.maxCombinations,
			}
		}
		if !deduce {
			mixtures = append(mixtures, Mixture(candidate))
			return nil
		}
		first, err := frac.Sub(one, sum)
		if err != nil {
			return err
		}
		m := make(Mixture, 0, len(candidate)+1)
		m = append(m, first)
		m = append(m, candidate...)
		mixtures = append(mixtures, m)
		return nil
	})
	if err != nil {
		return GroupMixtures{}, fmt.Errorf("mix %s: %w", g.Substrate, err)
	}

	for i, m := range mixtures {
		if err := checkMixture(g.Substrate, i, m); err != nil {
			return GroupMixtures{}, err
		}
	}

	gm := GroupMixtures{
		Substrate: g.Substrate,
		Names:     make([]string, len(g.Tracers)),
		Patterns:  make([]string, len(g.Tracers)),
		Mixtures:  mixtures,
	}
	for i, t := range g.Tracers {
		gm.Names[i] = t.Name()
		gm.Patterns[i] = t.Labelling()
	}

	c.logger.Debug("substrate group mixed",
		"substrate", g.Substrate,
		"tracers", len(g.Tracers),
		"free", len(free),
		"mixtures", len(mixtures),
	)
	if len(mixtures) == 0 {
		c.logger.Warn("no mixture satisfies sum <= 1, combination set will be empty",
			"substrate", g.Substrate)
	}
	return gm, nil
}

// candidateCount computes the size of the outer product of the free grids.
func candidateCount(substrate string, free []*tracer.Tracer) (uint64, error) {
	n := uint64(1)
	for _, t := range free {
		var ok bool
		n, ok = mulCheck(n, uint64(t.GridSize()))
		if !ok {
			return 0, &LimitError{Code: ErrCodeCountOverflow, Substrate: substrate}
		}
	}
	return n, nil
}

// freeTracers returns the enumerated tracers of g: all but the first, or the
// sole tracer of a single-tracer group.
func freeTracers(g Group) []*tracer.Tracer {
	if len(g.Tracers) > 1 {
		return g.Tracers[1:]
	}
	return g.Tracers
}

func grids(ts []*tracer.Tracer) [][]*apd.Decimal {
	out := make([][]*apd.Decimal, len(ts))
	for i, t := range ts {
		out[i] = t.Fractions()
	}
	return out
}

// walkCandidates calls fn for every element of the outer product of axes,
// first axis varying slowest. candidate is freshly allocated for each call
// and may be retained.
func walkCandidates(axes [][]*apd.Decimal, fn func(candidate []*apd.Decimal, sum *apd.Decimal) error) error {
	for _, axis := range axes {
		if len(axis) == 0 {
			return nil
		}
	}

	idx := make([]int, len(axes))
	for {
		candidate := make([]*apd.Decimal, len(axes))
		for i, axis := range axes {
			candidate[i] = axis[idx[i]]
		}
		sum, err := frac.Sum(candidate...)
		if err != nil {
			return err
		}
		if err := fn(candidate, sum); err != nil {
			return err
		}

		// Odometer increment, last axis fastest.
		i := len(idx) - 1
		for ; i >= 0; i-- {
			idx[i]++
			if idx[i] < len(axes[i]) {
				break
			}
			idx[i] = 0
		}
		if i < 0 {
			return nil
		}
	}
}

// checkMixture enforces the per-group post-condition.
func checkMixture(substrate string, index int, m Mixture) error {
	for _, v := range m {
		if !frac.InUnitInterval(v) {
			return &ConsistencyError{
				Code:      ErrCodeMixtureSum,
				Substrate: substrate,
				Message:   fmt.Sprintf("mixture %d %s has fraction %s outside [0,1]", index, m, frac.String(v)),
			}
		}
	}
	sum, err := m.Sum()
	if err != nil {
		return err
	}
	if !frac.IsOne(sum) {
		return &ConsistencyError{
			Code:      ErrCodeMixtureSum,
			Substrate: substrate,
			Message:   fmt.Sprintf("mixture %d %s sums to %s, expected exactly 1", index, m, frac.String(sum)),
		}
	}
	return nil
}

func validateGroups(groups []Group) error {
	if len(groups) == 0 {
		return &ConsistencyError{Code: ErrCodeNoGroups, Message: "at least one substrate group is required"}
	}
	seen := make(map[string]bool, len(groups))
	for _, g := range groups {
		if seen[g.Substrate] {
			return &ConsistencyError{
				Code:      ErrCodeDuplicateGroup,
				Substrate: g.Substrate,
				Message:   "substrate group declared more than once",
			}
		}
		seen[g.Substrate] = true

		if len(g.Tracers) == 0 {
			return &ConsistencyError{
				Code:      ErrCodeEmptyGroup,
				Substrate: g.Substrate,
				Message:   "substrate group has no tracer",
			}
		}
		for i, t := range g.Tracers {
			if t == nil {
				return &ConsistencyError{
					Code:      ErrCodeEmptyGroup,
					Substrate: g.Substrate,
					Message:   fmt.Sprintf("tracer %d is nil", i),
				}
			}
		}
	}
	return nil
}
