package mixture

import (
	"strings"

	"github.com/cockroachdb/apd/v3"

	"github.com/roach88/isodesign/internal/frac"
	"github.com/roach88/isodesign/internal/tracer"
)

// Group is a substrate group: the tracers competing to label one input
// metabolite. The first tracer's proportion is deduced.
type Group struct {
	Substrate string
	Tracers   []*tracer.Tracer
}

// Mixture is one proportion vector. Values are shared between results and
// must be treated as read-only; use Clone before modifying.
type Mixture []*apd.Decimal

// Sum returns the exact sum of the mixture.
func (m Mixture) Sum() (*apd.Decimal, error) {
	return frac.Sum(m...)
}

// Clone returns a deep copy.
func (m Mixture) Clone() Mixture {
	out := make(Mixture, len(m))
	for i, v := range m {
		out[i] = frac.Clone(v)
	}
	return out
}

// Strings formats every value with frac.String.
func (m Mixture) Strings() []string {
	out := make([]string, len(m))
	for i, v := range m {
		out[i] = frac.String(v)
	}
	return out
}

// String implements fmt.Stringer, e.g. "[0.5 0.5 1]".
func (m Mixture) String() string {
	return "[" + strings.Join(m.Strings(), " ") + "]"
}

// GroupMixtures holds the mixtures of one group together with the column
// semantics of their elements.
type GroupMixtures struct {
	Substrate string
	Names     []string
	Patterns  []string
	Mixtures  []Mixture
}

// Result is a complete combination set. It is fully populated when returned
// by Generate and never modified afterwards.
type Result struct {
	groups       []GroupMixtures
	names        []string
	patterns     []string
	combinations []Mixture
}

// Groups returns the per-group mixtures in declaration order.
func (r *Result) Groups() []GroupMixtures {
	out := make([]GroupMixtures, len(r.groups))
	copy(out, r.groups)
	return out
}

// Group returns the mixtures of the named substrate.
func (r *Result) Group(substrate string) (GroupMixtures, bool) {
	for _, g := range r.groups {
		if g.Substrate == substrate {
			return g, true
		}
	}
	return GroupMixtures{}, false
}

// Names returns the substrate name of every element of a combination.
func (r *Result) Names() []string {
	return append([]string(nil), r.names...)
}

// Patterns returns the labelling pattern of every element of a combination.
func (r *Result) Patterns() []string {
	return append([]string(nil), r.patterns...)
}

// Combinations returns a copy of the flattened combination set.
func (r *Result) Combinations() []Mixture {
	out := make([]Mixture, len(r.combinations))
	for i, m := range r.combinations {
		out[i] = m.Clone()
	}
	return out
}

// Len returns the number of combinations.
func (r *Result) Len() int {
	return len(r.combinations)
}

// Combination returns a deep copy of combination i.
func (r *Result) Combination(i int) Mixture {
	return r.combinations[i].Clone()
}
