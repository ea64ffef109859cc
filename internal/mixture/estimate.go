package mixture

import (
	"fmt"
	"math/bits"
	"strings"
)

// GroupEstimate sizes one substrate group.
type GroupEstimate struct {
	Substrate string

	// Free is the number of enumerated tracers (all but the deduced first,
	// or the sole tracer of a single-tracer group).
	Free int

	// Candidates is the size of the outer product of the free grids, before
	// the sum filter.
	Candidates uint64

	// Mixtures is the number of candidates that survive the sum filter.
	Mixtures uint64
}

// Estimate sizes a whole combination set.
type Estimate struct {
	Groups []GroupEstimate

	// Total is the number of configurations Generate would produce.
	Total uint64

	// Limit is the combinator's bound, 0 when unbounded.
	Limit uint64
}

// Exceeds reports whether Generate would refuse the set under Limit.
func (e *Estimate) Exceeds() bool {
	if e.Limit == 0 {
		return false
	}
	if e.Total > e.Limit {
		return true
	}
	for _, g := range e.Groups {
		if g.Mixtures > e.Limit {
			return true
		}
	}
	return false
}

// String renders the estimate as one line per group plus the total.
func (e *Estimate) String() string {
	var b strings.Builder
	for _, g := range e.Groups {
		fmt.Fprintf(&b, "%s: %d free tracer(s), %d candidate(s), %d mixture(s)\n",
			g.Substrate, g.Free, g.Candidates, g.Mixtures)
	}
	fmt.Fprintf(&b, "total: %d combination(s)", e.Total)
	if e.Exceeds() {
		fmt.Fprintf(&b, " (exceeds max_combinations %d)", e.Limit)
	}
	return b.String()
}

// mulCheck multiplies a and b, reporting overflow.
func mulCheck(a, b uint64) (uint64, bool) {
	hi, lo := bits.Mul64(a, b)
	return lo, hi == 0
}
