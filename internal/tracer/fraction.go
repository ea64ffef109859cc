package tracer

import (
	"fmt"

	"github.com/cockroachdb/apd/v3"

	"github.com/roach88/isodesign/internal/frac"
)

// Fractions returns the ordered grid of proportions the tracer may take:
// Lower + i*(Upper-Lower)/Intervals for i = 0..Intervals.
//
// A fixed tracer (Lower == Upper) yields the single value 1: it fully
// determines the proportion of its isotopomer.
//
// Each point is computed from i directly rather than by accumulating a step,
// so the last point is exactly Upper even when the step is not a finite
// decimal.
func (t *Tracer) Fractions() []*apd.Decimal {
	grid, _ := t.grid()
	return grid
}

// GridSize returns len(t.Fractions()) without building the grid.
func (t *Tracer) GridSize() int {
	if t.IsFixed() {
		return 1
	}
	return t.intervals + 1
}

// Inexact reports whether at least one grid point had to be rounded because
// the step is not a finite decimal (for example a range of 1 in 3 intervals).
func (t *Tracer) Inexact() bool {
	_, inexact := t.grid()
	return inexact
}

func (t *Tracer) grid() ([]*apd.Decimal, bool) {
	if t.IsFixed() {
		return []*apd.Decimal{frac.One()}, false
	}

	// Validated bounds and a positive interval count cannot trap in apd; a
	// failure here is a programming error.
	span, err := frac.Sub(t.upper, t.lower)
	if err != nil {
		panic(fmt.Sprintf("tracer %s: %v", t.name, err))
	}
	n := frac.FromInt(int64(t.intervals))

	inexact := false
	grid := make([]*apd.Decimal, 0, t.intervals+1)
	for i := 0; i <= t.intervals; i++ {
		scaled, err := frac.Mul(span, frac.FromInt(int64(i)))
		if err != nil {
			panic(fmt.Sprintf("tracer %s: %v", t.name, err))
		}
		offset, rounded, err := frac.Quo(scaled, n)
		if err != nil {
			panic(fmt.Sprintf("tracer %s: %v", t.name, err))
		}
		inexact = inexact || rounded
		v, err := frac.Add(t.lower, offset)
		if err != nil {
			panic(fmt.Sprintf("tracer %s: %v", t.name, err))
		}
		grid = append(grid, v)
	}
	return grid, inexact
}
