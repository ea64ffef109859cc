package testutil

import (
	"io"
	"log/slog"

	"github.com/cockroachdb/apd/v3"

	"github.com/roach88/isodesign/internal/frac"
	"github.com/roach88/isodesign/internal/mixture"
	"github.com/roach88/isodesign/internal/tracer"
)

// Dec parses a decimal literal, panicking on malformed input.
func Dec(s string) *apd.Decimal {
	return frac.MustParse(s)
}

// Logger returns a logger that discards everything.
func Logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// GlucFTHF is the reference design: uniformly labelled glucose at a deduced
// fraction, 1-13C glucose in halves, and unlabelled formate.
//
//	Gluc    111111 price 120 (deduced)
//	Gluc    100000 price 95.5, 2 intervals over [0, 1]
//	FTHF_in 0      price 2 (fixed)
//
// Its combination set is [1 0 1], [0.5 0.5 1], [0 1 1].
func GlucFTHF() []mixture.Group {
	return []mixture.Group{
		{Substrate: "Gluc", Tracers: []*tracer.Tracer{
			tracer.MustNew("Gluc", "111111", tracer.DefaultIntervals, Dec("1"), Dec("1"), Dec("120")),
			tracer.MustNew("Gluc", "100000", 2, Dec("0"), Dec("1"), Dec("95.5")),
		}},
		{Substrate: "FTHF_in", Tracers: []*tracer.Tracer{
			tracer.MustNew("FTHF_in", "0", tracer.DefaultIntervals, Dec("1"), Dec("1"), Dec("2")),
		}},
	}
}

// GlucFTHFUnpriced is GlucFTHF without the formate price.
func GlucFTHFUnpriced() []mixture.Group {
	groups := GlucFTHF()
	groups[1].Tracers[0] = tracer.MustNew("FTHF_in", "0", tracer.DefaultIntervals, Dec("1"), Dec("1"), nil)
	return groups
}

// Generate runs a quiet combinator over groups and panics on error.
func Generate(groups []mixture.Group) *mixture.Result {
	res, err := mixture.New(mixture.WithLogger(Logger())).Generate(groups)
	if err != nil {
		panic(err)
	}
	return res
}
