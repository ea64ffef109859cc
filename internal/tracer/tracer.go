package tracer

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/apd/v3"

	"github.com/roach88/isodesign/internal/frac"
)

// Labelling marks.
const (
	Unlabelled = '0' // natural isotope
	Labelled   = '1' // heavy isotope
)

// Defaults applied by callers that build tracers from partial input.
const (
	DefaultIntervals = 10
)

// Tracer is one candidate labelling pattern for a substrate.
//
// Tracers are immutable: fields are unexported and accessors return copies of
// the decimal values.
type Tracer struct {
	name      string
	labelling string
	intervals int
	lower     *apd.Decimal
	upper     *apd.Decimal
	price     *apd.Decimal
}

// New validates its arguments and returns a Tracer.
//
// lower and upper are fractions in [0,1] with upper >= lower. intervals is the
// number of steps the range is divided into and must be positive. price is
// optional (nil) and must not be negative.
func New(name, labelling string, intervals int, lower, upper, price *apd.Decimal) (*Tracer, error) {
	if err := validateLabelling(name, labelling); err != nil {
		return nil, err
	}
	if intervals <= 0 {
		return nil, &Error{
			Code:    ErrCodeInvalidIntervals,
			Tracer:  name,
			Field:   "intervals",
			Message: fmt.Sprintf("number of intervals must be greater than 0, got %d", intervals),
		}
	}
	if lower == nil || upper == nil {
		return nil, &Error{
			Code:    ErrCodeInvalidType,
			Tracer:  name,
			Field:   "bounds",
			Message: "lower and upper bounds are required",
		}
	}
	if lower.Sign() < 0 {
		return nil, &Error{
			Code:    ErrCodeNegativeLowerBound,
			Tracer:  name,
			Field:   "lower",
			Message: fmt.Sprintf("lower bound must not be negative, got %s", frac.String(lower)),
		}
	}
	if !frac.InUnitInterval(upper) {
		return nil, &Error{
			Code:    ErrCodeUpperBoundRange,
			Tracer:  name,
			Field:   "upper",
			Message: fmt.Sprintf("upper bound must be within [0,1], got %s", frac.String(upper)),
		}
	}
	if upper.Cmp(lower) < 0 {
		return nil, &Error{
			Code:    ErrCodeBoundsOrder,
			Tracer:  name,
			Field:   "upper",
			Message: fmt.Sprintf("upper bound %s must be greater than or equal to lower bound %s", frac.String(upper), frac.String(lower)),
		}
	}
	if price != nil && price.Sign() < 0 {
		return nil, &Error{
			Code:    ErrCodeNegativePrice,
			Tracer:  name,
			Field:   "price",
			Message: fmt.Sprintf("price must not be negative, got %s", frac.String(price)),
		}
	}

	return &Tracer{
		name:      name,
		labelling: labelling,
		intervals: intervals,
		lower:     frac.Normalize(frac.Clone(lower)),
		upper:     frac.Normalize(frac.Clone(upper)),
		price:     frac.Clone(price),
	}, nil
}

// NewFixed returns a tracer whose range collapses to a single value. Its grid
// is [1]. Used for the unlabelled form of a substrate and for the deduced
// first tracer of a group, whose own bounds are never enumerated.
func NewFixed(name, labelling string, price *apd.Decimal) (*Tracer, error) {
	return New(name, labelling, DefaultIntervals, frac.One(), frac.One(), price)
}

// MustNew is like New but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustNew(name, labelling string, intervals int, lower, upper, price *apd.Decimal) *Tracer {
	t, err := New(name, labelling, intervals, lower, upper, price)
	if err != nil {
		panic(err)
	}
	return t
}

func validateLabelling(name, labelling string) error {
	if labelling == "" {
		return &Error{
			Code:    ErrCodeInvalidLabelling,
			Tracer:  name,
			Field:   "labelling",
			Message: "labelling must not be empty",
		}
	}
	for i, r := range labelling {
		if r != Unlabelled && r != Labelled {
			return &Error{
				Code:    ErrCodeInvalidLabelling,
				Tracer:  name,
				Field:   "labelling",
				Message: fmt.Sprintf("labelling must be either 0 (unlabelled) or 1 (labelled), got %q at position %d", r, i),
			}
		}
	}
	return nil
}

// Name returns the substrate name.
func (t *Tracer) Name() string { return t.name }

// Labelling returns the labelling pattern.
func (t *Tracer) Labelling() string { return t.labelling }

// Carbons returns the length of the labelling pattern.
func (t *Tracer) Carbons() int { return len(t.labelling) }

// IsLabelled reports whether the pattern carries at least one heavy isotope.
func (t *Tracer) IsLabelled() bool {
	return strings.ContainsRune(t.labelling, Labelled)
}

// Intervals returns the interval count.
func (t *Tracer) Intervals() int { return t.intervals }

// Lower returns a copy of the lower bound.
func (t *Tracer) Lower() *apd.Decimal { return frac.Clone(t.lower) }

// Upper returns a copy of the upper bound.
func (t *Tracer) Upper() *apd.Decimal { return frac.Clone(t.upper) }

// Price returns a copy of the unit price, or nil when unknown.
func (t *Tracer) Price() *apd.Decimal { return frac.Clone(t.price) }

// HasPrice reports whether a price was given.
func (t *Tracer) HasPrice() bool { return t.price != nil }

// IsFixed reports whether the range collapses to a single value.
func (t *Tracer) IsFixed() bool { return t.lower.Cmp(t.upper) == 0 }

// String implements fmt.Stringer.
func (t *Tracer) String() string {
	price := "none"
	if t.price != nil {
		price = frac.String(t.price)
	}
	return fmt.Sprintf("%s[%s] intervals=%d range=[%s,%s] price=%s",
		t.name, t.labelling, t.intervals, frac.String(t.lower), frac.String(t.upper), price)
}
