// Package frac holds the exact decimal arithmetic shared by every package
// that touches tracer proportions.
//
// Addition, subtraction and multiplication run in a context with precision 0,
// which disables rounding in apd: results are exact. Division is the only
// operation that needs a finite precision; it is confined to Quo and reports
// whether the quotient had to be rounded.
package frac

import (
	"fmt"

	"github.com/cockroachdb/apd/v3"
)

// QuoPrecision is the number of significant digits kept by Quo.
const QuoPrecision = 34

var (
	exact = apd.BaseContext
	quo   = apd.BaseContext.WithPrecision(QuoPrecision)
)

// Zero returns a new decimal 0.
func Zero() *apd.Decimal {
	return apd.New(0, 0)
}

// One returns a new decimal 1.
func One() *apd.Decimal {
	return apd.New(1, 0)
}

// FromInt returns n as a decimal.
func FromInt(n int64) *apd.Decimal {
	return apd.New(n, 0)
}

// Parse reads a decimal literal such as "0.25" or "1".
// NaN and infinities are rejected.
func Parse(s string) (*apd.Decimal, error) {
	d, _, err := apd.NewFromString(s)
	if err != nil {
		return nil, fmt.Errorf("parse decimal %q: %w", s, err)
	}
	if d.Form != apd.Finite {
		return nil, fmt.Errorf("parse decimal %q: not a finite number", s)
	}
	return Normalize(d), nil
}

// MustParse is like Parse but panics on error.
// Use only in tests or for literals known to be valid.
func MustParse(s string) *apd.Decimal {
	d, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Clone returns a deep copy of d. A nil d yields nil.
func Clone(d *apd.Decimal) *apd.Decimal {
	if d == nil {
		return nil
	}
	return new(apd.Decimal).Set(d)
}

// Normalize strips trailing zeros in place so that 0.50 and 0.5 share one
// representation, and returns d.
func Normalize(d *apd.Decimal) *apd.Decimal {
	d.Reduce(d)
	if d.IsZero() {
		d.Negative = false
	}
	return d
}

// Add returns x + y, exactly.
func Add(x, y *apd.Decimal) (*apd.Decimal, error) {
	d := new(apd.Decimal)
	if _, err := exact.Add(d, x, y); err != nil {
		return nil, fmt.Errorf("add %s + %s: %w", String(x), String(y), err)
	}
	return Normalize(d), nil
}

// Sub returns x - y, exactly.
func Sub(x, y *apd.Decimal) (*apd.Decimal, error) {
	d := new(apd.Decimal)
	if _, err := exact.Sub(d, x, y); err != nil {
		return nil, fmt.Errorf("sub %s - %s: %w", String(x), String(y), err)
	}
	return Normalize(d), nil
}

// Mul returns x * y, exactly.
func Mul(x, y *apd.Decimal) (*apd.Decimal, error) {
	d := new(apd.Decimal)
	if _, err := exact.Mul(d, x, y); err != nil {
		return nil, fmt.Errorf("mul %s * %s: %w", String(x), String(y), err)
	}
	return Normalize(d), nil
}

// Quo returns x / y rounded to QuoPrecision digits. inexact reports whether
// rounding happened.
func Quo(x, y *apd.Decimal) (q *apd.Decimal, inexact bool, err error) {
	d := new(apd.Decimal)
	cond, err := quo.Quo(d, x, y)
	if err != nil {
		return nil, false, fmt.Errorf("quo %s / %s: %w", String(x), String(y), err)
	}
	return Normalize(d), cond.Inexact(), nil
}

// Sum returns the exact sum of ds. The sum of no values is 0.
func Sum(ds ...*apd.Decimal) (*apd.Decimal, error) {
	total := Zero()
	for _, d := range ds {
		if _, err := exact.Add(total, total, d); err != nil {
			return nil, fmt.Errorf("sum: %w", err)
		}
	}
	return Normalize(total), nil
}

// InUnitInterval reports whether 0 <= d <= 1.
func InUnitInterval(d *apd.Decimal) bool {
	return d.Sign() >= 0 && d.Cmp(One()) <= 0
}

// IsOne reports whether d == 1.
func IsOne(d *apd.Decimal) bool {
	return d.Cmp(One()) == 0
}

// String formats d in plain notation without trailing zeros ("0.5", "1").
// A nil d formats as the empty string.
func String(d *apd.Decimal) string {
	if d == nil {
		return ""
	}
	r := new(apd.Decimal)
	r.Reduce(d)
	if r.IsZero() {
		return "0"
	}
	return r.Text('f')
}

// Float64 converts d for consumers outside the exact core (scores, reports).
func Float64(d *apd.Decimal) (float64, error) {
	return d.Float64()
}
