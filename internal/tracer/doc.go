// Package tracer defines the Tracer value object and its fraction grid.
//
// A Tracer is one candidate labelling pattern for an input substrate together
// with the proportion range it may take in an experiment. Proportions are
// fractions in [0,1] (not percentages) and the range is discretized by an
// explicit interval count.
//
// All proportions are exact decimals (github.com/cockroachdb/apd/v3). Sums of
// generated fractions are compared to 1 with Cmp, never with an epsilon, so
// binary floating point must not appear anywhere between grid generation and
// the sum check in package mixture.
package tracer
