// Package score ranks simulated label-input configurations.
//
// The input is a results table with one column per configuration (usually
// the flux standard deviations reported by the solver) plus per-configuration
// metadata gathered while the configurations were built and simulated.
//
// Criteria form a closed set: one struct per criterion, each carrying its own
// parameters, dispatched by a single exhaustive type switch in Evaluate. A
// Handler applies a list of criteria to every column and optionally reduces
// the values of each column with one arithmetic Operation, left to right in
// the order the criteria were requested.
//
// Everything here is a pure computation. Failures (unknown criterion, missing
// metadata, division by zero) are returned as *Error and never turned into
// NaN or infinities.
package score
