// Package mixture enumerates label mixtures for substrate groups.
//
// A substrate group lists the tracers competing for one input metabolite.
// Their proportions must sum to 1, so the first tracer of every group is
// deduced rather than enumerated: the combinator walks the fraction grids of
// the remaining ("free") tracers, keeps the candidates whose sum does not
// exceed 1 and prepends 1 - sum. A group with a single tracer uses that
// tracer's grid directly.
//
// Across groups the combinator takes the Cartesian product of every group's
// mixtures, first group varying slowest, and flattens each tuple into one
// vector ordered like the concatenation of the groups' tracer lists. That
// flat list is the combination set: one entry per experiment configuration.
//
// # Invariants
//
//   - Every per-group mixture sums to exactly 1 (decimal Cmp, no epsilon).
//   - Every fraction lies in [0,1].
//   - len(Combinations) == product of len(group mixtures).
//
// A violation is a ConsistencyError and stops generation; no partial result
// is ever returned. The combinator keeps no state between calls.
//
// # Sizing
//
// The combination count grows multiplicatively with free tracers, their
// interval counts and the number of groups. Estimate reports the count
// without materializing the cross product, and WithMaxCombinations makes
// Generate refuse oversized inputs before allocating them.
package mixture
