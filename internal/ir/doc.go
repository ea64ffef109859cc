// Package ir holds the records isodesign hands to the solver and stores in
// its run history, together with their canonical JSON form and content
// hashes.
//
// ir imports nothing internal. Record values are decimal strings, never
// floats, so a record hashes identically on every machine.
package ir
