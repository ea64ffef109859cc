// Package testutil holds shared test fixtures: the reference designs used
// across package tests and a logger that discards output.
package testutil
