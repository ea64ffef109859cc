// Package summary reads the .tvar.sim files the solver writes for each
// configuration and joins their flux standard deviations into one table,
// one column per configuration. The table feeds the scorer and the xlsx
// report.
package summary
