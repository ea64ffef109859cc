// Package compiler turns CUE design files into validated substrate groups.
//
// A design declares each substrate with its carbon count and candidate
// tracers:
//
//	substrate: Gluc: {
//		carbons:    6
//		unlabelled: false
//		tracers: [
//			{labelling: "111111"},
//			{labelling: "100000", intervals: 2, lower: 0, upper: 1, price: 95.5},
//		]
//	}
//	substrate: FTHF_in: carbons: 1
//
// Tracers default to intervals 10 and bounds [1, 1] (a fixed tracer). With
// unlabelled true, the default, the all-zero pattern is put first as a fixed
// tracer unless the list already names it. Numbers are read as exact
// decimals.
package compiler
