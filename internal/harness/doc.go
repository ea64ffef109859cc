// Package harness runs design scenarios end to end.
//
// A scenario names a CUE design file and a set of assertions about the
// configurations it produces. Running it compiles the design, generates the
// combination set, builds the configuration records, applies exclusions and
// stores the run in a fresh in-memory database. Assertions are evaluated
// against what the store returns, so a scenario also checks the round trip.
//
// # Scenario Format
//
//	name: gluc_fthf
//	description: "Reference glucose/formate design"
//	design: designs/gluc_fthf.cue
//	max_combinations: 100
//	exclude: [3]
//	assertions:
//	  - type: total
//	    count: 3
//	  - type: configuration
//	    id: ID_1
//	    rows:
//	      - {specie: Gluc, isotopomer: "111111", value: "1", price: "120"}
//	      - {specie: FTHF_in, isotopomer: "0", value: "1", price: "2"}
//	  - type: total_price
//	    id: ID_2
//	    value: "109.75"
//
// The design path is relative to the scenario file.
//
// # Assertion Types
//
//   - total: number of generated configurations
//   - written: number of configurations left after exclusion
//   - configuration: exact rows of one written configuration
//   - excluded: the configuration is stored but not written
//   - labeled_inputs: number of labelled rows of one configuration
//   - total_price: summed price of the priced rows of one configuration
//   - unpriced: the configuration has a row without a price
//   - error: the run failed with the given error code
//
// Golden snapshots of the written configurations are compared with
// RunWithGolden.
package harness
