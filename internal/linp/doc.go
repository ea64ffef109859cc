// Package linp turns a combination set into label-input configurations and
// writes them in the formats influx_si reads.
//
// Build assigns every combination an id (ID_1, ID_2, ... zero-padded to the
// width of the total), drops zero-fraction rows, prices the remaining rows
// and records per-configuration metadata for scoring. A Selection excludes
// and re-includes configurations by their 1-based index before WriteFiles
// writes one .linp file per selected configuration, the
// files_combinations.txt manifest and, with WriteVMTF, the .vmtf file that
// pairs each configuration with the constant model files.
package linp
