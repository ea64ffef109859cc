package summary

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
)

// SimExt is the suffix of solver result files.
const SimExt = ".tvar.sim"

// Flux identifies a row of the table.
type Flux struct {
	Name string
	Kind string
}

// Sim is the content of one .tvar.sim file.
type Sim struct {
	ID     string
	Fluxes []Flux
	Values []float64
	SDs    []float64

	// Identified counts rows whose Struct_identif is "yes". Nil when the
	// file has no such column.
	Identified *int
}

// ConfigID returns the configuration id of a result file: its base name up
// to the first dot.
func ConfigID(path string) string {
	base := filepath.Base(path)
	if i := strings.IndexByte(base, '.'); i >= 0 {
		return base[:i]
	}
	return base
}

// ReadSim parses a tab-separated .tvar.sim table. Name, Kind, Value and SD
// columns are required; Struct_identif is optional. Lines starting with #
// are comments.
func ReadSim(id string, r io.Reader) (*Sim, error) {
	cr := csv.NewReader(r)
	cr.Comma = '\t'
	cr.Comment = '#'
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%s: empty file", id)
		}
		return nil, fmt.Errorf("%s: read header: %w", id, err)
	}

	col := make(map[string]int, len(header))
	for i, h := range header {
		col[strings.TrimSpace(h)] = i
	}
	for _, name := range []string{"Name", "Kind", "Value", "SD"} {
		if _, ok := col[name]; !ok {
			return nil, fmt.Errorf("%s: missing column %q", id, name)
		}
	}
	identCol, hasIdent := col["Struct_identif"]

	sim := &Sim{ID: id}
	identified := 0
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", id, err)
		}
		field := func(i int) string {
			if i < len(rec) {
				return strings.TrimSpace(rec[i])
			}
			return ""
		}

		value, err := strconv.ParseFloat(field(col["Value"]), 64)
		if err != nil {
			return nil, fmt.Errorf("%s: line %d: Value: %w", id, line, err)
		}
		sd, err := strconv.ParseFloat(field(col["SD"]), 64)
		if err != nil {
			return nil, fmt.Errorf("%s: line %d: SD: %w", id, line, err)
		}

		sim.Fluxes = append(sim.Fluxes, Flux{Name: field(col["Name"]), Kind: field(col["Kind"])})
		sim.Values = append(sim.Values, value)
		sim.SDs = append(sim.SDs, sd)
		if hasIdent && field(identCol) == "yes" {
			identified++
		}
	}
	if hasIdent {
		sim.Identified = &identified
	}
	return sim, nil
}

// Load reads every .tvar.sim file under dir, recursively, and joins them.
func Load(dir string) (*Table, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), SimExt) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", dir, err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no %s files under %s", SimExt, dir)
	}

	slices.SortFunc(paths, func(a, b string) int {
		return strings.Compare(ConfigID(a), ConfigID(b))
	})

	sims := make([]*Sim, 0, len(paths))
	seen := make(map[string]string, len(paths))
	for _, path := range paths {
		id := ConfigID(path)
		if prev, dup := seen[id]; dup {
			return nil, fmt.Errorf("configuration %s has two result files: %s and %s", id, prev, path)
		}
		seen[id] = path

		sim, err := readSimFile(id, path)
		if err != nil {
			return nil, err
		}
		sims = append(sims, sim)
	}
	return Join(sims...)
}

func readSimFile(id, path string) (*Sim, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadSim(id, f)
}
