package summary

import (
	"fmt"
	"slices"

	"github.com/montanaflynn/stats"

	"github.com/roach88/isodesign/internal/score"
)

// Table holds the fluxes common to every configuration with their SDs.
// Values are the flux values of the first configuration; they are the same
// in every result file of one design.
type Table struct {
	fluxes     []Flux
	values     []float64
	ids        []string
	sds        map[string][]float64
	identified map[string]*int
}

// Join inner-joins sims on (Name, Kind). Row order follows the first sim.
func Join(sims ...*Sim) (*Table, error) {
	if len(sims) == 0 {
		return nil, fmt.Errorf("join: no result files")
	}

	index := make([]map[Flux]int, len(sims))
	for i, s := range sims {
		index[i] = make(map[Flux]int, len(s.Fluxes))
		for j, f := range s.Fluxes {
			if _, dup := index[i][f]; dup {
				return nil, fmt.Errorf("%s: flux %s (%s) listed twice", s.ID, f.Name, f.Kind)
			}
			index[i][f] = j
		}
	}

	t := &Table{
		sds:        make(map[string][]float64, len(sims)),
		identified: make(map[string]*int, len(sims)),
	}
	for _, s := range sims {
		if _, dup := t.sds[s.ID]; dup {
			return nil, fmt.Errorf("join: configuration %s given twice", s.ID)
		}
		t.ids = append(t.ids, s.ID)
		t.sds[s.ID] = nil
		t.identified[s.ID] = s.Identified
	}

	first := sims[0]
	for j, f := range first.Fluxes {
		rows := make([]int, len(sims))
		common := true
		for i := range sims {
			row, ok := index[i][f]
			if !ok {
				common = false
				break
			}
			rows[i] = row
		}
		if !common {
			continue
		}
		t.fluxes = append(t.fluxes, f)
		t.values = append(t.values, first.Values[j])
		for i, s := range sims {
			t.sds[s.ID] = append(t.sds[s.ID], s.SDs[rows[i]])
		}
	}
	return t, nil
}

// Configurations implements score.Results.
func (t *Table) Configurations() []string {
	return append([]string(nil), t.ids...)
}

// Column implements score.Results.
func (t *Table) Column(id string) ([]float64, bool) {
	col, ok := t.sds[id]
	if !ok {
		return nil, false
	}
	return append([]float64(nil), col...), true
}

// Fluxes returns the table rows.
func (t *Table) Fluxes() []Flux {
	return append([]Flux(nil), t.fluxes...)
}

// Values returns the flux values, aligned with Fluxes.
func (t *Table) Values() []float64 {
	return append([]float64(nil), t.values...)
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.fluxes) }

// Filter returns a table with the rows whose name is in names and whose kind
// is in kinds. An empty list does not filter.
func (t *Table) Filter(names, kinds []string) *Table {
	out := &Table{
		ids:        append([]string(nil), t.ids...),
		sds:        make(map[string][]float64, len(t.ids)),
		identified: t.identified,
	}
	for _, id := range t.ids {
		out.sds[id] = []float64{}
	}
	for i, f := range t.fluxes {
		if len(names) > 0 && !slices.Contains(names, f.Name) {
			continue
		}
		if len(kinds) > 0 && !slices.Contains(kinds, f.Kind) {
			continue
		}
		out.fluxes = append(out.fluxes, f)
		out.values = append(out.values, t.values[i])
		for _, id := range t.ids {
			out.sds[id] = append(out.sds[id], t.sds[id][i])
		}
	}
	return out
}

// Metadata returns the structurally identified flux counts, for
// configurations whose result file reports them.
func (t *Table) Metadata() score.Metadata {
	meta := make(score.Metadata)
	for _, id := range t.ids {
		if n := t.identified[id]; n != nil {
			meta[id] = score.ConfigInfo{IdentifiedFluxes: score.Int(*n)}
		}
	}
	return meta
}

// ColumnStats summarizes the SDs of one configuration.
type ColumnStats struct {
	Sum    float64
	Mean   float64
	Median float64
	Min    float64
	Max    float64
}

// Stats summarizes the column of configuration id. An empty column yields
// zero stats.
func (t *Table) Stats(id string) (ColumnStats, error) {
	col, ok := t.sds[id]
	if !ok {
		return ColumnStats{}, fmt.Errorf("unknown configuration %s", id)
	}
	if len(col) == 0 {
		return ColumnStats{}, nil
	}

	var cs ColumnStats
	var err error
	if cs.Sum, err = stats.Sum(col); err != nil {
		return ColumnStats{}, err
	}
	if cs.Mean, err = stats.Mean(col); err != nil {
		return ColumnStats{}, err
	}
	if cs.Median, err = stats.Median(col); err != nil {
		return ColumnStats{}, err
	}
	if cs.Min, err = stats.Min(col); err != nil {
		return ColumnStats{}, err
	}
	if cs.Max, err = stats.Max(col); err != nil {
		return ColumnStats{}, err
	}
	return cs, nil
}
