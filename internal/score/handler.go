package score

import "errors"

// Results is a results table with one column per configuration.
type Results interface {
	// Configurations lists configuration ids in column order.
	Configurations() []string

	// Column returns the values of configuration id.
	Column(id string) ([]float64, bool)
}

// Handler applies criteria to every column of a results table and
// optionally combines them.
type Handler struct {
	Criteria  []Criterion
	Operation Operation
}

// Score builds the score table of results. It holds no state: calling it
// twice with the same input yields equal tables.
func (h Handler) Score(results Results, meta Metadata) (*Table, error) {
	if len(h.Criteria) == 0 {
		return nil, &Error{Code: ErrCodeNoCriteria, Message: "at least one criterion is required"}
	}
	if _, err := ParseOperation(string(h.Operation)); err != nil {
		return nil, err
	}

	names := make([]string, len(h.Criteria))
	seen := make(map[string]bool, len(h.Criteria))
	for i, c := range h.Criteria {
		if c == nil {
			return nil, &Error{Code: ErrCodeUnknownCriterion, Message: "nil criterion"}
		}
		if seen[c.Name()] {
			return nil, &Error{
				Code:      ErrCodeDuplicateCriterion,
				Criterion: c.Name(),
				Message:   "criterion requested more than once",
			}
		}
		seen[c.Name()] = true
		names[i] = c.Name()
	}

	table := &Table{Criteria: names, Operation: h.Operation}
	for _, id := range results.Configurations() {
		column, ok := results.Column(id)
		if !ok {
			return nil, &Error{Code: ErrCodeMissingColumn, Configuration: id, Message: "no results column"}
		}

		col := ColumnScores{Configuration: id, Entries: make([]Entry, 0, len(h.Criteria)+1)}
		values := make([]float64, 0, len(h.Criteria))
		for _, c := range h.Criteria {
			v, err := Evaluate(id, column, c, meta)
			if err != nil {
				return nil, err
			}
			col.Entries = append(col.Entries, Entry{Name: c.Name(), Value: v})
			values = append(values, v)
		}

		if h.Operation != OpNone {
			combined, err := h.Operation.Reduce(values)
			if err != nil {
				var se *Error
				if errors.As(err, &se) {
					se.Configuration = id
				}
				return nil, err
			}
			col.Entries = append(col.Entries, Entry{Name: string(h.Operation), Value: combined})
		}
		table.Columns = append(table.Columns, col)
	}
	return table, nil
}
