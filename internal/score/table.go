package score

import (
	"math"
	"sort"
)

// Entry is one named value of a configuration's scores.
type Entry struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// ColumnScores holds the scores of one configuration, criteria first in the
// order they were requested, then the combined value if an operation ran.
type ColumnScores struct {
	Configuration string  `json:"configuration"`
	Entries       []Entry `json:"entries"`
}

// Get returns the value stored under name.
func (c ColumnScores) Get(name string) (float64, bool) {
	for _, e := range c.Entries {
		if e.Name == name {
			return e.Value, true
		}
	}
	return 0, false
}

// Table is a score table: one ColumnScores per configuration, in results
// order.
type Table struct {
	Criteria  []string       `json:"criteria"`
	Operation Operation      `json:"operation,omitempty"`
	Columns   []ColumnScores `json:"columns"`
}

// Keys returns the entry names every column carries: the criteria followed
// by the operation name when one was applied.
func (t *Table) Keys() []string {
	keys := append([]string(nil), t.Criteria...)
	if t.Operation != OpNone {
		keys = append(keys, string(t.Operation))
	}
	return keys
}

// Get returns the scores of configuration id.
func (t *Table) Get(id string) (ColumnScores, bool) {
	for _, c := range t.Columns {
		if c.Configuration == id {
			return c, true
		}
	}
	return ColumnScores{}, false
}

// AsMap returns configuration id -> entry name -> value.
func (t *Table) AsMap() map[string]map[string]float64 {
	out := make(map[string]map[string]float64, len(t.Columns))
	for _, c := range t.Columns {
		m := make(map[string]float64, len(c.Entries))
		for _, e := range c.Entries {
			m[e.Name] = e.Value
		}
		out[c.Configuration] = m
	}
	return out
}

// Log10 returns a copy of t with every value replaced by its base-10
// logarithm. Values <= 0 are rejected.
func Log10(t *Table) (*Table, error) {
	out := &Table{
		Criteria:  append([]string(nil), t.Criteria...),
		Operation: t.Operation,
		Columns:   make([]ColumnScores, len(t.Columns)),
	}
	for i, c := range t.Columns {
		col := ColumnScores{Configuration: c.Configuration, Entries: make([]Entry, len(c.Entries))}
		for j, e := range c.Entries {
			if e.Value <= 0 {
				return nil, &Error{
					Code:          ErrCodeNonPositiveLog,
					Configuration: c.Configuration,
					Criterion:     e.Name,
					Message:       "logarithm of a value <= 0",
				}
			}
			col.Entries[j] = Entry{Name: e.Name, Value: math.Log10(e.Value)}
		}
		out.Columns[i] = col
	}
	return out, nil
}

// Rank orders configuration ids by the entry named key, ascending unless
// descending is set. Ties keep results order.
func Rank(t *Table, key string, descending bool) ([]string, error) {
	type item struct {
		id    string
		value float64
	}
	items := make([]item, 0, len(t.Columns))
	for _, c := range t.Columns {
		v, ok := c.Get(key)
		if !ok {
			return nil, &Error{
				Code:          ErrCodeUnknownKey,
				Configuration: c.Configuration,
				Message:       "no entry named " + key,
			}
		}
		items = append(items, item{id: c.Configuration, value: v})
	}

	sort.SliceStable(items, func(i, j int) bool {
		if descending {
			return items[i].value > items[j].value
		}
		return items[i].value < items[j].value
	})

	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.id
	}
	return ids, nil
}
