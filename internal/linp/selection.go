package linp

import (
	"fmt"
	"slices"

	"github.com/roach88/isodesign/internal/ir"
)

// SelectionError reports an invalid exclusion or re-inclusion.
type SelectionError struct {
	Index   int
	Message string
}

func (e *SelectionError) Error() string {
	return fmt.Sprintf("configuration %d: %s", e.Index, e.Message)
}

// Selection is the subset of a plan that will be written. The zero
// exclusion set selects everything. Selections are values: Exclude and
// Include return new ones.
type Selection struct {
	plan     *Plan
	excluded map[int]bool
}

// Select returns a selection of every configuration of p.
func (p *Plan) Select() Selection {
	return Selection{plan: p, excluded: map[int]bool{}}
}

func (s Selection) clone() Selection {
	ex := make(map[int]bool, len(s.excluded))
	for k, v := range s.excluded {
		ex[k] = v
	}
	return Selection{plan: s.plan, excluded: ex}
}

// Exclude removes configurations by 1-based index. Excluding an index twice
// is allowed.
func (s Selection) Exclude(indices ...int) (Selection, error) {
	out := s.clone()
	for _, i := range indices {
		if i < 1 || i > s.plan.Len() {
			return s, &SelectionError{Index: i, Message: fmt.Sprintf("index out of range 1..%d", s.plan.Len())}
		}
		out.excluded[i] = true
	}
	return out, nil
}

// Include puts excluded configurations back. Including an index that is
// not excluded is an error.
func (s Selection) Include(indices ...int) (Selection, error) {
	out := s.clone()
	for _, i := range indices {
		if !out.excluded[i] {
			return s, &SelectionError{Index: i, Message: "not excluded"}
		}
		delete(out.excluded, i)
	}
	return out, nil
}

// Excluded returns the excluded indices in ascending order.
func (s Selection) Excluded() []int {
	out := make([]int, 0, len(s.excluded))
	for i := range s.excluded {
		out = append(out, i)
	}
	slices.Sort(out)
	return out
}

// Configurations returns the selected configurations in index order.
func (s Selection) Configurations() []ir.Configuration {
	out := make([]ir.Configuration, 0, s.plan.Len()-len(s.excluded))
	for _, cfg := range s.plan.configs {
		if !s.excluded[cfg.Index] {
			out = append(out, cfg)
		}
	}
	return out
}

// Len returns the number of selected configurations.
func (s Selection) Len() int {
	return s.plan.Len() - len(s.excluded)
}
