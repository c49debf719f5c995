// Package filter holds the selection state behind the search controls and
// evaluates it against the dataset.
package filter

import (
	"slices"

	"github.com/nconklindev/kouken/internal/types"
)

// Dimensions are the columns a Selection can constrain.
var Dimensions = []string{types.ColumnYear, types.ColumnDepartment}

// Selection is the set of checked values per dimension. An empty set places
// no constraint on its dimension.
type Selection struct {
	sets map[string]map[string]struct{}
}

// NewSelection returns a Selection with nothing checked.
func NewSelection() *Selection {
	return &Selection{sets: make(map[string]map[string]struct{})}
}

// Set replaces the checked values of dim.
func (s *Selection) Set(dim string, values ...string) {
	if len(values) == 0 {
		delete(s.sets, dim)
		return
	}
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	s.sets[dim] = set
}

// Toggle flips value in dim and reports whether it is now checked.
func (s *Selection) Toggle(dim, value string) bool {
	set := s.sets[dim]
	if _, ok := set[value]; ok {
		delete(set, value)
		if len(set) == 0 {
			delete(s.sets, dim)
		}
		return false
	}
	if set == nil {
		set = make(map[string]struct{})
		s.sets[dim] = set
	}
	set[value] = struct{}{}
	return true
}

// Clear unchecks every value of dim.
func (s *Selection) Clear(dim string) {
	delete(s.sets, dim)
}

// Has reports whether value is checked in dim.
func (s *Selection) Has(dim, value string) bool {
	_, ok := s.sets[dim][value]
	return ok
}

// Values returns the checked values of dim in sorted order.
func (s *Selection) Values(dim string) []string {
	set := s.sets[dim]
	values := make([]string, 0, len(set))
	for v := range set {
		values = append(values, v)
	}
	slices.Sort(values)
	return values
}

// IsEmpty reports whether no dimension is constrained.
func (s *Selection) IsEmpty() bool {
	return len(s.sets) == 0
}

// Evaluate returns the records that satisfy every constrained dimension, in
// their original order. A record passes a dimension when its value for that
// column is one of the checked values.
func Evaluate(records []types.Record, sel *Selection) []types.Record {
	out := make([]types.Record, 0, len(records))
	for _, r := range records {
		if sel.Matches(r) {
			out = append(out, r)
		}
	}
	return out
}

// Matches reports whether r passes every constrained dimension.
func (s *Selection) Matches(r types.Record) bool {
	for dim, set := range s.sets {
		if len(set) == 0 {
			continue
		}
		if _, ok := set[r[dim]]; !ok {
			return false
		}
	}
	return true
}

// DepartmentCandidates returns the departments offered for the given years:
// the union of the nested choices, or every department when years is empty.
func DepartmentCandidates(choices types.Choices, years []string) []string {
	if len(years) == 0 {
		return choices.Departments
	}
	seen := make(map[string]bool)
	var out []string
	for _, y := range years {
		for _, d := range choices.DepartmentsByYear[y] {
			if !seen[d] {
				seen[d] = true
				out = append(out, d)
			}
		}
	}
	slices.Sort(out)
	return out
}

// PruneDepartments drops checked departments that are no longer offered for
// the checked years. It returns the dropped values.
func (s *Selection) PruneDepartments(choices types.Choices) []string {
	candidates := DepartmentCandidates(choices, s.Values(types.ColumnYear))
	var dropped []string
	for _, d := range s.Values(types.ColumnDepartment) {
		if !slices.Contains(candidates, d) {
			s.Toggle(types.ColumnDepartment, d)
			dropped = append(dropped, d)
		}
	}
	return dropped
}
