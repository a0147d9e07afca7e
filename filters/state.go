package filters

import (
	"strings"
)

// ============================================================================
// FILTER STATE: Immutable selection snapshot
// ============================================================================
// Every operation returns a new State; the receiver is never modified. Sets
// are insertion-ordered slices, and an emptied set collapses to nil so that
// toggling a value twice yields a State equal to the one you started from.
// ============================================================================

// Dimension names a multi-select filter dimension.
type Dimension string

const (
	Departments  Dimension = "departments"
	Locations    Dimension = "locations"
	Designations Dimension = "designations"
	Genders      Dimension = "genders"
)

// Dimensions lists every dimension in display order.
var Dimensions = []Dimension{Departments, Locations, Designations, Genders}

// ParseDimension accepts plural or singular names ("gender", "departments").
func ParseDimension(s string) (Dimension, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, d := range Dimensions {
		if s == string(d) || s+"s" == string(d) {
			return d, true
		}
	}
	return "", false
}

// Bound selects the start or end of the month range.
type Bound int

const (
	Start Bound = iota
	End
)

func (b Bound) String() string {
	if b == End {
		return "end"
	}
	return "start"
}

// All is the sentinel value that clears a single-valued field.
const All = "all"

// State is one filter selection (draft or applied).
type State struct {
	Departments  []string `json:"departments,omitempty"`
	Locations    []string `json:"locations,omitempty"`
	Designations []string `json:"designations,omitempty"`
	Genders      []string `json:"genders,omitempty"`
	StartMonth   string   `json:"start_month,omitempty"`
	EndMonth     string   `json:"end_month,omitempty"`
}

// Members returns a copy of the values selected in a dimension.
func (s State) Members(dim Dimension) []string {
	src := s.members(dim)
	if len(src) == 0 {
		return nil
	}
	out := make([]string, len(src))
	copy(out, src)
	return out
}

// Has reports whether value is selected in dim.
func (s State) Has(dim Dimension, value string) bool {
	for _, m := range s.members(dim) {
		if m == value {
			return true
		}
	}
	return false
}

// Toggle flips membership of value in dim.
func (s State) Toggle(dim Dimension, value string) State {
	cur := s.members(dim)
	next := make([]string, 0, len(cur)+1)
	found := false
	for _, m := range cur {
		if m == value {
			found = true
			continue
		}
		next = append(next, m)
	}
	if !found {
		next = append(next, value)
	}
	return s.Replace(dim, next)
}

// Replace sets dim to exactly values (duplicates and blanks dropped).
func (s State) Replace(dim Dimension, values []string) State {
	out := s.Clone()
	var set []string
	seen := make(map[string]bool, len(values))
	for _, v := range values {
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		set = append(set, v)
	}
	switch dim {
	case Departments:
		out.Departments = set
	case Locations:
		out.Locations = set
	case Designations:
		out.Designations = set
	case Genders:
		out.Genders = set
	}
	return out
}

// Clear empties dim.
func (s State) Clear(dim Dimension) State {
	return s.Replace(dim, nil)
}

// WithBound sets a month bound. "all" or "" clears it.
func (s State) WithBound(b Bound, monthKey string) State {
	out := s.Clone()
	if monthKey == All {
		monthKey = ""
	}
	if b == End {
		out.EndMonth = monthKey
	} else {
		out.StartMonth = monthKey
	}
	return out
}

// ActiveCount is the number of selected values plus one per set bound.
func (s State) ActiveCount() int {
	n := 0
	for _, d := range Dimensions {
		n += len(s.members(d))
	}
	if s.StartMonth != "" {
		n++
	}
	if s.EndMonth != "" {
		n++
	}
	return n
}

// IsEmpty reports whether nothing is selected.
func (s State) IsEmpty() bool {
	return s.ActiveCount() == 0
}

// Equal compares selections, including set order.
func (s State) Equal(o State) bool {
	if s.StartMonth != o.StartMonth || s.EndMonth != o.EndMonth {
		return false
	}
	for _, d := range Dimensions {
		a, b := s.members(d), o.members(d)
		if len(a) != len(b) {
			return false
		}
		for i := range a {
			if a[i] != b[i] {
				return false
			}
		}
	}
	return true
}

// Clone deep-copies the state.
func (s State) Clone() State {
	return State{
		Departments:  s.Members(Departments),
		Locations:    s.Members(Locations),
		Designations: s.Members(Designations),
		Genders:      s.Members(Genders),
		StartMonth:   s.StartMonth,
		EndMonth:     s.EndMonth,
	}
}

func (s State) members(dim Dimension) []string {
	switch dim {
	case Departments:
		return s.Departments
	case Locations:
		return s.Locations
	case Designations:
		return s.Designations
	case Genders:
		return s.Genders
	}
	return nil
}
