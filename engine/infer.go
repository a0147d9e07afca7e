package engine

import (
	"fmt"
	"strings"
)

// ============================================================================
// FIELD INFERENCE: Which field is the label, which is the value
// ============================================================================
// Ordered heuristic, first match wins per role:
//   1. label = first field holding a non-blank string
//   2. value = first numeric field not named in ValueDenylist
//   3. value fallback = first ValueSynonyms entry holding a number or numeric
//      string (only when step 2 found nothing)
// The tables are data, not inline conditionals, so callers can swap them.
// ============================================================================

// InferenceRules is the declared heuristic table behind Infer.
type InferenceRules struct {
	// ValueDenylist names numeric fields that are display annotations, not
	// magnitudes. Matched case-insensitively.
	ValueDenylist []string `yaml:"value_denylist" json:"valueDenylist"`

	// ValueSynonyms are checked in priority order when the numeric scan fails.
	ValueSynonyms []string `yaml:"value_synonyms" json:"valueSynonyms"`
}

// DefaultRules returns the heuristic table used by the dashboard.
func DefaultRules() InferenceRules {
	return InferenceRules{
		ValueDenylist: []string{"percentage", "percent", "pct", "share"},
		ValueSynonyms: []string{"count", "employee_count", "value", "total", "total_employees"},
	}
}

// FieldMapping pins label/value fields for a KPI instead of inferring them.
type FieldMapping struct {
	Label string `yaml:"label" json:"label"`
	Value string `yaml:"value" json:"value"`
}

// InferenceSource records which rule produced the value field.
type InferenceSource int

const (
	SourceNone InferenceSource = iota
	SourceScan
	SourceSynonym
	SourceMapping
)

func (s InferenceSource) String() string {
	switch s {
	case SourceScan:
		return "scan"
	case SourceSynonym:
		return "synonym"
	case SourceMapping:
		return "mapping"
	default:
		return "none"
	}
}

// Inference is the outcome for one record. Empty field names mean "use the
// fallback" (placeholder label, zero value).
type Inference struct {
	LabelField  string
	ValueField  string
	ValueSource InferenceSource

	// Ambiguous is set when more than one non-denylisted numeric field exists
	// and the choice fell to key order.
	Ambiguous bool
}

// Infer applies the rules to a single record.
func (r InferenceRules) Infer(rec RawRecord) Inference {
	var in Inference
	numeric := 0

	for _, f := range rec.fields {
		switch f.Value.Kind {
		case ValueString:
			if in.LabelField == "" && strings.TrimSpace(f.Value.Str) != "" {
				in.LabelField = f.Key
			}
		case ValueNumber:
			if r.Denies(f.Key) {
				continue
			}
			numeric++
			if in.ValueField == "" {
				in.ValueField = f.Key
				in.ValueSource = SourceScan
			}
		}
	}
	in.Ambiguous = numeric > 1

	if in.ValueField == "" {
		for _, key := range r.ValueSynonyms {
			if _, ok := rec.Float(key); ok {
				in.ValueField = key
				in.ValueSource = SourceSynonym
				break
			}
		}
	}
	return in
}

// Resolve infers fields, letting an explicit mapping win for each role whose
// field is present in the record.
func (r InferenceRules) Resolve(rec RawRecord, m *FieldMapping) Inference {
	in := r.Infer(rec)
	if m == nil {
		return in
	}
	if m.Label != "" {
		if v, ok := rec.Get(m.Label); ok && strings.TrimSpace(v.Text()) != "" {
			in.LabelField = m.Label
		}
	}
	if m.Value != "" {
		if _, ok := rec.Float(m.Value); ok {
			in.ValueField = m.Value
			in.ValueSource = SourceMapping
			in.Ambiguous = false
		}
	}
	return in
}

// Denies reports whether key is excluded as a value field.
func (r InferenceRules) Denies(key string) bool {
	for _, d := range r.ValueDenylist {
		if strings.EqualFold(key, d) {
			return true
		}
	}
	return false
}

// Label returns the record's label, or the positional placeholder.
func (in Inference) Label(rec RawRecord, index int) string {
	if in.LabelField != "" {
		if s := strings.TrimSpace(rec.Text(in.LabelField)); s != "" {
			return s
		}
	}
	return Placeholder(index)
}

// Value returns the record's numeric value, or 0.
func (in Inference) Value(rec RawRecord) float64 {
	if in.ValueField == "" {
		return 0
	}
	v, _ := rec.Float(in.ValueField)
	return v
}

// Placeholder is the label for a record with no string field. index is 0-based.
func Placeholder(index int) string {
	return fmt.Sprintf("Item %d", index+1)
}
