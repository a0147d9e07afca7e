package schema

import (
	"sort"

	"github.com/spektr-org/kpiview/engine"
)

// ============================================================================
// FIELD DISCOVERY: Inspect a KPI's records and suggest a definition
// ============================================================================
// Runs the same inference the engine uses over every record and reports what
// it saw, so KPIs whose records carry several numeric fields can be given an
// explicit mapping before they reach a dashboard.
//
// Per field:
//   1. Count string / numeric / null / bool occurrences
//   2. Note whether the inference rules deny it as a value
// Per KPI:
//   3. Tally which label/value fields inference picked
//   4. Suggest a mapping when the pick was ambiguous
// ============================================================================

// FieldProfile summarizes one field across a KPI's records.
type FieldProfile struct {
	Key     string `json:"key" yaml:"key"`
	Strings int    `json:"strings" yaml:"strings"`
	Numbers int    `json:"numbers" yaml:"numbers"`
	Nulls   int    `json:"nulls" yaml:"nulls"`
	Bools   int    `json:"bools" yaml:"bools"`
	Denied  bool   `json:"denied,omitempty" yaml:"denied,omitempty"`
}

// Numeric reports whether the field held only numbers (ignoring nulls).
func (f FieldProfile) Numeric() bool {
	return f.Numbers > 0 && f.Strings == 0 && f.Bools == 0
}

// Discovery is the inspection result for one KPI.
type Discovery struct {
	KpiID      string         `json:"kpiId" yaml:"kpi_id"`
	Records    int            `json:"records" yaml:"records"`
	Fields     []FieldProfile `json:"fields" yaml:"fields"`
	LabelField string         `json:"labelField,omitempty" yaml:"label_field,omitempty"`
	ValueField string         `json:"valueField,omitempty" yaml:"value_field,omitempty"`
	Ambiguous  bool           `json:"ambiguous" yaml:"ambiguous"`
	Suggested  KpiDefinition  `json:"suggested" yaml:"suggested"`
}

// Discover inspects a dataset. known supplies any existing definition so the
// suggestion keeps its chart kind and category.
func Discover(ds engine.KpiDataset, rules engine.InferenceRules, known *Catalog) Discovery {
	d := Discovery{KpiID: ds.ID, Records: len(ds.Records)}

	profiles := make(map[string]*FieldProfile)
	order := engine.UnionKeys(ds.Records)
	for _, key := range order {
		profiles[key] = &FieldProfile{Key: key, Denied: rules.Denies(key)}
	}

	labelVotes := make(map[string]int)
	valueVotes := make(map[string]int)
	for _, rec := range ds.Records {
		for _, f := range rec.Fields() {
			p := profiles[f.Key]
			switch f.Value.Kind {
			case engine.ValueString:
				p.Strings++
			case engine.ValueNumber:
				p.Numbers++
			case engine.ValueBool:
				p.Bools++
			default:
				p.Nulls++
			}
		}
		in := rules.Infer(rec)
		if in.LabelField != "" {
			labelVotes[in.LabelField]++
		}
		if in.ValueField != "" {
			valueVotes[in.ValueField]++
		}
		if in.Ambiguous {
			d.Ambiguous = true
		}
	}

	for _, key := range order {
		d.Fields = append(d.Fields, *profiles[key])
	}
	d.LabelField = topVote(labelVotes, order)
	d.ValueField = topVote(valueVotes, order)

	d.Suggested = KpiDefinition{ID: ds.ID, Name: ds.Name}
	if known != nil {
		if def, ok := known.Definition(ds.ID); ok {
			d.Suggested = def
		}
	}
	if d.Suggested.ChartType == "" {
		d.Suggested.ChartType = ds.Kind
	}
	if d.Ambiguous && d.Suggested.Mapping == nil {
		d.Suggested.Mapping = &engine.FieldMapping{Label: d.LabelField, Value: d.ValueField}
	}
	return d
}

// DiscoverAll inspects every dataset, sorted by KPI id.
func DiscoverAll(datasets []engine.KpiDataset, rules engine.InferenceRules, known *Catalog) []Discovery {
	out := make([]Discovery, 0, len(datasets))
	for _, ds := range datasets {
		out = append(out, Discover(ds, rules, known))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].KpiID < out[j].KpiID })
	return out
}

// topVote picks the most frequent field, breaking ties by key order.
func topVote(votes map[string]int, order []string) string {
	best, bestN := "", 0
	for _, key := range order {
		if n := votes[key]; n > bestN {
			best, bestN = key, n
		}
	}
	return best
}
