package engine

import (
	"strings"

	"gonum.org/v1/gonum/floats"
)

// ============================================================================
// GROUP AGGREGATOR: Records → two-level totals for stacked charts
// ============================================================================
// totals[primary][secondary] += count
//
// Primary order is first-seen. Secondary order is the first-seen union across
// all records. Missing combinations read as zero. Per-cell totals and stack
// heights do not depend on record order.
// ============================================================================

// UnknownCategory labels a record with no usable primary/secondary value.
const UnknownCategory = "Unknown"

// GroupKeys lists candidate fields per role, checked in order.
type GroupKeys struct {
	Primary   []string `yaml:"primary" json:"primary"`
	Secondary []string `yaml:"secondary" json:"secondary"`
	Count     []string `yaml:"count" json:"count"`
}

// DefaultGroupKeys groups by department (or function) and gender.
func DefaultGroupKeys() GroupKeys {
	return GroupKeys{
		Primary:   []string{"department", "function"},
		Secondary: []string{"gender"},
		Count:     []string{"count", "employee_count"},
	}
}

// GroupedSeries is the full two-level aggregation. Nothing is capped here.
type GroupedSeries struct {
	Primary   []string
	Secondary []string
	totals    map[string]map[string]float64
}

// Group aggregates records by keys.
func Group(records []RawRecord, keys GroupKeys) *GroupedSeries {
	g := &GroupedSeries{
		Primary:   []string{},
		Secondary: []string{},
		totals:    make(map[string]map[string]float64),
	}
	seenSecondary := make(map[string]bool)

	for _, rec := range records {
		p := categoryOf(rec, keys.Primary)
		s := categoryOf(rec, keys.Secondary)
		n := countOf(rec, keys.Count)

		row, ok := g.totals[p]
		if !ok {
			row = make(map[string]float64)
			g.totals[p] = row
			g.Primary = append(g.Primary, p)
		}
		if !seenSecondary[s] {
			seenSecondary[s] = true
			g.Secondary = append(g.Secondary, s)
		}
		row[s] += n
	}
	return g
}

// categoryOf returns the first non-blank candidate value, or UnknownCategory.
func categoryOf(rec RawRecord, candidates []string) string {
	for _, key := range candidates {
		if s := strings.TrimSpace(rec.Text(key)); s != "" {
			return s
		}
	}
	return UnknownCategory
}

// countOf returns the first numeric candidate, or 1. Zero is a valid count.
func countOf(rec RawRecord, candidates []string) float64 {
	for _, key := range candidates {
		if v, ok := rec.Float(key); ok {
			return v
		}
	}
	return 1
}

// Len is the number of primary groups.
func (g *GroupedSeries) Len() int { return len(g.Primary) }

// Value returns the total for a (primary, secondary) pair; zero when absent.
func (g *GroupedSeries) Value(primary, secondary string) float64 {
	return g.totals[primary][secondary]
}

// Row returns one primary group's values aligned to Secondary.
func (g *GroupedSeries) Row(primary string) []float64 {
	row := make([]float64, len(g.Secondary))
	for i, s := range g.Secondary {
		row[i] = g.Value(primary, s)
	}
	return row
}

// Height is the stacked height of a primary group.
func (g *GroupedSeries) Height(primary string) float64 {
	return floats.Sum(g.Row(primary))
}

// Totals returns a deep copy of the aggregation.
func (g *GroupedSeries) Totals() map[string]map[string]float64 {
	out := make(map[string]map[string]float64, len(g.totals))
	for p, row := range g.totals {
		cp := make(map[string]float64, len(row))
		for s, v := range row {
			cp[s] = v
		}
		out[p] = cp
	}
	return out
}

// ============================================================================
// STACKED DISPLAY
// ============================================================================

// StackStyle holds display parameters for Stack.
type StackStyle struct {
	MaxLabel int // category truncation limit in runes
	Limit    int // primary groups shown; <= 0 shows all
	Palette  Palette
}

// DefaultStackStyle caps the chart at seven categories.
func DefaultStackStyle() StackStyle {
	return StackStyle{
		MaxLabel: defaultLabelLimits[ChartStackedBar],
		Limit:    7,
		Palette:  PaletteFor(ChartStackedBar),
	}
}

// Stack slices the aggregation for display. One segment per secondary value,
// values aligned to the shown categories, zero for missing combinations.
func (g *GroupedSeries) Stack(style StackStyle) StackedChart {
	shown := g.Primary
	if style.Limit > 0 && len(shown) > style.Limit {
		shown = shown[:style.Limit]
	}

	chart := StackedChart{
		Categories: make([]CategoryLabel, len(shown)),
		Segments:   make([]StackSegment, len(g.Secondary)),
		Hidden:     len(g.Primary) - len(shown),
	}
	for i, p := range shown {
		chart.Categories[i] = CategoryLabel{
			Label:     TruncateLabel(p, style.MaxLabel),
			FullLabel: p,
		}
	}
	for j, s := range g.Secondary {
		values := make([]float64, len(shown))
		for i, p := range shown {
			values[i] = g.Value(p, s)
		}
		chart.Segments[j] = StackSegment{
			Name:       s,
			Values:     values,
			ColorIndex: style.Palette.Index(j),
			Color:      style.Palette.At(j),
		}
	}
	return chart
}
