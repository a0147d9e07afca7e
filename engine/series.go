package engine

import (
	"gonum.org/v1/gonum/floats"
)

// ============================================================================
// SERIES BUILDER: Records → single-series points (bar / pie / line)
// ============================================================================
// Each record is inferred independently; output length always equals input
// length and every Label is non-empty.
// ============================================================================

// Ellipsis is appended to truncated labels.
const Ellipsis = "…"

// SeriesStyle holds the per-kind display parameters for BuildSeries.
type SeriesStyle struct {
	MaxLabel int     // truncation limit in runes; <= 0 disables truncation
	Palette  Palette // colors assigned by position
	Rules    InferenceRules
	Mapping  *FieldMapping // optional explicit label/value fields
}

// defaultLabelLimits are the per-kind truncation limits.
var defaultLabelLimits = map[ChartKind]int{
	ChartBar:        20,
	ChartPie:        25,
	ChartLine:       25,
	ChartStackedBar: 15,
}

// DefaultSeriesStyle returns the dashboard defaults for a chart kind.
func DefaultSeriesStyle(kind ChartKind) SeriesStyle {
	return SeriesStyle{
		MaxLabel: defaultLabelLimits[kind],
		Palette:  PaletteFor(kind),
		Rules:    DefaultRules(),
	}
}

// BuildSeries converts records into display points.
func BuildSeries(records []RawRecord, style SeriesStyle) []SeriesPoint {
	points := make([]SeriesPoint, len(records))
	values := make([]float64, len(records))

	for i, rec := range records {
		in := style.Rules.Resolve(rec, style.Mapping)
		full := in.Label(rec, i)
		values[i] = in.Value(rec)
		points[i] = SeriesPoint{
			Label:      TruncateLabel(full, style.MaxLabel),
			FullLabel:  full,
			Value:      values[i],
			ColorIndex: style.Palette.Index(i),
			Color:      style.Palette.At(i),
		}
	}

	if len(values) == 0 {
		return points
	}
	if total := floats.Sum(values); total != 0 {
		for i := range points {
			points[i].Share = RoundTo2(values[i] / total * 100)
		}
	}
	return points
}

// TruncateLabel shortens s to at most max runes, replacing the tail with an
// ellipsis. Rune-based so multi-byte names are never split. A max of 1 leaves
// only the ellipsis.
func TruncateLabel(s string, max int) string {
	if max <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	keep := max - 2
	if keep < 1 {
		keep = max - 1
	}
	return string(r[:keep]) + Ellipsis
}
