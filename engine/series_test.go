package engine

import (
	"fmt"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// SERIES BUILDER TESTS
// ============================================================================

func mixedRecords() []RawRecord {
	return []RawRecord{
		NewRecord(F("department", "Sales"), F("count", 5)),
		NewRecord(F("count", 7)),
		NewRecord(),
		NewRecord(F("department", ""), F("percentage", 10)),
		NewRecord(F("department", "Research and Development Operations"), F("count", "3")),
		NewRecord(F("location", "Pune"), F("employee_count", 2)),
		NewRecord(F("location", "Chennai"), F("employee_count", 1)),
	}
}

func TestBuildSeriesLengthAndLabels(t *testing.T) {
	for _, kind := range []ChartKind{ChartBar, ChartPie, ChartLine} {
		records := mixedRecords()
		points := BuildSeries(records, DefaultSeriesStyle(kind))
		require.Len(t, points, len(records), kind)
		for i, p := range points {
			assert.NotEmpty(t, p.Label, "point %d of %s", i, kind)
			assert.NotEmpty(t, p.FullLabel, "point %d of %s", i, kind)
		}
	}
}

func TestBuildSeriesEmpty(t *testing.T) {
	points := BuildSeries(nil, DefaultSeriesStyle(ChartBar))
	assert.NotNil(t, points)
	assert.Empty(t, points)
}

func TestBuildSeriesColorIndexDeterministic(t *testing.T) {
	style := DefaultSeriesStyle(ChartPie)
	first := BuildSeries(mixedRecords(), style)
	second := BuildSeries(mixedRecords(), style)

	for i := range first {
		assert.Equal(t, first[i].ColorIndex, second[i].ColorIndex)
		assert.Equal(t, i%len(style.Palette), first[i].ColorIndex)
		assert.Equal(t, style.Palette[first[i].ColorIndex], first[i].Color)
	}
}

func TestBuildSeriesPlaceholderAndFallbacks(t *testing.T) {
	points := BuildSeries(mixedRecords(), DefaultSeriesStyle(ChartBar))

	assert.Equal(t, "Item 2", points[1].Label)
	assert.Equal(t, 7.0, points[1].Value)
	assert.Equal(t, "Item 3", points[2].Label)
	assert.Equal(t, 0.0, points[2].Value)
	// blank department and a denylisted percentage
	assert.Equal(t, "Item 4", points[3].Label)
	assert.Equal(t, 0.0, points[3].Value)
	// numeric string through the synonym fallback
	assert.Equal(t, 3.0, points[4].Value)
}

func TestBuildSeriesTruncation(t *testing.T) {
	points := BuildSeries(mixedRecords(), DefaultSeriesStyle(ChartBar))
	p := points[4]
	assert.Equal(t, "Research and Development Operations", p.FullLabel)
	assert.LessOrEqual(t, utf8.RuneCountInString(p.Label), 20)
	assert.Equal(t, "Research and Develo"[:18]+Ellipsis, p.Label)
}

func TestBuildSeriesShare(t *testing.T) {
	records := []RawRecord{
		NewRecord(F("gender", "Male"), F("count", 30)),
		NewRecord(F("gender", "Female"), F("count", 10)),
	}
	points := BuildSeries(records, DefaultSeriesStyle(ChartPie))
	assert.Equal(t, 75.0, points[0].Share)
	assert.Equal(t, 25.0, points[1].Share)

	zero := BuildSeries([]RawRecord{NewRecord(F("gender", "Male"))}, DefaultSeriesStyle(ChartPie))
	assert.Equal(t, 0.0, zero[0].Share)
}

func TestBuildSeriesMapping(t *testing.T) {
	records := []RawRecord{
		NewRecord(F("item_name", "Gloves"), F("stock", 10), F("avg_monthly_consumption", 2.5)),
	}
	style := DefaultSeriesStyle(ChartBar)
	style.Mapping = &FieldMapping{Value: "avg_monthly_consumption"}
	points := BuildSeries(records, style)
	assert.Equal(t, 2.5, points[0].Value)
}

func TestTruncateLabel(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"Sales", 20, "Sales"},
		{"exactly-fifteen", 15, "exactly-fifteen"},
		{"sixteen-chars-xx", 15, "sixteen-chars" + Ellipsis},
		{"Zürich Headquarters Campus", 10, "Zürich H" + Ellipsis},
		{"anything", 0, "anything"},
		{"abcdef", 3, "a" + Ellipsis},
		{"abcdef", 2, "a" + Ellipsis},
		{"abcdef", 1, Ellipsis},
	}
	for _, tc := range tests {
		t.Run(fmt.Sprintf("%s/%d", tc.in, tc.max), func(t *testing.T) {
			got := TruncateLabel(tc.in, tc.max)
			assert.Equal(t, tc.want, got)
			if tc.max > 0 {
				assert.LessOrEqual(t, utf8.RuneCountInString(got), tc.max)
			}
		})
	}
}

func TestPaletteIndex(t *testing.T) {
	p := PaletteFor(ChartStackedBar)
	assert.Len(t, p, 4)
	assert.Equal(t, 1, p.Index(5))
	assert.Equal(t, "", Palette{}.At(3))
	assert.Equal(t, 0, Palette{}.Index(3))
}
