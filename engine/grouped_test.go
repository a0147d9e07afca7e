package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// GROUP AGGREGATOR TESTS
// ============================================================================

func salesOpsRecords() []RawRecord {
	return []RawRecord{
		NewRecord(F("department", "Sales"), F("gender", "Male"), F("count", 5)),
		NewRecord(F("department", "Sales"), F("gender", "Female"), F("count", 3)),
		NewRecord(F("department", "Ops"), F("gender", "Male"), F("count", 2)),
	}
}

func TestGroupSalesOps(t *testing.T) {
	g := Group(salesOpsRecords(), DefaultGroupKeys())

	assert.Equal(t, []string{"Sales", "Ops"}, g.Primary)
	assert.Equal(t, []string{"Male", "Female"}, g.Secondary)
	assert.Equal(t, map[string]map[string]float64{
		"Sales": {"Male": 5, "Female": 3},
		"Ops":   {"Male": 2},
	}, g.Totals())

	assert.Equal(t, 8.0, g.Height("Sales"))
	assert.Equal(t, 2.0, g.Height("Ops"))

	chart := g.Stack(DefaultStackStyle())
	require.Len(t, chart.Segments, 2)
	female := chart.Segments[1]
	assert.Equal(t, "Female", female.Name)
	assert.Equal(t, []float64{3, 0}, female.Values, "Ops shows a zero-height Female segment")
}

func TestGroupOrderIndependent(t *testing.T) {
	records := append(salesOpsRecords(),
		NewRecord(F("function", "Finance"), F("gender", "Female"), F("employee_count", 4)),
		NewRecord(F("department", "Ops"), F("gender", "Female"), F("count", 1)),
	)
	reversed := make([]RawRecord, len(records))
	for i, r := range records {
		reversed[len(records)-1-i] = r
	}

	a := Group(records, DefaultGroupKeys())
	b := Group(reversed, DefaultGroupKeys())

	assert.Equal(t, a.Totals(), b.Totals())
	assert.ElementsMatch(t, a.Secondary, b.Secondary)
	for _, p := range a.Primary {
		assert.Equal(t, a.Height(p), b.Height(p), p)
	}
}

func TestGroupFallbacks(t *testing.T) {
	records := []RawRecord{
		NewRecord(F("function", "Finance"), F("gender", "Female"), F("employee_count", 4)),
		NewRecord(F("department", ""), F("count", 2)),
		NewRecord(F("department", "Ops"), F("gender", "Male")),
		NewRecord(F("department", "Ops"), F("gender", "Male"), F("count", 0)),
		NewRecord(F("department", 42), F("gender", "Male"), F("count", "6")),
	}
	g := Group(records, DefaultGroupKeys())

	assert.Equal(t, []string{"Finance", UnknownCategory, "Ops", "42"}, g.Primary)
	assert.Equal(t, 4.0, g.Value("Finance", "Female"))
	assert.Equal(t, 2.0, g.Value(UnknownCategory, UnknownCategory))
	// missing count defaults to 1, an explicit zero stays zero
	assert.Equal(t, 1.0, g.Value("Ops", "Male"))
	assert.Equal(t, 6.0, g.Value("42", "Male"))
	assert.Equal(t, 0.0, g.Value("Nowhere", "Male"))
}

func TestGroupEmpty(t *testing.T) {
	g := Group(nil, DefaultGroupKeys())
	assert.Equal(t, 0, g.Len())
	chart := g.Stack(DefaultStackStyle())
	assert.Empty(t, chart.Categories)
	assert.Empty(t, chart.Segments)
	assert.Equal(t, 0, chart.Hidden)
}

func TestStackCapsAndTruncates(t *testing.T) {
	names := []string{"Sales", "Ops", "Finance", "Legal", "HR", "IT", "Marketing", "Customer Success Management", "Admin"}
	var records []RawRecord
	for _, n := range names {
		records = append(records, NewRecord(F("department", n), F("gender", "Male"), F("count", 1)))
	}
	g := Group(records, DefaultGroupKeys())
	assert.Equal(t, 9, g.Len(), "aggregation keeps every group")

	chart := g.Stack(DefaultStackStyle())
	assert.Len(t, chart.Categories, 7)
	assert.Equal(t, 2, chart.Hidden)
	assert.Len(t, chart.Segments[0].Values, 7)

	all := g.Stack(StackStyle{MaxLabel: 15})
	assert.Len(t, all.Categories, 9)
	assert.Equal(t, "Customer Succe"[:13]+Ellipsis, all.Categories[7].Label)
	assert.Equal(t, "Customer Success Management", all.Categories[7].FullLabel)
}

func TestGroupCustomKeys(t *testing.T) {
	records := []RawRecord{
		NewRecord(F("location", "Pune"), F("band", "L1"), F("headcount", 3)),
		NewRecord(F("location", "Pune"), F("band", "L2"), F("headcount", 2)),
	}
	g := Group(records, GroupKeys{Primary: []string{"location"}, Secondary: []string{"band"}, Count: []string{"headcount"}})
	assert.Equal(t, []float64{3, 2}, g.Row("Pune"))
}
