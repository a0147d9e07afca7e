package engine

// ============================================================================
// KPIVIEW ENGINE TYPES: Render-ready shapes derived from raw KPI records
// ============================================================================
// Input:  KpiDataset (one per KPI per fetch) holding ordered RawRecords.
// Output: ViewModel with exactly one of Number / Series / Stacked / Table.
//
// Dependency: engine performs no I/O.
// ============================================================================

// ============================================================================
// CHART KIND
// ============================================================================

// ChartKind selects which builder consumes a KPI's records.
type ChartKind string

const (
	ChartNumber     ChartKind = "number"
	ChartBar        ChartKind = "bar"
	ChartPie        ChartKind = "pie"
	ChartLine       ChartKind = "line"
	ChartTable      ChartKind = "table"
	ChartStackedBar ChartKind = "stacked_bar"
)

// kindOrder is the dashboard layout order: headline numbers first, tables last.
var kindOrder = []ChartKind{ChartNumber, ChartBar, ChartPie, ChartLine, ChartStackedBar, ChartTable}

// ParseChartKind maps a backend chart_type string to a ChartKind.
func ParseChartKind(s string) (ChartKind, bool) {
	k := ChartKind(s)
	return k, k.Valid()
}

// Valid reports whether k is one of the known chart kinds.
func (k ChartKind) Valid() bool {
	for _, known := range kindOrder {
		if k == known {
			return true
		}
	}
	return false
}

func (k ChartKind) rank() int {
	for i, known := range kindOrder {
		if k == known {
			return i
		}
	}
	return len(kindOrder)
}

// ============================================================================
// DATASET: One KPI's raw payload
// ============================================================================

// KpiDataset is the settled result of one KPI fetch.
type KpiDataset struct {
	ID             string         `json:"kpi_id"`
	Name           string         `json:"kpi_name"`
	Category       string         `json:"category,omitempty"`
	Kind           ChartKind      `json:"chart_type,omitempty"` // empty → resolved from catalog
	Records        []RawRecord    `json:"data"`
	FiltersApplied map[string]any `json:"filters_applied,omitempty"`
}

// KpiSpec is the per-KPI configuration a Resolver supplies.
type KpiSpec struct {
	Kind          ChartKind
	Category      string
	Description   string
	Mapping       *FieldMapping
	Group         *GroupKeys
	SummaryFields []string
}

// Resolver looks up KPI configuration by id. schema.Catalog implements it.
type Resolver interface {
	Lookup(kpiID string) (KpiSpec, bool)
}

// ============================================================================
// VIEW MODEL: Render-ready output
// ============================================================================

// ViewModel is the engine's per-KPI output.
type ViewModel struct {
	KpiID       string    `json:"kpiId"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	Description string    `json:"description,omitempty"`
	Kind        ChartKind `json:"kind"`

	// Exactly one of these is populated based on Kind:
	Number  *NumberView    `json:"number,omitempty"`
	Series  []SeriesPoint  `json:"series,omitempty"`
	Stacked *StackedChart  `json:"stacked,omitempty"`
	Table   *TableData     `json:"table,omitempty"`
	Grouped *GroupedSeries `json:"-"` // full aggregation behind Stacked, kept for export

	Summary *SummaryStats `json:"summary,omitempty"`
}

// Empty reports whether the view has nothing to draw (the "no data" state).
func (vm *ViewModel) Empty() bool {
	switch vm.Kind {
	case ChartNumber:
		return vm.Number == nil
	case ChartTable:
		return vm.Table == nil || len(vm.Table.Rows) == 0
	case ChartStackedBar:
		return vm.Stacked == nil || len(vm.Stacked.Categories) == 0
	default:
		return len(vm.Series) == 0
	}
}

// ============================================================================
// SERIES TYPES
// ============================================================================

// SeriesPoint is one bar / slice / line point of a single-series chart.
type SeriesPoint struct {
	Label      string  `json:"label"`     // display label, possibly truncated
	FullLabel  string  `json:"fullLabel"` // untruncated, for tooltips
	Value      float64 `json:"value"`
	ColorIndex int     `json:"colorIndex"`
	Color      string  `json:"color,omitempty"`
	Share      float64 `json:"share"` // percent of series total
}

// CategoryLabel is an axis category with its untruncated name.
type CategoryLabel struct {
	Label     string `json:"label"`
	FullLabel string `json:"fullLabel"`
}

// StackSegment is one secondary-category series of a stacked chart.
// Values align with StackedChart.Categories.
type StackSegment struct {
	Name       string    `json:"name"`
	Values     []float64 `json:"values"`
	ColorIndex int       `json:"colorIndex"`
	Color      string    `json:"color,omitempty"`
}

// StackedChart is the display slice of a GroupedSeries.
type StackedChart struct {
	Categories []CategoryLabel `json:"categories"`
	Segments   []StackSegment  `json:"segments"`
	Hidden     int             `json:"hidden"` // primary groups beyond the display cap
}

// ============================================================================
// NUMBER / SUMMARY TYPES
// ============================================================================

// NumberView is a headline single-value KPI.
type NumberView struct {
	Value   float64 `json:"value"`
	Display string  `json:"display"`
	Field   string  `json:"field,omitempty"`
}

// SummaryStats are derived figures shown under a chart.
// A nil *SummaryStats means "nothing to summarize", not zero.
type SummaryStats struct {
	Total   float64 `json:"total"`
	Average float64 `json:"average"`
	Count   int     `json:"count"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
}

// ============================================================================
// TABLE TYPES
// ============================================================================

// TableData defines how to render a table KPI.
type TableData struct {
	Title     string     `json:"title"`
	Columns   []Column   `json:"columns"`
	Rows      [][]string `json:"rows"`
	TotalRows int        `json:"totalRows"`
	Caption   string     `json:"caption,omitempty"` // "Showing 10 of 1,250 rows" when capped
}

// Truncated reports whether fewer rows are shown than the KPI returned.
func (t *TableData) Truncated() bool {
	return t != nil && len(t.Rows) < t.TotalRows
}

// Column defines a table column.
type Column struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Type  string `json:"type"`  // "text", "number"
	Align string `json:"align"` // "left", "right"
}
