package engine

import "fmt"

// ============================================================================
// TABLE BUILDER: Row-per-record tables for table KPIs
// ============================================================================
// Columns come from the first record's key order. Display is capped at
// MaxColumns × MaxRows; TotalRows keeps the real count so the view can say
// "showing 10 of N".
// ============================================================================

// NullCell is shown for null or absent values.
const NullCell = "-"

// TableStyle caps the displayed table. Non-positive limits disable a cap.
type TableStyle struct {
	MaxColumns int
	MaxRows    int
}

// DefaultTableStyle shows four columns and ten rows.
func DefaultTableStyle() TableStyle {
	return TableStyle{MaxColumns: 4, MaxRows: 10}
}

// BuildTable produces TableData from records.
func BuildTable(title string, records []RawRecord, style TableStyle) *TableData {
	table := &TableData{
		Title:     title,
		Columns:   []Column{},
		Rows:      [][]string{},
		TotalRows: len(records),
	}
	if len(records) == 0 {
		return table
	}

	keys := records[0].Keys()
	if style.MaxColumns > 0 && len(keys) > style.MaxColumns {
		keys = keys[:style.MaxColumns]
	}
	for _, key := range keys {
		table.Columns = append(table.Columns, columnFor(key, records))
	}

	shown := records
	if style.MaxRows > 0 && len(shown) > style.MaxRows {
		shown = shown[:style.MaxRows]
	}
	for _, rec := range shown {
		row := make([]string, len(keys))
		for i, key := range keys {
			row[i] = formatCell(rec, key)
		}
		table.Rows = append(table.Rows, row)
	}
	if table.Truncated() {
		table.Caption = fmt.Sprintf("Showing %s of %s rows", FormatInt(len(table.Rows)), FormatInt(table.TotalRows))
	}
	return table
}

// columnFor types a column as numeric when the first non-null value is a number.
func columnFor(key string, records []RawRecord) Column {
	col := Column{Key: key, Label: ColumnLabel(key), Type: "text", Align: "left"}
	for _, rec := range records {
		v, ok := rec.Get(key)
		if !ok || v.IsNull() {
			continue
		}
		if v.IsNumber() {
			col.Type = "number"
			col.Align = "right"
		}
		break
	}
	return col
}

func formatCell(rec RawRecord, key string) string {
	v, ok := rec.Get(key)
	if !ok || v.IsNull() {
		return NullCell
	}
	if v.IsNumber() {
		return FormatNumber(v.Num)
	}
	return v.Text()
}
