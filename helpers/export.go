package helpers

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/spektr-org/kpiview/engine"
)

// ============================================================================
// EXPORT: Tables and full aggregations to CSV / XLSX
// ============================================================================
// Exports are never capped: a stacked chart shows seven departments but the
// export carries every group, and a table export carries every record.
// ============================================================================

// Sheet is a rectangular export. Cells hold string, float64 or nil.
type Sheet struct {
	Title   string
	Headers []string
	Rows    [][]any
}

// RecordsSheet exports records as-is, one column per key (first-seen order).
func RecordsSheet(title string, records []engine.RawRecord) Sheet {
	keys := engine.UnionKeys(records)
	sheet := Sheet{Title: title, Headers: make([]string, len(keys))}
	for i, k := range keys {
		sheet.Headers[i] = engine.ColumnLabel(k)
	}
	for _, rec := range records {
		row := make([]any, len(keys))
		for i, k := range keys {
			v, ok := rec.Get(k)
			switch {
			case !ok || v.IsNull():
				row[i] = nil
			case v.IsNumber():
				row[i] = v.Num
			default:
				row[i] = v.Text()
			}
		}
		sheet.Rows = append(sheet.Rows, row)
	}
	return sheet
}

// GroupedSheet exports a full two-level aggregation: one row per primary
// group, one column per secondary value, plus a total column.
func GroupedSheet(title, primaryHeader string, g *engine.GroupedSeries) Sheet {
	sheet := Sheet{Title: title}
	sheet.Headers = append(sheet.Headers, primaryHeader)
	sheet.Headers = append(sheet.Headers, g.Secondary...)
	sheet.Headers = append(sheet.Headers, "Total")

	for _, p := range g.Primary {
		row := make([]any, 0, len(g.Secondary)+2)
		row = append(row, p)
		for _, v := range g.Row(p) {
			row = append(row, v)
		}
		row = append(row, g.Height(p))
		sheet.Rows = append(sheet.Rows, row)
	}
	return sheet
}

// SheetFor picks the export for a built view: the full aggregation for
// stacked charts, the raw records otherwise.
func SheetFor(vm *engine.ViewModel, ds engine.KpiDataset) Sheet {
	title := vm.Name
	if title == "" {
		title = vm.KpiID
	}
	if vm.Grouped != nil {
		return GroupedSheet(title, "Category", vm.Grouped)
	}
	return RecordsSheet(title, ds.Records)
}

// WriteXLSX writes a sheet as an Excel workbook with a bold header row.
func WriteXLSX(w io.Writer, sheet Sheet) error {
	f := excelize.NewFile()
	defer f.Close()

	name := sheetName(sheet.Title)
	if err := f.SetSheetName(f.GetSheetName(0), name); err != nil {
		return fmt.Errorf("set sheet name: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E5E7EB"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	headers := make([]any, len(sheet.Headers))
	for i, h := range sheet.Headers {
		headers[i] = sanitizeCell(h)
	}
	if err := f.SetSheetRow(name, "A1", &headers); err != nil {
		return fmt.Errorf("write header row: %w", err)
	}
	if len(headers) > 0 {
		last, err := excelize.CoordinatesToCellName(len(headers), 1)
		if err != nil {
			return fmt.Errorf("header range: %w", err)
		}
		if err := f.SetCellStyle(name, "A1", last, headerStyle); err != nil {
			return fmt.Errorf("style header row: %w", err)
		}
	}

	for r, row := range sheet.Rows {
		out := make([]any, len(row))
		for i, cell := range row {
			if s, ok := cell.(string); ok {
				out[i] = sanitizeCell(s)
				continue
			}
			out[i] = cell
		}
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return fmt.Errorf("row %d: %w", r+2, err)
		}
		if err := f.SetSheetRow(name, cell, &out); err != nil {
			return fmt.Errorf("write row %d: %w", r+2, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}

// ExportFile writes a sheet to path, choosing CSV or XLSX by extension.
func ExportFile(path string, sheet Sheet) error {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".csv" && ext != ".xlsx" {
		return fmt.Errorf("export %s: unsupported extension %q (want .csv or .xlsx)", path, ext)
	}

	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	defer out.Close()

	if ext == ".csv" {
		err = WriteCSV(out, sheet)
	} else {
		err = WriteXLSX(out, sheet)
	}
	if err != nil {
		return err
	}
	return out.Close()
}

// sheetName fits a title into Excel's 31-character sheet-name limit.
func sheetName(title string) string {
	title = strings.Map(func(r rune) rune {
		if strings.ContainsRune(`[]:*?/\`, r) {
			return '-'
		}
		return r
	}, title)
	if r := []rune(title); len(r) > 31 {
		title = string(r[:31])
	}
	if strings.TrimSpace(title) == "" {
		return "KPI"
	}
	return title
}

// sanitizeCell neutralizes values a spreadsheet would run as a formula.
func sanitizeCell(s string) string {
	if len(s) == 0 {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r', '|':
		return "'" + s
	}
	return s
}
