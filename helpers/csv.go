package helpers

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spektr-org/kpiview/engine"
)

// ============================================================================
// CSV HELPER: CSV rows ⇄ ordered records
// ============================================================================
// ParseCSV lets a KPI be fed from a spreadsheet export instead of the backend.
// Header order becomes record key order. Empty cells are null; cells that
// parse as numbers become numbers so inference treats them as values.
// ============================================================================

// ParseCSV parses CSV bytes into records.
func ParseCSV(data []byte) ([]engine.RawRecord, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1

	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV headers: %w", err)
	}
	for i := range headers {
		headers[i] = toSnakeCase(headers[i])
	}

	records := []engine.RawRecord{}
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row %d: %w", len(records)+2, err)
		}

		fields := make([]engine.Field, 0, len(headers))
		for i, key := range headers {
			if key == "" {
				continue
			}
			cell := ""
			if i < len(row) {
				cell = strings.TrimSpace(row[i])
			}
			fields = append(fields, engine.Field{Key: key, Value: cellValue(cell)})
		}
		records = append(records, engine.NewRecord(fields...))
	}
	return records, nil
}

func cellValue(cell string) engine.Value {
	if cell == "" {
		return engine.NullValue()
	}
	if f, err := strconv.ParseFloat(cell, 64); err == nil {
		return engine.NumberValue(f)
	}
	return engine.StringValue(cell)
}

// toSnakeCase turns "Employee Count" into "employee_count".
func toSnakeCase(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.Join(strings.Fields(strings.ReplaceAll(s, "-", " ")), "_")
}

// WriteCSV writes a sheet as CSV: header row, then data rows.
func WriteCSV(w io.Writer, sheet Sheet) error {
	cw := csv.NewWriter(w)
	headers := make([]string, len(sheet.Headers))
	for i, h := range sheet.Headers {
		headers[i] = sanitizeCell(h)
	}
	if err := cw.Write(headers); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, row := range sheet.Rows {
		out := make([]string, len(row))
		for i, cell := range row {
			out[i] = csvCell(cell)
		}
		if err := cw.Write(out); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func csvCell(cell any) string {
	switch v := cell.(type) {
	case nil:
		return ""
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case string:
		return sanitizeCell(v)
	default:
		return sanitizeCell(fmt.Sprint(v))
	}
}
