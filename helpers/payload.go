package helpers

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/spektr-org/kpiview/engine"
	"github.com/spektr-org/kpiview/filters"
	"github.com/spektr-org/kpiview/schema"
)

// ============================================================================
// PAYLOAD DECODING: Backend JSON → ordered records and datasets
// ============================================================================
// encoding/json into map[string]any loses key order, and key order is the
// inference tie-break, so records are walked with gjson.ForEach instead.
//
// Two dashboard envelopes are accepted:
//   filtered: dashboard_data[].data.{kpi_id, kpi_name, data[], filters_applied}
//   initial:  dashboard_data[].{kpi_id, kpi_name, data[], filters_applied}
// A bare top-level array is treated as the dashboard_data list.
// ============================================================================

var (
	// ErrInvalidJSON is returned for payloads that are not valid JSON.
	ErrInvalidJSON = errors.New("invalid json")

	// ErrNoDashboardData is returned when a payload has no dashboard_data list.
	ErrNoDashboardData = errors.New("no dashboard_data in payload")
)

// Dashboard is a decoded dashboard response.
type Dashboard struct {
	Success        bool
	Timestamp      string
	InitialLoad    bool
	FiltersApplied map[string]any
	FailedTools    []string
	Datasets       []engine.KpiDataset
}

// DecodeRecords decodes a JSON array of objects into ordered records.
// Non-object elements are skipped; nested objects and arrays become null.
func DecodeRecords(data []byte) ([]engine.RawRecord, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("decode records: %w", ErrInvalidJSON)
	}
	root := gjson.ParseBytes(data)
	if !root.IsArray() {
		return nil, fmt.Errorf("decode records: expected array, got %s", root.Type)
	}
	return recordsOf(root), nil
}

// DecodeDashboard decodes either dashboard envelope.
func DecodeDashboard(data []byte) (*Dashboard, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("decode dashboard: %w", ErrInvalidJSON)
	}
	root := gjson.ParseBytes(data)

	items := root
	dash := &Dashboard{Success: true}
	if !root.IsArray() {
		items = root.Get("dashboard_data")
		if !items.IsArray() {
			return nil, fmt.Errorf("decode dashboard: %w", ErrNoDashboardData)
		}
		if s := root.Get("success"); s.Exists() {
			dash.Success = s.Bool()
		}
		dash.Timestamp = root.Get("timestamp").String()
		dash.InitialLoad = root.Get("initial_load").Bool()
		dash.FiltersApplied = objectOf(root.Get("filters_applied"))
		for _, t := range root.Get("failed_tools").Array() {
			dash.FailedTools = append(dash.FailedTools, t.String())
		}
	}

	items.ForEach(func(_, item gjson.Result) bool {
		if inner := item.Get("data"); inner.IsObject() {
			item = inner
		}
		id := item.Get("kpi_id").String()
		if id == "" {
			return true
		}
		ds := engine.KpiDataset{
			ID:             id,
			Name:           item.Get("kpi_name").String(),
			Category:       item.Get("category").String(),
			Kind:           engine.ChartKind(item.Get("chart_type").String()),
			Records:        recordsOf(item.Get("data")),
			FiltersApplied: objectOf(item.Get("filters_applied")),
		}
		dash.Datasets = append(dash.Datasets, ds)
		return true
	})
	return dash, nil
}

// Dataset returns the dataset for a KPI id.
func (d *Dashboard) Dataset(kpiID string) (engine.KpiDataset, bool) {
	for _, ds := range d.Datasets {
		if ds.ID == kpiID {
			return ds, true
		}
	}
	return engine.KpiDataset{}, false
}

// DecodeFilters decodes the filter metadata response.
func DecodeFilters(data []byte) (*filters.Response, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("decode filters: %w", ErrInvalidJSON)
	}
	var resp filters.Response
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("decode filters: %w", err)
	}
	return &resp, nil
}

// DecodeKpis decodes the backend's KPI list into catalog definitions.
func DecodeKpis(data []byte) ([]schema.KpiDefinition, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("decode kpis: %w", ErrInvalidJSON)
	}
	var defs []schema.KpiDefinition
	gjson.GetBytes(data, "kpis").ForEach(func(_, k gjson.Result) bool {
		defs = append(defs, schema.KpiDefinition{
			ID:          k.Get("id").String(),
			Name:        k.Get("name").String(),
			Description: k.Get("description").String(),
			Category:    k.Get("category").String(),
			ChartType:   engine.ChartKind(k.Get("chart_type").String()),
		})
		return true
	})
	return defs, nil
}

// Health is the backend health report.
type Health struct {
	Status         string `json:"status"`
	MCPConnection  string `json:"mcp_connection"`
	AIConnection   string `json:"ai_connection"`
	AvailableTools int    `json:"available_tools"`
	AvailableKpis  int    `json:"available_kpis"`
}

// DecodeHealth decodes the health response.
func DecodeHealth(data []byte) (*Health, error) {
	var h Health
	if err := json.Unmarshal(data, &h); err != nil {
		return nil, fmt.Errorf("decode health: %w", err)
	}
	return &h, nil
}

func recordsOf(arr gjson.Result) []engine.RawRecord {
	records := []engine.RawRecord{}
	arr.ForEach(func(_, obj gjson.Result) bool {
		if obj.IsObject() {
			records = append(records, recordOf(obj))
		}
		return true
	})
	return records
}

func recordOf(obj gjson.Result) engine.RawRecord {
	var fields []engine.Field
	obj.ForEach(func(key, value gjson.Result) bool {
		fields = append(fields, engine.Field{Key: key.String(), Value: valueOf(value)})
		return true
	})
	return engine.NewRecord(fields...)
}

func valueOf(v gjson.Result) engine.Value {
	switch v.Type {
	case gjson.String:
		return engine.StringValue(v.String())
	case gjson.Number:
		return engine.NumberValue(v.Float())
	case gjson.True:
		return engine.BoolValue(true)
	case gjson.False:
		return engine.BoolValue(false)
	default:
		return engine.NullValue()
	}
}

func objectOf(v gjson.Result) map[string]any {
	if !v.IsObject() {
		return nil
	}
	m, _ := v.Value().(map[string]interface{})
	return m
}
