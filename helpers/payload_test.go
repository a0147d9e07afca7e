package helpers

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spektr-org/kpiview/engine"
	"github.com/spektr-org/kpiview/filters"
)

// ============================================================================
// PAYLOAD TESTS
// ============================================================================

// Response of POST /dashboard/ (filtered envelope)
var filteredDashboardJSON = []byte(`{
  "success": true,
  "filters_applied": {"departments": ["Sales"]},
  "tools_called": [],
  "successful_tools": ["get_gender_split"],
  "failed_tools": ["get_projected_headcount"],
  "dashboard_data": [
    {
      "tool": "get_gender_split",
      "parameters": {"kpi_type": "gender_split_by_department"},
      "data": {
        "kpi_id": "gender_split_by_department",
        "kpi_name": "Gender Split by Department",
        "data": [
          {"department": "Sales", "gender": "Male", "count": 5},
          {"department": "Sales", "gender": "Female", "count": 3},
          {"department": "Ops", "gender": "Male", "count": 2}
        ],
        "filters_applied": {"departments": ["Sales"]}
      }
    },
    {
      "tool": "get_gender_distribution",
      "parameters": {"kpi_type": "gender_distribution"},
      "data": {
        "kpi_id": "gender_distribution",
        "kpi_name": "Gender Distribution",
        "data": [
          {"percentage": 62.5, "gender": "Male", "count": 5},
          {"percentage": 37.5, "gender": "Female", "count": 3}
        ],
        "filters_applied": {}
      }
    }
  ],
  "ai_decision": true,
  "timestamp": "2024-03-10T09:00:00Z"
}`)

// Response of GET /dashboard/initial
var initialDashboardJSON = []byte(`{
  "success": true,
  "initial_load": true,
  "dashboard_data": [
    {"kpi_id": "total_active_employees", "kpi_name": "Total Active Employees", "data": [{"total_employees": 1250}], "filters_applied": {}},
    {"kpi_id": "", "kpi_name": "dropped", "data": []},
    {"kpi_id": "active_employees_by_location", "kpi_name": "By Location", "data": [{"location": "Pune", "employee_count": 300, "meta": {"x": 1}}, 7]}
  ],
  "filters_applied": {},
  "timestamp": "2024-03-10T09:00:00Z"
}`)

var filtersJSON = []byte(`{
  "departments": [{"value": "Sales", "label": "Sales", "count": 40}, {"value": "Ops", "label": "Operations"}],
  "locations": [{"value": "Pune", "label": "Pune"}],
  "designations": [],
  "genders": [{"value": "Male", "label": "Male"}, {"value": "Female", "label": "Female"}],
  "date_range": {"min_date": "2024-01-15 00:00:00", "max_date": "2024-03-10 00:00:00"},
  "last_updated": "2024-03-10 08:00:00"
}`)

func TestDecodeFilteredDashboard(t *testing.T) {
	dash, err := DecodeDashboard(filteredDashboardJSON)
	require.NoError(t, err)

	assert.True(t, dash.Success)
	assert.False(t, dash.InitialLoad)
	assert.Equal(t, "2024-03-10T09:00:00Z", dash.Timestamp)
	assert.Equal(t, []string{"get_projected_headcount"}, dash.FailedTools)
	assert.Contains(t, dash.FiltersApplied, "departments")
	require.Len(t, dash.Datasets, 2)

	split := dash.Datasets[0]
	assert.Equal(t, "gender_split_by_department", split.ID)
	assert.Equal(t, "Gender Split by Department", split.Name)
	require.Len(t, split.Records, 3)
	assert.Equal(t, []string{"department", "gender", "count"}, split.Records[0].Keys())

	dist, ok := dash.Dataset("gender_distribution")
	require.True(t, ok)
	assert.Equal(t, []string{"percentage", "gender", "count"}, dist.Records[0].Keys(), "document key order is kept")

	in := engine.DefaultRules().Infer(dist.Records[0])
	assert.Equal(t, "gender", in.LabelField)
	assert.Equal(t, "count", in.ValueField)
}

func TestDecodeInitialDashboard(t *testing.T) {
	dash, err := DecodeDashboard(initialDashboardJSON)
	require.NoError(t, err)
	assert.True(t, dash.InitialLoad)
	require.Len(t, dash.Datasets, 2, "entries without kpi_id are dropped")

	total := dash.Datasets[0]
	v, ok := total.Records[0].Float("total_employees")
	require.True(t, ok)
	assert.Equal(t, 1250.0, v)

	loc := dash.Datasets[1]
	require.Len(t, loc.Records, 1, "non-object records are skipped")
	meta, ok := loc.Records[0].Get("meta")
	require.True(t, ok)
	assert.True(t, meta.IsNull())

	_, ok = dash.Dataset("missing")
	assert.False(t, ok)
}

func TestDecodeDashboardBareArray(t *testing.T) {
	dash, err := DecodeDashboard([]byte(`[{"kpi_id":"k","data":[{"a":"x","n":1}]}]`))
	require.NoError(t, err)
	require.Len(t, dash.Datasets, 1)
	assert.True(t, dash.Success)
}

func TestDecodeDashboardErrors(t *testing.T) {
	_, err := DecodeDashboard([]byte(`{"dashboard_data": [`))
	assert.True(t, errors.Is(err, ErrInvalidJSON))

	_, err = DecodeDashboard([]byte(`{"success": false}`))
	assert.True(t, errors.Is(err, ErrNoDashboardData))
}

func TestDecodeRecords(t *testing.T) {
	records, err := DecodeRecords([]byte(`[{"z":"b","a":1,"flag":true,"none":null}]`))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, []string{"z", "a", "flag", "none"}, records[0].Keys())

	flag, _ := records[0].Get("flag")
	assert.Equal(t, engine.ValueBool, flag.Kind)

	_, err = DecodeRecords([]byte(`{"a":1}`))
	assert.Error(t, err)

	records, err = DecodeRecords([]byte(`[]`))
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestDecodeFilters(t *testing.T) {
	resp, err := DecodeFilters(filtersJSON)
	require.NoError(t, err)

	require.Len(t, resp.Departments, 2)
	require.NotNil(t, resp.Departments[0].Count)
	assert.Equal(t, 40, *resp.Departments[0].Count)
	assert.Nil(t, resp.Departments[1].Count)
	assert.Equal(t, "Operations", resp.Departments[1].Label)
	assert.Empty(t, resp.OptionsFor(filters.Designations))
	assert.Len(t, resp.Months(), 3)

	_, err = DecodeFilters([]byte(`nope`))
	assert.True(t, errors.Is(err, ErrInvalidJSON))
}

func TestDecodeKpisAndHealth(t *testing.T) {
	defs, err := DecodeKpis([]byte(`{"success":true,"count":1,"kpis":[
		{"id":"gender_distribution","name":"Gender","description":"Split","category":"diversity","chart_type":"pie","tool_name":"t","tool_parameter":"p"}
	]}`))
	require.NoError(t, err)
	require.Len(t, defs, 1)
	assert.Equal(t, engine.ChartPie, defs[0].ChartType)
	assert.Equal(t, "Split", defs[0].Description)

	h, err := DecodeHealth([]byte(`{"status":"healthy","mcp_connection":"connected","ai_connection":"ok","available_tools":9,"available_kpis":11}`))
	require.NoError(t, err)
	assert.Equal(t, "healthy", h.Status)
	assert.Equal(t, 11, h.AvailableKpis)
}
