package schema

import (
	"errors"
	"fmt"
	"log"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/spektr-org/kpiview/engine"
)

// ErrInvalidCatalog wraps every catalog validation failure.
var ErrInvalidCatalog = errors.New("invalid kpi catalog")

// Category names used by the built-in catalog.
const (
	CategoryWorkforce  = "workforce"
	CategoryDiversity  = "diversity"
	CategoryGeographic = "geographic"
	CategoryHierarchy  = "hierarchy"
	CategoryTrend      = "trend"
	CategoryInventory  = "inventory"
	CategoryForecast   = "forecast"
)

// DefaultCatalog returns the built-in workforce and inventory KPIs.
func DefaultCatalog() *Catalog {
	return NewCatalog(
		KpiDefinition{ID: "total_active_employees", Name: "Total Active Employees", Category: CategoryWorkforce, ChartType: engine.ChartNumber},
		KpiDefinition{ID: "active_employees_by_department", Name: "Active Employees by Department", Category: CategoryWorkforce, ChartType: engine.ChartBar},
		KpiDefinition{ID: "gender_distribution", Name: "Gender Distribution", Category: CategoryDiversity, ChartType: engine.ChartPie},
		KpiDefinition{ID: "active_employees_by_location", Name: "Active Employees by Location", Category: CategoryGeographic, ChartType: engine.ChartBar},
		KpiDefinition{ID: "active_employees_by_designation", Name: "Active Employees by Designation", Category: CategoryHierarchy, ChartType: engine.ChartBar},
		KpiDefinition{ID: "hiring_trend_by_joining_date", Name: "Hiring Trend", Category: CategoryTrend, ChartType: engine.ChartLine},
		KpiDefinition{ID: "employee_tenure_analysis", Name: "Employee Tenure", Category: CategoryWorkforce, ChartType: engine.ChartPie},
		KpiDefinition{
			ID: "gender_split_by_department", Name: "Gender Split by Department", Category: CategoryDiversity,
			ChartType: engine.ChartStackedBar,
			Group:     groupKeys(engine.DefaultGroupKeys()),
		},
		KpiDefinition{ID: "avg_monthly_consumption_per_item", Name: "Average Monthly Consumption per Item", Category: CategoryInventory, ChartType: engine.ChartTable},
		KpiDefinition{ID: "inventory_stock_levels", Name: "Inventory Stock Levels", Category: CategoryInventory, ChartType: engine.ChartBar},
		KpiDefinition{ID: "projected_headcount", Name: "Projected Headcount", Category: CategoryForecast, ChartType: engine.ChartTable},
	)
}

func groupKeys(k engine.GroupKeys) *engine.GroupKeys { return &k }

// catalogFile is the YAML document layout.
type catalogFile struct {
	KPIs []KpiDefinition `yaml:"kpis"`
}

// ParseCatalog decodes YAML definitions and validates them.
func ParseCatalog(data []byte) ([]KpiDefinition, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse kpi catalog: %w", err)
	}
	for i, d := range f.KPIs {
		if d.ID == "" {
			return nil, fmt.Errorf("%w: entry %d has no id", ErrInvalidCatalog, i)
		}
		if d.ChartType != "" && !d.ChartType.Valid() {
			return nil, fmt.Errorf("%w: kpi %s has unknown chart_type %q", ErrInvalidCatalog, d.ID, d.ChartType)
		}
	}
	return f.KPIs, nil
}

// LoadCatalog reads a YAML catalog and layers it over DefaultCatalog. An empty
// path returns the defaults.
func LoadCatalog(path string) (*Catalog, error) {
	catalog := DefaultCatalog()
	if path == "" {
		return catalog, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read kpi catalog: %w", err)
	}
	defs, err := ParseCatalog(data)
	if err != nil {
		return nil, err
	}
	catalog.Merge(defs...)
	log.Printf("📋 kpiview: loaded %d KPI definitions from %s", len(defs), path)
	return catalog, nil
}

// Merge overlays definitions. Empty fields of an override keep the existing
// value, so a file can change just the mapping of a built-in KPI.
func (c *Catalog) Merge(defs ...KpiDefinition) {
	for _, d := range defs {
		if cur, ok := c.Definition(d.ID); ok {
			d = overlay(cur, d)
		}
		c.put(d)
	}
}

func overlay(base, over KpiDefinition) KpiDefinition {
	if over.Name != "" {
		base.Name = over.Name
	}
	if over.Description != "" {
		base.Description = over.Description
	}
	if over.Category != "" {
		base.Category = over.Category
	}
	if over.ChartType != "" {
		base.ChartType = over.ChartType
	}
	if over.Mapping != nil {
		base.Mapping = over.Mapping
	}
	if over.Group != nil {
		base.Group = over.Group
	}
	if len(over.SummaryFields) > 0 {
		base.SummaryFields = over.SummaryFields
	}
	return base
}

// MarshalYAML writes the catalog in the same layout ParseCatalog reads.
func (c *Catalog) MarshalYAML() (interface{}, error) {
	return catalogFile{KPIs: c.Definitions()}, nil
}
