package schema

import (
	"github.com/spektr-org/kpiview/engine"
)

// ============================================================================
// SCHEMA: Per-KPI configuration for the engine
// ============================================================================
// The backend only sends kpi_id, kpi_name and raw records. Chart kind,
// category and (for ambiguous KPIs) the label/value fields come from here.
// Built-in defaults cover the known workforce KPIs; a YAML file can override
// or extend them.
// ============================================================================

// KpiDefinition describes how one KPI is visualized.
type KpiDefinition struct {
	ID            string               `yaml:"id" json:"id"`
	Name          string               `yaml:"name,omitempty" json:"name,omitempty"`
	Description   string               `yaml:"description,omitempty" json:"description,omitempty"`
	Category      string               `yaml:"category,omitempty" json:"category,omitempty"`
	ChartType     engine.ChartKind     `yaml:"chart_type,omitempty" json:"chartType,omitempty"`
	Mapping       *engine.FieldMapping `yaml:"mapping,omitempty" json:"mapping,omitempty"`
	Group         *engine.GroupKeys    `yaml:"group,omitempty" json:"group,omitempty"`
	SummaryFields []string             `yaml:"summary_fields,omitempty" json:"summaryFields,omitempty"`
}

// Spec converts the definition into the engine's view of it.
func (d KpiDefinition) Spec() engine.KpiSpec {
	return engine.KpiSpec{
		Kind:          d.ChartType,
		Category:      d.Category,
		Description:   d.Description,
		Mapping:       d.Mapping,
		Group:         d.Group,
		SummaryFields: d.SummaryFields,
	}
}

// Catalog is an ordered set of KPI definitions. It implements engine.Resolver.
type Catalog struct {
	defs  []KpiDefinition
	index map[string]int
}

// NewCatalog builds a catalog. A later definition with the same id replaces
// the earlier one in place.
func NewCatalog(defs ...KpiDefinition) *Catalog {
	c := &Catalog{index: make(map[string]int, len(defs))}
	for _, d := range defs {
		c.put(d)
	}
	return c
}

func (c *Catalog) put(d KpiDefinition) {
	if i, ok := c.index[d.ID]; ok {
		c.defs[i] = d
		return
	}
	c.index[d.ID] = len(c.defs)
	c.defs = append(c.defs, d)
}

// Lookup implements engine.Resolver.
func (c *Catalog) Lookup(kpiID string) (engine.KpiSpec, bool) {
	d, ok := c.Definition(kpiID)
	if !ok {
		return engine.KpiSpec{}, false
	}
	return d.Spec(), true
}

// Definition returns the raw definition for an id.
func (c *Catalog) Definition(kpiID string) (KpiDefinition, bool) {
	i, ok := c.index[kpiID]
	if !ok {
		return KpiDefinition{}, false
	}
	return c.defs[i], true
}

// ChartKind returns the chart kind for an id, defaulting to bar.
func (c *Catalog) ChartKind(kpiID string) engine.ChartKind {
	if d, ok := c.Definition(kpiID); ok && d.ChartType != "" {
		return d.ChartType
	}
	return engine.ChartBar
}

// Category returns the category for an id, defaulting to workforce.
func (c *Catalog) Category(kpiID string) string {
	if d, ok := c.Definition(kpiID); ok && d.Category != "" {
		return d.Category
	}
	return engine.DefaultCategory
}

// Definitions returns every definition in catalog order.
func (c *Catalog) Definitions() []KpiDefinition {
	out := make([]KpiDefinition, len(c.defs))
	copy(out, c.defs)
	return out
}

// Len is the number of definitions.
func (c *Catalog) Len() int { return len(c.defs) }

// IDs returns every KPI id in catalog order.
func (c *Catalog) IDs() []string {
	ids := make([]string, len(c.defs))
	for i, d := range c.defs {
		ids[i] = d.ID
	}
	return ids
}
