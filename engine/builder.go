package engine

import (
	"errors"
	"fmt"
	"log"
	"sort"
)

// ============================================================================
// BUILDER: Dispatch per chart kind
// ============================================================================
// Entry point: Build(dataset, opts...)
//
// Pipeline:
//   1. Resolve kind / category / mapping (payload first, then Resolver)
//   2. Dispatch to number / series / stacked / table builder
//   3. Attach summary statistics
//
// A KPI's view is either fully derived from its records or absent. Build
// never returns a partial ViewModel alongside an error.
// ============================================================================

// ErrUnsupportedKind is returned for a chart kind no builder handles.
var ErrUnsupportedKind = errors.New("unsupported chart kind")

// Build derives the view model for one KPI.
func Build(ds KpiDataset, opts ...Option) (*ViewModel, error) {
	return applyOptions(opts).build(ds)
}

// BuildAll derives view models for every dataset, in dashboard order.
// KPIs that cannot be built are logged and left out.
func BuildAll(datasets []KpiDataset, opts ...Option) []*ViewModel {
	cfg := applyOptions(opts)
	views := make([]*ViewModel, 0, len(datasets))
	for _, ds := range datasets {
		vm, err := cfg.build(ds)
		if err != nil {
			log.Printf("⚠️ kpiview: skipping KPI %s: %v", ds.ID, err)
			continue
		}
		views = append(views, vm)
	}
	SortByKind(views)
	log.Printf("📊 kpiview: built %d view models from %d KPIs", len(views), len(datasets))
	return views
}

// SortByKind orders views number, bar, pie, line, stacked_bar, table. Views of
// the same kind keep their relative order.
func SortByKind(views []*ViewModel) {
	sort.SliceStable(views, func(i, j int) bool {
		return views[i].Kind.rank() < views[j].Kind.rank()
	})
}

func (c *config) build(ds KpiDataset) (*ViewModel, error) {
	var spec KpiSpec
	if c.Resolver != nil {
		spec, _ = c.Resolver.Lookup(ds.ID)
	}

	kind := ds.Kind
	if kind == "" {
		kind = spec.Kind
	}
	if kind == "" {
		kind = ChartBar
	}
	if !kind.Valid() {
		return nil, fmt.Errorf("kpi %s: %w %q", ds.ID, ErrUnsupportedKind, kind)
	}

	category := ds.Category
	if category == "" {
		category = spec.Category
	}
	if category == "" {
		category = DefaultCategory
	}

	vm := &ViewModel{
		KpiID:       ds.ID,
		Name:        ds.Name,
		Category:    category,
		Description: spec.Description,
		Kind:        kind,
	}

	if spec.Mapping == nil && kind != ChartStackedBar && kind != ChartTable {
		c.warnAmbiguous(ds)
	}

	switch kind {
	case ChartNumber:
		vm.Number = BuildNumber(ds.Records, c.Rules, spec.Mapping)
	case ChartBar, ChartPie, ChartLine:
		vm.Series = BuildSeries(ds.Records, c.seriesStyle(kind, spec.Mapping))
	case ChartStackedBar:
		keys := c.GroupKeys
		if spec.Group != nil {
			keys = *spec.Group
		}
		vm.Grouped = Group(ds.Records, keys)
		stacked := vm.Grouped.Stack(c.stackStyle())
		vm.Stacked = &stacked
	case ChartTable:
		vm.Table = BuildTable(ds.Name, ds.Records, c.Table)
	}

	if kind != ChartNumber {
		fields := c.SummaryFields
		if len(spec.SummaryFields) > 0 {
			fields = spec.SummaryFields
		}
		vm.Summary = Summarize(ds.Records, fields)
	}
	return vm, nil
}

// warnAmbiguous logs once per KPI when inference had to choose between
// several numeric fields by key order.
func (c *config) warnAmbiguous(ds KpiDataset) {
	for _, rec := range ds.Records {
		if in := c.Rules.Infer(rec); in.Ambiguous {
			log.Printf("⚠️ kpiview: KPI %s has several numeric fields, using %q; add an explicit mapping",
				ds.ID, in.ValueField)
			return
		}
	}
}
