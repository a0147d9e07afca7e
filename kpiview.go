// Package kpiview turns loosely-typed KPI records into render-ready views.
//
// Usage:
//
//	import "github.com/spektr-org/kpiview/engine"
//
//	views := engine.BuildAll(datasets,
//	    engine.WithResolver(schema.DefaultCatalog()),
//	    engine.WithGroupLimit(7),
//	)
//
// The engine takes the per-KPI record arrays returned by a dashboard backend
// (field names and shapes vary per KPI) and derives label/value series,
// stacked groupings, tables and summary statistics. The filters package owns
// the draft/applied filter selection and turns it into the next fetch query.
//
// HTTP fetching (backend) and chart rendering (render) are thin adapters; the
// engine and filters packages never perform I/O.
package kpiview
