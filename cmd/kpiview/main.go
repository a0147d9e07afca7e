package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/spektr-org/kpiview/backend"
	"github.com/spektr-org/kpiview/config"
	"github.com/spektr-org/kpiview/engine"
	"github.com/spektr-org/kpiview/filters"
	"github.com/spektr-org/kpiview/helpers"
	"github.com/spektr-org/kpiview/render"
	"github.com/spektr-org/kpiview/schema"
)

// ============================================================================
// KPIVIEW CLI: KPI payloads → dashboards, exports and catalogs
// ============================================================================

const (
	version      = "0.3.0"
	defaultTitle = "Workforce Dashboard"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "kpiview",
		Short:         "Turn KPI dashboard payloads into charts, tables and exports",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		newRenderCmd(),
		newFetchCmd(),
		newMonthsCmd(),
		newExportCmd(),
		newCatalogCmd(),
		newHealthCmd(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// input selects where KPI datasets come from.
type input struct {
	payload string
	csv     string
	kpiID   string
	kind    string
}

func (in *input) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&in.payload, "payload", "", "Dashboard JSON payload file")
	cmd.Flags().StringVar(&in.csv, "csv", "", "CSV file holding one KPI's records (instead of --payload)")
	cmd.Flags().StringVar(&in.kpiID, "kpi", "", "KPI id (names the --csv dataset)")
	cmd.Flags().StringVar(&in.kind, "kind", "", "Chart kind for the --csv dataset (default: catalog)")
}

func (in *input) datasets() ([]engine.KpiDataset, error) {
	switch {
	case in.payload != "" && in.csv != "":
		return nil, fmt.Errorf("use either --payload or --csv, not both")
	case in.payload != "":
		data, err := os.ReadFile(in.payload)
		if err != nil {
			return nil, fmt.Errorf("failed to read payload: %w", err)
		}
		dash, err := helpers.DecodeDashboard(data)
		if err != nil {
			return nil, err
		}
		return dash.Datasets, nil
	case in.csv != "":
		return in.csvDataset()
	default:
		return nil, fmt.Errorf("--payload or --csv is required")
	}
}

func (in *input) csvDataset() ([]engine.KpiDataset, error) {
	data, err := os.ReadFile(in.csv)
	if err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}
	records, err := helpers.ParseCSV(data)
	if err != nil {
		return nil, err
	}

	id := in.kpiID
	if id == "" {
		id = strings.TrimSuffix(filepath.Base(in.csv), filepath.Ext(in.csv))
	}
	var kind engine.ChartKind
	if in.kind != "" {
		k, ok := engine.ParseChartKind(in.kind)
		if !ok {
			return nil, fmt.Errorf("kind %q: %w", in.kind, engine.ErrUnsupportedKind)
		}
		kind = k
	}
	log.Printf("📊 kpiview: parsed %d records from %s", len(records), in.csv)
	return []engine.KpiDataset{{
		ID:      id,
		Name:    engine.ColumnLabel(id),
		Kind:    kind,
		Records: records,
	}}, nil
}

func newRenderCmd() *cobra.Command {
	var in input
	var catalogPath, outPath, format, title string
	var groupLimit int

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a dashboard payload as HTML charts or view-model JSON",
		Long: `Build view models for every KPI in a payload and render them.

Example:
  kpiview render --payload dash.json --catalog kpis.yaml --out dash.html
  kpiview render --csv stock.csv --kpi inventory_stock_levels --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			datasets, err := in.datasets()
			if err != nil {
				return err
			}
			catalog, err := schema.LoadCatalog(catalogPath)
			if err != nil {
				return err
			}
			views := engine.BuildAll(datasets, engine.WithResolver(catalog), engine.WithGroupLimit(groupLimit))
			return withOutput(cmd, outPath, func(w io.Writer) error {
				return writeViews(w, format, title, views)
			})
		},
	}

	in.bind(cmd)
	cmd.Flags().StringVar(&catalogPath, "catalog", "", "KPI catalog YAML (layered over the built-in catalog)")
	cmd.Flags().StringVar(&outPath, "out", "", "Write output to file instead of stdout")
	cmd.Flags().StringVar(&format, "format", "html", "Output format: html|json")
	cmd.Flags().StringVar(&title, "title", defaultTitle, "Page title for html output")
	cmd.Flags().IntVar(&groupLimit, "group-limit", config.DefaultGroupLimit, "Categories shown in stacked bars")
	return cmd
}

func newFetchCmd() *cobra.Command {
	var (
		departments, locations, designations, genders []string
		start, end, outPath, format, catalogPath       string
	)

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch a filtered dashboard from the backend and render it",
		Long: `Fetch filter options and the dashboard concurrently, then render.

Configuration is read from the environment (or .env):
- KPIVIEW_API_BASE_URL (default: http://127.0.0.1:8000/api)
- KPIVIEW_TIMEOUT (default: 30s)
- KPIVIEW_CATALOG (optional KPI catalog YAML)
- KPIVIEW_GROUP_LIMIT (default: 7)

Example:
  kpiview fetch --department Sales --department Ops --start 2024-01-01 --out dash.html`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if catalogPath != "" {
				cfg.CatalogPath = catalogPath
			}

			query := flagQuery(map[filters.Dimension][]string{
				filters.Departments:  departments,
				filters.Locations:    locations,
				filters.Designations: designations,
				filters.Genders:      genders,
			}, start, end)

			return runFetch(cmd, cfg, query, func(w io.Writer, views []*engine.ViewModel) error {
				return writeViews(w, format, defaultTitle, views)
			}, outPath)
		},
	}

	cmd.Flags().StringSliceVar(&departments, "department", nil, "Department filter (repeatable)")
	cmd.Flags().StringSliceVar(&locations, "location", nil, "Location filter (repeatable)")
	cmd.Flags().StringSliceVar(&designations, "designation", nil, "Designation filter (repeatable)")
	cmd.Flags().StringSliceVar(&genders, "gender", nil, "Gender filter (repeatable)")
	cmd.Flags().StringVar(&start, "start", "", "Start month, YYYY-MM-01")
	cmd.Flags().StringVar(&end, "end", "", "End month, YYYY-MM-01")
	cmd.Flags().StringVar(&outPath, "out", "", "Write output to file instead of stdout")
	cmd.Flags().StringVar(&format, "format", "html", "Output format: html|json")
	cmd.Flags().StringVar(&catalogPath, "catalog", "", "KPI catalog YAML (overrides KPIVIEW_CATALOG)")
	return cmd
}

// flagQuery commits the flag selection through a Reconciler. Repeated flag
// values are deduplicated, never toggled off.
func flagQuery(members map[filters.Dimension][]string, start, end string) filters.Query {
	draft := filters.NewReconciler(filters.State{})
	for dim, values := range members {
		draft.ReplaceMembers(dim, values)
	}
	draft.SetRange(filters.Start, start)
	draft.SetRange(filters.End, end)
	query, _ := draft.Commit()
	return query
}

func runFetch(cmd *cobra.Command, cfg *config.Config, query filters.Query,
	write func(io.Writer, []*engine.ViewModel) error, outPath string) error {
	catalog, err := schema.LoadCatalog(cfg.CatalogPath)
	if err != nil {
		return err
	}
	client := backend.New(backend.Config{BaseURL: cfg.BaseURL, Timeout: cfg.Timeout})

	var (
		options *filters.Response
		dash    *helpers.Dashboard
	)
	g, ctx := errgroup.WithContext(cmd.Context())
	g.Go(func() error {
		var err error
		options, err = client.Filters(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		dash, err = client.Dashboard(ctx, query)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	months := options.Months()
	if len(months) > 0 {
		log.Printf("📅 kpiview: data covers %s to %s", months[0].Label, months[len(months)-1].Label)
	}
	warnUnknownMonth(months, query.StartDate)
	warnUnknownMonth(months, query.EndDate)

	views := engine.BuildAll(dash.Datasets, engine.WithResolver(catalog), engine.WithGroupLimit(cfg.GroupLimit))
	return withOutput(cmd, outPath, func(w io.Writer) error {
		return write(w, views)
	})
}

func warnUnknownMonth(months []filters.MonthOption, key string) {
	if key == "" {
		return
	}
	for _, m := range months {
		if m.Key == key {
			return
		}
	}
	log.Printf("⚠️ kpiview: month %s is outside the available date range", key)
}

func newMonthsCmd() *cobra.Command {
	var minDate, maxDate string

	cmd := &cobra.Command{
		Use:   "months",
		Short: "List the month options between two dates",
		Long: `List every month from the first day of min's month through max's month.

Example: kpiview months --min "2024-01-15 00:00:00" --max "2024-03-10 00:00:00"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, m := range filters.MonthRange(minDate, maxDate) {
				fmt.Fprintf(out, "%s\t%s\n", m.Key, m.Label)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&minDate, "min", "", "Earliest date")
	cmd.Flags().StringVar(&maxDate, "max", "", "Latest date")
	_ = cmd.MarkFlagRequired("min")
	_ = cmd.MarkFlagRequired("max")
	return cmd
}

func newExportCmd() *cobra.Command {
	var in input
	var catalogPath, outPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export one KPI's rows as CSV or XLSX",
		Long: `Export a single KPI. Stacked bar KPIs export the full aggregation,
every other kind exports its raw records. The extension of --out picks the format.

Example: kpiview export --payload dash.json --kpi gender_split_by_department --out split.xlsx`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			datasets, err := in.datasets()
			if err != nil {
				return err
			}
			catalog, err := schema.LoadCatalog(catalogPath)
			if err != nil {
				return err
			}
			return runExport(datasets, in.kpiID, catalog, outPath)
		},
	}

	in.bind(cmd)
	cmd.Flags().StringVar(&catalogPath, "catalog", "", "KPI catalog YAML (layered over the built-in catalog)")
	cmd.Flags().StringVar(&outPath, "out", "", "Output file (.csv or .xlsx)")
	_ = cmd.MarkFlagRequired("kpi")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}

func runExport(datasets []engine.KpiDataset, kpiID string, catalog *schema.Catalog, outPath string) error {
	for _, ds := range datasets {
		if ds.ID != kpiID {
			continue
		}
		vm, err := engine.Build(ds, engine.WithResolver(catalog))
		if err != nil {
			return err
		}
		if err := helpers.ExportFile(outPath, helpers.SheetFor(vm, ds)); err != nil {
			return err
		}
		log.Printf("📄 kpiview: %s written to %s", kpiID, outPath)
		return nil
	}
	return fmt.Errorf("kpi %s not found in payload", kpiID)
}

func newCatalogCmd() *cobra.Command {
	var catalogPath, payloadPath string
	var remote bool

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Print the KPI catalog, or inspect a payload against it",
		Long: `Print the effective KPI catalog as YAML.

With --payload, profile every KPI's fields instead and suggest mappings for
KPIs whose label or value field is ambiguous. With --remote, definitions from
the backend's /dashboard/kpis endpoint are layered in first.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := schema.LoadCatalog(catalogPath)
			if err != nil {
				return err
			}
			if remote {
				if err := mergeRemote(cmd.Context(), catalog); err != nil {
					return err
				}
			}

			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			defer enc.Close()

			if payloadPath == "" {
				return enc.Encode(catalog)
			}
			datasets, err := (&input{payload: payloadPath}).datasets()
			if err != nil {
				return err
			}
			return enc.Encode(schema.DiscoverAll(datasets, engine.DefaultRules(), catalog))
		},
	}

	cmd.Flags().StringVar(&catalogPath, "catalog", "", "KPI catalog YAML (layered over the built-in catalog)")
	cmd.Flags().StringVar(&payloadPath, "payload", "", "Dashboard JSON payload to inspect")
	cmd.Flags().BoolVar(&remote, "remote", false, "Merge the backend's KPI definitions")
	return cmd
}

func mergeRemote(ctx context.Context, catalog *schema.Catalog) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	defs, err := backend.New(backend.Config{BaseURL: cfg.BaseURL, Timeout: cfg.Timeout}).KPIs(ctx)
	if err != nil {
		return err
	}
	catalog.Merge(defs...)
	log.Printf("📋 kpiview: merged %d backend KPI definitions", len(defs))
	return nil
}

func newHealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Report the backend's health",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			h, err := backend.New(backend.Config{BaseURL: cfg.BaseURL, Timeout: cfg.Timeout}).Health(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "status: %s\nmcp: %s\nai: %s\ntools: %d\nkpis: %d\n",
				h.Status, h.MCPConnection, h.AIConnection, h.AvailableTools, h.AvailableKpis)
			return nil
		},
	}
}

func writeViews(w io.Writer, format, title string, views []*engine.ViewModel) error {
	switch format {
	case "html":
		n, err := render.WriteHTML(w, title, views)
		if err != nil {
			return err
		}
		log.Printf("📈 kpiview: rendered %d charts from %d views", n, len(views))
		return nil
	case "json":
		return render.WriteJSON(w, views)
	default:
		return fmt.Errorf("unknown format %q (want html or json)", format)
	}
}

// withOutput runs fn against --out, or stdout when no path is given.
func withOutput(cmd *cobra.Command, path string, fn func(io.Writer) error) error {
	if path == "" {
		return fn(cmd.OutOrStdout())
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := fn(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	log.Printf("📄 kpiview: output written to %s", path)
	return nil
}
