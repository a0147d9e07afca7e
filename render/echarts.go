package render

import (
	"encoding/json"
	"fmt"
	"io"
	"log"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/spektr-org/kpiview/engine"
)

// ============================================================================
// RENDER: View models → single-page HTML dashboard
// ============================================================================
// Only chartable kinds (bar, pie, line, stacked_bar) become echarts. Number
// and table KPIs, and views with no data, are left to other presenters.
// No layout or theme logic lives here.
// ============================================================================

const (
	chartWidth  = "900px"
	chartHeight = "420px"
)

// Charts converts views into echarts, in view order.
func Charts(views []*engine.ViewModel) []components.Charter {
	var out []components.Charter
	for _, vm := range views {
		if vm.Empty() {
			log.Printf("📭 kpiview render: %s has no data", vm.KpiID)
			continue
		}
		switch vm.Kind {
		case engine.ChartBar:
			out = append(out, barChart(vm))
		case engine.ChartPie:
			out = append(out, pieChart(vm))
		case engine.ChartLine:
			out = append(out, lineChart(vm))
		case engine.ChartStackedBar:
			out = append(out, stackedChart(vm))
		default:
			log.Printf("ℹ️ kpiview render: %s is a %s KPI, not charted", vm.KpiID, vm.Kind)
		}
	}
	return out
}

// WriteHTML renders the chartable views as one HTML page and reports how many
// charts it contains.
func WriteHTML(w io.Writer, title string, views []*engine.ViewModel) (int, error) {
	charters := Charts(views)

	page := components.NewPage()
	page.PageTitle = title
	page.AddCharts(charters...)
	if err := page.Render(w); err != nil {
		return 0, fmt.Errorf("render page: %w", err)
	}
	return len(charters), nil
}

// WriteJSON writes the views as indented JSON.
func WriteJSON(w io.Writer, views []*engine.ViewModel) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(views); err != nil {
		return fmt.Errorf("encode views: %w", err)
	}
	return nil
}

func globalOpts(vm *engine.ViewModel, trigger string) []charts.GlobalOpts {
	return []charts.GlobalOpts{
		charts.WithInitializationOpts(opts.Initialization{
			Width:  chartWidth,
			Height: chartHeight,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    vm.Name,
			Subtitle: subtitle(vm),
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: trigger,
		}),
	}
}

func subtitle(vm *engine.ViewModel) string {
	if vm.Summary == nil {
		return vm.Category
	}
	return fmt.Sprintf("%s · total %s · avg %s", vm.Category,
		engine.FormatNumber(vm.Summary.Total), engine.FormatNumber(vm.Summary.Average))
}

func barChart(vm *engine.ViewModel) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(globalOpts(vm, "axis")...)

	labels := make([]string, len(vm.Series))
	data := make([]opts.BarData, len(vm.Series))
	for i, p := range vm.Series {
		labels[i] = p.Label
		data[i] = opts.BarData{
			Name:      p.FullLabel,
			Value:     p.Value,
			ItemStyle: &opts.ItemStyle{Color: p.Color},
		}
	}
	bar.SetXAxis(labels).AddSeries(vm.Name, data)
	return bar
}

func pieChart(vm *engine.ViewModel) *charts.Pie {
	pie := charts.NewPie()
	pie.SetGlobalOptions(globalOpts(vm, "item")...)

	data := make([]opts.PieData, len(vm.Series))
	for i, p := range vm.Series {
		data[i] = opts.PieData{
			Name:      p.Label,
			Value:     p.Value,
			ItemStyle: &opts.ItemStyle{Color: p.Color},
		}
	}
	pie.AddSeries(vm.Name, data).
		SetSeriesOptions(
			charts.WithLabelOpts(opts.Label{
				Show:      opts.Bool(true),
				Formatter: "{b}: {d}%",
			}),
		)
	return pie
}

func lineChart(vm *engine.ViewModel) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(globalOpts(vm, "axis")...)

	ticks := make([]string, len(vm.Series))
	data := make([]opts.LineData, len(vm.Series))
	for i, p := range vm.Series {
		ticks[i] = engine.MonthTickLabel(p.FullLabel)
		data[i] = opts.LineData{Value: p.Value}
	}
	line.SetXAxis(ticks).AddSeries(vm.Name, data)
	return line
}

func stackedChart(vm *engine.ViewModel) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(append(globalOpts(vm, "axis"),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
	)...)

	labels := make([]string, len(vm.Stacked.Categories))
	for i, c := range vm.Stacked.Categories {
		labels[i] = c.Label
	}
	bar.SetXAxis(labels)

	for _, seg := range vm.Stacked.Segments {
		data := make([]opts.BarData, len(seg.Values))
		for i, v := range seg.Values {
			data[i] = opts.BarData{Name: vm.Stacked.Categories[i].FullLabel, Value: v}
		}
		bar.AddSeries(seg.Name, data,
			charts.WithBarChartOpts(opts.BarChart{Stack: "total"}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: seg.Color}),
		)
	}
	return bar
}
