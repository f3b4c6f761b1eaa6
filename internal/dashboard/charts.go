// Package dashboard turns the chart-ready projections into HTML assets.
// It owns layout and chart wiring only; what data and markers go into each
// chart is decided by the runstats projections.
package dashboard

import (
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/gobx/statscollector/internal/runstats"
)

const (
	chartWidth  = "900px"
	chartHeight = "420px"

	timeAxisFormat = "Jan 02 15:04"

	lineColor     = "#2563eb"
	boundaryColor = "#94a3b8"
	barColor      = "#22c55e"
)

// newTimeSeriesChart builds the performance-over-time line chart with a
// vertical mark line at every version boundary. Only labeled boundaries
// carry their version text.
func newTimeSeriesChart(series runstats.TimeSeries) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: chartWidth, Height: chartHeight}),
		charts.WithTitleOpts(opts.Title{Title: "Total rate over time"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Total rate (/s)"}),
	)

	labels := make([]string, len(series.Points))
	data := make([]opts.LineData, len(series.Points))

	for i, p := range series.Points {
		labels[i] = p.At.Format(timeAxisFormat)
		data[i] = opts.LineData{Value: p.Rate}
	}

	markLines := make([]charts.SeriesOpts, 0, len(series.Boundaries)+2)
	markLines = append(markLines,
		charts.WithItemStyleOpts(opts.ItemStyle{Color: lineColor}),
		charts.WithMarkLineStyleOpts(opts.MarkLineStyle{
			Symbol:    []string{"none", "none"},
			LineStyle: &opts.LineStyle{Color: boundaryColor, Type: "dashed"},
		}),
	)

	for _, b := range series.Boundaries {
		name := ""
		if b.Labeled {
			name = b.Label
		}

		markLines = append(markLines, charts.WithMarkLineNameXAxisItemOpts(
			opts.MarkLineNameXAxisItem{Name: name, XAxis: b.At.Format(timeAxisFormat)},
		))
	}

	line.SetXAxis(labels)
	line.AddSeries("Total rate", data, markLines...)

	return line
}

// newVersionBarChart builds the median-rate-by-version bar chart from the
// last-12 first-seen-ordered buckets.
func newVersionBarChart(bars runstats.VersionBars) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: chartWidth, Height: chartHeight}),
		charts.WithTitleOpts(opts.Title{Title: "Median total rate by app version"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Median total rate (/s)"}),
	)

	labels := make([]string, len(bars.Bars))
	data := make([]opts.BarData, len(bars.Bars))

	for i, b := range bars.Bars {
		labels[i] = b.Label
		data[i] = opts.BarData{Value: b.MedianRate}
	}

	bar.SetXAxis(labels)
	bar.AddSeries("Median rate", data, charts.WithItemStyleOpts(opts.ItemStyle{Color: barColor}))

	return bar
}
