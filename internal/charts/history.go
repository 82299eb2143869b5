// Package charts renders the monitor history as a standalone HTML page.
package charts

import (
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"hostwatch/internal/models"
)

const timeLabelLayout = "15:04:05"

// RenderHistory writes an HTML page with a cpu/memory line chart of snap.
// Threshold lines are drawn for both series.
func RenderHistory(w io.Writer, snap models.HistorySnapshot, thresholds models.ThresholdSet) error {
	page := components.NewPage()
	page.PageTitle = "hostwatch - history"
	page.AddCharts(historyChart(snap, thresholds))
	return page.Render(w)
}

func historyChart(snap models.HistorySnapshot, thresholds models.ThresholdSet) *charts.Line {
	line := charts.NewLine()

	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Resource usage",
			Subtitle: "Processor and memory utilization, oldest first",
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "axis",
		}),
		charts.WithLegendOpts(opts.Legend{
			Show: opts.Bool(true),
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Name: "Time",
			Type: "category",
			AxisLabel: &opts.AxisLabel{
				Rotate: 45,
			},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name: "Percent",
			Type: "value",
			Min:  0,
			Max:  100,
		}),
		charts.WithInitializationOpts(opts.Initialization{
			Width:  "100%",
			Height: "450px",
		}),
	)

	labels := make([]string, len(snap.Timestamps))
	for i, ts := range snap.Timestamps {
		labels[i] = ts.Format(timeLabelLayout)
	}

	line.SetXAxis(labels).
		AddSeries("CPU %", lineData(snap.CPU),
			charts.WithMarkLineNameYAxisItemOpts(opts.MarkLineNameYAxisItem{
				Name:  "CPU threshold",
				YAxis: thresholds.CPU,
			}),
		).
		AddSeries("Memory %", lineData(snap.Memory),
			charts.WithMarkLineNameYAxisItemOpts(opts.MarkLineNameYAxisItem{
				Name:  "Memory threshold",
				YAxis: thresholds.Memory,
			}),
		).
		SetSeriesOptions(
			charts.WithLineChartOpts(opts.LineChart{
				Smooth: opts.Bool(true),
			}),
		)

	return line
}

func lineData(values []float64) []opts.LineData {
	data := make([]opts.LineData, len(values))
	for i, v := range values {
		data[i] = opts.LineData{Value: v}
	}
	return data
}
