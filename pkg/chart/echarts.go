package chart

import (
	"io"
	"os"
	"path/filepath"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/gocrane/insight-report/pkg/reporterr"
)

// RenderHTML writes an interactive page holding one line chart per layout.
func RenderHTML(title string, layouts []Layout, w io.Writer) error {
	page := components.NewPage()
	page.PageTitle = title
	page.SetLayout(components.PageFlexLayout)

	for _, layout := range layouts {
		if layout.Points.Empty() {
			continue
		}
		page.AddCharts(lineChart(layout))
	}

	if err := page.Render(w); err != nil {
		return reporterr.New(reporterr.RenderError, "render html dashboard", err)
	}
	return nil
}

// RenderHTMLFile writes the interactive dashboard to path.
func RenderHTMLFile(title string, layouts []Layout, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return reporterr.New(reporterr.RenderError, "create html dashboard", err)
	}
	defer f.Close()
	return RenderHTML(title, layouts, f)
}

func lineChart(layout Layout) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "600px", Height: "360px"}),
		charts.WithTitleOpts(opts.Title{Title: layout.Title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: true, Trigger: "axis"}),
		charts.WithXAxisOpts(opts.XAxis{
			Type: "time",
			Min:  layout.XMin.UnixMilli(),
			Max:  layout.XMax.UnixMilli(),
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name: layout.YLabel(),
			Min:  layout.YMin,
			Max:  layout.YMax,
		}),
	)

	data := make([]opts.LineData, len(layout.Points.Buckets))
	for i, b := range layout.Points.Buckets {
		data[i] = opts.LineData{Value: []interface{}{b.Start.UnixMilli(), b.Mean}}
	}
	line.AddSeries(layout.Title, data, charts.WithLineStyleOpts(opts.LineStyle{Color: "#" + SeriesColor, Width: 1.5}))

	for _, th := range layout.Thresholds {
		line.AddSeries(th.Label, []opts.LineData{
			{Value: []interface{}{layout.XMin.UnixMilli(), th.Value}},
			{Value: []interface{}{layout.XMax.UnixMilli(), th.Value}},
		}, charts.WithLineStyleOpts(opts.LineStyle{Color: "#" + th.Color, Type: "dashed"}))
	}
	return line
}
