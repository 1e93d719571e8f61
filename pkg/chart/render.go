package chart

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/golang/freetype/truetype"
	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/gocrane/insight-report/pkg/reporterr"
)

const (
	DefaultWidth  = 1200
	DefaultHeight = 600

	tickLabelLayout = "01-02"
)

// Renderer draws layouts as PNG images with go-chart.
type Renderer struct {
	Font   *truetype.Font
	Width  int
	Height int
}

func NewRenderer(font *truetype.Font) *Renderer {
	return &Renderer{Font: font, Width: DefaultWidth, Height: DefaultHeight}
}

// RenderPNG writes the chart of one metric to w.
func (r *Renderer) RenderPNG(layout Layout, w io.Writer) error {
	return r.render(layout, r.Width, r.Height, w)
}

// RenderPNGFile writes the chart of one metric to path.
func (r *Renderer) RenderPNGFile(layout Layout, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return reporterr.New(reporterr.RenderError, "create chart file", err)
	}
	defer f.Close()
	return r.RenderPNG(layout, f)
}

func (r *Renderer) render(layout Layout, width, height int, w io.Writer) error {
	if layout.Points.Empty() {
		return reporterr.Newf(reporterr.RenderError, nil, "metric %s has no points to draw", layout.MetricKey)
	}

	graph := r.graph(layout, width, height)
	if err := graph.Render(gochart.PNG, w); err != nil {
		return reporterr.Newf(reporterr.RenderError, err, "render chart of %s", layout.MetricKey)
	}
	return nil
}

func (r *Renderer) graph(layout Layout, width, height int) gochart.Chart {
	xs := make([]time.Time, len(layout.Points.Buckets))
	for i, b := range layout.Points.Buckets {
		xs[i] = b.Start
	}
	seriesColor := drawing.ColorFromHex(SeriesColor)

	series := []gochart.Series{
		gochart.TimeSeries{
			Name: layout.Title,
			Style: gochart.Style{
				StrokeColor: seriesColor,
				StrokeWidth: 1.5,
				DotColor:    seriesColor,
				DotWidth:    2,
			},
			XValues: xs,
			YValues: layout.Points.Values(),
		},
	}
	for _, th := range layout.Thresholds {
		series = append(series, gochart.TimeSeries{
			Name: th.Label,
			Style: gochart.Style{
				StrokeColor:     drawing.ColorFromHex(th.Color),
				StrokeWidth:     1.5,
				StrokeDashArray: []float64{6, 4},
			},
			XValues: []time.Time{layout.XMin, layout.XMax},
			YValues: []float64{th.Value, th.Value},
		})
	}

	ticks := make([]gochart.Tick, len(layout.Ticks))
	for i, t := range layout.Ticks {
		ticks[i] = gochart.Tick{Value: gochart.TimeToFloat64(t), Label: t.Format(tickLabelLayout)}
	}
	gridStyle := gochart.Style{StrokeColor: drawing.ColorFromHex("dddddd"), StrokeWidth: 1, StrokeDashArray: []float64{4, 4}}

	graph := gochart.Chart{
		Title:  layout.Title,
		Width:  width,
		Height: height,
		Font:   r.Font,
		Background: gochart.Style{
			Padding: gochart.Box{Top: 50, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis: gochart.XAxis{
			Range:          &gochart.ContinuousRange{Min: gochart.TimeToFloat64(layout.XMin), Max: gochart.TimeToFloat64(layout.XMax)},
			Ticks:          ticks,
			GridMajorStyle: gridStyle,
		},
		YAxis: gochart.YAxis{
			Name:           layout.YLabel(),
			Range:          &gochart.ContinuousRange{Min: layout.YMin, Max: layout.YMax},
			GridMajorStyle: gridStyle,
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%.4g", f)
				}
				return ""
			},
		},
		Series: series,
	}
	if len(layout.Thresholds) > 0 {
		graph.Elements = []gochart.Renderable{gochart.Legend(&graph)}
	}
	return graph
}
