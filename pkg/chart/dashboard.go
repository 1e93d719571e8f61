package chart

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"os"
	"path/filepath"

	"github.com/golang/freetype"
	"k8s.io/klog/v2"

	"github.com/gocrane/insight-report/pkg/reporterr"
)

const (
	DashboardColumns = 3

	cellWidth       = 640
	cellHeight      = 380
	bannerHeight    = 90
	titleFontSize   = 22
	subtitleSize    = 15
	bannerLeftInset = 24
)

// GridSize returns the rows and columns used for n dashboard cells.
func GridSize(n int) (rows, cols int) {
	if n <= 0 {
		return 0, 0
	}
	cols = n
	if cols > DashboardColumns {
		cols = DashboardColumns
	}
	rows = (n + cols - 1) / cols
	return rows, cols
}

// RenderDashboard draws all layouts into one grid image with a title banner.
// A cell that fails to render is left blank.
func (r *Renderer) RenderDashboard(title, subtitle string, layouts []Layout, w io.Writer) error {
	rows, cols := GridSize(len(layouts))
	if rows == 0 {
		return reporterr.New(reporterr.RenderError, "dashboard has no charts", nil)
	}

	canvas := image.NewRGBA(image.Rect(0, 0, cols*cellWidth, bannerHeight+rows*cellHeight))
	draw.Draw(canvas, canvas.Bounds(), image.White, image.Point{}, draw.Src)

	if err := r.drawBanner(canvas, title, subtitle); err != nil {
		klog.Warningf("Failed to draw dashboard title: %v", err)
	}

	for i, layout := range layouts {
		var buf bytes.Buffer
		if err := r.render(layout, cellWidth, cellHeight, &buf); err != nil {
			klog.Warningf("Skip dashboard cell %s: %v", layout.MetricKey, err)
			continue
		}
		cell, err := png.Decode(&buf)
		if err != nil {
			klog.Warningf("Skip dashboard cell %s: %v", layout.MetricKey, err)
			continue
		}
		origin := image.Pt((i%cols)*cellWidth, bannerHeight+(i/cols)*cellHeight)
		draw.Draw(canvas, cell.Bounds().Add(origin), cell, cell.Bounds().Min, draw.Over)
	}

	if err := png.Encode(w, canvas); err != nil {
		return reporterr.New(reporterr.RenderError, "encode dashboard", err)
	}
	return nil
}

// RenderDashboardFile writes the dashboard image to path.
func (r *Renderer) RenderDashboardFile(title, subtitle string, layouts []Layout, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return reporterr.New(reporterr.RenderError, "create dashboard file", err)
	}
	defer f.Close()
	return r.RenderDashboard(title, subtitle, layouts, f)
}

func (r *Renderer) drawBanner(dst draw.Image, title, subtitle string) error {
	if r.Font == nil {
		return nil
	}
	c := freetype.NewContext()
	c.SetDPI(72)
	c.SetFont(r.Font)
	c.SetClip(dst.Bounds())
	c.SetDst(dst)
	c.SetSrc(image.NewUniform(color.Black))

	c.SetFontSize(titleFontSize)
	if _, err := c.DrawString(title, freetype.Pt(bannerLeftInset, 36)); err != nil {
		return err
	}
	if subtitle == "" {
		return nil
	}
	c.SetSrc(image.NewUniform(color.Gray{Y: 0x55}))
	c.SetFontSize(subtitleSize)
	_, err := c.DrawString(subtitle, freetype.Pt(bannerLeftInset, 68))
	return err
}
