package report

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/gocrane/insight-report/pkg/known"
	"github.com/gocrane/insight-report/pkg/utils"
)

// Paths names every artifact of one report run. All per-server files live under
// <root>/<site>/<server>, so servers never share a directory.
type Paths struct {
	OutputDir string
	Start     string
	End       string
}

func NewPaths(outputDir string, start, end time.Time) Paths {
	return Paths{OutputDir: outputDir, Start: start.Format(known.DateLayout), End: end.Format(known.DateLayout)}
}

func (p Paths) suffix() string {
	return fmt.Sprintf("%s_to_%s", p.Start, p.End)
}

// Root is <output_dir>/report_<start>_to_<end>.
func (p Paths) Root() string {
	return filepath.Join(p.OutputDir, "report_"+p.suffix())
}

func (p Paths) SiteDir(site string) string {
	return filepath.Join(p.Root(), utils.SafeFileName(site))
}

func (p Paths) ServerDir(site, server string) string {
	return filepath.Join(p.SiteDir(site), utils.SafeFileName(server))
}

func (p Paths) MetricChart(site, server, metricKey string) string {
	return filepath.Join(p.ServerDir(site, server), fmt.Sprintf("%s_%s.png", utils.SafeFileName(metricKey), p.suffix()))
}

func (p Paths) DashboardPNG(site, server string) string {
	return filepath.Join(p.ServerDir(site, server), fmt.Sprintf("%s_dashboard_%s.png", utils.SafeFileName(server), p.suffix()))
}

func (p Paths) DashboardHTML(site, server string) string {
	return filepath.Join(p.ServerDir(site, server), fmt.Sprintf("%s_dashboard_%s.html", utils.SafeFileName(server), p.suffix()))
}

func (p Paths) ServerPDF(site, server string) string {
	return filepath.Join(p.ServerDir(site, server), fmt.Sprintf("%s_report_%s.pdf", utils.SafeFileName(server), p.suffix()))
}

func (p Paths) SitePDF(site string) string {
	return filepath.Join(p.SiteDir(site), fmt.Sprintf("%s_site_report_%s.pdf", utils.SafeFileName(site), p.suffix()))
}

func (p Paths) Summary(site string) string {
	return filepath.Join(p.SiteDir(site), known.SummaryFileName)
}
