package report

import (
	"fmt"
	"strings"
	"time"

	"k8s.io/klog/v2"

	"github.com/gocrane/insight-report/pkg/analysis"
	"github.com/gocrane/insight-report/pkg/known"
	"github.com/gocrane/insight-report/pkg/metricdef"
)

// Assembler lays computed results out as PDF reports.
type Assembler struct {
	// FontPath is a TrueType font with Hangul glyphs; empty uses a core font.
	FontPath string
	Location *time.Location
	Now      func() time.Time
}

func NewAssembler(fontPath string, loc *time.Location) *Assembler {
	return &Assembler{FontPath: fontPath, Location: loc, Now: time.Now}
}

func (a *Assembler) now() time.Time {
	loc := a.Location
	if loc == nil {
		loc = time.Local
	}
	if a.Now == nil {
		return time.Now().In(loc)
	}
	return a.Now().In(loc)
}

// ServerReport is everything shown in the report of one server.
type ServerReport struct {
	SiteName   string
	ServerName string
	Start      time.Time
	End        time.Time
	// Metrics are the definitions of the metrics that returned data, in display order.
	Metrics       []metricdef.Definition
	Analyses      map[string]*analysis.MetricAnalysis
	ChartPaths    map[string]string
	DashboardPath string
}

func (r ServerReport) period() string {
	return fmt.Sprintf("%s ~ %s", r.Start.Format(known.DisplayDateLayout), r.End.Format(known.DisplayDateLayout))
}

// WriteServerReport renders the server PDF to path.
func (a *Assembler) WriteServerReport(r ServerReport, path string) error {
	doc := newDocument(fmt.Sprintf("%s - %s Server Metric Report", r.SiteName, r.ServerName), a.FontPath, a.now())

	// step1: overview
	doc.chapter("1. Overview")
	doc.section("1.1 Server")
	doc.keyValues([]KV{
		{Key: "Site", Value: r.SiteName},
		{Key: "Server", Value: r.ServerName},
		{Key: "Period", Value: r.period()},
		{Key: "Generated", Value: a.now().Format(known.TimestampLayout)},
	})

	doc.section("1.2 Metric summary")
	var summary []KV
	for _, def := range r.Metrics {
		m := r.Analyses[def.Key]
		if m == nil || m.Statistics == nil {
			summary = append(summary, KV{Key: def.DisplayName(), Value: "insufficient data"})
			continue
		}
		summary = append(summary, KV{Key: def.DisplayName(), Value: fmt.Sprintf("mean %s, max %s",
			FormatValueUnit(m.Statistics.Mean, def.Unit), FormatValueUnit(m.Statistics.Max, def.Unit))})
	}
	doc.keyValues(summary)

	// step2: one section per metric
	doc.chapter("2. Metric details")
	for i, def := range r.Metrics {
		doc.section(fmt.Sprintf("2.%d %s", i+1, def.DisplayName()))
		if def.Description != "" {
			doc.body("Description: " + def.Description)
		}

		m := r.Analyses[def.Key]
		if m == nil {
			doc.body("No analysis result for this metric.")
			doc.separator()
			continue
		}
		writeMetricDetail(doc, def, m, r.Start, r.End)

		doc.image(r.ChartPaths[def.Key], def.DisplayName()+" trend", "Chart image not available.")
		doc.separator()
	}

	// step3: dashboard
	doc.pdf.AddPage()
	doc.chapter("3. Dashboard")
	doc.image(r.DashboardPath, "Metric dashboard", "Dashboard image not available.")

	// step4: conclusion
	doc.pdf.AddPage()
	doc.chapter("4. Conclusion")
	doc.body(serverConclusion(r.Metrics, r.Analyses))

	if err := doc.save(path); err != nil {
		return err
	}
	klog.V(2).Infof("Server report written: %s", path)
	return nil
}

func writeMetricDetail(doc *document, def metricdef.Definition, m *analysis.MetricAnalysis, start, end time.Time) {
	if s := m.Statistics; s != nil {
		doc.body("Statistics:")
		doc.keyValues([]KV{
			{Key: "Data points", Value: fmt.Sprintf("%d", s.Count)},
			{Key: "Range", Value: fmt.Sprintf("%s ~ %s (%.1f h)", m.Range.Start.Format(known.TimestampLayout),
				m.Range.End.Format(known.TimestampLayout), m.Range.DurationHours)},
			{Key: "Min", Value: FormatValueUnit(s.Min, def.Unit)},
			{Key: "Max", Value: FormatValueUnit(s.Max, def.Unit)},
			{Key: "Mean", Value: FormatValueUnit(s.Mean, def.Unit)},
			{Key: "Median", Value: FormatValueUnit(s.Median, def.Unit)},
			{Key: "Std", Value: FormatValue(s.Std)},
			{Key: "Percentiles", Value: formatPercentiles(s)},
		})
		if coverage := coverageNote(m, start, end); coverage != "" {
			doc.body(coverage)
		}
	}

	if an := m.Anomalies; an != nil {
		doc.body("Anomalies:")
		doc.keyValues([]KV{
			{Key: "Warning", Value: thresholdCount(len(an.Warning), def.ThresholdWarning, def.Unit)},
			{Key: "Critical", Value: thresholdCount(len(an.Critical), def.ThresholdCritical, def.Unit)},
			{Key: "Statistical outliers", Value: fmt.Sprintf("%d outside [%s, %s]", len(an.Outliers),
				FormatValue(an.LowerBound), FormatValue(an.UpperBound))},
		})
	}

	if pc := m.PeriodComparison; pc != nil {
		doc.body(fmt.Sprintf("Period comparison (last %d days vs. before):", pc.PeriodDays))
		w := doc.contentWidth() / 4
		doc.table([]string{"", "Current", "Previous", "Change"}, [][]string{
			{"Mean", FormatValue(pc.Current.Mean), FormatValue(pc.Previous.Mean), FormatChange(pc.Changes.Mean)},
			{"Max", FormatValue(pc.Current.Max), FormatValue(pc.Previous.Max), FormatChange(pc.Changes.Max)},
			{"Min", FormatValue(pc.Current.Min), FormatValue(pc.Previous.Min), FormatChange(pc.Changes.Min)},
			{"Points", fmt.Sprintf("%d", pc.Current.Count), fmt.Sprintf("%d", pc.Previous.Count), ""},
		}, []float64{w, w, w, w})
	}
}

func formatPercentiles(s *analysis.Statistics) string {
	parts := make([]string, 0, len(analysis.Percentiles))
	for _, p := range analysis.Percentiles {
		parts = append(parts, fmt.Sprintf("p%d %s", p, FormatValue(s.Percentile[p])))
	}
	return strings.Join(parts, ", ")
}

func thresholdCount(n int, threshold *float64, unit string) string {
	if threshold == nil {
		return "no threshold"
	}
	return fmt.Sprintf("%d points >= %s", n, FormatValueUnit(*threshold, unit))
}

// coverageNote warns when the data starts after or ends before the requested dates.
func coverageNote(m *analysis.MetricAnalysis, start, end time.Time) string {
	startDay := m.Range.Start.Format("2006-01-02")
	endDay := m.Range.End.Format("2006-01-02")
	if startDay > start.Format("2006-01-02") || endDay < end.Format("2006-01-02") {
		return fmt.Sprintf("Note: data covers %s ~ %s only.", startDay, endDay)
	}
	return ""
}

// Verdict is the overall finding of a report.
type Verdict int

const (
	VerdictNormal Verdict = iota
	VerdictWarning
	VerdictCritical
)

func verdictOf(analyses map[string]*analysis.MetricAnalysis) (Verdict, int, int) {
	var warnings, criticals int
	for _, m := range analyses {
		if m == nil || m.Anomalies == nil {
			continue
		}
		warnings += len(m.Anomalies.Warning)
		criticals += len(m.Anomalies.Critical)
	}
	switch {
	case criticals > 0:
		return VerdictCritical, warnings, criticals
	case warnings > 0:
		return VerdictWarning, warnings, criticals
	default:
		return VerdictNormal, warnings, criticals
	}
}

func serverConclusion(defs []metricdef.Definition, analyses map[string]*analysis.MetricAnalysis) string {
	verdict, _, _ := verdictOf(analyses)

	var text string
	switch verdict {
	case VerdictCritical:
		text = "Critical level anomalies were found in some metrics. Immediate action is required."
	case VerdictWarning:
		text = "Warning level anomalies were found in some metrics. Close monitoring is recommended."
	default:
		return "All metrics operated within their normal range."
	}

	var details []string
	for _, def := range defs {
		m := analyses[def.Key]
		if m == nil || m.Statistics == nil {
			continue
		}
		severity, gap := m.Thresholds.Evaluate(m.Statistics.Max)
		if severity == analysis.SeverityNormal {
			continue
		}
		details = append(details, fmt.Sprintf("- %s: %s, max %s (%s above threshold)", def.DisplayName(), severity,
			FormatValueUnit(m.Statistics.Max, def.Unit), FormatValue(gap)))
	}
	if len(details) > 0 {
		text += "\n" + strings.Join(details, "\n")
	}
	return text
}
