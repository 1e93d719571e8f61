package report

import (
	"fmt"
	"time"

	"k8s.io/klog/v2"

	"github.com/gocrane/insight-report/pkg/analysis"
	"github.com/gocrane/insight-report/pkg/known"
	"github.com/gocrane/insight-report/pkg/metricdef"
)

// SiteReport is the content of a site report.
type SiteReport struct {
	SiteName string
	Start    time.Time
	End      time.Time
	// TotalServers counts configured servers, including failed ones.
	TotalServers int
	Servers      []ServerResult
	Registry     *metricdef.Registry
}

// WriteSiteReport renders the site PDF to path.
func (a *Assembler) WriteSiteReport(r SiteReport, path string) error {
	doc := newDocument(fmt.Sprintf("%s Site Report", r.SiteName), a.FontPath, a.now())

	// step1: site and servers
	doc.chapter("1. Overview")
	doc.section("1.1 Site")
	doc.keyValues([]KV{
		{Key: "Site", Value: r.SiteName},
		{Key: "Period", Value: fmt.Sprintf("%s ~ %s", r.Start.Format(known.DisplayDateLayout), r.End.Format(known.DisplayDateLayout))},
		{Key: "Servers", Value: fmt.Sprintf("%d reported of %d", len(r.Servers), r.TotalServers)},
		{Key: "Generated", Value: a.now().Format(known.TimestampLayout)},
	})
	doc.section("1.2 Servers")
	for _, s := range r.Servers {
		doc.body("- " + s.Name)
	}

	// step2: per metric across servers
	doc.chapter("2. Site summary")
	metrics := AggregateSite(r.Registry.Keys(), r.Servers)
	if len(metrics) == 0 {
		doc.body("Not enough data for a site summary.")
	}
	for i, m := range metrics {
		def := r.Registry.Resolve(m.Key)
		doc.section(fmt.Sprintf("2.%d %s", i+1, def.DisplayName()))
		doc.keyValues([]KV{
			{Key: "Mean of server means", Value: FormatValueUnit(m.Mean, def.Unit)},
			{Key: "Max over servers", Value: FormatValueUnit(m.Max, def.Unit)},
			{Key: "Site p95", Value: FormatValueUnit(m.P95, def.Unit)},
		})
		doc.body("Mean per server:")
		var rows []KV
		for _, name := range m.SortedServers() {
			rows = append(rows, KV{Key: name, Value: FormatValueUnit(m.ServerMeans[name], def.Unit)})
		}
		doc.keyValues(rows)
	}

	// step3: anomalies per server
	doc.chapter("3. Anomalies")
	var anomalies []KV
	for _, s := range r.Servers {
		_, warnings, criticals := verdictOf(s.Analyses)
		if warnings > 0 || criticals > 0 {
			anomalies = append(anomalies, KV{Key: s.Name, Value: fmt.Sprintf("warning: %d, critical: %d", warnings, criticals)})
		}
	}
	if len(anomalies) == 0 {
		doc.body("No anomalies were found on any analyzed server.")
	} else {
		doc.body("Anomalies were found on the following servers:")
		doc.keyValues(anomalies)
	}

	// step4: conclusion
	doc.pdf.AddPage()
	doc.chapter("4. Conclusion")
	doc.body(siteConclusion(r.Servers))

	if err := doc.save(path); err != nil {
		return err
	}
	klog.V(2).Infof("Site report written: %s", path)
	return nil
}

func siteConclusion(servers []ServerResult) string {
	all := make(map[string]*analysis.MetricAnalysis)
	for _, s := range servers {
		for k, m := range s.Analyses {
			all[s.Name+"/"+k] = m
		}
	}
	verdict, warnings, criticals := verdictOf(all)
	switch verdict {
	case VerdictCritical:
		return fmt.Sprintf("%d critical level anomalies were found across the site. Immediate action is required.", criticals)
	case VerdictWarning:
		return fmt.Sprintf("%d warning level anomalies were found across the site. Close monitoring is recommended.", warnings)
	default:
		return "The whole site operated normally and every analyzed metric stayed within its normal range."
	}
}
