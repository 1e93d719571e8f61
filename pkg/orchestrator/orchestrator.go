package orchestrator

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/caio/go-tdigest/v4"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"k8s.io/klog/v2"

	"github.com/gocrane/insight-report/pkg/analysis"
	"github.com/gocrane/insight-report/pkg/chart"
	"github.com/gocrane/insight-report/pkg/config"
	"github.com/gocrane/insight-report/pkg/insight"
	"github.com/gocrane/insight-report/pkg/known"
	"github.com/gocrane/insight-report/pkg/metricdef"
	"github.com/gocrane/insight-report/pkg/report"
	"github.com/gocrane/insight-report/pkg/reporterr"
	"github.com/gocrane/insight-report/pkg/utils"
)

// FetcherFactory returns the data source of one site.
type FetcherFactory func(siteID string, site config.Site) insight.Fetcher

// NewInsightFetcher is the FetcherFactory of the Cloud Insight API.
func NewInsightFetcher(settings config.Settings) FetcherFactory {
	return func(_ string, site config.Site) insight.Fetcher {
		return insight.NewClient(settings.API.Endpoint, site.NCP, time.Duration(settings.API.Timeout))
	}
}

// Orchestrator runs the fetch, analyze and render pipeline over every configured server.
type Orchestrator struct {
	cfg        *config.Config
	registry   *metricdef.Registry
	newFetcher FetcherFactory
	analyzer   *analysis.Analyzer
	renderer   *chart.Renderer
	assembler  *report.Assembler
	location   *time.Location
	metrics    *runMetrics

	Now func() time.Time
}

func New(cfg *config.Config, newFetcher FetcherFactory, renderer *chart.Renderer, assembler *report.Assembler) (*Orchestrator, error) {
	loc, err := cfg.Settings.Location()
	if err != nil {
		return nil, reporterr.New(reporterr.ConfigurationError, "timezone", err)
	}
	return &Orchestrator{
		cfg:        cfg,
		registry:   cfg.Registry(),
		newFetcher: newFetcher,
		analyzer:   analysis.NewAnalyzer(loc, cfg.Settings.Report.PeriodDays),
		renderer:   renderer,
		assembler:  assembler,
		location:   loc,
		metrics:    newRunMetrics(),
		Now:        time.Now,
	}, nil
}

// SiteOutcome is the result of one site.
type SiteOutcome struct {
	ID        string
	Name      string
	Servers   int
	Succeeded int
	Failed    int
	// Err is set when the site was skipped as a whole.
	Err error
}

func (s SiteOutcome) Successful() bool {
	return s.Succeeded > 0
}

// RunSummary is the result of a whole run.
type RunSummary struct {
	RunID      string
	OutputRoot string
	Sites      []SiteOutcome
}

// SucceededSites counts sites with at least one successful server.
func (r *RunSummary) SucceededSites() int {
	var n int
	for _, s := range r.Sites {
		if s.Successful() {
			n++
		}
	}
	return n
}

// Run processes every site, or only siteFilter when it is set. Per-site and per-server
// failures are recorded in the summary; only an output directory that cannot be created,
// or an unknown siteFilter, makes Run return an error.
func (o *Orchestrator) Run(ctx context.Context, window Window, siteFilter string) (*RunSummary, error) {
	paths := report.NewPaths(o.cfg.Settings.General.OutputDir, window.Start, window.End)
	summary := &RunSummary{RunID: uuid.NewString(), OutputRoot: paths.Root()}

	siteIDs := o.cfg.SiteIDs()
	if siteFilter != "" {
		if _, ok := o.cfg.Sites[siteFilter]; !ok {
			return summary, reporterr.Newf(reporterr.ConfigurationError, nil, "site %q not found", siteFilter)
		}
		siteIDs = []string{siteFilter}
	}

	if err := os.MkdirAll(paths.Root(), 0755); err != nil {
		return summary, fmt.Errorf("create output directory %s: %v", paths.Root(), err)
	}
	klog.Infof("Report run %s: %s, %d sites, output %s", summary.RunID, window.Period(), len(siteIDs), paths.Root())

	for _, id := range siteIDs {
		outcome, err := o.processSite(ctx, summary.RunID, id, o.cfg.Sites[id], window, paths)
		if err != nil {
			return summary, err
		}
		summary.Sites = append(summary.Sites, outcome)
		o.metrics.sites.WithLabelValues(result(outcome.Successful())).Inc()
	}

	o.metrics.lastRun.SetToCurrentTime()
	if path := o.cfg.Settings.General.MetricsTextfile; path != "" {
		if err := o.metrics.WriteTextfile(path); err != nil {
			klog.Warningf("Failed to write metrics textfile %s: %v", path, err)
		}
	}

	klog.Infof("Report run %s finished: %d of %d sites succeeded", summary.RunID, summary.SucceededSites(), len(summary.Sites))
	return summary, nil
}

func (o *Orchestrator) processSite(ctx context.Context, runID, id string, site config.Site, window Window, paths report.Paths) (SiteOutcome, error) {
	outcome := SiteOutcome{ID: id, Name: site.DisplayName(id), Servers: len(site.Servers)}
	klog.Infof("Processing site %s (%s)", id, outcome.Name)

	// site artifacts live under the display name, ids stay in logs and metrics
	siteDir := paths.SiteDir(outcome.Name)
	if err := os.MkdirAll(siteDir, 0755); err != nil {
		return outcome, fmt.Errorf("create site directory %s: %v", siteDir, err)
	}

	// step1: check the site is usable at all
	if err := config.ValidateSite(id, site); err != nil {
		klog.Errorf("Skip site %s: %v", id, err)
		outcome.Err = err
		outcome.Failed = outcome.Servers
		o.writeSummary(runID, outcome, window, paths)
		return outcome, nil
	}

	// step2: run the server pipelines, at most Concurrency at a time
	fetcher := o.newFetcher(id, site)
	store := newOutcomeStore()
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(utils.GetIntwithDefault(o.cfg.Settings.General.Concurrency, 1))
	names := make([]string, len(site.Servers))
	for i, server := range site.Servers {
		i, server := i, server
		names[i] = server.Name
		g.Go(func() error {
			result, err := o.processServer(gctx, fetcher, id, outcome.Name, server, window, paths)
			if err != nil {
				return err
			}
			store.set(i, result)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return outcome, err
	}

	// step3: site artifacts
	var succeeded []report.ServerResult
	for _, r := range store.ordered(names) {
		o.metrics.servers.WithLabelValues(id, result(r.Succeeded)).Inc()
		if r.Succeeded {
			succeeded = append(succeeded, r.Result)
		}
	}
	outcome.Succeeded = len(succeeded)
	outcome.Failed = outcome.Servers - outcome.Succeeded

	if len(succeeded) > 0 {
		err := o.assembler.WriteSiteReport(report.SiteReport{
			SiteName:     outcome.Name,
			Start:        window.Start,
			End:          window.End,
			TotalServers: outcome.Servers,
			Servers:      succeeded,
			Registry:     o.registry,
		}, paths.SitePDF(outcome.Name))
		if err != nil {
			klog.Warningf("Site %s: %v", id, err)
		}
	}

	o.writeSummary(runID, outcome, window, paths)

	if outcome.Successful() {
		klog.Infof("Site %s done: %d succeeded, %d failed", id, outcome.Succeeded, outcome.Failed)
	} else {
		klog.Errorf("Site %s produced no report: all %d servers failed", id, outcome.Servers)
	}
	return outcome, nil
}

func (o *Orchestrator) writeSummary(runID string, outcome SiteOutcome, window Window, paths report.Paths) {
	err := report.WriteSummary(paths.Summary(outcome.Name), report.Summary{
		Site:      outcome.Name,
		RunID:     runID,
		Generated: o.Now().In(o.location),
		Window:    window.Label,
		Start:     window.Start,
		End:       window.End,
		Servers:   outcome.Servers,
		Succeeded: outcome.Succeeded,
		Failed:    outcome.Failed,
	})
	if err != nil {
		klog.Warningf("Site %s: write summary: %v", outcome.ID, err)
	}
}

// withData splits series into those with at least one finite sample and a
// DataSufficiency error for each one without.
func withData(series []utils.MetricSeries) ([]utils.MetricSeries, []error) {
	var valid []utils.MetricSeries
	var dropped []error
	for _, s := range series {
		if len(s.Finite()) == 0 {
			dropped = append(dropped, reporterr.Newf(reporterr.DataSufficiency, nil, "metric %s has no data", s.Key))
			continue
		}
		valid = append(valid, s)
	}
	return valid, dropped
}

// processServer returns a failed outcome for every per-server problem. The error return
// is reserved for failures that must stop the run.
func (o *Orchestrator) processServer(ctx context.Context, fetcher insight.Fetcher, siteID, siteName string, server config.Server,
	window Window, paths report.Paths) (*serverOutcome, error) {
	outcome := &serverOutcome{Name: server.Name}
	if !server.Complete() {
		klog.Warningf("Site %s: incomplete server entry %+v", siteID, server)
		return outcome, nil
	}
	klog.V(2).Infof("Site %s: processing server %s", siteID, server.Name)

	// step1: fetch every configured metric in one call
	began := time.Now()
	series, err := fetcher.FetchMetrics(ctx, insight.Query{
		Keys:           o.registry.Keys(),
		DimensionKey:   known.DimensionVMName,
		DimensionValue: server.Name,
		StartMs:        window.StartMs(),
		EndMs:          window.EndMs(),
		Interval:       o.cfg.Settings.Interval.Default,
		Aggregation:    o.cfg.Settings.Aggregation.Default,
	})
	o.metrics.fetchDuration.WithLabelValues(siteID).Observe(time.Since(began).Seconds())
	if err != nil {
		if !reporterr.IsKind(err, reporterr.FetchError) {
			err = reporterr.New(reporterr.FetchError, "query "+server.Name, err)
		}
		klog.Errorf("Site %s: server %s: %v", siteID, server.Name, err)
		return outcome, nil
	}

	// step2: keep the series that have data
	valid, dropped := withData(series)
	for _, err := range dropped {
		klog.Warningf("Site %s: server %s: %v", siteID, server.Name, err)
		o.metrics.discarded.WithLabelValues(siteID).Inc()
	}
	if len(valid) == 0 {
		klog.Errorf("Site %s: server %s: no metric returned data", siteID, server.Name)
		return outcome, nil
	}

	serverDir := paths.ServerDir(siteName, server.Name)
	if err := os.MkdirAll(serverDir, 0755); err != nil {
		return nil, fmt.Errorf("create server directory %s: %v", serverDir, err)
	}

	// step3: analyze and render
	analyses := o.analyzer.AnalyzeMetrics(valid, o.registry)
	defs := make([]metricdef.Definition, 0, len(valid))
	layouts := make([]chart.Layout, 0, len(valid))
	chartPaths := make(map[string]string, len(valid))
	digests := make(map[string]*tdigest.TDigest, len(valid))
	for _, s := range valid {
		def := o.registry.Resolve(s.Key)
		defs = append(defs, def)

		layout := chart.BuildLayout(s, def, window.Chart(), o.location)
		layouts = append(layouts, layout)
		path := paths.MetricChart(siteName, server.Name, s.Key)
		if err := o.renderer.RenderPNGFile(layout, path); err != nil {
			klog.Warningf("Site %s: server %s: %v", siteID, server.Name, err)
		} else {
			chartPaths[s.Key] = path
		}

		if td, err := report.NewDigest(s); err != nil {
			klog.Warningf("Site %s: server %s: digest of %s: %v", siteID, server.Name, s.Key, err)
		} else {
			digests[s.Key] = td
		}
	}

	title := fmt.Sprintf("%s - %s", siteName, server.Name)
	dashboard := paths.DashboardPNG(siteName, server.Name)
	if err := o.renderer.RenderDashboardFile(title, window.Period(), layouts, dashboard); err != nil {
		klog.Warningf("Site %s: server %s: %v", siteID, server.Name, err)
	}
	if o.cfg.Settings.Report.HTMLDashboard {
		if err := chart.RenderHTMLFile(title, layouts, paths.DashboardHTML(siteName, server.Name)); err != nil {
			klog.Warningf("Site %s: server %s: %v", siteID, server.Name, err)
		}
	}

	// step4: server pdf
	err = o.assembler.WriteServerReport(report.ServerReport{
		SiteName:      siteName,
		ServerName:    server.Name,
		Start:         window.Start,
		End:           window.End,
		Metrics:       defs,
		Analyses:      analyses,
		ChartPaths:    chartPaths,
		DashboardPath: dashboard,
	}, paths.ServerPDF(siteName, server.Name))
	if err != nil {
		klog.Warningf("Site %s: server %s: %v", siteID, server.Name, err)
	}

	outcome.Succeeded = true
	outcome.Result = report.ServerResult{Name: server.Name, Analyses: analyses, Digests: digests}
	klog.V(2).Infof("Site %s: server %s done, %d metrics", siteID, server.Name, len(valid))
	return outcome, nil
}
