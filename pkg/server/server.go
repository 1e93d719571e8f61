package server

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	ginprometheus "github.com/zsais/go-gin-prometheus"
	"k8s.io/klog/v2"

	"github.com/gocrane/insight-report/pkg/known"
	"github.com/gocrane/insight-report/pkg/report"
)

const runDirPrefix = "report_"

// Config is the configuration of the report browser.
type Config struct {
	Addr string
	// Root is the output directory that holds report_<start>_to_<end> runs.
	Root string
	// EnableProfiling mounts net/http/pprof under /debug/pprof.
	EnableProfiling bool
}

// Server serves generated reports over HTTP.
type Server struct {
	config Config
	engine *gin.Engine
}

// Run is one report_<start>_to_<end> directory.
type Run struct {
	Name  string              `json:"name"`
	Sites []map[string]string `json:"sites"`
}

func NewServer(config Config) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	s := &Server{config: config, engine: engine}
	s.installHandler()
	return s
}

func (s *Server) installHandler() {
	p := ginprometheus.NewPrometheus("gin")
	// runs are addressed by directory name, keep them out of the label
	p.ReqCntURLLabelMappingFn = func(c *gin.Context) string {
		return c.FullPath()
	}
	p.Use(s.engine)

	if s.config.EnableProfiling {
		pprof.Register(s.engine)
	}

	s.engine.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	s.engine.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/api/runs")
	})
	s.engine.GET("/api/runs", s.listRuns)
	s.engine.GET("/api/runs/:run", s.getRun)
	s.engine.Static("/reports", s.config.Root)
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{Addr: s.config.Addr, Handler: s.engine}

	errCh := make(chan error, 1)
	go func() {
		klog.Infof("Serving reports from %s on %s", s.config.Root, s.config.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	klog.Infof("Shutting down report server")
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) listRuns(c *gin.Context) {
	entries, err := os.ReadDir(s.config.Root)
	if err != nil {
		if os.IsNotExist(err) {
			c.JSON(http.StatusOK, []Run{})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	runs := []Run{}
	for _, e := range entries {
		if !e.IsDir() || !strings.HasPrefix(e.Name(), runDirPrefix) {
			continue
		}
		runs = append(runs, s.loadRun(e.Name()))
	}
	// newest window first
	sort.Slice(runs, func(i, j int) bool { return runs[i].Name > runs[j].Name })
	c.JSON(http.StatusOK, runs)
}

func (s *Server) getRun(c *gin.Context) {
	name := c.Param("run")
	if !strings.HasPrefix(name, runDirPrefix) || strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid run name"})
		return
	}
	if fi, err := os.Stat(filepath.Join(s.config.Root, name)); err != nil || !fi.IsDir() {
		c.JSON(http.StatusNotFound, gin.H{"error": "run not found"})
		return
	}
	c.JSON(http.StatusOK, s.loadRun(name))
}

// loadRun reads the summary of every site in the run. Sites without a readable summary are skipped.
func (s *Server) loadRun(name string) Run {
	run := Run{Name: name, Sites: []map[string]string{}}
	sites, err := os.ReadDir(filepath.Join(s.config.Root, name))
	if err != nil {
		klog.Warningf("Read run %s: %v", name, err)
		return run
	}
	for _, site := range sites {
		if !site.IsDir() {
			continue
		}
		summary, err := report.ReadSummary(filepath.Join(s.config.Root, name, site.Name(), known.SummaryFileName))
		if err != nil {
			klog.V(4).Infof("No summary in %s/%s: %v", name, site.Name(), err)
			continue
		}
		summary["dir"] = site.Name()
		run.Sites = append(run.Sites, summary)
	}
	return run
}
