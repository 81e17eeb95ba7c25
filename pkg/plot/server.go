// Package plot serves the accident dashboard over HTTP.
package plot

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/evanw/esbuild/pkg/api"
	"github.com/raykavin/roadrisk/pkg/core"
	"github.com/raykavin/roadrisk/pkg/dashboard"
	"github.com/raykavin/roadrisk/pkg/logger"
	"github.com/raykavin/roadrisk/pkg/storage"
)

// Static assets embedded in the binary
var (
	//go:embed assets
	staticFiles embed.FS
)

const shutdownTimeout = 5 * time.Second

// PageBuilder renders a dashboard page for a mode and slider value
type PageBuilder interface {
	Build(ctx context.Context, mode core.Mode, topN int) (*dashboard.Page, error)
}

// PageCache keeps built pages between requests
type PageCache interface {
	Get(key string) (*dashboard.Page, bool, error)
	Set(key string, page *dashboard.Page) error
}

// Server hosts the dashboard page, its script and the JSON, PNG and CSV endpoints
type Server struct {
	port          int
	debug         bool
	defaultTopN   int
	builder       PageBuilder
	cache         PageCache
	scriptContent string
	indexHTML     *template.Template
	started       time.Time
	log           logger.Logger
}

// Option defines a function type for configuring a Server instance
type Option func(*Server)

// WithPort sets the HTTP server port
func WithPort(port int) Option {
	return func(s *Server) {
		s.port = port
	}
}

// WithDebug enables debug mode (disables minification)
func WithDebug() Option {
	return func(s *Server) {
		s.debug = true
	}
}

// WithDefaultTopN sets the slider value used when a request has none
func WithDefaultTopN(n int) Option {
	return func(s *Server) {
		s.defaultTopN = n
	}
}

// NewServer creates the dashboard server. cache may be nil, in which case
// every request rebuilds its page.
func NewServer(builder PageBuilder, cache PageCache, log logger.Logger, options ...Option) (*Server, error) {
	s := &Server{
		port:        8080,
		defaultTopN: core.DefaultTopN,
		builder:     builder,
		cache:       cache,
		started:     time.Now(),
		log:         log,
	}

	for _, option := range options {
		option(s)
	}

	var err error
	s.indexHTML, err = template.ParseFS(staticFiles, "assets/index.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse index template: %w", err)
	}

	script, err := staticFiles.ReadFile("assets/dashboard.js")
	if err != nil {
		return nil, fmt.Errorf("failed to read dashboard.js: %w", err)
	}

	result := api.Transform(string(script), api.TransformOptions{
		Loader:            api.LoaderJS,
		Target:            api.ES2017,
		MinifySyntax:      !s.debug,
		MinifyIdentifiers: !s.debug,
		MinifyWhitespace:  !s.debug,
	})
	if len(result.Errors) > 0 {
		return nil, fmt.Errorf("dashboard script failed with: %v", result.Errors)
	}
	s.scriptContent = string(result.Code)

	return s, nil
}

// Handler returns the routes of the dashboard
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/assets/dashboard.js", s.handleScript)
	mux.HandleFunc("/api/page", s.handlePage)
	mux.HandleFunc("/api/chart.png", s.handleChartPNG)
	mux.HandleFunc("/api/export.csv", s.handleExport)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/", s.handleIndex)
	return mux
}

// Start serves the dashboard until ctx is cancelled
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	s.log.Infof("Dashboard available at http://localhost:%d", s.port)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.log.Info("Shutting down dashboard")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// page returns the cached page for mode and topN, building it on a miss.
// topN is clamped before the lookup so equivalent requests share an entry.
func (s *Server) page(ctx context.Context, mode core.Mode, topN int) (*dashboard.Page, error) {
	topN = max(core.MinTopN, min(topN, core.MaxTopN))
	key := storage.Key(mode, topN)

	if s.cache != nil {
		page, ok, err := s.cache.Get(key)
		if err != nil {
			s.log.WithError(err).Warn("Page cache read failed")
		} else if ok {
			return page, nil
		}
	}

	page, err := s.builder.Build(ctx, mode, topN)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(key, page); err != nil {
			s.log.WithError(err).Warn("Page cache write failed")
		}
	}
	return page, nil
}
