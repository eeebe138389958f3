package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/padasch/french-nfi-dashboard/internal/lists"
	"github.com/padasch/french-nfi-dashboard/internal/observability"
	"github.com/padasch/french-nfi-dashboard/internal/resolver"
	"github.com/padasch/french-nfi-dashboard/internal/store"
)

//go:embed all:static
var staticFS embed.FS

//go:embed templates
var templateFS embed.FS

// DatasetStore is the read side of the dataset store used by the pages.
type DatasetStore interface {
	Ping(ctx context.Context) error
	RowCount() (int, error)
	Preview(limit, offset int) (*store.Page, error)
	MissingColumns(documented []string) ([]string, error)
	LastImport() (*store.ImportInfo, error)
}

// Server serves the dashboard pages, the asset tree and the JSON API.
type Server struct {
	Lists    *lists.Lists
	Resolver *resolver.Resolver
	Store    DatasetStore
	// Assets is the read-only figure tree; AssetsDir is only used to show
	// paths the way they exist on disk.
	Assets      fs.FS
	AssetsDir   string
	DatasetPath string
	Limiter     *DownloadLimiter
	Logger      *slog.Logger
	Metrics     *observability.Metrics
	Addr        string
}

// Handler builds the request router.
func (s *Server) Handler() (http.Handler, error) {
	pages, err := loadPages()
	if err != nil {
		return nil, err
	}
	staticSub, err := fs.Sub(staticFS, "static")
	if err != nil {
		return nil, fmt.Errorf("creating sub filesystem: %w", err)
	}

	mux := http.NewServeMux()

	// Pages
	mux.Handle("GET /{$}", s.instrument("home", s.handleHome(pages)))
	mux.Handle("GET /visualizations", s.instrument("visualizations", s.handleVisualizations(pages)))
	mux.Handle("GET /dataset", s.instrument("dataset", s.handleDataset(pages)))
	mux.Handle("GET /dataset/download", s.instrument("download", s.handleDownload))

	// API endpoints
	mux.Handle("GET /api/lists", s.instrument("api_lists", s.handleLists))
	mux.Handle("GET /api/resolve", s.instrument("api_resolve", s.handleResolve))
	mux.Handle("GET /api/coverage", s.instrument("api_coverage", s.handleCoverage))

	// Ops
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.Handle("GET /metrics", promhttp.Handler())

	// Static files
	mux.Handle("GET /figs/", http.StripPrefix("/figs/", http.FileServer(http.FS(s.Assets))))
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(staticSub))))

	return mux, nil
}

// ListenAndServe starts the HTTP server and shuts it down gracefully when
// ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, shutdownTimeout time.Duration) error {
	handler, err := s.Handler()
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:         s.Addr,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	s.Logger.Info("serving dashboard", "url", "http://"+s.Addr)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.Logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
