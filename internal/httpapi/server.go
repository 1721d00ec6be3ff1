// Package httpapi exposes the chart pipeline over HTTP.
//
// The API mirrors the CLI: POST /v1/expand runs the full pipeline on an
// inline dataset, and the /v1/datasets endpoints persist named datasets
// when a store is configured. All responses are JSON, errors included.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"

	"github.com/Way/highcharts-utils/pkg/errors"
	pkgio "github.com/Way/highcharts-utils/pkg/io"
	"github.com/Way/highcharts-utils/pkg/pipeline"
	"github.com/Way/highcharts-utils/pkg/store"
)

// DatasetStore persists named datasets. *store.Store implements it; tests
// use an in-memory fake.
type DatasetStore interface {
	Save(ctx context.Context, name string, ds pkgio.Dataset) error
	Load(ctx context.Context, name string) (pkgio.Dataset, error)
	List(ctx context.Context) ([]store.Info, error)
	Delete(ctx context.Context, name string) error
}

// Server handles API requests.
type Server struct {
	runner *pipeline.Runner
	store  DatasetStore // nil when persistence is not configured
	logger *log.Logger
}

// NewServer creates a server. The store may be nil, in which case the
// dataset endpoints respond with 503.
func NewServer(runner *pipeline.Runner, st DatasetStore, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{runner: runner, store: st, logger: logger}
}

// Router builds the HTTP routing table.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.logRequests)
	r.Use(recoverer(s.logger))

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/expand", s.handleExpand)
		r.Route("/datasets", func(r chi.Router) {
			r.Get("/", s.handleListDatasets)
			r.Put("/{name}", s.handleSaveDataset)
			r.Get("/{name}", s.handleGetDataset)
			r.Delete("/{name}", s.handleDeleteDataset)
			r.Get("/{name}/chart", s.handleDatasetChart)
		})
	})
	return r
}

// Run serves the API until the context is canceled, then shuts down
// gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "server shutdown failed")
		}
		return nil
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return errors.Wrap(errors.ErrCodeInternal, err, "server failed")
	}
}
