// Package api serves the journal and the metrics engine over HTTP.
//
// Routes:
//
//	GET    /healthz
//	GET    /metrics                                   Prometheus
//	POST   /api/v1/metrics                            ledger body -> report
//	GET    /api/v1/users/{user}/datasets
//	GET    /api/v1/users/{user}/datasets/{dataset}
//	DELETE /api/v1/users/{user}/datasets/{dataset}
//	GET    /api/v1/users/{user}/datasets/{dataset}/trades
//	GET    /api/v1/users/{user}/datasets/{dataset}/metrics
//	POST   /api/v1/users/{user}/datasets/{dataset}/ledger
//	GET    /api/v1/users/{user}/trades/{id}
//
// Everything under /api/v1 sits behind the basic auth gate when one is
// configured.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/rustyeddy/tradelog/config"
	"github.com/rustyeddy/tradelog/journal"
)

// MaxBodyBytes bounds uploaded ledgers.
const MaxBodyBytes = 32 << 20

type Server struct {
	store   journal.Store
	log     *zap.Logger
	metrics *Metrics
	auth    config.AuthConfig
	loc     *time.Location
	router  *mux.Router
}

// New builds a server over store. cfg supplies the auth gate and the ledger
// timezone.
func New(store journal.Store, cfg *config.Config, log *zap.Logger) (*Server, error) {
	if log == nil {
		log = zap.NewNop()
	}
	loc, err := cfg.Ledger.Location()
	if err != nil {
		return nil, fmt.Errorf("ledger timezone: %w", err)
	}

	s := &Server{
		store:   store,
		log:     log,
		metrics: NewMetrics(),
		auth:    cfg.Auth,
		loc:     loc,
	}
	s.router = s.routes()
	return s, nil
}

func (s *Server) routes() *mux.Router {
	router := mux.NewRouter()
	router.Use(s.logging)
	router.Use(s.recovery)

	router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	router.Handle("/metrics", s.metrics.Handler()).Methods(http.MethodGet)

	v1 := router.PathPrefix("/api/v1").Subrouter()
	v1.Use(func(next http.Handler) http.Handler { return basicAuth(s.auth, next) })

	v1.HandleFunc("/metrics", s.handleComputeLedger).Methods(http.MethodPost)

	u := v1.PathPrefix("/users/{user}").Subrouter()
	u.HandleFunc("/datasets", s.handleListDatasets).Methods(http.MethodGet)
	u.HandleFunc("/datasets/{dataset}", s.handleGetDataset).Methods(http.MethodGet)
	u.HandleFunc("/datasets/{dataset}", s.handleDeleteDataset).Methods(http.MethodDelete)
	u.HandleFunc("/datasets/{dataset}/trades", s.handleListTrades).Methods(http.MethodGet)
	u.HandleFunc("/datasets/{dataset}/metrics", s.handleDatasetMetrics).Methods(http.MethodGet)
	u.HandleFunc("/datasets/{dataset}/ledger", s.handleImportLedger).Methods(http.MethodPost)
	u.HandleFunc("/trades/{id}", s.handleGetTrade).Methods(http.MethodGet)

	return router
}

// Handler returns the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Metrics returns the server's collectors.
func (s *Server) Metrics() *Metrics {
	return s.metrics
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, cfg config.ServerConfig) error {
	readTimeout, err := config.ParseDuration(cfg.ReadTimeout, 15*time.Second)
	if err != nil {
		return fmt.Errorf("read timeout: %w", err)
	}
	writeTimeout, err := config.ParseDuration(cfg.WriteTimeout, 30*time.Second)
	if err != nil {
		return fmt.Errorf("write timeout: %w", err)
	}

	srv := &http.Server{
		Addr:              cfg.Listen,
		Handler:           s.router,
		ReadTimeout:       readTimeout,
		ReadHeaderTimeout: readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       2 * writeTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", zap.String("addr", cfg.Listen), zap.Bool("auth", s.auth.Enabled()))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
