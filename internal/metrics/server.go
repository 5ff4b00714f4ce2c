package metrics

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// Server serves /metrics and /healthz, and optionally mounts an extra
// handler (the operational monitor's websocket endpoint) at /monitor.
type Server struct {
	address string
	port    int
	metrics *Metrics
	monitor http.Handler
	logger  zerolog.Logger
	server  *http.Server
}

// NewServer builds a status server for metrics, bound to address:port.
// monitor may be nil to omit the /monitor route.
func NewServer(address string, port int, metrics *Metrics, monitor http.Handler, logger zerolog.Logger) *Server {
	return &Server{address: address, port: port, metrics: metrics, monitor: monitor, logger: logger}
}

// Start builds the router and serves until ctx is canceled or Shutdown is
// called; it blocks for the lifetime of the listener.
func (s *Server) Start(ctx context.Context) error {
	r := chi.NewRouter()
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.HandlerFor(s.metrics.Registry(), promhttp.HandlerOpts{}))
	if s.monitor != nil {
		r.Handle("/monitor", s.monitor)
	}

	s.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", s.address, s.port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	s.logger.Info().Str("address", s.address).Int("port", s.port).Msg("metrics: listening")
	err := s.server.ListenAndServe()
	if err != nil && ctx.Err() != nil {
		return nil
	}
	return err
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}
