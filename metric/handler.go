package metric

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/TRU-Capstone-2026-WheelChock/wheelchoke-system-communication-system/errors"
)

// Server exposes metrics over HTTP in Prometheus format.
type Server struct {
	port     int
	path     string
	server   *http.Server
	registry *prometheus.Registry
	metrics  *Metrics
	mu       sync.Mutex // protects server field
}

// NewServer creates a metrics server with its own Prometheus registry,
// the core data-path metrics, and Go runtime collectors pre-registered.
func NewServer(port int, path string) (*Server, error) {
	if path == "" {
		path = "/metrics"
	}
	if port < 0 || port > 65535 {
		return nil, errors.WrapUnsupportedConfig(
			fmt.Errorf("port %d out of range", port),
			"Server", "NewServer", "port validation")
	}
	if port == 0 {
		port = 9090
	}

	registry := prometheus.NewRegistry()
	metrics := NewMetrics()
	if err := metrics.Register(registry); err != nil {
		return nil, errors.WrapUnsupportedConfig(err, "Server", "NewServer", "core metrics registration")
	}
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &Server{
		port:     port,
		path:     path,
		registry: registry,
		metrics:  metrics,
	}, nil
}

// Metrics returns the core data-path metrics registered with this server.
func (s *Server) Metrics() *Metrics {
	return s.metrics
}

// Start starts the metrics HTTP server.
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.server != nil {
		return errors.WrapLifecycle(
			fmt.Errorf("server already running"),
			"Server", "Start", "running state check")
	}

	mux := http.NewServeMux()
	mux.Handle(s.path, promhttp.HandlerFor(
		s.registry,
		promhttp.HandlerOpts{EnableOpenMetrics: true},
	))
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Metrics server error", "error", err, "address", s.Address())
		}
	}()

	return nil
}

// Stop gracefully shuts down the metrics HTTP server.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.server == nil {
		return nil
	}

	err := s.server.Shutdown(ctx)
	s.server = nil
	return err
}

// Address returns the listen address of the server.
func (s *Server) Address() string {
	return fmt.Sprintf(":%d", s.port)
}
