package observability

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"intervue/internal/config"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/sdk/metric"
)

// PrometheusConfig holds the scrape endpoint settings
type PrometheusConfig struct {
	Enabled  bool
	Endpoint string
	Port     string
}

// NewPrometheusExporter builds the otel Prometheus reader together with
// a mux exposing the scrape endpoint. Returns nils when disabled. The
// promhttp handler serves the default registry, which is where the otel
// exporter registers its collectors.
func NewPrometheusExporter(cfg PrometheusConfig) (metric.Reader, *http.ServeMux, error) {
	if !cfg.Enabled {
		return nil, nil, nil
	}

	exporter, err := prometheus.New()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create Prometheus exporter: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle(cfg.Endpoint, promhttp.Handler())

	return exporter, mux, nil
}

// ServeMetrics runs a dedicated HTTP server for the scrape endpoint in
// the background. A nil mux means Prometheus is disabled and nothing
// is started.
func ServeMetrics(mux *http.ServeMux, port string) {
	if mux == nil {
		return
	}

	addr := ":" + port
	slog.Info("Starting Prometheus metrics server", "addr", addr)

	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Prometheus metrics server stopped", "error", err)
		}
	}()
}

// GetPrometheusConfig extracts the scrape settings from the app config,
// falling back to the defaults when none is provided.
func GetPrometheusConfig(cfg *config.Config) PrometheusConfig {
	if cfg == nil {
		return PrometheusConfig{
			Enabled:  true,
			Endpoint: "/metrics",
			Port:     "9090",
		}
	}
	return PrometheusConfig{
		Enabled:  cfg.Observability.Prometheus.Enabled,
		Endpoint: cfg.Observability.Prometheus.Endpoint,
		Port:     cfg.Observability.Prometheus.Port,
	}
}
