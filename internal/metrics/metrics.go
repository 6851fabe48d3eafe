// Package metrics exposes pipeline counters on a private prometheus registry.
package metrics

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "rdf_munge"

// Metrics holds the pipeline collectors.
type Metrics struct {
	registry *prometheus.Registry

	StatementsRead    prometheus.Counter
	StatementsWritten prometheus.Counter
	Normalized        prometheus.Counter
	Entities          prometheus.Counter
	InvalidPoints     *prometheus.CounterVec
	MungeErrors       prometheus.Counter
	MungeDuration     prometheus.Histogram
}

// New creates the collectors and registers them together with the Go runtime
// and process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		StatementsRead: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "statements",
			Name:      "read_total",
			Help:      "Statements decoded from the input dump",
		}),
		StatementsWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "statements",
			Name:      "written_total",
			Help:      "Statements written after munging",
		}),
		Normalized: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "statements",
			Name:      "normalized_total",
			Help:      "Statements changed by IRI or literal normalization",
		}),
		Entities: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "entities",
			Name:      "munged_total",
			Help:      "Entity batches munged",
		}),
		InvalidPoints: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "points",
			Name:      "invalid_total",
			Help:      "WKT literals that failed to parse, by applied policy",
		}, []string{"policy"}),
		MungeErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "entities",
			Name:      "errors_total",
			Help:      "Entity batches rejected by the munger",
		}),
		MungeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "entities",
			Name:      "munge_duration_seconds",
			Help:      "Time spent munging one entity batch",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10),
		}),
	}
	m.registry.MustRegister(
		m.StatementsRead,
		m.StatementsWritten,
		m.Normalized,
		m.Entities,
		m.InvalidPoints,
		m.MungeErrors,
		m.MungeDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is done.
func (m *Metrics) Serve(ctx context.Context, addr string, logger *slog.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("metrics listen %s: %w", addr, err)
	}
	srv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()
	logger.Info("metrics server started", "addr", ln.Addr().String())

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("metrics server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("metrics shutdown: %w", err)
	}
	return nil
}
