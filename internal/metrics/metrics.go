// Package metrics exposes Prometheus metrics for player assignment.
//
// All methods are safe on a nil *Metrics, which records nothing.
package metrics

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/romyengine/romy/input"
)

const namespace = "romy"

// Metrics owns a private registry so only romy metrics are exported.
type Metrics struct {
	registry *prometheus.Registry

	requests *prometheus.CounterVec
	slots    *prometheus.CounterVec
	dropped  prometheus.Counter
	passes   prometheus.Histogram
	streams  prometheus.Gauge
}

// New registers every metric on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	auto := promauto.With(reg)
	return &Metrics{
		registry: reg,
		requests: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "assign",
			Name:      "requests_total",
			Help:      "Number of pools assigned to players, by API route",
		}, []string{"route"}),
		slots: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "assign",
			Name:      "slots_total",
			Help:      "Player slots produced by assignment, by whether a device was found",
		}, []string{"state"}),
		dropped: auto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "assign",
			Name:      "devices_dropped_total",
			Help:      "Devices no player could accept",
		}),
		passes: auto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "assign",
			Name:      "passes",
			Help:      "Split passes that claimed at least one device",
			Buckets:   []float64{0, 1, 2, 3, 4, 6, 8, 12, 16},
		}),
		streams: auto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "stream",
			Name:      "sessions",
			Help:      "Open streaming sessions",
		}),
	}
}

// ObserveAssign records one assignment made on behalf of route.
func (m *Metrics) ObserveAssign(route string, a input.Assignment, tr input.Trace) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(route).Inc()
	assigned := 0
	for _, d := range a {
		if d != nil {
			assigned++
		}
	}
	m.slots.WithLabelValues("assigned").Add(float64(assigned))
	m.slots.WithLabelValues("unassigned").Add(float64(len(a) - assigned))
	m.dropped.Add(float64(tr.Dropped))
	m.passes.Observe(float64(tr.Passes))
}

func (m *Metrics) StreamOpened() {
	if m != nil {
		m.streams.Inc()
	}
}

func (m *Metrics) StreamClosed() {
	if m != nil {
		m.streams.Dec()
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is done.
func (m *Metrics) Serve(ctx context.Context, addr string, logger *slog.Logger) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return m.serve(ctx, ln, logger)
}

func (m *Metrics) serve(ctx context.Context, ln net.Listener, logger *slog.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()
	logger.Info("Metrics listening", "addr", ln.Addr().String())

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)
		<-errCh
		return err
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// Config selects where metrics are served.
type Config struct {
	Addr string `help:"Listen address of the Prometheus /metrics endpoint; empty disables it" env:"ROMY_METRICS_ADDR"`
}
