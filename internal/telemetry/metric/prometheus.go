package metric

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/yndnr/kvwire-go/internal/infra/buildinfo"
	"github.com/yndnr/kvwire-go/pkg/client"
)

const namespace = "kvwire"

// Command outcomes.
const (
	OutcomeOK          = "ok"
	OutcomeServerError = "server_error"
	OutcomeError       = "error"
)

// Registry holds all client metrics. It implements client.Observer.
type Registry struct {
	registry *prometheus.Registry

	CommandsTotal   *prometheus.CounterVec
	CommandDuration *prometheus.HistogramVec
	SentBytes       prometheus.Counter
	ReceivedBytes   prometheus.Counter
	BuildInfo       *prometheus.GaugeVec
}

var _ client.Observer = (*Registry)(nil)

var (
	globalOnce     sync.Once
	globalRegistry *Registry
)

// NewRegistry creates a new metrics registry with Go runtime and process
// collectors.
func NewRegistry() *Registry {
	r := &Registry{
		registry: prometheus.NewRegistry(),
		CommandsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "client",
				Name:      "commands_total",
				Help:      "Commands sent, by command and outcome.",
			},
			[]string{"command", "outcome"},
		),
		CommandDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "client",
				Name:      "command_duration_seconds",
				Help:      "Time from request write to decoded reply.",
				Buckets:   []float64{.0001, .00025, .0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"command"},
		),
		SentBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "client",
			Name:      "sent_bytes_total",
			Help:      "Request bytes written.",
		}),
		ReceivedBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "client",
			Name:      "received_bytes_total",
			Help:      "Reply bytes read.",
		}),
		BuildInfo: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "build_info",
				Help:      "Build information; the value is always 1.",
			},
			[]string{"version", "commit", "go_version"},
		),
	}

	r.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.CommandsTotal,
		r.CommandDuration,
		r.SentBytes,
		r.ReceivedBytes,
		r.BuildInfo,
	)

	info := buildinfo.Get()
	r.BuildInfo.WithLabelValues(info.Version, info.Commit, info.GoVersion).Set(1)

	return r
}

// Global returns the process-wide registry.
func Global() *Registry {
	globalOnce.Do(func() {
		globalRegistry = NewRegistry()
	})
	return globalRegistry
}

// Handler returns the HTTP handler of the global registry.
func Handler() http.Handler {
	return Global().Handler()
}

// Handler returns an HTTP handler exposing this registry.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// Register adds a collector to the registry.
func (r *Registry) Register(c prometheus.Collector) error {
	return r.registry.Register(c)
}

// Gatherer exposes the registry for tests and push gateways.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.registry
}

// Sent implements client.Observer.
func (r *Registry) Sent(e client.Event) {
	if e.Err != nil {
		r.CommandsTotal.WithLabelValues(e.Command, OutcomeError).Inc()
		return
	}
	r.SentBytes.Add(float64(len(e.Payload)))
}

// Received implements client.Observer.
func (r *Registry) Received(e client.Event) {
	r.ReceivedBytes.Add(float64(len(e.Payload)))

	outcome := OutcomeOK
	switch {
	case e.Err != nil:
		outcome = OutcomeError
	case e.Reply.IsError():
		outcome = OutcomeServerError
	}
	r.CommandsTotal.WithLabelValues(e.Command, outcome).Inc()
	if e.Err == nil {
		r.CommandDuration.WithLabelValues(e.Command).Observe(e.Elapsed.Seconds())
	}
}

// Serve exposes /metrics on ln until ctx is done.
func (r *Registry) Serve(ctx context.Context, ln net.Listener) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", r.Handler())

	srv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	stop := context.AfterFunc(ctx, func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	})
	defer stop()

	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
