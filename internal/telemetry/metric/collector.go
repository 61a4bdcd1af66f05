package metric

import (
	"github.com/prometheus/client_golang/prometheus"
)

// ConnectionCollector reports whether a client connection is usable.
// The value is read at scrape time.
type ConnectionCollector struct {
	healthy func() bool
	desc    *prometheus.Desc
}

// NewConnectionCollector creates a collector for the connection to server.
// healthy is typically (*client.Client).Healthy.
func NewConnectionCollector(server string, healthy func() bool) *ConnectionCollector {
	return &ConnectionCollector{
		healthy: healthy,
		desc: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "client", "connection_up"),
			"Whether the store connection can run commands (1) or is closed or broken (0).",
			nil,
			prometheus.Labels{"server": server},
		),
	}
}

// Describe implements prometheus.Collector.
func (c *ConnectionCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.desc
}

// Collect implements prometheus.Collector.
func (c *ConnectionCollector) Collect(ch chan<- prometheus.Metric) {
	var v float64
	if c.healthy() {
		v = 1
	}
	ch <- prometheus.MustNewConstMetric(c.desc, prometheus.GaugeValue, v)
}
