package pinlib

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	metricsRequestsDesc = prometheus.NewDesc(
		"pinmap_collaborator_requests_total",
		"Requests to remote collaborators.",
		[]string{"collaborator", "result"}, nil)
	metricsLastUsedDesc = prometheus.NewDesc(
		"pinmap_collaborator_last_used_timestamp_seconds",
		"When collaborator was used last time.",
		[]string{"collaborator"}, nil)
	metricsSessionsDesc = prometheus.NewDesc(
		"pinmap_sessions",
		"Number of live sessions.",
		nil, nil)
)

type metricsCollector struct {
	pinmap *Pinmap
}

func (m metricsCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- metricsRequestsDesc
	ch <- metricsLastUsedDesc
	ch <- metricsSessionsDesc
}

func (m metricsCollector) Collect(ch chan<- prometheus.Metric) {
	for _, v := range m.pinmap.UsageStats() {
		success, failure, lastUsed := v.Snapshot()

		ch <- prometheus.MustNewConstMetric(metricsRequestsDesc,
			prometheus.CounterValue, float64(success), v.Name, "success")
		ch <- prometheus.MustNewConstMetric(metricsRequestsDesc,
			prometheus.CounterValue, float64(failure), v.Name, "failure")

		if !lastUsed.IsZero() {
			ch <- prometheus.MustNewConstMetric(metricsLastUsedDesc,
				prometheus.GaugeValue, float64(lastUsed.Unix()), v.Name)
		}
	}

	ch <- prometheus.MustNewConstMetric(metricsSessionsDesc,
		prometheus.GaugeValue, float64(m.pinmap.sessions.Len()))
}

// NewMetricsCollector returns a prometheus collector which exposes usage
// stats of collaborators and a number of sessions.
func NewMetricsCollector(pinmap *Pinmap) prometheus.Collector {
	return metricsCollector{pinmap: pinmap}
}
