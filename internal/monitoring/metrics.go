package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Fetch outcomes
const (
	OutcomeSuccess    = "success"
	OutcomeFetchError = "fetch_error"
	OutcomeParseError = "parse_error"
	OutcomeQueryError = "query_error"
)

// Metrics holds resolution metrics.
type Metrics struct {
	FetchTotal    *prometheus.CounterVec
	FetchDuration *prometheus.HistogramVec
	Records       *prometheus.GaugeVec
	Resets        *prometheus.CounterVec
}

// NewMetrics registers the metrics on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		FetchTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "webschema_fetch_total",
				Help: "Total number of document resolutions by outcome",
			},
			[]string{"schema", "outcome"},
		),
		FetchDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "webschema_fetch_duration_seconds",
				Help:    "Time to fetch, parse and partition a document",
				Buckets: []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			},
			[]string{"schema"},
		),
		Records: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "webschema_records",
				Help: "Number of records currently cached",
			},
			[]string{"schema"},
		),
		Resets: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "webschema_resets_total",
				Help: "Total number of cache resets",
			},
			[]string{"schema"},
		),
	}
}

// RecordResolution records one resolution attempt.
func (m *Metrics) RecordResolution(schema, outcome string, duration time.Duration, records int) {
	if m == nil {
		return
	}
	m.FetchTotal.WithLabelValues(schema, outcome).Inc()
	m.FetchDuration.WithLabelValues(schema).Observe(duration.Seconds())
	if outcome == OutcomeSuccess {
		m.Records.WithLabelValues(schema).Set(float64(records))
	}
}

// RecordReset records a cache reset.
func (m *Metrics) RecordReset(schema string) {
	if m == nil {
		return
	}
	m.Resets.WithLabelValues(schema).Inc()
	m.Records.WithLabelValues(schema).Set(0)
}
