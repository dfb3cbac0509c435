package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	snapshotsTotal *prometheus.CounterVec
	decodeFailures prometheus.Counter
	reconnects     prometheus.Counter
	connected      prometheus.Gauge
	bankroll       prometheus.Gauge
	oraclePrice    prometheus.Gauge
	latency        *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		snapshotsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "botpull_snapshots_total",
				Help: "Snapshots accepted, labeled by origin (live or synthetic)",
			},
			[]string{"source"},
		),
		decodeFailures: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "botpull_decode_failures_total",
				Help: "Inbound frames dropped as undecodable",
			},
		),
		reconnects: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "botpull_reconnects_total",
				Help: "Reconnect attempts scheduled after a failed or dropped connection",
			},
		),
		connected: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "botpull_feed_connected",
				Help: "1 while the live feed connection is up",
			},
		),
		bankroll: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "botpull_bankroll",
				Help: "Bankroll from the last live snapshot",
			},
		),
		oraclePrice: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "botpull_oracle_price",
				Help: "Oracle consensus price from the last live snapshot",
			},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "botpull_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordSnapshot counts one accepted snapshot by origin.
func (r *Recorder) RecordSnapshot(source string) {
	r.snapshotsTotal.WithLabelValues(source).Inc()
}

// RecordDecodeFailure counts one dropped frame.
func (r *Recorder) RecordDecodeFailure() {
	r.decodeFailures.Inc()
}

// RecordReconnect counts one scheduled reconnect.
func (r *Recorder) RecordReconnect() {
	r.reconnects.Inc()
}

// RecordConnected flips the connectivity gauge.
func (r *Recorder) RecordConnected(up bool) {
	if up {
		r.connected.Set(1)
	} else {
		r.connected.Set(0)
	}
}

// RecordBankroll records the last seen bankroll.
func (r *Recorder) RecordBankroll(v float64) {
	r.bankroll.Set(v)
}

// RecordOraclePrice records the last seen oracle price.
func (r *Recorder) RecordOraclePrice(v float64) {
	r.oraclePrice.Set(v)
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
