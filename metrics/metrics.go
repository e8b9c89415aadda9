// Package metrics exposes Prometheus instrumentation for the sink engine.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/viper"
)

const vAddress = "metrics.address"

func init() {
	viper.BindEnv(vAddress)
	viper.SetDefault(vAddress, "")
}

// Returns the configured metrics listen address, empty when disabled
func Address() string {
	return viper.GetString(vAddress)
}

// Metrics contains the sink Prometheus metrics. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	RenderedBytes   prometheus.Counter
	FramesSent      *prometheus.CounterVec
	BytesSent       prometheus.Counter
	SendFailures    prometheus.Counter
	ConnectAttempts prometheus.Counter
	ConnectFailures prometheus.Counter
	Rewinds         prometheus.Counter
	RewoundBytes    prometheus.Counter
	Latency         prometheus.Gauge
}

// New creates the sink metrics registered with reg
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		RenderedBytes: f.NewCounter(prometheus.CounterOpts{
			Name: "xrdpsink_rendered_bytes_total",
			Help: "Total number of audio bytes rendered from the host",
		}),
		FramesSent: f.NewCounterVec(prometheus.CounterOpts{
			Name: "xrdpsink_frames_sent_total",
			Help: "Total number of frames written to the consumer socket",
		}, []string{"code"}),
		BytesSent: f.NewCounter(prometheus.CounterOpts{
			Name: "xrdpsink_payload_bytes_sent_total",
			Help: "Total number of audio payload bytes delivered to the consumer",
		}),
		SendFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "xrdpsink_send_failures_total",
			Help: "Total number of frame writes that invalidated the connection",
		}),
		ConnectAttempts: f.NewCounter(prometheus.CounterOpts{
			Name: "xrdpsink_connect_attempts_total",
			Help: "Total number of consumer connect attempts",
		}),
		ConnectFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "xrdpsink_connect_failures_total",
			Help: "Total number of failed consumer connect attempts",
		}),
		Rewinds: f.NewCounter(prometheus.CounterOpts{
			Name: "xrdpsink_rewinds_total",
			Help: "Total number of accepted host rewinds",
		}),
		RewoundBytes: f.NewCounter(prometheus.CounterOpts{
			Name: "xrdpsink_rewound_bytes_total",
			Help: "Total number of bytes discarded by rewinds",
		}),
		Latency: f.NewGauge(prometheus.GaugeOpts{
			Name: "xrdpsink_latency_seconds",
			Help: "Audio produced ahead of real time at the last latency query",
		}),
	}
}

// Returns an HTTP handler serving the metrics gathered by g
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

// RecordRender records rendered bytes
func (m *Metrics) RecordRender(n int) {
	if m == nil {
		return
	}
	m.RenderedBytes.Add(float64(n))
}

// RecordFrame records a frame written in full
func (m *Metrics) RecordFrame(code string, payload int) {
	if m == nil {
		return
	}
	m.FramesSent.WithLabelValues(code).Inc()
	m.BytesSent.Add(float64(payload))
}

// RecordSendFailure records a failed frame write
func (m *Metrics) RecordSendFailure() {
	if m == nil {
		return
	}
	m.SendFailures.Inc()
}

// RecordConnect records a connect attempt and its outcome
func (m *Metrics) RecordConnect(ok bool) {
	if m == nil {
		return
	}
	m.ConnectAttempts.Inc()
	if !ok {
		m.ConnectFailures.Inc()
	}
}

// RecordRewind records an accepted rewind
func (m *Metrics) RecordRewind(n int) {
	if m == nil {
		return
	}
	m.Rewinds.Inc()
	m.RewoundBytes.Add(float64(n))
}

// SetLatency records the latency reported to the host
func (m *Metrics) SetLatency(usec uint64) {
	if m == nil {
		return
	}
	m.Latency.Set(float64(usec) / 1e6)
}
