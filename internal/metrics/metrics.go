package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Gauges
var (
	ActiveRenders = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "tonegen_active_renders",
		Help: "Number of renders currently generating samples",
	})
)

// Counters
var (
	RendersTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tonegen_renders_total",
		Help: "Total renders by outcome",
	}, []string{"outcome"})
	SamplesGeneratedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tonegen_samples_generated_total",
		Help: "Total interleaved PCM samples generated",
	})
	PacketsGeneratedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tonegen_packets_generated_total",
		Help: "Total packets rendered in packetized mode",
	})
	BytesWrittenTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tonegen_wav_bytes_written_total",
		Help: "Total WAV bytes written to files or HTTP responses",
	})
	PlaybackFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tonegen_playback_failures_total",
		Help: "Total post-write playback invocations that failed",
	})
)

// Histograms
var (
	RenderLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "tonegen_render_duration_ms",
		Help:    "Render duration in milliseconds by stage",
		Buckets: []float64{0.1, 0.5, 1, 5, 10, 50, 100, 500, 1000},
	}, []string{"stage"})
)

// Render outcomes.
const (
	OutcomeOK        = "ok"
	OutcomeInvalid   = "invalid"
	OutcomeBuffer    = "buffer"
	OutcomeSinkError = "sink_error"
)

// WriteTextfile dumps the default registry in the text exposition format,
// for node_exporter's textfile collector after a one-shot render.
func WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, prometheus.DefaultGatherer)
}
