package observability

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/itech-ahb/astmframe/pkg/interpret"
)

var (
	registerOnce sync.Once

	framesChunked = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "astmframe",
			Name:      "frames_chunked_total",
			Help:      "Frames produced by chunking outbound messages.",
		},
		[]string{"source"},
	)
	recordsReassembled = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "astmframe",
			Name:      "records_reassembled_total",
			Help:      "Records closed by reassembling inbound frames.",
		},
		[]string{"source"},
	)
	reassemblyFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "astmframe",
			Name:      "reassembly_failures_total",
			Help:      "Frame sequences rejected with a frame parsing error.",
		},
		[]string{"source"},
	)
	incompleteMessages = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "astmframe",
			Name:      "incomplete_messages_total",
			Help:      "Frame sequences that ended without a message terminator.",
		},
		[]string{"source"},
	)
)

// RegisterMetrics registers the collectors with the default registry once.
func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(framesChunked, recordsReassembled, reassemblyFailures, incompleteMessages)
	})
}

// Handler serves the default registry.
func Handler() http.Handler {
	RegisterMetrics()
	return promhttp.Handler()
}

// Observer reports interpreter activity as prometheus counters, labelled
// with the source that drove it (e.g. "cli", "spool").
type Observer struct {
	source string
}

// NewObserver returns an Observer for the given source label.
func NewObserver(source string) *Observer {
	RegisterMetrics()
	return &Observer{source: source}
}

// FramesChunked adds n to the chunked frame counter.
func (o *Observer) FramesChunked(n int) {
	framesChunked.WithLabelValues(o.source).Add(float64(n))
}

// RecordsReassembled adds n to the reassembled record counter.
func (o *Observer) RecordsReassembled(n int) {
	recordsReassembled.WithLabelValues(o.source).Add(float64(n))
}

// ReassemblyFailed counts one rejected frame sequence.
func (o *Observer) ReassemblyFailed() {
	reassemblyFailures.WithLabelValues(o.source).Inc()
}

// IncompleteMessage counts one frame sequence without a terminator.
func (o *Observer) IncompleteMessage() {
	incompleteMessages.WithLabelValues(o.source).Inc()
}

var _ interpret.Observer = (*Observer)(nil)
