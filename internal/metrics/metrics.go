// Package metrics exposes pipeline counters to Prometheus. The viewer
// HTTP server mounts the /metrics handler.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "fourd"

// Collector groups every pipeline metric. One instance per process,
// registered on the default prometheus registry.
type Collector struct {
	// FramesProduced counts frames assembled and distributed by the grabber.
	FramesProduced prometheus.Counter
	// SamplesSkipped counts transient per-sample failures (missing or
	// inaccessible buffers), labeled by reason.
	SamplesSkipped *prometheus.CounterVec
	// FramesProcessed counts consumer process() calls, labeled by consumer id.
	FramesProcessed *prometheus.CounterVec
	// FramesRecorded counts false-color images written to disk.
	FramesRecorded prometheus.Counter
	// QueueDepth tracks the current depth of each consumer queue.
	QueueDepth *prometheus.GaugeVec
}

// NewCollector registers and returns the pipeline metrics.
func NewCollector() *Collector {
	return &Collector{
		FramesProduced: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_produced_total",
			Help:      "Frames assembled by the grabber and handed to the fan-out set",
		}),
		SamplesSkipped: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "samples_skipped_total",
			Help:      "Sensor samples skipped for transient reasons",
		}, []string{"reason"}),
		FramesProcessed: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_processed_total",
			Help:      "Frames handed to a consumer's processing step",
		}, []string{"consumer"}),
		FramesRecorded: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_recorded_total",
			Help:      "False-color depth images written to disk",
		}),
		QueueDepth: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "queue_depth",
			Help:      "Frames currently waiting in a consumer queue",
		}, []string{"consumer"}),
	}
}

// Nop returns a collector wired to a throwaway registry, for tests that
// construct pipeline components without caring about metrics.
func Nop() *Collector {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Collector{
		FramesProduced: factory.NewCounter(prometheus.CounterOpts{Name: "frames_produced_total"}),
		SamplesSkipped: factory.NewCounterVec(prometheus.CounterOpts{Name: "samples_skipped_total"}, []string{"reason"}),
		FramesProcessed: factory.NewCounterVec(
			prometheus.CounterOpts{Name: "frames_processed_total"}, []string{"consumer"}),
		FramesRecorded: factory.NewCounter(prometheus.CounterOpts{Name: "frames_recorded_total"}),
		QueueDepth:     factory.NewGaugeVec(prometheus.GaugeOpts{Name: "queue_depth"}, []string{"consumer"}),
	}
}
