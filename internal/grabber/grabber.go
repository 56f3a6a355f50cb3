// Package grabber runs the producer side of the pipeline: a blocking
// acquire loop against the sensor, one frame assembled per cycle, fanned
// out to every registered consumer queue.
package grabber

import (
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/piyush-malaviya/4dvideo/internal/appstate"
	"github.com/piyush-malaviya/4dvideo/internal/cancellation"
	"github.com/piyush-malaviya/4dvideo/internal/frame"
	"github.com/piyush-malaviya/4dvideo/internal/framequeue"
	"github.com/piyush-malaviya/4dvideo/internal/metrics"
	"github.com/piyush-malaviya/4dvideo/internal/sensor"
)

// acquireTimeout bounds each wait for the next synchronized sample.
const acquireTimeout = time.Second

// Grabber turns raw sensor samples into frames and distributes them.
//
// Error policy:
//   - per-sample problems (missing plane, buffer access failure) are
//     logged and skipped; the loop continues.
//   - an acquire error is terminal: the loop ends and is not restarted.
//
// Cancellation: the shared token is consulted at loop-iteration
// boundaries. A blocked acquire is never interrupted; termination
// otherwise relies on the acquire call's own terminal status.
type Grabber struct {
	dev    sensor.Sensor
	queues *framequeue.Set
	state  *appstate.State
	token  *cancellation.Token
	mc     *metrics.Collector
	logger *slog.Logger

	produced atomic.Uint64
	skipped  atomic.Uint64
}

// New creates a grabber over a started sensor.
func New(dev sensor.Sensor, queues *framequeue.Set, state *appstate.State,
	token *cancellation.Token, mc *metrics.Collector, logger *slog.Logger,
) *Grabber {
	return &Grabber{
		dev:    dev,
		queues: queues,
		state:  state,
		token:  token,
		mc:     mc,
		logger: logger.With("component", "grabber"),
	}
}

// Run executes the acquire-and-distribute loop until the sensor reports
// a terminal status or the token is triggered. It closes all consumer
// queues on the way out so blocked consumers wake.
func (g *Grabber) Run() {
	g.logger.Info("grabbing started",
		"color", g.dev.ColorParams().String(),
		"depth", g.dev.DepthParams().String())

	defer g.queues.CloseAll()

	var seq uint64
	for !g.token.Triggered() {
		sample, err := g.dev.Acquire(acquireTimeout)
		if err != nil {
			g.logger.Info("grabbing stopped", "status", err, "frames", g.produced.Load())
			return
		}

		f, ok := g.assemble(sample)
		if !ok {
			continue
		}

		// Keyboard gates when frames flow into the consumers.
		if !g.state.Capturing() {
			continue
		}

		seq++
		f.Seq = seq
		g.queues.Distribute(f)
		g.produced.Add(1)
		g.mc.FramesProduced.Inc()
		for id, qs := range g.queues.Stats().Queues {
			g.mc.QueueDepth.WithLabelValues(id).Set(float64(qs.Depth))
		}
	}

	g.logger.Info("grabbing cancelled", "frames", g.produced.Load())
}

// assemble validates the sample and wraps its buffers as one frame.
// Each buffer's acquire/release is a strictly scoped, non-overlapping
// critical section.
func (g *Grabber) assemble(sample *sensor.Sample) (*frame.Frame, bool) {
	if sample.Color == nil {
		g.skip("color_missing", "color plane is missing")
		return nil, false
	}
	if sample.Depth == nil {
		g.skip("depth_missing", "depth plane is missing")
		return nil, false
	}

	color, err := sample.Color.AcquireRead()
	if err != nil {
		g.skip("color_access", "could not acquire access to color buffer", "error", err)
		return nil, false
	}
	sample.Color.Release()

	depth, err := sample.Depth.AcquireRead()
	if err != nil {
		g.skip("depth_access", "could not acquire access to depth buffer", "error", err)
		return nil, false
	}
	sample.Depth.Release()

	f := frame.New(color, depth)
	f.Cloud = sample.Cloud
	if !sample.Timestamp.IsZero() {
		f.Timestamp = sample.Timestamp
	}
	return f, true
}

func (g *Grabber) skip(reason, msg string, args ...any) {
	g.skipped.Add(1)
	g.mc.SamplesSkipped.WithLabelValues(reason).Inc()
	g.logger.Error(msg, args...)
}

// Stats is a snapshot of the grabber's counters.
type Stats struct {
	// Produced is the number of frames distributed.
	Produced uint64
	// Skipped is the number of samples dropped for transient reasons.
	Skipped uint64
}

// Stats returns a snapshot of the grabber's counters.
func (g *Grabber) Stats() Stats {
	return Stats{Produced: g.produced.Load(), Skipped: g.skipped.Load()}
}
