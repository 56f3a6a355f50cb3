// Package visualizer implements the depth-fusion consumer: it aligns
// color and depth to a common resolution, fuses them into one display
// image, synthesizes dense depth from the point cloud when no depth
// buffer arrived, and optionally records a false-colored depth sequence.
package visualizer

import (
	"log/slog"
	"time"

	"github.com/piyush-malaviya/4dvideo/internal/appstate"
	"github.com/piyush-malaviya/4dvideo/internal/cancellation"
	"github.com/piyush-malaviya/4dvideo/internal/consumer"
	"github.com/piyush-malaviya/4dvideo/internal/display"
	"github.com/piyush-malaviya/4dvideo/internal/frame"
	"github.com/piyush-malaviya/4dvideo/internal/framequeue"
	"github.com/piyush-malaviya/4dvideo/internal/geometry"
	"github.com/piyush-malaviya/4dvideo/internal/metrics"
)

const (
	// eventPollInterval bounds each key poll; input events are serviced
	// once per loop iteration.
	eventPollInterval = 15 * time.Millisecond

	// fetchTimeout bounds each queue fetch so event servicing keeps
	// running while no frames flow (before capturing starts).
	fetchTimeout = 100 * time.Millisecond
)

// Visualizer is a consumer specialization. The display surface may only
// be driven from the goroutine that runs the loop, so the overridden Run
// interleaves event servicing and frame processing on one goroutine
// instead of splitting them.
type Visualizer struct {
	*consumer.Consumer

	surface display.Surface
	state   *appstate.State

	colorStream geometry.StreamParams
	depthStream geometry.StreamParams

	// recorder is nil when recording is not configured.
	recorder *Recorder

	// numFrames sequences recorded files. It increments on every
	// Process call whether or not recording is enabled.
	numFrames uint64

	mc     *metrics.Collector
	logger *slog.Logger
}

// New creates the visualizer over its own queue and the surface it owns.
func New(q *framequeue.Queue, token *cancellation.Token, state *appstate.State,
	surface display.Surface, colorStream, depthStream geometry.StreamParams,
	recorder *Recorder, mc *metrics.Collector, logger *slog.Logger,
) *Visualizer {
	v := &Visualizer{
		surface:     surface,
		state:       state,
		colorStream: colorStream,
		depthStream: depthStream,
		recorder:    recorder,
		mc:          mc,
		logger:      logger.With("consumer", "visualizer"),
	}
	v.Consumer = consumer.New("visualizer", q, token, v, mc, logger)
	return v
}

// Run overrides the base consumer loop: each iteration services input
// events, then runs one bounded fetch-and-process step.
func (v *Visualizer) Run() {
	v.logger.Info("visualizer started",
		"color", v.colorStream.String(), "depth", v.depthStream.String())
	defer v.surface.Close()

	for !v.Token.Triggered() {
		v.handleEvents()

		f, ok := v.Queue.GetWithin(fetchTimeout)
		if !ok {
			break
		}
		if f != nil {
			v.Process(f)
			v.mc.FramesProcessed.WithLabelValues(v.ID).Inc()
		}
	}

	v.logger.Info("visualizer stopped", "frames", v.numFrames)
}

func (v *Visualizer) handleEvents() {
	key, ok := v.surface.PollKey(eventPollInterval)
	if !ok {
		return
	}

	switch key {
	case display.KeySpace:
		phase := v.state.Advance()
		v.logger.Info("capture phase advanced", "phase", phase.String())
	case display.KeyEscape:
		v.logger.Info("exiting")
		v.state.Stop()
		v.Token.Trigger()
	}
}

// Process aligns, fuses, displays and optionally records one frame.
// It never fails: shape mismatches are normalized by resizing, and a
// frame with neither dense depth nor cloud points degrades to a pure
// color passthrough.
func (v *Visualizer) Process(f *frame.Frame) {
	// Align to the smaller of the two native stream resolutions; no
	// upsampling-induced false detail.
	w := min(v.colorStream.Width, v.depthStream.Width)
	h := min(v.colorStream.Height, v.depthStream.Height)

	color := frame.ResizeColor(f.Color, w, h)

	var depth *frame.DepthGrid
	if !f.Depth.Empty() {
		depth = frame.ResizeDepth(f.Depth, w, h)
	} else {
		depth = frame.ResizeDepth(synthesizeDepth(f.Cloud, v.depthStream), w, h)
	}

	composite := fuse(color, depth)

	if err := v.surface.Show(composite); err != nil {
		v.logger.Error("display failed", "error", err)
	}

	if v.recorder != nil && v.state.Grabbing() {
		if err := v.recorder.Save(v.numFrames, depth); err != nil {
			v.logger.Error("recording failed", "error", err)
		} else {
			v.mc.FramesRecorded.Inc()
		}
	}

	v.numFrames++
}
