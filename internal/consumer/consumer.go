// Package consumer provides the cooperative fetch-and-process loop every
// frame consumer runs, and a simple logging processor used as a
// secondary consumer.
package consumer

import (
	"log/slog"

	"github.com/piyush-malaviya/4dvideo/internal/cancellation"
	"github.com/piyush-malaviya/4dvideo/internal/frame"
	"github.com/piyush-malaviya/4dvideo/internal/framequeue"
	"github.com/piyush-malaviya/4dvideo/internal/metrics"
)

// Processor is one consumer's processing step. Process is called from
// the consumer's own goroutine, one frame at a time, and must treat the
// frame as read-only.
type Processor interface {
	Process(f *frame.Frame)
}

// Consumer runs the base loop: block-fetch one frame from its own queue,
// hand it to the processor, check the shared cancellation token, repeat.
//
// Cancellation is cooperative: it is observed once per iteration, never
// preemptively. An in-flight Process call always completes.
type Consumer struct {
	ID    string
	Queue *framequeue.Queue
	Token *cancellation.Token

	proc   Processor
	mc     *metrics.Collector
	logger *slog.Logger
}

// New creates a consumer over its own queue.
func New(id string, q *framequeue.Queue, token *cancellation.Token,
	proc Processor, mc *metrics.Collector, logger *slog.Logger,
) *Consumer {
	return &Consumer{
		ID:     id,
		Queue:  q,
		Token:  token,
		proc:   proc,
		mc:     mc,
		logger: logger.With("consumer", id),
	}
}

// Run executes the loop until the token triggers or the queue closes.
// Specializations that must interleave extra work (event servicing)
// implement their own run loop around LoopBody instead.
func (c *Consumer) Run() {
	c.logger.Info("consumer started")
	for !c.Token.Triggered() {
		if !c.LoopBody() {
			break
		}
	}
	c.logger.Info("consumer stopped")
}

// LoopBody fetches one frame and processes it. Returns false when the
// queue has closed and the loop should end.
func (c *Consumer) LoopBody() bool {
	f, ok := c.Queue.Get()
	if !ok {
		return false
	}
	if f != nil {
		c.proc.Process(f)
		c.mc.FramesProcessed.WithLabelValues(c.ID).Inc()
	}
	return true
}

// LogProcessor logs each frame's shape; it exists to demonstrate and
// exercise multi-way fan-out next to the visualizer.
type LogProcessor struct {
	Logger *slog.Logger
}

// Process implements Processor.
func (p *LogProcessor) Process(f *frame.Frame) {
	p.Logger.Debug("frame observed",
		"seq", f.Seq,
		"color_w", f.Color.W, "color_h", f.Color.H,
		"dense_depth", !f.Depth.Empty(),
		"cloud_points", len(f.Cloud))
}
