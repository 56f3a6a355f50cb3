// Package display owns the visualizer's output surface and its input
// events.
//
// The surface has thread affinity: Show, PollKey and Close are only ever
// called from the goroutine that owns the visualizer loop. The web
// implementation relays frames to browsers over a websocket and feeds
// key presses back on the same socket.
package display

import (
	"time"

	"github.com/piyush-malaviya/4dvideo/internal/frame"
)

// Key is a user input event relevant to the pipeline.
type Key int

const (
	// KeySpace advances the capture phase.
	KeySpace Key = iota
	// KeyEscape stops capturing and cancels the pipeline.
	KeyEscape
)

// Surface is one named display window.
type Surface interface {
	// Show presents a composite image.
	Show(img *frame.ColorImage) error

	// PollKey waits up to timeout for one key event. Called every
	// visualizer iteration with a short bound (~15ms).
	PollKey(timeout time.Duration) (Key, bool)

	// Close tears the surface down.
	Close() error
}
