// Package sensor defines the capture collaborator surface consumed by
// the grabber, and a synthetic implementation for running the pipeline
// without hardware.
//
// Device enumeration, vendor session negotiation and stream
// configuration happen behind this interface; the pipeline only sees
// samples and the per-stream parameters resolved at startup.
package sensor

import (
	"errors"
	"time"

	"github.com/golang/geo/r3"

	"github.com/piyush-malaviya/4dvideo/internal/frame"
	"github.com/piyush-malaviya/4dvideo/internal/geometry"
)

// ErrStreamEnded is the terminal acquire status: the device stopped
// delivering samples. The grabber ends its loop on any acquire error and
// does not retry.
var ErrStreamEnded = errors.New("sensor stream ended")

// Sensor is one physical RGBD device.
//
// Lifecycle: Start() resolves stream parameters; Acquire() is then
// called in a loop from a single grabber goroutine; Stop() releases the
// device. Acquire blocks up to the given timeout for the next
// synchronized sample.
type Sensor interface {
	Start() error
	Stop() error

	// ColorParams and DepthParams are valid after Start and read-only
	// thereafter.
	ColorParams() geometry.StreamParams
	DepthParams() geometry.StreamParams

	// Acquire returns the next sample, or an error when the stream is
	// over (ErrStreamEnded) or the device failed. A returned sample may
	// still be missing individual buffers; the grabber validates.
	Acquire(timeout time.Duration) (*Sample, error)
}

// Sample is one raw synchronized sensor cycle. Buffers are handles into
// device memory: the grabber acquires read access, wraps the pixels, and
// releases promptly, one buffer at a time.
type Sample struct {
	// Color buffer handle; nil when the device dropped the color plane.
	Color ColorBuffer
	// Depth buffer handle; nil when the device dropped the depth plane.
	Depth DepthBuffer
	// Cloud is the sparse point cloud, present when the device operates
	// in cloud mode instead of (or in addition to) dense depth.
	Cloud []r3.Vector
	// Timestamp is the device capture time.
	Timestamp time.Time
}

// ColorBuffer is a read-access handle to a device color plane.
type ColorBuffer interface {
	// AcquireRead maps the buffer and wraps it as an image without
	// copying when possible. Must be paired with Release.
	AcquireRead() (*frame.ColorImage, error)
	Release()
}

// DepthBuffer is a read-access handle to a device depth plane.
type DepthBuffer interface {
	AcquireRead() (*frame.DepthGrid, error)
	Release()
}
