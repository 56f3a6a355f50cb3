package frame

import (
	"time"

	"github.com/golang/geo/r3"
)

// Frame bundles one synchronized sensor sample.
//
// IMMUTABILITY CONTRACT:
//   - The grabber MUST NOT modify a frame after distributing it.
//   - Consumers MUST NOT modify Color, Depth or Cloud (read-only access).
//   - Enforcement is documentation-based; copies would defeat zero-copy
//     fan-out.
//
// Exactly one of {Depth non-empty, Cloud non-empty} is the source of
// truth for distance per sample. Both may coexist, but consumers only
// synthesize depth from Cloud when Depth is empty.
type Frame struct {
	// Color is the color image as delivered by the sensor.
	Color *ColorImage

	// Depth is the dense depth grid in millimeters; may be empty when the
	// sensor only supplied a point cloud for this sample.
	Depth *DepthGrid

	// Cloud is the sparse 3D point cloud in the depth camera's coordinate
	// frame, in meters. May be empty when dense depth is present.
	Cloud []r3.Vector

	// Seq is a monotonic sequence number assigned by the grabber.
	Seq uint64

	// Timestamp is the sensor capture time, not processing time.
	Timestamp time.Time
}

// New constructs a frame from the two sensor buffers. The frame takes
// shared ownership of the pixel slices; callers must not write to them
// afterwards.
func New(color *ColorImage, depth *DepthGrid) *Frame {
	return &Frame{Color: color, Depth: depth, Timestamp: time.Now()}
}
