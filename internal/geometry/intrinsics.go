// Package geometry holds the per-stream camera parameters and the 3D→2D
// projection primitive used for depth synthesis.
package geometry

import (
	"fmt"

	"github.com/golang/geo/r3"
)

// Intrinsics are the pinhole parameters sufficient for a perspective
// projection onto a stream's image plane.
type Intrinsics struct {
	// Fx, Fy are the focal lengths in pixels.
	Fx, Fy float64
	// Ppx, Ppy are the principal point coordinates in pixels.
	Ppx, Ppy float64
}

// StreamParams describe one sensor stream (color or depth): native
// resolution, frame rate, and intrinsic camera parameters. Resolved once
// at startup from the sensor and read-only thereafter.
type StreamParams struct {
	Width  int
	Height int
	FPS    float64

	Intrinsics Intrinsics
}

// CheckValid reports whether the parameters can drive a projection.
func (p StreamParams) CheckValid() error {
	if p.Width <= 0 || p.Height <= 0 {
		return fmt.Errorf("invalid stream size %dx%d", p.Width, p.Height)
	}
	if p.Intrinsics.Fx <= 0 || p.Intrinsics.Fy <= 0 {
		return fmt.Errorf("invalid focal lengths (%g, %g)", p.Intrinsics.Fx, p.Intrinsics.Fy)
	}
	return nil
}

// String renders the resolution, matching the capture-side log format.
func (p StreamParams) String() string {
	return fmt.Sprintf("%dx%d@%g", p.Width, p.Height, p.FPS)
}

// Project maps a 3D point (meters, camera coordinate frame) to a pixel
// on the target stream's image plane and a quantized distance in
// millimeters.
//
// It succeeds only when the point lies in front of the camera (positive
// depth) and its projection falls inside the stream's bounds. Pure
// function, no shared state.
func Project(p r3.Vector, params StreamParams) (row, col int, mm uint16, ok bool) {
	if p.Z <= 0 {
		return 0, 0, 0, false
	}

	in := params.Intrinsics
	col = int((p.X/p.Z)*in.Fx + in.Ppx)
	row = int((p.Y/p.Z)*in.Fy + in.Ppy)

	if row < 0 || row >= params.Height || col < 0 || col >= params.Width {
		return 0, 0, 0, false
	}

	return row, col, uint16(p.Z*1000 + 0.5), true
}
