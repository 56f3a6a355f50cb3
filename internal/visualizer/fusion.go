package visualizer

import (
	"math"

	"github.com/golang/geo/r3"

	"github.com/piyush-malaviya/4dvideo/internal/frame"
	"github.com/piyush-malaviya/4dvideo/internal/geometry"
)

// Fusion overlay constants: surfaces between minDistMm and maxDistMm
// (open interval) get a green boost that fades linearly with distance.
const (
	maxColorBoost = 40.0
	maxDistMm     = 6000.0
	minDistMm     = 300.0
)

// fuse composites the aligned color and depth grids into one image:
// every pixel starts as the color value; in-range depth boosts the green
// channel by round(maxColorBoost − d·maxColorBoost/maxDistMm), clamped
// to 255. Depth 0 ("unknown") and out-of-range values leave the pixel
// untouched.
//
// Both inputs must already share the same dimensions.
func fuse(color *frame.ColorImage, depth *frame.DepthGrid) *frame.ColorImage {
	out := frame.NewColorImage(depth.W, depth.H)
	copy(out.Pix, color.Pix)

	for i, d := range depth.Pix {
		if d <= minDistMm || d >= maxDistMm {
			continue
		}
		boost := int(math.Round(maxColorBoost - float64(d)*maxColorBoost/maxDistMm))
		g := int(out.Pix[i*3+1]) + boost
		if g > 255 {
			g = 255
		}
		out.Pix[i*3+1] = byte(g)
	}
	return out
}

// synthesizeDepth builds a dense depth grid at the depth stream's native
// resolution from a sparse point cloud: each point that projects into
// the frame writes its quantized distance at the projected pixel, last
// write wins on collision. Unwritten pixels stay 0 ("unknown").
func synthesizeDepth(cloud []r3.Vector, params geometry.StreamParams) *frame.DepthGrid {
	grid := frame.NewDepthGrid(params.Width, params.Height)
	for _, p := range cloud {
		if row, col, mm, ok := geometry.Project(p, params); ok {
			grid.Set(row, col, mm)
		}
	}
	return grid
}
