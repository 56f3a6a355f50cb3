package visualizer

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"sync/atomic"

	"golang.org/x/image/bmp"

	"github.com/piyush-malaviya/4dvideo/internal/frame"
)

// False-color range: distances are clamped into [recordMinMm,
// recordMaxMm] and interpolated between nearColor (red) and farColor
// (blue). Depth 0 stays black.
const (
	recordMinMm = 800
	recordMaxMm = 2500
)

var (
	nearColor = [3]float64{255, 0, 0}
	farColor  = [3]float64{0, 0, 255}
)

// Recorder writes a false-colored depth sequence as sequentially
// numbered image files: <8-digit zero-padded index>_frame.<ext>.
type Recorder struct {
	dir     string
	format  string
	quality int

	saved  atomic.Uint64
	failed atomic.Uint64
}

// NewRecorder creates the output directory and validates the format
// ("png", "jpeg" or "bmp"). Quality applies to jpeg only.
func NewRecorder(dir, format string, quality int) (*Recorder, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	switch format {
	case "png", "jpeg", "bmp":
	default:
		return nil, fmt.Errorf("unsupported format: %s (must be png, jpeg or bmp)", format)
	}
	return &Recorder{dir: dir, format: format, quality: quality}, nil
}

// Save false-colors the aligned depth grid and writes it under the given
// frame index.
func (r *Recorder) Save(index uint64, depth *frame.DepthGrid) error {
	pretty := falseColor(depth)
	// Output scale factor is fixed at 1, so this resize is the
	// identity pass-through.
	pretty = frame.ResizeColor(pretty, depth.W, depth.H)

	name := fmt.Sprintf("%08d_frame.%s", index, r.format)
	file, err := os.Create(filepath.Join(r.dir, name))
	if err != nil {
		r.failed.Add(1)
		return fmt.Errorf("failed to create %s: %w", name, err)
	}
	defer file.Close()

	img := toRGBA(pretty)
	switch r.format {
	case "png":
		err = png.Encode(file, img)
	case "jpeg":
		err = jpeg.Encode(file, img, &jpeg.Options{Quality: r.quality})
	case "bmp":
		err = bmp.Encode(file, img)
	}
	if err != nil {
		r.failed.Add(1)
		return fmt.Errorf("%s encode failed: %w", r.format, err)
	}

	r.saved.Add(1)
	return nil
}

// Stats returns the lifetime saved/failed counts.
func (r *Recorder) Stats() (saved, failed uint64) {
	return r.saved.Load(), r.failed.Load()
}

// toRGBA adapts the raw RGB image to the stdlib type the encoders take,
// adding an opaque alpha channel.
func toRGBA(img *frame.ColorImage) *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, img.W, img.H))
	for i := 0; i < img.W*img.H; i++ {
		out.Pix[i*4+0] = img.Pix[i*3+0]
		out.Pix[i*4+1] = img.Pix[i*3+1]
		out.Pix[i*4+2] = img.Pix[i*3+2]
		out.Pix[i*4+3] = 255
	}
	return out
}

// falseColor maps each depth value onto the near→far gradient. Unknown
// (zero) pixels stay black.
func falseColor(depth *frame.DepthGrid) *frame.ColorImage {
	out := frame.NewColorImage(depth.W, depth.H)
	const span = float64(recordMaxMm - recordMinMm)

	for i, d := range depth.Pix {
		if d == 0 {
			continue
		}
		if d < recordMinMm {
			d = recordMinMm
		}
		if d > recordMaxMm {
			d = recordMaxMm
		}
		t := float64(d-recordMinMm) / span
		out.Pix[i*3+0] = byte((1-t)*nearColor[0] + t*farColor[0])
		out.Pix[i*3+1] = byte((1-t)*nearColor[1] + t*farColor[1])
		out.Pix[i*3+2] = byte((1-t)*nearColor[2] + t*farColor[2])
	}
	return out
}
