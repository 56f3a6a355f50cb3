package sensor

import (
	"fmt"
	"math"
	"time"

	"github.com/golang/geo/r3"

	"github.com/piyush-malaviya/4dvideo/internal/frame"
	"github.com/piyush-malaviya/4dvideo/internal/geometry"
)

// SimMode selects which distance source the simulated device emits.
type SimMode int

const (
	// SimDense emits a dense depth buffer per sample.
	SimDense SimMode = iota
	// SimCloud emits a sparse point cloud and no depth buffer,
	// exercising the consumer-side depth synthesis path.
	SimCloud
)

// SimConfig configures the synthetic RGBD device.
type SimConfig struct {
	Color geometry.StreamParams
	Depth geometry.StreamParams
	Mode  SimMode

	// MaxFrames, when positive, bounds the stream; Acquire returns
	// ErrStreamEnded afterwards. Zero means unbounded.
	MaxFrames int

	// CloudPoints is the number of points emitted per sample in cloud
	// mode (default 512).
	CloudPoints int
}

// Sim is a synthetic RGBD sensor: an animated color gradient plus a
// sweeping depth ramp, paced at the configured depth-stream FPS. It
// exists so the whole pipeline runs and can be demoed without a device.
type Sim struct {
	cfg     SimConfig
	started bool
	count   int
	last    time.Time
}

// NewSim creates a simulated sensor.
func NewSim(cfg SimConfig) *Sim {
	if cfg.CloudPoints == 0 {
		cfg.CloudPoints = 512
	}
	return &Sim{cfg: cfg}
}

// Start validates the configured stream parameters.
func (s *Sim) Start() error {
	if err := s.cfg.Color.CheckValid(); err != nil {
		return fmt.Errorf("color stream: %w", err)
	}
	if err := s.cfg.Depth.CheckValid(); err != nil {
		return fmt.Errorf("depth stream: %w", err)
	}
	s.started = true
	return nil
}

// Stop releases nothing; it exists to satisfy the device lifecycle.
func (s *Sim) Stop() error {
	s.started = false
	return nil
}

// ColorParams implements Sensor.
func (s *Sim) ColorParams() geometry.StreamParams { return s.cfg.Color }

// DepthParams implements Sensor.
func (s *Sim) DepthParams() geometry.StreamParams { return s.cfg.Depth }

// Acquire synthesizes the next sample, pacing to the depth stream FPS.
func (s *Sim) Acquire(timeout time.Duration) (*Sample, error) {
	if !s.started {
		return nil, fmt.Errorf("sensor not started")
	}
	if s.cfg.MaxFrames > 0 && s.count >= s.cfg.MaxFrames {
		return nil, ErrStreamEnded
	}

	s.pace()
	n := s.count
	s.count++

	sample := &Sample{
		Color:     &simColorBuffer{params: s.cfg.Color, tick: n},
		Timestamp: time.Now(),
	}

	switch s.cfg.Mode {
	case SimCloud:
		sample.Cloud = s.makeCloud(n)
		// A cloud sample still carries an empty depth plane so the
		// grabber's presence check passes; consumers see Empty() depth.
		sample.Depth = &simDepthBuffer{empty: true}
	default:
		sample.Depth = &simDepthBuffer{params: s.cfg.Depth, tick: n}
	}

	return sample, nil
}

// pace sleeps the remainder of the frame interval. The acquire timeout
// is an upper bound; the sim always produces well inside it.
func (s *Sim) pace() {
	fps := s.cfg.Depth.FPS
	if fps <= 0 {
		return
	}
	interval := time.Duration(float64(time.Second) / fps)
	if !s.last.IsZero() {
		if wait := interval - time.Since(s.last); wait > 0 {
			time.Sleep(wait)
		}
	}
	s.last = time.Now()
}

// makeCloud scatters points over the depth camera frustum on a slowly
// precessing ring between 1m and 2.5m.
func (s *Sim) makeCloud(tick int) []r3.Vector {
	pts := make([]r3.Vector, 0, s.cfg.CloudPoints)
	phase := float64(tick) * 0.05
	for i := 0; i < s.cfg.CloudPoints; i++ {
		a := phase + float64(i)*2*math.Pi/float64(s.cfg.CloudPoints)
		z := 1.75 + 0.75*math.Sin(a+phase)
		pts = append(pts, r3.Vector{
			X: 0.4 * math.Cos(a),
			Y: 0.3 * math.Sin(2*a),
			Z: z,
		})
	}
	return pts
}

type simColorBuffer struct {
	params geometry.StreamParams
	tick   int
}

func (b *simColorBuffer) AcquireRead() (*frame.ColorImage, error) {
	w, h := b.params.Width, b.params.Height
	img := frame.NewColorImage(w, h)
	for row := 0; row < h; row++ {
		for col := 0; col < w; col++ {
			img.Set(row, col,
				byte((col+b.tick)*255/w),
				byte(row*255/h),
				byte((128+b.tick)%255))
		}
	}
	return img, nil
}

func (b *simColorBuffer) Release() {}

type simDepthBuffer struct {
	params geometry.StreamParams
	tick   int
	empty  bool
}

func (b *simDepthBuffer) AcquireRead() (*frame.DepthGrid, error) {
	if b.empty {
		return &frame.DepthGrid{}, nil
	}
	w, h := b.params.Width, b.params.Height
	dm := frame.NewDepthGrid(w, h)
	// A plane sweeping between 500mm and 3500mm, tilted along columns.
	base := 2000 + 1500*math.Sin(float64(b.tick)*0.1)
	for row := 0; row < h; row++ {
		for col := 0; col < w; col++ {
			dm.Set(row, col, uint16(base+float64(col)*1000/float64(w)))
		}
	}
	return dm, nil
}

func (b *simDepthBuffer) Release() {}
