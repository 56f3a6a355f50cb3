package geometry

import (
	"testing"

	"github.com/golang/geo/r3"
)

// testParams is a 640x480 stream with centered principal point.
var testParams = StreamParams{
	Width:  640,
	Height: 480,
	FPS:    30,
	Intrinsics: Intrinsics{
		Fx: 600, Fy: 600,
		Ppx: 320, Ppy: 240,
	},
}

func TestProjectOnAxisPoint(t *testing.T) {
	// A point on the optical axis lands on the principal point.
	row, col, mm, ok := Project(r3.Vector{X: 0, Y: 0, Z: 1.0}, testParams)
	if !ok {
		t.Fatal("on-axis point must project")
	}
	if row != 240 || col != 320 {
		t.Errorf("projected to (%d,%d), want (240,320)", row, col)
	}
	if mm != 1000 {
		t.Errorf("quantized distance = %d, want 1000", mm)
	}
}

func TestProjectOffAxisPoint(t *testing.T) {
	// X offset of 0.1m at 1m with fx=600 lands 60px right of center.
	row, col, mm, ok := Project(r3.Vector{X: 0.1, Y: -0.05, Z: 1.0}, testParams)
	if !ok {
		t.Fatal("in-frustum point must project")
	}
	if col != 380 {
		t.Errorf("col = %d, want 380", col)
	}
	if row != 210 {
		t.Errorf("row = %d, want 210", row)
	}
	if mm != 1000 {
		t.Errorf("quantized distance = %d, want 1000", mm)
	}
}

func TestProjectBehindCamera(t *testing.T) {
	if _, _, _, ok := Project(r3.Vector{X: 0, Y: 0, Z: -1.0}, testParams); ok {
		t.Error("point behind the camera must not project")
	}
	if _, _, _, ok := Project(r3.Vector{X: 0, Y: 0, Z: 0}, testParams); ok {
		t.Error("point at zero depth must not project")
	}
}

func TestProjectOutOfFrustum(t *testing.T) {
	// Far off to the side: projects outside the 640px width.
	if _, _, _, ok := Project(r3.Vector{X: 2.0, Y: 0, Z: 1.0}, testParams); ok {
		t.Error("out-of-frame point must not project")
	}
}

func TestProjectQuantizationRounds(t *testing.T) {
	_, _, mm, ok := Project(r3.Vector{X: 0, Y: 0, Z: 1.2345}, testParams)
	if !ok {
		t.Fatal("point must project")
	}
	if mm != 1235 {
		t.Errorf("quantized distance = %d, want 1235 (rounded)", mm)
	}
}

func TestCheckValid(t *testing.T) {
	if err := testParams.CheckValid(); err != nil {
		t.Errorf("valid params rejected: %v", err)
	}

	bad := testParams
	bad.Width = 0
	if err := bad.CheckValid(); err == nil {
		t.Error("zero width accepted")
	}

	bad = testParams
	bad.Intrinsics.Fx = 0
	if err := bad.CheckValid(); err == nil {
		t.Error("zero focal length accepted")
	}
}
