package frame

// ColorImage is a W×H grid of 3-channel 8-bit RGB pixels stored as a flat
// byte slice, row-major, 3 bytes per pixel. The layout matches the raw
// RGB frames the capture side produces (len(Pix) == W*H*3).
type ColorImage struct {
	W, H int
	Pix  []byte
}

// NewColorImage allocates an all-zero (black) color image.
func NewColorImage(w, h int) *ColorImage {
	return &ColorImage{W: w, H: h, Pix: make([]byte, w*h*3)}
}

// Empty reports whether the image carries no pixels.
func (c *ColorImage) Empty() bool {
	return c == nil || c.W == 0 || c.H == 0
}

// At returns the RGB triple at (row, col). Caller keeps coordinates in
// bounds.
func (c *ColorImage) At(row, col int) (r, g, b byte) {
	i := (row*c.W + col) * 3
	return c.Pix[i], c.Pix[i+1], c.Pix[i+2]
}

// Set writes the RGB triple at (row, col).
func (c *ColorImage) Set(row, col int, r, g, b byte) {
	i := (row*c.W + col) * 3
	c.Pix[i], c.Pix[i+1], c.Pix[i+2] = r, g, b
}

// DepthGrid is a W×H grid of 16-bit unsigned distances in millimeters.
// Zero means "unknown" (never measured or out of range).
type DepthGrid struct {
	W, H int
	Pix  []uint16
}

// NewDepthGrid allocates an all-zero (all-unknown) depth grid.
func NewDepthGrid(w, h int) *DepthGrid {
	return &DepthGrid{W: w, H: h, Pix: make([]uint16, w*h)}
}

// Empty reports whether the grid carries no samples. A nil or zero-sized
// grid stands for "the sensor supplied no dense depth for this sample".
func (d *DepthGrid) Empty() bool {
	return d == nil || d.W == 0 || d.H == 0
}

// At returns the distance in millimeters at (row, col).
func (d *DepthGrid) At(row, col int) uint16 {
	return d.Pix[row*d.W+col]
}

// Set writes the distance in millimeters at (row, col).
func (d *DepthGrid) Set(row, col int, mm uint16) {
	d.Pix[row*d.W+col] = mm
}
