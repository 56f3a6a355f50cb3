package frame

// ResizeColor scales a color image to (w, h) using nearest-neighbor
// sampling. When the dimensions already match, the source is returned
// unchanged, same backing storage, no allocation.
func ResizeColor(src *ColorImage, w, h int) *ColorImage {
	if src.W == w && src.H == h {
		return src
	}

	dst := NewColorImage(w, h)
	for row := 0; row < h; row++ {
		srcRow := row * src.H / h
		for col := 0; col < w; col++ {
			srcCol := col * src.W / w
			si := (srcRow*src.W + srcCol) * 3
			di := (row*w + col) * 3
			dst.Pix[di], dst.Pix[di+1], dst.Pix[di+2] = src.Pix[si], src.Pix[si+1], src.Pix[si+2]
		}
	}
	return dst
}

// ResizeDepth scales a depth grid to (w, h) using nearest-neighbor
// sampling, with the same identity pass-through as ResizeColor.
func ResizeDepth(src *DepthGrid, w, h int) *DepthGrid {
	if src.W == w && src.H == h {
		return src
	}

	dst := NewDepthGrid(w, h)
	for row := 0; row < h; row++ {
		srcRow := row * src.H / h
		for col := 0; col < w; col++ {
			dst.Pix[row*w+col] = src.Pix[srcRow*src.W+col*src.W/w]
		}
	}
	return dst
}
