package track

import "fmt"

// Frame is a single 2-D intensity image plus its position in the sequence.
// Pixels are stored row-major: Pix[y*W + x]. Frames are treated as read-only
// by the pipeline; operations that need a modified image (e.g. inversion for
// dark features) allocate a new Frame.
type Frame struct {
	Index int // position in the frame sequence
	W, H  int
	Pix   []float64 // len = W*H, row-major
}

// NewFrame wraps a row-major pixel buffer. The buffer is not copied.
func NewFrame(index, w, h int, pix []float64) (*Frame, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("frame %d: invalid shape %dx%d", index, w, h)
	}
	if len(pix) != w*h {
		return nil, fmt.Errorf("frame %d: pixel buffer length %d, want %d", index, len(pix), w*h)
	}
	return &Frame{Index: index, W: w, H: h, Pix: pix}, nil
}

// NewBlankFrame returns an all-zero frame of the given shape.
func NewBlankFrame(index, w, h int) *Frame {
	return &Frame{Index: index, W: w, H: h, Pix: make([]float64, w*h)}
}

// Idx returns the flat index of pixel (y, x).
func (f *Frame) Idx(y, x int) int { return y*f.W + x }

// At returns the intensity at (y, x). No bounds checking beyond the slice's.
func (f *Frame) At(y, x int) float64 { return f.Pix[y*f.W+x] }

// Contains reports whether (y, x) lies inside the frame.
func (f *Frame) Contains(y, x int) bool {
	return y >= 0 && y < f.H && x >= 0 && x < f.W
}

// MaxPixel returns the maximum intensity in the frame, or 0 for an empty one.
func (f *Frame) MaxPixel() float64 {
	max := 0.0
	for i, v := range f.Pix {
		if i == 0 || v > max {
			max = v
		}
	}
	return max
}

// Inverted returns a new Frame with intensities flipped about the frame
// maximum, so dark features become bright and the rest of the pipeline runs
// unchanged.
func (f *Frame) Inverted() *Frame {
	max := f.MaxPixel()
	pix := make([]float64, len(f.Pix))
	for i, v := range f.Pix {
		pix[i] = max - v
	}
	return &Frame{Index: f.Index, W: f.W, H: f.H, Pix: pix}
}
