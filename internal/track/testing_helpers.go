package track

import "math"

// spot is a synthetic Gaussian-like bright feature used by tests.
type spot struct {
	Y, X  float64
	Amp   float64
	Sigma float64
}

// gaussianFrame renders spots onto a blank frame. Intensities add where
// spots overlap.
func gaussianFrame(index, w, h int, spots []spot) *Frame {
	pix := make([]float64, w*h)
	for _, s := range spots {
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				dy := float64(y) - s.Y
				dx := float64(x) - s.X
				pix[y*w+x] += s.Amp * math.Exp(-(dy*dy+dx*dx)/(2*s.Sigma*s.Sigma))
			}
		}
	}
	return &Frame{Index: index, W: w, H: h, Pix: pix}
}

// tableOf builds a feature table directly from positions, bypassing the
// feature finder, for linker tests.
func tableOf(frame int, positions ...[2]float64) *FeatureTable {
	t := &FeatureTable{Frame: frame}
	for _, p := range positions {
		t.Features = append(t.Features, Feature{Frame: frame, Y: p[0], X: p[1], Mass: 1000})
	}
	return t
}
