package track

import "math"

// featureMask holds the precomputed weight kernels for one window radius.
// The window is the (2r+1)×(2r+1) square around a candidate; Inside marks
// the circular region of radius r within it. The centroid uses uniform
// weights over Inside; R2 weights the radius-of-gyration statistic; Cos2
// and Sin2 are the cos(2θ)/sin(2θ) kernels behind the eccentricity moment.
type featureMask struct {
	Radius int
	Size   int // 2*Radius + 1
	Inside []bool
	R2     []float64
	Cos2   []float64
	Sin2   []float64
	Count  int // pixels inside the circle
}

func newFeatureMask(radius int) *featureMask {
	size := 2*radius + 1
	m := &featureMask{
		Radius: radius,
		Size:   size,
		Inside: make([]bool, size*size),
		R2:     make([]float64, size*size),
		Cos2:   make([]float64, size*size),
		Sin2:   make([]float64, size*size),
	}
	r2max := float64(radius * radius)
	for i := 0; i < size; i++ {
		dy := float64(i - radius)
		for j := 0; j < size; j++ {
			dx := float64(j - radius)
			d2 := dy*dy + dx*dx
			if d2 > r2max {
				continue
			}
			k := i*size + j
			m.Inside[k] = true
			m.Count++
			m.R2[k] = d2
			theta := math.Atan2(dy, dx)
			m.Cos2[k] = math.Cos(2 * theta)
			m.Sin2[k] = math.Sin(2 * theta)
		}
	}
	return m
}
