package track

import "math"

// Refinement constants. The iteration cap is a termination guarantee, not a
// tuning knob: the walk must stop even on pathological plateaus.
const (
	maxRefineIterations = 10
	// shiftThresh: off-centre distance above which the window is moved a
	// whole pixel toward the centre of brightness.
	shiftThresh = 0.6
	// convergedThresh: off-centre distance below which refinement stops.
	convergedThresh = 0.005
	// eccEpsilon keeps the eccentricity denominator away from zero.
	eccEpsilon = 1e-6
)

// windowMoments computes the masked zeroth and first moments of the window
// centred at integer pixel (cy, cx). cmY/cmX are in window coordinates
// [0, size); a zero-mass window reports the window centre.
func windowMoments(f *Frame, m *featureMask, cy, cx int) (cmY, cmX, mass float64) {
	r := m.Radius
	for i := 0; i < m.Size; i++ {
		row := (cy - r + i) * f.W
		for j := 0; j < m.Size; j++ {
			if !m.Inside[i*m.Size+j] {
				continue
			}
			px := f.Pix[row+cx-r+j]
			cmY += px * float64(i)
			cmX += px * float64(j)
			mass += px
		}
	}
	if mass == 0 {
		return float64(r), float64(r), 0
	}
	return cmY / mass, cmX / mass, mass
}

// approxMass is the masked intensity sum at an unrefined candidate, used by
// the pre-refinement filter.
func approxMass(f *Frame, m *featureMask, c Candidate) float64 {
	r := m.Radius
	var mass float64
	for i := 0; i < m.Size; i++ {
		row := (c.Y - r + i) * f.W
		for j := 0; j < m.Size; j++ {
			if m.Inside[i*m.Size+j] {
				mass += f.Pix[row+c.X-r+j]
			}
		}
	}
	return mass
}

// approxSize is the radius of gyration at an unrefined candidate.
func approxSize(f *Frame, m *featureMask, c Candidate, mass float64) float64 {
	if mass <= 0 {
		return 0
	}
	r := m.Radius
	var sum float64
	for i := 0; i < m.Size; i++ {
		row := (c.Y - r + i) * f.W
		for j := 0; j < m.Size; j++ {
			k := i*m.Size + j
			if m.Inside[k] {
				sum += m.R2[k] * f.Pix[row+c.X-r+j]
			}
		}
	}
	return math.Sqrt(sum / mass)
}

// refineOne walks a candidate to the centre of brightness of its circular
// window and characterises the result. The window moves whole pixels while
// the centroid is more than shiftThresh off-centre, clamped to the frame
// interior; once the offset is sub-pixel the interpolated centroid is the
// final position. Returns ok=false when the candidate must be dropped: the
// window would sample outside the frame, or a descriptor comes out
// non-finite or with negative mass.
func refineOne(f *Frame, m *featureMask, c Candidate) (Feature, bool) {
	r := m.Radius
	if c.Y < r || c.Y > f.H-1-r || c.X < r || c.X > f.W-1-r {
		return Feature{}, false
	}

	cy, cx := c.Y, c.X
	cmY, cmX, _ := windowMoments(f, m, cy, cx)
	for iter := 0; iter < maxRefineIterations; iter++ {
		offY := cmY - float64(r)
		offX := cmX - float64(r)
		if math.Abs(offY) < convergedThresh && math.Abs(offX) < convergedThresh {
			break
		}
		if math.Abs(offY) <= shiftThresh && math.Abs(offX) <= shiftThresh {
			// Sub-pixel offset; accept the interpolated centroid.
			break
		}
		if offY > shiftThresh {
			cy++
		} else if offY < -shiftThresh {
			cy--
		}
		if offX > shiftThresh {
			cx++
		} else if offX < -shiftThresh {
			cx--
		}
		cy = clampInt(cy, r, f.H-1-r)
		cx = clampInt(cx, r, f.W-1-r)
		cmY, cmX, _ = windowMoments(f, m, cy, cx)
	}

	// Characterise the final window.
	var mass, rgSum, cosSum, sinSum, signal float64
	for i := 0; i < m.Size; i++ {
		row := (cy - r + i) * f.W
		for j := 0; j < m.Size; j++ {
			k := i*m.Size + j
			if !m.Inside[k] {
				continue
			}
			px := f.Pix[row+cx-r+j]
			mass += px
			rgSum += m.R2[k] * px
			cosSum += m.Cos2[k] * px
			sinSum += m.Sin2[k] * px
			if px > signal {
				signal = px
			}
		}
	}
	if mass < 0 {
		return Feature{}, false
	}

	feat := Feature{
		Frame:   f.Index,
		Y:       cmY - float64(r) + float64(cy),
		X:       cmX - float64(r) + float64(cx),
		Mass:    mass,
		Signal:  signal,
		RawMass: mass,
	}
	centerPx := f.Pix[cy*f.W+cx]
	if mass > 0 {
		feat.Size = math.Sqrt(rgSum / mass)
		feat.Ecc = math.Hypot(cosSum, sinSum) / (mass - centerPx + eccEpsilon)
		feat.Ep = 1 / math.Sqrt(mass)
	}

	for _, v := range [...]float64{feat.Y, feat.X, feat.Mass, feat.Size, feat.Ecc, feat.Signal, feat.Ep} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Feature{}, false
		}
	}
	return feat, true
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
