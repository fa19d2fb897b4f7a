package track

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// ThresholdKind selects how the candidate cutoff is derived from a frame.
type ThresholdKind int

const (
	// ThresholdPercentile derives the cutoff from the intensity distribution
	// of the frame's non-zero pixels.
	ThresholdPercentile ThresholdKind = iota
	// ThresholdAbsolute uses a fixed intensity cutoff.
	ThresholdAbsolute
)

// ThresholdSpec describes the candidate cutoff for one locate run.
type ThresholdSpec struct {
	Kind  ThresholdKind
	Value float64 // percentile in [0, 100) or absolute intensity
}

// Threshold computes the candidate intensity cutoff for a frame. Pixels
// strictly above the cutoff are candidate territory for the maxima scan.
// ok is false when no cutoff can be derived (a completely black frame under
// percentile mode), which callers treat as "no candidates", not an error.
//
// It is a pure function of (frame, spec) and is callable standalone for
// diagnostic inspection of a threshold choice.
func Threshold(f *Frame, spec ThresholdSpec) (cut float64, ok bool) {
	switch spec.Kind {
	case ThresholdAbsolute:
		return spec.Value, true
	default:
		return percentileThreshold(f, spec.Value)
	}
}

// percentileThreshold returns the given percentile of the frame's non-zero
// intensities. Zero pixels are excluded so that large dark backgrounds do
// not drag the cutoff to zero.
func percentileThreshold(f *Frame, percentile float64) (float64, bool) {
	notBlack := make([]float64, 0, len(f.Pix))
	for _, v := range f.Pix {
		if v != 0 {
			notBlack = append(notBlack, v)
		}
	}
	if len(notBlack) == 0 {
		return 0, false
	}
	sort.Float64s(notBlack)
	return stat.Quantile(percentile/100, stat.Empirical, notBlack, nil), true
}
