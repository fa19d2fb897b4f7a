package track

// Feature is one refined detection in one frame: a sub-pixel position plus
// intensity descriptors. Features are immutable once built; the linker only
// ever references them.
type Feature struct {
	Frame int // source frame index

	Y, X float64 // sub-pixel centroid, pixel units, origin at pixel (0,0) centre

	Mass    float64 // integrated intensity over the circular window
	Size    float64 // radius of gyration of the intensity profile
	Ecc     float64 // eccentricity, 0 = circular
	Signal  float64 // peak intensity in the window
	RawMass float64 // integrated raw (pre-processing) intensity
	Ep      float64 // localisation uncertainty proxy, ~1/sqrt(RawMass)
}

// DistSq returns the squared Euclidean distance between two features.
func (f Feature) DistSq(g Feature) float64 {
	dy := f.Y - g.Y
	dx := f.X - g.X
	return dy*dy + dx*dx
}

// FeatureTable is the ordered set of accepted features for one frame.
// Insertion order is detection order; it carries no correctness meaning but
// makes tie-breaks downstream reproducible.
type FeatureTable struct {
	Frame    int
	Features []Feature

	// DroppedCandidates counts candidates discarded during refinement
	// (window out of frame, or a non-finite descriptor). Diagnostic only.
	DroppedCandidates int
}

// Len returns the number of features in the table.
func (t *FeatureTable) Len() int { return len(t.Features) }
