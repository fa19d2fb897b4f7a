package track

import "fmt"

// LocateParams configures per-frame feature finding. Construct with
// DefaultLocateParams and adjust; Validate runs once up front and fails fast
// on malformed values rather than silently clamping.
type LocateParams struct {
	// Diameter is the expected feature extent in pixels. Must be odd, ≥ 3.
	Diameter int

	// Separation is the minimum distance between distinct features.
	// 0 disables duplicate merging entirely. Default Diameter + 1.
	Separation float64

	// Threshold selects the candidate intensity cutoff.
	Threshold ThresholdSpec

	// Invert treats features as darker than background.
	Invert bool

	// MergePolicy resolves groups of features closer than Separation.
	MergePolicy MergePolicy

	// MinMass rejects features with integrated brightness below it. This is
	// the main guard against spurious detections.
	MinMass float64

	// MaxSize, when > 0, rejects features with a larger radius of gyration.
	MaxSize float64

	// MaxEcc, when > 0, rejects features more eccentric than it.
	MaxEcc float64

	// TopN, when > 0, keeps only the N brightest features after filtering.
	TopN int
}

// DefaultLocateParams returns the standard locate configuration for the
// given odd feature diameter.
func DefaultLocateParams(diameter int) LocateParams {
	return LocateParams{
		Diameter:    diameter,
		Separation:  float64(diameter + 1),
		Threshold:   ThresholdSpec{Kind: ThresholdPercentile, Value: 64},
		MergePolicy: MergeKeepBrightest,
		MinMass:     100,
	}
}

// Validate reports the first malformed locate parameter.
func (p LocateParams) Validate() error {
	if p.Diameter < 3 {
		return fmt.Errorf("locate: diameter must be >= 3, got %d", p.Diameter)
	}
	if p.Diameter%2 == 0 {
		return fmt.Errorf("locate: diameter must be an odd integer, got %d (round up)", p.Diameter)
	}
	if p.Separation < 0 {
		return fmt.Errorf("locate: separation must be >= 0, got %v", p.Separation)
	}
	switch p.Threshold.Kind {
	case ThresholdPercentile:
		if p.Threshold.Value < 0 || p.Threshold.Value >= 100 {
			return fmt.Errorf("locate: threshold percentile must be in [0, 100), got %v", p.Threshold.Value)
		}
	case ThresholdAbsolute:
	default:
		return fmt.Errorf("locate: unknown threshold kind %d", p.Threshold.Kind)
	}
	switch p.MergePolicy {
	case MergeKeepBrightest, MergeWeightedCentroid:
	default:
		return fmt.Errorf("locate: unknown merge policy %d", p.MergePolicy)
	}
	if p.MinMass < 0 {
		return fmt.Errorf("locate: min mass must be >= 0, got %v", p.MinMass)
	}
	if p.MaxSize < 0 {
		return fmt.Errorf("locate: max size must be >= 0, got %v", p.MaxSize)
	}
	if p.MaxEcc < 0 {
		return fmt.Errorf("locate: max eccentricity must be >= 0, got %v", p.MaxEcc)
	}
	if p.TopN < 0 {
		return fmt.Errorf("locate: topN must be >= 0, got %d", p.TopN)
	}
	return nil
}

// radius returns the window half-extent.
func (p LocateParams) radius() int { return p.Diameter / 2 }

// margin is the edge-exclusion zone for candidates: features with incomplete
// window data or too little room for refinement are discarded.
func (p LocateParams) margin() int {
	m := p.radius()
	if s := int(p.Separation)/2 - 1; s > m {
		m = s
	}
	return m
}

// DefaultMaxSubnetSize bounds exact assignment in crowded regions; larger
// sub-networks fall back to greedy matching.
const DefaultMaxSubnetSize = 30

// LinkParams configures trajectory linking across a frame sequence.
type LinkParams struct {
	// SearchRange is the maximum travel distance between consecutive
	// frames, in pixels. Must be positive.
	SearchRange float64

	// Memory is how many consecutive frames a trajectory may go unmatched
	// before it is closed. 0 closes on the first miss.
	Memory int

	// PredictVelocity extrapolates each trajectory by its trailing
	// displacement instead of using the last known position.
	PredictVelocity bool

	// MaxSubnetSize caps the side of a crowded sub-network solved exactly.
	// Defaults to DefaultMaxSubnetSize when 0.
	MaxSubnetSize int
}

// DefaultLinkParams returns the standard link configuration for the given
// search range.
func DefaultLinkParams(searchRange float64) LinkParams {
	return LinkParams{
		SearchRange:   searchRange,
		MaxSubnetSize: DefaultMaxSubnetSize,
	}
}

// Validate reports the first malformed link parameter.
func (p LinkParams) Validate() error {
	if p.SearchRange <= 0 {
		return fmt.Errorf("link: search range must be positive, got %v", p.SearchRange)
	}
	if p.Memory < 0 {
		return fmt.Errorf("link: memory must be >= 0, got %d", p.Memory)
	}
	if p.MaxSubnetSize < 0 {
		return fmt.Errorf("link: max subnet size must be >= 0, got %d", p.MaxSubnetSize)
	}
	return nil
}

// maxSubnetSize applies the default cap.
func (p LinkParams) maxSubnetSize() int {
	if p.MaxSubnetSize == 0 {
		return DefaultMaxSubnetSize
	}
	return p.MaxSubnetSize
}
