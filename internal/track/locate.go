package track

import (
	"fmt"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/brightfield-data/microtrack/internal/monitoring"
)

// Locate runs the full per-frame feature-finding chain on one frame:
// threshold → local maxima → approximate-mass prefilter → sub-pixel
// refinement → duplicate merging → descriptor filters. It returns the
// frame's feature table; an error only for malformed configuration or a nil
// frame. A frame yielding no features produces an empty table, not an
// error.
//
// Locate is pure with respect to the frame and safe to call for any number
// of frames concurrently.
func Locate(frame *Frame, p LocateParams) (*FeatureTable, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if frame == nil {
		return nil, fmt.Errorf("locate: nil frame")
	}
	return locateFrame(frame, p), nil
}

func locateFrame(frame *Frame, p LocateParams) *FeatureTable {
	table := &FeatureTable{Frame: frame.Index}
	r := p.radius()
	margin := p.margin()
	if frame.H <= 2*margin || frame.W <= 2*margin {
		monitoring.Logf("locate: frame %d (%dx%d) too small for diameter %d with separation %v",
			frame.Index, frame.W, frame.H, p.Diameter, p.Separation)
		return table
	}

	working := frame
	if p.Invert {
		working = frame.Inverted()
	}

	cut, ok := Threshold(working, p.Threshold)
	if !ok {
		monitoring.Logf("locate: frame %d is completely black", frame.Index)
		return table
	}

	cands := localMaxima(working, cut, p.Separation, margin)
	if len(cands) == 0 {
		return table
	}

	// Prefilter on approximate mass (and size, when bounded) before the
	// expensive refinement walk.
	mask := newFeatureMask(r)
	kept := cands[:0]
	for _, c := range cands {
		am := approxMass(working, mask, c)
		if am <= p.MinMass {
			continue
		}
		if p.MaxSize > 0 && approxSize(working, mask, c, am) >= p.MaxSize {
			continue
		}
		kept = append(kept, c)
	}

	feats := make([]Feature, 0, len(kept))
	for _, c := range kept {
		f, ok := refineOne(working, mask, c)
		if !ok {
			table.DroppedCandidates++
			continue
		}
		feats = append(feats, f)
	}
	if table.DroppedCandidates > 0 {
		monitoring.Logf("locate: frame %d dropped %d candidates during refinement", frame.Index, table.DroppedCandidates)
	}

	feats = mergeFeatures(feats, p.Separation, p.MergePolicy)
	feats = filterFeatures(feats, p)
	if p.TopN > 0 {
		feats = topNByMass(feats, p.TopN)
	}
	table.Features = feats
	return table
}

// filterFeatures applies the post-refinement descriptor filters. Retained
// features pass through unchanged.
func filterFeatures(feats []Feature, p LocateParams) []Feature {
	out := feats[:0]
	for _, f := range feats {
		if f.Mass <= p.MinMass {
			continue
		}
		if p.MaxSize > 0 && f.Size >= p.MaxSize {
			continue
		}
		if p.MaxEcc > 0 && f.Ecc > p.MaxEcc {
			continue
		}
		out = append(out, f)
	}
	return out
}

// topNByMass keeps the n brightest features, preserving detection order
// among the survivors. Mass ties at the boundary resolve toward earlier
// detections.
func topNByMass(feats []Feature, n int) []Feature {
	if len(feats) <= n {
		return feats
	}
	order := make([]int, len(feats))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return feats[order[a]].Mass > feats[order[b]].Mass
	})
	chosen := order[:n]
	sort.Ints(chosen)
	out := make([]Feature, 0, n)
	for _, i := range chosen {
		out = append(out, feats[i])
	}
	return out
}

// Batch locates features in every frame of a sequence, processing frames
// concurrently: each frame's chain reads only that frame and writes only
// its own table, so there is no shared mutable state to guard. Output order
// matches input order regardless of scheduling.
//
// A frame that fails to process contributes an empty table and a logged
// report; it never aborts the sequence. A nil frame yields an empty table
// with Frame set to -1, since its true index is unknowable.
func Batch(frames []*Frame, p LocateParams) ([]*FeatureTable, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	tables := make([]*FeatureTable, len(frames))
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, frame := range frames {
		i, frame := i, frame
		g.Go(func() error {
			if frame == nil {
				monitoring.Logf("locate: skipping nil frame at position %d", i)
				// No frame index to report; -1 cannot collide with a
				// neighbouring table's real frame number.
				tables[i] = &FeatureTable{Frame: -1}
				return nil
			}
			tables[i] = locateFrame(frame, p)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		// Workers never return errors; per-frame failures are local.
		return nil, err
	}
	return tables, nil
}
