package track

import (
	"math"
	"sort"
)

// MergePolicy selects how a group of features closer than the minimum
// separation collapses into a single feature.
type MergePolicy int

const (
	// MergeKeepBrightest keeps only the highest-mass member of each group.
	// Ties go to the earliest member in detection order.
	MergeKeepBrightest MergePolicy = iota
	// MergeWeightedCentroid replaces each group with one feature at the
	// mass-weighted centroid, conserving the group's total mass.
	MergeWeightedCentroid
)

// disjointSet is an arena-allocated union-find over candidate indices, with
// union by rank and path halving.
type disjointSet struct {
	parent []int
	rank   []int
}

func newDisjointSet(n int) *disjointSet {
	d := &disjointSet{parent: make([]int, n), rank: make([]int, n)}
	for i := range d.parent {
		d.parent[i] = i
	}
	return d
}

func (d *disjointSet) find(u int) int {
	for d.parent[u] != u {
		d.parent[u] = d.parent[d.parent[u]] // path halving
		u = d.parent[u]
	}
	return u
}

func (d *disjointSet) union(u, v int) {
	ru, rv := d.find(u), d.find(v)
	if ru == rv {
		return
	}
	if d.rank[ru] < d.rank[rv] {
		ru, rv = rv, ru
	}
	d.parent[rv] = ru
	if d.rank[ru] == d.rank[rv] {
		d.rank[ru]++
	}
}

// spatialIndex buckets feature positions on a uniform grid so that the
// pairwise search only inspects adjacent cells. Cell size should match the
// query radius.
type spatialIndex struct {
	cellSize float64
	grid     map[int64][]int
}

func newSpatialIndex(cellSize float64) *spatialIndex {
	return &spatialIndex{cellSize: cellSize, grid: make(map[int64][]int)}
}

func (s *spatialIndex) cellKey(y, x float64) (int64, int64) {
	return int64(math.Floor(y / s.cellSize)), int64(math.Floor(x / s.cellSize))
}

func (s *spatialIndex) insert(i int, y, x float64) {
	cy, cx := s.cellKey(y, x)
	k := cy<<32 ^ (cx & 0xffffffff)
	s.grid[k] = append(s.grid[k], i)
}

// neighbors returns indices in the 3×3 cell block around (y, x).
func (s *spatialIndex) neighbors(y, x float64) []int {
	cy, cx := s.cellKey(y, x)
	var out []int
	for dy := int64(-1); dy <= 1; dy++ {
		for dx := int64(-1); dx <= 1; dx++ {
			k := (cy+dy)<<32 ^ ((cx + dx) & 0xffffffff)
			out = append(out, s.grid[k]...)
		}
	}
	return out
}

// mergeFeatures resolves groups of refined features whose pairwise distance
// is below the minimum separation. With sep == 0 merging is disabled and the
// input is returned unchanged; that is the documented boundary behaviour,
// not an error. Output preserves detection order: each surviving feature
// occupies the position of its group's earliest member.
//
// Resolution repeats until no pair remains closer than sep: a weighted
// centroid can land within sep of a feature outside its group, so a single
// pass is not enough to guarantee the pairwise-separation contract. Each
// pass strictly shrinks the feature list, so the loop terminates.
func mergeFeatures(feats []Feature, sep float64, policy MergePolicy) []Feature {
	if sep <= 0 {
		return feats
	}
	for len(feats) >= 2 {
		merged := mergeOnce(feats, sep, policy)
		if len(merged) == len(feats) {
			break
		}
		feats = merged
	}
	return feats
}

func mergeOnce(feats []Feature, sep float64, policy MergePolicy) []Feature {
	sep2 := sep * sep

	idx := newSpatialIndex(sep)
	for i, f := range feats {
		idx.insert(i, f.Y, f.X)
	}
	dsu := newDisjointSet(len(feats))
	for i, f := range feats {
		for _, j := range idx.neighbors(f.Y, f.X) {
			if j <= i {
				continue
			}
			if f.DistSq(feats[j]) < sep2 {
				dsu.union(i, j)
			}
		}
	}

	// Collect groups keyed by root, members in detection order.
	groups := make(map[int][]int)
	var order []int // earliest member index per group, in detection order
	for i := range feats {
		root := dsu.find(i)
		if _, seen := groups[root]; !seen {
			order = append(order, i)
		}
		groups[root] = append(groups[root], i)
	}
	sort.Ints(order)

	out := make([]Feature, 0, len(order))
	for _, first := range order {
		members := groups[dsu.find(first)]
		if len(members) == 1 {
			out = append(out, feats[members[0]])
			continue
		}
		switch policy {
		case MergeWeightedCentroid:
			out = append(out, centroidMerge(feats, members))
		default:
			out = append(out, brightestOf(feats, members))
		}
	}
	return out
}

func brightestOf(feats []Feature, members []int) Feature {
	best := members[0]
	for _, i := range members[1:] {
		if feats[i].Mass > feats[best].Mass {
			best = i
		}
	}
	return feats[best]
}

// centroidMerge collapses a group to its mass-weighted centroid. Total mass
// is conserved; size and eccentricity become mass-weighted means and signal
// the group maximum. A zero-total-mass group degenerates to its first member.
func centroidMerge(feats []Feature, members []int) Feature {
	var total float64
	for _, i := range members {
		total += feats[i].Mass
	}
	if total <= 0 {
		return feats[members[0]]
	}
	merged := Feature{Frame: feats[members[0]].Frame, Mass: total}
	for _, i := range members {
		f := feats[i]
		w := f.Mass / total
		merged.Y += w * f.Y
		merged.X += w * f.X
		merged.Size += w * f.Size
		merged.Ecc += w * f.Ecc
		merged.RawMass += f.RawMass
		if f.Signal > merged.Signal {
			merged.Signal = f.Signal
		}
	}
	merged.Ep = 1 / math.Sqrt(total)
	return merged
}
