package track

import "sort"

// A subnet is one connected component of the bipartite candidate-match
// graph: the trajectories and features that must be resolved jointly
// because they compete for each other. Indices are positions in the
// caller's active-trajectory and feature slices, ascending.
type subnet struct {
	trajIdx []int
	featIdx []int
}

// buildSubnets partitions the gated trajectory↔feature graph into connected
// components. An edge exists iff the feature lies within searchRange of the
// trajectory's predicted position. Components containing no trajectory are
// not returned; their features simply spawn new trajectories.
//
// Nodes 0..nTraj-1 are trajectories, nTraj..nTraj+nFeat-1 are features.
func buildSubnets(preds [][2]float64, feats []Feature, searchRange float64) []subnet {
	nTraj := len(preds)
	nFeat := len(feats)
	if nTraj == 0 {
		return nil
	}
	sr2 := searchRange * searchRange

	idx := newSpatialIndex(searchRange)
	for j, f := range feats {
		idx.insert(j, f.Y, f.X)
	}
	dsu := newDisjointSet(nTraj + nFeat)
	for i, p := range preds {
		for _, j := range idx.neighbors(p[0], p[1]) {
			dy := p[0] - feats[j].Y
			dx := p[1] - feats[j].X
			if dy*dy+dx*dx <= sr2 {
				dsu.union(i, nTraj+j)
			}
		}
	}

	byRoot := make(map[int]*subnet)
	var roots []int
	for i := 0; i < nTraj; i++ {
		root := dsu.find(i)
		sn, seen := byRoot[root]
		if !seen {
			sn = &subnet{}
			byRoot[root] = sn
			roots = append(roots, root)
		}
		sn.trajIdx = append(sn.trajIdx, i)
	}
	for j := 0; j < nFeat; j++ {
		if sn, seen := byRoot[dsu.find(nTraj+j)]; seen {
			sn.featIdx = append(sn.featIdx, j)
		}
	}

	// Deterministic component order: by first trajectory index.
	sort.Slice(roots, func(a, b int) bool {
		return byRoot[roots[a]].trajIdx[0] < byRoot[roots[b]].trajIdx[0]
	})
	out := make([]subnet, 0, len(roots))
	for _, r := range roots {
		out = append(out, *byRoot[r])
	}
	return out
}

// resolveSubnet assigns features to the subnet's trajectories, minimising
// total squared travel distance. matches[k] is the feature index matched to
// sn.trajIdx[k], or -1 for a miss. A trajectory may stay unmatched at cost
// searchRange², which is what lets a feature near two trajectories go to
// the one it genuinely continues.
//
// Components larger than maxSize on either side are resolved by greedy
// nearest-match instead; fallback reports that degradation so callers can
// count it.
func resolveSubnet(sn subnet, preds [][2]float64, feats []Feature, searchRange float64, maxSize int) (matches []int, fallback bool) {
	n := len(sn.trajIdx)
	m := len(sn.featIdx)
	matches = make([]int, n)
	for k := range matches {
		matches[k] = -1
	}
	if m == 0 {
		return matches, false
	}
	sr2 := searchRange * searchRange

	// Trivial component: one trajectory, one candidate.
	if n == 1 && m == 1 {
		matches[0] = sn.featIdx[0]
		return matches, false
	}

	if n > maxSize || m > maxSize {
		greedyResolve(sn, preds, feats, sr2, matches)
		return matches, true
	}

	// Exact assignment. Columns 0..m-1 are the features; column m+k is
	// trajectory k's private "go unmatched" column at cost searchRange².
	cost := make([][]float64, n)
	for k, ti := range sn.trajIdx {
		row := make([]float64, m+n)
		for c, fj := range sn.featIdx {
			dy := preds[ti][0] - feats[fj].Y
			dx := preds[ti][1] - feats[fj].X
			d2 := dy*dy + dx*dx
			if d2 <= sr2 {
				row[c] = d2
			} else {
				row[c] = forbiddenCost
			}
		}
		for c := 0; c < n; c++ {
			if c == k {
				row[m+c] = sr2
			} else {
				row[m+c] = forbiddenCost
			}
		}
		cost[k] = row
	}
	assign := assignMinCost(cost)
	for k, col := range assign {
		if col >= 0 && col < m {
			matches[k] = sn.featIdx[col]
		}
	}
	return matches, false
}

// greedyResolve is the bounded-time fallback for oversized components:
// candidate pairs sorted by squared distance (ties by trajectory then
// feature position) and accepted first-come.
func greedyResolve(sn subnet, preds [][2]float64, feats []Feature, sr2 float64, matches []int) {
	type pair struct {
		d2   float64
		k, c int // positions within the subnet
	}
	var pairs []pair
	for k, ti := range sn.trajIdx {
		for c, fj := range sn.featIdx {
			dy := preds[ti][0] - feats[fj].Y
			dx := preds[ti][1] - feats[fj].X
			if d2 := dy*dy + dx*dx; d2 <= sr2 {
				pairs = append(pairs, pair{d2: d2, k: k, c: c})
			}
		}
	}
	sort.Slice(pairs, func(a, b int) bool {
		if pairs[a].d2 != pairs[b].d2 {
			return pairs[a].d2 < pairs[b].d2
		}
		if pairs[a].k != pairs[b].k {
			return pairs[a].k < pairs[b].k
		}
		return pairs[a].c < pairs[b].c
	})
	featUsed := make(map[int]bool, len(sn.featIdx))
	for _, p := range pairs {
		if matches[p.k] >= 0 || featUsed[p.c] {
			continue
		}
		matches[p.k] = sn.featIdx[p.c]
		featUsed[p.c] = true
	}
}
