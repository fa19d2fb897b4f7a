package track

import "math"

// assignMinCost solves the rectangular minimum-cost assignment problem that
// resolves one crowded sub-network: rows are trajectories, columns are
// candidate features (plus per-row "stay unmatched" columns added by the
// caller). It returns assign[i] = column matched to row i, or -1.
//
// Entries at or above forbiddenCost are treated as forbidden and never
// selected. The solver is the Jonker–Volgenant potentials variant of
// Kuhn–Munkres, O(n³), and is fully deterministic for a given matrix, so
// equal-cost solutions resolve by row order (lowest trajectory ID first).
const forbiddenCost = 1e18

func assignMinCost(cost [][]float64) []int {
	n := len(cost)
	if n == 0 {
		return nil
	}
	m := len(cost[0])
	if m == 0 {
		out := make([]int, n)
		for i := range out {
			out[i] = -1
		}
		return out
	}

	// Square the matrix by padding with forbidden entries.
	dim := n
	if m > dim {
		dim = m
	}
	c := make([][]float64, dim)
	for i := 0; i < dim; i++ {
		c[i] = make([]float64, dim)
		for j := 0; j < dim; j++ {
			if i < n && j < m {
				c[i][j] = cost[i][j]
			} else {
				c[i][j] = forbiddenCost
			}
		}
	}

	// 1-indexed internally; column 0 is the virtual start of each
	// augmenting path.
	const inf = math.MaxFloat64 / 2
	u := make([]float64, dim+1)    // row potentials
	v := make([]float64, dim+1)    // column potentials
	p := make([]int, dim+1)        // p[j] = row assigned to column j
	way := make([]int, dim+1)      // previous column on the augmenting path
	minv := make([]float64, dim+1) // slack per column
	used := make([]bool, dim+1)

	for i := 1; i <= dim; i++ {
		p[0] = i
		j0 := 0
		for j := 1; j <= dim; j++ {
			minv[j] = inf
			used[j] = false
		}
		for {
			used[j0] = true
			i0 := p[j0]
			delta := inf
			j1 := -1
			for j := 1; j <= dim; j++ {
				if used[j] {
					continue
				}
				cur := c[i0-1][j-1] - u[i0] - v[j]
				if cur < minv[j] {
					minv[j] = cur
					way[j] = j0
				}
				if minv[j] < delta {
					delta = minv[j]
					j1 = j
				}
			}
			if j1 < 0 {
				break
			}
			for j := 0; j <= dim; j++ {
				if used[j] {
					u[p[j]] += delta
					v[j] -= delta
				} else {
					minv[j] -= delta
				}
			}
			j0 = j1
			if p[j0] == 0 {
				break
			}
		}
		for j0 != 0 {
			p[j0] = p[way[j0]]
			j0 = way[j0]
		}
	}

	rowAssign := make([]int, dim)
	for i := range rowAssign {
		rowAssign[i] = -1
	}
	for j := 1; j <= dim; j++ {
		if p[j] > 0 && p[j] <= dim {
			rowAssign[p[j]-1] = j - 1
		}
	}

	// Trim padding and reject forbidden matches.
	out := make([]int, n)
	for i := 0; i < n; i++ {
		col := rowAssign[i]
		if col < 0 || col >= m || cost[i][col] >= forbiddenCost {
			out[i] = -1
		} else {
			out[i] = col
		}
	}
	return out
}
