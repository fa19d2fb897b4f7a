package track

// Candidate is an integer-pixel local maximum surviving thresholding and the
// minimum-separation scan. Candidates are transient: the refiner consumes
// them immediately.
type Candidate struct {
	Y, X int
}

// neighborOffsets returns the integer offsets (excluding the origin) whose
// distance from the origin is at most sep. For sep < 1 this degenerates to
// the 8-connected neighbourhood so a local maximum is still well defined.
func neighborOffsets(sep float64) [][2]int {
	r := int(sep)
	if r < 1 {
		r = 1
	}
	sep2 := sep * sep
	if sep < 1 {
		sep2 = 2 // covers the full 8-neighbourhood
	}
	offsets := make([][2]int, 0, (2*r+1)*(2*r+1)-1)
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if dy == 0 && dx == 0 {
				continue
			}
			if float64(dy*dy+dx*dx) <= sep2 {
				offsets = append(offsets, [2]int{dy, dx})
			}
		}
	}
	return offsets
}

// localMaxima scans the frame for pixels that are strictly greater than
// every neighbour within the separation radius, among pixels above the
// threshold cutoff. Plateaus (equal-valued neighbours) are broken
// deterministically in favour of the lowest row-major coordinate, so
// repeated runs yield identical candidate lists.
//
// Candidates within margin pixels of any edge are discarded: their
// refinement window would sample outside the frame.
func localMaxima(f *Frame, cut float64, sep float64, margin int) []Candidate {
	offsets := neighborOffsets(sep)
	var out []Candidate
	for y := margin; y < f.H-margin; y++ {
		for x := margin; x < f.W-margin; x++ {
			v := f.Pix[y*f.W+x]
			if v <= cut {
				continue
			}
			isMax := true
			for _, o := range offsets {
				ny, nx := y+o[0], x+o[1]
				if ny < 0 || ny >= f.H || nx < 0 || nx >= f.W {
					continue
				}
				w := f.Pix[ny*f.W+nx]
				if w > v {
					isMax = false
					break
				}
				// Plateau: the earlier coordinate in scan order wins.
				if w == v && (ny < y || (ny == y && nx < x)) {
					isMax = false
					break
				}
			}
			if isMax {
				out = append(out, Candidate{Y: y, X: x})
			}
		}
	}
	return out
}
