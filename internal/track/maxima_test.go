package track

import "testing"

// peakFrame places isolated single-pixel peaks on a blank frame.
func peakFrame(w, h int, peaks map[[2]int]float64) *Frame {
	pix := make([]float64, w*h)
	for p, v := range peaks {
		pix[p[0]*w+p[1]] = v
	}
	return &Frame{W: w, H: h, Pix: pix}
}

func TestLocalMaxima_TwoPeaks(t *testing.T) {
	f := peakFrame(20, 20, map[[2]int]float64{
		{5, 5}:   10,
		{12, 12}: 8,
	})
	got := localMaxima(f, 1, 3, 2)
	if len(got) != 2 {
		t.Fatalf("found %d maxima, want 2: %v", len(got), got)
	}
	// Scan order is row-major.
	if got[0] != (Candidate{Y: 5, X: 5}) || got[1] != (Candidate{Y: 12, X: 12}) {
		t.Errorf("maxima = %v, want [(5,5) (12,12)]", got)
	}
}

func TestLocalMaxima_ThresholdExcludes(t *testing.T) {
	f := peakFrame(20, 20, map[[2]int]float64{
		{5, 5}:   10,
		{12, 12}: 3,
	})
	got := localMaxima(f, 5, 3, 2)
	if len(got) != 1 || got[0] != (Candidate{Y: 5, X: 5}) {
		t.Errorf("maxima = %v, want only (5,5)", got)
	}
}

func TestLocalMaxima_PlateauTieBreak(t *testing.T) {
	// Two adjacent equal pixels: only the lower row-major coordinate wins,
	// so repeated runs cannot flip between them.
	f := peakFrame(20, 20, map[[2]int]float64{
		{5, 5}: 10,
		{5, 6}: 10,
	})
	got := localMaxima(f, 1, 3, 2)
	if len(got) != 1 || got[0] != (Candidate{Y: 5, X: 5}) {
		t.Errorf("plateau maxima = %v, want only (5,5)", got)
	}
}

func TestLocalMaxima_SeparationSuppression(t *testing.T) {
	// Peaks 2 px apart: within a separation radius of 3 the weaker one is
	// dominated; with separation 0 both are genuine 8-neighbourhood maxima.
	f := peakFrame(20, 20, map[[2]int]float64{
		{10, 10}: 10,
		{10, 12}: 8,
	})
	if got := localMaxima(f, 1, 3, 2); len(got) != 1 || got[0] != (Candidate{Y: 10, X: 10}) {
		t.Errorf("sep=3: maxima = %v, want only (10,10)", got)
	}
	if got := localMaxima(f, 1, 0, 2); len(got) != 2 {
		t.Errorf("sep=0: found %d maxima, want both", len(got))
	}
}

func TestLocalMaxima_MarginExcludes(t *testing.T) {
	f := peakFrame(20, 20, map[[2]int]float64{
		{1, 1}:   10,
		{10, 10}: 10,
	})
	got := localMaxima(f, 1, 3, 4)
	if len(got) != 1 || got[0] != (Candidate{Y: 10, X: 10}) {
		t.Errorf("maxima = %v, want only the interior peak", got)
	}
}

func TestLocalMaxima_Empty(t *testing.T) {
	f := peakFrame(10, 10, nil)
	if got := localMaxima(f, 0, 3, 2); len(got) != 0 {
		t.Errorf("blank frame produced maxima: %v", got)
	}
}

func TestNeighborOffsets(t *testing.T) {
	// sep < 1 degenerates to the 8-connected neighbourhood.
	if got := neighborOffsets(0); len(got) != 8 {
		t.Errorf("sep=0: %d offsets, want 8", len(got))
	}
	// sep = 2: all offsets with distance <= 2 (the 5x5 block minus corners
	// at distance 2.83, minus origin): 12 offsets.
	if got := neighborOffsets(2); len(got) != 12 {
		t.Errorf("sep=2: %d offsets, want 12", len(got))
	}
}
