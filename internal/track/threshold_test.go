package track

import "testing"

func TestThresholdAbsolute(t *testing.T) {
	f, _ := NewFrame(0, 2, 2, []float64{1, 2, 3, 4})
	cut, ok := Threshold(f, ThresholdSpec{Kind: ThresholdAbsolute, Value: 2.5})
	if !ok || cut != 2.5 {
		t.Errorf("absolute threshold = %v, %v; want 2.5, true", cut, ok)
	}
}

func TestThresholdPercentile_IgnoresZeros(t *testing.T) {
	// Half the frame is black; the cutoff must come from the bright half
	// only, otherwise a dark background drags it to zero.
	f, _ := NewFrame(0, 4, 2, []float64{0, 0, 0, 0, 10, 20, 30, 40})
	cut, ok := Threshold(f, ThresholdSpec{Kind: ThresholdPercentile, Value: 50})
	if !ok {
		t.Fatal("expected a cutoff for a frame with bright pixels")
	}
	if cut < 10 || cut > 30 {
		t.Errorf("50th percentile cutoff = %v, want within the bright range", cut)
	}
}

func TestThresholdPercentile_Monotonic(t *testing.T) {
	pix := make([]float64, 100)
	for i := range pix {
		pix[i] = float64(i + 1)
	}
	f, _ := NewFrame(0, 10, 10, pix)

	prev := -1.0
	for _, pct := range []float64{10, 30, 50, 70, 90} {
		cut, ok := Threshold(f, ThresholdSpec{Kind: ThresholdPercentile, Value: pct})
		if !ok {
			t.Fatalf("percentile %v: no cutoff", pct)
		}
		if cut < prev {
			t.Errorf("cutoff decreased: pct %v gave %v after %v", pct, cut, prev)
		}
		prev = cut
	}
}

func TestThresholdPercentile_BlackFrame(t *testing.T) {
	f, _ := NewFrame(0, 4, 4, make([]float64, 16))
	if _, ok := Threshold(f, ThresholdSpec{Kind: ThresholdPercentile, Value: 64}); ok {
		t.Error("completely black frame should yield no cutoff")
	}
}
