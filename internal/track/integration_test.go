package track

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// driftSequence renders a particle drifting diagonally plus a stationary one.
func driftSequence(n int) []*Frame {
	frames := make([]*Frame, n)
	for f := 0; f < n; f++ {
		frames[f] = gaussianFrame(f, 64, 64, []spot{
			{Y: 10 + 1.5*float64(f), X: 12 + 1.2*float64(f), Amp: 250, Sigma: 1.5},
			{Y: 48, X: 48, Amp: 200, Sigma: 1.5},
		})
	}
	return frames
}

func TestPipeline_EndToEnd(t *testing.T) {
	frames := driftSequence(8)
	lp := DefaultLocateParams(9)

	tables, err := Batch(frames, lp)
	if err != nil {
		t.Fatal(err)
	}
	for i, table := range tables {
		if table.Len() != 2 {
			t.Fatalf("frame %d: located %d features, want 2", i, table.Len())
		}
	}

	run, err := Link(tables, DefaultLinkParams(3))
	if err != nil {
		t.Fatal(err)
	}
	if len(run.Trajectories) != 2 {
		t.Fatalf("got %d trajectories, want 2", len(run.Trajectories))
	}
	for _, tr := range run.Trajectories {
		if tr.Len() != 8 {
			t.Errorf("trajectory %d length = %d, want 8", tr.ID, tr.Len())
		}
	}

	// The drifter's recovered displacement should match the rendered motion.
	drifter := run.Trajectories[0]
	first := drifter.Points[0].Feature
	last := drifter.Points[len(drifter.Points)-1].Feature
	if math.Abs((last.Y-first.Y)-1.5*7) > 0.5 {
		t.Errorf("drifter moved %v in Y over 7 steps, want about %v", last.Y-first.Y, 1.5*7)
	}
	if math.Abs((last.X-first.X)-1.2*7) > 0.5 {
		t.Errorf("drifter moved %v in X over 7 steps, want about %v", last.X-first.X, 1.2*7)
	}

	// The stationary particle should barely move.
	station := run.Trajectories[1]
	for _, pt := range station.Points {
		if math.Abs(pt.Feature.Y-48) > 0.1 || math.Abs(pt.Feature.X-48) > 0.1 {
			t.Errorf("stationary particle wandered to (%v, %v) at frame %d",
				pt.Feature.Y, pt.Feature.X, pt.Frame)
		}
	}
}

func TestPipeline_Deterministic(t *testing.T) {
	frames := driftSequence(6)
	lp := DefaultLocateParams(9)
	kp := DefaultLinkParams(3)

	runOnce := func() *LinkRun {
		tables, err := Batch(frames, lp)
		if err != nil {
			t.Fatal(err)
		}
		run, err := Link(tables, kp)
		if err != nil {
			t.Fatal(err)
		}
		return run
	}

	first := runOnce()
	second := runOnce()

	// Identical inputs and parameters must reproduce trajectories exactly,
	// bit for bit, regardless of worker scheduling. Only the run ID differs.
	opts := cmpopts.IgnoreFields(LinkRun{}, "RunID")
	if diff := cmp.Diff(first, second, opts); diff != "" {
		t.Errorf("repeated runs differ:\n%s", diff)
	}
	if first.RunID == second.RunID {
		t.Error("distinct runs must carry distinct run IDs")
	}
	if diff := cmp.Diff(first.Records(), second.Records()); diff != "" {
		t.Errorf("flattened records differ:\n%s", diff)
	}
}
