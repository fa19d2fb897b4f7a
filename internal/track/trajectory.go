package track

// TrajectoryPoint is one observation on a trajectory.
type TrajectoryPoint struct {
	Frame   int
	Feature Feature
}

// Trajectory is the ordered path of features believed to be the same
// physical particle. Points are strictly increasing in frame index; closed
// trajectories are never mutated again.
type Trajectory struct {
	ID     int64
	Points []TrajectoryPoint
}

// Len returns the number of observations.
func (tr Trajectory) Len() int { return len(tr.Points) }

// MaxGap returns the largest difference between consecutive observed frame
// indices, or 0 for trajectories shorter than two points. A trajectory
// linked with memory M never exceeds M+1.
func (tr Trajectory) MaxGap() int {
	gap := 0
	for i := 1; i < len(tr.Points); i++ {
		if d := tr.Points[i].Frame - tr.Points[i-1].Frame; d > gap {
			gap = d
		}
	}
	return gap
}

// TrajectoryRecord is the flat per-observation export shape: one row per
// (trajectory, frame) pair, ready for a tabular consumer.
type TrajectoryRecord struct {
	TrajectoryID int64
	Frame        int
	Y, X         float64
	Mass         float64
	Size         float64
	Ecc          float64
	Signal       float64
}

// LinkRun is the result of one complete linking run over a frame sequence.
type LinkRun struct {
	// RunID uniquely identifies this run for audit trails.
	RunID string

	// Trajectories holds every trajectory observed during the run, closed,
	// sorted by ascending ID.
	Trajectories []Trajectory

	// SubnetFallbacks counts crowded sub-networks that exceeded the exact
	// solver's size cap and were resolved greedily. Non-zero values flag
	// possible accuracy degradation in dense scenes.
	SubnetFallbacks int64
}

// Records flattens the run into per-observation rows, ordered by trajectory
// ID then frame.
func (r *LinkRun) Records() []TrajectoryRecord {
	var out []TrajectoryRecord
	for _, tr := range r.Trajectories {
		for _, p := range tr.Points {
			out = append(out, TrajectoryRecord{
				TrajectoryID: tr.ID,
				Frame:        p.Frame,
				Y:            p.Feature.Y,
				X:            p.Feature.X,
				Mass:         p.Feature.Mass,
				Size:         p.Feature.Size,
				Ecc:          p.Feature.Ecc,
				Signal:       p.Feature.Signal,
			})
		}
	}
	return out
}
