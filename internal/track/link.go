package track

import (
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/brightfield-data/microtrack/internal/monitoring"
)

// trajectoryState is the linker's working record for one active trajectory:
// its accumulated points, last known position, trailing velocity estimate
// and frames-since-last-match counter.
type trajectoryState struct {
	id     int64
	points []TrajectoryPoint

	lastFrame    int
	lastY, lastX float64
	velY, velX   float64 // per-frame trailing displacement
	hasVel       bool

	misses int // consecutive frames without a match
}

// predict returns the trajectory's expected position at the given frame:
// the last known position, or a trailing-displacement extrapolation when
// velocity prediction is enabled.
func (s *trajectoryState) predict(frame int, useVelocity bool) [2]float64 {
	if !useVelocity || !s.hasVel {
		return [2]float64{s.lastY, s.lastX}
	}
	dt := float64(frame - s.lastFrame)
	return [2]float64{s.lastY + s.velY*dt, s.lastX + s.velX*dt}
}

// Linker assigns persistent trajectory IDs to features across a frame
// sequence. One Linker owns the state of exactly one run; construct a new
// one per run, feed frame tables in ascending frame order via Step, and
// collect the result with Finish. Independent Linkers may run concurrently.
type Linker struct {
	params LinkParams

	active []*trajectoryState // ascending ID order, maintained by construction
	closed []Trajectory
	nextID int64

	lastFrame       int
	hasFrame        bool
	finished        bool
	subnetFallbacks int64
}

// NewLinker validates the configuration and returns a linker with empty
// state.
func NewLinker(p LinkParams) (*Linker, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &Linker{params: p, nextID: 1}, nil
}

// Step processes one frame's feature table. Tables must arrive in strictly
// increasing frame order. An empty table is valid: every active trajectory
// simply records a miss.
func (l *Linker) Step(table *FeatureTable) error {
	if l.finished {
		return fmt.Errorf("link: Step after Finish")
	}
	if l.hasFrame && table.Frame <= l.lastFrame {
		return fmt.Errorf("link: frame %d arrived after frame %d; tables must be in ascending frame order", table.Frame, l.lastFrame)
	}

	feats := table.Features
	matchedFeat := make([]bool, len(feats))
	matchedTraj := make([]int, len(l.active)) // feature index or -1
	for i := range matchedTraj {
		matchedTraj[i] = -1
	}

	// Predict, gate, partition and resolve.
	if len(l.active) > 0 && len(feats) > 0 {
		preds := make([][2]float64, len(l.active))
		for i, s := range l.active {
			preds[i] = s.predict(table.Frame, l.params.PredictVelocity)
		}
		for _, sn := range buildSubnets(preds, feats, l.params.SearchRange) {
			matches, fellBack := resolveSubnet(sn, preds, feats, l.params.SearchRange, l.params.maxSubnetSize())
			if fellBack {
				l.subnetFallbacks++
				monitoring.Logf("link: subnet with %d trajectories × %d features exceeded size cap %d at frame %d; resolved greedily",
					len(sn.trajIdx), len(sn.featIdx), l.params.maxSubnetSize(), table.Frame)
			}
			for k, fj := range matches {
				if fj >= 0 {
					matchedTraj[sn.trajIdx[k]] = fj
					matchedFeat[fj] = true
				}
			}
		}
	}

	// Extend matched trajectories; age out the rest.
	remaining := l.active[:0]
	for i, s := range l.active {
		if fj := matchedTraj[i]; fj >= 0 {
			f := feats[fj]
			dt := float64(table.Frame - s.lastFrame)
			s.velY = (f.Y - s.lastY) / dt
			s.velX = (f.X - s.lastX) / dt
			s.hasVel = true
			s.lastY, s.lastX = f.Y, f.X
			s.lastFrame = table.Frame
			s.misses = 0
			s.points = append(s.points, TrajectoryPoint{Frame: table.Frame, Feature: f})
			remaining = append(remaining, s)
			continue
		}
		s.misses++
		if s.misses > l.params.Memory {
			l.closed = append(l.closed, Trajectory{ID: s.id, Points: s.points})
			continue
		}
		remaining = append(remaining, s)
	}
	l.active = remaining

	// Unmatched features spawn new trajectories, in detection order.
	for fj, f := range feats {
		if matchedFeat[fj] {
			continue
		}
		s := &trajectoryState{
			id:        l.nextID,
			points:    []TrajectoryPoint{{Frame: table.Frame, Feature: f}},
			lastFrame: table.Frame,
			lastY:     f.Y,
			lastX:     f.X,
		}
		l.nextID++
		l.active = append(l.active, s)
	}
	// Surviving actives kept their relative order and new IDs are issued
	// ascending, so l.active stays sorted by ID except where closures made
	// gaps; restore strict order for deterministic cost-matrix rows.
	sort.Slice(l.active, func(a, b int) bool { return l.active[a].id < l.active[b].id })

	l.lastFrame = table.Frame
	l.hasFrame = true
	return nil
}

// Finish closes all remaining active trajectories and returns the completed
// run. Safe to call on a linker that saw no frames; the result is simply
// empty. The linker accepts no further frames afterwards.
func (l *Linker) Finish() *LinkRun {
	if !l.finished {
		for _, s := range l.active {
			l.closed = append(l.closed, Trajectory{ID: s.id, Points: s.points})
		}
		l.active = nil
		l.finished = true
	}
	sort.Slice(l.closed, func(a, b int) bool { return l.closed[a].ID < l.closed[b].ID })
	return &LinkRun{
		RunID:           uuid.NewString(),
		Trajectories:    l.closed,
		SubnetFallbacks: l.subnetFallbacks,
	}
}

// ActiveCount returns the number of currently open trajectories.
func (l *Linker) ActiveCount() int { return len(l.active) }

// SubnetFallbacks returns how many crowded components have been resolved by
// the greedy fallback so far.
func (l *Linker) SubnetFallbacks() int64 { return l.subnetFallbacks }

// Link runs a complete linking pass over per-frame feature tables, which
// must already be in ascending frame order.
func Link(tables []*FeatureTable, p LinkParams) (*LinkRun, error) {
	l, err := NewLinker(p)
	if err != nil {
		return nil, err
	}
	for _, t := range tables {
		if err := l.Step(t); err != nil {
			return nil, err
		}
	}
	return l.Finish(), nil
}
