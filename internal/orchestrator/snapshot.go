package orchestrator

import (
	"github.com/tenderfit/tenderctl/internal/lane"
	"github.com/tenderfit/tenderctl/internal/report"
)

// Snapshot is an immutable projection of one run's state, safe to hand to
// renderers and tests.
type Snapshot struct {
	RunID    string
	State    State
	Board    map[string]string
	Progress float64
	Lanes    []lane.Lane
	FanOut   []string
	// Narration is the bounded rolling feed; NarrationTotal counts every
	// line ever added, so streaming consumers can detect rotation.
	Narration      []string
	NarrationTotal int
	Message        string
	Rows           []report.Row
	Best           *report.Row
	Err            error
}

// snapshot projects the run's current state. Called on the loop goroutine
// only; everything it copies is owned by that goroutine or internally locked.
func (c *Controller) snapshot(r *run) Snapshot {
	snap := Snapshot{
		RunID:          r.id,
		State:          r.state,
		Board:          r.board.Snapshot(),
		Progress:       r.board.Progress(),
		Lanes:          r.lanes.Snapshot(),
		FanOut:         append([]string(nil), r.fanout...),
		Narration:      r.narration.Entries(),
		NarrationTotal: r.narration.Total(),
		Message:        r.message,
		Rows:           append([]report.Row(nil), r.rows...),
		Err:            r.err,
	}
	if r.best != nil {
		best := *r.best
		snap.Best = &best
	}
	return snap
}

// Snapshot returns the most recently published run state, or a zero snapshot
// in StateIdle when no run has started.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.last.RunID == "" {
		return Snapshot{State: StateIdle}
	}
	return c.last
}
