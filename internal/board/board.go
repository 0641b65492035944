package board

import (
	"sync"

	"github.com/tenderfit/tenderctl/internal/pipeline"
)

// Board is the shared macro-phase status board behind the aggregate progress
// indicator. Multi-bid phases reflect the OR of all lanes; scout and
// shortlist reflect their single job.
type Board struct {
	mu        sync.Mutex
	phases    map[string]string
	highWater float64
}

// New creates a Board with every phase idle.
func New() *Board {
	b := &Board{}
	b.Reset()
	return b
}

// Reset sets every phase back to idle and clears the progress high-water
// mark. Called at the start of every run.
func (b *Board) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.phases = make(map[string]string)
	for _, phase := range pipeline.MacroPhases() {
		b.phases[phase] = pipeline.StatusIdle
	}
	b.highWater = 0
}

// SetPhase updates one phase's status. Unknown phase names are ignored.
func (b *Board) SetPhase(name, status string) {
	if !pipeline.KnownPhase(name) {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.phases[name] = status
}

// MarkAllRunningDone flips every running phase to done. Used when a job
// completes whose intermediate stage statuses were only approximated.
func (b *Board) MarkAllRunningDone() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for phase, status := range b.phases {
		if status == pipeline.StatusRunning {
			b.phases[phase] = pipeline.StatusDone
		}
	}
}

// Phase returns one phase's current status.
func (b *Board) Phase(name string) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.phases[name]
}

// Snapshot returns a copy of the full board.
func (b *Board) Snapshot() map[string]string {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make(map[string]string, len(b.phases))
	for k, v := range b.phases {
		out[k] = v
	}
	return out
}

// Progress derives the coarse run progress: done phases count in full,
// running phases half. The returned value is clamped to [0, 1] and never
// decreases within a run; only Reset drops it back to zero.
func (b *Board) Progress() float64 {
	b.mu.Lock()
	defer b.mu.Unlock()

	var done, running int
	for _, status := range b.phases {
		switch status {
		case pipeline.StatusDone:
			done++
		case pipeline.StatusRunning:
			running++
		}
	}

	progress := (float64(done) + 0.5*float64(running)) / float64(len(b.phases))
	if progress > 1 {
		progress = 1
	}
	if progress > b.highWater {
		b.highWater = progress
	}
	return b.highWater
}
