package lane

import (
	"sync"

	"github.com/tenderfit/tenderctl/internal/pipeline"
)

// LogCap bounds the per-lane log tail; oldest lines drop first.
const LogCap = 200

// Lane is the progress record for one bid: a status per pipeline stage, a
// bounded log tail, and the stage currently active.
type Lane struct {
	BidID   string
	Stages  map[string]string
	Logs    []string
	Current string
}

// Store holds one lane per bid in the active fan-out set. Every mutation is
// a read-modify-write over the whole lane, applied under a single lock, so
// concurrently delivered events for different bids can never interleave into
// a torn combined state.
type Store struct {
	mu    sync.Mutex
	lanes map[string]Lane
	order []string
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{lanes: make(map[string]Lane)}
}

// CreateLanes resets the store to exactly the given bids, deduplicated in
// first-seen order, each with every stage idle and an empty log.
func (s *Store) CreateLanes(bidIDs []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lanes = make(map[string]Lane, len(bidIDs))
	s.order = s.order[:0]

	for _, id := range bidIDs {
		if id == "" {
			continue
		}
		if _, exists := s.lanes[id]; exists {
			continue
		}
		stages := make(map[string]string)
		for _, stage := range pipeline.LaneStages() {
			stages[stage] = pipeline.StatusIdle
		}
		s.lanes[id] = Lane{
			BidID:   id,
			Stages:  stages,
			Current: pipeline.CurrentQueued,
		}
		s.order = append(s.order, id)
	}
}

// UpdateStage sets one stage's status. Unknown bids and stage names outside
// the closed stage set are ignored.
func (s *Store) UpdateStage(bidID, stage, status string) {
	if !pipeline.KnownStage(stage) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ln, ok := s.lanes[bidID]
	if !ok {
		return
	}

	stages := copyStages(ln.Stages)
	stages[stage] = status
	ln.Stages = stages
	s.lanes[bidID] = ln
}

// AppendLog adds a line to the lane's log tail, keeping at most LogCap lines.
func (s *Store) AppendLog(bidID, line string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ln, ok := s.lanes[bidID]
	if !ok {
		return
	}

	logs := append(append([]string(nil), ln.Logs...), line)
	if len(logs) > LogCap {
		logs = logs[len(logs)-LogCap:]
	}
	ln.Logs = logs
	s.lanes[bidID] = ln
}

// SetCurrent records which stage the lane is on, or a sentinel.
func (s *Store) SetCurrent(bidID, stage string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ln, ok := s.lanes[bidID]
	if !ok {
		return
	}
	ln.Current = stage
	s.lanes[bidID] = ln
}

// CompleteRunning flips every running stage of the lane to done. Used on a
// lane's terminal done event, since the final stage boundary for a
// multi-stage job does not individually mark each intermediate stage.
func (s *Store) CompleteRunning(bidID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ln, ok := s.lanes[bidID]
	if !ok {
		return
	}

	stages := copyStages(ln.Stages)
	for stage, status := range stages {
		if status == pipeline.StatusRunning {
			stages[stage] = pipeline.StatusDone
		}
	}
	ln.Stages = stages
	s.lanes[bidID] = ln
}

// FailRunning flips every running stage of the lane to error. Used when a
// lane's stream reports a terminal error mid-phase.
func (s *Store) FailRunning(bidID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ln, ok := s.lanes[bidID]
	if !ok {
		return
	}

	stages := copyStages(ln.Stages)
	for stage, status := range stages {
		if status == pipeline.StatusRunning {
			stages[stage] = pipeline.StatusError
		}
	}
	ln.Stages = stages
	s.lanes[bidID] = ln
}

// Lane returns a deep copy of one lane.
func (s *Store) Lane(bidID string) (Lane, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ln, ok := s.lanes[bidID]
	if !ok {
		return Lane{}, false
	}
	return copyLane(ln), true
}

// IDs returns the bid ids in creation order.
func (s *Store) IDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.order...)
}

// Snapshot returns deep copies of every lane in creation order.
func (s *Store) Snapshot() []Lane {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Lane, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, copyLane(s.lanes[id]))
	}
	return out
}

func copyStages(stages map[string]string) map[string]string {
	out := make(map[string]string, len(stages))
	for k, v := range stages {
		out[k] = v
	}
	return out
}

func copyLane(ln Lane) Lane {
	return Lane{
		BidID:   ln.BidID,
		Stages:  copyStages(ln.Stages),
		Logs:    append([]string(nil), ln.Logs...),
		Current: ln.Current,
	}
}
