package orchestrator

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/tenderfit/tenderctl/internal/api"
	"github.com/tenderfit/tenderctl/internal/board"
	"github.com/tenderfit/tenderctl/internal/config"
	"github.com/tenderfit/tenderctl/internal/lane"
	"github.com/tenderfit/tenderctl/internal/logger"
	"github.com/tenderfit/tenderctl/internal/pipeline"
	"github.com/tenderfit/tenderctl/internal/report"
	"github.com/tenderfit/tenderctl/internal/stream"
)

// State is the controller's run-level state machine position.
type State string

const (
	StateIdle        State = "idle"
	StateDiscovering State = "discovering"
	StateCollecting  State = "collecting"
	StateEvaluating  State = "evaluating"
	StateAggregating State = "aggregating"
	StateComplete    State = "complete"
	StateFailed      State = "failed"
)

// Terminal reports whether the state ends a run.
func (s State) Terminal() bool {
	return s == StateComplete || s == StateFailed
}

// JobService is the job-submission surface the controller drives. It is
// implemented by api.Client.
type JobService interface {
	SubmitScan(ctx context.Context, params api.ScanParams) (string, error)
	SubmitFetch(ctx context.Context, params api.FetchParams) (string, error)
	SubmitEvaluate(ctx context.Context, params api.EvaluateParams) (string, error)
	SubmitShortlist(ctx context.Context, params api.ShortlistParams) (string, error)
	ReadFile(ctx context.Context, path string) (string, error)
}

// JobStream is one open event stream owned by the current run.
type JobStream interface {
	Close() error
}

// StreamOpener opens per-job event streams. Handlers receive events in
// stream order.
type StreamOpener interface {
	Open(ctx context.Context, phase pipeline.JobKind, jobID string, handler stream.Handler) (JobStream, error)
}

type sseOpener struct {
	opener *stream.Opener
}

// NewSSEOpener adapts the stream package's Opener to the controller's
// StreamOpener interface.
func NewSSEOpener(opener *stream.Opener) StreamOpener {
	return sseOpener{opener: opener}
}

func (s sseOpener) Open(ctx context.Context, phase pipeline.JobKind, jobID string, handler stream.Handler) (JobStream, error) {
	st, err := s.opener.Open(ctx, phase, jobID, handler)
	if err != nil {
		return nil, err
	}
	return st, nil
}

// envelope wraps a stream event with the run, phase, and bid it belongs to,
// so the controller can fence stale deliveries and route per-lane updates.
type envelope struct {
	runID string
	kind  pipeline.JobKind
	bidID string
	event pipeline.Event
}

// run is the state of one pipeline execution: exactly one may be active.
// Each run owns its inbox, so a superseded run's streams can never feed
// envelopes into the run that replaced it.
type run struct {
	id        string
	ctx       context.Context
	cancel    context.CancelFunc
	inbox     chan envelope
	state     State
	board     *board.Board
	lanes     *lane.Store
	narration *report.Narration

	fanout             []string
	pendingCollections int
	pendingEvaluations int
	collected          map[string]bool
	evaluated          map[string]bool
	shortlistLaunched  bool

	streams []JobStream

	message string
	err     error
	rows    []report.Row
	best    *report.Row
}

// Controller owns the fan-out/fan-in state machine: it launches jobs, drains
// every stream's events through the run's inbox, and sequences phase
// transitions. All run state mutates on the controller's loop goroutine only.
type Controller struct {
	cfg     *config.Config
	jobs    JobService
	streams StreamOpener
	log     *logger.Logger

	observer func(Snapshot)

	mu   sync.Mutex
	run  *run
	last Snapshot
}

// New creates a Controller. The observer, when set, receives a snapshot
// after every applied event; it runs on the controller goroutine and must
// not block.
func New(cfg *config.Config, jobs JobService, streams StreamOpener, log *logger.Logger) *Controller {
	if log == nil {
		log = logger.Discard()
	}
	return &Controller{
		cfg:     cfg,
		jobs:    jobs,
		streams: streams,
		log:     log,
	}
}

// SetObserver registers the snapshot callback. Must be called before Run.
func (c *Controller) SetObserver(fn func(Snapshot)) {
	c.observer = fn
}

// Run executes one full pipeline: scan, per-bid fan-out (fetch chained into
// evaluate), and the final shortlist. It blocks until the run reaches a
// terminal state or ctx is cancelled. Starting a new run supersedes any
// prior one: the prior run's streams are closed, its context is cancelled so
// its Run call returns, and its late events are ignored.
func (c *Controller) Run(ctx context.Context) (Snapshot, error) {
	r := c.beginRun(ctx)
	defer c.closeStreams(r)
	defer r.cancel()

	log := c.log.WithRun(r.id)
	log.Info("run started")
	r.narration.Addf("Scanning for bids: %q", c.cfg.Scan.Keywords)
	c.publish(r)

	if err := c.launchScan(r); err != nil {
		c.fail(r, err)
		c.publish(r)
		return c.snapshot(r), err
	}

	for !r.state.Terminal() {
		select {
		case <-r.ctx.Done():
			// Covers both caller cancellation and supersession by a
			// newer run, which cancels this run's context in beginRun.
			c.fail(r, r.ctx.Err())
			c.publish(r)
			return c.snapshot(r), r.ctx.Err()
		case env := <-r.inbox:
			if env.runID != r.id {
				continue
			}
			c.apply(r, env)
			c.publish(r)
		}
	}

	log.Info("run finished: " + string(r.state))
	return c.snapshot(r), r.err
}

// beginRun releases the previous run's streams before any fresh state is
// touched, then installs the new run.
func (c *Controller) beginRun(ctx context.Context) *run {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.run != nil {
		for _, s := range c.run.streams {
			_ = s.Close()
		}
		c.run.cancel()
	}

	runCtx, cancel := context.WithCancel(ctx)
	r := &run{
		id:        uuid.NewString(),
		ctx:       runCtx,
		cancel:    cancel,
		inbox:     make(chan envelope, 1024),
		state:     StateDiscovering,
		board:     board.New(),
		lanes:     lane.NewStore(),
		narration: &report.Narration{},
		collected: make(map[string]bool),
		evaluated: make(map[string]bool),
	}
	c.run = r
	return r
}

func (c *Controller) closeStreams(r *run) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, s := range r.streams {
		_ = s.Close()
	}
	r.streams = nil
}

func (c *Controller) fail(r *run, err error) {
	r.state = StateFailed
	r.err = err
	if err != nil {
		r.message = err.Error()
		r.narration.Add("Run failed: " + err.Error())
	}
	c.closeStreams(r)
}

// post hands a stream event to its run's inbox. It blocks only while the
// inbox is full; a cancelled run unblocks it.
func (c *Controller) post(ctx context.Context, inbox chan envelope, env envelope) {
	select {
	case inbox <- env:
	case <-ctx.Done():
	}
}

// publish caches the run's latest snapshot for external readers and feeds
// the observer, if any. A run that has been superseded publishes nothing, so
// its shutdown cannot stomp the active run's cached state.
func (c *Controller) publish(r *run) {
	snap := c.snapshot(r)

	c.mu.Lock()
	if c.run != r {
		c.mu.Unlock()
		return
	}
	c.last = snap
	c.mu.Unlock()

	if c.observer != nil {
		c.observer(snap)
	}
}
