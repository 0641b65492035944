package orchestrator

import (
	"github.com/tenderfit/tenderctl/internal/pipeline"
	"github.com/tenderfit/tenderctl/internal/report"
	tenderrors "github.com/tenderfit/tenderctl/pkg/errors"
)

// apply is the single state-transition function: every stream event passes
// through here, on the loop goroutine, after stale-run fencing.
func (c *Controller) apply(r *run, env envelope) {
	switch env.kind {
	case pipeline.JobScan:
		c.applyScan(r, env.event)
	case pipeline.JobFetch:
		c.applyFetch(r, env.bidID, env.event)
	case pipeline.JobEvaluate:
		c.applyEvaluate(r, env.bidID, env.event)
	case pipeline.JobShortlist:
		c.applyShortlist(r, env.event)
	}
}

func (c *Controller) applyScan(r *run, ev pipeline.Event) {
	log := c.log.WithRun(r.id).WithJob(string(pipeline.JobScan), "")
	switch ev.Type {
	case pipeline.EventLog:
		log.Debug(ev.Line)

	case pipeline.EventStage:
		r.board.SetPhase(ev.Stage, ev.Status)

	case pipeline.EventDone:
		res, err := pipeline.ParseScanResult(ev.Result)
		if err != nil {
			c.fail(r, tenderrors.NewRunError(string(pipeline.JobScan), "scan produced an unreadable result", err))
			return
		}

		r.board.MarkAllRunningDone()
		r.board.SetPhase(pipeline.PhaseScout, pipeline.StatusDone)

		if len(res.Bids) == 0 {
			r.message = report.NoBidsMessage
			r.narration.Add(report.NoBidsMessage)
			r.state = StateComplete
			c.closeStreams(r)
			return
		}

		fanout := selectFanOut(res.Bids, c.cfg.Run.FanOut)
		r.fanout = fanout
		r.lanes.CreateLanes(fanout)
		r.pendingCollections = len(fanout)
		r.pendingEvaluations = len(fanout)
		r.state = StateCollecting
		r.board.SetPhase(pipeline.PhaseCollector, pipeline.StatusRunning)
		r.narration.Addf("Scan matched %d bids; collecting documents for %d", len(res.Bids), len(fanout))

		for _, bidID := range fanout {
			if err := c.launchFetch(r, bidID); err != nil {
				c.collectionFailed(r, bidID, err.Error())
			}
		}

	case pipeline.EventError:
		c.fail(r, tenderrors.NewRunError(string(pipeline.JobScan), ev.Error, nil))
	}
}

func (c *Controller) applyFetch(r *run, bidID string, ev pipeline.Event) {
	switch ev.Type {
	case pipeline.EventLog:
		r.lanes.AppendLog(bidID, ev.Line)

	case pipeline.EventStage:
		c.applyLaneStage(r, bidID, ev)

	case pipeline.EventDone:
		if r.collected[bidID] {
			return
		}
		r.collected[bidID] = true

		r.lanes.CompleteRunning(bidID)
		r.narration.Addf("Documents collected for %s", bidID)
		c.decrementCollections(r)

		// Collection chains straight into evaluation per bid; siblings
		// are not gated on each other.
		if err := c.launchEvaluate(r, bidID); err != nil {
			r.lanes.AppendLog(bidID, "evaluation failed to start: "+err.Error())
			r.lanes.FailRunning(bidID)
			r.narration.Addf("Evaluation failed to start for %s", bidID)
			c.evaluationSettled(r, bidID)
		}

	case pipeline.EventError:
		c.collectionFailed(r, bidID, ev.Error)
	}
}

func (c *Controller) applyEvaluate(r *run, bidID string, ev pipeline.Event) {
	switch ev.Type {
	case pipeline.EventLog:
		r.lanes.AppendLog(bidID, ev.Line)

	case pipeline.EventStage:
		c.applyLaneStage(r, bidID, ev)

	case pipeline.EventDone:
		if r.evaluated[bidID] {
			return
		}
		r.lanes.CompleteRunning(bidID)
		r.lanes.SetCurrent(bidID, pipeline.CurrentComplete)
		r.narration.Addf("Evaluation complete for %s", bidID)
		c.evaluationSettled(r, bidID)

	case pipeline.EventError:
		if r.evaluated[bidID] {
			return
		}
		if ev.Error != "" {
			r.lanes.AppendLog(bidID, ev.Error)
		}
		if ln, ok := r.lanes.Lane(bidID); ok {
			if phase, known := pipeline.MacroPhaseFor(ln.Current); known {
				r.board.SetPhase(phase, pipeline.StatusError)
			}
		}
		r.lanes.FailRunning(bidID)
		c.log.WithRun(r.id).WithBid(bidID).Warn("evaluation failed: " + ev.Error)
		r.narration.Addf("Evaluation failed for %s", bidID)
		c.evaluationSettled(r, bidID)
	}
}

func (c *Controller) applyShortlist(r *run, ev pipeline.Event) {
	log := c.log.WithRun(r.id).WithJob(string(pipeline.JobShortlist), "")
	switch ev.Type {
	case pipeline.EventLog:
		log.Debug(ev.Line)

	case pipeline.EventStage:
		r.board.SetPhase(ev.Stage, ev.Status)

	case pipeline.EventDone:
		res, err := pipeline.ParseShortlistResult(ev.Result)
		if err != nil {
			log.Error(err, "shortlist result unreadable")
		}

		r.board.MarkAllRunningDone()
		r.board.SetPhase(pipeline.PhaseShortlist, pipeline.StatusDone)
		r.rows = c.resolveShortlistRows(r, res)
		if best, ok := report.BestRow(r.rows); ok {
			r.best = &best
			r.narration.Addf("Top bid: %s (fit %.1f)", best.BidID, best.FitScore)
		}
		r.message = report.ClosingRemark(r.rows)
		r.narration.Add(r.message)
		r.state = StateComplete
		c.closeStreams(r)

	case pipeline.EventError:
		c.fail(r, tenderrors.NewRunError(string(pipeline.JobShortlist), ev.Error, nil))
	}
}

// applyLaneStage routes one stage event into the bid's lane and the macro
// board. Unknown stage names fall through untouched at both levels.
func (c *Controller) applyLaneStage(r *run, bidID string, ev pipeline.Event) {
	r.lanes.UpdateStage(bidID, ev.Stage, ev.Status)
	if ev.Status == pipeline.StatusRunning && pipeline.KnownStage(ev.Stage) {
		r.lanes.SetCurrent(bidID, ev.Stage)
	}
	if phase, ok := pipeline.MacroPhaseFor(ev.Stage); ok {
		r.board.SetPhase(phase, ev.Status)
	}
}

// collectionFailed records an entity-local collection failure. The bid's
// lane shows the error, both counters still settle so the run converges, and
// siblings keep going.
func (c *Controller) collectionFailed(r *run, bidID, message string) {
	if r.collected[bidID] {
		return
	}
	r.collected[bidID] = true

	if message != "" {
		r.lanes.AppendLog(bidID, message)
	}
	r.lanes.UpdateStage(bidID, pipeline.StageCollector, pipeline.StatusError)
	r.board.SetPhase(pipeline.PhaseCollector, pipeline.StatusError)
	c.log.WithRun(r.id).WithBid(bidID).Warn("collection failed: " + message)
	r.narration.Addf("Collection failed for %s", bidID)

	c.decrementCollections(r)
	c.evaluationSettled(r, bidID)
}

// decrementCollections clamps at zero. When the last collection settles, the
// collection macro phase closes out unless an entity-local error already
// marked it for visibility.
func (c *Controller) decrementCollections(r *run) {
	if r.pendingCollections > 0 {
		r.pendingCollections--
	}
	if r.pendingCollections != 0 {
		return
	}
	if r.board.Phase(pipeline.PhaseCollector) != pipeline.StatusError {
		r.board.SetPhase(pipeline.PhaseCollector, pipeline.StatusDone)
	}
	if r.state == StateCollecting {
		r.state = StateEvaluating
	}
}

// evaluationSettled marks one bid's evaluation as terminal, exactly once per
// bid, and fires the fan-in transition exactly once when the counter reaches
// zero. Duplicate terminal events for the same bid cannot decrement twice,
// and the counter never goes negative.
func (c *Controller) evaluationSettled(r *run, bidID string) {
	if r.evaluated[bidID] {
		return
	}
	r.evaluated[bidID] = true

	if r.pendingEvaluations > 0 {
		r.pendingEvaluations--
	}
	if r.pendingEvaluations != 0 || r.shortlistLaunched {
		return
	}
	r.shortlistLaunched = true

	r.board.MarkAllRunningDone()
	r.state = StateAggregating
	r.narration.Add("All evaluations settled; ranking the shortlist")
	if err := c.launchShortlist(r); err != nil {
		c.fail(r, err)
	}
}

// resolveShortlistRows fetches and parses the ranked CSV artifact. Artifact
// problems degrade to an empty projection rather than failing a run whose
// pipeline already completed.
func (c *Controller) resolveShortlistRows(r *run, res pipeline.ShortlistResult) []report.Row {
	if res.Out == "" {
		return nil
	}
	log := c.log.WithRun(r.id)

	content, err := c.jobs.ReadFile(r.ctx, res.Out)
	if err != nil {
		log.Error(err, "could not fetch shortlist artifact")
		return nil
	}
	rows, err := report.ParseShortlistCSV(content)
	if err != nil {
		log.Error(err, "could not parse shortlist artifact")
		return nil
	}
	return rows
}

// selectFanOut picks up to width bid ids, deduplicated in first-seen order.
func selectFanOut(bids []pipeline.Bid, width int) []string {
	seen := make(map[string]bool, width)
	var out []string
	for _, bid := range bids {
		if bid.BidID == "" || seen[bid.BidID] {
			continue
		}
		seen[bid.BidID] = true
		out = append(out, bid.BidID)
		if len(out) == width {
			break
		}
	}
	return out
}
