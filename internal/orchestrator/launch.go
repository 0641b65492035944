package orchestrator

import (
	"github.com/tenderfit/tenderctl/internal/api"
	"github.com/tenderfit/tenderctl/internal/pipeline"
)

// Launchers: each submits one job, opens its event stream, and binds a
// handler that wraps events in run/phase/bid envelopes for the inbox. A
// submission failure is returned synchronously and opens no stream.

func (c *Controller) launchScan(r *run) error {
	jobID, err := c.jobs.SubmitScan(r.ctx, api.ScanParams{
		Keywords:         c.cfg.Scan.Keywords,
		Days:             c.cfg.Scan.Days,
		Top:              c.cfg.Scan.Top,
		MaxPages:         c.cfg.Scan.MaxPages,
		LLMFilter:        c.cfg.Scan.LLMFilter,
		LLMMaxCandidates: c.cfg.Scan.LLMMaxCandidates,
		LLMBatchSize:     c.cfg.Scan.LLMBatchSize,
		ForceRefresh:     c.cfg.Scan.ForceRefresh,
	})
	if err != nil {
		return err
	}

	r.board.SetPhase(pipeline.PhaseScout, pipeline.StatusRunning)
	return c.bindStream(r, pipeline.JobScan, "", jobID)
}

func (c *Controller) launchFetch(r *run, bidID string) error {
	jobID, err := c.jobs.SubmitFetch(r.ctx, api.FetchParams{
		BidID:    bidID,
		CacheDir: c.cfg.Run.CacheDir,
	})
	if err != nil {
		return err
	}
	return c.bindStream(r, pipeline.JobFetch, bidID, jobID)
}

func (c *Controller) launchEvaluate(r *run, bidID string) error {
	jobID, err := c.jobs.SubmitEvaluate(r.ctx, api.EvaluateParams{
		BidID:       bidID,
		CompanyPath: c.cfg.Run.CompanyProfile,
	})
	if err != nil {
		return err
	}
	return c.bindStream(r, pipeline.JobEvaluate, bidID, jobID)
}

func (c *Controller) launchShortlist(r *run) error {
	jobID, err := c.jobs.SubmitShortlist(r.ctx, api.ShortlistParams{
		CompanyPath: c.cfg.Run.CompanyProfile,
		Top:         c.cfg.Run.ShortlistTop,
	})
	if err != nil {
		return err
	}

	r.board.SetPhase(pipeline.PhaseShortlist, pipeline.StatusRunning)
	return c.bindStream(r, pipeline.JobShortlist, "", jobID)
}

func (c *Controller) bindStream(r *run, kind pipeline.JobKind, bidID, jobID string) error {
	runID := r.id
	runCtx := r.ctx
	inbox := r.inbox
	s, err := c.streams.Open(runCtx, kind, jobID, func(ev pipeline.Event) {
		c.post(runCtx, inbox, envelope{runID: runID, kind: kind, bidID: bidID, event: ev})
	})
	if err != nil {
		return err
	}

	c.mu.Lock()
	r.streams = append(r.streams, s)
	c.mu.Unlock()
	return nil
}
