package tui

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/tenderfit/tenderctl/internal/lane"
	"github.com/tenderfit/tenderctl/internal/orchestrator"
	"github.com/tenderfit/tenderctl/internal/pipeline"
	"github.com/tenderfit/tenderctl/internal/report"
)

func sampleSnapshot() orchestrator.Snapshot {
	return orchestrator.Snapshot{
		RunID:    "r1",
		State:    orchestrator.StateEvaluating,
		Progress: 0.5,
		Board: map[string]string{
			pipeline.PhaseScout:     pipeline.StatusDone,
			pipeline.PhaseCollector: pipeline.StatusDone,
			pipeline.PhaseExtractor: pipeline.StatusRunning,
			pipeline.PhaseVerifier:  pipeline.StatusIdle,
			pipeline.PhaseArbiter:   pipeline.StatusIdle,
			pipeline.PhaseShortlist: pipeline.StatusIdle,
		},
		Lanes: []lane.Lane{{
			BidID:   "GEM/2025/B-100",
			Stages:  map[string]string{pipeline.StageCollector: pipeline.StatusDone, pipeline.StageExtractor: pipeline.StatusRunning},
			Logs:    []string{"extractor.start bid=GEM/2025/B-100"},
			Current: pipeline.StageExtractor,
		}},
		Narration: []string{"Scan matched 5 bids; collecting documents for 3"},
	}
}

func TestUpdateStoresSnapshot(t *testing.T) {
	t.Parallel()

	m := NewModel()
	next, _ := m.Update(SnapshotMsg{Snapshot: sampleSnapshot()})
	model := next.(Model)
	require.Equal(t, orchestrator.StateEvaluating, model.snap.State)
	require.Len(t, model.snap.Lanes, 1)
}

func TestUpdateQuitsOnRunFinished(t *testing.T) {
	t.Parallel()

	m := NewModel()
	next, cmd := m.Update(RunFinishedMsg{Err: errors.New("boom")})
	model := next.(Model)
	require.NotNil(t, cmd)
	require.True(t, model.finished)
	require.EqualError(t, model.Err(), "boom")
}

func TestUpdateQuitsOnCtrlC(t *testing.T) {
	t.Parallel()

	m := NewModel()
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	model := next.(Model)
	require.NotNil(t, cmd)
	require.True(t, model.Quitting())
}

func TestViewRendersLanesAndBoard(t *testing.T) {
	t.Parallel()

	m := NewModel()
	next, _ := m.Update(SnapshotMsg{Snapshot: sampleSnapshot()})
	view := next.(Model).View()

	require.Contains(t, view, "TenderFit Control Room")
	require.Contains(t, view, "GEM/2025/B-100")
	require.Contains(t, view, "extractor")
	require.Contains(t, view, "Scan matched 5 bids")
}

func TestViewShowsFinalRemarkAndBest(t *testing.T) {
	t.Parallel()

	snap := sampleSnapshot()
	snap.State = orchestrator.StateComplete
	snap.Message = report.RemarkShortlistFilled
	snap.Best = &report.Row{BidID: "GEM/2025/B-100", FitScore: 91, Decision: "go"}

	m := NewModel()
	next, _ := m.Update(SnapshotMsg{Snapshot: snap})
	next, _ = next.(Model).Update(RunFinishedMsg{})
	view := next.(Model).View()

	require.Contains(t, view, report.RemarkShortlistFilled)
	require.Contains(t, view, "(fit 91.0, go)")
}
