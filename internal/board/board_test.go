package board

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tenderfit/tenderctl/internal/pipeline"
)

func TestNewBoardAllIdle(t *testing.T) {
	t.Parallel()

	b := New()
	snap := b.Snapshot()
	require.Len(t, snap, len(pipeline.MacroPhases()))
	for _, status := range snap {
		require.Equal(t, pipeline.StatusIdle, status)
	}
	require.Zero(t, b.Progress())
}

func TestSetPhaseIgnoresUnknownNames(t *testing.T) {
	t.Parallel()

	b := New()
	b.SetPhase("warp-drive", pipeline.StatusRunning)
	_, ok := b.Snapshot()["warp-drive"]
	require.False(t, ok)
}

func TestProgressWeightsRunningHalf(t *testing.T) {
	t.Parallel()

	b := New()
	b.SetPhase(pipeline.PhaseScout, pipeline.StatusDone)
	b.SetPhase(pipeline.PhaseCollector, pipeline.StatusRunning)

	// (1 + 0.5) / 6
	require.InDelta(t, 0.25, b.Progress(), 1e-9)
}

func TestProgressIsMonotonicWithinRun(t *testing.T) {
	t.Parallel()

	b := New()
	b.SetPhase(pipeline.PhaseScout, pipeline.StatusRunning)
	b.SetPhase(pipeline.PhaseCollector, pipeline.StatusRunning)
	first := b.Progress()

	// A phase degrading to error would lower the raw ratio; the reported
	// value must hold its high-water mark.
	b.SetPhase(pipeline.PhaseCollector, pipeline.StatusError)
	require.GreaterOrEqual(t, b.Progress(), first)

	b.SetPhase(pipeline.PhaseScout, pipeline.StatusDone)
	require.GreaterOrEqual(t, b.Progress(), first)
}

func TestResetClearsHighWater(t *testing.T) {
	t.Parallel()

	b := New()
	for _, phase := range pipeline.MacroPhases() {
		b.SetPhase(phase, pipeline.StatusDone)
	}
	require.InDelta(t, 1.0, b.Progress(), 1e-9)

	b.Reset()
	require.Zero(t, b.Progress())
	for _, status := range b.Snapshot() {
		require.Equal(t, pipeline.StatusIdle, status)
	}
}

func TestMarkAllRunningDone(t *testing.T) {
	t.Parallel()

	b := New()
	b.SetPhase(pipeline.PhaseScout, pipeline.StatusDone)
	b.SetPhase(pipeline.PhaseCollector, pipeline.StatusRunning)
	b.SetPhase(pipeline.PhaseVerifier, pipeline.StatusRunning)
	b.SetPhase(pipeline.PhaseArbiter, pipeline.StatusError)

	b.MarkAllRunningDone()

	snap := b.Snapshot()
	require.Equal(t, pipeline.StatusDone, snap[pipeline.PhaseCollector])
	require.Equal(t, pipeline.StatusDone, snap[pipeline.PhaseVerifier])
	require.Equal(t, pipeline.StatusError, snap[pipeline.PhaseArbiter])
	require.Equal(t, pipeline.StatusIdle, snap[pipeline.PhaseShortlist])
}
