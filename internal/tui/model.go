package tui

import (
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tenderfit/tenderctl/internal/orchestrator"
)

// SnapshotMsg carries the orchestrator's latest run state into the dashboard.
type SnapshotMsg struct {
	Snapshot orchestrator.Snapshot
}

// RunFinishedMsg reports that the run goroutine returned.
type RunFinishedMsg struct {
	Err error
}

// Model is the Bubbletea state for the run dashboard: the stage board, one
// lane per bid, and the narration feed, all rendered from snapshots.
type Model struct {
	spinner  spinner.Model
	bar      progress.Model
	snap     orchestrator.Snapshot
	finished bool
	quitting bool
	err      error
}

// NewModel constructs the dashboard model.
func NewModel() Model {
	sp := spinner.New()
	sp.Spinner = spinner.MiniDot

	bar := progress.New(progress.WithDefaultGradient())
	bar.Width = 40

	return Model{
		spinner: sp,
		bar:     bar,
		snap:    orchestrator.Snapshot{State: orchestrator.StateIdle},
	}
}

// Quitting reports whether the user cancelled the run from the dashboard.
func (m Model) Quitting() bool {
	return m.quitting
}

// Err returns the fatal run error, if any.
func (m Model) Err() error {
	return m.err
}

// Init starts the spinner tick loop.
func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}
