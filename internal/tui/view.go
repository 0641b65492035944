package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/tenderfit/tenderctl/internal/orchestrator"
	"github.com/tenderfit/tenderctl/internal/pipeline"
)

// View renders the current state of the model.
func (m Model) View() string {
	var sections []string

	title := titleStyle.Render("TenderFit Control Room")
	if !m.finished && m.snap.State != orchestrator.StateIdle {
		title = lipgloss.JoinHorizontal(lipgloss.Left, title, " ", m.spinner.View(), " ", string(m.snap.State))
	}
	sections = append(sections, title)

	sections = append(sections, sectionStyle.Render("Pipeline"), m.renderBoard())

	if len(m.snap.Lanes) > 0 {
		sections = append(sections, sectionStyle.Render("Bids"), m.renderLanes())
	}

	if len(m.snap.Narration) > 0 {
		sections = append(sections, sectionStyle.Render("Activity"), strings.Join(m.snap.Narration, "\n"))
	}

	if m.snap.Best != nil {
		sections = append(sections, sectionStyle.Render("Top bid"),
			fmt.Sprintf(" %s (fit %.1f, %s)", m.snap.Best.BidID, m.snap.Best.FitScore, m.snap.Best.Decision))
	}

	if m.finished && m.snap.Message != "" {
		sections = append(sections, remarkStyle.Render(m.snap.Message))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderBoard() string {
	var cells []string
	for _, phase := range pipeline.MacroPhases() {
		status := m.snap.Board[phase]
		cells = append(cells, fmt.Sprintf("%s %s", StatusIcon(status), phase))
	}
	line := " " + strings.Join(cells, "  ")
	bar := " " + m.bar.ViewAs(m.snap.Progress)
	return lipgloss.JoinVertical(lipgloss.Left, line, bar)
}

func (m Model) renderLanes() string {
	var lines []string
	for _, ln := range m.snap.Lanes {
		var glyphs []string
		for _, stage := range pipeline.LaneStages() {
			glyphs = append(glyphs, StatusIcon(ln.Stages[stage]))
		}
		line := fmt.Sprintf(" %s [%s] %s", laneStyle.Render(ln.BidID), strings.Join(glyphs, " "), currentLabel(ln.Current))
		lines = append(lines, line)
		if tail, ok := lastLog(ln.Logs); ok {
			lines = append(lines, logStyle.Render("   "+tail))
		}
	}
	return strings.Join(lines, "\n")
}

func currentLabel(current string) string {
	switch current {
	case pipeline.CurrentQueued:
		return idleStyle.Render("queued")
	case pipeline.CurrentComplete:
		return doneStyle.Render("complete")
	default:
		return runningStyle.Render(current)
	}
}

func lastLog(logs []string) (string, bool) {
	for i := len(logs) - 1; i >= 0; i-- {
		if strings.TrimSpace(logs[i]) != "" {
			return logs[i], true
		}
	}
	return "", false
}

// StatusIcon returns the glyph representing a stage status.
func StatusIcon(status string) string {
	switch status {
	case pipeline.StatusDone:
		return doneStyle.Render("✓")
	case pipeline.StatusRunning:
		return runningStyle.Render("⏳")
	case pipeline.StatusError:
		return errorStyle.Render("✗")
	default:
		return idleStyle.Render("…")
	}
}
