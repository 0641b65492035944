package main

import (
	"context"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/tenderfit/tenderctl/internal/orchestrator"
	"github.com/tenderfit/tenderctl/internal/tui"
)

func newRunCmd(flags *rootFlags) *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the full pipeline: scan, fetch and evaluate each bid, then shortlist",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := buildAppContext(flags)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if err := app.client.Health(ctx); err != nil {
				return err
			}

			ctrl := orchestrator.New(app.cfg, app.client, orchestrator.NewSSEOpener(app.streams), app.log)

			if plain || !term.IsTerminal(int(os.Stdout.Fd())) {
				return runPlain(ctx, cmd, ctrl)
			}
			return runDashboard(ctx, cmd, ctrl)
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "Log progress instead of rendering the dashboard")
	return cmd
}

// runPlain narrates the run through stdout lines as transitions happen.
func runPlain(ctx context.Context, cmd *cobra.Command, ctrl *orchestrator.Controller) error {
	out := cmd.OutOrStdout()

	narrated := 0
	ctrl.SetObserver(func(snap orchestrator.Snapshot) {
		fresh := snap.NarrationTotal - narrated
		if fresh > len(snap.Narration) {
			fresh = len(snap.Narration)
		}
		for _, line := range snap.Narration[len(snap.Narration)-fresh:] {
			fmt.Fprintln(out, line)
		}
		narrated = snap.NarrationTotal
	})

	snap, err := ctrl.Run(ctx)
	if err != nil {
		return err
	}

	printOutcome(out, snap)
	return nil
}

// runDashboard renders the live TUI, pumping orchestrator snapshots into the
// Bubbletea program and cancelling the run if the user quits early.
func runDashboard(ctx context.Context, cmd *cobra.Command, ctrl *orchestrator.Controller) error {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	program := tea.NewProgram(tui.NewModel(), tea.WithContext(runCtx))
	ctrl.SetObserver(func(snap orchestrator.Snapshot) {
		program.Send(tui.SnapshotMsg{Snapshot: snap})
	})

	type runResult struct {
		snap orchestrator.Snapshot
		err  error
	}
	done := make(chan runResult, 1)
	go func() {
		snap, err := ctrl.Run(runCtx)
		done <- runResult{snap: snap, err: err}
		program.Send(tui.RunFinishedMsg{Err: err})
	}()

	final, err := program.Run()
	cancel()
	res := <-done

	if model, ok := final.(tui.Model); ok && model.Quitting() {
		fmt.Fprintln(cmd.OutOrStdout(), "run cancelled")
		return nil
	}
	if err != nil && res.err == nil {
		return err
	}
	if res.err != nil {
		return res.err
	}

	printOutcome(cmd.OutOrStdout(), res.snap)
	return nil
}

func printOutcome(out io.Writer, snap orchestrator.Snapshot) {
	if snap.Message != "" {
		fmt.Fprintln(out, snap.Message)
	}
	if snap.Best != nil {
		fmt.Fprintf(out, "Top bid: %s (fit %.1f, %s)\n", snap.Best.BidID, snap.Best.FitScore, snap.Best.Decision)
	}
	for _, row := range snap.Rows {
		fmt.Fprintf(out, "  %-24s %6.1f  %s\n", row.BidID, row.FitScore, row.Decision)
	}
}
