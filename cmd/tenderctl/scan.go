package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tenderfit/tenderctl/internal/api"
	"github.com/tenderfit/tenderctl/internal/pipeline"
	tenderrors "github.com/tenderfit/tenderctl/pkg/errors"
)

func newScanCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Run only the discovery phase and list the matched bids",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := buildAppContext(flags)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if err := app.client.Health(ctx); err != nil {
				return err
			}

			jobID, err := app.client.SubmitScan(ctx, api.ScanParams{
				Keywords:         app.cfg.Scan.Keywords,
				Days:             app.cfg.Scan.Days,
				Top:              app.cfg.Scan.Top,
				MaxPages:         app.cfg.Scan.MaxPages,
				LLMFilter:        app.cfg.Scan.LLMFilter,
				LLMMaxCandidates: app.cfg.Scan.LLMMaxCandidates,
				LLMBatchSize:     app.cfg.Scan.LLMBatchSize,
				ForceRefresh:     app.cfg.Scan.ForceRefresh,
			})
			if err != nil {
				return err
			}

			events := make(chan pipeline.Event, 64)
			s, err := app.streams.Open(ctx, pipeline.JobScan, jobID, func(ev pipeline.Event) {
				events <- ev
			})
			if err != nil {
				return err
			}
			defer s.Close()

			log := app.log.WithJob(string(pipeline.JobScan), jobID)
			for {
				select {
				case <-ctx.Done():
					return ctx.Err()
				case ev := <-events:
					switch ev.Type {
					case pipeline.EventLog:
						log.Debug(ev.Line)
					case pipeline.EventDone:
						res, err := pipeline.ParseScanResult(ev.Result)
						if err != nil {
							return err
						}
						printBids(cmd, res)
						return nil
					case pipeline.EventError:
						return tenderrors.NewRunError(string(pipeline.JobScan), ev.Error, nil)
					}
				}
			}
		},
	}

	return cmd
}

func printBids(cmd *cobra.Command, res pipeline.ScanResult) {
	out := cmd.OutOrStdout()
	if len(res.Bids) == 0 {
		fmt.Fprintln(out, "No matching bids.")
		return
	}
	fmt.Fprintf(out, "Matched %d bids", len(res.Bids))
	if res.Total > 0 {
		fmt.Fprintf(out, " of %d scanned", res.Total)
	}
	fmt.Fprintln(out)
	for _, bid := range res.Bids {
		if bid.Title != "" {
			fmt.Fprintf(out, "  %-24s %s\n", bid.BidID, bid.Title)
			continue
		}
		fmt.Fprintf(out, "  %s\n", bid.BidID)
	}
}
