package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newReportCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report <path>",
		Short: "Fetch a server-side artifact (report markdown, shortlist CSV) and print it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := buildAppContext(flags)
			if err != nil {
				return err
			}

			content, err := app.client.ReadFile(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			fmt.Fprint(cmd.OutOrStdout(), content)
			return nil
		},
	}

	return cmd
}
