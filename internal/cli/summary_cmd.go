package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newSummaryCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Roll projects up by supervisor",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := load(cmd, app); err != nil {
				return err
			}
			summaries, err := app.Store.SummarizeBySupervisor()
			if err != nil {
				return err
			}

			headColor.Fprintln(cmd.OutOrStdout(), "Supervisor rollup")
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "SUPERVISOR\tPROJECTS\tFT REMAINING\tAVG COMPLETE")
			for _, s := range summaries {
				fmt.Fprintf(tw, "%s\t%d\t%.0f\t%d%%\n", s.Supervisor, s.ProjectCount, s.FootageRemainingSum, s.AverageCompletionPct)
			}
			return tw.Flush()
		},
	}
}
