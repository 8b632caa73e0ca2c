package cli

import (
	"fmt"
	"io"
	"time"

	"fiberops-assistant-be/pkg/projectdata"

	"github.com/spf13/cobra"
)

func newRefreshCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Download both workbooks once and report what was loaded",
		RunE: func(cmd *cobra.Command, args []string) error {
			start := time.Now()
			snap, err := app.Store.Refresh(cmd.Context())
			if err != nil {
				errColor.Fprintf(cmd.OutOrStdout(), "✗ refresh failed: %v\n", err)
				return err
			}
			printSnapshot(cmd.OutOrStdout(), snap, time.Since(start))
			return nil
		},
	}
}

func printSnapshot(w io.Writer, snap *projectdata.Snapshot, took time.Duration) {
	okColor.Fprintf(w, "✓ %d projects loaded", len(snap.Projects))
	fmt.Fprintf(w, " in %s\n", took.Round(time.Millisecond))
	if snap.LocateAvailable {
		fmt.Fprintf(w, "  locate tickets: %d across %d projects\n", snap.TicketCount(), len(snap.Tickets))
	} else {
		warnColor.Fprintln(w, "  locate tickets: unavailable")
	}
	for _, warn := range snap.Warnings {
		warnColor.Fprintf(w, "  warning: %s\n", warn)
	}
}

// load refreshes before a read-only command; the CLI has no long-lived snapshot.
func load(cmd *cobra.Command, app *App) error {
	if _, err := app.Store.Refresh(cmd.Context()); err != nil {
		errColor.Fprintf(cmd.ErrOrStderr(), "project data unavailable: %v\n", err)
		return err
	}
	return nil
}
