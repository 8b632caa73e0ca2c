package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"fiberops-assistant-be/pkg/events"

	"github.com/spf13/cobra"
)

func newWatchCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Stream refresh events published by running servers",
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.NewWatcher == nil {
				return fmt.Errorf("event bus not configured")
			}
			watcher, err := app.NewWatcher()
			if err != nil {
				return err
			}
			defer watcher.Close()

			out := cmd.OutOrStdout()
			headColor.Fprintln(out, "Watching refresh events (Ctrl+C to stop)")
			return watcher.Watch(cmd.Context(), "projects.>", func(ctx context.Context, ev events.Event) error {
				printEvent(out, ev)
				return nil
			})
		},
	}
}

func printEvent(w io.Writer, ev events.Event) {
	p := ev.Payload()
	stamp := ev.Timestamp().Format(time.TimeOnly)
	switch ev.EventType() {
	case events.TypeProjectsRefreshed:
		okColor.Fprintf(w, "%s ✓ refreshed", stamp)
		fmt.Fprintf(w, " version=%v projects=%v tickets=%v\n", p["version"], p["project_count"], p["ticket_count"])
	case events.TypeProjectsRefreshError:
		errColor.Fprintf(w, "%s ✗ refresh failed", stamp)
		fmt.Fprintf(w, " stale=%v error=%v\n", p["stale"], p["error"])
	default:
		fmt.Fprintf(w, "%s %s %v\n", stamp, ev.EventType(), p)
	}
}
