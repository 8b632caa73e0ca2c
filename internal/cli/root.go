package cli

import (
	"context"

	"fiberops-assistant-be/pkg/nats"
	"fiberops-assistant-be/pkg/projectdata"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// EventWatcher streams bus events. *nats.Subscriber implements it.
type EventWatcher interface {
	Watch(ctx context.Context, subject string, handler nats.EventHandler) error
	Close()
}

// App holds what the operator commands need.
type App struct {
	Store *projectdata.Store

	// NewWatcher connects to the event bus on demand; only watch uses it.
	NewWatcher func() (EventWatcher, error)
}

var (
	okColor   = color.New(color.FgGreen)
	warnColor = color.New(color.FgYellow)
	errColor  = color.New(color.FgRed)
	headColor = color.New(color.FgCyan, color.Bold)
)

func NewRootCmd(app *App) *cobra.Command {
	var noColor bool

	root := &cobra.Command{
		Use:           "projectctl",
		Short:         "Inspect live fiber project data from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if noColor {
				color.NoColor = true
			}
		},
	}
	root.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	root.AddCommand(
		newRefreshCmd(app),
		newFindCmd(app),
		newSummaryCmd(app),
		newWatchCmd(app),
	)

	return root
}
