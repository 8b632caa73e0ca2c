package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"fiberops-assistant-be/pkg/projectdata"
	"fiberops-assistant-be/pkg/prompt"

	"github.com/spf13/cobra"
)

func newFindCmd(app *App) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "find <text>",
		Short: "Find the first project whose identifier appears in the text",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := load(cmd, app); err != nil {
				return err
			}

			text := strings.Join(args, " ")
			rec, err := app.Store.FindProjectReferencedIn(text)
			if errors.Is(err, projectdata.ErrNotFound) {
				warnColor.Fprintf(cmd.OutOrStdout(), "No project referenced in %q\n", text)
				return err
			}
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(rec)
			}

			var sb strings.Builder
			prompt.WriteProject(&sb, *rec)
			headColor.Fprintln(cmd.OutOrStdout(), rec.ID)
			fmt.Fprint(cmd.OutOrStdout(), sb.String())
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the record as JSON")
	return cmd
}
