package cli

import (
	"planline/internal/store"

	"github.com/spf13/cobra"
)

func newTimelineCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "timeline [project-id]",
		Short: "Open the interactive timeline TUI (optionally on one project)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			projectID := ""
			if len(args) == 1 {
				projectID = args[0]
				st, _, err := loadState(app)
				if err != nil {
					return writeErr(cmd, err)
				}
				if store.FindProject(st, projectID) == nil {
					return writeErr(cmd, errNotFound("project", projectID))
				}
			}
			return runTUI(app, projectID)
		},
	}
}
