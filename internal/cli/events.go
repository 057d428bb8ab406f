package cli

import (
	"context"

	"github.com/spf13/cobra"
)

func newEventsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Read the mutation history",
	}

	var limit int
	var entity string
	list := &cobra.Command{
		Use:   "list",
		Short: "List history events, oldest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, s, err := loadState(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			evs, err := s.ReadEvents(context.Background(), limit, entity)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": evs,
				"meta": map[string]any{"count": len(evs)},
			})
		},
	}
	list.Flags().IntVar(&limit, "limit", 0, "Max events (0 = all)")
	list.Flags().StringVar(&entity, "entity", "", "Filter by entity id")
	cmd.AddCommand(list)

	return cmd
}
