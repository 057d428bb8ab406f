package cli

import (
	"planline/internal/store"

	"github.com/spf13/cobra"
)

func newInitCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the data dir and default state",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := resolveDir(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			s := store.Store{Dir: dir}
			st, err := s.Load()
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := s.Save(st); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"dir":      dir,
				"projects": len(st.Projects),
			})
		},
	}
}
