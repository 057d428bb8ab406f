package cli

import (
	"planline/internal/publish"
	"planline/internal/store"

	"github.com/spf13/cobra"
)

func newPublishCmd(app *App) *cobra.Command {
	var out string
	var overwrite bool
	cmd := &cobra.Command{
		Use:   "publish <project-id>",
		Short: "Export a project as Markdown",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, _, err := loadState(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			p := store.FindProject(st, args[0])
			if p == nil {
				return writeErr(cmd, errNotFound("project", args[0]))
			}
			res, err := publish.WriteProject(p, out, publish.WriteOptions{Overwrite: overwrite})
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, res)
		},
	}
	cmd.Flags().StringVar(&out, "out", "", "Output directory")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite existing files")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}
