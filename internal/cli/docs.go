package cli

import (
	"planline/internal/docs"

	"github.com/spf13/cobra"
)

func newDocsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "docs [topic]",
		Short: "Show embedded documentation topics",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			topic := ""
			if len(args) == 1 {
				topic = args[0]
			}
			out, err := docs.Render(topic)
			if err != nil {
				return writeErr(cmd, err)
			}
			cmd.Print(out)
			return nil
		},
	}
}
