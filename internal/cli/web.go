package cli

import (
	"net/http"

	"planline/internal/web"

	"github.com/spf13/cobra"
)

func newWebCmd(app *App) *cobra.Command {
	var addr string
	var readOnly bool
	cmd := &cobra.Command{
		Use:   "web",
		Short: "Serve the timeline in a browser (localhost, single user)",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := resolveDir(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			srv, err := web.NewServer(web.ServerConfig{
				Addr:     addr,
				Dir:      dir,
				ReadOnly: readOnly,
			})
			if err != nil {
				return writeErr(cmd, err)
			}
			cmd.Printf("planline web listening on http://%s\n", srv.Addr())
			return http.ListenAndServe(srv.Addr(), srv.Handler())
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:8787", "Listen address")
	cmd.Flags().BoolVar(&readOnly, "read-only", false, "Serve a non-interactive timeline")
	return cmd
}
