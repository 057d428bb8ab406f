package cli

import (
	"fmt"
	"os"
	"strings"

	"planline/internal/format"
	"planline/internal/model"
	"planline/internal/store"
	"planline/internal/tui"

	"github.com/spf13/cobra"
)

type App struct {
	Dir        string
	PrettyJSON bool
	Format     string
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "planline",
		Short:        "Planline (local-first) project timeline CLI + TUI",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive TUI
  planline

  # Scriptable commands
  planline projects list
  planline tasks add proj_3f9a01c2d47b --title "Ship beta" --start 2024-03-01 --end 2024-03-10

  # Open a project's timeline directly
  planline timeline proj_3f9a01c2d47b

  # Direct project lookup (shortcut for: planline projects show <project-id>)
  planline proj_3f9a01c2d47b
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(app, "")
			}
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVar(&app.Dir, "dir", envOr("PLANLINE_DIR", ""), "Path to data dir (default: discovered .planline, else ./.planline)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("PLANLINE_FORMAT", "json"), "Output format (json|edn)")

	cmd.AddCommand(newInitCmd(app))
	cmd.AddCommand(newProjectsCmd(app))
	cmd.AddCommand(newTasksCmd(app))
	cmd.AddCommand(newBackupCmd(app))
	cmd.AddCommand(newEventsCmd(app))
	cmd.AddCommand(newTimelineCmd(app))
	cmd.AddCommand(newPublishCmd(app))
	cmd.AddCommand(newDocsCmd(app))
	cmd.AddCommand(newDoctorCmd(app))
	cmd.AddCommand(newWebCmd(app))

	return cmd
}

func resolveDir(app *App) (string, error) {
	if app.Dir != "" {
		return app.Dir, nil
	}
	dir, err := store.DefaultDir()
	if err != nil {
		return "", err
	}
	app.Dir = dir
	return dir, nil
}

func loadState(app *App) (*model.AppState, store.Store, error) {
	dir, err := resolveDir(app)
	if err != nil {
		return nil, store.Store{}, err
	}
	s := store.Store{Dir: dir}
	st, err := s.Load()
	if err != nil {
		return nil, s, err
	}
	return st, s, nil
}

func runTUI(app *App, projectID string) error {
	st, s, err := loadState(app)
	if err != nil {
		return err
	}
	return tui.Run(s, st, projectID)
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
