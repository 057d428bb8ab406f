package cli

import (
	"context"
	"time"

	"planline/internal/model"

	"github.com/spf13/cobra"
)

func newBackupCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Snapshot and restore the state file",
	}

	create := &cobra.Command{
		Use:   "create",
		Short: "Snapshot state.json into backups/",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, s, err := loadState(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			info, err := s.Backup(st, model.BackupManualSave, time.Now())
			if err != nil {
				return writeErr(cmd, err)
			}
			_ = s.AppendEvent(context.Background(), "backup.create", info.ID, info)
			return writeOut(cmd, app, info)
		},
	}
	cmd.AddCommand(create)

	list := &cobra.Command{
		Use:   "list",
		Short: "List recorded backups",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, _, err := loadState(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": st.Backups})
		},
	}
	cmd.AddCommand(list)

	restore := &cobra.Command{
		Use:   "restore <backup-id>",
		Short: "Restore a backup (takes a pre-restore backup first)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, s, err := loadState(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			restored, err := s.Restore(st, args[0], time.Now())
			if err != nil {
				return writeErr(cmd, err)
			}
			_ = s.AppendEvent(context.Background(), "backup.restore", args[0], nil)
			return writeOut(cmd, app, map[string]any{
				"restored": args[0],
				"projects": len(restored.Projects),
				"backups":  len(restored.Backups),
			})
		},
	}
	cmd.AddCommand(restore)

	return cmd
}
