package cli

import (
	"errors"
	"fmt"

	"planline/internal/model"

	"github.com/spf13/cobra"
)

var errDoctorIssuesFound = errors.New("doctor found issues")

func newDoctorCmd(app *App) *cobra.Command {
	var fail bool
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Validate the state file, schedule invariants, and backups",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, s, err := loadState(app)
			if err != nil {
				return writeErr(cmd, err)
			}

			var issues []string
			for i := range st.Projects {
				p := &st.Projects[i]
				if p.TimeRange != nil {
					if err := p.TimeRange.Validate(); err != nil {
						issues = append(issues, fmt.Sprintf("project %s: time range: %v", p.ID, err))
					}
				}
				issues = append(issues, scanTasks(p.ID, nil, p.Milestones)...)
			}
			issues = append(issues, s.VerifyBackups(st)...)

			if err := writeOut(cmd, app, map[string]any{
				"data": map[string]any{"issues": issues},
				"meta": map[string]any{"count": len(issues)},
			}); err != nil {
				return err
			}
			if fail && len(issues) > 0 {
				return errDoctorIssuesFound
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&fail, "fail", false, "Exit non-zero if issues are found")
	return cmd
}

func scanTasks(projectID string, path []string, tasks []model.Task) []string {
	var issues []string
	for i := range tasks {
		t := &tasks[i]
		cur := append(append([]string{}, path...), t.ID)
		if err := t.Status.Validate(); err != nil {
			issues = append(issues, fmt.Sprintf("project %s task %v: status: %v", projectID, cur, err))
		}
		if t.Schedule != nil {
			if err := t.Schedule.Validate(); err != nil {
				issues = append(issues, fmt.Sprintf("project %s task %v: schedule: %v", projectID, cur, err))
			}
		}
		issues = append(issues, scanTasks(projectID, cur, t.Subtasks)...)
	}
	return issues
}
