package cli

import (
	"context"
	"strings"

	"planline/internal/model"
	"planline/internal/store"

	"github.com/spf13/cobra"
)

// Task nodes are addressed as <project-id> <task-path>, where the path is
// slash-separated ids from milestone to node, e.g.
//
//	planline tasks show proj_ab12 task_cd34/task_ef56
func newTasksCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "Manage tasks and their schedules",
	}
	cmd.AddCommand(newTasksAddCmd(app))
	cmd.AddCommand(newTasksShowCmd(app))
	cmd.AddCommand(newTasksUpdateCmd(app))
	cmd.AddCommand(newTasksDeleteCmd(app))
	cmd.AddCommand(newTasksScheduleCmd(app))
	return cmd
}

func splitTaskPath(s string) []string {
	parts := strings.Split(strings.Trim(s, "/"), "/")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// taskFlags are the editable scalar fields shared by add and update.
type taskFlags struct {
	title, details, notes, color string
	statusStr, waitingFor        string
	priority                     int
	tags, people                 []string
}

func (f *taskFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.title, "title", "", "Task title")
	cmd.Flags().StringVar(&f.details, "details", "", "Details (Markdown)")
	cmd.Flags().StringVar(&f.notes, "notes", "", "Notes")
	cmd.Flags().StringVar(&f.color, "color", "", "Display color")
	cmd.Flags().StringVar(&f.statusStr, "status", "", "Status (not_started|in_progress|stuck|done|waiting_for)")
	cmd.Flags().StringVar(&f.waitingFor, "waiting-for", "", "Who is being waited for (with --status waiting_for)")
	cmd.Flags().IntVar(&f.priority, "priority", 0, "Priority (higher is more important)")
	cmd.Flags().StringSliceVar(&f.tags, "tag", nil, "Tag (repeatable)")
	cmd.Flags().StringSliceVar(&f.people, "person", nil, "Person involved (repeatable)")
}

func (f *taskFlags) status() (model.TaskStatus, error) {
	st := model.DefaultTaskStatus()
	if f.statusStr != "" {
		typ, err := model.ParseStatusType(f.statusStr)
		if err != nil {
			return model.TaskStatus{}, err
		}
		st.Type = typ
	}
	if f.waitingFor != "" {
		w := f.waitingFor
		st.WaitingFor = &w
	}
	if err := st.Validate(); err != nil {
		return model.TaskStatus{}, err
	}
	return st, nil
}

func newTasksAddCmd(app *App) *cobra.Command {
	var f taskFlags
	var under, startStr, endStr, atStr string
	cmd := &cobra.Command{
		Use:   "add <project-id>",
		Short: "Add a task (top-level milestone, or under --under)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, s, err := loadState(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			p := store.FindProject(st, args[0])
			if p == nil {
				return writeErr(cmd, errNotFound("project", args[0]))
			}
			status, err := f.status()
			if err != nil {
				return writeErr(cmd, err)
			}
			id, err := store.NewID("task")
			if err != nil {
				return writeErr(cmd, err)
			}
			t := model.Task{
				ID:       id,
				Title:    f.title,
				Details:  f.details,
				Notes:    f.notes,
				Color:    f.color,
				Status:   status,
				Priority: f.priority,
				Tags:     f.tags,
				People:   f.people,
				Subtasks: []model.Task{},
			}
			sched, err := scheduleFromFlags(startStr, endStr, atStr)
			if err != nil {
				return writeErr(cmd, err)
			}
			t.Schedule = sched

			var parentPath []string
			if under != "" {
				parentPath = splitTaskPath(under)
			}
			added, err := store.AddTask(p, parentPath, t)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := s.Save(st); err != nil {
				return writeErr(cmd, err)
			}
			_ = s.AppendEvent(context.Background(), "task.create", id, added)
			return writeOut(cmd, app, added)
		},
	}
	f.register(cmd)
	cmd.Flags().StringVar(&under, "under", "", "Parent task path (slash-separated ids)")
	cmd.Flags().StringVar(&startStr, "start", "", "Range schedule start")
	cmd.Flags().StringVar(&endStr, "end", "", "Range schedule end")
	cmd.Flags().StringVar(&atStr, "at", "", "Point schedule instant")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

// scheduleFromFlags builds a schedule from --start/--end or --at; all empty
// means no schedule (the task stays off the timeline).
func scheduleFromFlags(startStr, endStr, atStr string) (*model.Schedule, error) {
	if atStr != "" {
		at, err := parseInstant(atStr)
		if err != nil {
			return nil, err
		}
		s := model.NewPointSchedule(at)
		return s, s.Validate()
	}
	if startStr == "" && endStr == "" {
		return nil, nil
	}
	start, err := parseInstant(startStr)
	if err != nil {
		return nil, err
	}
	end, err := parseInstant(endStr)
	if err != nil {
		return nil, err
	}
	s := model.NewRangeSchedule(start, end)
	return s, s.Validate()
}

func newTasksShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <project-id> <task-path>",
		Short: "Show a task and its subtree",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, _, err := loadState(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			p := store.FindProject(st, args[0])
			if p == nil {
				return writeErr(cmd, errNotFound("project", args[0]))
			}
			t, err := store.FindTask(p, splitTaskPath(args[1]))
			if err != nil {
				return writeErr(cmd, errNotFound("task", args[1]))
			}
			return writeOut(cmd, app, t)
		},
	}
}

func newTasksUpdateCmd(app *App) *cobra.Command {
	var f taskFlags
	cmd := &cobra.Command{
		Use:   "update <project-id> <task-path>",
		Short: "Update task fields",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, s, err := loadState(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			p := store.FindProject(st, args[0])
			if p == nil {
				return writeErr(cmd, errNotFound("project", args[0]))
			}
			var patch model.TaskPatch
			if cmd.Flags().Changed("title") {
				patch.Title = &f.title
			}
			if cmd.Flags().Changed("details") {
				patch.Details = &f.details
			}
			if cmd.Flags().Changed("notes") {
				patch.Notes = &f.notes
			}
			if cmd.Flags().Changed("color") {
				patch.Color = &f.color
			}
			if cmd.Flags().Changed("priority") {
				patch.Priority = &f.priority
			}
			if cmd.Flags().Changed("tag") {
				patch.Tags = &f.tags
			}
			if cmd.Flags().Changed("person") {
				patch.People = &f.people
			}
			if cmd.Flags().Changed("status") || cmd.Flags().Changed("waiting-for") {
				status, err := f.status()
				if err != nil {
					return writeErr(cmd, err)
				}
				patch.Status = &status
			}
			path := splitTaskPath(args[1])
			t, err := store.PatchTask(p, path, patch)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := s.Save(st); err != nil {
				return writeErr(cmd, err)
			}
			_ = s.AppendEvent(context.Background(), "task.update", t.ID, patch)
			return writeOut(cmd, app, t)
		},
	}
	f.register(cmd)
	return cmd
}

func newTasksDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <project-id> <task-path>",
		Short: "Delete a task and its subtree",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, s, err := loadState(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			p := store.FindProject(st, args[0])
			if p == nil {
				return writeErr(cmd, errNotFound("project", args[0]))
			}
			path := splitTaskPath(args[1])
			if err := store.DeleteTask(p, path); err != nil {
				return writeErr(cmd, errNotFound("task", args[1]))
			}
			if err := s.Save(st); err != nil {
				return writeErr(cmd, err)
			}
			_ = s.AppendEvent(context.Background(), "task.delete", path[len(path)-1], nil)
			return writeOut(cmd, app, map[string]any{"deleted": args[1]})
		},
	}
}

func newTasksScheduleCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Set or clear a task's schedule",
	}

	var startStr, endStr, atStr string
	set := &cobra.Command{
		Use:   "set <project-id> <task-path>",
		Short: "Set a range (--start/--end) or point (--at) schedule",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, s, err := loadState(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			p := store.FindProject(st, args[0])
			if p == nil {
				return writeErr(cmd, errNotFound("project", args[0]))
			}
			sched, err := scheduleFromFlags(startStr, endStr, atStr)
			if err != nil {
				return writeErr(cmd, err)
			}
			if sched == nil {
				return writeErr(cmd, errMissingSchedule)
			}
			t, err := store.SetSchedule(p, splitTaskPath(args[1]), sched)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := s.Save(st); err != nil {
				return writeErr(cmd, err)
			}
			_ = s.AppendEvent(context.Background(), "task.schedule.set", t.ID, sched)
			return writeOut(cmd, app, t)
		},
	}
	set.Flags().StringVar(&startStr, "start", "", "Range schedule start")
	set.Flags().StringVar(&endStr, "end", "", "Range schedule end")
	set.Flags().StringVar(&atStr, "at", "", "Point schedule instant")
	cmd.AddCommand(set)

	clear := &cobra.Command{
		Use:   "clear <project-id> <task-path>",
		Short: "Remove the schedule (hides the task from the timeline)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, s, err := loadState(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			p := store.FindProject(st, args[0])
			if p == nil {
				return writeErr(cmd, errNotFound("project", args[0]))
			}
			t, err := store.SetSchedule(p, splitTaskPath(args[1]), nil)
			if err != nil {
				return writeErr(cmd, errNotFound("task", args[1]))
			}
			if err := s.Save(st); err != nil {
				return writeErr(cmd, err)
			}
			_ = s.AppendEvent(context.Background(), "task.schedule.clear", t.ID, nil)
			return writeOut(cmd, app, t)
		},
	}
	cmd.AddCommand(clear)

	return cmd
}
