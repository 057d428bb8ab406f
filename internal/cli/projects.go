package cli

import (
	"context"

	"planline/internal/model"
	"planline/internal/store"

	"github.com/spf13/cobra"
)

func newProjectsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "projects",
		Short: "Manage projects",
	}
	cmd.AddCommand(newProjectsCreateCmd(app))
	cmd.AddCommand(newProjectsListCmd(app))
	cmd.AddCommand(newProjectsShowCmd(app))
	cmd.AddCommand(newProjectsUpdateCmd(app))
	cmd.AddCommand(newProjectsDeleteCmd(app))
	cmd.AddCommand(newProjectsOrderCmd(app))
	return cmd
}

// projectSummary is the list/show row; milestones are summarized by count
// so `projects list` stays one line per project.
type projectSummary struct {
	ID               string           `json:"id"`
	Title            string           `json:"title"`
	ShortDescription string           `json:"short_description,omitempty"`
	Tags             []string         `json:"tags,omitempty"`
	Color            string           `json:"color,omitempty"`
	TimeRange        *model.TimeRange `json:"time_range,omitempty"`
	Milestones       int              `json:"milestones"`
}

func summarize(p model.Project) projectSummary {
	return projectSummary{
		ID:               p.ID,
		Title:            p.Title,
		ShortDescription: p.ShortDescription,
		Tags:             p.Tags,
		Color:            p.Color,
		TimeRange:        p.TimeRange,
		Milestones:       len(p.Milestones),
	}
}

func newProjectsCreateCmd(app *App) *cobra.Command {
	var (
		title, short, detailed, notebook, color string
		tags                                    []string
		startStr, endStr                        string
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a project",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, s, err := loadState(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			id, err := store.NewID("proj")
			if err != nil {
				return writeErr(cmd, err)
			}

			p := model.Project{
				ID:                  id,
				Title:               title,
				ShortDescription:    short,
				DetailedDescription: detailed,
				Notebook:            notebook,
				Tags:                tags,
				Color:               color,
				Milestones:          []model.Task{},
			}
			if startStr != "" || endStr != "" {
				start, err := parseInstant(startStr)
				if err != nil {
					return writeErr(cmd, err)
				}
				end, err := parseInstant(endStr)
				if err != nil {
					return writeErr(cmd, err)
				}
				tr := model.TimeRange{Start: start, End: end, IsUserDefined: true}
				if err := tr.Validate(); err != nil {
					return writeErr(cmd, err)
				}
				p.TimeRange = &tr
			}

			st.Projects = append(st.Projects, p)
			st.UIState.ProjectOrder = append(st.UIState.ProjectOrder, id)
			if err := s.Save(st); err != nil {
				return writeErr(cmd, err)
			}
			_ = s.AppendEvent(context.Background(), "project.create", id, p)
			return writeOut(cmd, app, summarize(p))
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "Project title")
	cmd.Flags().StringVar(&short, "short", "", "Short description")
	cmd.Flags().StringVar(&detailed, "description", "", "Detailed description (Markdown)")
	cmd.Flags().StringVar(&notebook, "notebook", "", "Notebook text (Markdown)")
	cmd.Flags().StringVar(&color, "color", "", "Display color")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "Tag (repeatable)")
	cmd.Flags().StringVar(&startStr, "start", "", "Timeline horizon start")
	cmd.Flags().StringVar(&endStr, "end", "", "Timeline horizon end")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func newProjectsListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List projects in display order",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, _, err := loadState(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			out := make([]projectSummary, 0, len(st.Projects))
			for _, p := range orderedProjects(st) {
				out = append(out, summarize(p))
			}
			return writeOut(cmd, app, map[string]any{"data": out})
		},
	}
}

// orderedProjects applies ui_state.project_order, appending projects the
// order list does not know about.
func orderedProjects(st *model.AppState) []model.Project {
	byID := map[string]model.Project{}
	for _, p := range st.Projects {
		byID[p.ID] = p
	}
	out := make([]model.Project, 0, len(st.Projects))
	seen := map[string]bool{}
	for _, id := range st.UIState.ProjectOrder {
		if p, ok := byID[id]; ok && !seen[id] {
			out = append(out, p)
			seen[id] = true
		}
	}
	for _, p := range st.Projects {
		if !seen[p.ID] {
			out = append(out, p)
		}
	}
	return out
}

func newProjectsShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <project-id>",
		Short: "Show one project with its full milestone tree",
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
			return writeOut(cmd, app, p)
		},
	}
}

func newProjectsUpdateCmd(app *App) *cobra.Command {
	var (
		title, short, detailed, notebook, color string
		tags                                    []string
		startStr, endStr                        string
		clearRange                              bool
	)
	cmd := &cobra.Command{
		Use:   "update <project-id>",
		Short: "Update project fields",
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
			if cmd.Flags().Changed("title") {
				p.Title = title
			}
			if cmd.Flags().Changed("short") {
				p.ShortDescription = short
			}
			if cmd.Flags().Changed("description") {
				p.DetailedDescription = detailed
			}
			if cmd.Flags().Changed("notebook") {
				p.Notebook = notebook
			}
			if cmd.Flags().Changed("color") {
				p.Color = color
			}
			if cmd.Flags().Changed("tag") {
				p.Tags = tags
			}
			if clearRange {
				p.TimeRange = nil
			} else if startStr != "" || endStr != "" {
				start, err := parseInstant(startStr)
				if err != nil {
					return writeErr(cmd, err)
				}
				end, err := parseInstant(endStr)
				if err != nil {
					return writeErr(cmd, err)
				}
				tr := model.TimeRange{Start: start, End: end, IsUserDefined: true}
				if err := tr.Validate(); err != nil {
					return writeErr(cmd, err)
				}
				p.TimeRange = &tr
			}
			if err := s.Save(st); err != nil {
				return writeErr(cmd, err)
			}
			_ = s.AppendEvent(context.Background(), "project.update", p.ID, p)
			return writeOut(cmd, app, summarize(*p))
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "Project title")
	cmd.Flags().StringVar(&short, "short", "", "Short description")
	cmd.Flags().StringVar(&detailed, "description", "", "Detailed description (Markdown)")
	cmd.Flags().StringVar(&notebook, "notebook", "", "Notebook text (Markdown)")
	cmd.Flags().StringVar(&color, "color", "", "Display color")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "Tag (repeatable, replaces the set)")
	cmd.Flags().StringVar(&startStr, "start", "", "Timeline horizon start")
	cmd.Flags().StringVar(&endStr, "end", "", "Timeline horizon end")
	cmd.Flags().BoolVar(&clearRange, "clear-range", false, "Drop the explicit horizon (fall back to derived default)")
	return cmd
}

func newProjectsDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <project-id>",
		Short: "Delete a project and its milestone tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, s, err := loadState(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			idx := -1
			for i := range st.Projects {
				if st.Projects[i].ID == args[0] {
					idx = i
					break
				}
			}
			if idx < 0 {
				return writeErr(cmd, errNotFound("project", args[0]))
			}
			st.Projects = append(st.Projects[:idx], st.Projects[idx+1:]...)
			order := st.UIState.ProjectOrder[:0]
			for _, id := range st.UIState.ProjectOrder {
				if id != args[0] {
					order = append(order, id)
				}
			}
			st.UIState.ProjectOrder = order
			delete(st.UIState.LockedProjects, args[0])
			if err := s.Save(st); err != nil {
				return writeErr(cmd, err)
			}
			_ = s.AppendEvent(context.Background(), "project.delete", args[0], nil)
			return writeOut(cmd, app, map[string]any{"deleted": args[0]})
		},
	}
}

func newProjectsOrderCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "order <project-id>...",
		Short: "Set the display order of projects",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, s, err := loadState(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			for _, id := range args {
				if store.FindProject(st, id) == nil {
					return writeErr(cmd, errNotFound("project", id))
				}
			}
			st.UIState.ProjectOrder = append([]string{}, args...)
			if err := s.Save(st); err != nil {
				return writeErr(cmd, err)
			}
			_ = s.AppendEvent(context.Background(), "project.order", "", args)
			return writeOut(cmd, app, map[string]any{"order": args})
		},
	}
}
