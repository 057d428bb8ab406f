package tui

import (
	"fmt"
	"strings"

	"planline/internal/model"
	"planline/internal/store"

	"github.com/charmbracelet/lipgloss"
)

// renderDetailPanel draws the side panel for the focused task, or a project
// summary when nothing has focus.
func (tm *timelineModel) renderDetailPanel(width, height int) string {
	var body string
	if t := tm.engine.Task(tm.engine.FocusedID()); t != nil {
		body = renderTaskDetail(t, width)
	} else {
		body = tm.renderProjectSummary(width)
	}
	return normalizePane(body, width, height)
}

func renderTaskDetail(t *model.Task, width int) string {
	var b strings.Builder

	title := t.Title
	if strings.TrimSpace(title) == "" {
		title = "(untitled)"
	}
	b.WriteString(lipgloss.NewStyle().Bold(true).Render(truncateCell(title, width)) + "\n")
	b.WriteString(glyphStatus(t.Status) + " " + t.Status.Label() + "\n")

	switch {
	case t.Schedule == nil:
		b.WriteString(styleMuted().Render("unscheduled") + "\n")
	case t.Schedule.IsPoint():
		b.WriteString(fmtTime(t.Schedule.Point) + "\n")
	default:
		n := t.Schedule.Normalized()
		b.WriteString(fmt.Sprintf("%s %s %s\n", fmtTime(n.End), glyphArrowLeft(), fmtTime(n.Start)))
	}

	if t.Priority != 0 {
		b.WriteString(fmt.Sprintf("priority: %d\n", t.Priority))
	}
	if len(t.People) > 0 {
		b.WriteString("people: " + strings.Join(t.People, ", ") + "\n")
	}
	if len(t.Tags) > 0 {
		b.WriteString("tags: " + strings.Join(t.Tags, ", ") + "\n")
	}
	if len(t.Subtasks) > 0 {
		b.WriteString(fmt.Sprintf("subtasks: %d\n", len(t.Subtasks)))
	}

	if strings.TrimSpace(t.Details) != "" {
		b.WriteString("\n" + renderMarkdown(t.Details, width-2) + "\n")
	}
	if strings.TrimSpace(t.Notes) != "" {
		b.WriteString("\n" + styleMuted().Render("notes") + "\n")
		b.WriteString(renderMarkdown(t.Notes, width-2) + "\n")
	}

	b.WriteString("\n" + styleMuted().Render("e: schedule  a: people  m: notes"))
	return b.String()
}

func (tm *timelineModel) renderProjectSummary(width int) string {
	p := store.FindProject(tm.st, tm.projectID)
	if p == nil {
		return styleMuted().Render("project not found")
	}

	var b strings.Builder
	title := p.Title
	if strings.TrimSpace(title) == "" {
		title = "(untitled)"
	}
	b.WriteString(lipgloss.NewStyle().Bold(true).Render(truncateCell(title, width)) + "\n")
	if p.ShortDescription != "" {
		b.WriteString(truncateCell(p.ShortDescription, width) + "\n")
	}
	b.WriteString(fmt.Sprintf("milestones: %d\n", len(p.Milestones)))
	if len(p.Tags) > 0 {
		b.WriteString("tags: " + strings.Join(p.Tags, ", ") + "\n")
	}
	if strings.TrimSpace(p.Notebook) != "" {
		b.WriteString("\n" + styleMuted().Render("notebook") + "\n")
		b.WriteString(renderMarkdown(p.Notebook, width-2) + "\n")
	}
	b.WriteString("\n" + styleMuted().Render("↑/↓ to focus a task"))
	return b.String()
}
