package publish

import (
	"fmt"
	"strings"
	"time"

	"planline/internal/model"
)

// RenderProjectMarkdown renders one project as a standalone Markdown
// document: descriptions, notebook, and the milestone tree with schedules.
func RenderProjectMarkdown(p *model.Project) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", orUntitled(p.Title))
	if p.ShortDescription != "" {
		fmt.Fprintf(&b, "%s\n\n", p.ShortDescription)
	}
	if len(p.Tags) > 0 {
		fmt.Fprintf(&b, "Tags: %s\n\n", strings.Join(p.Tags, ", "))
	}
	if p.TimeRange != nil {
		fmt.Fprintf(&b, "Horizon: %s — %s\n\n",
			formatInstant(p.TimeRange.Start), formatInstant(p.TimeRange.End))
	}
	if p.DetailedDescription != "" {
		fmt.Fprintf(&b, "## Description\n\n%s\n\n", p.DetailedDescription)
	}

	if len(p.Milestones) > 0 {
		b.WriteString("## Milestones\n\n")
		b.WriteString("| Task | Status | Schedule | People |\n")
		b.WriteString("| --- | --- | --- | --- |\n")
		writeTaskRows(&b, p.Milestones, 0)
		b.WriteString("\n")
	}

	if p.Notebook != "" {
		fmt.Fprintf(&b, "## Notebook\n\n%s\n", p.Notebook)
	}

	return strings.TrimRight(b.String(), "\n") + "\n"
}

func writeTaskRows(b *strings.Builder, tasks []model.Task, depth int) {
	indent := strings.Repeat("&nbsp;&nbsp;", depth)
	for _, t := range tasks {
		fmt.Fprintf(b, "| %s%s | %s | %s | %s |\n",
			indent, escapeCell(orUntitled(t.Title)),
			t.Status.Label(),
			formatSchedule(t.Schedule),
			escapeCell(strings.Join(t.People, ", ")),
		)
		writeTaskRows(b, t.Subtasks, depth+1)
	}
}

func formatSchedule(s *model.Schedule) string {
	switch {
	case s == nil:
		return "—"
	case s.IsPoint():
		return formatInstant(s.Point)
	default:
		n := s.Normalized()
		return fmt.Sprintf("%s — %s", formatInstant(n.Start), formatInstant(n.End))
	}
}

func formatInstant(t time.Time) string {
	if t.Hour() == 0 && t.Minute() == 0 {
		return t.Format("2 Jan 2006")
	}
	return t.Format("2 Jan 2006 15:04")
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}

func orUntitled(s string) string {
	if strings.TrimSpace(s) == "" {
		return "(untitled)"
	}
	return s
}
