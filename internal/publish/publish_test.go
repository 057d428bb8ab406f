package publish

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"planline/internal/model"
)

func testProject() *model.Project {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	return &model.Project{
		ID:                  "proj_ab12cd34ef56",
		Title:               "Launch",
		ShortDescription:    "Ship the launch plan.",
		DetailedDescription: "Everything between now and **go-live**.",
		Notebook:            "Remember the rollback plan.",
		Tags:                []string{"q2", "launch"},
		TimeRange:           &model.TimeRange{Start: start, End: start.AddDate(0, 2, 0), IsUserDefined: true},
		Milestones: []model.Task{
			{
				ID:       "task_000000000001",
				Title:    "Design",
				Status:   model.TaskStatus{Type: model.StatusInProgress},
				Schedule: model.NewRangeSchedule(start, start.AddDate(0, 0, 7)),
				People:   []string{"Dana"},
				Subtasks: []model.Task{
					{
						ID:       "task_000000000002",
						Title:    "Review | signoff",
						Status:   model.TaskStatus{Type: model.StatusNotStarted},
						Schedule: model.NewPointSchedule(start.AddDate(0, 0, 5)),
					},
				},
			},
		},
	}
}

func TestRenderProjectMarkdown_Sections(t *testing.T) {
	t.Parallel()

	md := RenderProjectMarkdown(testProject())
	if !strings.Contains(md, "# Launch") {
		t.Fatalf("expected title header, got:\n%s", md)
	}
	if !strings.Contains(md, "## Description") || !strings.Contains(md, "**go-live**") {
		t.Fatalf("expected description section, got:\n%s", md)
	}
	if !strings.Contains(md, "## Milestones") || !strings.Contains(md, "| Design | In progress |") {
		t.Fatalf("expected milestone table, got:\n%s", md)
	}
	if !strings.Contains(md, "&nbsp;&nbsp;Review \\| signoff") {
		t.Fatalf("expected indented, escaped subtask row, got:\n%s", md)
	}
	if !strings.Contains(md, "## Notebook") || !strings.Contains(md, "rollback plan") {
		t.Fatalf("expected notebook section, got:\n%s", md)
	}
}

func TestRenderProjectMarkdown_ScheduleFormats(t *testing.T) {
	t.Parallel()

	md := RenderProjectMarkdown(testProject())
	if !strings.Contains(md, "1 Mar 2024 — 8 Mar 2024") {
		t.Fatalf("expected midnight range formatted without times, got:\n%s", md)
	}
	if !strings.Contains(md, "6 Mar 2024 |") {
		t.Fatalf("expected point schedule column, got:\n%s", md)
	}
}

func TestWriteProject_WritesFile(t *testing.T) {
	t.Parallel()

	p := testProject()
	out := t.TempDir()
	res, err := WriteProject(p, out, WriteOptions{})
	if err != nil {
		t.Fatalf("WriteProject: %v", err)
	}
	want := filepath.Join(out, "projects", p.ID+".md")
	if len(res.Written) != 1 || res.Written[0] != want {
		t.Fatalf("expected written [%s]; got %v", want, res.Written)
	}
	b, err := os.ReadFile(want)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !strings.Contains(string(b), "# Launch") {
		t.Fatalf("output file missing content:\n%s", b)
	}
}

func TestWriteProject_RefusesOverwrite(t *testing.T) {
	t.Parallel()

	p := testProject()
	out := t.TempDir()
	if _, err := WriteProject(p, out, WriteOptions{}); err != nil {
		t.Fatalf("first write: %v", err)
	}
	if _, err := WriteProject(p, out, WriteOptions{}); err == nil {
		t.Fatal("expected error writing over existing file")
	}
	if _, err := WriteProject(p, out, WriteOptions{Overwrite: true}); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
}
