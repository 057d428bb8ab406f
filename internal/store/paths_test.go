package store

import (
	"errors"
	"testing"
	"time"

	"planline/internal/model"
)

func testProject() *model.Project {
	return &model.Project{
		ID:    "proj_x",
		Title: "X",
		Milestones: []model.Task{
			{
				ID:     "task_root",
				Title:  "Root",
				Status: model.DefaultTaskStatus(),
				Subtasks: []model.Task{
					{ID: "task_child", Title: "Child", Status: model.DefaultTaskStatus()},
				},
			},
		},
	}
}

func TestFindTaskByPath(t *testing.T) {
	p := testProject()
	got, err := FindTask(p, []string{"task_root", "task_child"})
	if err != nil {
		t.Fatalf("FindTask: %v", err)
	}
	if got.Title != "Child" {
		t.Fatalf("expected Child, got %q", got.Title)
	}
	if _, err := FindTask(p, []string{"task_root", "task_missing"}); !errors.Is(err, ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound, got %v", err)
	}
}

func TestAddTaskUnderParentAndTopLevel(t *testing.T) {
	p := testProject()
	if _, err := AddTask(p, nil, model.Task{ID: "task_top", Status: model.DefaultTaskStatus()}); err != nil {
		t.Fatalf("AddTask top-level: %v", err)
	}
	if len(p.Milestones) != 2 {
		t.Fatalf("expected 2 milestones, got %d", len(p.Milestones))
	}
	added, err := AddTask(p, []string{"task_root", "task_child"}, model.Task{ID: "task_leaf", Status: model.DefaultTaskStatus()})
	if err != nil {
		t.Fatalf("AddTask nested: %v", err)
	}
	if added.ID != "task_leaf" {
		t.Fatalf("unexpected node: %+v", added)
	}
	if _, _, ok := FindTaskByID(p, "task_leaf"); !ok {
		t.Fatalf("task_leaf not reachable")
	}
}

func TestAddTaskValidatesStatus(t *testing.T) {
	p := testProject()
	bad := model.Task{ID: "task_bad", Status: model.TaskStatus{Type: model.StatusWaitingFor}}
	if _, err := AddTask(p, nil, bad); err == nil {
		t.Fatalf("waiting_for without a name must be rejected")
	}
}

func TestSetScheduleValidatesAndClears(t *testing.T) {
	p := testProject()
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	inverted := model.NewRangeSchedule(start.AddDate(0, 0, 5), start)
	if _, err := SetSchedule(p, []string{"task_root"}, inverted); err == nil {
		t.Fatalf("inverted explicit range must be rejected")
	}

	s := model.NewRangeSchedule(start, start.AddDate(0, 0, 5))
	if _, err := SetSchedule(p, []string{"task_root"}, s); err != nil {
		t.Fatalf("SetSchedule: %v", err)
	}
	got, _ := FindTask(p, []string{"task_root"})
	if got.Schedule == nil || !got.Schedule.IsRange() {
		t.Fatalf("schedule not set")
	}

	if _, err := SetSchedule(p, []string{"task_root"}, nil); err != nil {
		t.Fatalf("clear: %v", err)
	}
	got, _ = FindTask(p, []string{"task_root"})
	if got.Schedule != nil {
		t.Fatalf("schedule not cleared")
	}
}

func TestDeleteTaskRemovesSubtree(t *testing.T) {
	p := testProject()
	if err := DeleteTask(p, []string{"task_root"}); err != nil {
		t.Fatalf("DeleteTask: %v", err)
	}
	if len(p.Milestones) != 0 {
		t.Fatalf("subtree not removed")
	}
	if err := DeleteTask(p, []string{"task_root"}); !errors.Is(err, ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound, got %v", err)
	}
}

func TestFindTaskByIDReturnsPath(t *testing.T) {
	p := testProject()
	path, node, ok := FindTaskByID(p, "task_child")
	if !ok {
		t.Fatalf("task_child not found")
	}
	if len(path) != 2 || path[0] != "task_root" || path[1] != "task_child" {
		t.Fatalf("unexpected path: %v", path)
	}
	if node.Title != "Child" {
		t.Fatalf("unexpected node: %+v", node)
	}
}
