package store

import (
	"errors"
	"fmt"

	"planline/internal/model"
)

// Task nodes are addressed by path: the list of ids from a project's
// top-level milestone down to the node. There are no parent pointers in the
// tree, so every operation re-walks from the root.

var ErrTaskNotFound = errors.New("task not found")

func findTaskIn(tasks []model.Task, id string) *model.Task {
	for i := range tasks {
		if tasks[i].ID == id {
			return &tasks[i]
		}
	}
	return nil
}

// FindTask resolves a path to a node inside the project.
func FindTask(p *model.Project, path []string) (*model.Task, error) {
	if len(path) == 0 {
		return nil, errors.New("empty task path")
	}
	cur := findTaskIn(p.Milestones, path[0])
	if cur == nil {
		return nil, fmt.Errorf("%w: %s", ErrTaskNotFound, path[0])
	}
	for _, id := range path[1:] {
		cur = findTaskIn(cur.Subtasks, id)
		if cur == nil {
			return nil, fmt.Errorf("%w: %s", ErrTaskNotFound, id)
		}
	}
	return cur, nil
}

// AddTask appends a task under parentPath (empty path = new top-level
// milestone) and returns the created node.
func AddTask(p *model.Project, parentPath []string, t model.Task) (*model.Task, error) {
	if err := t.Status.Validate(); err != nil {
		return nil, err
	}
	if t.Schedule != nil {
		if err := t.Schedule.Validate(); err != nil {
			return nil, err
		}
	}
	if len(parentPath) == 0 {
		p.Milestones = append(p.Milestones, t)
		return &p.Milestones[len(p.Milestones)-1], nil
	}
	parent, err := FindTask(p, parentPath)
	if err != nil {
		return nil, err
	}
	parent.Subtasks = append(parent.Subtasks, t)
	return &parent.Subtasks[len(parent.Subtasks)-1], nil
}

// PatchTask applies a partial field update to the node at path.
func PatchTask(p *model.Project, path []string, patch model.TaskPatch) (*model.Task, error) {
	t, err := FindTask(p, path)
	if err != nil {
		return nil, err
	}
	if patch.Status != nil {
		if err := patch.Status.Validate(); err != nil {
			return nil, err
		}
	}
	patch.Apply(t)
	return t, nil
}

// SetSchedule replaces the schedule at path; nil clears it, removing the
// task from all timeline rendering.
func SetSchedule(p *model.Project, path []string, s *model.Schedule) (*model.Task, error) {
	t, err := FindTask(p, path)
	if err != nil {
		return nil, err
	}
	if s != nil {
		if err := s.Validate(); err != nil {
			return nil, err
		}
		cp := *s
		t.Schedule = &cp
	} else {
		t.Schedule = nil
	}
	return t, nil
}

// DeleteTask removes the node at path, including its whole subtree.
func DeleteTask(p *model.Project, path []string) error {
	if len(path) == 0 {
		return errors.New("empty task path")
	}
	siblings := &p.Milestones
	if len(path) > 1 {
		parent, err := FindTask(p, path[:len(path)-1])
		if err != nil {
			return err
		}
		siblings = &parent.Subtasks
	}
	id := path[len(path)-1]
	for i := range *siblings {
		if (*siblings)[i].ID == id {
			*siblings = append((*siblings)[:i], (*siblings)[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrTaskNotFound, id)
}

// FindTaskByID walks the whole project tree for an id and returns its path.
func FindTaskByID(p *model.Project, id string) (path []string, t *model.Task, ok bool) {
	var walk func(prefix []string, tasks []model.Task) ([]string, *model.Task, bool)
	walk = func(prefix []string, tasks []model.Task) ([]string, *model.Task, bool) {
		for i := range tasks {
			cur := append(append([]string{}, prefix...), tasks[i].ID)
			if tasks[i].ID == id {
				return cur, &tasks[i], true
			}
			if p2, t2, ok := walk(cur, tasks[i].Subtasks); ok {
				return p2, t2, ok
			}
		}
		return nil, nil, false
	}
	return walk(nil, p.Milestones)
}
