package store

import (
	"fmt"

	"planline/internal/model"
)

// Undo/redo of schedule changes. The hosts decide what one step is: all
// updates emitted during a single gesture coalesce into one entry, pushed on
// release. The stacks live in ui_state so they survive restarts.

// PushUndo records a completed schedule change and clears the redo stack.
func PushUndo(st *model.AppState, e model.UndoEntry) {
	st.UIState.Undo.Stack = append(st.UIState.Undo.Stack, e)
	st.UIState.Undo.RedoStack = nil
}

// Undo reverts the most recent entry, moving it to the redo stack.
func Undo(st *model.AppState) (model.UndoEntry, bool, error) {
	stack := st.UIState.Undo.Stack
	if len(stack) == 0 {
		return model.UndoEntry{}, false, nil
	}
	e := stack[len(stack)-1]
	if err := applySchedule(st, e.ProjectID, e.TaskPath, e.Before); err != nil {
		return model.UndoEntry{}, false, err
	}
	st.UIState.Undo.Stack = stack[:len(stack)-1]
	st.UIState.Undo.RedoStack = append(st.UIState.Undo.RedoStack, e)
	return e, true, nil
}

// Redo re-applies the most recently undone entry.
func Redo(st *model.AppState) (model.UndoEntry, bool, error) {
	stack := st.UIState.Undo.RedoStack
	if len(stack) == 0 {
		return model.UndoEntry{}, false, nil
	}
	e := stack[len(stack)-1]
	if err := applySchedule(st, e.ProjectID, e.TaskPath, e.After); err != nil {
		return model.UndoEntry{}, false, err
	}
	st.UIState.Undo.RedoStack = stack[:len(stack)-1]
	st.UIState.Undo.Stack = append(st.UIState.Undo.Stack, e)
	return e, true, nil
}

func applySchedule(st *model.AppState, projectID string, path []string, s *model.Schedule) error {
	p := FindProject(st, projectID)
	if p == nil {
		return fmt.Errorf("project not found: %s", projectID)
	}
	t, err := FindTask(p, path)
	if err != nil {
		return err
	}
	if s != nil {
		cp := *s
		t.Schedule = &cp
	} else {
		t.Schedule = nil
	}
	return nil
}
