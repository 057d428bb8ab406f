package tui

import (
	"testing"
	"time"

	"planline/internal/model"
	"planline/internal/store"
	"planline/internal/timeline"

	tea "github.com/charmbracelet/bubbletea"
)

var tuiTestNow = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

func testState() *model.AppState {
	st := model.DefaultAppState()
	st.App.Timezone = "UTC"
	st.Projects = []model.Project{
		{
			ID:    "proj_000000000001",
			Title: "Launch",
			TimeRange: &model.TimeRange{
				Start:         time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
				End:           time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
				IsUserDefined: true,
			},
			Milestones: []model.Task{
				{
					ID:    "task_aaaaaaaaaaaa",
					Title: "Build",
					Schedule: model.NewRangeSchedule(
						time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC),
						time.Date(2024, 3, 16, 0, 0, 0, 0, time.UTC),
					),
					Subtasks: []model.Task{
						{
							ID:    "task_bbbbbbbbbbbb",
							Title: "Wire",
							Schedule: model.NewRangeSchedule(
								time.Date(2024, 3, 14, 6, 0, 0, 0, time.UTC),
								time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
							),
						},
					},
				},
				{
					ID:       "task_cccccccccccc",
					Title:    "Demo",
					Schedule: model.NewPointSchedule(time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC)),
				},
			},
		},
	}
	return st
}

func newTestTimeline(t *testing.T) (*timelineModel, *model.AppState) {
	t.Helper()
	st := testState()
	s := store.Store{Dir: t.TempDir()}
	if err := s.Save(st); err != nil {
		t.Fatalf("save state: %v", err)
	}
	tm := newTimelineModel(s, st, "proj_000000000001")
	tm.engine.Now = func() time.Time { return tuiTestNow }
	tm.setSize(80, 24)
	return tm, st
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func taskByID(t *testing.T, st *model.AppState, id string) *model.Task {
	t.Helper()
	p := store.FindProject(st, "proj_000000000001")
	_, task, ok := store.FindTaskByID(p, id)
	if !ok {
		t.Fatalf("task %s not found", id)
	}
	return task
}

func TestZoomKeys(t *testing.T) {
	tm, _ := newTestTimeline(t)
	if got := tm.engine.Zoom(); got != timeline.ZoomDays {
		t.Fatalf("expected initial zoom days; got %v", got)
	}
	tm.Update(keyRunes("+"))
	if got := tm.engine.Zoom(); got != timeline.ZoomHours {
		t.Fatalf("expected hours after zoom in; got %v", got)
	}
	tm.Update(keyRunes("-"))
	tm.Update(keyRunes("-"))
	if got := tm.engine.Zoom(); got != timeline.ZoomWeeks {
		t.Fatalf("expected weeks after zooming out twice; got %v", got)
	}
}

func TestMouseWheelZoom(t *testing.T) {
	tm, _ := newTestTimeline(t)
	tm.Update(tea.MouseMsg{X: 10, Y: 3, Button: tea.MouseButtonWheelUp, Action: tea.MouseActionPress})
	if got := tm.engine.Zoom(); got != timeline.ZoomHours {
		t.Fatalf("expected hours after wheel up; got %v", got)
	}
	tm.Update(tea.MouseMsg{X: 10, Y: 3, Button: tea.MouseButtonWheelDown, Action: tea.MouseActionPress})
	if got := tm.engine.Zoom(); got != timeline.ZoomDays {
		t.Fatalf("expected days after wheel down; got %v", got)
	}
}

func TestFocusCycleWraps(t *testing.T) {
	tm, _ := newTestTimeline(t)
	tm.Update(tea.KeyMsg{Type: tea.KeyDown})
	first := tm.engine.FocusedID()
	if first == "" {
		t.Fatal("expected a focused task after down")
	}
	tm.Update(tea.KeyMsg{Type: tea.KeyDown})
	second := tm.engine.FocusedID()
	if second == first {
		t.Fatalf("expected focus to move; stayed on %s", first)
	}
	tm.Update(tea.KeyMsg{Type: tea.KeyDown})
	if got := tm.engine.FocusedID(); got != first {
		t.Fatalf("expected focus to wrap back to %s; got %s", first, got)
	}
}

func TestNudgeIsOneUndoStep(t *testing.T) {
	tm, st := newTestTimeline(t)
	tm.engine.SetFocus("task_aaaaaaaaaaaa")

	tm.Update(tea.KeyMsg{Type: tea.KeyShiftRight}) // earlier by one snap (6h at days)

	got := taskByID(t, st, "task_aaaaaaaaaaaa").Schedule
	wantStart := time.Date(2024, 3, 13, 18, 0, 0, 0, time.UTC)
	if !got.Start.Equal(wantStart) {
		t.Fatalf("expected start %v after nudge; got %v", wantStart, got.Start)
	}
	if n := len(st.UIState.Undo.Stack); n != 1 {
		t.Fatalf("expected 1 undo entry; got %d", n)
	}

	tm.Update(keyRunes("u"))
	got = taskByID(t, st, "task_aaaaaaaaaaaa").Schedule
	if !got.Start.Equal(time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected undo to restore start; got %v", got.Start)
	}
	if n := len(st.UIState.Undo.RedoStack); n != 1 {
		t.Fatalf("expected 1 redo entry after undo; got %d", n)
	}

	tm.Update(tea.KeyMsg{Type: tea.KeyCtrlR})
	got = taskByID(t, st, "task_aaaaaaaaaaaa").Schedule
	if !got.Start.Equal(wantStart) {
		t.Fatalf("expected redo to re-apply; got %v", got.Start)
	}
}

func TestMouseDragMovesBarAndCoalescesUndo(t *testing.T) {
	tm, st := newTestTimeline(t)
	_ = tm.View() // populate the hit-test frame

	var bar timeline.Bar
	found := false
	for _, b := range tm.frame.Bars {
		if b.TaskID == "task_aaaaaaaaaaaa" {
			bar, found = b, true
		}
	}
	if !found {
		t.Fatal("expected Build bar in frame")
	}

	x := 30 // middle of the bar: a move, not a resize
	y := barsTopRow + bar.Row
	tm.Update(tea.MouseMsg{X: x, Y: y, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress})
	tm.Update(tea.MouseMsg{X: x - 5, Y: y, Button: tea.MouseButtonLeft, Action: tea.MouseActionMotion})
	tm.Update(tea.MouseMsg{X: x - 10, Y: y, Button: tea.MouseButtonLeft, Action: tea.MouseActionMotion})
	tm.Update(tea.MouseMsg{X: x - 10, Y: y, Button: tea.MouseButtonLeft, Action: tea.MouseActionRelease})

	// 10 px left at the days level is 6h later; duration preserved.
	got := taskByID(t, st, "task_aaaaaaaaaaaa").Schedule
	wantStart := time.Date(2024, 3, 14, 6, 0, 0, 0, time.UTC)
	wantEnd := time.Date(2024, 3, 16, 6, 0, 0, 0, time.UTC)
	if !got.Start.Equal(wantStart) || !got.End.Equal(wantEnd) {
		t.Fatalf("expected %v-%v after drag; got %v-%v", wantStart, wantEnd, got.Start, got.End)
	}
	if n := len(st.UIState.Undo.Stack); n != 1 {
		t.Fatalf("expected the whole drag to be 1 undo entry; got %d", n)
	}
}

func TestBarClickTogglesExpansionAndBackgroundClickCollapses(t *testing.T) {
	tm, _ := newTestTimeline(t)
	_ = tm.View()

	var bar timeline.Bar
	for _, b := range tm.frame.Bars {
		if b.TaskID == "task_aaaaaaaaaaaa" {
			bar = b
		}
	}
	x, y := 30, barsTopRow+bar.Row

	tm.Update(tea.MouseMsg{X: x, Y: y, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress})
	tm.Update(tea.MouseMsg{X: x, Y: y, Button: tea.MouseButtonLeft, Action: tea.MouseActionRelease})
	if got := tm.engine.ExpandedID(); got != "task_aaaaaaaaaaaa" {
		t.Fatalf("expected click to expand Build; got %q", got)
	}

	// A click on empty background (row with no bars) collapses.
	_ = tm.View()
	bgY := barsTopRow + 7
	tm.Update(tea.MouseMsg{X: 5, Y: bgY, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress})
	tm.Update(tea.MouseMsg{X: 5, Y: bgY, Button: tea.MouseButtonLeft, Action: tea.MouseActionRelease})
	if got := tm.engine.ExpandedID(); got != "" {
		t.Fatalf("expected background click to collapse; still %q", got)
	}
}

func TestBackgroundDragPansWithoutCollapsing(t *testing.T) {
	tm, _ := newTestTimeline(t)
	tm.engine.ToggleExpand("task_aaaaaaaaaaaa")
	_ = tm.View()

	bgY := barsTopRow + 7
	tm.Update(tea.MouseMsg{X: 40, Y: bgY, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress})
	tm.Update(tea.MouseMsg{X: 60, Y: bgY, Button: tea.MouseButtonLeft, Action: tea.MouseActionMotion})
	tm.Update(tea.MouseMsg{X: 60, Y: bgY, Button: tea.MouseButtonLeft, Action: tea.MouseActionRelease})

	if tm.engine.PanOffset() == 0 {
		t.Fatal("expected drag to pan the window")
	}
	if got := tm.engine.ExpandedID(); got != "task_aaaaaaaaaaaa" {
		t.Fatalf("expected a real pan to keep the expansion; got %q", got)
	}
}

func TestEscCollapsesBeforeLeaving(t *testing.T) {
	tm, _ := newTestTimeline(t)
	tm.engine.ToggleExpand("task_aaaaaaaaaaaa")

	back, _ := tm.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if back {
		t.Fatal("expected first esc to collapse, not leave")
	}
	if got := tm.engine.ExpandedID(); got != "" {
		t.Fatalf("expected esc to collapse; still %q", got)
	}

	back, _ = tm.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if !back {
		t.Fatal("expected second esc to leave the timeline")
	}
}

func TestScheduleModalApply(t *testing.T) {
	tm, st := newTestTimeline(t)
	tm.engine.SetFocus("task_cccccccccccc")

	tm.Update(keyRunes("e"))
	if tm.modal != modalSchedule {
		t.Fatalf("expected schedule modal; got %v", tm.modal)
	}
	tm.inputs.start.SetValue("2024-03-20")
	tm.inputs.end.SetValue("2024-03-22 18:00")
	tm.Update(tea.KeyMsg{Type: tea.KeyEnter})

	if tm.modal != modalNone {
		t.Fatalf("expected modal to close; err=%q", tm.modalErr)
	}
	got := taskByID(t, st, "task_cccccccccccc").Schedule
	if !got.IsRange() {
		t.Fatalf("expected point converted to range; got mode %v", got.Mode)
	}
	if !got.End.Equal(time.Date(2024, 3, 22, 18, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected end: %v", got.End)
	}
	if n := len(st.UIState.Undo.Stack); n != 1 {
		t.Fatalf("expected modal apply to push 1 undo entry; got %d", n)
	}
}

func TestPeopleModalPatchesTask(t *testing.T) {
	tm, st := newTestTimeline(t)
	tm.engine.SetFocus("task_aaaaaaaaaaaa")

	tm.Update(keyRunes("a"))
	if tm.modal != modalPeople {
		t.Fatalf("expected people modal; got %v", tm.modal)
	}
	tm.inputs.people.SetValue("Dana, Yoav")
	tm.Update(tea.KeyMsg{Type: tea.KeyEnter})

	got := taskByID(t, st, "task_aaaaaaaaaaaa").People
	if len(got) != 2 || got[0] != "Dana" || got[1] != "Yoav" {
		t.Fatalf("expected people [Dana Yoav]; got %v", got)
	}
}

func TestLockedProjectIsReadOnly(t *testing.T) {
	st := testState()
	st.UIState.LockedProjects["proj_000000000001"] = model.LockedProject{}
	s := store.Store{Dir: t.TempDir()}
	if err := s.Save(st); err != nil {
		t.Fatalf("save state: %v", err)
	}
	tm := newTimelineModel(s, st, "proj_000000000001")
	tm.engine.Now = func() time.Time { return tuiTestNow }
	tm.setSize(80, 24)

	if !tm.readOnly {
		t.Fatal("expected locked project to render read-only")
	}

	tm.engine.SetFocus("task_aaaaaaaaaaaa")
	before := *taskByID(t, st, "task_aaaaaaaaaaaa").Schedule
	tm.Update(tea.KeyMsg{Type: tea.KeyShiftRight})
	after := *taskByID(t, st, "task_aaaaaaaaaaaa").Schedule
	if !before.Equal(after) {
		t.Fatal("expected nudge to be ignored on a locked project")
	}

	tm.Update(keyRunes("e"))
	if tm.modal != modalNone {
		t.Fatal("expected schedule modal to stay closed on a locked project")
	}
}

func TestJumpToNowResetsPan(t *testing.T) {
	tm, _ := newTestTimeline(t)
	tm.Update(tea.KeyMsg{Type: tea.KeyLeft})
	if tm.engine.PanOffset() == 0 {
		t.Fatal("expected arrow key to pan")
	}
	tm.Update(keyRunes("t"))
	if got := tm.engine.PanOffset(); got != 0 {
		t.Fatalf("expected t to reset pan; got %v", got)
	}
}
