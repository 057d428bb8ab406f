package web

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"planline/internal/model"
	"planline/internal/store"
	"planline/internal/timeline"
)

// inputEvent is one client input over the websocket. Coordinates are SVG
// pixels; the engine consumes them unchanged.
type inputEvent struct {
	Type   string `json:"type"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	DeltaY int    `json:"deltaY"`
	Width  int    `json:"width"`
	Key    string `json:"key"`
}

type frameMsg struct {
	Type     string `json:"type"`
	SVG      string `json:"svg"`
	Status   string `json:"status"`
	ReadOnly bool   `json:"read_only"`
}

const (
	minFrameWidth     = 200
	defaultFrameWidth = 800
)

// session is one websocket connection's state: its own engine over freshly
// loaded app state. The server is the only place touch long-press timers
// live; the browser just streams raw input.
type session struct {
	mu sync.Mutex

	s         store.Store
	st        *model.AppState
	projectID string
	engine    *timeline.View
	readOnly  bool

	width int

	drag     *timeline.DragGesture
	pan      *timeline.PanGesture
	touch    *timeline.TouchGesture
	touchPan *timeline.TouchPanGesture

	longPress  *time.Timer
	armTimers  bool // disabled in tests; LongPress is then driven directly
	pressX     int
	pressMoved bool
	pressedID  string

	undoTaskID string
	undoBefore *model.Schedule

	status string

	// onUpdate is invoked (locked) whenever a timer mutates the view
	// outside the read loop, so the connection can push a fresh frame.
	onUpdate func()
}

func newSession(s store.Store, projectID string, readOnly bool) (*session, error) {
	st, err := s.Load()
	if err != nil {
		return nil, err
	}
	if projectID == "" {
		if len(st.Projects) == 0 {
			return nil, errors.New("no projects in state")
		}
		projectID = st.Projects[0].ID
	}
	p := store.FindProject(st, projectID)
	if p == nil {
		return nil, fmt.Errorf("project not found: %s", projectID)
	}

	now := time.Now()
	sess := &session{
		s:         s,
		st:        st,
		projectID: projectID,
		width:     defaultFrameWidth,
		armTimers: true,
		readOnly:  readOnly || store.ProjectLocked(st, projectID, now),
	}

	sess.engine = timeline.NewView(store.ProjectTimeRange(p, now))
	sess.engine.Interactive = !sess.readOnly
	if loc, err := time.LoadLocation(st.App.Timezone); err == nil {
		sess.engine.Location = loc
	}
	sess.engine.Callbacks = timeline.Callbacks{
		OnScheduleUpdate:  sess.applyScheduleUpdate,
		OnTaskFieldUpdate: sess.applyFieldUpdate,
		OnZoomChange: func(z timeline.ZoomLevel) {
			sess.status = "zoom: " + z.Label()
		},
	}
	sess.refreshTasks()
	return sess, nil
}

func (sess *session) refreshTasks() {
	p := store.FindProject(sess.st, sess.projectID)
	if p == nil {
		sess.engine.SetTasks(nil)
		return
	}
	sess.engine.SetTasks(p.Milestones)
}

// close tears the session down; no timer may outlive the connection.
func (sess *session) close() {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.stopLongPress()
	sess.engine.CancelGestures()
	sess.drag, sess.pan, sess.touch, sess.touchPan = nil, nil, nil, nil
}

// apply handles one input event. Caller holds the lock.
func (sess *session) apply(ev inputEvent) {
	sess.status = ""
	switch ev.Type {
	case "resize":
		w := ev.Width
		if w < minFrameWidth {
			w = minFrameWidth
		}
		sess.width = w

	case "wheel":
		// Scrolling up (negative deltaY) zooms in, one level per event.
		if ev.DeltaY < 0 {
			sess.engine.Wheel(1)
		} else if ev.DeltaY > 0 {
			sess.engine.Wheel(-1)
		}

	case "key":
		sess.applyKey(ev.Key)

	case "pointerdown":
		sess.pointerDown(ev.X, ev.Y)
	case "pointermove":
		sess.pointerMove(ev.X)
	case "pointerup":
		sess.pointerUp()

	case "touchstart":
		sess.touchStart(ev.X, ev.Y)
	case "touchmove":
		sess.touchMove(ev.X, ev.Y)
	case "touchend":
		sess.touchEnd()
	}
}

func (sess *session) applyKey(key string) {
	switch key {
	case "+", "=":
		sess.engine.ZoomIn()
	case "-", "_":
		sess.engine.ZoomOut()
	case "n":
		sess.engine.NavigateNext()
	case "p":
		sess.engine.NavigatePrev()
	case "t":
		sess.engine.JumpToNow()
	case "ArrowUp":
		sess.engine.FocusPrev()
	case "ArrowDown":
		sess.engine.FocusNext()
	case "Enter":
		if id := sess.engine.FocusedID(); id != "" {
			sess.engine.ToggleExpand(id)
		}
	case "Escape":
		sess.engine.Collapse()
	case "u":
		sess.undo()
	case "U":
		sess.redo()
	}
}

func (sess *session) pointerDown(x, y int) {
	f := sess.engine.Render(sess.width)
	sess.pressX = x
	sess.pressMoved = false
	if bar, ok := f.BarAt(x, rowAt(y, f.Rows)); ok {
		sess.pressedID = bar.TaskID
		sess.engine.SetFocus(bar.TaskID)
		if !sess.readOnly {
			sess.beginChange(bar.TaskID)
			sess.drag = sess.engine.StartDrag(bar.TaskID, bar.ModeAt(x), x)
		}
		return
	}
	sess.pressedID = ""
	sess.pan = sess.engine.StartPan(x)
}

func (sess *session) pointerMove(x int) {
	if sess.drag != nil {
		if x != sess.pressX {
			sess.pressMoved = true
		}
		sess.drag.Move(x)
		return
	}
	if sess.pan != nil {
		sess.pan.Move(x)
	}
}

func (sess *session) pointerUp() {
	if sess.drag != nil {
		sess.drag.Release()
		sess.drag = nil
		if sess.pressMoved {
			sess.commitChange()
		} else {
			sess.abandonChange()
			sess.engine.ToggleExpand(sess.pressedID)
		}
		sess.pressedID = ""
		return
	}
	if sess.pan != nil {
		if click := sess.pan.Release(); click {
			sess.engine.Collapse()
		}
		sess.pan = nil
		return
	}
	if sess.pressedID != "" {
		// Read-only click still drills down.
		sess.engine.ToggleExpand(sess.pressedID)
		sess.pressedID = ""
	}
}

func (sess *session) touchStart(x, y int) {
	f := sess.engine.Render(sess.width)
	if bar, ok := f.BarAt(x, rowAt(y, f.Rows)); ok {
		sess.pressedID = bar.TaskID
		if !sess.readOnly {
			sess.beginChange(bar.TaskID)
			sess.touch = sess.engine.StartTouch(bar.TaskID, bar.ModeAt(x), x, y)
			if sess.touch != nil {
				sess.armLongPress()
			}
		}
		return
	}
	sess.pressedID = ""
	sess.touchPan = sess.engine.StartTouchPan(x, y)
	if sess.touchPan != nil {
		sess.armLongPress()
	}
}

func (sess *session) touchMove(x, y int) {
	if sess.touch != nil {
		sess.touch.Move(x, y)
		if sess.touch.Abandoned() {
			// Recognized as a page scroll: nothing was emitted, nothing to
			// undo.
			sess.stopLongPress()
			sess.abandonChange()
			sess.touch = nil
			sess.pressedID = ""
		}
		return
	}
	if sess.touchPan != nil {
		sess.touchPan.Move(x, y)
		if sess.touchPan.Abandoned() {
			sess.stopLongPress()
			sess.touchPan = nil
		}
	}
}

func (sess *session) touchEnd() {
	sess.stopLongPress()
	if sess.touch != nil {
		wasActive := sess.touch.Active()
		sess.touch.End()
		sess.touch = nil
		if wasActive {
			sess.commitChange()
		} else {
			// A tap: same as a mouse click on the bar.
			sess.abandonChange()
			sess.engine.ToggleExpand(sess.pressedID)
		}
		sess.pressedID = ""
		return
	}
	if sess.touchPan != nil {
		if click := sess.touchPan.End(); click {
			sess.engine.Collapse()
		}
		sess.touchPan = nil
	}
}

func (sess *session) armLongPress() {
	sess.stopLongPress()
	if !sess.armTimers {
		return
	}
	sess.longPress = time.AfterFunc(timeline.LongPressDuration, func() {
		sess.mu.Lock()
		defer sess.mu.Unlock()
		sess.fireLongPress()
		if sess.onUpdate != nil {
			sess.onUpdate()
		}
	})
}

// fireLongPress activates whichever touch gesture is still pending. Caller
// holds the lock.
func (sess *session) fireLongPress() {
	if sess.touch != nil {
		sess.touch.LongPress()
	}
	if sess.touchPan != nil {
		sess.touchPan.LongPress()
	}
}

func (sess *session) stopLongPress() {
	if sess.longPress != nil {
		sess.longPress.Stop()
		sess.longPress = nil
	}
}

// ---- mutation plumbing (same commit discipline as the TUI host) --------

func (sess *session) applyScheduleUpdate(taskID string, sched model.Schedule) {
	p := store.FindProject(sess.st, sess.projectID)
	if p == nil {
		return
	}
	path, _, ok := store.FindTaskByID(p, taskID)
	if !ok {
		return
	}
	if _, err := store.SetSchedule(p, path, &sched); err != nil {
		sess.status = err.Error()
		return
	}
	sess.engine.SetTasks(p.Milestones)
}

func (sess *session) applyFieldUpdate(taskID string, patch model.TaskPatch) {
	p := store.FindProject(sess.st, sess.projectID)
	if p == nil {
		return
	}
	path, _, ok := store.FindTaskByID(p, taskID)
	if !ok {
		return
	}
	if _, err := store.PatchTask(p, path, patch); err != nil {
		sess.status = err.Error()
		return
	}
	sess.engine.SetTasks(p.Milestones)
	if err := sess.s.Save(sess.st); err != nil {
		sess.status = err.Error()
		return
	}
	_ = sess.s.AppendEvent(context.Background(), "task.updated", taskID, patch)
}

func (sess *session) beginChange(taskID string) {
	sess.undoTaskID = taskID
	sess.undoBefore = nil
	if t := sess.engine.Task(taskID); t != nil && t.Schedule != nil {
		cp := *t.Schedule
		sess.undoBefore = &cp
	}
}

func (sess *session) abandonChange() {
	sess.undoTaskID = ""
	sess.undoBefore = nil
}

func (sess *session) commitChange() {
	taskID := sess.undoTaskID
	before := sess.undoBefore
	sess.abandonChange()
	if taskID == "" {
		return
	}

	p := store.FindProject(sess.st, sess.projectID)
	if p == nil {
		return
	}
	path, t, ok := store.FindTaskByID(p, taskID)
	if !ok {
		return
	}
	var after *model.Schedule
	if t.Schedule != nil {
		cp := *t.Schedule
		after = &cp
	}
	if before == nil && after == nil {
		return
	}
	if before != nil && after != nil && before.Equal(*after) {
		return
	}

	store.PushUndo(sess.st, model.UndoEntry{
		ProjectID: sess.projectID,
		TaskPath:  path,
		Before:    before,
		After:     after,
	})
	if err := sess.s.Save(sess.st); err != nil {
		sess.status = err.Error()
		return
	}
	_ = sess.s.AppendEvent(context.Background(), "task.schedule_updated", taskID, map[string]any{
		"before": before,
		"after":  after,
	})
	sess.status = "schedule updated"
}

func (sess *session) undo() {
	if sess.readOnly {
		return
	}
	_, ok, err := store.Undo(sess.st)
	if err != nil {
		sess.status = err.Error()
		return
	}
	if !ok {
		sess.status = "nothing to undo"
		return
	}
	sess.refreshTasks()
	if err := sess.s.Save(sess.st); err != nil {
		sess.status = err.Error()
		return
	}
	sess.status = "undone"
}

func (sess *session) redo() {
	if sess.readOnly {
		return
	}
	_, ok, err := store.Redo(sess.st)
	if err != nil {
		sess.status = err.Error()
		return
	}
	if !ok {
		sess.status = "nothing to redo"
		return
	}
	sess.refreshTasks()
	if err := sess.s.Save(sess.st); err != nil {
		sess.status = err.Error()
		return
	}
	sess.status = "redone"
}

// frame renders the current view into the wire message. Caller holds the
// lock.
func (sess *session) frame() frameMsg {
	f := sess.engine.Render(sess.width)
	now := sess.engine.Range.Clamp(time.Now())
	return frameMsg{
		Type:     "frame",
		SVG:      renderSVG(f, now),
		Status:   sess.status,
		ReadOnly: sess.readOnly,
	}
}
