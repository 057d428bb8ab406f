package timeline

import (
	"sort"
	"time"

	"planline/internal/model"
)

// Callbacks report engine-driven mutations upward. The engine never touches
// the task tree itself; the owning store applies these and feeds the updated
// tree back through SetTasks.
type Callbacks struct {
	OnScheduleUpdate  func(taskID string, s model.Schedule)
	OnTaskFieldUpdate func(taskID string, p model.TaskPatch)
	OnZoomChange      func(z ZoomLevel)
}

// View holds the transient per-component view state: zoom level, pan offset,
// focus and expansion. It derives the visible window from "now" clamped into
// the timeline range plus the pan offset, and assembles a Frame per render.
type View struct {
	Range       model.TimeRange
	Interactive bool
	Location    *time.Location
	Now         func() time.Time
	Callbacks   Callbacks

	zoom       ZoomLevel
	panOffset  time.Duration
	expandedID string
	focusedID  string

	tasks []model.Task
	index map[string]*model.Task

	// At most one gesture at a time; starting a drag while a pan is
	// active (or vice versa) is refused.
	drag     *DragGesture
	touch    *TouchGesture
	pan      *PanGesture
	touchPan *TouchPanGesture

	lastWidth int
}

func NewView(r model.TimeRange) *View {
	return &View{
		Range:       r,
		Interactive: true,
		Location:    time.Local,
		Now:         time.Now,
		zoom:        ZoomDays,
		lastWidth:   80,
	}
}

// SetTasks replaces the rendered task tree and rebuilds the id index. Bars
// returned by Render reference these nodes until the next SetTasks.
func (v *View) SetTasks(tasks []model.Task) {
	v.tasks = tasks
	v.index = map[string]*model.Task{}
	var walk func(ts []model.Task)
	walk = func(ts []model.Task) {
		for i := range ts {
			v.index[ts[i].ID] = &ts[i]
			walk(ts[i].Subtasks)
		}
	}
	walk(v.tasks)
}

// Task looks up any node in the tree by id, nil if unknown.
func (v *View) Task(id string) *model.Task {
	return v.index[id]
}

func (v *View) Zoom() ZoomLevel         { return v.zoom }
func (v *View) PanOffset() time.Duration { return v.panOffset }
func (v *View) ExpandedID() string      { return v.expandedID }
func (v *View) FocusedID() string       { return v.focusedID }

// SetZoom is the externally-controlled zoom path; it does not fire
// OnZoomChange (the controller already knows).
func (v *View) SetZoom(z ZoomLevel) {
	if z.Valid() {
		v.zoom = z
	}
}

func (v *View) ZoomIn()  { v.stepZoom(v.zoom.In()) }
func (v *View) ZoomOut() { v.stepZoom(v.zoom.Out()) }

// Wheel maps a wheel step to a single zoom level, never fractional steps.
// Scrolling up zooms in.
func (v *View) Wheel(delta int) {
	switch {
	case delta > 0:
		v.ZoomIn()
	case delta < 0:
		v.ZoomOut()
	}
}

func (v *View) stepZoom(next ZoomLevel) {
	if !v.Interactive || next == v.zoom {
		return
	}
	v.zoom = next
	if v.Callbacks.OnZoomChange != nil {
		v.Callbacks.OnZoomChange(next)
	}
}

// clampedNow pins "now" into the timeline range, so the centered instant
// always lies inside the project's horizon even when now is outside it.
func (v *View) clampedNow() time.Time {
	return v.Range.Clamp(v.Now())
}

// CenterTime is the instant at the middle of the visible window.
func (v *View) CenterTime() time.Time {
	return v.clampedNow().Add(v.panOffset)
}

func (v *View) mapper(width int) Mapper {
	tpp := v.zoom.TimePerPixel()
	halfMS := int64(width) * tpp / 2
	start := time.UnixMilli(v.CenterTime().UnixMilli() - halfMS)
	return newMapper(width, tpp, start)
}

// JumpToNow resets the pan so the window re-centers on clamped now.
func (v *View) JumpToNow() { v.panOffset = 0 }

// clampPan keeps the center from wandering more than one window span past
// either end of the timeline range.
func (v *View) clampPan() {
	slack := time.Duration(int64(v.lastWidth)*v.zoom.TimePerPixel()) * time.Millisecond
	now := v.clampedNow()
	min := v.Range.Start.Add(-slack).Sub(now)
	max := v.Range.End.Add(slack).Sub(now)
	if v.panOffset < min {
		v.panOffset = min
	}
	if v.panOffset > max {
		v.panOffset = max
	}
}

// scheduledTasks returns the top-level tasks that carry a schedule, sorted by
// their representative instant ascending. Unscheduled tasks are invisible to
// the timeline.
func (v *View) scheduledTasks() []*model.Task {
	var out []*model.Task
	for i := range v.tasks {
		if v.tasks[i].Schedule != nil {
			out = append(out, &v.tasks[i])
		}
	}
	sort.SliceStable(out, func(a, b int) bool {
		ta, tb := out[a].Schedule.Instant(), out[b].Schedule.Instant()
		if !ta.Equal(tb) {
			return ta.Before(tb)
		}
		return out[a].ID < out[b].ID
	})
	return out
}

// nearestIndex reports the index (into scheduledTasks order) of the task
// whose instant is closest to the window center, -1 when nothing is
// scheduled.
func (v *View) nearestIndex(scheduled []*model.Task) int {
	if len(scheduled) == 0 {
		return -1
	}
	center := v.CenterTime()
	best, bestDist := 0, time.Duration(-1)
	for i, t := range scheduled {
		d := center.Sub(t.Schedule.Instant())
		if d < 0 {
			d = -d
		}
		if bestDist < 0 || d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// CenterOnTask pans so the task's schedule instant becomes the window center.
func (v *View) CenterOnTask(id string) {
	t := v.Task(id)
	if t == nil || t.Schedule == nil {
		return
	}
	v.panOffset = t.Schedule.Instant().Sub(v.clampedNow())
	v.clampPan()
}

// NavigateNext centers the window on the task after the current
// nearest-to-center one (time ascending), bounded at the last task.
func (v *View) NavigateNext() { v.navigate(1) }

// NavigatePrev centers the window on the task before the current one.
func (v *View) NavigatePrev() { v.navigate(-1) }

func (v *View) navigate(step int) {
	scheduled := v.scheduledTasks()
	cur := v.nearestIndex(scheduled)
	if cur < 0 {
		return
	}
	next := cur + step
	if next < 0 {
		next = 0
	}
	if next > len(scheduled)-1 {
		next = len(scheduled) - 1
	}
	v.focusedID = scheduled[next].ID
	v.CenterOnTask(scheduled[next].ID)
}

// FocusNext moves keyboard focus to the next scheduled task, wrapping.
func (v *View) FocusNext() { v.cycleFocus(1) }

// FocusPrev moves keyboard focus to the previous scheduled task, wrapping.
func (v *View) FocusPrev() { v.cycleFocus(-1) }

func (v *View) cycleFocus(step int) {
	scheduled := v.scheduledTasks()
	if len(scheduled) == 0 {
		v.focusedID = ""
		return
	}
	cur := -1
	for i, t := range scheduled {
		if t.ID == v.focusedID {
			cur = i
			break
		}
	}
	if cur < 0 {
		// Nothing focused yet: start from the task nearest the center.
		v.focusedID = scheduled[v.nearestIndex(scheduled)].ID
		return
	}
	next := (cur + step + len(scheduled)) % len(scheduled)
	v.focusedID = scheduled[next].ID
}

func (v *View) SetFocus(id string) { v.focusedID = id }

// NudgeEarlier shifts the focused task's schedule one snap interval toward
// earlier time, with the same snap/clamp rules as a pointer drag.
func (v *View) NudgeEarlier() { v.nudge(-1) }

// NudgeLater shifts the focused task's schedule one snap interval later.
func (v *View) NudgeLater() { v.nudge(1) }

func (v *View) nudge(sign int) {
	if !v.Interactive || v.focusedID == "" {
		return
	}
	t := v.Task(v.focusedID)
	if t == nil || t.Schedule == nil {
		return
	}
	delta := time.Duration(sign) * v.zoom.SnapInterval()
	next := applyScheduleDelta(*t.Schedule, GestureMove, delta, v.zoom.SnapInterval())
	v.emitSchedule(t.ID, next)
}

// ToggleExpand opens the Level-2 sub-band for a task with subtasks, or closes
// it when the same task is toggled again. Tasks without subtasks never expand.
func (v *View) ToggleExpand(id string) {
	if v.expandedID == id {
		v.expandedID = ""
		return
	}
	t := v.Task(id)
	if t == nil || len(t.Subtasks) == 0 {
		return
	}
	v.expandedID = id
}

// Collapse closes the sub-band (background click, Escape).
func (v *View) Collapse() { v.expandedID = "" }

func (v *View) emitSchedule(taskID string, s model.Schedule) {
	if v.Callbacks.OnScheduleUpdate != nil {
		v.Callbacks.OnScheduleUpdate(taskID, s)
	}
}

// UpdateTaskFields forwards an auxiliary field edit (people, notes, details)
// made through the engine's detail surface.
func (v *View) UpdateTaskFields(taskID string, p model.TaskPatch) {
	if v.Callbacks.OnTaskFieldUpdate != nil {
		v.Callbacks.OnTaskFieldUpdate(taskID, p)
	}
}
