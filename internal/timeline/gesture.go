package timeline

import (
	"math"
	"time"

	"planline/internal/model"
)

// GestureMode says which part of the schedule a drag manipulates.
type GestureMode int

const (
	GestureMove GestureMode = iota
	GestureResizeStart
	GestureResizeEnd
)

// snapDelta rounds a raw time delta to the nearest multiple of the snap
// interval.
func snapDelta(raw, snap time.Duration) time.Duration {
	if snap <= 0 {
		return raw
	}
	steps := math.Round(float64(raw) / float64(snap))
	return time.Duration(steps) * snap
}

// applyScheduleDelta applies a snapped delta to a schedule snapshot.
// Resize modes clamp so the range keeps at least one snap interval of
// duration and can never invert; points only ever move.
func applyScheduleDelta(orig model.Schedule, mode GestureMode, delta, snap time.Duration) model.Schedule {
	if orig.IsPoint() {
		return orig.Shift(delta)
	}
	n := orig.Normalized()
	switch mode {
	case GestureResizeStart:
		start := n.Start.Add(delta)
		if limit := n.End.Add(-snap); start.After(limit) {
			start = limit
		}
		n.Start = start
		return n
	case GestureResizeEnd:
		end := n.End.Add(delta)
		if limit := n.Start.Add(snap); end.Before(limit) {
			end = limit
		}
		n.End = end
		return n
	default:
		return n.Shift(delta)
	}
}

// DragGesture is one active mouse drag on a task bar. All deltas are applied
// to the schedule snapshot captured at press time, never to the live value,
// so repeated rounding cannot drift.
type DragGesture struct {
	view         *View
	taskID       string
	mode         GestureMode
	originX      int
	original     model.Schedule
	timePerPixel int64
	snap         time.Duration
}

// StartDrag begins a drag on a task bar. Returns nil when the view is not
// interactive, another gesture is already active, or the task has no
// schedule.
func (v *View) StartDrag(taskID string, mode GestureMode, x int) *DragGesture {
	if !v.Interactive || v.gestureActive() {
		return nil
	}
	t := v.Task(taskID)
	if t == nil || t.Schedule == nil {
		return nil
	}
	g := &DragGesture{
		view:         v,
		taskID:       taskID,
		mode:         mode,
		originX:      x,
		original:     *t.Schedule,
		timePerPixel: v.zoom.TimePerPixel(),
		snap:         v.zoom.SnapInterval(),
	}
	v.drag = g
	return g
}

// Move recomputes the schedule from the origin snapshot and emits an update.
// Every movement emits; coalescing into one undo step is the store's job.
func (g *DragGesture) Move(x int) {
	if g.view.drag != g {
		return
	}
	g.view.emitSchedule(g.taskID, g.scheduleAt(x))
}

// scheduleAt derives the snapped schedule for pointer column x. The pixel
// delta sign is inverted for the right-to-left axis: moving the pointer left
// moves the task later.
func (g *DragGesture) scheduleAt(x int) model.Schedule {
	deltaPx := x - g.originX
	raw := time.Duration(-int64(deltaPx)*g.timePerPixel) * time.Millisecond
	return applyScheduleDelta(g.original, g.mode, snapDelta(raw, g.snap), g.snap)
}

// Release ends the gesture. Idempotent; also safe after view teardown.
func (g *DragGesture) Release() {
	if g.view.drag == g {
		g.view.drag = nil
	}
}

// PanGesture drags the visible window rather than a task. No snapping.
type PanGesture struct {
	view         *View
	originX      int
	originOffset time.Duration
	timePerPixel int64
	moved        bool
}

// panClickThresholdPx separates a drag-pan from a simple click: releases
// with less total movement still count as clicks.
const panClickThresholdPx = 3

// StartPan begins a background pan. Returns nil while a bar drag is active
// (concurrent gestures are disallowed). Panning works even when the view is
// locked; only mutations are gated.
func (v *View) StartPan(x int) *PanGesture {
	if v.gestureActive() {
		return nil
	}
	g := &PanGesture{
		view:         v,
		originX:      x,
		originOffset: v.panOffset,
		timePerPixel: v.zoom.TimePerPixel(),
	}
	v.pan = g
	return g
}

func (g *PanGesture) Move(x int) {
	if g.view.pan != g {
		return
	}
	deltaPx := x - g.originX
	if deltaPx < -panClickThresholdPx || deltaPx > panClickThresholdPx {
		g.moved = true
	}
	g.view.panOffset = g.originOffset + time.Duration(int64(deltaPx)*g.timePerPixel)*time.Millisecond
	g.view.clampPan()
}

// Release ends the pan. The return value reports whether the gesture stayed
// under the movement threshold and should be treated as a plain click.
func (g *PanGesture) Release() (click bool) {
	if g.view.pan == g {
		g.view.pan = nil
	}
	return !g.moved
}

func (v *View) gestureActive() bool {
	return v.drag != nil || v.pan != nil || v.touch != nil || v.touchPan != nil
}

// CancelGestures force-ends any active gesture without a further emit; used
// on component teardown so no listener or timer outlives the view.
func (v *View) CancelGestures() {
	v.drag = nil
	v.pan = nil
	if v.touch != nil {
		v.touch.done = true
		v.touch = nil
	}
	if v.touchPan != nil {
		v.touchPan.done = true
		v.touchPan = nil
	}
}
