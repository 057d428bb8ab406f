package timeline

import (
	"time"

	"planline/internal/model"
)

// Touch gestures are provisional until activated, so a touch that turns out
// to be a vertical scroll never mutates a schedule. Activation happens when
// either the host's long-press timer fires or cumulative movement passes the
// distance threshold; before that, vertically dominant movement abandons the
// gesture entirely.
const (
	// LongPressDuration is how long the host should wait before calling
	// LongPress on a still-undecided touch.
	LongPressDuration = 500 * time.Millisecond

	touchActivateDistPx = 10
)

// TouchGesture is one active touch interaction on a task bar.
type TouchGesture struct {
	view         *View
	taskID       string
	mode         GestureMode
	originX      int
	originY      int
	original     model.Schedule
	timePerPixel int64
	snap         time.Duration
	active       bool
	abandoned    bool
	done         bool
}

// StartTouch begins a provisional touch drag on a task bar. The host owns
// the long-press timer; it should arm one for LongPressDuration and call
// LongPress when it fires (and cancel it on End).
func (v *View) StartTouch(taskID string, mode GestureMode, x, y int) *TouchGesture {
	if !v.Interactive || v.gestureActive() {
		return nil
	}
	t := v.Task(taskID)
	if t == nil || t.Schedule == nil {
		return nil
	}
	g := &TouchGesture{
		view:         v,
		taskID:       taskID,
		mode:         mode,
		originX:      x,
		originY:      y,
		original:     *t.Schedule,
		timePerPixel: v.zoom.TimePerPixel(),
		snap:         v.zoom.SnapInterval(),
	}
	v.touch = g
	return g
}

// LongPress activates the gesture via the timer path.
func (g *TouchGesture) LongPress() {
	if g.done || g.view.touch != g {
		return
	}
	g.active = true
}

// Move feeds a touch position. Before activation it only arbitrates between
// drag and scroll; after activation it behaves exactly like a mouse drag.
func (g *TouchGesture) Move(x, y int) {
	if g.done || g.view.touch != g {
		return
	}
	if !g.active {
		dx, dy := abs(x-g.originX), abs(y-g.originY)
		if dy > dx {
			// The user is scrolling the page. Walk away without having
			// emitted anything.
			g.abandon()
			return
		}
		if dx < touchActivateDistPx {
			return
		}
		g.active = true
	}
	deltaPx := x - g.originX
	raw := time.Duration(-int64(deltaPx)*g.timePerPixel) * time.Millisecond
	next := applyScheduleDelta(g.original, g.mode, snapDelta(raw, g.snap), g.snap)
	g.view.emitSchedule(g.taskID, next)
}

// End releases the touch. Idempotent; the host must also cancel its
// long-press timer.
func (g *TouchGesture) End() {
	g.done = true
	if g.view.touch == g {
		g.view.touch = nil
	}
}

// Active reports whether the gesture passed its activation gate. Hosts use
// this to decide when to suppress native scrolling.
func (g *TouchGesture) Active() bool { return g.active && !g.done }

// Abandoned reports that the touch was recognized as a scroll and ended with
// zero schedule mutations.
func (g *TouchGesture) Abandoned() bool { return g.abandoned }

func (g *TouchGesture) abandon() {
	g.abandoned = true
	g.End()
}

// TouchPanGesture pans the window from a touch, with the same pre-activation
// scroll arbitration as a touch drag.
type TouchPanGesture struct {
	view         *View
	originX      int
	originY      int
	originOffset time.Duration
	timePerPixel int64
	active       bool
	abandoned    bool
	done         bool
	moved        bool
}

// StartTouchPan begins a provisional touch pan on timeline background. The
// pan occupies the gesture slot, so bar drags cannot start while it runs.
func (v *View) StartTouchPan(x, y int) *TouchPanGesture {
	if v.gestureActive() {
		return nil
	}
	g := &TouchPanGesture{
		view:         v,
		originX:      x,
		originY:      y,
		originOffset: v.panOffset,
		timePerPixel: v.zoom.TimePerPixel(),
	}
	v.touchPan = g
	return g
}

func (g *TouchPanGesture) LongPress() {
	if g.done {
		return
	}
	g.active = true
}

func (g *TouchPanGesture) Move(x, y int) {
	if g.done {
		return
	}
	if !g.active {
		dx, dy := abs(x-g.originX), abs(y-g.originY)
		if dy > dx {
			g.abandon()
			return
		}
		if dx < touchActivateDistPx {
			return
		}
		g.active = true
	}
	deltaPx := x - g.originX
	if deltaPx < -panClickThresholdPx || deltaPx > panClickThresholdPx {
		g.moved = true
	}
	g.view.panOffset = g.originOffset + time.Duration(int64(deltaPx)*g.timePerPixel)*time.Millisecond
	g.view.clampPan()
}

// End releases the touch pan; click reports a sub-threshold tap.
func (g *TouchPanGesture) End() (click bool) {
	if g.done {
		return false
	}
	g.done = true
	if g.view.touchPan == g {
		g.view.touchPan = nil
	}
	return !g.abandoned && !g.moved
}

func (g *TouchPanGesture) Active() bool    { return g.active && !g.done }
func (g *TouchPanGesture) Abandoned() bool { return g.abandoned }

func (g *TouchPanGesture) abandon() {
	g.abandoned = true
	// Restore the offset captured at touch start; an abandoned pan must
	// leave the view as it found it.
	g.view.panOffset = g.originOffset
	g.done = true
	if g.view.touchPan == g {
		g.view.touchPan = nil
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
