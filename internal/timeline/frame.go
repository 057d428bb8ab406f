package timeline

import (
	"time"

	"planline/internal/model"
)

// Bar is the per-render projection of one scheduled task into pixel space.
type Bar struct {
	Task    *model.Task
	TaskID  string
	StartX  int
	EndX    int
	Row     int
	Color   string
	IsPoint bool
	Focused bool
	Dimmed  bool
}

// SubBand is the Level-2 drill-down: the expanded task's subtasks mapped onto
// an independent linear ratio sized to the band width.
type SubBand struct {
	Task  *model.Task
	Start time.Time
	End   time.Time
	Bars  []Bar
	Rows  int
}

// Frame is everything a host needs to draw one render of the timeline.
// It is derived from scratch on every call and never cached.
type Frame struct {
	Width        int
	Zoom         ZoomLevel
	VisibleStart time.Time
	VisibleEnd   time.Time
	Center       time.Time
	Bars         []Bar
	Rows         int
	Ticks        []Tick
	EarlierCount int // scheduled tasks wholly before the window (off the right edge)
	LaterCount   int // scheduled tasks wholly after the window (off the left edge)
	NavPos       int // 1-based position of the nearest-to-center task, 0 if none
	NavTotal     int
	SubBand      *SubBand
}

// Render derives the frame for the given pixel width.
func (v *View) Render(width int) Frame {
	if width < 1 {
		width = 1
	}
	v.lastWidth = width
	v.clampPan()

	m := v.mapper(width)
	scheduled := v.scheduledTasks()

	f := Frame{
		Width:        width,
		Zoom:         v.zoom,
		VisibleStart: m.VisibleStart,
		VisibleEnd:   m.VisibleEnd(),
		Center:       v.CenterTime(),
		Ticks:        generateTicks(m, v.zoom, v.loc()),
		NavTotal:     len(scheduled),
	}
	if i := v.nearestIndex(scheduled); i >= 0 {
		f.NavPos = i + 1
	}

	dimOthers := v.expandedID != ""
	for _, t := range scheduled {
		startX, endX, isPoint := m.project(*t.Schedule)
		switch {
		case startX > width:
			f.EarlierCount++
			continue
		case endX < 0:
			f.LaterCount++
			continue
		}
		f.Bars = append(f.Bars, Bar{
			Task:    t,
			TaskID:  t.ID,
			StartX:  startX,
			EndX:    endX,
			Color:   t.Color,
			IsPoint: isPoint,
			Focused: t.ID == v.focusedID,
			Dimmed:  dimOthers && t.ID != v.expandedID,
		})
	}
	f.Rows = packRows(f.Bars)

	if v.expandedID != "" {
		f.SubBand = v.renderSubBand(width)
	}
	return f
}

// renderSubBand maps the expanded task's subtasks onto their own coordinate
// space: the task's range (or the parent timeline's range for point and
// unscheduled tasks) stretched across the band width. This is a fresh linear
// ratio, not a recursive application of the parent zoom level.
func (v *View) renderSubBand(width int) *SubBand {
	t := v.Task(v.expandedID)
	if t == nil || len(t.Subtasks) == 0 {
		return nil
	}

	start, end := v.Range.Start, v.Range.End
	if t.Schedule.IsRange() {
		n := t.Schedule.Normalized()
		start, end = n.Start, n.End
	}
	spanMS := end.UnixMilli() - start.UnixMilli()
	if spanMS < 1 {
		spanMS = 1
	}
	tpp := spanMS / int64(width)
	if tpp < 1 {
		tpp = 1
	}
	m := newMapper(width, tpp, start)

	band := &SubBand{Task: t, Start: start, End: end}
	for i := range t.Subtasks {
		st := &t.Subtasks[i]
		if st.Schedule == nil {
			continue
		}
		startX, endX, isPoint := m.project(*st.Schedule)
		if startX > width || endX < 0 {
			continue
		}
		band.Bars = append(band.Bars, Bar{
			Task:    st,
			TaskID:  st.ID,
			StartX:  startX,
			EndX:    endX,
			Color:   st.Color,
			IsPoint: isPoint,
		})
	}
	band.Rows = packRows(band.Bars)
	return band
}

// BarAt hit-tests a pixel position against the main band's bars.
func (f Frame) BarAt(x, row int) (Bar, bool) {
	for _, b := range f.Bars {
		if b.Row == row && x >= b.StartX && x <= b.EndX {
			return b, true
		}
	}
	return Bar{}, false
}

// resizeZonePx is how close to a range bar's edge a press counts as a
// resize grip rather than a move.
const resizeZonePx = 1

// ModeAt decides which gesture mode a press at x on this bar starts.
// Point bars and narrow bars only move. Remember the axis is RTL: the left
// edge of a range bar is its end in time.
func (b Bar) ModeAt(x int) GestureMode {
	if b.IsPoint || b.EndX-b.StartX <= 2*resizeZonePx+1 {
		return GestureMove
	}
	switch {
	case x <= b.StartX+resizeZonePx:
		return GestureResizeEnd
	case x >= b.EndX-resizeZonePx:
		return GestureResizeStart
	default:
		return GestureMove
	}
}

func (v *View) loc() *time.Location {
	if v.Location != nil {
		return v.Location
	}
	return time.Local
}
