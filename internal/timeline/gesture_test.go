package timeline

import (
	"testing"
	"time"

	"planline/internal/model"
)

var testNow = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

// newTestView builds an interactive view over a fixed one-month range with a
// deterministic clock, recording every emitted schedule update.
func newTestView(tasks []model.Task) (*View, *[]model.Schedule) {
	v := NewView(model.TimeRange{
		Start: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
	})
	v.Location = time.UTC
	v.Now = func() time.Time { return testNow }
	var updates []model.Schedule
	v.Callbacks.OnScheduleUpdate = func(id string, s model.Schedule) {
		updates = append(updates, s)
	}
	v.SetTasks(tasks)
	return v, &updates
}

func rangeTask(id string, start time.Time, d time.Duration) model.Task {
	return model.Task{ID: id, Title: id, Schedule: model.NewRangeSchedule(start, start.Add(d))}
}

func TestDragMovePreservesDuration(t *testing.T) {
	start := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	v, updates := newTestView([]model.Task{rangeTask("task_a", start, 48*time.Hour)})

	g := v.StartDrag("task_a", GestureMove, 100)
	if g == nil {
		t.Fatalf("expected drag to start")
	}
	g.Move(60) // 40 px left = one day later at days zoom
	g.Release()

	if len(*updates) != 1 {
		t.Fatalf("expected 1 update, got %d", len(*updates))
	}
	got := (*updates)[0]
	wantStart := start.Add(24 * time.Hour)
	if !got.Start.Equal(wantStart) {
		t.Fatalf("expected start %v, got %v", wantStart, got.Start)
	}
	if got.Duration() != 48*time.Hour {
		t.Fatalf("move changed duration: %v", got.Duration())
	}
}

func TestDragDeltaIsSnapped(t *testing.T) {
	start := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	v, updates := newTestView([]model.Task{rangeTask("task_a", start, 48*time.Hour)})

	g := v.StartDrag("task_a", GestureMove, 100)
	g.Move(97) // 3 px ≈ 1.8 h raw; snaps to nearest quarter-day = 0
	g.Release()

	got := (*updates)[0]
	if !got.Start.Equal(start) {
		t.Fatalf("sub-snap movement should round to zero delta, got start %v", got.Start)
	}
}

func TestDragAppliesToSnapshotNotLiveSchedule(t *testing.T) {
	start := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	v, updates := newTestView([]model.Task{rangeTask("task_a", start, 48*time.Hour)})

	g := v.StartDrag("task_a", GestureMove, 100)
	// Many intermediate moves; each delta is computed from the origin
	// snapshot, so the final position depends only on the final x.
	for x := 99; x >= 60; x-- {
		g.Move(x)
	}
	g.Release()

	final := (*updates)[len(*updates)-1]
	wantStart := start.Add(24 * time.Hour)
	if !final.Start.Equal(wantStart) {
		t.Fatalf("accumulated drift: expected start %v, got %v", wantStart, final.Start)
	}
}

func TestResizeStartClampsAtMinimumDuration(t *testing.T) {
	start := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	v, updates := newTestView([]model.Task{rangeTask("task_a", start, 24*time.Hour)})

	g := v.StartDrag("task_a", GestureResizeStart, 100)
	g.Move(-300) // drag start far past the end
	g.Release()

	got := (*updates)[0]
	if !got.Start.Before(got.End) {
		t.Fatalf("resize-start inverted the range: %v >= %v", got.Start, got.End)
	}
	if min := v.Zoom().SnapInterval(); got.End.Sub(got.Start) != min {
		t.Fatalf("expected clamp to min duration %v, got %v", min, got.End.Sub(got.Start))
	}
}

func TestResizeEndClampsAtMinimumDuration(t *testing.T) {
	start := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	v, updates := newTestView([]model.Task{rangeTask("task_a", start, 24*time.Hour)})

	g := v.StartDrag("task_a", GestureResizeEnd, 50)
	g.Move(400) // drag end far past the start
	g.Release()

	got := (*updates)[0]
	if !got.End.After(got.Start) {
		t.Fatalf("resize-end inverted the range: %v <= %v", got.End, got.Start)
	}
	if min := v.Zoom().SnapInterval(); got.End.Sub(got.Start) != min {
		t.Fatalf("expected clamp to min duration %v, got %v", min, got.End.Sub(got.Start))
	}
}

func TestPointScheduleOnlyMoves(t *testing.T) {
	at := time.Date(2024, 3, 12, 0, 0, 0, 0, time.UTC)
	v, updates := newTestView([]model.Task{
		{ID: "task_p", Schedule: model.NewPointSchedule(at)},
	})

	g := v.StartDrag("task_p", GestureResizeEnd, 100)
	g.Move(60)
	g.Release()

	got := (*updates)[0]
	if !got.IsPoint() {
		t.Fatalf("point schedule changed mode: %v", got.Mode)
	}
	if !got.Point.Equal(at.Add(24 * time.Hour)) {
		t.Fatalf("expected point %v, got %v", at.Add(24*time.Hour), got.Point)
	}
}

func TestDragRefusedWhenLockedOrBusy(t *testing.T) {
	start := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	v, _ := newTestView([]model.Task{rangeTask("task_a", start, 24*time.Hour)})

	v.Interactive = false
	if g := v.StartDrag("task_a", GestureMove, 10); g != nil {
		t.Fatalf("drag should be refused on a locked view")
	}
	v.Interactive = true

	pan := v.StartPan(10)
	if pan == nil {
		t.Fatalf("expected pan to start")
	}
	if g := v.StartDrag("task_a", GestureMove, 10); g != nil {
		t.Fatalf("drag should be refused while a pan is active")
	}
	pan.Release()

	if g := v.StartDrag("task_a", GestureMove, 10); g == nil {
		t.Fatalf("drag should start once the pan released")
	}
}

func TestDragOnUnscheduledTaskRefused(t *testing.T) {
	v, _ := newTestView([]model.Task{{ID: "task_u", Title: "no schedule"}})
	if g := v.StartDrag("task_u", GestureMove, 10); g != nil {
		t.Fatalf("unscheduled task must not be draggable")
	}
}

func TestPanMovesWindowWithoutSnapping(t *testing.T) {
	v, updates := newTestView(nil)
	g := v.StartPan(100)
	g.Move(107) // 7 px; pan has no snap, so the offset is exact
	if click := g.Release(); click {
		t.Fatalf("7 px of movement should not count as a click")
	}
	want := time.Duration(7*ZoomDays.TimePerPixel()) * time.Millisecond
	if v.PanOffset() != want {
		t.Fatalf("expected pan offset %v, got %v", want, v.PanOffset())
	}
	if len(*updates) != 0 {
		t.Fatalf("pan must not emit schedule updates")
	}
}

func TestPanReleaseReportsClickUnderThreshold(t *testing.T) {
	v, _ := newTestView(nil)
	g := v.StartPan(100)
	g.Move(101)
	if click := g.Release(); !click {
		t.Fatalf("sub-threshold pan should report a click")
	}
}

func TestCancelGesturesClearsEverything(t *testing.T) {
	start := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	v, _ := newTestView([]model.Task{rangeTask("task_a", start, 24*time.Hour)})

	g := v.StartDrag("task_a", GestureMove, 10)
	v.CancelGestures()
	if v.gestureActive() {
		t.Fatalf("gesture still active after cancel")
	}
	// A stale handle must be inert after teardown.
	g.Move(50)
	g.Release()
}
