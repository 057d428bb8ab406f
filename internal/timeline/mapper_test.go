package timeline

import (
	"testing"
	"time"

	"planline/internal/model"
)

func TestMapperIsRightToLeft(t *testing.T) {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	m := newMapper(100, ZoomDays.TimePerPixel(), start)

	if got := m.X(start); got != 100 {
		t.Fatalf("window start should map to the right edge: expected 100, got %d", got)
	}
	// Later instants move left.
	later := start.Add(24 * time.Hour)
	if got := m.X(later); got != 60 {
		t.Fatalf("one day later should sit 40 px left of the edge: expected 60, got %d", got)
	}
}

func TestMapperRoundTrip(t *testing.T) {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	m := newMapper(120, ZoomHours.TimePerPixel(), start)
	for _, x := range []int{0, 1, 37, 60, 119, 120} {
		if got := m.X(m.TimeAt(x)); got != x {
			t.Fatalf("round trip at x=%d: got %d", x, got)
		}
	}
}

func TestTwoDayBarIsEightyPixelsAtDaysZoom(t *testing.T) {
	start := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	m := newMapper(400, ZoomDays.TimePerPixel(), start.Add(-24*time.Hour))

	s := model.NewRangeSchedule(start, start.Add(48*time.Hour))
	startX, endX, isPoint := m.project(*s)
	if isPoint {
		t.Fatalf("range projected as point")
	}
	if got := endX - startX; got != 80 {
		t.Fatalf("2-day bar at days zoom: expected width 80, got %d", got)
	}
}

func TestProjectNormalizesInvertedRange(t *testing.T) {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	m := newMapper(200, ZoomDays.TimePerPixel(), start)

	inverted := model.Schedule{
		Mode:  model.ScheduleRange,
		Start: start.Add(72 * time.Hour),
		End:   start.Add(24 * time.Hour),
	}
	startX, endX, _ := m.project(inverted)
	if startX > endX {
		t.Fatalf("inverted schedule produced inverted interval: [%d, %d]", startX, endX)
	}
}

func TestProjectPointIsFixedRadiusBand(t *testing.T) {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	m := newMapper(200, ZoomDays.TimePerPixel(), start)

	at := start.Add(24 * time.Hour)
	startX, endX, isPoint := m.project(*model.NewPointSchedule(at))
	if !isPoint {
		t.Fatalf("point projected as range")
	}
	center := m.X(at)
	if startX != center-pointRadius || endX != center+pointRadius {
		t.Fatalf("expected band [%d, %d], got [%d, %d]",
			center-pointRadius, center+pointRadius, startX, endX)
	}
}
