package timeline

import (
	"testing"
	"time"

	"planline/internal/model"
)

func TestZoomStepsAreBounded(t *testing.T) {
	if got := ZoomMonths.Out(); got != ZoomMonths {
		t.Fatalf("expected Out at months to stay months, got %v", got)
	}
	if got := ZoomMinutes.In(); got != ZoomMinutes {
		t.Fatalf("expected In at minutes to stay minutes, got %v", got)
	}
	if got := ZoomDays.In(); got != ZoomHours {
		t.Fatalf("expected days→hours, got %v", got)
	}
	if got := ZoomDays.Out(); got != ZoomWeeks {
		t.Fatalf("expected days→weeks, got %v", got)
	}
}

func TestDaysTimePerPixel(t *testing.T) {
	// One day spans 40 px at the days level.
	want := int64(86400000 / 40)
	if got := ZoomDays.TimePerPixel(); got != want {
		t.Fatalf("days timePerPixel: expected %d, got %d", want, got)
	}
}

func TestSnapIntervalIsQuarterTick(t *testing.T) {
	for _, z := range ZoomLevels() {
		if got, want := z.SnapInterval(), z.TickInterval()/4; got != want {
			t.Fatalf("%s: expected snap %v, got %v", z.Label(), want, got)
		}
	}
}

func TestZoomConfigsCoverAllLevels(t *testing.T) {
	for _, z := range ZoomLevels() {
		if !z.Valid() {
			t.Fatalf("level %d has no config", z)
		}
		cfg := z.config()
		if cfg.timePerPixel <= 0 {
			t.Fatalf("%s: non-positive timePerPixel", z.Label())
		}
		if cfg.minTickSpacingPx <= 0 {
			t.Fatalf("%s: non-positive minTickSpacingPx", z.Label())
		}
		if cfg.labelFormat == "" {
			t.Fatalf("%s: empty label format", z.Label())
		}
	}
}

func TestWheelMapsToSingleSteps(t *testing.T) {
	v := NewView(testRange())
	v.SetZoom(ZoomDays)
	v.Wheel(5) // large delta still steps one level
	if got := v.Zoom(); got != ZoomHours {
		t.Fatalf("expected one step in to hours, got %v", got)
	}
	v.Wheel(-1)
	if got := v.Zoom(); got != ZoomDays {
		t.Fatalf("expected one step out to days, got %v", got)
	}
}

func testRange() model.TimeRange {
	return model.TimeRange{
		Start: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
	}
}
