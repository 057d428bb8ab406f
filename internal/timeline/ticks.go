package timeline

import "time"

// Tick is one labeled calendar-aligned mark on the time axis.
type Tick struct {
	X     int
	Time  time.Time
	Label string
}

// maxTicks caps tick generation so a degenerate window or unit can never
// loop unbounded.
const maxTicks = 100

// weekStart is the fixed weekday weeks align to.
const weekStart = time.Sunday

// floorToUnit returns the calendar-unit-aligned instant at or before t.
func floorToUnit(t time.Time, unit calendarUnit, loc *time.Location) time.Time {
	t = t.In(loc)
	y, mo, d := t.Date()
	switch unit {
	case unitMonth:
		return time.Date(y, mo, 1, 0, 0, 0, 0, loc)
	case unitWeek:
		day := time.Date(y, mo, d, 0, 0, 0, 0, loc)
		back := (int(day.Weekday()) - int(weekStart) + 7) % 7
		return day.AddDate(0, 0, -back)
	case unitDay:
		return time.Date(y, mo, d, 0, 0, 0, 0, loc)
	case unitHour:
		return time.Date(y, mo, d, t.Hour(), 0, 0, 0, loc)
	default:
		return time.Date(y, mo, d, t.Hour(), t.Minute(), 0, 0, loc)
	}
}

// advanceUnit steps one calendar unit forward, respecting variable month
// lengths and DST (AddDate over Add for date-based units).
func advanceUnit(t time.Time, unit calendarUnit) time.Time {
	switch unit {
	case unitMonth:
		return t.AddDate(0, 1, 0)
	case unitWeek:
		return t.AddDate(0, 0, 7)
	case unitDay:
		return t.AddDate(0, 0, 1)
	case unitHour:
		return t.Add(time.Hour)
	default:
		return t.Add(time.Minute)
	}
}

// generateTicks walks calendar-aligned instants across the visible window and
// keeps those that land on screen with at least minTickSpacingPx from the
// previously kept tick. Ticks that crowd an already kept one are dropped, not
// merged.
func generateTicks(m Mapper, zoom ZoomLevel, loc *time.Location) []Tick {
	cfg := zoom.config()
	end := m.VisibleEnd()

	var out []Tick
	prevX := -1
	t := floorToUnit(m.VisibleStart, cfg.unit, loc)
	for i := 0; i < maxTicks && !t.After(end); i++ {
		x := m.X(t)
		if x >= 0 && x <= m.Width {
			// RTL: later ticks sit further left, so spacing is prevX - x.
			if prevX < 0 || prevX-x >= cfg.minTickSpacingPx {
				out = append(out, Tick{X: x, Time: t, Label: t.Format(cfg.labelFormat)})
				prevX = x
			}
		}
		t = advanceUnit(t, cfg.unit)
	}
	return out
}
