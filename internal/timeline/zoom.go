package timeline

import "time"

// ZoomLevel selects one of five fixed time-per-pixel regimes. The order is
// coarsest to finest; zoom steps move one level at a time.
type ZoomLevel int

const (
	ZoomMonths ZoomLevel = iota
	ZoomWeeks
	ZoomDays
	ZoomHours
	ZoomMinutes
)

type calendarUnit int

const (
	unitMonth calendarUnit = iota
	unitWeek
	unitDay
	unitHour
	unitMinute
)

// zoomConfig is the static per-level configuration: how many milliseconds one
// pixel represents, which calendar unit ticks align to, how tick labels are
// formatted, and how close two retained ticks may be.
type zoomConfig struct {
	timePerPixel     int64 // ms represented by one pixel
	unit             calendarUnit
	tickIntervalMS   int64 // nominal span of one calendar unit, used for snapping
	labelFormat      string
	minTickSpacingPx int
}

const (
	msPerMinute = int64(60 * 1000)
	msPerHour   = 60 * msPerMinute
	msPerDay    = 24 * msPerHour
	msPerWeek   = 7 * msPerDay
	msPerMonth  = 30 * msPerDay // nominal; tick walking uses real month lengths
)

// One calendar unit spans unitWidthPx pixels at its own zoom level
// (e.g. one day is 40 px wide at the days level).
const unitWidthPx = 40

var zoomConfigs = map[ZoomLevel]zoomConfig{
	ZoomMonths: {
		timePerPixel:     msPerMonth / unitWidthPx,
		unit:             unitMonth,
		tickIntervalMS:   msPerMonth,
		labelFormat:      "Jan 06",
		minTickSpacingPx: 36,
	},
	ZoomWeeks: {
		timePerPixel:     msPerWeek / unitWidthPx,
		unit:             unitWeek,
		tickIntervalMS:   msPerWeek,
		labelFormat:      "2 Jan",
		minTickSpacingPx: 36,
	},
	ZoomDays: {
		timePerPixel:     msPerDay / unitWidthPx,
		unit:             unitDay,
		tickIntervalMS:   msPerDay,
		labelFormat:      "Mon 2",
		minTickSpacingPx: 36,
	},
	ZoomHours: {
		timePerPixel:     msPerHour / unitWidthPx,
		unit:             unitHour,
		tickIntervalMS:   msPerHour,
		labelFormat:      "15:00",
		minTickSpacingPx: 36,
	},
	ZoomMinutes: {
		timePerPixel:     msPerMinute / unitWidthPx,
		unit:             unitMinute,
		tickIntervalMS:   msPerMinute,
		labelFormat:      "15:04",
		minTickSpacingPx: 36,
	},
}

// ZoomLevels lists every level, coarsest first.
func ZoomLevels() []ZoomLevel {
	return []ZoomLevel{ZoomMonths, ZoomWeeks, ZoomDays, ZoomHours, ZoomMinutes}
}

func (z ZoomLevel) Valid() bool {
	_, ok := zoomConfigs[z]
	return ok
}

func (z ZoomLevel) config() zoomConfig {
	if c, ok := zoomConfigs[z]; ok {
		return c
	}
	return zoomConfigs[ZoomDays]
}

// TimePerPixel reports the level's ratio in milliseconds per pixel.
func (z ZoomLevel) TimePerPixel() int64 { return z.config().timePerPixel }

// TickInterval is the nominal duration between ticks at this level.
func (z ZoomLevel) TickInterval() time.Duration {
	return time.Duration(z.config().tickIntervalMS) * time.Millisecond
}

// SnapInterval is the gesture rounding granularity: a quarter tick.
func (z ZoomLevel) SnapInterval() time.Duration {
	return time.Duration(z.config().tickIntervalMS/4) * time.Millisecond
}

func (z ZoomLevel) Label() string {
	switch z {
	case ZoomMonths:
		return "months"
	case ZoomWeeks:
		return "weeks"
	case ZoomDays:
		return "days"
	case ZoomHours:
		return "hours"
	case ZoomMinutes:
		return "minutes"
	default:
		return "?"
	}
}

// In returns the next finer level, bounded at minutes.
func (z ZoomLevel) In() ZoomLevel {
	if z >= ZoomMinutes {
		return ZoomMinutes
	}
	return z + 1
}

// Out returns the next coarser level, bounded at months.
func (z ZoomLevel) Out() ZoomLevel {
	if z <= ZoomMonths {
		return ZoomMonths
	}
	return z - 1
}
