package timeline

import (
	"math"
	"time"

	"planline/internal/model"
)

// Mapper converts between wall-clock instants and horizontal pixel positions
// for one rendered window. The axis is right-to-left: larger times sit at
// smaller X, the window's start instant at the right edge.
type Mapper struct {
	Width        int
	TimePerPixel int64 // ms per pixel
	VisibleStart time.Time
}

func newMapper(width int, timePerPixel int64, visibleStart time.Time) Mapper {
	if timePerPixel <= 0 {
		timePerPixel = 1
	}
	return Mapper{Width: width, TimePerPixel: timePerPixel, VisibleStart: visibleStart}
}

// X maps an instant to a pixel column. Results outside [0, Width] are valid
// and mean "off screen".
func (m Mapper) X(t time.Time) int {
	deltaMS := t.UnixMilli() - m.VisibleStart.UnixMilli()
	px := float64(deltaMS) / float64(m.TimePerPixel)
	return m.Width - int(math.Round(px))
}

// TimeAt inverts X: the instant rendered at pixel column x.
func (m Mapper) TimeAt(x int) time.Time {
	deltaMS := int64(m.Width-x) * m.TimePerPixel
	return time.UnixMilli(m.VisibleStart.UnixMilli() + deltaMS)
}

// VisibleEnd is the instant at the left edge (x = 0).
func (m Mapper) VisibleEnd() time.Time { return m.TimeAt(0) }

// pointRadius is the half-width in pixels of the band a point schedule
// occupies on screen and in row packing.
const pointRadius = 3

// project converts a schedule into its [startX, endX] pixel interval.
// Ranges are normalized first so inverted input never produces an inverted
// interval; a point becomes a fixed-radius band around its instant.
func (m Mapper) project(s model.Schedule) (startX, endX int, isPoint bool) {
	if s.IsPoint() {
		x := m.X(s.Point)
		return x - pointRadius, x + pointRadius, true
	}
	n := s.Normalized()
	// RTL: the later instant maps to the smaller X.
	a, b := m.X(n.End), m.X(n.Start)
	if a > b {
		a, b = b, a
	}
	return a, b, false
}
