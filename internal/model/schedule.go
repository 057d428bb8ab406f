package model

import (
	"errors"
	"time"
)

type ScheduleMode string

const (
	ScheduleRange ScheduleMode = "range"
	SchedulePoint ScheduleMode = "point"
)

// Schedule is a tagged union: a range occupies [Start, End], a point marks
// a single instant. Unused fields stay zero and are omitted on the wire.
type Schedule struct {
	Mode  ScheduleMode `json:"mode"`
	Start time.Time    `json:"start_iso,omitzero"`
	End   time.Time    `json:"end_iso,omitzero"`
	Point time.Time    `json:"point_iso,omitzero"`
}

func NewRangeSchedule(start, end time.Time) *Schedule {
	return &Schedule{Mode: ScheduleRange, Start: start, End: end}
}

func NewPointSchedule(at time.Time) *Schedule {
	return &Schedule{Mode: SchedulePoint, Point: at}
}

func (s *Schedule) IsRange() bool { return s != nil && s.Mode == ScheduleRange }
func (s *Schedule) IsPoint() bool { return s != nil && s.Mode == SchedulePoint }

// Normalized returns a copy with an inverted range swapped into start<=end
// order. Malformed data is repaired here rather than rejected.
func (s Schedule) Normalized() Schedule {
	if s.Mode == ScheduleRange && s.End.Before(s.Start) {
		s.Start, s.End = s.End, s.Start
	}
	return s
}

// Bounds returns the occupied interval. A point occupies a zero-width
// interval at its instant.
func (s Schedule) Bounds() (start, end time.Time) {
	if s.Mode == SchedulePoint {
		return s.Point, s.Point
	}
	n := s.Normalized()
	return n.Start, n.End
}

// Instant returns the representative instant used for centering and
// time-ordering: the point itself, or a range's start.
func (s Schedule) Instant() time.Time {
	if s.Mode == SchedulePoint {
		return s.Point
	}
	n := s.Normalized()
	return n.Start
}

func (s Schedule) Duration() time.Duration {
	start, end := s.Bounds()
	return end.Sub(start)
}

// Shift moves the whole schedule by d, preserving a range's duration.
func (s Schedule) Shift(d time.Duration) Schedule {
	switch s.Mode {
	case SchedulePoint:
		s.Point = s.Point.Add(d)
	default:
		s.Start = s.Start.Add(d)
		s.End = s.End.Add(d)
	}
	return s
}

func (s Schedule) Equal(o Schedule) bool {
	if s.Mode != o.Mode {
		return false
	}
	if s.Mode == SchedulePoint {
		return s.Point.Equal(o.Point)
	}
	return s.Start.Equal(o.Start) && s.End.Equal(o.End)
}

func (s Schedule) Validate() error {
	switch s.Mode {
	case ScheduleRange:
		if s.Start.IsZero() || s.End.IsZero() {
			return errors.New("range schedule requires start and end")
		}
		if s.End.Before(s.Start) {
			return errors.New("end date cannot be before start date")
		}
		return nil
	case SchedulePoint:
		if s.Point.IsZero() {
			return errors.New("point schedule requires an instant")
		}
		return nil
	default:
		return errors.New("unknown schedule mode")
	}
}

// TimeRange bounds a project's visible horizon. IsUserDefined distinguishes
// an explicit range from the derived default.
type TimeRange struct {
	Start         time.Time `json:"start_iso"`
	End           time.Time `json:"end_iso"`
	IsUserDefined bool      `json:"is_user_defined"`
}

// DefaultTimeRange derives the fallback horizon: now to one month ahead.
func DefaultTimeRange(now time.Time) TimeRange {
	return TimeRange{Start: now, End: now.AddDate(0, 1, 0), IsUserDefined: false}
}

func (r TimeRange) Validate() error {
	if r.End.Before(r.Start) {
		return errors.New("end date cannot be before start date")
	}
	return nil
}

// Clamp pins t into [Start, End].
func (r TimeRange) Clamp(t time.Time) time.Time {
	if t.Before(r.Start) {
		return r.Start
	}
	if t.After(r.End) {
		return r.End
	}
	return t
}

func (r TimeRange) Span() time.Duration {
	return r.End.Sub(r.Start)
}
