package generic

import (
	"fmt"
	"time"
)

// =============================================================================
// TIME POINT - Calendar day abstraction
// =============================================================================

// TimePoint is a calendar date in UTC. Pay is accrued per day, so the
// time-of-day part is always dropped.
type TimePoint struct {
	Time time.Time
}

const dateLayout = "2006-01-02"

// Constructors
func NewTimePoint(year int, month time.Month, day int) TimePoint {
	return TimePoint{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func TimePointOf(t time.Time) TimePoint {
	return NewTimePoint(t.Year(), t.Month(), t.Day())
}

// ParseDate parses a date in YYYY-MM-DD (or DD.MM.YYYY) form.
func ParseDate(s string) (TimePoint, error) {
	for _, layout := range []string{dateLayout, "02.01.2006"} {
		if t, err := time.Parse(layout, s); err == nil {
			return TimePointOf(t), nil
		}
	}
	return TimePoint{}, fmt.Errorf("invalid date %q (use YYYY-MM-DD)", s)
}

// Comparison
func (tp TimePoint) Before(other TimePoint) bool        { return tp.Time.Before(other.Time) }
func (tp TimePoint) Equal(other TimePoint) bool         { return tp.Time.Equal(other.Time) }
func (tp TimePoint) After(other TimePoint) bool         { return tp.Time.After(other.Time) }
func (tp TimePoint) BeforeOrEqual(other TimePoint) bool { return !tp.After(other) }
func (tp TimePoint) AfterOrEqual(other TimePoint) bool  { return !tp.Before(other) }

// Arithmetic
func (tp TimePoint) AddDays(n int) TimePoint  { return TimePoint{Time: tp.Time.AddDate(0, 0, n)} }
func (tp TimePoint) AddWeeks(n int) TimePoint { return tp.AddDays(7 * n) }

// Properties
func (tp TimePoint) Year() int             { return tp.Time.Year() }
func (tp TimePoint) Month() time.Month     { return tp.Time.Month() }
func (tp TimePoint) Day() int              { return tp.Time.Day() }
func (tp TimePoint) Weekday() time.Weekday { return tp.Time.Weekday() }
func (tp TimePoint) IsZero() bool          { return tp.Time.IsZero() }
func (tp TimePoint) DayType() DayType      { return DayTypeOf(tp.Weekday()) }

func (tp TimePoint) String() string {
	if tp.IsZero() {
		return ""
	}
	return tp.Time.Format(dateLayout)
}

// StartOfWeek returns the Monday of the week containing tp.
func (tp TimePoint) StartOfWeek() TimePoint {
	wd := int(tp.Weekday())
	if wd == 0 {
		wd = 7
	}
	return tp.AddDays(-(wd - 1))
}

func (tp TimePoint) MarshalText() ([]byte, error) {
	return []byte(tp.String()), nil
}

func (tp *TimePoint) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*tp = TimePoint{}
		return nil
	}
	parsed, err := ParseDate(string(b))
	if err != nil {
		return err
	}
	*tp = parsed
	return nil
}

// =============================================================================
// DAY TYPE - Which pay rule a calendar day falls under
// =============================================================================

type DayType string

const (
	DayWeekday  DayType = "weekday"
	DaySaturday DayType = "saturday"
	DaySunday   DayType = "sunday"
)

func DayTypeOf(wd time.Weekday) DayType {
	switch wd {
	case time.Saturday:
		return DaySaturday
	case time.Sunday:
		return DaySunday
	default:
		return DayWeekday
	}
}

// DaysBetween returns the whole number of days from `from` to `to`.
func DaysBetween(from, to TimePoint) int { return int(to.Time.Sub(from.Time).Hours() / 24) }
