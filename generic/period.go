package generic

// =============================================================================
// PERIOD - A closed calendar range
// =============================================================================

// Period is the closed date range [Start, End].
//
// Examples:
//   - One day: Start == End
//   - One anchored week: Start, Start+6
//   - A comparison horizon: the explicit start/end dates a caller picked
type Period struct {
	Start TimePoint `json:"start"`
	End   TimePoint `json:"end"`
}

// Contains returns true if the time point is within the period [Start, End]
func (p Period) Contains(t TimePoint) bool {
	return t.AfterOrEqual(p.Start) && t.BeforeOrEqual(p.End)
}

// Days returns all days in the period as a slice of TimePoints.
func (p Period) Days() []TimePoint {
	var days []TimePoint
	current := p.Start
	for current.BeforeOrEqual(p.End) {
		days = append(days, current)
		current = current.AddDays(1)
	}
	return days
}

// Len returns the number of days in the period, 0 for an inverted period.
func (p Period) Len() int {
	if p.End.Before(p.Start) {
		return 0
	}
	return DaysBetween(p.Start, p.End) + 1
}

// IsZero reports whether neither bound is set.
func (p Period) IsZero() bool {
	return p.Start.IsZero() && p.End.IsZero()
}

// Validate returns ErrInvalidPeriod when End lies before Start.
func (p Period) Validate() error {
	if p.End.Before(p.Start) {
		return &InvalidConfigurationError{
			Field:  "end_date",
			Value:  p.End.String(),
			Reason: "must not be before start_date " + p.Start.String(),
			cause:  ErrInvalidPeriod,
		}
	}
	return nil
}

// String returns a string representation of the period.
func (p Period) String() string {
	return "[" + p.Start.String() + ", " + p.End.String() + "]"
}

// WeekStarting returns the 7-day period beginning at start.
func WeekStarting(start TimePoint) Period {
	return Period{Start: start, End: start.AddDays(6)}
}

// =============================================================================
// GRANULARITY & SLOT - Elementary periods the engine computes
// =============================================================================

// Granularity selects whether an elementary period is a day or a week.
type Granularity string

const (
	GranularityWeek Granularity = "week"
	GranularityDay  Granularity = "day"
)

// Slot describes one elementary period to compute.
//
// Week slots are abstract (Period is zero) unless the schedule was anchored
// to a start date. Day slots always carry the calendar date and its DayType.
type Slot struct {
	Index       int         `json:"index"`
	Granularity Granularity `json:"granularity"`
	Period      Period      `json:"period"`
	DayType     DayType     `json:"day_type,omitempty"`
}

// DaySlot builds the slot for a single calendar date.
func DaySlot(index int, date TimePoint) Slot {
	return Slot{
		Index:       index,
		Granularity: GranularityDay,
		Period:      Period{Start: date, End: date},
		DayType:     date.DayType(),
	}
}

// WeekSlot builds the slot for the index-th week. A zero anchor yields an
// abstract week.
func WeekSlot(index int, anchor TimePoint) Slot {
	s := Slot{Index: index, Granularity: GranularityWeek}
	if !anchor.IsZero() {
		s.Period = WeekStarting(anchor.AddWeeks(index))
	}
	return s
}
