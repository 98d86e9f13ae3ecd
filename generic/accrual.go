package generic

// =============================================================================
// SCHEDULE - Which elementary periods a horizon consists of
// =============================================================================

// Schedule generates the ordered slots of a comparison horizon.
// Implementations decide the granularity (weekly, daily).
type Schedule interface {
	// Slots returns the elementary periods in chronological order.
	Slots() []Slot

	// Granularity returns the granularity of every slot.
	Granularity() Granularity
}

// WeekSchedule is "N weeks", optionally anchored to a calendar start date.
type WeekSchedule struct {
	Weeks  int
	Anchor TimePoint
}

func (ws WeekSchedule) Slots() []Slot {
	if ws.Weeks <= 0 {
		return nil
	}
	slots := make([]Slot, ws.Weeks)
	for i := range slots {
		slots[i] = WeekSlot(i, ws.Anchor)
	}
	return slots
}

func (ws WeekSchedule) Granularity() Granularity { return GranularityWeek }

// DaySchedule is every calendar day of a period.
type DaySchedule struct {
	Period Period
}

func (ds DaySchedule) Slots() []Slot {
	days := ds.Period.Days()
	if len(days) == 0 {
		return nil
	}
	slots := make([]Slot, len(days))
	for i, d := range days {
		slots[i] = DaySlot(i, d)
	}
	return slots
}

func (ds DaySchedule) Granularity() Granularity { return GranularityDay }

// Compile-time checks
var (
	_ Schedule = WeekSchedule{}
	_ Schedule = DaySchedule{}
)
