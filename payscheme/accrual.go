package payscheme

import (
	"strconv"

	"github.com/warp/pay-compare/generic"
)

// =============================================================================
// COMPUTE PERIOD
// =============================================================================

// ComputePeriod returns the record for one slot: an abstract or anchored
// week, or one calendar day whose weekday selects the day rule.
//
// The configuration is validated first; an invalid one yields an
// *generic.InvalidConfigurationError and no record.
func ComputePeriod(c Configuration, slot generic.Slot) (PeriodRecord, error) {
	if err := c.Validate(); err != nil {
		return PeriodRecord{}, err
	}
	if err := validateSlot(slot); err != nil {
		return PeriodRecord{}, err
	}
	return compute(c, termsOf(c), slot), nil
}

// ComputeWeek is ComputePeriod for the abstract week with the given index.
func ComputeWeek(c Configuration, index int) (PeriodRecord, error) {
	return ComputePeriod(c, generic.WeekSlot(index, generic.TimePoint{}))
}

// ComputeDay is ComputePeriod for a single calendar date.
func ComputeDay(c Configuration, date generic.TimePoint) (PeriodRecord, error) {
	return ComputePeriod(c, generic.DaySlot(0, date))
}

// compute assumes a validated configuration and slot.
func compute(c Configuration, t terms, slot generic.Slot) PeriodRecord {
	rec := PeriodRecord{Slot: slot}
	newR, oldR := ruleFor(SchemeNew), ruleFor(SchemeOld)

	if slot.Granularity == generic.GranularityDay {
		rec.New = newR.day(c, t, slot.DayType)
		rec.Old = oldR.day(c, t, slot.DayType)
		return rec
	}
	rec.New = newR.week(c, t)
	rec.Old = oldR.week(c, t)
	return rec
}

func validateSlot(slot generic.Slot) error {
	switch slot.Granularity {
	case generic.GranularityWeek:
		if slot.Index < 0 {
			return generic.NewInvalidConfiguration("week", strconv.Itoa(slot.Index), "must not be negative")
		}
	case generic.GranularityDay:
		if slot.Period.Start.IsZero() {
			return generic.NewInvalidConfiguration("date", "", "is required for day granularity")
		}
		if slot.DayType != slot.Period.Start.DayType() {
			return generic.NewInvalidConfiguration("day_type", string(slot.DayType), "does not match "+slot.Period.Start.String())
		}
	default:
		return generic.NewInvalidConfiguration("granularity", string(slot.Granularity), "must be week or day")
	}
	return nil
}
