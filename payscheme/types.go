package payscheme

import (
	"github.com/warp/pay-compare/generic"
)

// =============================================================================
// SCHEME - The two compensation constructions being compared
// =============================================================================

type Scheme string

const (
	SchemeNew Scheme = "new" // Flat net daily allowance
	SchemeOld Scheme = "old" // Gross bonus multiplier plus a smaller gross allowance
)

// Schemes lists both schemes in reporting order.
var Schemes = []Scheme{SchemeNew, SchemeOld}

// =============================================================================
// BREAKDOWN - Net pay per category for one scheme and one period
// =============================================================================

type Breakdown struct {
	Regular         generic.Amount
	Overtime        generic.Amount
	SaturdayPremium generic.Amount
	SundayRate      generic.Amount
	Allowance       generic.Amount
	Total           generic.Amount
}

func zeroBreakdown(unit generic.Unit) Breakdown {
	z := generic.ZeroAmount(unit)
	return Breakdown{Regular: z, Overtime: z, SaturdayPremium: z, SundayRate: z, Allowance: z, Total: z}
}

// withTotal recomputes Total from the category lines.
func (b Breakdown) withTotal() Breakdown {
	b.Total = b.Regular.Add(b.Overtime).Add(b.SaturdayPremium).Add(b.SundayRate).Add(b.Allowance)
	return b
}

// Category returns the line for c.
func (b Breakdown) Category(c generic.Category) generic.Amount {
	switch c {
	case generic.CategoryRegular:
		return b.Regular
	case generic.CategoryOvertime:
		return b.Overtime
	case generic.CategorySaturdayPremium:
		return b.SaturdayPremium
	case generic.CategorySundayRate:
		return b.SundayRate
	case generic.CategoryAllowance:
		return b.Allowance
	default:
		return b.Total.Zero()
	}
}

// Add sums two breakdowns line by line.
func (b Breakdown) Add(o Breakdown) Breakdown {
	return Breakdown{
		Regular:         b.Regular.Add(o.Regular),
		Overtime:        b.Overtime.Add(o.Overtime),
		SaturdayPremium: b.SaturdayPremium.Add(o.SaturdayPremium),
		SundayRate:      b.SundayRate.Add(o.SundayRate),
		Allowance:       b.Allowance.Add(o.Allowance),
		Total:           b.Total.Add(o.Total),
	}
}

// =============================================================================
// PERIOD RECORD - One elementary period, both schemes
// =============================================================================

// PeriodRecord is the output for one slot. Records are produced in
// chronological order and never modified afterwards.
type PeriodRecord struct {
	Slot generic.Slot
	New  Breakdown
	Old  Breakdown
}

func (r PeriodRecord) Index() int                       { return r.Slot.Index }
func (r PeriodRecord) Granularity() generic.Granularity { return r.Slot.Granularity }
func (r PeriodRecord) DayType() generic.DayType         { return r.Slot.DayType }

// Breakdown returns the breakdown for scheme s.
func (r PeriodRecord) Breakdown(s Scheme) Breakdown {
	if s == SchemeOld {
		return r.Old
	}
	return r.New
}

// Total returns the net total of scheme s for this period.
func (r PeriodRecord) Total(s Scheme) generic.Amount {
	return r.Breakdown(s).Total
}

// Difference returns old - new for this period.
func (r PeriodRecord) Difference() generic.Amount {
	return r.Old.Total.Sub(r.New.Total)
}
