package payscheme

import (
	"github.com/shopspring/decimal"
	"github.com/warp/pay-compare/generic"
)

// =============================================================================
// DAILY TERMS - Net amounts of one day, shared by both schemes
// =============================================================================

// terms holds the net value of every per-day pay line. Week formulas are
// these lines times a day count, so both granularities share one source.
type terms struct {
	unit generic.Unit

	newRegular      generic.Amount // hpd * wage * (1-n)
	oldRegular      generic.Amount // hpd * wage * bonus * (1-n)
	overtime        generic.Amount // ot * wage * (1-s)
	saturdayHours   generic.Amount // hpd * wage * sat * (1-s)
	saturdayExtra   generic.Amount // extra * wage * sat * (1-s)
	oldSaturdayBase generic.Amount // hpd * wage * oldSatBase * (1-s)
	newAllowance    generic.Amount // already net
	oldAllowance    generic.Amount // gross * (1-n)
}

func termsOf(c Configuration) terms {
	unit := c.unit()
	wage := generic.NewAmountFromDecimal(c.HourlyWage, unit)
	day := wage.Mul(c.HoursPerDay)

	return terms{
		unit:            unit,
		newRegular:      day.Net(c.NormalTaxRate),
		oldRegular:      day.Mul(c.OldBonusMultiplier).Net(c.NormalTaxRate),
		overtime:        wage.Mul(c.WeekdayOvertimeHours).Net(c.SpecialTaxRate),
		saturdayHours:   day.Mul(c.SaturdayMultiplier).Net(c.SpecialTaxRate),
		saturdayExtra:   wage.Mul(c.ExtraSaturdayHours).Mul(c.SaturdayMultiplier).Net(c.SpecialTaxRate),
		oldSaturdayBase: day.Mul(c.SaturdayBaseMultiplier()).Net(c.SpecialTaxRate),
		newAllowance:    generic.NewAmountFromDecimal(c.NewDailyAllowanceNet, unit),
		oldAllowance:    generic.NewAmountFromDecimal(c.OldDailyAllowanceGross, unit).Net(c.NormalTaxRate),
	}
}

func times(a generic.Amount, n int) generic.Amount {
	return a.Mul(decimal.NewFromInt(int64(n)))
}

// =============================================================================
// RULES - One pay rule per scheme
// =============================================================================

// rule computes one scheme's breakdown for a week or for a day of a given type.
type rule interface {
	week(c Configuration, t terms) Breakdown
	day(c Configuration, t terms, dt generic.DayType) Breakdown
}

func ruleFor(s Scheme) rule {
	if s == SchemeOld {
		return oldRule{}
	}
	return newRule{}
}

// newRule: normal pay, overtime, net daily allowance every calendar day.
type newRule struct{}

func (newRule) week(c Configuration, t terms) Breakdown {
	b := zeroBreakdown(t.unit)
	b.Regular = times(t.newRegular, c.WeekdayCount)
	b.Overtime = times(t.overtime, c.WeekdayCount)
	b.Allowance = times(t.newAllowance, c.DaysPerWeek)
	if c.WorksSaturday {
		// A worked Saturday earns one more allowance on top of the weekly one.
		b.Allowance = b.Allowance.Add(t.newAllowance)
		b.SaturdayPremium = t.saturdayExtra
	}
	return b.withTotal()
}

func (newRule) day(c Configuration, t terms, dt generic.DayType) Breakdown {
	b := zeroBreakdown(t.unit)
	b.Allowance = t.newAllowance
	switch dt {
	case generic.DayWeekday:
		b.Regular = t.newRegular
		b.Overtime = t.overtime
	case generic.DaySaturday:
		if c.WorksSaturday {
			b.SaturdayPremium = t.saturdayHours.Add(t.saturdayExtra)
		}
	}
	return b.withTotal()
}

// oldRule: bonus on weekday gross, gross allowance, base Saturday pay.
type oldRule struct{}

func (oldRule) week(c Configuration, t terms) Breakdown {
	b := zeroBreakdown(t.unit)
	b.Regular = times(t.oldRegular, c.WeekdayCount)
	b.Overtime = times(t.overtime, c.WeekdayCount)

	allowanceDays := c.DaysPerWeek
	if !c.AllowanceAppliesAllDays {
		allowanceDays = c.WeekdayCount
	}
	b.Allowance = times(t.oldAllowance, allowanceDays)

	if c.OldSaturdayBaseRule.resolve(generic.GranularityWeek).pays(c.WorksSaturday) {
		b.SundayRate = t.oldSaturdayBase
	}
	if c.WorksSaturday {
		b.Allowance = b.Allowance.Add(t.oldAllowance)
		b.SaturdayPremium = t.saturdayExtra
	}
	return b.withTotal()
}

func (oldRule) day(c Configuration, t terms, dt generic.DayType) Breakdown {
	b := zeroBreakdown(t.unit)
	switch dt {
	case generic.DayWeekday:
		b.Regular = t.oldRegular
		b.Overtime = t.overtime
		b.Allowance = t.oldAllowance
	case generic.DaySaturday:
		if c.AllowanceAppliesAllDays || c.WorksSaturday {
			b.Allowance = t.oldAllowance
		}
		if c.OldSaturdayBaseRule.resolve(generic.GranularityDay).pays(c.WorksSaturday) {
			b.SundayRate = t.oldSaturdayBase
		}
		if c.WorksSaturday {
			b.SaturdayPremium = t.saturdayExtra
		}
	case generic.DaySunday:
		if c.AllowanceAppliesAllDays {
			b.Allowance = t.oldAllowance
		}
	}
	return b.withTotal()
}
