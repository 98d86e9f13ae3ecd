/*
Package payscheme implements the net-income accrual engine for the old and new
compensation schemes.

PURPOSE:
  Given a Configuration (wage, tax rates, multipliers, allowances) and a
  horizon (a week count or a date range), the engine decomposes every
  elementary period into pay categories, taxes each category at its own
  rate, and accumulates the per-scheme totals into a cumulative comparison.

KEY CONCEPTS:
  - Configuration: Immutable input for one run (this file)
  - Scheme:        SchemeNew or SchemeOld, one pay rule each (rules.go)
  - PeriodRecord:  Per-category net pay of one week or one day (types.go)
  - Accumulate:    Fold of records into a CumulativeSeries (cumulative.go)
  - Engine.Run:    Validate, compute every slot, accumulate (engine.go)

TAX MODEL:
  normal_tax_rate   regular hours and allowances
  special_tax_rate  overtime and weekend premiums
  The new scheme's daily allowance is already net and is never taxed.

SATURDAY BASE PAY:
  The old scheme pays a base Saturday amount at the Sunday multiplier (0.75).
  Some variants used the Saturday multiplier (2.11) instead, so
  OldSaturdayBaseMultiplier can override it; nil follows SundayMultiplier.
  The payment is gated by OldSaturdayBaseRule.

SEE ALSO:
  - generic/types.go: Amount and categories
  - factory/scenario.go: JSON to Configuration
*/
package payscheme

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/warp/pay-compare/generic"
)

// =============================================================================
// SATURDAY BASE RULE
// =============================================================================

// SaturdayBaseRule decides when the old scheme pays its base Saturday amount.
type SaturdayBaseRule string

const (
	// SaturdayBaseAuto pays when worked in week mode and always in day mode.
	SaturdayBaseAuto      SaturdayBaseRule = ""
	SaturdayBaseWorked    SaturdayBaseRule = "worked"
	SaturdayBaseAlways    SaturdayBaseRule = "always"
	SaturdayBaseNotWorked SaturdayBaseRule = "not_worked"
)

func (r SaturdayBaseRule) valid() bool {
	switch r {
	case SaturdayBaseAuto, SaturdayBaseWorked, SaturdayBaseAlways, SaturdayBaseNotWorked:
		return true
	}
	return false
}

// resolve replaces SaturdayBaseAuto with the granularity's own rule.
func (r SaturdayBaseRule) resolve(g generic.Granularity) SaturdayBaseRule {
	if r != SaturdayBaseAuto {
		return r
	}
	if g == generic.GranularityDay {
		return SaturdayBaseAlways
	}
	return SaturdayBaseWorked
}

// pays reports whether the base amount is due given whether Saturday is worked.
func (r SaturdayBaseRule) pays(worksSaturday bool) bool {
	switch r {
	case SaturdayBaseAlways:
		return true
	case SaturdayBaseNotWorked:
		return !worksSaturday
	default:
		return worksSaturday
	}
}

// =============================================================================
// CONFIGURATION
// =============================================================================

// Configuration holds every tunable of one comparison run. It is read-only
// once built; the engine never mutates it.
type Configuration struct {
	HourlyWage     decimal.Decimal
	NormalTaxRate  decimal.Decimal // regular pay and allowances
	SpecialTaxRate decimal.Decimal // overtime and weekend premiums

	WeekdayCount int
	HoursPerDay  decimal.Decimal
	DaysPerWeek  int

	SaturdayMultiplier decimal.Decimal
	SundayMultiplier   decimal.Decimal

	WeekdayOvertimeHours decimal.Decimal
	WorksSaturday        bool
	ExtraSaturdayHours   decimal.Decimal

	// New scheme
	NewDailyAllowanceNet decimal.Decimal

	// Old scheme
	OldBonusMultiplier        decimal.Decimal
	OldDailyAllowanceGross    decimal.Decimal
	OldSaturdayBaseMultiplier *decimal.Decimal // nil = SundayMultiplier
	OldSaturdayBaseRule       SaturdayBaseRule
	AllowanceAppliesAllDays   bool

	Unit generic.Unit
}

// DefaultConfiguration returns the parameter set the calculator starts from.
func DefaultConfiguration() Configuration {
	return Configuration{
		HourlyWage:                decimal.RequireFromString("23.0"),
		NormalTaxRate:             decimal.RequireFromString("0.37"),
		SpecialTaxRate:            decimal.RequireFromString("0.495"),
		WeekdayCount:              5,
		HoursPerDay:               decimal.NewFromInt(8),
		DaysPerWeek:               7,
		SaturdayMultiplier:        decimal.RequireFromString("2.11"),
		SundayMultiplier:          decimal.RequireFromString("0.75"),
		WeekdayOvertimeHours:      decimal.Zero,
		WorksSaturday:             true,
		ExtraSaturdayHours:        decimal.Zero,
		NewDailyAllowanceNet:      decimal.NewFromInt(50),
		OldBonusMultiplier:        decimal.RequireFromString("1.30"),
		OldDailyAllowanceGross:    decimal.NewFromInt(25),
		OldSaturdayBaseRule:       SaturdayBaseAuto,
		AllowanceAppliesAllDays:   true,
		Unit:                      generic.DefaultUnit,
	}
}

var (
	one      = decimal.NewFromInt(1)
	maxHours = decimal.NewFromInt(24)
	weekDays = 7
)

// Validate checks every constraint and returns the first violation as an
// *generic.InvalidConfigurationError.
func (c Configuration) Validate() error {
	if !c.HourlyWage.IsPositive() {
		return invalid("hourly_wage", c.HourlyWage, "must be positive")
	}

	for _, r := range []struct {
		field string
		value decimal.Decimal
	}{
		{"normal_tax_rate", c.NormalTaxRate},
		{"special_tax_rate", c.SpecialTaxRate},
	} {
		if r.value.IsNegative() || r.value.GreaterThanOrEqual(one) {
			return invalid(r.field, r.value, "must be in [0,1)")
		}
	}

	for _, v := range []struct {
		field string
		value decimal.Decimal
	}{
		{"hours_per_day", c.HoursPerDay},
		{"saturday_multiplier", c.SaturdayMultiplier},
		{"sunday_multiplier", c.SundayMultiplier},
		{"weekday_overtime_hours", c.WeekdayOvertimeHours},
		{"extra_saturday_hours", c.ExtraSaturdayHours},
		{"new_daily_allowance_net", c.NewDailyAllowanceNet},
		{"old_daily_allowance_gross", c.OldDailyAllowanceGross},
		{"old_saturday_base_multiplier", c.SaturdayBaseMultiplier()},
	} {
		if v.value.IsNegative() {
			return invalid(v.field, v.value, "must not be negative")
		}
	}

	if c.HoursPerDay.GreaterThan(maxHours) {
		return invalid("hours_per_day", c.HoursPerDay, "must not exceed 24")
	}
	if c.OldBonusMultiplier.LessThan(one) {
		return invalid("old_bonus_multiplier", c.OldBonusMultiplier, "must be at least 1.0")
	}
	if c.DaysPerWeek < 1 || c.DaysPerWeek > weekDays {
		return generic.NewInvalidConfiguration("days_per_week", fmt.Sprint(c.DaysPerWeek), "must be between 1 and 7")
	}
	if c.WeekdayCount < 0 || c.WeekdayCount > c.DaysPerWeek {
		return generic.NewInvalidConfiguration("weekday_count", fmt.Sprint(c.WeekdayCount), "must be between 0 and days_per_week")
	}
	if !c.OldSaturdayBaseRule.valid() {
		return generic.NewInvalidConfiguration("old_saturday_base_rule", string(c.OldSaturdayBaseRule), "must be one of worked, always, not_worked")
	}
	return nil
}

// SaturdayBaseMultiplier returns the multiplier of the old scheme's base
// Saturday pay.
func (c Configuration) SaturdayBaseMultiplier() decimal.Decimal {
	if c.OldSaturdayBaseMultiplier != nil {
		return *c.OldSaturdayBaseMultiplier
	}
	return c.SundayMultiplier
}

func invalid(field string, value decimal.Decimal, reason string) error {
	return generic.NewInvalidConfiguration(field, value.String(), reason)
}

func (c Configuration) unit() generic.Unit {
	if c.Unit == "" {
		return generic.DefaultUnit
	}
	return c.Unit
}
