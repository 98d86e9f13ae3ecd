/*
Package factory provides JSON to Go scenario conversion.

PURPOSE:
  Converts JSON scenario documents into payscheme.Configuration and
  payscheme.Horizon values. Saved scenarios, API requests, the CLI's
  --scenario file and the config file's calculator section all go through
  the same ScenarioJSON type, so a field means the same thing everywhere.

JSON SCHEMA:
  {
    "hourly_wage": 23.0,
    "normal_tax_rate": 0.37,
    "special_tax_rate": 0.495,
    "weekday_count": 5,
    "hours_per_day": 8,
    "days_per_week": 7,
    "saturday_multiplier": 2.11,
    "sunday_multiplier": 0.75,
    "weekday_overtime_hours": 0,
    "works_saturday": true,
    "extra_saturday_hours": 0,
    "new_daily_allowance_net": 50,
    "old_bonus_multiplier": 1.30,
    "old_daily_allowance_gross": 25,
    "old_saturday_base_multiplier": 2.11,
    "old_saturday_base_rule": "worked",
    "allowance_applies_all_days": true
  }

  Every field is optional. Missing fields keep the factory's base
  configuration (DefaultConfiguration unless the config file overrides it).
  A missing old_saturday_base_multiplier follows sunday_multiplier.

HORIZON SCHEMA:
  {"weeks": 12}                                       12 abstract weeks
  {"weeks": 4, "start_date": "2025-01-06"}            4 calendar weeks
  {"start_date": "2025-01-01", "end_date": "2025-03-31"}  day by day

USAGE:
  f := NewScenarioFactory(payscheme.DefaultConfiguration())
  cfg, err := f.ParseScenario(`{"hourly_wage": 25}`)
  h, err := ParseHorizon(HorizonJSON{Weeks: Int(12)})

SEE ALSO:
  - payscheme/config.go: Configuration and its validation
  - factory/presets.go: Named historical variants
*/
package factory

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/warp/pay-compare/generic"
	"github.com/warp/pay-compare/payscheme"
)

// DefaultWeeks is the horizon used when a request names none.
const DefaultWeeks = 12

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// ScenarioJSON is the JSON representation of a configuration. Pointer fields
// distinguish "absent" from zero.
type ScenarioJSON struct {
	HourlyWage     *float64 `json:"hourly_wage,omitempty" mapstructure:"hourly_wage"`
	NormalTaxRate  *float64 `json:"normal_tax_rate,omitempty" mapstructure:"normal_tax_rate"`
	SpecialTaxRate *float64 `json:"special_tax_rate,omitempty" mapstructure:"special_tax_rate"`

	WeekdayCount *int     `json:"weekday_count,omitempty" mapstructure:"weekday_count"`
	HoursPerDay  *float64 `json:"hours_per_day,omitempty" mapstructure:"hours_per_day"`
	DaysPerWeek  *int     `json:"days_per_week,omitempty" mapstructure:"days_per_week"`

	SaturdayMultiplier *float64 `json:"saturday_multiplier,omitempty" mapstructure:"saturday_multiplier"`
	SundayMultiplier   *float64 `json:"sunday_multiplier,omitempty" mapstructure:"sunday_multiplier"`

	WeekdayOvertimeHours *float64 `json:"weekday_overtime_hours,omitempty" mapstructure:"weekday_overtime_hours"`
	WorksSaturday        *bool    `json:"works_saturday,omitempty" mapstructure:"works_saturday"`
	ExtraSaturdayHours   *float64 `json:"extra_saturday_hours,omitempty" mapstructure:"extra_saturday_hours"`

	NewDailyAllowanceNet *float64 `json:"new_daily_allowance_net,omitempty" mapstructure:"new_daily_allowance_net"`

	OldBonusMultiplier        *float64 `json:"old_bonus_multiplier,omitempty" mapstructure:"old_bonus_multiplier"`
	OldDailyAllowanceGross    *float64 `json:"old_daily_allowance_gross,omitempty" mapstructure:"old_daily_allowance_gross"`
	OldSaturdayBaseMultiplier *float64 `json:"old_saturday_base_multiplier,omitempty" mapstructure:"old_saturday_base_multiplier"`
	OldSaturdayBaseRule       *string  `json:"old_saturday_base_rule,omitempty" mapstructure:"old_saturday_base_rule"`
	AllowanceAppliesAllDays   *bool    `json:"allowance_applies_all_days,omitempty" mapstructure:"allowance_applies_all_days"`

	Unit *string `json:"unit,omitempty" mapstructure:"unit"`
}

// HorizonJSON is the JSON representation of a horizon.
type HorizonJSON struct {
	Weeks     *int   `json:"weeks,omitempty"`
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`
}

// =============================================================================
// SCENARIO FACTORY
// =============================================================================

// ScenarioFactory overlays scenario documents on a base configuration.
type ScenarioFactory struct {
	Base payscheme.Configuration
}

// NewScenarioFactory creates a factory whose absent fields fall back to base.
func NewScenarioFactory(base payscheme.Configuration) *ScenarioFactory {
	return &ScenarioFactory{Base: base}
}

// ParseScenario parses and validates a JSON scenario document. An empty
// document yields the base configuration.
func (f *ScenarioFactory) ParseScenario(jsonStr string) (payscheme.Configuration, error) {
	sj, err := DecodeScenario([]byte(jsonStr))
	if err != nil {
		return payscheme.Configuration{}, err
	}
	return f.FromJSON(sj)
}

// DecodeScenario decodes a scenario document, rejecting unknown fields so
// that a misspelled parameter is not silently replaced by its default.
func DecodeScenario(b []byte) (ScenarioJSON, error) {
	var sj ScenarioJSON
	if len(bytes.TrimSpace(b)) == 0 {
		return sj, nil
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&sj); err != nil {
		return ScenarioJSON{}, fmt.Errorf("%w: failed to parse scenario JSON: %v", generic.ErrInvalidInput, err)
	}
	return sj, nil
}

// FromJSON overlays sj on the base configuration and validates the result.
func (f *ScenarioFactory) FromJSON(sj ScenarioJSON) (payscheme.Configuration, error) {
	c := f.Base

	setDecimal(&c.HourlyWage, sj.HourlyWage)
	setDecimal(&c.NormalTaxRate, sj.NormalTaxRate)
	setDecimal(&c.SpecialTaxRate, sj.SpecialTaxRate)
	setInt(&c.WeekdayCount, sj.WeekdayCount)
	setDecimal(&c.HoursPerDay, sj.HoursPerDay)
	setInt(&c.DaysPerWeek, sj.DaysPerWeek)
	setDecimal(&c.SaturdayMultiplier, sj.SaturdayMultiplier)
	setDecimal(&c.SundayMultiplier, sj.SundayMultiplier)
	setDecimal(&c.WeekdayOvertimeHours, sj.WeekdayOvertimeHours)
	setBool(&c.WorksSaturday, sj.WorksSaturday)
	setDecimal(&c.ExtraSaturdayHours, sj.ExtraSaturdayHours)
	setDecimal(&c.NewDailyAllowanceNet, sj.NewDailyAllowanceNet)
	setDecimal(&c.OldBonusMultiplier, sj.OldBonusMultiplier)
	setDecimal(&c.OldDailyAllowanceGross, sj.OldDailyAllowanceGross)
	if sj.OldSaturdayBaseMultiplier != nil {
		m := decimal.NewFromFloat(*sj.OldSaturdayBaseMultiplier)
		c.OldSaturdayBaseMultiplier = &m
	}
	setBool(&c.AllowanceAppliesAllDays, sj.AllowanceAppliesAllDays)

	if sj.OldSaturdayBaseRule != nil {
		c.OldSaturdayBaseRule = payscheme.SaturdayBaseRule(*sj.OldSaturdayBaseRule)
	}
	if sj.Unit != nil {
		c.Unit = generic.Unit(*sj.Unit)
	}

	if err := c.Validate(); err != nil {
		return payscheme.Configuration{}, err
	}
	return c, nil
}

// ToJSON renders a configuration with every field set. An unset Saturday
// base multiplier stays absent so it keeps following sunday_multiplier.
func ToJSON(c payscheme.Configuration) ScenarioJSON {
	rule := string(c.OldSaturdayBaseRule)
	unit := string(c.Unit)
	return ScenarioJSON{
		HourlyWage:                floatPtr(c.HourlyWage),
		NormalTaxRate:             floatPtr(c.NormalTaxRate),
		SpecialTaxRate:            floatPtr(c.SpecialTaxRate),
		WeekdayCount:              &c.WeekdayCount,
		HoursPerDay:               floatPtr(c.HoursPerDay),
		DaysPerWeek:               &c.DaysPerWeek,
		SaturdayMultiplier:        floatPtr(c.SaturdayMultiplier),
		SundayMultiplier:          floatPtr(c.SundayMultiplier),
		WeekdayOvertimeHours:      floatPtr(c.WeekdayOvertimeHours),
		WorksSaturday:             &c.WorksSaturday,
		ExtraSaturdayHours:        floatPtr(c.ExtraSaturdayHours),
		NewDailyAllowanceNet:      floatPtr(c.NewDailyAllowanceNet),
		OldBonusMultiplier:        floatPtr(c.OldBonusMultiplier),
		OldDailyAllowanceGross:    floatPtr(c.OldDailyAllowanceGross),
		OldSaturdayBaseMultiplier: optionalFloatPtr(c.OldSaturdayBaseMultiplier),
		OldSaturdayBaseRule:       &rule,
		AllowanceAppliesAllDays:   &c.AllowanceAppliesAllDays,
		Unit:                      &unit,
	}
}

// Merge returns sj with every field set in override replacing its own.
func (sj ScenarioJSON) Merge(override ScenarioJSON) ScenarioJSON {
	out := sj
	mergePtr(&out.HourlyWage, override.HourlyWage)
	mergePtr(&out.NormalTaxRate, override.NormalTaxRate)
	mergePtr(&out.SpecialTaxRate, override.SpecialTaxRate)
	mergePtr(&out.WeekdayCount, override.WeekdayCount)
	mergePtr(&out.HoursPerDay, override.HoursPerDay)
	mergePtr(&out.DaysPerWeek, override.DaysPerWeek)
	mergePtr(&out.SaturdayMultiplier, override.SaturdayMultiplier)
	mergePtr(&out.SundayMultiplier, override.SundayMultiplier)
	mergePtr(&out.WeekdayOvertimeHours, override.WeekdayOvertimeHours)
	mergePtr(&out.WorksSaturday, override.WorksSaturday)
	mergePtr(&out.ExtraSaturdayHours, override.ExtraSaturdayHours)
	mergePtr(&out.NewDailyAllowanceNet, override.NewDailyAllowanceNet)
	mergePtr(&out.OldBonusMultiplier, override.OldBonusMultiplier)
	mergePtr(&out.OldDailyAllowanceGross, override.OldDailyAllowanceGross)
	mergePtr(&out.OldSaturdayBaseMultiplier, override.OldSaturdayBaseMultiplier)
	mergePtr(&out.OldSaturdayBaseRule, override.OldSaturdayBaseRule)
	mergePtr(&out.AllowanceAppliesAllDays, override.AllowanceAppliesAllDays)
	mergePtr(&out.Unit, override.Unit)
	return out
}

// Marshal renders sj as a compact JSON string for storage.
func (sj ScenarioJSON) Marshal() (string, error) {
	b, err := json.Marshal(sj)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// =============================================================================
// HORIZON
// =============================================================================

// ParseHorizon converts a horizon document. An end date selects day
// granularity; otherwise weeks are used, anchored when a start date is given.
func ParseHorizon(hj HorizonJSON) (payscheme.Horizon, error) {
	var start, end generic.TimePoint
	var err error

	if hj.StartDate != "" {
		if start, err = generic.ParseDate(hj.StartDate); err != nil {
			return payscheme.Horizon{}, generic.NewInvalidConfiguration("start_date", hj.StartDate, err.Error())
		}
	}
	if hj.EndDate != "" {
		if end, err = generic.ParseDate(hj.EndDate); err != nil {
			return payscheme.Horizon{}, generic.NewInvalidConfiguration("end_date", hj.EndDate, err.Error())
		}
	}

	var h payscheme.Horizon
	switch {
	case hj.EndDate != "":
		if hj.Weeks != nil {
			return payscheme.Horizon{}, generic.NewInvalidConfiguration("weeks", fmt.Sprint(*hj.Weeks), "cannot be combined with end_date")
		}
		h = payscheme.RangeHorizon(start, end)
	case hj.Weeks != nil:
		h = payscheme.AnchoredWeeksHorizon(*hj.Weeks, start)
	default:
		h = payscheme.AnchoredWeeksHorizon(DefaultWeeks, start)
	}

	if err := h.Validate(); err != nil {
		return payscheme.Horizon{}, err
	}
	return h, nil
}

// HorizonToJSON is the inverse of ParseHorizon.
func HorizonToJSON(h payscheme.Horizon) HorizonJSON {
	hj := HorizonJSON{StartDate: h.Start.String()}
	if h.Granularity == generic.GranularityDay {
		hj.EndDate = h.End.String()
		return hj
	}
	weeks := h.Weeks
	hj.Weeks = &weeks
	return hj
}

// =============================================================================
// HELPERS
// =============================================================================

func setDecimal(dst *decimal.Decimal, v *float64) {
	if v != nil {
		*dst = decimal.NewFromFloat(*v)
	}
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

func mergePtr[T any](dst **T, v *T) {
	if v != nil {
		*dst = v
	}
}

func floatPtr(d decimal.Decimal) *float64 {
	f := d.InexactFloat64()
	return &f
}

func optionalFloatPtr(d *decimal.Decimal) *float64 {
	if d == nil {
		return nil
	}
	return floatPtr(*d)
}

// Float, Int, Bool and String return pointers for building ScenarioJSON
// literals.
func Float(v float64) *float64 { return &v }
func Int(v int) *int           { return &v }
func Bool(v bool) *bool        { return &v }
func String(v string) *string  { return &v }
