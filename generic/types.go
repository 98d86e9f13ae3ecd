/*
Package generic provides the domain-agnostic building blocks of the pay
comparison engine.

PURPOSE:
  This package contains the types every scheme calculation is expressed in:
  money amounts, calendar time points, elementary periods and the errors the
  engine can return. The payscheme package builds the old/new compensation
  rules on top of it; api, factory and store only ever exchange these types.

KEY CONCEPTS IN THIS FILE (types.go):
  - Amount: A monetary value with a currency unit (e.g., 979.60 EUR)
  - Rate helpers: Net() applies a withholding rate to a gross amount
  - Category: The fixed set of pay categories a period is decomposed into

DESIGN PRINCIPLES:
  1. Precision: Uses decimal.Decimal so that sums over long horizons are exact
  2. Immutability: Every operation returns a new Amount
  3. Type Safety: Categories and units are string types, not bare strings

USAGE:
  gross := generic.NewAmount(920, generic.UnitEUR)
  net := gross.Net(decimal.RequireFromString("0.37")) // 579.60 EUR

SEE ALSO:
  - time.go: TimePoint and DayType
  - period.go: Period, Granularity and Slot
  - errors.go: Sentinel and structured errors
*/
package generic

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// =============================================================================
// AMOUNT - Monetary value with unit
// =============================================================================

type Amount struct {
	Value decimal.Decimal `json:"value"`
	Unit  Unit            `json:"unit"`
}

type Unit string

const (
	UnitEUR Unit = "EUR"
)

// DefaultUnit is the currency every calculation is reported in.
const DefaultUnit = UnitEUR

func NewAmount(value float64, unit Unit) Amount {
	return Amount{Value: decimal.NewFromFloat(value), Unit: unit}
}

func NewAmountFromDecimal(value decimal.Decimal, unit Unit) Amount {
	return Amount{Value: value, Unit: unit}
}

func ZeroAmount(unit Unit) Amount {
	return Amount{Value: decimal.Zero, Unit: unit}
}

// ParseAmount parses a decimal string such as "979.60".
func ParseAmount(value string, unit Unit) (Amount, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return Amount{}, fmt.Errorf("invalid amount %q: %w", value, err)
	}
	return Amount{Value: d, Unit: unit}, nil
}

func (a Amount) Zero() Amount                 { return Amount{Value: decimal.Zero, Unit: a.Unit} }
func (a Amount) Add(b Amount) Amount          { return Amount{Value: a.Value.Add(b.Value), Unit: a.Unit} }
func (a Amount) Sub(b Amount) Amount          { return Amount{Value: a.Value.Sub(b.Value), Unit: a.Unit} }
func (a Amount) Mul(s decimal.Decimal) Amount { return Amount{Value: a.Value.Mul(s), Unit: a.Unit} }
func (a Amount) IsNegative() bool             { return a.Value.IsNegative() }
func (a Amount) IsZero() bool                 { return a.Value.IsZero() }
func (a Amount) IsPositive() bool             { return a.Value.IsPositive() }
func (a Amount) Equal(b Amount) bool          { return a.Value.Equal(b.Value) }
func (a Amount) GreaterThan(b Amount) bool    { return a.Value.GreaterThan(b.Value) }
func (a Amount) LessThan(b Amount) bool       { return a.Value.LessThan(b.Value) }
func (a Amount) Sign() int                    { return a.Value.Sign() }

// Net returns the amount left after withholding the given rate.
// The rate is a fraction in [0,1): Net(0.37) keeps 63%.
func (a Amount) Net(rate decimal.Decimal) Amount {
	return a.Mul(decimal.NewFromInt(1).Sub(rate))
}

// Round returns the amount rounded to cents for display.
func (a Amount) Round() Amount {
	return Amount{Value: a.Value.Round(2), Unit: a.Unit}
}

func (a Amount) String() string {
	return a.Value.StringFixed(2) + " " + string(a.Unit)
}

// Sum adds amounts, returning zero in unit when the list is empty.
func Sum(unit Unit, amounts ...Amount) Amount {
	total := ZeroAmount(unit)
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}

// =============================================================================
// PAY CATEGORIES
// =============================================================================

// Category identifies one line of a period breakdown.
type Category string

const (
	CategoryRegular         Category = "regular"          // Normal weekday hours
	CategoryOvertime        Category = "overtime"         // Weekday overtime hours
	CategorySaturdayPremium Category = "saturday_premium" // Hours paid at the Saturday multiplier
	CategorySundayRate      Category = "sunday_rate"      // Base weekend pay at the Sunday-derived multiplier
	CategoryAllowance       Category = "allowance"        // Fixed per-day allowance
)

// Categories lists every category in reporting order.
var Categories = []Category{
	CategoryRegular,
	CategoryOvertime,
	CategorySaturdayPremium,
	CategorySundayRate,
	CategoryAllowance,
}
