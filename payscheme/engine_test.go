package payscheme_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/pay-compare/generic"
	"github.com/warp/pay-compare/payscheme"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func assertAmount(t *testing.T, want string, got generic.Amount, msgAndArgs ...interface{}) {
	t.Helper()
	assert.True(t, dec(want).Equal(got.Value), append([]interface{}{"want %s, got %s", want, got.Value.String()}, msgAndArgs...)...)
}

// monday is 2025-01-06.
func monday() generic.TimePoint { return generic.NewTimePoint(2025, time.January, 6) }

func run(t *testing.T, c payscheme.Configuration, h payscheme.Horizon) *payscheme.Result {
	t.Helper()
	res, err := payscheme.Run(context.Background(), c, h)
	require.NoError(t, err)
	require.NotNil(t, res)
	return res
}

// =============================================================================
// REFERENCE SCENARIOS
// =============================================================================

func TestComputeWeek_Defaults(t *testing.T) {
	// GIVEN: Default configuration, one abstract week
	// WHEN: Computing week 0
	// THEN: New 979.60, old 949.17, old - new = -30.43

	rec, err := payscheme.ComputeWeek(payscheme.DefaultConfiguration(), 0)
	require.NoError(t, err)

	assertAmount(t, "579.6", rec.New.Regular)
	assertAmount(t, "0", rec.New.Overtime)
	assertAmount(t, "0", rec.New.SaturdayPremium)
	assertAmount(t, "0", rec.New.SundayRate)
	assertAmount(t, "400", rec.New.Allowance)
	assertAmount(t, "979.6", rec.New.Total)

	assertAmount(t, "753.48", rec.Old.Regular)
	assertAmount(t, "0", rec.Old.Overtime)
	assertAmount(t, "0", rec.Old.SaturdayPremium)
	assertAmount(t, "69.69", rec.Old.SundayRate)
	assertAmount(t, "126", rec.Old.Allowance)
	assertAmount(t, "949.17", rec.Old.Total)

	assertAmount(t, "-30.43", rec.Difference())
	assert.Equal(t, generic.GranularityWeek, rec.Granularity())
	assert.True(t, rec.Slot.Period.IsZero(), "abstract week has no calendar period")
}

func TestRun_TwelveWeeks_Defaults(t *testing.T) {
	res := run(t, payscheme.DefaultConfiguration(), payscheme.WeeksHorizon(12))

	require.Len(t, res.Records, 12)
	assert.Equal(t, 13, res.Series.Len())

	assertAmount(t, "11755.2", res.Summary.TotalNew)
	assertAmount(t, "11390.04", res.Summary.TotalOld)
	assertAmount(t, "-365.16", res.Summary.Difference)
	assertAmount(t, "979.6", res.Summary.AverageNew)
	assertAmount(t, "949.17", res.Summary.AverageOld)
	assert.Equal(t, payscheme.WinnerNew, res.Summary.Winner)
	assert.Nil(t, res.Summary.BreakEven)
	assert.Equal(t, 12, res.Summary.Periods)
}

// =============================================================================
// CUMULATIVE SERIES PROPERTIES
// =============================================================================

func TestRun_SeriesStartsAtZero(t *testing.T) {
	res := run(t, payscheme.DefaultConfiguration(), payscheme.WeeksHorizon(3))

	first := res.Series.Points[0]
	assert.Equal(t, 0, first.Index)
	assert.True(t, first.New.IsZero())
	assert.True(t, first.Old.IsZero())
	assert.True(t, first.Difference.IsZero())
}

func TestRun_SeriesDeltasEqualPeriodTotals(t *testing.T) {
	res := run(t, payscheme.DefaultConfiguration(), payscheme.RangeHorizon(monday(), monday().AddDays(20)))

	require.Equal(t, len(res.Records)+1, res.Series.Len())
	for i, rec := range res.Records {
		prev, cur := res.Series.Points[i], res.Series.Points[i+1]
		assert.True(t, cur.New.Sub(prev.New).Equal(rec.New.Total), "new delta at %d", i)
		assert.True(t, cur.Old.Sub(prev.Old).Equal(rec.Old.Total), "old delta at %d", i)
		assert.True(t, cur.PeriodDifference.Equal(rec.Difference()), "period difference at %d", i)
		assert.True(t, cur.Difference.Equal(cur.Old.Sub(cur.New)))
	}
}

func TestRun_SeriesIsMonotonic(t *testing.T) {
	res := run(t, payscheme.DefaultConfiguration(), payscheme.RangeHorizon(monday(), monday().AddDays(30)))

	for _, sc := range payscheme.Schemes {
		totals := res.Series.Totals(sc)
		for i := 1; i < len(totals); i++ {
			assert.False(t, totals[i].LessThan(totals[i-1]), "%s decreased at %d", sc, i)
		}
	}
}

func TestRun_Idempotent(t *testing.T) {
	c := payscheme.DefaultConfiguration()
	h := payscheme.WeeksHorizon(8)

	a := run(t, c, h)
	b := run(t, c, h)
	assert.Equal(t, a.Series, b.Series)
	assert.Equal(t, a.Summary, b.Summary)
}

func TestRun_ParallelMatchesSequential(t *testing.T) {
	c := payscheme.DefaultConfiguration()
	c.WeekdayOvertimeHours = dec("1.5")
	c.ExtraSaturdayHours = dec("3")
	h := payscheme.RangeHorizon(monday(), monday().AddDays(120))

	seq, err := payscheme.NewEngine(1).Run(context.Background(), c, h)
	require.NoError(t, err)
	par, err := payscheme.NewEngine(16).Run(context.Background(), c, h)
	require.NoError(t, err)

	assert.Equal(t, seq.Records, par.Records)
	assert.Equal(t, seq.Series, par.Series)
}

func TestRun_BreakEven_DayMode(t *testing.T) {
	// GIVEN: Defaults, one calendar week starting Monday
	// WHEN: Accumulating day by day
	// THEN: Old leads through Friday (+0.526/day), the worked Saturday flips it

	res := run(t, payscheme.DefaultConfiguration(), payscheme.RangeHorizon(monday(), monday().AddDays(6)))

	assertAmount(t, "2.63", res.Series.Points[5].Difference)
	require.NotNil(t, res.Summary.BreakEven)
	assert.Equal(t, 6, *res.Summary.BreakEven)
	assert.Equal(t, payscheme.WinnerNew, res.Summary.Winner)
}

// =============================================================================
// EDGE CASES
// =============================================================================

func TestRun_ZeroWeeks(t *testing.T) {
	res := run(t, payscheme.DefaultConfiguration(), payscheme.WeeksHorizon(0))

	assert.Empty(t, res.Records)
	assert.Equal(t, 1, res.Series.Len())
	assert.True(t, res.Summary.TotalNew.IsZero())
	assert.True(t, res.Summary.AverageNew.IsZero())
	assert.Equal(t, payscheme.WinnerEqual, res.Summary.Winner)
}

func TestRun_SingleDayRange(t *testing.T) {
	res := run(t, payscheme.DefaultConfiguration(), payscheme.RangeHorizon(monday(), monday()))

	require.Len(t, res.Records, 1)
	assert.Equal(t, generic.DayWeekday, res.Records[0].DayType())
	assertAmount(t, "165.92", res.Summary.TotalNew)
	assertAmount(t, "166.446", res.Summary.TotalOld)
	assert.Equal(t, payscheme.WinnerOld, res.Summary.Winner)
}

func TestRun_ZeroTaxReturnsGross(t *testing.T) {
	c := payscheme.DefaultConfiguration()
	c.NormalTaxRate = decimal.Zero
	c.SpecialTaxRate = decimal.Zero

	rec, err := payscheme.ComputeWeek(c, 0)
	require.NoError(t, err)

	assertAmount(t, "920", rec.New.Regular)
	assertAmount(t, "1320", rec.New.Total)
	assertAmount(t, "1196", rec.Old.Regular)
	assertAmount(t, "138", rec.Old.SundayRate)
	assertAmount(t, "200", rec.Old.Allowance)
	assertAmount(t, "1534", rec.Old.Total)
}

func TestRun_AnchoredWeeksCarryCalendarPeriods(t *testing.T) {
	res := run(t, payscheme.DefaultConfiguration(), payscheme.AnchoredWeeksHorizon(2, monday()))

	require.Len(t, res.Records, 2)
	assert.Equal(t, monday(), res.Records[1].Slot.Period.Start.AddWeeks(-1))
	assert.Equal(t, monday().AddDays(13), res.Records[1].Slot.Period.End)
	assert.True(t, res.Records[0].New.Total.Equal(res.Records[1].New.Total))
}

func TestRun_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := payscheme.NewEngine(2).Run(ctx, payscheme.DefaultConfiguration(), payscheme.WeeksHorizon(4))
	require.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, res)
}

// =============================================================================
// VALIDATION
// =============================================================================

func TestRun_InvalidConfiguration(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*payscheme.Configuration)
		field  string
	}{
		{"zero wage", func(c *payscheme.Configuration) { c.HourlyWage = decimal.Zero }, "hourly_wage"},
		{"tax rate of one", func(c *payscheme.Configuration) { c.NormalTaxRate = dec("1") }, "normal_tax_rate"},
		{"negative special tax", func(c *payscheme.Configuration) { c.SpecialTaxRate = dec("-0.1") }, "special_tax_rate"},
		{"bonus below one", func(c *payscheme.Configuration) { c.OldBonusMultiplier = dec("0.9") }, "old_bonus_multiplier"},
		{"negative allowance", func(c *payscheme.Configuration) { c.NewDailyAllowanceNet = dec("-1") }, "new_daily_allowance_net"},
		{"too many hours", func(c *payscheme.Configuration) { c.HoursPerDay = dec("25") }, "hours_per_day"},
		{"weekday count above days per week", func(c *payscheme.Configuration) { c.WeekdayCount = 8 }, "weekday_count"},
		{"days per week zero", func(c *payscheme.Configuration) { c.DaysPerWeek = 0 }, "days_per_week"},
		{"unknown saturday rule", func(c *payscheme.Configuration) { c.OldSaturdayBaseRule = "sometimes" }, "old_saturday_base_rule"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := payscheme.DefaultConfiguration()
			tt.mutate(&c)

			res, err := payscheme.Run(context.Background(), c, payscheme.WeeksHorizon(4))
			require.Error(t, err)
			assert.Nil(t, res, "no partial results")
			assert.ErrorIs(t, err, generic.ErrInvalidConfiguration)

			var cfgErr *generic.InvalidConfigurationError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tt.field, cfgErr.Field)
		})
	}
}

func TestRun_InvertedRange(t *testing.T) {
	res, err := payscheme.Run(context.Background(), payscheme.DefaultConfiguration(),
		payscheme.RangeHorizon(monday(), monday().AddDays(-1)))

	require.Error(t, err)
	assert.Nil(t, res)
	assert.ErrorIs(t, err, generic.ErrInvalidPeriod)
	assert.ErrorIs(t, err, generic.ErrInvalidConfiguration)
}

func TestRun_NegativeWeeks(t *testing.T) {
	_, err := payscheme.Run(context.Background(), payscheme.DefaultConfiguration(), payscheme.WeeksHorizon(-1))
	assert.ErrorIs(t, err, generic.ErrInvalidConfiguration)
}

func TestHorizon_Caps(t *testing.T) {
	tests := []struct {
		name    string
		horizon payscheme.Horizon
		valid   bool
	}{
		{"max weeks", payscheme.WeeksHorizon(payscheme.MaxWeeks), true},
		{"too many weeks", payscheme.WeeksHorizon(payscheme.MaxWeeks + 1), false},
		{"huge weeks", payscheme.WeeksHorizon(2_000_000_000), false},
		{"max days", payscheme.RangeHorizon(monday(), monday().AddDays(payscheme.MaxDays-1)), true},
		{"too many days", payscheme.RangeHorizon(monday(), monday().AddDays(payscheme.MaxDays)), false},
		{"centuries", payscheme.RangeHorizon(generic.NewTimePoint(1000, time.January, 1), generic.NewTimePoint(9999, time.December, 31)), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.horizon.Validate()
			if tt.valid {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, generic.ErrInvalidConfiguration)
		})
	}
}

func TestComputePeriod_MismatchedDayType(t *testing.T) {
	slot := generic.DaySlot(0, monday())
	slot.DayType = generic.DaySunday

	_, err := payscheme.ComputePeriod(payscheme.DefaultConfiguration(), slot)
	assert.ErrorIs(t, err, generic.ErrInvalidConfiguration)
}
