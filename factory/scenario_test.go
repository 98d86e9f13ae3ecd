package factory_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/pay-compare/factory"
	"github.com/warp/pay-compare/generic"
	"github.com/warp/pay-compare/payscheme"
)

func newFactory() *factory.ScenarioFactory {
	return factory.NewScenarioFactory(payscheme.DefaultConfiguration())
}

// =============================================================================
// SCENARIO PARSING
// =============================================================================

func TestParseScenario_EmptyYieldsBase(t *testing.T) {
	c, err := newFactory().ParseScenario("")
	require.NoError(t, err)
	assert.Equal(t, payscheme.DefaultConfiguration(), c)

	c, err = newFactory().ParseScenario("{}")
	require.NoError(t, err)
	assert.Equal(t, payscheme.DefaultConfiguration(), c)
}

func TestParseScenario_OverridesOnlyGivenFields(t *testing.T) {
	c, err := newFactory().ParseScenario(`{"hourly_wage": 25, "works_saturday": false, "old_saturday_base_rule": "always"}`)
	require.NoError(t, err)

	assert.True(t, c.HourlyWage.Equal(decimal.NewFromInt(25)))
	assert.False(t, c.WorksSaturday)
	assert.Equal(t, payscheme.SaturdayBaseAlways, c.OldSaturdayBaseRule)
	assert.True(t, c.NormalTaxRate.Equal(decimal.RequireFromString("0.37")), "untouched field keeps base value")
	assert.Equal(t, 7, c.DaysPerWeek)
}

func TestParseScenario_ZeroIsNotAbsent(t *testing.T) {
	c, err := newFactory().ParseScenario(`{"new_daily_allowance_net": 0, "weekday_count": 0}`)
	require.NoError(t, err)
	assert.True(t, c.NewDailyAllowanceNet.IsZero())
	assert.Equal(t, 0, c.WeekdayCount)
}

func TestParseScenario_Malformed(t *testing.T) {
	_, err := newFactory().ParseScenario(`{"hourly_wage": `)
	assert.ErrorIs(t, err, generic.ErrInvalidInput)

	_, err = newFactory().ParseScenario(`{"hourly_wag": 25}`)
	assert.ErrorIs(t, err, generic.ErrInvalidInput, "unknown field rejected")
}

func TestParseScenario_InvalidValue(t *testing.T) {
	_, err := newFactory().ParseScenario(`{"normal_tax_rate": 1.2}`)
	require.Error(t, err)
	assert.ErrorIs(t, err, generic.ErrInvalidConfiguration)

	var cfgErr *generic.InvalidConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "normal_tax_rate", cfgErr.Field)
}

func TestToJSON_RoundTrip(t *testing.T) {
	base := payscheme.DefaultConfiguration()
	base.ExtraSaturdayHours = decimal.RequireFromString("2.5")
	base.OldSaturdayBaseRule = payscheme.SaturdayBaseNotWorked

	s, err := factory.ToJSON(base).Marshal()
	require.NoError(t, err)

	got, err := newFactory().ParseScenario(s)
	require.NoError(t, err)

	rec1, err := payscheme.ComputeWeek(base, 0)
	require.NoError(t, err)
	rec2, err := payscheme.ComputeWeek(got, 0)
	require.NoError(t, err)
	assert.True(t, rec1.New.Total.Equal(rec2.New.Total))
	assert.True(t, rec1.Old.Total.Equal(rec2.Old.Total))
	assert.Equal(t, base.OldSaturdayBaseRule, got.OldSaturdayBaseRule)
}

func TestMerge(t *testing.T) {
	base := factory.ScenarioJSON{HourlyWage: factory.Float(20), WorksSaturday: factory.Bool(true)}
	merged := base.Merge(factory.ScenarioJSON{WorksSaturday: factory.Bool(false)})

	assert.Equal(t, 20.0, *merged.HourlyWage)
	assert.False(t, *merged.WorksSaturday)
	assert.True(t, *base.WorksSaturday, "receiver is not modified")
}

// =============================================================================
// HORIZON PARSING
// =============================================================================

func TestParseHorizon(t *testing.T) {
	tests := []struct {
		name    string
		in      factory.HorizonJSON
		gran    generic.Granularity
		periods int
	}{
		{"default weeks", factory.HorizonJSON{}, generic.GranularityWeek, factory.DefaultWeeks},
		{"explicit weeks", factory.HorizonJSON{Weeks: factory.Int(4)}, generic.GranularityWeek, 4},
		{"zero weeks", factory.HorizonJSON{Weeks: factory.Int(0)}, generic.GranularityWeek, 0},
		{"anchored weeks", factory.HorizonJSON{Weeks: factory.Int(2), StartDate: "2025-01-06"}, generic.GranularityWeek, 2},
		{"date range", factory.HorizonJSON{StartDate: "2025-01-01", EndDate: "2025-01-31"}, generic.GranularityDay, 31},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := factory.ParseHorizon(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.gran, h.Granularity)
			assert.Len(t, h.Schedule().Slots(), tt.periods)
		})
	}
}

func TestParseHorizon_Invalid(t *testing.T) {
	_, err := factory.ParseHorizon(factory.HorizonJSON{StartDate: "2025-02-01", EndDate: "2025-01-01"})
	assert.ErrorIs(t, err, generic.ErrInvalidPeriod)

	_, err = factory.ParseHorizon(factory.HorizonJSON{EndDate: "2025-01-01"})
	assert.ErrorIs(t, err, generic.ErrInvalidConfiguration, "end without start")

	_, err = factory.ParseHorizon(factory.HorizonJSON{StartDate: "yesterday"})
	assert.ErrorIs(t, err, generic.ErrInvalidConfiguration)

	_, err = factory.ParseHorizon(factory.HorizonJSON{Weeks: factory.Int(-3)})
	assert.ErrorIs(t, err, generic.ErrInvalidConfiguration)

	_, err = factory.ParseHorizon(factory.HorizonJSON{Weeks: factory.Int(3), StartDate: "2025-01-01", EndDate: "2025-01-31"})
	assert.ErrorIs(t, err, generic.ErrInvalidConfiguration)
}

func TestHorizonToJSON_RoundTrip(t *testing.T) {
	h := payscheme.RangeHorizon(generic.NewTimePoint(2025, time.March, 1), generic.NewTimePoint(2025, time.March, 9))
	b, err := json.Marshal(factory.HorizonToJSON(h))
	require.NoError(t, err)
	assert.JSONEq(t, `{"start_date":"2025-03-01","end_date":"2025-03-09"}`, string(b))

	var hj factory.HorizonJSON
	require.NoError(t, json.Unmarshal(b, &hj))
	back, err := factory.ParseHorizon(hj)
	require.NoError(t, err)
	assert.Equal(t, h, back)
}

// =============================================================================
// PRESETS
// =============================================================================

func TestPresets_AllParseAndRun(t *testing.T) {
	f := newFactory()
	list := factory.Presets()
	require.Len(t, list, 4)
	assert.Equal(t, factory.PresetDefault, list[0].Name)

	totals := map[string]decimal.Decimal{}
	for _, p := range list {
		c, err := f.FromJSON(p.Scenario)
		require.NoError(t, err, p.Name)

		res, err := payscheme.Run(context.Background(), c, payscheme.WeeksHorizon(1))
		require.NoError(t, err, p.Name)
		totals[p.Name] = res.Summary.TotalOld.Value
	}

	assert.True(t, totals[factory.PresetDefault].Equal(decimal.RequireFromString("949.17")))
	// 753.48 + 196.0612 + 126
	assert.True(t, totals[factory.PresetSaturdayPremium].Equal(decimal.RequireFromString("1075.5412")))
	// Saturday is worked by default, so no base pay
	assert.True(t, totals[factory.PresetBaseWhenNotWorking].Equal(decimal.RequireFromString("879.48")))
	assert.True(t, totals[factory.PresetWorkedDaysAllowance].Equal(decimal.RequireFromString("917.67")))
}

func TestLookupPreset(t *testing.T) {
	p, ok := factory.LookupPreset(factory.PresetWorkedDaysAllowance)
	require.True(t, ok)
	require.NotNil(t, p.Scenario.AllowanceAppliesAllDays)
	assert.False(t, *p.Scenario.AllowanceAppliesAllDays)

	_, ok = factory.LookupPreset("nope")
	assert.False(t, ok)
}

func TestParseScenario_SaturdayBaseFollowsSundayMultiplier(t *testing.T) {
	// GIVEN: Only sunday_multiplier is set
	// WHEN: Parsing and rendering back
	// THEN: The old Saturday base follows it and stays absent in the JSON

	c, err := newFactory().ParseScenario(`{"sunday_multiplier": 1.0}`)
	require.NoError(t, err)
	assert.Nil(t, c.OldSaturdayBaseMultiplier)
	assert.True(t, c.SaturdayBaseMultiplier().Equal(decimal.NewFromInt(1)))

	sj := factory.ToJSON(c)
	assert.Nil(t, sj.OldSaturdayBaseMultiplier)
	assert.Equal(t, 1.0, *sj.SundayMultiplier)

	pinned, err := newFactory().ParseScenario(`{"sunday_multiplier": 1.0, "old_saturday_base_multiplier": 2.11}`)
	require.NoError(t, err)
	assert.Equal(t, "2.11", pinned.SaturdayBaseMultiplier().String())
	assert.Equal(t, 2.11, *factory.ToJSON(pinned).OldSaturdayBaseMultiplier)
}
