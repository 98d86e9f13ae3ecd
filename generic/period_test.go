package generic_test

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/pay-compare/generic"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func eur(v float64) generic.Amount {
	return generic.NewAmount(v, generic.UnitEUR)
}

func date(y int, m time.Month, d int) generic.TimePoint {
	return generic.NewTimePoint(y, m, d)
}

// =============================================================================
// AMOUNT
// =============================================================================

func TestAmount_Net(t *testing.T) {
	net := eur(920).Net(decimal.RequireFromString("0.37"))
	assert.True(t, net.Value.Equal(decimal.RequireFromString("579.6")), "got %s", net)
	assert.Equal(t, "579.60 EUR", net.String())
}

func TestAmount_Sum(t *testing.T) {
	assert.True(t, generic.Sum(generic.UnitEUR).IsZero())
	assert.True(t, generic.Sum(generic.UnitEUR, eur(1.5), eur(2.25)).Equal(eur(3.75)))
}

func TestAmount_Round(t *testing.T) {
	assert.Equal(t, "196.06", eur(196.0612).Round().Value.String())
}

// =============================================================================
// TIME POINT & DAY TYPE
// =============================================================================

func TestParseDate(t *testing.T) {
	tp, err := generic.ParseDate("2025-01-06")
	require.NoError(t, err)
	assert.Equal(t, date(2025, time.January, 6), tp)

	tp, err = generic.ParseDate("06.01.2025")
	require.NoError(t, err)
	assert.Equal(t, date(2025, time.January, 6), tp)

	_, err = generic.ParseDate("next monday")
	assert.Error(t, err)
}

func TestDayType(t *testing.T) {
	week := generic.WeekStarting(date(2025, time.January, 6))
	var got []generic.DayType
	for _, d := range week.Days() {
		got = append(got, d.DayType())
	}

	assert.Equal(t, []generic.DayType{
		generic.DayWeekday, generic.DayWeekday, generic.DayWeekday, generic.DayWeekday, generic.DayWeekday,
		generic.DaySaturday, generic.DaySunday,
	}, got)
}

func TestStartOfWeek(t *testing.T) {
	assert.Equal(t, date(2025, time.January, 6), date(2025, time.January, 12).StartOfWeek())
	assert.Equal(t, date(2025, time.January, 6), date(2025, time.January, 8).StartOfWeek())
	assert.Equal(t, date(2025, time.January, 6), date(2025, time.January, 6).StartOfWeek())
}

func TestTimePoint_TextRoundTrip(t *testing.T) {
	var tp generic.TimePoint
	require.NoError(t, tp.UnmarshalText([]byte("2025-03-01")))
	b, err := tp.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "2025-03-01", string(b))

	require.NoError(t, tp.UnmarshalText(nil))
	assert.True(t, tp.IsZero())
}

// =============================================================================
// PERIOD & SCHEDULES
// =============================================================================

func TestPeriod_Len(t *testing.T) {
	p := generic.Period{Start: date(2025, time.January, 1), End: date(2025, time.January, 31)}
	assert.Equal(t, 31, p.Len())
	assert.Len(t, p.Days(), 31)
	assert.True(t, p.Contains(date(2025, time.January, 15)))
	assert.False(t, p.Contains(date(2025, time.February, 1)))

	inverted := generic.Period{Start: p.End, End: p.Start}
	assert.Equal(t, 0, inverted.Len())
	assert.Empty(t, inverted.Days())
}

func TestPeriod_Validate(t *testing.T) {
	ok := generic.Period{Start: date(2025, time.January, 1), End: date(2025, time.January, 1)}
	assert.NoError(t, ok.Validate())

	bad := generic.Period{Start: date(2025, time.January, 2), End: date(2025, time.January, 1)}
	err := bad.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, generic.ErrInvalidPeriod)
	assert.ErrorIs(t, err, generic.ErrInvalidConfiguration)

	var cfgErr *generic.InvalidConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "end_date", cfgErr.Field)
}

func TestWeekSchedule(t *testing.T) {
	assert.Empty(t, generic.WeekSchedule{Weeks: 0}.Slots())

	abstract := generic.WeekSchedule{Weeks: 3}.Slots()
	require.Len(t, abstract, 3)
	for i, s := range abstract {
		assert.Equal(t, i, s.Index)
		assert.Equal(t, generic.GranularityWeek, s.Granularity)
		assert.True(t, s.Period.IsZero())
	}

	anchored := generic.WeekSchedule{Weeks: 2, Anchor: date(2025, time.January, 6)}.Slots()
	assert.Equal(t, date(2025, time.January, 13), anchored[1].Period.Start)
	assert.Equal(t, date(2025, time.January, 19), anchored[1].Period.End)
}

func TestDaySchedule(t *testing.T) {
	sched := generic.DaySchedule{Period: generic.Period{
		Start: date(2025, time.January, 10),
		End:   date(2025, time.January, 12),
	}}
	slots := sched.Slots()

	require.Len(t, slots, 3)
	assert.Equal(t, generic.GranularityDay, sched.Granularity())
	assert.Equal(t, generic.DayWeekday, slots[0].DayType)
	assert.Equal(t, generic.DaySaturday, slots[1].DayType)
	assert.Equal(t, generic.DaySunday, slots[2].DayType)
	assert.Equal(t, 2, slots[2].Index)
}

// =============================================================================
// ERRORS
// =============================================================================

func TestErrorClassification(t *testing.T) {
	cfgErr := generic.NewInvalidConfiguration("hourly_wage", "0", "must be positive")

	assert.True(t, generic.IsClientError(cfgErr))
	assert.False(t, errors.Is(cfgErr, generic.ErrInvalidPeriod))
	assert.Equal(t, "invalid configuration: hourly_wage=0 must be positive", cfgErr.Error())

	assert.True(t, generic.IsClientError(generic.ErrDuplicateRun))
	assert.True(t, generic.IsNotFound(generic.ErrScenarioNotFound))
	assert.False(t, generic.IsClientError(errors.New("disk full")))
}
