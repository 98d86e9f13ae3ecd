package payscheme

import (
	"github.com/shopspring/decimal"
	"github.com/warp/pay-compare/generic"
)

// =============================================================================
// CUMULATIVE SERIES - Running totals per scheme
// =============================================================================

// CumulativePoint is the state after Index periods. Point 0 is "before the
// first period" and is always zero.
type CumulativePoint struct {
	Index            int
	New              generic.Amount
	Old              generic.Amount
	Difference       generic.Amount // cumulative old - new
	PeriodDifference generic.Amount // old - new of period Index alone
}

// CumulativeSeries holds len(records)+1 points.
type CumulativeSeries struct {
	Points []CumulativePoint
}

// Accumulate folds period totals, in the order given, into running sums.
// Records must already be chronological; Accumulate does not sort.
func Accumulate(records []PeriodRecord) CumulativeSeries {
	unit := generic.DefaultUnit
	if len(records) > 0 {
		unit = records[0].New.Total.Unit
	}

	zero := generic.ZeroAmount(unit)
	points := make([]CumulativePoint, 1, len(records)+1)
	points[0] = CumulativePoint{New: zero, Old: zero, Difference: zero, PeriodDifference: zero}

	for i, rec := range records {
		prev := points[i]
		next := CumulativePoint{
			Index:            i + 1,
			New:              prev.New.Add(rec.New.Total),
			Old:              prev.Old.Add(rec.Old.Total),
			PeriodDifference: rec.Difference(),
		}
		next.Difference = next.Old.Sub(next.New)
		points = append(points, next)
	}
	return CumulativeSeries{Points: points}
}

// Len returns the number of points (periods + 1).
func (s CumulativeSeries) Len() int { return len(s.Points) }

// Final returns the last point, i.e. the totals over the whole horizon.
func (s CumulativeSeries) Final() CumulativePoint {
	if len(s.Points) == 0 {
		zero := generic.ZeroAmount(generic.DefaultUnit)
		return CumulativePoint{New: zero, Old: zero, Difference: zero, PeriodDifference: zero}
	}
	return s.Points[len(s.Points)-1]
}

// Totals returns the cumulative totals of scheme sc, point by point.
func (s CumulativeSeries) Totals(sc Scheme) []generic.Amount {
	out := make([]generic.Amount, len(s.Points))
	for i, p := range s.Points {
		if sc == SchemeOld {
			out[i] = p.Old
		} else {
			out[i] = p.New
		}
	}
	return out
}

// BreakEven returns the first period after which the cumulative difference
// has a different sign than after the previous period. The leading zero
// point is ignored, so a horizon where one scheme leads from the start and
// never loses the lead has no break-even.
func (s CumulativeSeries) BreakEven() (int, bool) {
	for i := 2; i < len(s.Points); i++ {
		if s.Points[i].Difference.Sign() != s.Points[i-1].Difference.Sign() {
			return s.Points[i].Index, true
		}
	}
	return 0, false
}

// =============================================================================
// SUMMARY - Final comparison
// =============================================================================

type Winner string

const (
	WinnerNew   Winner = "new"
	WinnerOld   Winner = "old"
	WinnerEqual Winner = "equal"
)

type Summary struct {
	Granularity generic.Granularity
	Periods     int
	TotalNew    generic.Amount
	TotalOld    generic.Amount
	Difference  generic.Amount // old - new
	AverageNew  generic.Amount // per period
	AverageOld  generic.Amount
	Winner      Winner
	BreakEven   *int // period index, nil when the lead never changes
}

// Summarize derives the final comparison from a series.
func Summarize(g generic.Granularity, series CumulativeSeries) Summary {
	final := series.Final()
	periods := series.Len() - 1
	if periods < 0 {
		periods = 0
	}

	sum := Summary{
		Granularity: g,
		Periods:     periods,
		TotalNew:    final.New,
		TotalOld:    final.Old,
		Difference:  final.Difference,
		AverageNew:  final.New.Zero(),
		AverageOld:  final.Old.Zero(),
	}
	if periods > 0 {
		n := decimal.NewFromInt(int64(periods))
		sum.AverageNew = generic.NewAmountFromDecimal(final.New.Value.Div(n), final.New.Unit)
		sum.AverageOld = generic.NewAmountFromDecimal(final.Old.Value.Div(n), final.Old.Unit)
	}

	switch final.Difference.Sign() {
	case 1:
		sum.Winner = WinnerOld
	case -1:
		sum.Winner = WinnerNew
	default:
		sum.Winner = WinnerEqual
	}

	if idx, ok := series.BreakEven(); ok {
		sum.BreakEven = &idx
	}
	return sum
}
