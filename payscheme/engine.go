package payscheme

import (
	"context"
	"runtime"
	"strconv"

	"github.com/warp/pay-compare/generic"
	"golang.org/x/sync/errgroup"
)

// =============================================================================
// HORIZON - What a run covers
// =============================================================================

// Horizon is either a number of weeks (optionally anchored at Start) or an
// explicit date range computed day by day.
type Horizon struct {
	Granularity generic.Granularity
	Weeks       int
	Start       generic.TimePoint
	End         generic.TimePoint
}

// WeeksHorizon covers n abstract weeks.
func WeeksHorizon(n int) Horizon {
	return Horizon{Granularity: generic.GranularityWeek, Weeks: n}
}

// AnchoredWeeksHorizon covers n weeks, the first one starting at start.
func AnchoredWeeksHorizon(n int, start generic.TimePoint) Horizon {
	return Horizon{Granularity: generic.GranularityWeek, Weeks: n, Start: start}
}

// RangeHorizon covers every day in [start, end].
func RangeHorizon(start, end generic.TimePoint) Horizon {
	return Horizon{Granularity: generic.GranularityDay, Start: start, End: end}
}

// Upper bounds of a single run: ten years of weeks or of days.
const (
	MaxWeeks = 520
	MaxDays  = 3660
)

func (h Horizon) Validate() error {
	switch h.Granularity {
	case generic.GranularityWeek:
		if h.Weeks < 0 {
			return generic.NewInvalidConfiguration("weeks", strconv.Itoa(h.Weeks), "must not be negative")
		}
		if h.Weeks > MaxWeeks {
			return generic.NewInvalidConfiguration("weeks", strconv.Itoa(h.Weeks), "must not exceed "+strconv.Itoa(MaxWeeks))
		}
	case generic.GranularityDay:
		if h.Start.IsZero() || h.End.IsZero() {
			return generic.NewInvalidConfiguration("start_date", h.Start.String(), "start_date and end_date are required for day granularity")
		}
		p := generic.Period{Start: h.Start, End: h.End}
		if err := p.Validate(); err != nil {
			return err
		}
		if p.Len() > MaxDays {
			return generic.NewInvalidConfiguration("end_date", h.End.String(), "range must not exceed "+strconv.Itoa(MaxDays)+" days")
		}
	default:
		return generic.NewInvalidConfiguration("granularity", string(h.Granularity), "must be week or day")
	}
	return nil
}

// Schedule returns the slot generator for the horizon.
func (h Horizon) Schedule() generic.Schedule {
	if h.Granularity == generic.GranularityDay {
		return generic.DaySchedule{Period: generic.Period{Start: h.Start, End: h.End}}
	}
	return generic.WeekSchedule{Weeks: h.Weeks, Anchor: h.Start}
}

// =============================================================================
// ENGINE - Validate, compute every slot, accumulate
// =============================================================================

// Result is everything a caller renders.
type Result struct {
	Config  Configuration
	Horizon Horizon
	Records []PeriodRecord
	Series  CumulativeSeries
	Summary Summary
}

// Engine computes slots on a bounded worker group. Slots are independent, so
// the only ordering constraint is that accumulation sees them in order.
type Engine struct {
	Workers int
}

// NewEngine returns an engine with the given parallelism; workers <= 0 uses
// GOMAXPROCS.
func NewEngine(workers int) *Engine {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Engine{Workers: workers}
}

// Run validates the configuration and horizon, computes every period and
// accumulates the result. On error no records are returned.
func (e *Engine) Run(ctx context.Context, c Configuration, h Horizon) (*Result, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if err := h.Validate(); err != nil {
		return nil, err
	}

	slots := h.Schedule().Slots()
	records := make([]PeriodRecord, len(slots))
	t := termsOf(c)

	workers := e.Workers
	if workers <= 0 {
		workers = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, slot := range slots {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			records[i] = compute(c, t, slot)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	series := Accumulate(records)
	return &Result{
		Config:  c,
		Horizon: h,
		Records: records,
		Series:  series,
		Summary: Summarize(h.Granularity, series),
	}, nil
}

// Run is Engine.Run with default parallelism.
func Run(ctx context.Context, c Configuration, h Horizon) (*Result, error) {
	return NewEngine(0).Run(ctx, c, h)
}
