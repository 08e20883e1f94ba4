package reshuffle

import (
	"slices"

	"github.com/javiermolinar/dayflow/internal/schedule"
)

// Strategy is the mitigation tier chosen for an overflowing day.
type Strategy string

const (
	StrategyNoAction          Strategy = "no_action"
	StrategyDeferOptionals    Strategy = "defer_optionals"
	StrategyCompressHabits    Strategy = "compress_habits"
	StrategyDeferFlexible     Strategy = "defer_flexible"
	StrategyFullDayDisruption Strategy = "full_day_disruption"
)

// OverflowAnalysis describes how much time is missing and how to absorb it.
type OverflowAnalysis struct {
	OverflowMinutes     int
	SpillsIntoEvening   bool
	EveningSpillMinutes int
	Strategy            Strategy

	CompressMinutes int // for StrategyCompressHabits
	DeferCount      int // for StrategyDeferOptionals and StrategyDeferFlexible

	// DeferIDs are the items picked for deferral, latest start first.
	DeferIDs []string
}

// Defers reports whether the item was picked for deferral.
func (o OverflowAnalysis) Defers(id string) bool {
	return slices.Contains(o.DeferIDs, id)
}

// DetectOverflow runs the mitigation waterfall: optional goals absorb the
// deficit first, then habit compression, then flexible deferral, and only
// then is the day treated as fully disrupted.
func DetectOverflow(ctx *Context) OverflowAnalysis {
	overflow := ctx.OverflowMinutes()
	a := OverflowAnalysis{OverflowMinutes: overflow, Strategy: StrategyNoAction}
	if overflow == 0 {
		return a
	}

	if ctx.OptionalGoalMinutes >= overflow {
		a.Strategy = StrategyDeferOptionals
		a.DeferIDs = latestFirst(ctx.OptionalGoals, overflow)
		a.DeferCount = len(a.DeferIDs)
		return a
	}

	remaining := overflow - ctx.OptionalGoalMinutes
	if remaining <= ctx.MaxCompressionMinutes {
		a.Strategy = StrategyCompressHabits
		a.CompressMinutes = remaining
		return a
	}

	remaining -= ctx.MaxCompressionMinutes
	if remaining <= ctx.FlexibleTaskMinutes {
		a.Strategy = StrategyDeferFlexible
		a.DeferIDs = latestFirst(ctx.FlexibleTasks, remaining)
		a.DeferCount = len(a.DeferIDs)
		return a
	}

	a.Strategy = StrategyFullDayDisruption
	a.DeferIDs = latestFirst(ctx.FlexibleTasks, ctx.FlexibleTaskMinutes)
	a.DeferCount = len(a.DeferIDs)
	a.EveningSpillMinutes = remaining - ctx.FlexibleTaskMinutes
	a.SpillsIntoEvening = a.EveningSpillMinutes > 0
	return a
}

// latestFirst picks the fewest items, latest start first, whose durations
// add up to at least minutes.
func latestFirst(items []*schedule.Item, minutes int) []string {
	sorted := slices.Clone(items)
	slices.SortStableFunc(sorted, func(a, b *schedule.Item) int {
		return b.StartTime.Compare(a.StartTime)
	})

	var ids []string
	covered := 0
	for _, it := range sorted {
		if covered >= minutes {
			break
		}
		ids = append(ids, it.ID)
		covered += it.DurationMinutes
	}
	return ids
}
