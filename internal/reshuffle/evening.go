package reshuffle

import (
	"fmt"
	"math"

	"github.com/javiermolinar/dayflow/internal/schedule"
)

// DefaultMinEveningSlack is the share of the evening that should stay free.
const DefaultMinEveningSlack = 0.5

// highEnergyMinutes is the length from which a non-gentle item counts as demanding.
const highEnergyMinutes = 45

// Recommendation is what the evening analyzer suggests doing with the evening.
type Recommendation string

const (
	RecommendKeepFree        Recommendation = "keep_free"
	RecommendAllowGentleOnly Recommendation = "allow_gentle_only"
	RecommendMakeLighter     Recommendation = "make_lighter"
	RecommendUserAllowed     Recommendation = "user_allowed"
	RecommendPreserveSlack   Recommendation = "preserve_slack"
)

// EveningDecision is the outcome of the evening protection table.
type EveningDecision struct {
	Case            int
	Situation       string
	Recommendation  Recommendation
	RequiresConsent bool
	AffectedIDs     []string

	ScheduledMinutes int
	FreeMinutes      int
	SpillMinutes     int
}

// Affects reports whether the decision names the item.
func (d EveningDecision) Affects(id string) bool {
	for _, a := range d.AffectedIDs {
		if a == id {
			return true
		}
	}
	return false
}

type eveningItems struct {
	all           []*schedule.Item
	nonNegotiable []*schedule.Item
	gentleHabits  []*schedule.Item
	energyHabits  []*schedule.Item
	others        []*schedule.Item
}

func partitionEvening(ctx *Context) eveningItems {
	var e eveningItems
	for _, it := range ctx.Incomplete {
		if !ctx.IsEveningItem(it) {
			continue
		}
		e.all = append(e.all, it)
		switch {
		case it.Category == schedule.CategoryNonNegotiable:
			e.nonNegotiable = append(e.nonNegotiable, it)
		case it.Category == schedule.CategoryIdentityHabit && it.IsGentle:
			e.gentleHabits = append(e.gentleHabits, it)
		case it.Category == schedule.CategoryIdentityHabit:
			e.energyHabits = append(e.energyHabits, it)
		default:
			e.others = append(e.others, it)
		}
	}
	return e
}

func isHighEnergy(it *schedule.Item) bool {
	return !it.IsGentle && it.DurationMinutes >= highEnergyMinutes
}

// AnalyzeEvening applies the evening protection table; the first matching case wins.
// minSlack is the share of the evening that should stay free.
func AnalyzeEvening(ctx *Context, overflow OverflowAnalysis, minSlack float64) EveningDecision {
	window := ctx.Evening()
	e := partitionEvening(ctx)

	scheduled := 0
	for _, it := range e.all {
		if m := window.OverlapMinutes(it.StartTime, it.EndTime()); m > 0 {
			scheduled += m
		} else {
			scheduled += it.DurationMinutes
		}
	}
	free := max(0, window.Minutes()-scheduled)
	spill := overflow.EveningSpillMinutes
	slackFloor := int(math.Ceil(minSlack * float64(window.Minutes())))

	d := EveningDecision{ScheduledMinutes: scheduled, FreeMinutes: free, SpillMinutes: spill}
	decide := func(n int, rec Recommendation, consent bool, situation string, affected []*schedule.Item) EveningDecision {
		d.Case = n
		d.Recommendation = rec
		d.RequiresConsent = consent
		d.Situation = situation
		d.AffectedIDs = ids(affected)
		return d
	}

	switch {
	case len(e.all) == 0 && spill == 0:
		return decide(1, RecommendKeepFree, false, "Evening is free", nil)

	case len(e.nonNegotiable) > 0:
		return decide(2, RecommendUserAllowed, false, "Evening holds a fixed commitment you chose", nil)

	case len(e.all) == 1 && len(e.gentleHabits) == 1 && spill == 0:
		return decide(3, RecommendAllowGentleOnly, false, "Evening holds one gentle habit", nil)

	case len(e.energyHabits) > 0:
		return decide(4, RecommendAllowGentleOnly, true,
			"Evening holds an energizing habit; an earlier time may suit it better", e.energyHabits)

	case spill == 0 && allGentleOrOptional(e.all):
		return decide(5, RecommendAllowGentleOnly, false, "Evening holds only gentle or optional items", nil)
	}

	if demanding := movableHighEnergy(e.others); len(demanding) > 0 {
		return decide(6, RecommendMakeLighter, true,
			"Evening holds demanding work that could move into the day", demanding)
	}

	isDisruption := overflow.Strategy == StrategyFullDayDisruption
	switch {
	case spill > 0:
		return decide(7, RecommendKeepFree, true,
			fmt.Sprintf("About %d min would spill into the evening; keeping it free needs your OK", spill), nil)

	case !isDisruption && free-spill < slackFloor:
		return decide(8, RecommendPreserveSlack, true,
			fmt.Sprintf("Evening free time would drop below %d min", slackFloor), e.others)

	case len(e.all) > 0 && !isDisruption:
		return decide(9, RecommendUserAllowed, false, "Evening items you scheduled yourself", nil)
	}

	if len(e.gentleHabits) > 0 {
		return decide(10, RecommendAllowGentleOnly, false,
			"Day is fully booked; evening kept for one gentle habit", e.gentleHabits[:1])
	}
	return decide(10, RecommendKeepFree, false, "Day is fully booked; evening kept free", nil)
}

func allGentleOrOptional(items []*schedule.Item) bool {
	for _, it := range items {
		if !it.IsGentle && it.Category != schedule.CategoryOptionalGoal {
			return false
		}
	}
	return true
}

func movableHighEnergy(items []*schedule.Item) []*schedule.Item {
	var result []*schedule.Item
	for _, it := range items {
		if it.Category.CanMove() && isHighEnergy(it) {
			result = append(result, it)
		}
	}
	return result
}

func ids(items []*schedule.Item) []string {
	if len(items) == 0 {
		return nil
	}
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}
