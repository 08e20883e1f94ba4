package reshuffle

import (
	"github.com/javiermolinar/dayflow/internal/schedule"
)

// fixMyDay handles an item on today whose start time has already gone by.
// Every placement it makes is claimed in the returned ledger.
func (p pass) fixMyDay(it *schedule.Item, claimed Ledger) (Change, Ledger) {
	now := p.ctx.Now

	switch it.Category {
	case schedule.CategoryNonNegotiable:
		return newChange(it, RequiresUserDecision(
			DecisionOption{Kind: OptionMarkDone, Label: "Mark as done"},
			p.tomorrowOption(it),
		), reasonFixedPassed), claimed

	case schedule.CategoryIdentityHabit:
		if start, ok := p.slotToday(it, now, it.DurationMinutes, claimed); ok {
			return newChange(it, Moved(start), reasonFreshSlot), claimed.Claim(start, it.DurationMinutes)
		}
		if it.IsCompressible() {
			minutes := it.MinimumDurationMinutes
			if start, ok := p.slotToday(it, now, minutes, claimed); ok {
				return newChange(it, MovedAndResized(start, minutes), reasonFreshShorter), claimed.Claim(start, minutes)
			}
		}
		if p.coveredTomorrow(it) {
			return newChange(it, Protected(), reasonHabitCovered), claimed
		}
		// A habit keeps its place in the plan: it moves to tomorrow rather
		// than being deferred out of the day.
		start := p.slotTomorrow(it, it.DurationMinutes, claimed)
		return newChange(it, Moved(start), reasonHabitTomorrow), claimed.Claim(start, it.DurationMinutes)

	default:
		if start, ok := p.slotToday(it, now, it.DurationMinutes, claimed); ok {
			return newChange(it, Moved(start), reasonFreshSlot), claimed.Claim(start, it.DurationMinutes)
		}
		start := p.slotTomorrow(it, it.DurationMinutes, claimed)
		return newChange(it, Deferred(start), reasonFreshTomorrow), claimed.Claim(start, it.DurationMinutes)
	}
}

// coveredTomorrow reports whether an instance of the item's series is
// already stored for tomorrow. A recurrence rule alone does not count.
func (p pass) coveredTomorrow(it *schedule.Item) bool {
	return schedule.HostsSeries(p.ctx.AllItems, it.SeriesID(), p.ctx.Tomorrow())
}
