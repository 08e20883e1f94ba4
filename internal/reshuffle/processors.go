package reshuffle

import (
	"cmp"
	"slices"
	"time"

	"github.com/javiermolinar/dayflow/internal/schedule"
	"github.com/javiermolinar/dayflow/internal/scheduler"
)

const (
	// nearbyWindow is how far from its original start a flexible item may
	// move before the search falls back to the first free slot of the day.
	nearbyWindow = 2 * time.Hour

	// fallbackMinute is where next-day placements go when the day has no free slot.
	fallbackMinute = 9 * 60
)

// pass carries what the processors need for one analysis.
type pass struct {
	ctx      *Context
	overflow OverflowAnalysis
	sched    *scheduler.Scheduler
}

// process routes an item to the rules of its category.
func (p pass) process(it *schedule.Item, claimed Ledger) (Change, Ledger) {
	switch it.Category {
	case schedule.CategoryNonNegotiable:
		return p.nonNegotiable(it, claimed), claimed
	case schedule.CategoryIdentityHabit:
		return p.identityHabit(it, claimed)
	case schedule.CategoryFlexibleTask:
		return p.flexibleTask(it, claimed)
	default:
		return p.optionalGoal(it, claimed)
	}
}

// nonNegotiable never moves on its own. Overlaps are handed to the user.
func (p pass) nonNegotiable(it *schedule.Item, claimed Ledger) Change {
	if len(p.ctx.Overlapping(it)) == 0 {
		return newChange(it, Protected(), reasonKept)
	}

	next := DecisionOption{Kind: OptionMoveToNextSlot, Label: "Move to the next free slot"}
	if start, ok := p.sched.FindNextAvailableSlot(p.query(it, it.EndTime(), it.DurationMinutes, claimed)); ok {
		next.Start = start
		next.Label += " at " + start.Format("15:04")
	}
	return newChange(it, RequiresUserDecision(
		DecisionOption{Kind: OptionKeepAndAdjustOther, Label: "Keep this and adjust the other"},
		next,
		p.tomorrowOption(it),
	), reasonFixedOverlap)
}

// identityHabit compresses by fair share, relocates within constraints, and
// otherwise stays. It is never deferred or pooled.
func (p pass) identityHabit(it *schedule.Item, claimed Ledger) (Change, Ledger) {
	if !p.ctx.HasOverflow() {
		return newChange(it, Protected(), reasonKept), claimed
	}

	if it.IsCompressible() && !p.ctx.IsEveningItem(it) {
		needed := p.compressionNeeded(it)
		if needed == 0 {
			return newChange(it, Protected(), reasonRoomAlreadyMade), claimed
		}
		minutes := max(it.MinimumDurationMinutes, it.DurationMinutes-needed)

		if it.IsWeekly() {
			start, ok := p.sched.FindSlotInRecurrenceWeek(it, minutes, p.ctx.Date, p.ctx.Now, p.ctx.AllItems, claimed.Slots())
			if ok {
				return newChange(it, MovedAndResized(start, minutes), reasonHabitWeekMove), claimed.Claim(start, minutes)
			}
		}
		return newChange(it, Resized(minutes), reasonHabitShortened), claimed
	}

	if len(p.ctx.Conflicts(it)) == 0 {
		return newChange(it, Protected(), reasonKept), claimed
	}
	for _, from := range []time.Time{it.StartTime, p.dayStart()} {
		if start, ok := p.slotToday(it, from, it.DurationMinutes, claimed); ok {
			if start.Equal(it.StartTime) {
				return newChange(it, Protected(), reasonKept), claimed
			}
			return newChange(it, Moved(start), reasonHabitNewSlot), claimed.Claim(start, it.DurationMinutes)
		}
	}
	return newChange(it, Protected(), reasonHabitNoRoom), claimed
}

// compressionNeeded returns the habit's fair share of the deficit left after
// optional goals, rounded up.
func (p pass) compressionNeeded(it *schedule.Item) int {
	total := p.ctx.MaxCompressionMinutes
	if total == 0 {
		return 0
	}
	excess := max(0, p.overflow.OverflowMinutes-p.ctx.OptionalGoalMinutes)
	own := it.CompressibleMinutes()
	return (own*excess + total - 1) / total
}

func (p pass) flexibleTask(it *schedule.Item, claimed Ledger) (Change, Ledger) {
	conflicts := p.ctx.Conflicts(it)
	if !p.ctx.HasOverflow() && len(conflicts) == 0 {
		return newChange(it, Protected(), reasonKept), claimed
	}

	if p.overflow.Defers(it.ID) {
		start := schedule.At(p.ctx.Tomorrow(), schedule.MinuteOfDay(it.StartTime))
		return newChange(it, Deferred(start), reasonFlexibleTomorrow), claimed.Claim(start, it.DurationMinutes)
	}

	if len(conflicts) == 0 {
		return newChange(it, Protected(), reasonKept), claimed
	}
	return p.relocate(it, claimed)
}

func (p pass) optionalGoal(it *schedule.Item, claimed Ledger) (Change, Ledger) {
	if p.ctx.HasOverflow() && !p.ctx.IsEveningItem(it) && p.optionalDeficit(it) > 0 {
		start := p.slotTomorrow(it, it.DurationMinutes, claimed)
		return newChange(it, Deferred(start), reasonOptionalTomorrow), claimed.Claim(start, it.DurationMinutes)
	}

	if len(p.ctx.Conflicts(it)) > 0 {
		return p.relocate(it, claimed)
	}
	return newChange(it, Protected(), reasonKept), claimed
}

// optionalDeficit returns the overflow still open once the optional goals
// that start before it have been deferred.
func (p pass) optionalDeficit(it *schedule.Item) int {
	goals := slices.Clone(p.ctx.OptionalGoals)
	slices.SortStableFunc(goals, func(a, b *schedule.Item) int {
		return cmp.Compare(a.StartTime.UnixNano(), b.StartTime.UnixNano())
	})

	deficit := p.overflow.OverflowMinutes
	for _, g := range goals {
		if g == it {
			break
		}
		deficit -= g.DurationMinutes
	}
	return deficit
}

// relocate moves a movable item to a free slot near its original start, then
// to the first free slot of the day, and pools it when neither exists.
func (p pass) relocate(it *schedule.Item, claimed Ledger) (Change, Ledger) {
	place := func(start time.Time, reason string) (Change, Ledger) {
		if start.Equal(it.StartTime) {
			return newChange(it, Protected(), reasonKept), claimed
		}
		return newChange(it, Moved(start), reason), claimed.Claim(start, it.DurationMinutes)
	}

	from := it.StartTime.Add(-nearbyWindow)
	if !schedule.SameDay(from, p.ctx.Date) {
		from = p.dayStart()
	}
	if start, ok := p.slotToday(it, from, it.DurationMinutes, claimed); ok && absDuration(start.Sub(it.StartTime)) <= nearbyWindow {
		return place(start, reasonFlexibleNearby)
	}
	if start, ok := p.slotToday(it, p.dayStart(), it.DurationMinutes, claimed); ok {
		return place(start, reasonFlexibleFirst)
	}
	return newChange(it, Pooled(), reasonPooled), claimed
}

func (p pass) dayStart() time.Time {
	return p.ctx.Bounds.DayStart(p.ctx.Date)
}

func (p pass) query(it *schedule.Item, from time.Time, minutes int, claimed Ledger) scheduler.Query {
	return scheduler.Query{
		From:    from,
		Minutes: minutes,
		Now:     p.ctx.Now,
		Items:   p.ctx.AllItems,
		Exclude: it.ID,
		Avoid:   claimed.Slots(),
	}
}

// slotToday searches the analyzed day only, never reaching into the evening.
func (p pass) slotToday(it *schedule.Item, from time.Time, minutes int, claimed Ledger) (time.Time, bool) {
	q := p.query(it, from, minutes, claimed)
	q.SameDay = true
	return p.sched.FindNextAvailableSlot(q)
}

// slotTomorrow returns the first free slot of the next day that fits, or a
// sequenced 09:00 placement that steps past what is already claimed.
func (p pass) slotTomorrow(it *schedule.Item, minutes int, claimed Ledger) time.Time {
	tomorrow := p.ctx.Tomorrow()
	dur := time.Duration(minutes) * time.Minute
	for _, slot := range p.ctx.SlotsFor(tomorrow) {
		if slot.Minutes < minutes {
			continue
		}
		q := p.query(it, slot.Start, minutes, claimed)
		q.SameDay = true
		if start, ok := p.sched.FindNextAvailableSlot(q); ok && !start.Add(dur).After(slot.End()) {
			return start
		}
	}
	return claimed.stepPast(schedule.At(tomorrow, fallbackMinute), minutes)
}

func (p pass) tomorrowOption(it *schedule.Item) DecisionOption {
	return DecisionOption{
		Kind:  OptionDeferToTomorrow,
		Label: "Move to tomorrow",
		Start: schedule.At(p.ctx.Tomorrow(), schedule.MinuteOfDay(it.StartTime)),
	}
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
