// Package conflict suggests how to settle overlaps between a newly created
// or edited item and the items it collides with.
package conflict

import (
	"log/slog"
	"time"

	"github.com/javiermolinar/dayflow/internal/schedule"
	"github.com/javiermolinar/dayflow/internal/scheduler"
)

// candidateCount is how many alternative slots each suggestion offers.
const candidateCount = 3

// SuggestionKind says which side of a conflict should give way.
type SuggestionKind string

const (
	MoveConflicting SuggestionKind = "move_conflicting"
	MoveNew         SuggestionKind = "move_new"
	UserDecision    SuggestionKind = "user_decision"
)

// Suggestion carries the ranked candidate start times for each side.
type Suggestion struct {
	Kind             SuggestionKind
	ConflictingSlots []time.Time
	NewSlots         []time.Time

	// CompressTo is set when a daily habit cannot move and could shrink to
	// this many minutes instead. 0 means only keeping both is offered.
	CompressTo int
	CompressID string
}

// Resolution is the suggestion for one conflicting item.
type Resolution struct {
	Conflicting *schedule.Item
	New         *schedule.Item
	Suggestion  Suggestion
	Reason      string

	// NeedsDecision is true whenever the user must confirm, including when a
	// non-negotiable new item pushes the other item away.
	NeedsDecision bool
}

// Resolver builds resolutions using a slot finder.
type Resolver struct {
	sched  *scheduler.Scheduler
	logger *slog.Logger
}

// NewResolver creates a Resolver. A nil logger discards output.
func NewResolver(s *scheduler.Scheduler, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Resolver{sched: s, logger: logger}
}

// SuggestResolution returns one resolution per conflicting item. Relocations
// suggested earlier in the call are avoided by later ones.
func (r *Resolver) SuggestResolution(newItem *schedule.Item, conflicting, all []*schedule.Item, now time.Time) []Resolution {
	obstacles := withItem(all, newItem)
	var assigned []schedule.Slot

	var out []Resolution
	for _, c := range conflicting {
		if c == nil || c.ID == newItem.ID {
			continue
		}
		res := r.resolve(newItem, c, obstacles, assigned, now)
		if start, minutes, ok := claimedBy(res); ok {
			assigned = append(assigned, schedule.Slot{Start: start, Minutes: minutes})
		}
		r.logger.Debug("conflict resolution",
			"new", newItem.ID,
			"conflicting", c.ID,
			"suggestion", string(res.Suggestion.Kind),
		)
		out = append(out, res)
	}
	return out
}

func (r *Resolver) resolve(newItem, c *schedule.Item, obstacles []*schedule.Item, assigned []schedule.Slot, now time.Time) Resolution {
	res := Resolution{Conflicting: c, New: newItem}

	switch {
	case newItem.Category == schedule.CategoryNonNegotiable && c.Category == schedule.CategoryNonNegotiable:
		return r.decideBoth(res, obstacles, assigned, now, reasonBothFixed)
	case newItem.Category == schedule.CategoryNonNegotiable:
		res.NeedsDecision = true
		return r.move(res, c, MoveConflicting, obstacles, assigned, now, reasonNewFixed)
	case newItem.Category.Priority() < c.Category.Priority():
		return r.move(res, c, MoveConflicting, obstacles, assigned, now, reasonNewStronger)
	case newItem.Category.Priority() > c.Category.Priority():
		return r.move(res, newItem, MoveNew, obstacles, assigned, now, reasonNewWeaker)
	default:
		return r.decideBoth(res, obstacles, assigned, now, reasonEqual)
	}
}

// move suggests relocating mover, with special rules for recurring habits.
func (r *Resolver) move(res Resolution, mover *schedule.Item, kind SuggestionKind, obstacles []*schedule.Item, assigned []schedule.Slot, now time.Time, reason string) Resolution {
	if isDailyHabit(mover) {
		res.Suggestion = Suggestion{Kind: UserDecision}
		if mover.IsCompressible() {
			res.Suggestion.CompressTo = mover.MinimumDurationMinutes
			res.Suggestion.CompressID = mover.ID
		}
		res.Reason = reasonDailyHabit
		res.NeedsDecision = true
		return res
	}

	var slots []time.Time
	if mover.Category == schedule.CategoryIdentityHabit && mover.IsWeekly() {
		start, ok := r.sched.FindSlotInRecurrenceWeek(mover, mover.DurationMinutes, mover.ScheduledDate, now, obstacles, assigned)
		if !ok {
			return r.decideBoth(res, obstacles, assigned, now, reasonWeeklyNoRoom)
		}
		slots = []time.Time{start}
		reason = reasonWeeklyHabit
	} else {
		slots = r.candidates(mover, obstacles, assigned, now)
	}

	res.Suggestion = Suggestion{Kind: kind}
	if kind == MoveConflicting {
		res.Suggestion.ConflictingSlots = slots
	} else {
		res.Suggestion.NewSlots = slots
	}
	res.Reason = reason
	return res
}

func (r *Resolver) decideBoth(res Resolution, obstacles []*schedule.Item, assigned []schedule.Slot, now time.Time, reason string) Resolution {
	res.Suggestion = Suggestion{Kind: UserDecision}
	daily := 0
	for _, side := range []*schedule.Item{res.Conflicting, res.New} {
		if !isDailyHabit(side) {
			continue
		}
		// A daily habit is never relocated; offer its floor instead.
		if side.IsCompressible() && res.Suggestion.CompressTo == 0 {
			res.Suggestion.CompressTo = side.MinimumDurationMinutes
			res.Suggestion.CompressID = side.ID
		}
		daily++
	}
	switch daily {
	case 1:
		reason = reasonDailyHabitOther
	case 2:
		reason = reasonDailyHabit
	}

	if !isDailyHabit(res.Conflicting) {
		res.Suggestion.ConflictingSlots = r.candidates(res.Conflicting, obstacles, assigned, now)
	}
	if !isDailyHabit(res.New) {
		res.Suggestion.NewSlots = r.candidates(res.New, obstacles, assigned, now)
	}
	res.Reason = reason
	res.NeedsDecision = true
	return res
}

func isDailyHabit(it *schedule.Item) bool {
	return it.Category == schedule.CategoryIdentityHabit && it.IsDaily()
}

func (r *Resolver) candidates(it *schedule.Item, obstacles []*schedule.Item, assigned []schedule.Slot, now time.Time) []time.Time {
	return r.sched.FindMultipleSlots(scheduler.Query{
		From:    it.StartTime,
		Minutes: it.DurationMinutes,
		Now:     now,
		Items:   obstacles,
		Exclude: it.ID,
		Avoid:   assigned,
	}, candidateCount)
}

// claimedBy returns the interval a resolution proposes to occupy, if it
// proposes a single relocation.
func claimedBy(res Resolution) (time.Time, int, bool) {
	switch res.Suggestion.Kind {
	case MoveConflicting:
		if len(res.Suggestion.ConflictingSlots) > 0 {
			return res.Suggestion.ConflictingSlots[0], res.Conflicting.DurationMinutes, true
		}
	case MoveNew:
		if len(res.Suggestion.NewSlots) > 0 {
			return res.Suggestion.NewSlots[0], res.New.DurationMinutes, true
		}
	}
	return time.Time{}, 0, false
}

// withItem returns items plus it, unless it is already present.
func withItem(items []*schedule.Item, it *schedule.Item) []*schedule.Item {
	for _, existing := range items {
		if existing.ID == it.ID {
			return items
		}
	}
	out := make([]*schedule.Item, 0, len(items)+1)
	out = append(out, items...)
	return append(out, it)
}

// FindConflicts returns the incomplete items that overlap it, excluding it itself.
func FindConflicts(it *schedule.Item, items []*schedule.Item) []*schedule.Item {
	var out []*schedule.Item
	for _, other := range items {
		if other.ID == it.ID || other.IsCompleted {
			continue
		}
		if it.Overlaps(other) {
			out = append(out, other)
		}
	}
	return out
}
