package reshuffle

import (
	"slices"
	"time"

	"github.com/javiermolinar/dayflow/internal/schedule"
)

// Ledger records the slots already handed out during one analysis so that
// two placements never land on the same time. It is a value: Claim returns
// a new ledger and leaves the receiver untouched.
type Ledger struct {
	slots []schedule.Slot
}

// Claim returns a ledger that also holds [start, start+minutes).
func (l Ledger) Claim(start time.Time, minutes int) Ledger {
	next := make([]schedule.Slot, len(l.slots), len(l.slots)+1)
	copy(next, l.slots)
	return Ledger{slots: append(next, schedule.Slot{Start: start, Minutes: minutes})}
}

// Slots returns a copy of the claimed intervals.
func (l Ledger) Slots() []schedule.Slot {
	return slices.Clone(l.slots)
}

// Len returns the number of claimed intervals.
func (l Ledger) Len() int {
	return len(l.slots)
}

// stepPast returns the first start at or after from that does not overlap a
// claimed interval.
func (l Ledger) stepPast(from time.Time, minutes int) time.Time {
	candidate := from
	dur := time.Duration(minutes) * time.Minute
	for range len(l.slots) + 1 {
		moved := false
		for _, s := range l.slots {
			if s.Overlaps(candidate, candidate.Add(dur)) {
				candidate = s.End()
				moved = true
			}
		}
		if !moved {
			break
		}
	}
	return candidate
}
