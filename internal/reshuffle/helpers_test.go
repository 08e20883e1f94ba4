package reshuffle

import (
	"time"

	"github.com/javiermolinar/dayflow/internal/schedule"
)

// Monday 2025-01-06.
func at(h, m int) time.Time {
	return time.Date(2025, time.January, 6, h, m, 0, 0, time.UTC)
}

func onDay(day, h, m int) time.Time {
	return time.Date(2025, time.January, day, h, m, 0, 0, time.UTC)
}

func newItem(id string, cat schedule.Category, start time.Time, minutes int) *schedule.Item {
	return &schedule.Item{
		ID:              id,
		Title:           id,
		Category:        cat,
		StartTime:       start,
		DurationMinutes: minutes,
		ScheduledDate:   schedule.StartOfDay(start),
	}
}

func fixed(id string, start time.Time, minutes int) *schedule.Item {
	return newItem(id, schedule.CategoryNonNegotiable, start, minutes)
}

func habit(id string, start time.Time, minutes, minimum int) *schedule.Item {
	it := newItem(id, schedule.CategoryIdentityHabit, start, minutes)
	it.MinimumDurationMinutes = minimum
	return it
}

func flexible(id string, start time.Time, minutes int) *schedule.Item {
	return newItem(id, schedule.CategoryFlexibleTask, start, minutes)
}

func optional(id string, start time.Time, minutes int) *schedule.Item {
	return newItem(id, schedule.CategoryOptionalGoal, start, minutes)
}

func gentle(it *schedule.Item) *schedule.Item {
	it.IsGentle = true
	return it
}

func done(it *schedule.Item) *schedule.Item {
	it.IsCompleted = true
	return it
}

func itemIDs(items []*schedule.Item) []string {
	var out []string
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}
