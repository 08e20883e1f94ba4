package reshuffle

import (
	"cmp"
	"slices"
	"time"

	"github.com/javiermolinar/dayflow/internal/schedule"
)

// Context is the per-analysis snapshot of one day. It is built fresh for
// every Analyze call and never mutated afterwards.
type Context struct {
	Now    time.Time
	Date   time.Time
	Bounds schedule.Bounds

	AllItems   []*schedule.Item // every known item, any day
	DayItems   []*schedule.Item // items bucketed on Date, input order
	Incomplete []*schedule.Item // priority order, then input order
	Completed  []*schedule.Item

	// FreeSlots is the time before the evening, from max(now, day start),
	// not taken by completed items. Incomplete items are what must fit into it.
	FreeSlots        []schedule.Slot
	MinutesNeeded    int
	MinutesAvailable int

	CompressibleHabits    []*schedule.Item
	OptionalGoals         []*schedule.Item
	FlexibleTasks         []*schedule.Item
	MaxCompressionMinutes int
	OptionalGoalMinutes   int
	FlexibleTaskMinutes   int
}

// NewContext builds the snapshot for date.
func NewContext(items []*schedule.Item, date, now time.Time, bounds schedule.Bounds) *Context {
	day := schedule.StartOfDay(date)
	c := &Context{
		Now:      now,
		Date:     day,
		Bounds:   bounds,
		AllItems: items,
		DayItems: schedule.ItemsOn(items, day),
	}

	for _, it := range c.DayItems {
		if it.IsCompleted {
			c.Completed = append(c.Completed, it)
		} else {
			c.Incomplete = append(c.Incomplete, it)
		}
	}
	slices.SortStableFunc(c.Incomplete, func(a, b *schedule.Item) int {
		return cmp.Compare(a.Category.Priority(), b.Category.Priority())
	})

	var done []schedule.Window
	for _, it := range c.Completed {
		done = append(done, schedule.Window{Start: it.StartTime, End: it.EndTime()})
	}
	c.FreeSlots = schedule.FreeWindows(done, c.from(day), bounds.EveningStart(day))
	c.MinutesAvailable = schedule.TotalMinutes(c.FreeSlots)

	for _, it := range c.Incomplete {
		if c.IsEveningItem(it) {
			continue
		}
		c.MinutesNeeded += it.DurationMinutes
		switch it.Category {
		case schedule.CategoryIdentityHabit:
			if it.IsCompressible() {
				c.CompressibleHabits = append(c.CompressibleHabits, it)
				c.MaxCompressionMinutes += it.CompressibleMinutes()
			}
		case schedule.CategoryFlexibleTask:
			c.FlexibleTasks = append(c.FlexibleTasks, it)
			c.FlexibleTaskMinutes += it.DurationMinutes
		case schedule.CategoryOptionalGoal:
			c.OptionalGoals = append(c.OptionalGoals, it)
			c.OptionalGoalMinutes += it.DurationMinutes
		}
	}
	return c
}

// HasOverflow reports whether more minutes are needed than are available.
func (c *Context) HasOverflow() bool {
	return c.MinutesNeeded > c.MinutesAvailable
}

// OverflowMinutes returns the deficit, or 0.
func (c *Context) OverflowMinutes() int {
	return max(0, c.MinutesNeeded-c.MinutesAvailable)
}

// IsToday reports whether the analyzed date is the day of Now.
func (c *Context) IsToday() bool {
	return schedule.SameDay(c.Date, c.Now)
}

// Tomorrow returns the day after the analyzed date.
func (c *Context) Tomorrow() time.Time {
	return c.Date.AddDate(0, 0, 1)
}

// Evening returns the evening window of the analyzed date.
func (c *Context) Evening() schedule.Window {
	return c.Bounds.Evening(c.Date)
}

// IsEveningItem reports whether an item belongs to the evening rather than the working day.
func (c *Context) IsEveningItem(it *schedule.Item) bool {
	if it.IsEvening {
		return true
	}
	return !it.StartTime.Before(c.Bounds.EveningStart(c.Date))
}

// IsPast reports whether the item is on today and its start has gone by.
func (c *Context) IsPast(it *schedule.Item) bool {
	return c.IsToday() && it.StartTime.Before(c.Now)
}

// SlotsFor returns the open slots before the evening of an arbitrary date,
// around that date's own incomplete items.
func (c *Context) SlotsFor(date time.Time) []schedule.Slot {
	day := schedule.StartOfDay(date)
	return schedule.FreeSlots(day, c.AllItems, c.from(day), c.Bounds.EveningStart(day))
}

// Conflicts returns the incomplete items that overlap it and come before it
// in processing order.
func (c *Context) Conflicts(it *schedule.Item) []*schedule.Item {
	var result []*schedule.Item
	for _, other := range c.Incomplete {
		if other == it {
			break
		}
		if it.Overlaps(other) {
			result = append(result, other)
		}
	}
	return result
}

// Overlapping returns every other incomplete item that overlaps it.
func (c *Context) Overlapping(it *schedule.Item) []*schedule.Item {
	var result []*schedule.Item
	for _, other := range c.Incomplete {
		if other != it && it.Overlaps(other) {
			result = append(result, other)
		}
	}
	return result
}

// from returns the earliest usable time of day: its start, or now if later.
func (c *Context) from(day time.Time) time.Time {
	start := c.Bounds.DayStart(day)
	if c.Now.After(start) {
		return c.Now
	}
	return start
}
