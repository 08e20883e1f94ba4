package scheduler

import (
	"time"

	"github.com/javiermolinar/dayflow/internal/dateutil"
	"github.com/javiermolinar/dayflow/internal/schedule"
)

// RecurrenceWeekDays returns the days after date, within the same Monday-Sunday
// week, where a weekly item could be relocated: days whose weekday is not in
// the recurrence set and that do not already host the series.
func RecurrenceWeekDays(it *schedule.Item, date time.Time, items []*schedule.Item) []time.Time {
	_, sunday := dateutil.WeekRange(date)
	day := schedule.StartOfDay(date)

	var days []time.Time
	for offset := 1; offset <= 6; offset++ {
		candidate := day.AddDate(0, 0, offset)
		if candidate.After(sunday) {
			break
		}
		if it.HasWeekday(candidate.Weekday()) {
			continue
		}
		if schedule.HostsSeries(items, it.SeriesID(), candidate) {
			continue
		}
		days = append(days, candidate)
	}
	return days
}

// FindSlotInRecurrenceWeek looks for room for a weekly item on another day of
// its recurrence week, preferring the item's usual clock time.
func (s *Scheduler) FindSlotInRecurrenceWeek(it *schedule.Item, minutes int, date, now time.Time, items []*schedule.Item, avoid []schedule.Slot) (time.Time, bool) {
	clock := schedule.MinuteOfDay(it.StartTime)
	for _, day := range RecurrenceWeekDays(it, date, items) {
		for _, from := range []time.Time{schedule.At(day, clock), s.bounds.DayStart(day)} {
			start, ok := s.FindNextAvailableSlot(Query{
				From:    from,
				Minutes: minutes,
				Now:     now,
				Items:   items,
				Exclude: it.ID,
				Avoid:   avoid,
				SameDay: true,
			})
			if ok {
				return start, true
			}
		}
	}
	return time.Time{}, false
}
