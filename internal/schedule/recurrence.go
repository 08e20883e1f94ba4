package schedule

import (
	"strings"
	"time"
)

var weekdayNames = map[string]time.Weekday{
	"sun": time.Sunday, "sunday": time.Sunday,
	"mon": time.Monday, "monday": time.Monday,
	"tue": time.Tuesday, "tuesday": time.Tuesday,
	"wed": time.Wednesday, "wednesday": time.Wednesday,
	"thu": time.Thursday, "thursday": time.Thursday,
	"fri": time.Friday, "friday": time.Friday,
	"sat": time.Saturday, "saturday": time.Saturday,
}

// ParseWeekdays parses a comma-separated weekday list such as "mon,wed,fri".
func ParseWeekdays(s string) ([]time.Weekday, error) {
	var days []time.Weekday
	seen := make(map[time.Weekday]bool)
	for _, part := range strings.Split(s, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part == "" {
			continue
		}
		d, ok := weekdayNames[part]
		if !ok {
			return nil, ErrInvalidFrequency
		}
		if !seen[d] {
			seen[d] = true
			days = append(days, d)
		}
	}
	return days, nil
}

// ExpandRecurrence generates the instances of a recurring template between
// from and to (inclusive). The template's own day is not repeated.
// Instances share title, category, duration and flags with the template but
// get their own IDs, start times and completion state.
func ExpandRecurrence(template *Item, from, to time.Time) []*Item {
	if !template.IsRecurring {
		return nil
	}

	clock := MinuteOfDay(template.StartTime)
	var instances []*Item
	for day := StartOfDay(from); !day.After(StartOfDay(to)); day = day.AddDate(0, 0, 1) {
		if SameDay(day, template.ScheduledDate) || !template.RecursOn(day) {
			continue
		}
		inst := template.Clone()
		inst.ID = NewID()
		inst.ParentID = template.SeriesID()
		inst.StartTime = At(day, clock)
		inst.ScheduledDate = day
		inst.IsCompleted = false
		instances = append(instances, inst)
	}
	return instances
}

// HostsSeries returns true if items already contain an instance of the
// series on date.
func HostsSeries(items []*Item, seriesID string, date time.Time) bool {
	for _, it := range items {
		if it.SeriesID() == seriesID && it.IsOn(date) {
			return true
		}
	}
	return false
}
