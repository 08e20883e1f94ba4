package schedule

import (
	"fmt"
	"slices"
	"time"
)

// Day boundaries, in minutes since midnight.
const (
	DefaultDayStartMinute     = 6 * 60  // nothing is placed before 06:00
	DefaultEveningStartMinute = 20 * 60 // wind-down begins
	DefaultEveningEndMinute   = 23 * 60
	MinutesPerDay             = 24 * 60
)

// Bounds describes the usable part of a day.
type Bounds struct {
	DayStartMinute     int
	EveningStartMinute int
	EveningEndMinute   int
}

// DefaultBounds returns the built-in day boundaries.
func DefaultBounds() Bounds {
	return Bounds{
		DayStartMinute:     DefaultDayStartMinute,
		EveningStartMinute: DefaultEveningStartMinute,
		EveningEndMinute:   DefaultEveningEndMinute,
	}
}

// DayStart returns the earliest placement time on date.
func (b Bounds) DayStart(date time.Time) time.Time {
	return At(date, b.DayStartMinute)
}

// EveningStart returns the start of the protected evening on date.
func (b Bounds) EveningStart(date time.Time) time.Time {
	return At(date, b.EveningStartMinute)
}

// Evening returns the evening window of date.
func (b Bounds) Evening(date time.Time) Window {
	return Window{Start: At(date, b.EveningStartMinute), End: At(date, b.EveningEndMinute)}
}

// Window is a half-open time interval.
type Window struct {
	Start time.Time
	End   time.Time
}

// Minutes returns the length of the window.
func (w Window) Minutes() int {
	if !w.End.After(w.Start) {
		return 0
	}
	return int(w.End.Sub(w.Start) / time.Minute)
}

// Contains returns true if t is inside [Start, End).
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// OverlapMinutes returns how many minutes of [start, end) fall inside the window.
func (w Window) OverlapMinutes(start, end time.Time) int {
	s := later(start, w.Start)
	e := earlier(end, w.End)
	if !e.After(s) {
		return 0
	}
	return int(e.Sub(s) / time.Minute)
}

// Slot is a free interval.
type Slot struct {
	Start   time.Time
	Minutes int
}

// End returns the end of the slot.
func (s Slot) End() time.Time {
	return s.Start.Add(time.Duration(s.Minutes) * time.Minute)
}

// Overlaps returns true if the slot shares time with [start, end).
func (s Slot) Overlaps(start, end time.Time) bool {
	return Overlaps(s.Start, s.End(), start, end)
}

// Overlaps returns true if [s1, e1) and [s2, e2) overlap.
// Two ranges overlap if: s1 < e2 AND s2 < e1
func Overlaps(s1, e1, s2, e2 time.Time) bool {
	return s1.Before(e2) && s2.Before(e1)
}

// FreeSlots returns the free intervals of date between from and until.
// Completed items are not obstacles.
func FreeSlots(date time.Time, items []*Item, from, until time.Time) []Slot {
	var busy []Window
	for _, it := range items {
		if it.IsCompleted || !it.IsOn(date) {
			continue
		}
		busy = append(busy, Window{Start: it.StartTime, End: it.EndTime()})
	}
	return FreeWindows(busy, from, until)
}

// FreeWindows returns the gaps between busy windows inside [from, until).
func FreeWindows(busy []Window, from, until time.Time) []Slot {
	if !until.After(from) {
		return nil
	}

	var inRange []Window
	for _, w := range busy {
		if Overlaps(w.Start, w.End, from, until) {
			inRange = append(inRange, w)
		}
	}
	slices.SortFunc(inRange, func(a, b Window) int { return a.Start.Compare(b.Start) })

	var slots []Slot
	cursor := from
	for _, w := range inRange {
		if w.Start.After(cursor) {
			slots = append(slots, slotBetween(cursor, earlier(w.Start, until)))
		}
		cursor = later(cursor, w.End)
		if !cursor.Before(until) {
			return slots
		}
	}
	if cursor.Before(until) {
		slots = append(slots, slotBetween(cursor, until))
	}
	return slots
}

// TotalMinutes sums the slot lengths.
func TotalMinutes(slots []Slot) int {
	total := 0
	for _, s := range slots {
		total += s.Minutes
	}
	return total
}

func slotBetween(start, end time.Time) Slot {
	return Slot{Start: start, Minutes: int(end.Sub(start) / time.Minute)}
}

// ItemsOn returns the items whose day bucket is date, in input order.
func ItemsOn(items []*Item, date time.Time) []*Item {
	var result []*Item
	for _, it := range items {
		if it.IsOn(date) {
			result = append(result, it)
		}
	}
	return result
}

// StartOfDay removes the time component from t.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// SameDay returns true if a and b fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// At returns date at the given minute of the day.
func At(date time.Time, minuteOfDay int) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, minuteOfDay/60, minuteOfDay%60, 0, 0, date.Location())
}

// MinuteOfDay returns minutes since midnight.
func MinuteOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// ParseClock converts "HH:MM" to minutes since midnight.
func ParseClock(s string) (int, error) {
	if len(s) != 5 || s[2] != ':' {
		return 0, ErrInvalidTimeFormat
	}
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, ErrInvalidTimeFormat
	}
	return t.Hour()*60 + t.Minute(), nil
}

// FormatClock converts minutes since midnight to "HH:MM".
func FormatClock(m int) string {
	if m < 0 {
		m = 0
	}
	if m >= MinutesPerDay {
		m = MinutesPerDay - 1
	}
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

func later(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func earlier(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}
