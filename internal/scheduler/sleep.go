package scheduler

import (
	"time"

	"github.com/javiermolinar/dayflow/internal/schedule"
)

// SleepWindow is the blocked range around one night's sleep.
// BufferStart <= Bedtime < WakeTime; WakeTime is usually on the next day.
type SleepWindow struct {
	BufferStart time.Time
	Bedtime     time.Time
	WakeTime    time.Time
}

// SleepProvider returns the sleep window that begins on date, if any.
// A provider with no schedule returns false and nothing is blocked.
type SleepProvider interface {
	SleepWindow(date time.Time) (SleepWindow, bool)
}

// FixedSleep is a SleepProvider with the same bedtime and wake time every night.
type FixedSleep struct {
	BedtimeMinute int // minutes since midnight
	WakeMinute    int // minutes since midnight, on the following day when <= BedtimeMinute
	BufferMinutes int // wind-down before bedtime that is also blocked
}

// SleepWindow implements SleepProvider.
func (f FixedSleep) SleepWindow(date time.Time) (SleepWindow, bool) {
	bedtime := schedule.At(date, f.BedtimeMinute)
	wake := schedule.At(date, f.WakeMinute)
	if !wake.After(bedtime) {
		wake = wake.AddDate(0, 0, 1)
	}
	return SleepWindow{
		BufferStart: bedtime.Add(-time.Duration(f.BufferMinutes) * time.Minute),
		Bedtime:     bedtime,
		WakeTime:    wake,
	}, true
}

// sleepWindows returns the windows that may cover t: the one starting the
// previous night and the one starting on t's own day.
func (s *Scheduler) sleepWindows(t time.Time) []SleepWindow {
	if s.sleep == nil {
		return nil
	}
	day := schedule.StartOfDay(t)
	var windows []SleepWindow
	for _, d := range []time.Time{day.AddDate(0, 0, -1), day} {
		if w, ok := s.sleep.SleepWindow(d); ok {
			windows = append(windows, w)
		}
	}
	return windows
}

// blockedUntil reports whether t falls inside a sleep window and, if so,
// the wake time that ends it.
func (s *Scheduler) blockedUntil(t time.Time) (time.Time, bool) {
	for _, w := range s.sleepWindows(t) {
		if !t.Before(w.BufferStart) && t.Before(w.WakeTime) {
			return w.WakeTime, true
		}
	}
	return time.Time{}, false
}
