// Package scheduler provides time-aware slot search for schedule items.
package scheduler

import (
	"log/slog"
	"time"

	"github.com/javiermolinar/dayflow/internal/schedule"
)

const (
	// DefaultLookaheadDays bounds how far a slot search may roll over.
	DefaultLookaheadDays = 7

	// maxIterations bounds the conflict-jump loop within a single day.
	maxIterations = 100

	// roundingMinutes is the granularity used when a search is clamped to now.
	roundingMinutes = 5
)

// Scheduler finds free time for items.
type Scheduler struct {
	bounds        schedule.Bounds
	sleep         SleepProvider
	lookaheadDays int
	logger        *slog.Logger
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithSleep sets the sleep-window provider. A nil provider disables sleep blocking.
func WithSleep(p SleepProvider) Option {
	return func(s *Scheduler) { s.sleep = p }
}

// WithLookahead sets how many days past the first one a search may visit.
func WithLookahead(days int) Option {
	return func(s *Scheduler) {
		if days >= 0 {
			s.lookaheadDays = days
		}
	}
}

// WithLogger sets the logger used for search diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(s *Scheduler) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates a new Scheduler with the given day bounds.
func New(bounds schedule.Bounds, opts ...Option) *Scheduler {
	s := &Scheduler{
		bounds:        bounds,
		lookaheadDays: DefaultLookaheadDays,
		logger:        slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Bounds returns the configured day bounds.
func (s *Scheduler) Bounds() schedule.Bounds {
	return s.bounds
}

// Query describes a slot search.
type Query struct {
	From    time.Time // preferred earliest start
	Minutes int
	Now     time.Time
	Items   []*schedule.Item // obstacles
	Exclude string           // item ID that is not an obstacle (the one being moved)
	Avoid   []schedule.Slot  // already claimed intervals

	// AllowEvening lets a slot run into the evening window. Automatic
	// placements leave it false so the evening is never used without consent.
	AllowEvening bool

	// SameDay restricts the search to From's day.
	SameDay bool
}

// FindNextAvailableSlot returns the earliest start at or after q.From where
// q.Minutes fit without touching an obstacle. The search never returns a time
// before q.Now, starts no earlier than the configured day start, skips sleep
// windows and rolls over at most lookaheadDays days.
func (s *Scheduler) FindNextAvailableSlot(q Query) (time.Time, bool) {
	if q.Minutes <= 0 {
		return time.Time{}, false
	}

	from := q.From
	if !q.Now.IsZero() && from.Before(q.Now) {
		from = roundUp(q.Now)
	}
	firstDay := schedule.StartOfDay(from)

	for d := 0; d <= s.lookaheadDays; d++ {
		day := firstDay.AddDate(0, 0, d)

		candidate := s.bounds.DayStart(day)
		if d == 0 && from.After(candidate) {
			candidate = from
		}
		if !q.Now.IsZero() && candidate.Before(q.Now) {
			candidate = roundUp(q.Now)
		}

		if start, ok := s.searchDay(q, candidate, s.dayLimit(day, q.AllowEvening)); ok {
			return start, true
		}
		if q.SameDay {
			break
		}
	}

	s.logger.Debug("slot search exhausted",
		"from", q.From.Format(time.RFC3339),
		"minutes", q.Minutes,
		"lookahead_days", s.lookaheadDays,
	)
	return time.Time{}, false
}

// searchDay walks forward from candidate, jumping to the latest end among the
// obstacles it hits, until the slot is free or it no longer fits before limit.
func (s *Scheduler) searchDay(q Query, candidate, limit time.Time) (time.Time, bool) {
	dur := time.Duration(q.Minutes) * time.Minute

	for range maxIterations {
		if wake, blocked := s.blockedUntil(candidate); blocked {
			candidate = wake
		}

		end := candidate.Add(dur)
		if end.After(limit) {
			return time.Time{}, false
		}

		latest, conflict := s.latestConflictEnd(q, candidate, end)
		if !conflict {
			if !q.Now.IsZero() && candidate.Before(q.Now) {
				candidate = roundUp(q.Now)
				continue
			}
			return candidate, true
		}
		candidate = latest
	}

	s.logger.Debug("slot search hit iteration cap", "day", candidate.Format("2006-01-02"))
	return time.Time{}, false
}

// latestConflictEnd returns the latest end time among everything that
// overlaps [start, end).
func (s *Scheduler) latestConflictEnd(q Query, start, end time.Time) (time.Time, bool) {
	var latest time.Time
	found := false
	bump := func(t time.Time) {
		if !found || t.After(latest) {
			latest = t
		}
		found = true
	}

	for _, it := range q.Items {
		if it.IsCompleted || it.ID == q.Exclude {
			continue
		}
		if !q.Now.IsZero() && !it.EndTime().After(q.Now) {
			continue
		}
		if schedule.Overlaps(start, end, it.StartTime, it.EndTime()) {
			bump(it.EndTime())
		}
	}
	for _, slot := range q.Avoid {
		if slot.Overlaps(start, end) {
			bump(slot.End())
		}
	}
	for _, w := range s.sleepWindows(start) {
		if schedule.Overlaps(start, end, w.BufferStart, w.WakeTime) {
			bump(w.WakeTime)
		}
	}
	return latest, found
}

// dayLimit returns the time by which a slot on day must end.
func (s *Scheduler) dayLimit(day time.Time, allowEvening bool) time.Time {
	if allowEvening {
		return schedule.StartOfDay(day).AddDate(0, 0, 1)
	}
	return s.bounds.EveningStart(day)
}

// FindMultipleSlots returns up to n ranked start times for q. Only the first
// result may land on a different day than the search start; later results
// must stay on that day or the list ends. A search from before q.Now starts
// on now's day.
func (s *Scheduler) FindMultipleSlots(q Query, n int) []time.Time {
	var result []time.Time
	avoid := append([]schedule.Slot(nil), q.Avoid...)

	anchor := q.From
	if !q.Now.IsZero() && anchor.Before(q.Now) {
		anchor = q.Now
	}

	for len(result) < n {
		next := q
		next.Avoid = avoid
		start, ok := s.FindNextAvailableSlot(next)
		if !ok {
			break
		}
		if len(result) > 0 && !schedule.SameDay(start, anchor) {
			break
		}
		result = append(result, start)
		avoid = append(avoid, schedule.Slot{Start: start, Minutes: q.Minutes})
	}
	return result
}

// roundUp rounds t up to the next rounding boundary.
func roundUp(t time.Time) time.Time {
	t = t.Truncate(time.Second)
	if t.Second() == 0 && t.Minute()%roundingMinutes == 0 {
		return t
	}
	t = t.Truncate(time.Minute)
	return t.Add(time.Duration(roundingMinutes-t.Minute()%roundingMinutes) * time.Minute)
}
