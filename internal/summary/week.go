// Package summary provides shared week summary utilities.
package summary

import (
	"context"
	"fmt"
	"time"

	"github.com/javiermolinar/dayflow/internal/dateutil"
	"github.com/javiermolinar/dayflow/internal/schedule"
)

// DayStatus reports whether a day needs attention.
// *reshuffle.Engine satisfies it.
type DayStatus interface {
	HasIssues(items []*schedule.Item, date, now time.Time) bool
	StatusMessage(items []*schedule.Item, date, now time.Time) string
}

// DaySummary holds the aggregated numbers for one day.
type DaySummary struct {
	Date           time.Time
	Items          int
	Completed      int
	PlannedMinutes int
	Status         string
	NeedsAttention bool
}

// WeekSummary holds aggregated week data.
type WeekSummary struct {
	Start time.Time
	End   time.Time
	Days  []DaySummary
}

// PlannedMinutes sums the planned time of every day.
func (w *WeekSummary) PlannedMinutes() int {
	total := 0
	for _, d := range w.Days {
		total += d.PlannedMinutes
	}
	return total
}

// DaysNeedingAttention counts the days with issues.
func (w *WeekSummary) DaysNeedingAttention() int {
	n := 0
	for _, d := range w.Days {
		if d.NeedsAttention {
			n++
		}
	}
	return n
}

// BuildWeekSummaryOptions configures the repository-backed summary builder.
type BuildWeekSummaryOptions struct {
	WeekStart time.Time
	Now       time.Time

	// LookaheadDays extends the fetched range past Sunday so searches on the
	// last days can see what follows.
	LookaheadDays int
}

// SummarizeWeek builds week summary data from items and a reference date.
func SummarizeWeek(weekStart time.Time, items []*schedule.Item, status DayStatus, now time.Time) *WeekSummary {
	start, end := dateutil.WeekRange(weekStart)

	summary := &WeekSummary{Start: start, End: end}
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		ds := DaySummary{Date: day}
		for _, it := range schedule.ItemsOn(items, day) {
			ds.Items++
			ds.PlannedMinutes += it.DurationMinutes
			if it.IsCompleted {
				ds.Completed++
			}
		}
		ds.Status = status.StatusMessage(items, day, now)
		ds.NeedsAttention = status.HasIssues(items, day, now)
		summary.Days = append(summary.Days, ds)
	}
	return summary
}

// BuildWeekSummary loads items for the requested week and summarizes them.
func BuildWeekSummary(ctx context.Context, repo schedule.Repository, status DayStatus, opts BuildWeekSummaryOptions) (*WeekSummary, error) {
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	weekStart := opts.WeekStart
	if weekStart.IsZero() {
		weekStart = now
	}

	start, end := dateutil.WeekRange(weekStart)
	items, err := repo.ListItemsByDateRange(ctx, start, end.AddDate(0, 0, max(opts.LookaheadDays, 0)+1))
	if err != nil {
		return nil, fmt.Errorf("fetching items: %w", err)
	}

	return SummarizeWeek(start, items, status, now), nil
}
