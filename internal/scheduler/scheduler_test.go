package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/javiermolinar/dayflow/internal/schedule"
)

// Monday 2025-01-06.
func at(day, hour, minute int) time.Time {
	return time.Date(2025, 1, day, hour, minute, 0, 0, time.UTC)
}

func block(id string, start time.Time, minutes int) *schedule.Item {
	return &schedule.Item{
		ID:              id,
		Title:           id,
		Category:        schedule.CategoryFlexibleTask,
		StartTime:       start,
		DurationMinutes: minutes,
		ScheduledDate:   schedule.StartOfDay(start),
	}
}

func TestFindNextAvailableSlot(t *testing.T) {
	done := block("done", at(6, 9, 0), 60)
	done.IsCompleted = true

	tests := []struct {
		name   string
		query  Query
		want   time.Time
		wantOK bool
	}{
		{
			name:   "empty day returns requested start",
			query:  Query{From: at(6, 9, 0), Minutes: 60, Now: at(6, 8, 0)},
			want:   at(6, 9, 0),
			wantOK: true,
		},
		{
			name:   "clamped to now and rounded",
			query:  Query{From: at(6, 8, 0), Minutes: 30, Now: at(6, 10, 23)},
			want:   at(6, 10, 25),
			wantOK: true,
		},
		{
			name:   "never before day start",
			query:  Query{From: at(6, 4, 0), Minutes: 30, Now: at(6, 3, 0)},
			want:   at(6, 6, 0),
			wantOK: true,
		},
		{
			name: "jumps to latest conflicting end",
			query: Query{
				From: at(6, 9, 0), Minutes: 60, Now: at(6, 7, 0),
				Items: []*schedule.Item{block("a", at(6, 9, 0), 60), block("b", at(6, 9, 30), 90)},
			},
			want:   at(6, 11, 0),
			wantOK: true,
		},
		{
			name: "excluded item is not an obstacle",
			query: Query{
				From: at(6, 9, 0), Minutes: 60, Now: at(6, 7, 0),
				Items:   []*schedule.Item{block("self", at(6, 9, 0), 60)},
				Exclude: "self",
			},
			want:   at(6, 9, 0),
			wantOK: true,
		},
		{
			name: "completed items are not obstacles",
			query: Query{
				From: at(6, 9, 0), Minutes: 60, Now: at(6, 7, 0),
				Items: []*schedule.Item{done},
			},
			want:   at(6, 9, 0),
			wantOK: true,
		},
		{
			name: "claimed slots are avoided",
			query: Query{
				From: at(6, 9, 0), Minutes: 30, Now: at(6, 7, 0),
				Avoid: []schedule.Slot{{Start: at(6, 9, 0), Minutes: 45}},
			},
			want:   at(6, 9, 45),
			wantOK: true,
		},
		{
			name:   "rolls over when the evening would be touched",
			query:  Query{From: at(6, 19, 30), Minutes: 60, Now: at(6, 19, 0)},
			want:   at(7, 6, 0),
			wantOK: true,
		},
		{
			name:   "same day search stops at the evening",
			query:  Query{From: at(6, 19, 30), Minutes: 60, Now: at(6, 19, 0), SameDay: true},
			wantOK: false,
		},
		{
			name:   "evening allowed when asked",
			query:  Query{From: at(6, 19, 30), Minutes: 60, Now: at(6, 19, 0), AllowEvening: true},
			want:   at(6, 19, 30),
			wantOK: true,
		},
		{
			name:   "longer than any day",
			query:  Query{From: at(6, 9, 0), Minutes: 15 * 60, Now: at(6, 7, 0)},
			wantOK: false,
		},
		{
			name:   "zero minutes",
			query:  Query{From: at(6, 9, 0), Minutes: 0},
			wantOK: false,
		},
	}

	s := New(schedule.DefaultBounds())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := s.FindNextAvailableSlot(tt.query)
			require.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestFindNextAvailableSlot_SleepBlocksMorning(t *testing.T) {
	s := New(schedule.DefaultBounds(), WithSleep(FixedSleep{
		BedtimeMinute: 23 * 60,
		WakeMinute:    7 * 60,
		BufferMinutes: 30,
	}))

	got, ok := s.FindNextAvailableSlot(Query{From: at(6, 19, 30), Minutes: 60, Now: at(6, 19, 0)})
	require.True(t, ok)
	assert.Equal(t, at(7, 7, 0), got)
}

func TestFindNextAvailableSlot_SleepBlocksLateEvening(t *testing.T) {
	s := New(schedule.DefaultBounds(), WithSleep(FixedSleep{
		BedtimeMinute: 23 * 60,
		WakeMinute:    7 * 60,
		BufferMinutes: 30,
	}))

	got, ok := s.FindNextAvailableSlot(Query{
		From: at(6, 22, 0), Minutes: 60, Now: at(6, 21, 0), AllowEvening: true,
	})
	require.True(t, ok)
	assert.Equal(t, at(7, 7, 0), got)
}

func TestFindNextAvailableSlot_Lookahead(t *testing.T) {
	var items []*schedule.Item
	for d := 6; d <= 8; d++ {
		items = append(items, block("busy", at(d, 6, 0), 14*60))
	}

	s := New(schedule.DefaultBounds(), WithLookahead(2))
	_, ok := s.FindNextAvailableSlot(Query{From: at(6, 9, 0), Minutes: 30, Now: at(6, 7, 0), Items: items})
	assert.False(t, ok)

	s = New(schedule.DefaultBounds(), WithLookahead(3))
	got, ok := s.FindNextAvailableSlot(Query{From: at(6, 9, 0), Minutes: 30, Now: at(6, 7, 0), Items: items})
	require.True(t, ok)
	assert.Equal(t, at(9, 6, 0), got)
}

func TestFindMultipleSlots(t *testing.T) {
	s := New(schedule.DefaultBounds())

	t.Run("consecutive ranked slots", func(t *testing.T) {
		got := s.FindMultipleSlots(Query{From: at(6, 9, 0), Minutes: 60, Now: at(6, 7, 0)}, 3)
		assert.Equal(t, []time.Time{at(6, 9, 0), at(6, 10, 0), at(6, 11, 0)}, got)
	})

	t.Run("stops when later results leave the day", func(t *testing.T) {
		got := s.FindMultipleSlots(Query{From: at(6, 18, 0), Minutes: 60, Now: at(6, 7, 0)}, 3)
		assert.Equal(t, []time.Time{at(6, 18, 0), at(6, 19, 0)}, got)
	})

	t.Run("only the first result may be on another day", func(t *testing.T) {
		got := s.FindMultipleSlots(Query{From: at(6, 19, 30), Minutes: 60, Now: at(6, 19, 0)}, 3)
		assert.Equal(t, []time.Time{at(7, 6, 0)}, got)
	})

	t.Run("search from a past day ranks slots on today", func(t *testing.T) {
		got := s.FindMultipleSlots(Query{From: at(5, 10, 0), Minutes: 60, Now: at(6, 8, 0)}, 3)
		assert.Equal(t, []time.Time{at(6, 8, 0), at(6, 9, 0), at(6, 10, 0)}, got)
	})
}

func TestFindMultipleSlots_NeverBeforeNow(t *testing.T) {
	s := New(schedule.DefaultBounds())
	now := at(6, 13, 7)
	for _, got := range s.FindMultipleSlots(Query{From: at(6, 8, 0), Minutes: 30, Now: now}, 5) {
		assert.False(t, got.Before(now), "slot %s is before now", got)
	}
}

func TestRoundUp(t *testing.T) {
	tests := []struct {
		in   time.Time
		want time.Time
	}{
		{at(6, 10, 23), at(6, 10, 25)},
		{at(6, 10, 25), at(6, 10, 25)},
		{at(6, 10, 25).Add(30 * time.Second), at(6, 10, 30)},
		{at(6, 10, 58), at(6, 11, 0)},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, roundUp(tt.in), "roundUp(%s)", tt.in.Format("15:04:05"))
	}
}

func TestFixedSleep(t *testing.T) {
	w, ok := FixedSleep{BedtimeMinute: 23 * 60, WakeMinute: 7 * 60, BufferMinutes: 30}.SleepWindow(at(6, 0, 0))
	require.True(t, ok)
	assert.Equal(t, at(6, 22, 30), w.BufferStart)
	assert.Equal(t, at(6, 23, 0), w.Bedtime)
	assert.Equal(t, at(7, 7, 0), w.WakeTime)
}

func weeklyHabit() *schedule.Item {
	h := block("yoga", at(6, 9, 0), 60)
	h.Category = schedule.CategoryIdentityHabit
	h.IsRecurring = true
	h.Frequency = schedule.FrequencyWeekly
	h.Weekdays = []time.Weekday{time.Monday, time.Wednesday}
	return h
}

func TestRecurrenceWeekDays(t *testing.T) {
	h := weeklyHabit()

	got := RecurrenceWeekDays(h, at(6, 0, 0), []*schedule.Item{h})
	assert.Equal(t, []time.Time{at(7, 0, 0), at(9, 0, 0), at(10, 0, 0), at(11, 0, 0), at(12, 0, 0)}, got)

	inst := block("yoga-thu", at(9, 9, 0), 60)
	inst.ParentID = h.ID
	got = RecurrenceWeekDays(h, at(6, 0, 0), []*schedule.Item{h, inst})
	assert.NotContains(t, got, at(9, 0, 0))

	got = RecurrenceWeekDays(h, at(12, 0, 0), []*schedule.Item{h})
	assert.Empty(t, got, "sunday has no later days in its week")
}

func TestFindSlotInRecurrenceWeek(t *testing.T) {
	s := New(schedule.DefaultBounds())
	h := weeklyHabit()
	items := []*schedule.Item{h, block("tuesday-work", at(7, 9, 0), 180)}

	got, ok := s.FindSlotInRecurrenceWeek(h, 45, at(6, 0, 0), at(6, 8, 0), items, nil)
	require.True(t, ok)
	assert.Equal(t, at(7, 12, 0), got)
}
