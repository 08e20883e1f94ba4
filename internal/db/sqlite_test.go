package db

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/javiermolinar/dayflow/internal/schedule"
)

func newItem(t *testing.T, title string, category schedule.Category, start time.Time, minutes int) *schedule.Item {
	t.Helper()
	it, err := schedule.New(title, category, start, minutes)
	if err != nil {
		t.Fatalf("schedule.New failed: %v", err)
	}
	return it
}

func TestCreateItem(t *testing.T) {
	repo := newTestRepo(t)

	start := time.Date(2025, 1, 9, 9, 0, 0, 0, time.Local)
	it := newItem(t, "Write unit tests", schedule.CategoryFlexibleTask, start, 90)

	if err := repo.CreateItem(context.Background(), it); err != nil {
		t.Fatalf("CreateItem failed: %v", err)
	}

	if it.ID == "" {
		t.Error("expected ID to be set")
	}
}

func TestCreateItem_AssignsMissingID(t *testing.T) {
	repo := newTestRepo(t)

	it := &schedule.Item{
		Title:           "Stretch",
		Category:        schedule.CategoryIdentityHabit,
		StartTime:       time.Date(2025, 1, 9, 7, 0, 0, 0, time.Local),
		DurationMinutes: 20,
		ScheduledDate:   time.Date(2025, 1, 9, 0, 0, 0, 0, time.Local),
	}

	if err := repo.CreateItem(context.Background(), it); err != nil {
		t.Fatalf("CreateItem failed: %v", err)
	}
	if it.ID == "" {
		t.Error("expected ID to be generated")
	}
	if it.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}
}

func TestGetItem(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	start := time.Date(2025, 1, 15, 7, 30, 0, 0, time.Local)
	until := time.Date(2025, 2, 1, 0, 0, 0, 0, time.Local)

	original := newItem(t, "Morning run", schedule.CategoryIdentityHabit, start, 45)
	original.IsGentle = true
	original.CreatedAt = time.Now().Truncate(time.Second)
	if err := original.SetMinimum(20); err != nil {
		t.Fatalf("SetMinimum failed: %v", err)
	}
	if err := original.SetRecurrence(schedule.FrequencyWeekly, []time.Weekday{time.Monday, time.Friday}, &until); err != nil {
		t.Fatalf("SetRecurrence failed: %v", err)
	}

	if err := repo.CreateItem(ctx, original); err != nil {
		t.Fatalf("CreateItem failed: %v", err)
	}

	got, err := repo.GetItem(ctx, original.ID)
	if err != nil {
		t.Fatalf("GetItem failed: %v", err)
	}

	if got.Title != original.Title {
		t.Errorf("Title = %q, want %q", got.Title, original.Title)
	}
	if got.Category != schedule.CategoryIdentityHabit {
		t.Errorf("Category = %q, want %q", got.Category, schedule.CategoryIdentityHabit)
	}
	if !got.StartTime.Equal(start) {
		t.Errorf("StartTime = %v, want %v", got.StartTime, start)
	}
	if got.DurationMinutes != 45 || got.MinimumDurationMinutes != 20 {
		t.Errorf("durations = %d/%d, want 45/20", got.DurationMinutes, got.MinimumDurationMinutes)
	}
	if !got.ScheduledDate.Equal(schedule.StartOfDay(start)) {
		t.Errorf("ScheduledDate = %v, want %v", got.ScheduledDate, schedule.StartOfDay(start))
	}
	if !got.IsGentle || got.IsEvening || got.IsCompleted {
		t.Errorf("unexpected flags: gentle=%v evening=%v completed=%v", got.IsGentle, got.IsEvening, got.IsCompleted)
	}
	if !got.IsWeekly() {
		t.Error("expected weekly recurrence")
	}
	if len(got.Weekdays) != 2 || got.Weekdays[0] != time.Monday || got.Weekdays[1] != time.Friday {
		t.Errorf("Weekdays = %v, want [Monday Friday]", got.Weekdays)
	}
	if got.RecurrenceEnd == nil || !got.RecurrenceEnd.Equal(until) {
		t.Errorf("RecurrenceEnd = %v, want %v", got.RecurrenceEnd, until)
	}
	if got.ParentID != "" {
		t.Errorf("ParentID = %q, want empty", got.ParentID)
	}
	if !got.CreatedAt.Equal(original.CreatedAt) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, original.CreatedAt)
	}
}

func TestGetItem_NotFound(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.GetItem(context.Background(), "missing")
	if !errors.Is(err, schedule.ErrItemNotFound) {
		t.Errorf("expected ErrItemNotFound, got %v", err)
	}
}

func TestListItemsByDateRange(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	day := func(d, h int) time.Time { return time.Date(2025, 1, d, h, 0, 0, 0, time.Local) }

	items := []*schedule.Item{
		newItem(t, "Standup", schedule.CategoryNonNegotiable, day(13, 9), 15),
		newItem(t, "Review", schedule.CategoryFlexibleTask, day(14, 14), 60),
		newItem(t, "Reading", schedule.CategoryOptionalGoal, day(14, 10), 30),
		newItem(t, "Outside range", schedule.CategoryFlexibleTask, day(20, 9), 30),
	}
	if err := repo.CreateItems(ctx, items); err != nil {
		t.Fatalf("CreateItems failed: %v", err)
	}

	got, err := repo.ListItemsByDateRange(ctx, day(13, 0), day(14, 0))
	if err != nil {
		t.Fatalf("ListItemsByDateRange failed: %v", err)
	}

	want := []string{"Standup", "Reading", "Review"}
	if len(got) != len(want) {
		t.Fatalf("expected %d items, got %d", len(want), len(got))
	}
	for i, title := range want {
		if got[i].Title != title {
			t.Errorf("item %d = %q, want %q", i, got[i].Title, title)
		}
	}
}

func TestListItemsByDateRange_Empty(t *testing.T) {
	repo := newTestRepo(t)

	date := time.Date(2025, 1, 13, 0, 0, 0, 0, time.Local)
	got, err := repo.ListItemsByDateRange(context.Background(), date, date)
	if err != nil {
		t.Fatalf("ListItemsByDateRange failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no items, got %d", len(got))
	}
}

func TestListItemsByDateRange_UsesDayBucket(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	// Deferred item keeps a start on the 13th but belongs to the 14th.
	it := newItem(t, "Inbox zero", schedule.CategoryFlexibleTask, time.Date(2025, 1, 13, 16, 0, 0, 0, time.Local), 30)
	it.ScheduledDate = time.Date(2025, 1, 14, 0, 0, 0, 0, time.Local)
	if err := repo.CreateItem(ctx, it); err != nil {
		t.Fatalf("CreateItem failed: %v", err)
	}

	day13 := time.Date(2025, 1, 13, 0, 0, 0, 0, time.Local)
	day14 := day13.AddDate(0, 0, 1)

	got, _ := repo.ListItemsByDateRange(ctx, day13, day13)
	if len(got) != 0 {
		t.Errorf("expected nothing on the 13th, got %d", len(got))
	}
	got, _ = repo.ListItemsByDateRange(ctx, day14, day14)
	if len(got) != 1 {
		t.Errorf("expected one item on the 14th, got %d", len(got))
	}
}

func TestCreateItems_Empty(t *testing.T) {
	repo := newTestRepo(t)

	if err := repo.CreateItems(context.Background(), nil); err != nil {
		t.Errorf("CreateItems with no items should succeed: %v", err)
	}
}

func TestCreateItems_RollsBackOnError(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	start := time.Date(2025, 1, 13, 9, 0, 0, 0, time.Local)
	first := newItem(t, "First", schedule.CategoryFlexibleTask, start, 30)
	dup := newItem(t, "Duplicate", schedule.CategoryFlexibleTask, start.Add(time.Hour), 30)
	dup.ID = first.ID

	if err := repo.CreateItems(ctx, []*schedule.Item{first, dup}); err == nil {
		t.Fatal("expected duplicate ID error")
	}

	if _, err := repo.GetItem(ctx, first.ID); !errors.Is(err, schedule.ErrItemNotFound) {
		t.Errorf("expected batch to be rolled back, got %v", err)
	}
}

func TestSetCompleted(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	it := newItem(t, "Meditate", schedule.CategoryIdentityHabit, time.Date(2025, 1, 13, 7, 0, 0, 0, time.Local), 15)
	if err := repo.CreateItem(ctx, it); err != nil {
		t.Fatalf("CreateItem failed: %v", err)
	}

	if err := repo.SetCompleted(ctx, it.ID, true); err != nil {
		t.Fatalf("SetCompleted failed: %v", err)
	}
	got, _ := repo.GetItem(ctx, it.ID)
	if !got.IsCompleted {
		t.Error("expected item to be completed")
	}

	if err := repo.SetCompleted(ctx, it.ID, false); err != nil {
		t.Fatalf("SetCompleted failed: %v", err)
	}
	got, _ = repo.GetItem(ctx, it.ID)
	if got.IsCompleted {
		t.Error("expected item to be reopened")
	}
}

func TestSetCompleted_NotFound(t *testing.T) {
	repo := newTestRepo(t)

	err := repo.SetCompleted(context.Background(), "missing", true)
	if !errors.Is(err, schedule.ErrItemNotFound) {
		t.Errorf("expected ErrItemNotFound, got %v", err)
	}
}

func TestDeleteItem(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	it := newItem(t, "Call plumber", schedule.CategoryFlexibleTask, time.Date(2025, 1, 13, 11, 0, 0, 0, time.Local), 15)
	if err := repo.CreateItem(ctx, it); err != nil {
		t.Fatalf("CreateItem failed: %v", err)
	}

	if err := repo.DeleteItem(ctx, it.ID); err != nil {
		t.Fatalf("DeleteItem failed: %v", err)
	}
	if _, err := repo.GetItem(ctx, it.ID); !errors.Is(err, schedule.ErrItemNotFound) {
		t.Errorf("expected ErrItemNotFound after delete, got %v", err)
	}
	if err := repo.DeleteItem(ctx, it.ID); !errors.Is(err, schedule.ErrItemNotFound) {
		t.Errorf("expected ErrItemNotFound on second delete, got %v", err)
	}
}

func TestApplyUpdates(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	start := time.Date(2025, 1, 13, 9, 0, 0, 0, time.Local)
	moved := newItem(t, "Write report", schedule.CategoryFlexibleTask, start, 60)
	shortened := newItem(t, "Workout", schedule.CategoryIdentityHabit, start.Add(2*time.Hour), 60)
	if err := repo.CreateItems(ctx, []*schedule.Item{moved, shortened}); err != nil {
		t.Fatalf("CreateItems failed: %v", err)
	}

	newStart := time.Date(2025, 1, 14, 10, 0, 0, 0, time.Local)
	newDate := schedule.StartOfDay(newStart)
	newDuration := 30

	err := repo.ApplyUpdates(ctx, []schedule.ItemUpdate{
		{ID: moved.ID, StartTime: &newStart, ScheduledDate: &newDate},
		{ID: shortened.ID, DurationMinutes: &newDuration},
		{ID: "ignored-empty-update"},
	})
	if err != nil {
		t.Fatalf("ApplyUpdates failed: %v", err)
	}

	got, _ := repo.GetItem(ctx, moved.ID)
	if !got.StartTime.Equal(newStart) || !got.ScheduledDate.Equal(newDate) {
		t.Errorf("moved item at %v on %v, want %v on %v", got.StartTime, got.ScheduledDate, newStart, newDate)
	}
	if got.DurationMinutes != 60 {
		t.Errorf("moved item duration changed to %d", got.DurationMinutes)
	}

	got, _ = repo.GetItem(ctx, shortened.ID)
	if got.DurationMinutes != 30 {
		t.Errorf("shortened duration = %d, want 30", got.DurationMinutes)
	}
	if !got.StartTime.Equal(shortened.StartTime) {
		t.Errorf("shortened item start changed to %v", got.StartTime)
	}
}

func TestApplyUpdates_AllOrNothing(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	start := time.Date(2025, 1, 13, 9, 0, 0, 0, time.Local)
	it := newItem(t, "Write report", schedule.CategoryFlexibleTask, start, 60)
	if err := repo.CreateItem(ctx, it); err != nil {
		t.Fatalf("CreateItem failed: %v", err)
	}

	newStart := start.Add(3 * time.Hour)
	err := repo.ApplyUpdates(ctx, []schedule.ItemUpdate{
		{ID: it.ID, StartTime: &newStart},
		{ID: "missing", StartTime: &newStart},
	})
	if !errors.Is(err, schedule.ErrItemNotFound) {
		t.Fatalf("expected ErrItemNotFound, got %v", err)
	}

	got, _ := repo.GetItem(ctx, it.ID)
	if !got.StartTime.Equal(start) {
		t.Errorf("expected rollback to keep %v, got %v", start, got.StartTime)
	}
}

func TestParseDate_LocalTimezone(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"date only", "2025-01-15"},
		{"sqlite date column", "2025-06-20T00:00:00Z"},
		{"date only end of year", "2025-12-31"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed, err := parseDate(tt.input)
			if err != nil {
				t.Fatalf("parseDate(%q) failed: %v", tt.input, err)
			}

			if parsed.Location() != time.Local {
				t.Errorf("parseDate(%q) location = %v, want %v", tt.input, parsed.Location(), time.Local)
			}

			localMidnight := time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, time.Local)
			if !parsed.Equal(localMidnight) {
				t.Errorf("parseDate(%q) = %v, want local midnight", tt.input, parsed)
			}
		})
	}
}

func TestParseDate_AllFormats(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"date only", "2025-01-15", false},
		{"datetime with Z", "2025-01-15T09:00:00Z", false},
		{"datetime without tz", "2025-01-15 09:00:00", false},
		{"RFC3339", "2025-01-15T09:00:00+05:00", false},
		{"invalid format", "15/01/2025", true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseDate(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("parseDate(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestWeekdaysRoundTrip(t *testing.T) {
	days := []time.Weekday{time.Sunday, time.Wednesday, time.Saturday}

	encoded := formatWeekdays(days)
	if encoded != "0,3,6" {
		t.Errorf("formatWeekdays = %q, want %q", encoded, "0,3,6")
	}

	decoded, err := parseWeekdays(encoded)
	if err != nil {
		t.Fatalf("parseWeekdays failed: %v", err)
	}
	if len(decoded) != 3 || decoded[1] != time.Wednesday {
		t.Errorf("parseWeekdays = %v", decoded)
	}

	if _, err := parseWeekdays("1,9"); err == nil {
		t.Error("expected error for out-of-range weekday")
	}
}

// newTestRepo creates a temporary SQLite repository for testing.
func newTestRepo(t *testing.T) *SQLite {
	t.Helper()

	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	repo, err := New(dbPath)
	if err != nil {
		t.Fatalf("failed to create test repo: %v", err)
	}

	t.Cleanup(func() {
		_ = repo.Close()
	})

	return repo
}

func TestListAllItems(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	later := newItem(t, "Later", schedule.CategoryFlexibleTask, time.Date(2025, 3, 2, 9, 0, 0, 0, time.Local), 30)
	earlier := newItem(t, "Earlier", schedule.CategoryFlexibleTask, time.Date(2025, 1, 2, 9, 0, 0, 0, time.Local), 30)
	if err := repo.CreateItems(ctx, []*schedule.Item{later, earlier}); err != nil {
		t.Fatalf("CreateItems failed: %v", err)
	}

	got, err := repo.ListAllItems(ctx)
	if err != nil {
		t.Fatalf("ListAllItems failed: %v", err)
	}
	if len(got) != 2 || got[0].Title != "Earlier" || got[1].Title != "Later" {
		t.Errorf("unexpected order: %v", got)
	}
}
