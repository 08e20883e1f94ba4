package schedule

import (
	"testing"
	"time"
)

func clock(h, m int) time.Time {
	return time.Date(2025, 1, 6, h, m, 0, 0, time.UTC)
}

func TestParseClock(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int
		wantErr bool
	}{
		{name: "midnight", input: "00:00", want: 0},
		{name: "6am", input: "06:00", want: 360},
		{name: "with minutes", input: "09:30", want: 570},
		{name: "11:59pm", input: "23:59", want: 1439},
		{name: "invalid short", input: "9:00", wantErr: true},
		{name: "invalid hour", input: "25:00", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseClock(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseClock(%q) expected error", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseClock(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestFormatClock(t *testing.T) {
	tests := []struct {
		input int
		want  string
	}{
		{0, "00:00"},
		{570, "09:30"},
		{-10, "00:00"},
		{1500, "23:59"},
	}

	for _, tt := range tests {
		if got := FormatClock(tt.input); got != tt.want {
			t.Errorf("FormatClock(%d) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name                       string
		start1, end1, start2, end2 time.Time
		want                       bool
	}{
		{"no overlap before", clock(9, 0), clock(10, 0), clock(11, 0), clock(12, 0), false},
		{"back to back", clock(9, 0), clock(10, 0), clock(10, 0), clock(11, 0), false},
		{"partial overlap", clock(9, 0), clock(11, 0), clock(10, 0), clock(12, 0), true},
		{"contained", clock(9, 0), clock(12, 0), clock(10, 0), clock(11, 0), true},
		{"identical", clock(9, 0), clock(10, 0), clock(9, 0), clock(10, 0), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Overlaps(tt.start1, tt.end1, tt.start2, tt.end2); got != tt.want {
				t.Errorf("Overlaps = %v, want %v", got, tt.want)
			}
			if got := Overlaps(tt.start2, tt.end2, tt.start1, tt.end1); got != tt.want {
				t.Errorf("Overlaps (swapped) = %v, want %v", got, tt.want)
			}
		})
	}
}

func testItem(title string, cat Category, start time.Time, minutes int) *Item {
	return &Item{
		ID:              title,
		Title:           title,
		Category:        cat,
		StartTime:       start,
		DurationMinutes: minutes,
		ScheduledDate:   StartOfDay(start),
	}
}

func TestFreeSlots(t *testing.T) {
	day := clock(0, 0)

	t.Run("empty day is one slot", func(t *testing.T) {
		slots := FreeSlots(day, nil, clock(6, 0), clock(20, 0))
		if len(slots) != 1 {
			t.Fatalf("expected 1 slot, got %d", len(slots))
		}
		if slots[0].Minutes != 14*60 {
			t.Errorf("expected 840 minutes, got %d", slots[0].Minutes)
		}
	})

	t.Run("gaps between items", func(t *testing.T) {
		items := []*Item{
			testItem("b", CategoryFlexibleTask, clock(12, 0), 60),
			testItem("a", CategoryFlexibleTask, clock(9, 0), 60),
		}
		slots := FreeSlots(day, items, clock(8, 0), clock(14, 0))
		want := []Slot{
			{Start: clock(8, 0), Minutes: 60},
			{Start: clock(10, 0), Minutes: 120},
			{Start: clock(13, 0), Minutes: 60},
		}
		if len(slots) != len(want) {
			t.Fatalf("expected %d slots, got %d: %v", len(want), len(slots), slots)
		}
		for i := range want {
			if !slots[i].Start.Equal(want[i].Start) || slots[i].Minutes != want[i].Minutes {
				t.Errorf("slot %d = %v/%d, want %v/%d", i, slots[i].Start, slots[i].Minutes, want[i].Start, want[i].Minutes)
			}
		}
	})

	t.Run("completed items are not obstacles", func(t *testing.T) {
		done := testItem("done", CategoryFlexibleTask, clock(9, 0), 60)
		done.IsCompleted = true
		slots := FreeSlots(day, []*Item{done}, clock(8, 0), clock(12, 0))
		if TotalMinutes(slots) != 240 {
			t.Errorf("expected 240 free minutes, got %d", TotalMinutes(slots))
		}
	})

	t.Run("item crossing the start bound", func(t *testing.T) {
		items := []*Item{testItem("early", CategoryFlexibleTask, clock(7, 0), 120)}
		slots := FreeSlots(day, items, clock(8, 0), clock(10, 0))
		if len(slots) != 1 || !slots[0].Start.Equal(clock(9, 0)) || slots[0].Minutes != 60 {
			t.Errorf("unexpected slots: %v", slots)
		}
	})

	t.Run("items on other days are ignored", func(t *testing.T) {
		other := testItem("tomorrow", CategoryFlexibleTask, clock(9, 0).AddDate(0, 0, 1), 60)
		slots := FreeSlots(day, []*Item{other}, clock(8, 0), clock(10, 0))
		if TotalMinutes(slots) != 120 {
			t.Errorf("expected 120 free minutes, got %d", TotalMinutes(slots))
		}
	})

	t.Run("inverted bounds", func(t *testing.T) {
		if slots := FreeSlots(day, nil, clock(10, 0), clock(9, 0)); slots != nil {
			t.Errorf("expected nil, got %v", slots)
		}
	})
}

func TestWindow(t *testing.T) {
	w := DefaultBounds().Evening(clock(0, 0))
	if w.Minutes() != 180 {
		t.Errorf("expected 180 evening minutes, got %d", w.Minutes())
	}
	if !w.Contains(clock(20, 0)) || w.Contains(clock(23, 0)) {
		t.Error("evening window should be half-open")
	}
	if got := w.OverlapMinutes(clock(19, 0), clock(21, 0)); got != 60 {
		t.Errorf("expected 60 overlap minutes, got %d", got)
	}
}

func TestUsesForbiddenWording(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"Moved to a nearby free slot", false},
		{"You MISSED this", true},
		{"Running behind schedule", true},
		{"See you later", true},
		{"Stays as planned", false},
	}
	for _, tt := range tests {
		if got := UsesForbiddenWording(tt.in); got != tt.want {
			t.Errorf("UsesForbiddenWording(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestAt_DSTTransition(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("timezone data unavailable: %v", err)
	}

	// 2025-03-09 loses an hour at 02:00; 2025-11-02 gains one.
	for _, day := range []time.Time{
		time.Date(2025, time.March, 9, 0, 0, 0, 0, loc),
		time.Date(2025, time.November, 2, 0, 0, 0, 0, loc),
	} {
		for _, minute := range []int{DefaultDayStartMinute, 9 * 60, DefaultEveningStartMinute} {
			got := At(day, minute)
			if MinuteOfDay(got) != minute {
				t.Errorf("At(%s, %s) = %s, want wall clock %s",
					day.Format("2006-01-02"), FormatClock(minute), got.Format("15:04"), FormatClock(minute))
			}
			if !SameDay(got, day) {
				t.Errorf("At(%s, %s) landed on %s", day.Format("2006-01-02"), FormatClock(minute), got.Format("2006-01-02"))
			}
		}
	}
}
