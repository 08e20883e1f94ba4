// Package schedule defines the core domain types for dayflow: schedule items,
// their categories and recurrence, and the slot arithmetic shared by the planner.
package schedule

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Validation errors.
var (
	ErrEmptyTitle        = errors.New("title cannot be empty")
	ErrInvalidCategory   = errors.New("category must be one of non_negotiable, identity_habit, flexible_task, optional_goal")
	ErrInvalidDuration   = errors.New("duration must be positive")
	ErrInvalidMinimum    = errors.New("minimum duration must be between 1 and the duration")
	ErrInvalidFrequency  = errors.New("frequency must be 'daily' or 'weekly'")
	ErrMissingWeekdays   = errors.New("weekly items need at least one weekday")
	ErrInvalidTimeFormat = errors.New("time must be in HH:MM format")
)

// Domain errors.
var (
	ErrItemNotFound = errors.New("item not found")
)

// Category is the kind of commitment an item represents.
type Category string

const (
	CategoryNonNegotiable Category = "non_negotiable"
	CategoryIdentityHabit Category = "identity_habit"
	CategoryFlexibleTask  Category = "flexible_task"
	CategoryOptionalGoal  Category = "optional_goal"
)

// Categories lists every category in priority order.
var Categories = []Category{
	CategoryNonNegotiable,
	CategoryIdentityHabit,
	CategoryFlexibleTask,
	CategoryOptionalGoal,
}

// Priority returns the rank of the category. 0 is the strongest.
func (c Category) Priority() int {
	switch c {
	case CategoryNonNegotiable:
		return 0
	case CategoryIdentityHabit:
		return 1
	case CategoryFlexibleTask:
		return 2
	default:
		return 3
	}
}

// CanCompress reports whether items of this category may be shortened.
func (c Category) CanCompress() bool {
	return c == CategoryIdentityHabit
}

// CanMove reports whether items of this category may be moved without consent.
func (c Category) CanMove() bool {
	return c == CategoryFlexibleTask || c == CategoryOptionalGoal
}

// CanDefer reports whether items of this category may go to another day without consent.
func (c Category) CanDefer() bool {
	return c == CategoryFlexibleTask || c == CategoryOptionalGoal
}

// Valid returns true if the category is one of the known values.
func (c Category) Valid() bool {
	switch c {
	case CategoryNonNegotiable, CategoryIdentityHabit, CategoryFlexibleTask, CategoryOptionalGoal:
		return true
	default:
		return false
	}
}

// Label returns a short human-readable name.
func (c Category) Label() string {
	switch c {
	case CategoryNonNegotiable:
		return "Non-negotiable"
	case CategoryIdentityHabit:
		return "Identity habit"
	case CategoryFlexibleTask:
		return "Flexible task"
	case CategoryOptionalGoal:
		return "Optional goal"
	default:
		return string(c)
	}
}

// ParseCategory accepts the canonical names and a few short aliases.
func ParseCategory(s string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "non_negotiable", "non-negotiable", "nn", "fixed":
		return CategoryNonNegotiable, nil
	case "identity_habit", "identity-habit", "habit":
		return CategoryIdentityHabit, nil
	case "flexible_task", "flexible-task", "flexible", "task":
		return CategoryFlexibleTask, nil
	case "optional_goal", "optional-goal", "optional", "goal":
		return CategoryOptionalGoal, nil
	default:
		return "", ErrInvalidCategory
	}
}

// Frequency is how often a recurring item repeats.
type Frequency string

const (
	FrequencyNone   Frequency = ""
	FrequencyDaily  Frequency = "daily"
	FrequencyWeekly Frequency = "weekly"
)

// Item is a time-boxed task instance on a single day.
type Item struct {
	ID                     string
	Title                  string
	Category               Category
	StartTime              time.Time
	DurationMinutes        int
	MinimumDurationMinutes int // 0 means no compression floor
	IsCompleted            bool
	ScheduledDate          time.Time // day bucket, may differ from StartTime's date after a defer
	IsEvening              bool      // explicitly placed in the evening by the user
	IsGentle               bool

	IsRecurring   bool
	Frequency     Frequency
	Weekdays      []time.Weekday
	RecurrenceEnd *time.Time
	ParentID      string // template ID for generated instances

	CreatedAt time.Time
}

// New creates a new Item with validation.
// The scheduled date is derived from the start time.
func New(title string, category Category, start time.Time, durationMinutes int) (*Item, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrEmptyTitle
	}
	if !category.Valid() {
		return nil, ErrInvalidCategory
	}
	if durationMinutes <= 0 {
		return nil, ErrInvalidDuration
	}

	return &Item{
		ID:              NewID(),
		Title:           title,
		Category:        category,
		StartTime:       start,
		DurationMinutes: durationMinutes,
		ScheduledDate:   StartOfDay(start),
		CreatedAt:       time.Now(),
	}, nil
}

// NewID returns a fresh item identifier.
func NewID() string {
	return uuid.NewString()
}

// SetMinimum sets the compression floor.
func (i *Item) SetMinimum(minutes int) error {
	if minutes < 0 || minutes > i.DurationMinutes {
		return ErrInvalidMinimum
	}
	i.MinimumDurationMinutes = minutes
	return nil
}

// SetRecurrence marks the item as a recurring template.
func (i *Item) SetRecurrence(freq Frequency, weekdays []time.Weekday, until *time.Time) error {
	switch freq {
	case FrequencyDaily:
		weekdays = nil
	case FrequencyWeekly:
		if len(weekdays) == 0 {
			return ErrMissingWeekdays
		}
	default:
		return ErrInvalidFrequency
	}
	i.IsRecurring = true
	i.Frequency = freq
	i.Weekdays = weekdays
	i.RecurrenceEnd = until
	return nil
}

// EndTime returns StartTime + DurationMinutes.
func (i *Item) EndTime() time.Time {
	return i.StartTime.Add(time.Duration(i.DurationMinutes) * time.Minute)
}

// IsCompressible is true when a floor is set and is below the current duration.
func (i *Item) IsCompressible() bool {
	return i.MinimumDurationMinutes > 0 && i.MinimumDurationMinutes < i.DurationMinutes
}

// CompressibleMinutes returns how many minutes the item can give up.
func (i *Item) CompressibleMinutes() int {
	if !i.IsCompressible() {
		return 0
	}
	return i.DurationMinutes - i.MinimumDurationMinutes
}

// Overlaps returns true if the two items share any time.
// Back-to-back items do not overlap.
func (i *Item) Overlaps(other *Item) bool {
	if other == nil {
		return false
	}
	return Overlaps(i.StartTime, i.EndTime(), other.StartTime, other.EndTime())
}

// IsOn returns true if the item belongs to the given day bucket.
func (i *Item) IsOn(date time.Time) bool {
	return SameDay(i.ScheduledDate, date)
}

// SeriesID identifies the recurrence series the item belongs to.
func (i *Item) SeriesID() string {
	if i.ParentID != "" {
		return i.ParentID
	}
	return i.ID
}

// IsDaily returns true for daily recurring items.
func (i *Item) IsDaily() bool {
	return i.IsRecurring && i.Frequency == FrequencyDaily
}

// IsWeekly returns true for weekly recurring items.
func (i *Item) IsWeekly() bool {
	return i.IsRecurring && i.Frequency == FrequencyWeekly
}

// HasWeekday returns true if the weekday is in the recurrence set.
func (i *Item) HasWeekday(d time.Weekday) bool {
	for _, w := range i.Weekdays {
		if w == d {
			return true
		}
	}
	return false
}

// RecursOn reports whether the recurrence rule produces an instance on date.
func (i *Item) RecursOn(date time.Time) bool {
	if !i.IsRecurring {
		return false
	}
	day := StartOfDay(date)
	if day.Before(StartOfDay(i.ScheduledDate)) {
		return false
	}
	if i.RecurrenceEnd != nil && day.After(StartOfDay(*i.RecurrenceEnd)) {
		return false
	}
	switch i.Frequency {
	case FrequencyDaily:
		return true
	case FrequencyWeekly:
		return i.HasWeekday(day.Weekday())
	default:
		return false
	}
}

// Clone returns a deep copy of the item.
func (i *Item) Clone() *Item {
	c := *i
	if i.Weekdays != nil {
		c.Weekdays = append([]time.Weekday(nil), i.Weekdays...)
	}
	if i.RecurrenceEnd != nil {
		end := *i.RecurrenceEnd
		c.RecurrenceEnd = &end
	}
	return &c
}

// String formats the item for logs and CLI output.
func (i *Item) String() string {
	return fmt.Sprintf("%s [%s] %s-%s", i.Title, i.Category,
		i.StartTime.Format("15:04"), i.EndTime().Format("15:04"))
}
