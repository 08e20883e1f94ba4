package schedule

import (
	"context"
	"time"
)

// ItemUpdate is a single field-level change to an item.
// Nil fields are left untouched.
type ItemUpdate struct {
	ID              string
	StartTime       *time.Time
	ScheduledDate   *time.Time
	DurationMinutes *int
}

// Empty returns true if the update changes nothing.
func (u ItemUpdate) Empty() bool {
	return u.StartTime == nil && u.ScheduledDate == nil && u.DurationMinutes == nil
}

// Repository defines the storage interface for schedule items.
type Repository interface {
	// CreateItem adds a new item to the repository.
	CreateItem(ctx context.Context, item *Item) error

	// CreateItems adds multiple items in a batch.
	CreateItems(ctx context.Context, items []*Item) error

	// GetItem retrieves an item by ID. Returns ErrItemNotFound if missing.
	GetItem(ctx context.Context, id string) (*Item, error)

	// ListItemsByDateRange returns all items whose day bucket is within the range (inclusive).
	ListItemsByDateRange(ctx context.Context, start, end time.Time) ([]*Item, error)

	// ListAllItems returns every stored item ordered by day and start time.
	ListAllItems(ctx context.Context) ([]*Item, error)

	// SetCompleted marks an item as done or not done.
	SetCompleted(ctx context.Context, id string, completed bool) error

	// DeleteItem removes an item.
	DeleteItem(ctx context.Context, id string) error

	// ApplyUpdates applies all updates atomically.
	ApplyUpdates(ctx context.Context, updates []ItemUpdate) error

	// Close releases any resources held by the repository.
	Close() error
}
