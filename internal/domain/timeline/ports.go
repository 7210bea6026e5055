package timeline

import (
	"context"

	"cloud.google.com/go/civil"
)

// UserItemProvider returns the user's own items for a day.
type UserItemProvider interface {
	ItemsForDate(ctx context.Context, date civil.Date, includeCompleted bool) ([]Item, error)
}

// CalendarMirror mirrors user events into an external calendar.
type CalendarMirror interface {
	Upsert(ctx context.Context, item Item) error
	Remove(ctx context.Context, itemID string) error
}

// ReminderScheduler schedules a reminder ahead of an item's start time.
type ReminderScheduler interface {
	Schedule(ctx context.Context, item Item) error
	Cancel(ctx context.Context, itemID string) error
}
