package useritem

import (
	"context"

	"cloud.google.com/go/civil"
	"github.com/riskibarqy/day-planner/internal/domain/timeline"
)

// Repository stores user-authored tasks, habits and events.
type Repository interface {
	Upsert(ctx context.Context, item timeline.Item) error
	Delete(ctx context.Context, itemID string) error
	GetByID(ctx context.Context, itemID string) (timeline.Item, bool, error)
	ListByDate(ctx context.Context, date civil.Date) ([]timeline.Item, error)
}
