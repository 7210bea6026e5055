package memory

import (
	"context"
	"sort"
	"sync"

	"cloud.google.com/go/civil"
	"github.com/riskibarqy/day-planner/internal/domain/timeline"
)

type UserItemRepository struct {
	mu    sync.RWMutex
	items map[string]timeline.Item
}

func NewUserItemRepository() *UserItemRepository {
	return &UserItemRepository{items: make(map[string]timeline.Item)}
}

func (r *UserItemRepository) Upsert(_ context.Context, item timeline.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[item.ID] = item.Clone()
	return nil
}

func (r *UserItemRepository) Delete(_ context.Context, itemID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.items, itemID)
	return nil
}

func (r *UserItemRepository) GetByID(_ context.Context, itemID string) (timeline.Item, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[itemID]
	if !ok {
		return timeline.Item{}, false, nil
	}
	return item.Clone(), true, nil
}

// ListByDate returns the items on date ordered by ID so map iteration order
// never leaks out.
func (r *UserItemRepository) ListByDate(_ context.Context, date civil.Date) ([]timeline.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]timeline.Item, 0)
	for _, item := range r.items {
		if item.CalendarDate == date {
			out = append(out, item.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ID < out[j].ID
	})
	return out, nil
}
