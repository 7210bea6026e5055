package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/day-planner/internal/domain/favorite"
)

// FavoritesRepository keeps the encoded favorites document in process so it
// goes through the same codec as the durable stores.
type FavoritesRepository struct {
	mu  sync.RWMutex
	doc []byte
}

func NewFavoritesRepository() *FavoritesRepository {
	return &FavoritesRepository{}
}

func (r *FavoritesRepository) LoadFavorites(_ context.Context) ([]favorite.FollowedSport, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return favorite.DecodeDocument(r.doc)
}

func (r *FavoritesRepository) SaveFavorites(_ context.Context, sports []favorite.FollowedSport) error {
	doc, err := favorite.EncodeDocument(sports)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.doc = doc
	return nil
}
