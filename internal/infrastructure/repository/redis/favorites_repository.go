// Package redis persists favorites as a single Redis string.
package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"

	goredis "github.com/redis/go-redis/v9"
	"github.com/riskibarqy/day-planner/internal/domain/favorite"
)

const defaultFavoritesKey = "day-planner:favorites"

type FavoritesRepository struct {
	client goredis.Cmdable
	key    string
}

func NewFavoritesRepository(client goredis.Cmdable, key string) *FavoritesRepository {
	key = strings.TrimSpace(key)
	if key == "" {
		key = defaultFavoritesKey
	}
	return &FavoritesRepository{client: client, key: key}
}

func (r *FavoritesRepository) LoadFavorites(ctx context.Context) ([]favorite.FollowedSport, error) {
	raw, err := r.client.Get(ctx, r.key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return []favorite.FollowedSport{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load favorites: %w", err)
	}
	return favorite.DecodeDocument(raw)
}

// SaveFavorites stores the document without expiry.
func (r *FavoritesRepository) SaveFavorites(ctx context.Context, sports []favorite.FollowedSport) error {
	doc, err := favorite.EncodeDocument(sports)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, r.key, doc, 0).Err(); err != nil {
		return fmt.Errorf("save favorites: %w", err)
	}
	return nil
}
