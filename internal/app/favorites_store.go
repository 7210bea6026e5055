package app

import (
	"context"
	"fmt"

	"github.com/riskibarqy/day-planner/internal/config"
	"github.com/riskibarqy/day-planner/internal/domain/favorite"
	"github.com/riskibarqy/day-planner/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/day-planner/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/day-planner/internal/infrastructure/repository/redis"
	"github.com/riskibarqy/day-planner/internal/infrastructure/repository/sqlite"
	"github.com/riskibarqy/day-planner/internal/platform/logging"
)

// newFavoritesRepository opens the store named by FAVORITES_STORE. The
// returned closer is nil for the in-process store.
func newFavoritesRepository(ctx context.Context, cfg config.Config, logger *logging.Logger) (favorite.Repository, func() error, error) {
	switch cfg.FavoritesStore {
	case config.FavoritesStorePostgres:
		db, err := postgres.Open(ctx, postgres.OpenConfig{
			URL:                         cfg.DBURL,
			DisablePreparedBinaryResult: cfg.DBDisablePreparedBinary,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("open postgres favorites store: %w", err)
		}
		logger.Info("favorites store ready", "store", cfg.FavoritesStore, "key", cfg.FavoritesKey)
		return postgres.NewFavoritesRepository(db, cfg.FavoritesKey), db.Close, nil
	case config.FavoritesStoreRedis:
		client, err := redis.NewClient(ctx, redis.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("open redis favorites store: %w", err)
		}
		logger.Info("favorites store ready", "store", cfg.FavoritesStore, "addr", cfg.RedisAddr)
		return redis.NewFavoritesRepository(client, cfg.FavoritesKey), client.Close, nil
	case config.FavoritesStoreSQLite:
		db, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite favorites store: %w", err)
		}
		logger.Info("favorites store ready", "store", cfg.FavoritesStore, "path", cfg.SQLitePath)
		return sqlite.NewFavoritesRepository(db, cfg.FavoritesKey), db.Close, nil
	default:
		logger.Info("favorites store ready", "store", config.FavoritesStoreMemory)
		return memory.NewFavoritesRepository(), nil, nil
	}
}
