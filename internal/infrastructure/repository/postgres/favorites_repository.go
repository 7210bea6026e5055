package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/day-planner/internal/domain/favorite"
	qb "github.com/riskibarqy/day-planner/internal/platform/querybuilder"
)

const defaultFavoritesKey = "favorites"

// FavoritesRepository stores the favorites document as one row of kv_store.
type FavoritesRepository struct {
	db  *sqlx.DB
	key string
	now func() time.Time
}

func NewFavoritesRepository(db *sqlx.DB, key string) *FavoritesRepository {
	key = strings.TrimSpace(key)
	if key == "" {
		key = defaultFavoritesKey
	}
	return &FavoritesRepository{db: db, key: key, now: time.Now}
}

func (r *FavoritesRepository) LoadFavorites(ctx context.Context) ([]favorite.FollowedSport, error) {
	query, args, err := qb.Select(qb.Postgres, "value").
		From(kvTable).
		Where(qb.Eq("key", r.key)).
		Limit(1).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build load favorites query: %w", err)
	}

	var value string
	if err := r.db.GetContext(ctx, &value, query, args...); err != nil {
		if isBindParameterMismatch(err) || isUnnamedPreparedStatementMissing(err) {
			return r.loadFavoritesLiteral(ctx)
		}
		if isNotFound(err) {
			return []favorite.FollowedSport{}, nil
		}
		return nil, fmt.Errorf("load favorites: %w", err)
	}
	return favorite.DecodeDocument([]byte(value))
}

// loadFavoritesLiteral inlines the key so the statement carries no bind
// parameters, for poolers that lose unnamed prepared statements.
func (r *FavoritesRepository) loadFavoritesLiteral(ctx context.Context) ([]favorite.FollowedSport, error) {
	query := "SELECT value FROM " + kvTable + " WHERE key = " + quoteLiteral(r.key) + " LIMIT 1"

	var value string
	if err := r.db.GetContext(ctx, &value, query); err != nil {
		if isNotFound(err) {
			return []favorite.FollowedSport{}, nil
		}
		return nil, fmt.Errorf("load favorites literal fallback: %w", err)
	}
	return favorite.DecodeDocument([]byte(value))
}

func (r *FavoritesRepository) SaveFavorites(ctx context.Context, sports []favorite.FollowedSport) error {
	doc, err := favorite.EncodeDocument(sports)
	if err != nil {
		return err
	}

	query, args, err := qb.InsertModel(qb.Postgres, kvTable, kvTableModel{
		Key:       r.key,
		Value:     string(doc),
		UpdatedAt: r.now().UTC(),
	}, kvUpsertSuffix)
	if err != nil {
		return fmt.Errorf("build save favorites query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save favorites: %w", err)
	}
	return nil
}
