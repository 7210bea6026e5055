// Package sqlite persists favorites in a local SQLite file, the default
// backend of the command line planner.
package sqlite

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/day-planner/internal/domain/favorite"
	qb "github.com/riskibarqy/day-planner/internal/platform/querybuilder"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	_ "modernc.org/sqlite"
)

const (
	kvTable             = "kv_store"
	defaultFavoritesKey = "favorites"
	kvUpsertSuffix      = "ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at"
)

const schema = `CREATE TABLE IF NOT EXISTS kv_store (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at TEXT NOT NULL
)`

type kvTableModel struct {
	Key       string `db:"key"`
	Value     string `db:"value"`
	UpdatedAt string `db:"updated_at"`
}

// Open opens (creating if needed) the database file at path and ensures the
// kv_store table exists.
func Open(ctx context.Context, path string) (*sqlx.DB, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create sqlite dir: %w", err)
		}
	}

	db, err := otelsqlx.Open("sqlite", path+"?_pragma=busy_timeout(5000)", otelsql.WithDBSystem("sqlite"))
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := ensureSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func ensureSchema(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("ensure sqlite schema: %w", err)
	}
	return nil
}

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
	query, args, err := qb.Select(qb.SQLite, "value").
		From(kvTable).
		Where(qb.Eq("key", r.key)).
		Limit(1).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build load favorites query: %w", err)
	}

	var values []string
	if err := r.db.SelectContext(ctx, &values, query, args...); err != nil {
		return nil, fmt.Errorf("load favorites: %w", err)
	}
	if len(values) == 0 {
		return []favorite.FollowedSport{}, nil
	}
	return favorite.DecodeDocument([]byte(values[0]))
}

func (r *FavoritesRepository) SaveFavorites(ctx context.Context, sports []favorite.FollowedSport) error {
	doc, err := favorite.EncodeDocument(sports)
	if err != nil {
		return err
	}
	if err := r.put(ctx, string(doc)); err != nil {
		return fmt.Errorf("save favorites: %w", err)
	}
	return nil
}

func (r *FavoritesRepository) put(ctx context.Context, value string) error {
	query, args, err := qb.InsertModel(qb.SQLite, kvTable, kvTableModel{
		Key:       r.key,
		Value:     value,
		UpdatedAt: r.now().UTC().Format(time.RFC3339Nano),
	}, kvUpsertSuffix)
	if err != nil {
		return fmt.Errorf("build upsert query: %w", err)
	}
	_, err = r.db.ExecContext(ctx, query, args...)
	return err
}
