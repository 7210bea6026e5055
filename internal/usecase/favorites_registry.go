package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/riskibarqy/day-planner/internal/domain/favorite"
	"github.com/riskibarqy/day-planner/internal/platform/logging"
)

// FavoritesRegistry is the in-memory list of followed sports and teams,
// written through to a favorite.Repository on every change.
type FavoritesRegistry struct {
	repo   favorite.Repository
	logger *logging.Logger

	mu     sync.RWMutex
	loaded bool
	sports []favorite.FollowedSport
}

func NewFavoritesRegistry(repo favorite.Repository, logger *logging.Logger) *FavoritesRegistry {
	if logger == nil {
		logger = logging.Default()
	}
	return &FavoritesRegistry{
		repo:   repo,
		logger: logger,
		sports: []favorite.FollowedSport{},
	}
}

// Load reads persisted favorites once. Missing, unreadable or malformed state
// leaves the registry empty; the error is logged, not returned.
func (r *FavoritesRegistry) Load(ctx context.Context) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FavoritesRegistry.Load")
	defer span.End()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.loadLocked(ctx)
}

func (r *FavoritesRegistry) loadLocked(ctx context.Context) {
	if r.loaded {
		return
	}
	r.loaded = true

	sports, err := r.repo.LoadFavorites(ctx)
	if err != nil {
		reason := "store unavailable"
		if errors.Is(err, favorite.ErrMalformedState) {
			reason = "malformed state"
		}
		r.logger.WarnContext(ctx, "favorites load failed, starting empty", "reason", reason, "error", err)
		r.sports = []favorite.FollowedSport{}
		return
	}
	r.sports = favorite.Prune(sports)
	r.logger.InfoContext(ctx, "favorites loaded", "sports", len(r.sports))
}

// List returns a deep copy of the followed sports.
func (r *FavoritesRegistry) List() []favorite.FollowedSport {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return favorite.CloneAll(r.sports)
}

// Add follows team under sport. Following an already followed team is a
// no-op and does not touch the store.
func (r *FavoritesRegistry) Add(ctx context.Context, sport, team string) ([]favorite.FollowedSport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FavoritesRegistry.Add")
	defer span.End()

	sport = strings.TrimSpace(sport)
	team = strings.TrimSpace(team)
	if sport == "" || team == "" {
		return nil, fmt.Errorf("%w: sport and team are required", ErrInvalidInput)
	}

	return r.mutate(ctx, func(current []favorite.FollowedSport) ([]favorite.FollowedSport, bool) {
		return favorite.Add(current, sport, team)
	})
}

// Remove unfollows team and drops sport once it has no teams left.
func (r *FavoritesRegistry) Remove(ctx context.Context, sport, team string) ([]favorite.FollowedSport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FavoritesRegistry.Remove")
	defer span.End()

	if strings.TrimSpace(sport) == "" || strings.TrimSpace(team) == "" {
		return nil, fmt.Errorf("%w: sport and team are required", ErrInvalidInput)
	}

	return r.mutate(ctx, func(current []favorite.FollowedSport) ([]favorite.FollowedSport, bool) {
		return favorite.Remove(current, sport, team)
	})
}

func (r *FavoritesRegistry) RemoveSport(ctx context.Context, sport string) ([]favorite.FollowedSport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FavoritesRegistry.RemoveSport")
	defer span.End()

	if strings.TrimSpace(sport) == "" {
		return nil, fmt.Errorf("%w: sport is required", ErrInvalidInput)
	}

	return r.mutate(ctx, func(current []favorite.FollowedSport) ([]favorite.FollowedSport, bool) {
		return favorite.RemoveSport(current, sport)
	})
}

// mutate applies change and commits it only once the store accepted it.
// Persisted state is loaded first if Load was never called.
func (r *FavoritesRegistry) mutate(
	ctx context.Context,
	change func([]favorite.FollowedSport) ([]favorite.FollowedSport, bool),
) ([]favorite.FollowedSport, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loadLocked(ctx)

	next, changed := change(r.sports)
	if !changed {
		return favorite.CloneAll(r.sports), nil
	}

	if err := r.repo.SaveFavorites(ctx, favorite.CloneAll(next)); err != nil {
		r.logger.ErrorContext(ctx, "favorites save failed", "error", err)
		return nil, fmt.Errorf("%w: save favorites: %w", ErrPersistenceFailed, err)
	}
	r.sports = next
	return favorite.CloneAll(r.sports), nil
}
