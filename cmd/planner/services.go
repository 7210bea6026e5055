package main

import (
	"context"
	"time"

	"cloud.google.com/go/civil"
	"github.com/riskibarqy/day-planner/internal/app"
	"github.com/riskibarqy/day-planner/internal/domain/favorite"
	"github.com/riskibarqy/day-planner/internal/domain/timeline"
	"github.com/riskibarqy/day-planner/internal/usecase"
)

type dayView struct {
	date     civil.Date
	location *time.Location
	items    []timeline.Item
}

type followedSport = favorite.FollowedSport

// appServices adapts the wired usecases to the command set.
type appServices struct {
	app *app.App
}

func (s *appServices) today() civil.Date {
	return s.app.Timeline.Today()
}

func (s *appServices) day(ctx context.Context, date civil.Date, includeCompleted bool) (dayView, error) {
	view, err := s.app.Timeline.Day(ctx, date, includeCompleted)
	if err != nil {
		return dayView{}, err
	}
	return s.toDayView(view), nil
}

func (s *appServices) days(ctx context.Context, from civil.Date, n int, includeCompleted bool) ([]dayView, error) {
	views, err := s.app.Timeline.Range(ctx, from, n, includeCompleted)
	if err != nil {
		return nil, err
	}
	out := make([]dayView, 0, len(views))
	for _, view := range views {
		out = append(out, s.toDayView(view))
	}
	return out, nil
}

func (s *appServices) fixtures(ctx context.Context, date civil.Date) (dayView, error) {
	items, err := s.app.Timeline.Fixtures(ctx, date)
	if err != nil {
		return dayView{}, err
	}
	return dayView{date: date, location: s.app.Timeline.Location(), items: items}, nil
}

func (s *appServices) favorites() []followedSport {
	return s.app.Favorites.List()
}

func (s *appServices) addFavorite(ctx context.Context, sport, team string) ([]followedSport, error) {
	return s.app.Favorites.Add(ctx, sport, team)
}

func (s *appServices) removeFavorite(ctx context.Context, sport, team string) ([]followedSport, error) {
	if team == "" {
		return s.app.Favorites.RemoveSport(ctx, sport)
	}
	return s.app.Favorites.Remove(ctx, sport, team)
}

func (s *appServices) close() error {
	return s.app.Close()
}

func (s *appServices) toDayView(view usecase.DayView) dayView {
	return dayView{date: view.Date, location: s.app.Timeline.Location(), items: view.Items}
}
