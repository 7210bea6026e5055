package usecase

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/riskibarqy/day-planner/internal/domain/favorite"
	"github.com/riskibarqy/day-planner/internal/domain/fixture"
	"github.com/riskibarqy/day-planner/internal/domain/timeline"
	fixturemock "github.com/riskibarqy/day-planner/internal/mocks/domain/fixture"
	"github.com/riskibarqy/day-planner/internal/platform/logging"
	"github.com/stretchr/testify/mock"
)

var aggregateDate = civil.Date{Year: 2024, Month: time.June, Day: 1}

func newMockSource(t *testing.T, provider fixture.Provider) *fixturemock.Source {
	t.Helper()
	source := fixturemock.NewSource(t)
	source.On("Provider").Return(provider)
	return source
}

func fixtureItem(id, title string) timeline.Item {
	start := time.Date(2024, 6, 1, 18, 0, 0, 0, time.UTC)
	return timeline.Item{
		ID:           id,
		Title:        title,
		Kind:         timeline.KindFixture,
		CalendarDate: aggregateDate,
		StartTime:    &start,
	}
}

func TestAggregator_EmptyFavoritesMakesNoCalls(t *testing.T) {
	t.Parallel()

	generic := newMockSource(t, fixture.ProviderGenericLeague)
	aggregator := NewAggregator(NewSourceRegistry(generic), AggregatorConfig{}, logging.NewNop())

	got := aggregator.Aggregate(context.Background(), aggregateDate, nil)
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil result, got %#v", got)
	}
	generic.AssertNotCalled(t, "Fetch", mock.Anything, mock.Anything)
}

func TestAggregator_SkipsSportsWithoutTeams(t *testing.T) {
	t.Parallel()

	generic := newMockSource(t, fixture.ProviderGenericLeague)
	aggregator := NewAggregator(NewSourceRegistry(generic), AggregatorConfig{}, logging.NewNop())

	got := aggregator.Aggregate(context.Background(), aggregateDate, []favorite.FollowedSport{
		{Name: "Soccer"},
	})
	if len(got) != 0 {
		t.Fatalf("expected no fixtures, got=%d", len(got))
	}
	generic.AssertNotCalled(t, "Fetch", mock.Anything, mock.Anything)
}

func TestAggregator_PartialFailureKeepsOtherSources(t *testing.T) {
	t.Parallel()

	generic := newMockSource(t, fixture.ProviderGenericLeague)
	baseball := newMockSource(t, fixture.ProviderBaseball)

	generic.
		On("Fetch", mock.Anything, mock.MatchedBy(func(q fixture.Query) bool {
			return q.Sport == "Soccer" && q.Date == aggregateDate && len(q.Teams) == 1
		})).
		Return([]timeline.Item{fixtureItem("s1", "Soccer: Arsenal vs Chelsea")}, nil).
		Once()
	baseball.
		On("Fetch", mock.Anything, mock.MatchedBy(func(q fixture.Query) bool { return q.Sport == "MLB" })).
		Return(nil, fixture.ErrNetwork).
		Once()

	aggregator := NewAggregator(NewSourceRegistry(generic, baseball), AggregatorConfig{MaxConcurrency: 2}, logging.NewNop())
	got := aggregator.Aggregate(context.Background(), aggregateDate, []favorite.FollowedSport{
		{Name: "Soccer", Teams: []favorite.FollowedTeam{{Name: "Arsenal"}}},
		{Name: "MLB", Teams: []favorite.FollowedTeam{{Name: "Yankees"}}},
	})
	if len(got) != 1 || got[0].ID != "s1" {
		t.Fatalf("expected only the soccer fixture, got %#v", got)
	}
}

func TestAggregator_AllSourcesFailingYieldsEmpty(t *testing.T) {
	t.Parallel()

	generic := newMockSource(t, fixture.ProviderGenericLeague)
	generic.
		On("Fetch", mock.Anything, mock.Anything).
		Return(nil, errors.New("boom")).
		Twice()

	aggregator := NewAggregator(NewSourceRegistry(generic), AggregatorConfig{}, logging.NewNop())
	got := aggregator.Aggregate(context.Background(), aggregateDate, []favorite.FollowedSport{
		{Name: "Soccer", Teams: []favorite.FollowedTeam{{Name: "Arsenal"}}},
		{Name: "Rugby", Teams: []favorite.FollowedTeam{{Name: "Leinster"}}},
	})
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil result, got %#v", got)
	}
}

func TestAggregator_CancelStopsInFlightFetches(t *testing.T) {
	t.Parallel()

	started := make(chan struct{}, 2)
	var cancelled atomic.Int32
	blockUntilDone := func(args mock.Arguments) {
		ctx := args.Get(0).(context.Context)
		started <- struct{}{}
		<-ctx.Done()
		cancelled.Add(1)
	}

	generic := newMockSource(t, fixture.ProviderGenericLeague)
	generic.
		On("Fetch", mock.Anything, mock.Anything).
		Run(blockUntilDone).
		Return(nil, context.Canceled).
		Once()
	baseball := newMockSource(t, fixture.ProviderBaseball)
	baseball.
		On("Fetch", mock.Anything, mock.Anything).
		Run(blockUntilDone).
		Return(nil, context.Canceled).
		Once()

	aggregator := NewAggregator(NewSourceRegistry(generic, baseball), AggregatorConfig{}, logging.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan []timeline.Item, 1)
	go func() {
		done <- aggregator.Aggregate(ctx, aggregateDate, []favorite.FollowedSport{
			{Name: "Soccer", Teams: []favorite.FollowedTeam{{Name: "Arsenal"}}},
			{Name: "MLB", Teams: []favorite.FollowedTeam{{Name: "Yankees"}}},
		})
	}()

	for i := 0; i < 2; i++ {
		select {
		case <-started:
		case <-time.After(time.Second):
			t.Fatalf("fetch %d never started", i+1)
		}
	}
	cancel()

	select {
	case got := <-done:
		if len(got) != 0 {
			t.Fatalf("expected no fixtures after cancel, got %#v", got)
		}
	case <-time.After(time.Second):
		t.Fatalf("aggregate did not return after cancel")
	}
	if got := cancelled.Load(); got != 2 {
		t.Fatalf("expected both fetches to observe cancellation, got %d", got)
	}
}

func TestSourceRegistry_ResolveAliasesAndFallback(t *testing.T) {
	t.Parallel()

	generic := newMockSource(t, fixture.ProviderGenericLeague)
	hockey := newMockSource(t, fixture.ProviderHockey)
	motorsport := newMockSource(t, fixture.ProviderMotorsport)
	registry := NewSourceRegistry(generic, hockey, motorsport)

	tests := []struct {
		sport string
		want  fixture.Provider
	}{
		{sport: "Hockey", want: fixture.ProviderHockey},
		{sport: "  ICE   hockey ", want: fixture.ProviderHockey},
		{sport: "F1", want: fixture.ProviderMotorsport},
		{sport: "Formula 1", want: fixture.ProviderMotorsport},
		{sport: "Curling", want: fixture.ProviderGenericLeague},
		// No dedicated baseball source registered.
		{sport: "Baseball", want: fixture.ProviderGenericLeague},
	}
	for _, tc := range tests {
		source, ok := registry.Resolve(tc.sport)
		if !ok {
			t.Fatalf("resolve %q: no source", tc.sport)
		}
		if source.Provider() != tc.want {
			t.Fatalf("resolve %q: got=%s want=%s", tc.sport, source.Provider(), tc.want)
		}
	}

	if _, ok := NewSourceRegistry().Resolve("Soccer"); ok {
		t.Fatalf("expected empty registry to resolve nothing")
	}
}
