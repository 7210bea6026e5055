package sportsapi

import (
	"context"
	"errors"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/riskibarqy/day-planner/internal/domain/favorite"
	"github.com/riskibarqy/day-planner/internal/domain/fixture"
	"github.com/riskibarqy/day-planner/internal/domain/timeline"
	"github.com/riskibarqy/day-planner/internal/platform/logging"
)

func TestBuildURL_IsDeterministic(t *testing.T) {
	t.Parallel()

	a := BuildURL("https://statsapi.mlb.com/", "/api/v1/schedule", url.Values{"sportId": {"1"}, "date": {"2024-06-01"}})
	b := BuildURL("https://statsapi.mlb.com", "api/v1/schedule", url.Values{"date": {"2024-06-01"}, "sportId": {"1"}})
	if a != b {
		t.Fatalf("expected identical urls, got %s and %s", a, b)
	}
	if a != "https://statsapi.mlb.com/api/v1/schedule?date=2024-06-01&sportId=1" {
		t.Fatalf("unexpected url %s", a)
	}
}

func TestParseProviderDateTime(t *testing.T) {
	t.Parallel()

	want := time.Date(2024, 6, 1, 23, 5, 0, 0, time.UTC)
	for _, raw := range []string{"2024-06-01T23:05:00Z", "2024-06-01T23:05:00+00:00", "2024-06-01T23:05:00", "2024-06-01 23:05:00"} {
		got := ParseProviderDateTime(raw)
		if got == nil || !got.Equal(want) {
			t.Fatalf("ParseProviderDateTime(%q)=%v want=%s", raw, got, want)
		}
	}
	if ParseProviderDateTime("TBD") != nil {
		t.Fatalf("expected nil for unparseable value")
	}
}

func TestSelectFollowed_FiltersByDateAndTeam(t *testing.T) {
	t.Parallel()

	day := civil.Date{Year: 2024, Month: time.June, Day: 1}
	fixtures := []Fixture{
		{Item: timeline.Item{Title: "a", CalendarDate: day}, MatchNames: []string{"Arsenal", "Chelsea"}},
		{Item: timeline.Item{Title: "b", CalendarDate: day}, MatchNames: []string{"Everton", "Fulham"}},
		{Item: timeline.Item{Title: "c", CalendarDate: day.AddDays(1)}, MatchNames: []string{"Arsenal", "Spurs"}},
	}

	got := SelectFollowed(fixtures, fixture.Query{
		Date:  day,
		Teams: []favorite.FollowedTeam{{Name: "arsenal"}},
	}, favorite.SubstringMatcher{}, nil)

	if len(got) != 1 || got[0].Title != "a" || got[0].ID == "" {
		t.Fatalf("unexpected selection: %+v", got)
	}
}

func TestSelectFollowed_EachSelectionGetsFreshIDs(t *testing.T) {
	t.Parallel()

	day := civil.Date{Year: 2024, Month: time.June, Day: 1}
	fixtures := []Fixture{
		{Item: timeline.Item{ID: "cached", Title: "Soccer: Arsenal vs Chelsea", CalendarDate: day}, MatchNames: []string{"Arsenal", "Chelsea"}},
	}
	q := fixture.Query{Date: day, Teams: []favorite.FollowedTeam{{Name: "Arsenal"}}}

	// "Football" and "Soccer" favorites read the same cached URL.
	first := SelectFollowed(fixtures, q, favorite.SubstringMatcher{}, nil)
	second := SelectFollowed(fixtures, q, favorite.SubstringMatcher{}, nil)
	if len(first) != 1 || len(second) != 1 {
		t.Fatalf("expected one item per selection, got %d and %d", len(first), len(second))
	}
	if first[0].ID == "cached" || first[0].ID == second[0].ID {
		t.Fatalf("expected distinct fresh ids, got %q and %q", first[0].ID, second[0].ID)
	}
	if fixtures[0].Item.ID != "cached" {
		t.Fatalf("cached fixture was mutated: %q", fixtures[0].Item.ID)
	}
}

func TestLocalDate(t *testing.T) {
	t.Parallel()

	listed := civil.Date{Year: 2024, Month: time.June, Day: 1}
	if got := LocalDate(nil, listed); got != listed {
		t.Fatalf("expected listed date without a start, got %s", got)
	}
	start := time.Date(2024, 6, 2, 6, 5, 0, 0, time.FixedZone("UTC+7", 7*60*60))
	if got := LocalDate(&start, listed); got.String() != "2024-06-02" {
		t.Fatalf("expected local start date, got %s", got)
	}
}

func TestProviderDays(t *testing.T) {
	t.Parallel()

	got := ProviderDays(civil.Date{Year: 2024, Month: time.March, Day: 1})
	want := []string{"2024-03-01", "2024-02-29", "2024-03-02"}
	if len(got) != len(want) {
		t.Fatalf("unexpected days %v", got)
	}
	for i := range want {
		if got[i].String() != want[i] {
			t.Fatalf("day %d: got %s want %s", i, got[i], want[i])
		}
	}
}

func TestLoadFixtureDays_NeighbourFailureIsSkipped(t *testing.T) {
	t.Parallel()

	day := civil.Date{Year: 2024, Month: time.June, Day: 1}
	urlFor := func(d civil.Date) string { return "https://statsapi.mlb.com/api/v1/schedule?date=" + d.String() }
	load := func(_ context.Context, d civil.Date, _ string) ([]Fixture, error) {
		if d == day.AddDays(1) {
			return nil, errors.New("upstream 502")
		}
		return []Fixture{{Item: timeline.Item{Title: d.String()}}}, nil
	}

	got, err := LoadFixtureDays(context.Background(), NewFixtureCache(0), fixture.ProviderBaseball, ProviderDays(day), urlFor, load, logging.NewNop())
	if err != nil {
		t.Fatalf("load fixture days: %v", err)
	}
	if len(got) != 2 || got[0].Item.Title != "2024-06-01" || got[1].Item.Title != "2024-05-31" {
		t.Fatalf("unexpected fixtures %+v", got)
	}
}

func TestLoadFixtureDays_RequestedDayFailureIsReturned(t *testing.T) {
	t.Parallel()

	day := civil.Date{Year: 2024, Month: time.June, Day: 1}
	boom := errors.New("boom")
	load := func(_ context.Context, d civil.Date, _ string) ([]Fixture, error) {
		if d == day {
			return nil, boom
		}
		return []Fixture{{}}, nil
	}

	_, err := LoadFixtureDays(context.Background(), NewFixtureCache(0), fixture.ProviderBaseball, ProviderDays(day), civil.Date.String, load, logging.NewNop())
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
}

func TestLoadFixtures_WarmCacheSkipsLoad(t *testing.T) {
	t.Parallel()

	store := NewFixtureCache(0)
	var loads atomic.Int32
	load := func(context.Context) ([]Fixture, error) {
		loads.Add(1)
		return []Fixture{{Item: timeline.Item{ID: "x"}}}, nil
	}

	for i := 0; i < 3; i++ {
		got, err := LoadFixtures(context.Background(), store, fixture.ProviderHockey, "https://api-web.nhle.com/v1/schedule/2024-06-01", load)
		if err != nil {
			t.Fatalf("load fixtures: %v", err)
		}
		if len(got) != 1 || got[0].Item.ID != "x" {
			t.Fatalf("unexpected fixtures: %+v", got)
		}
	}
	if got := loads.Load(); got != 1 {
		t.Fatalf("expected one load, got=%d", got)
	}
}

func TestLoadFixtures_ErrorsAreNotCached(t *testing.T) {
	t.Parallel()

	store := NewFixtureCache(0)
	boom := errors.New("boom")
	if _, err := LoadFixtures(context.Background(), store, fixture.ProviderHockey, "u", func(context.Context) ([]Fixture, error) {
		return nil, boom
	}); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got=%v", err)
	}
	if store.Len() != 0 {
		t.Fatalf("expected empty cache after failed load")
	}
}
