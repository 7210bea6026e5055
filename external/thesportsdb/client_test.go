package thesportsdb

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/riskibarqy/day-planner/external/sportsapi"
	"github.com/riskibarqy/day-planner/internal/domain/favorite"
	"github.com/riskibarqy/day-planner/internal/domain/fixture"
	"github.com/riskibarqy/day-planner/internal/platform/logging"
	"github.com/riskibarqy/day-planner/internal/platform/resilience"
)

const eventsDayPayload = `{
  "events": [
    {
      "idEvent": "2001",
      "strEvent": "Arsenal vs Chelsea",
      "strHomeTeam": "Arsenal",
      "strAwayTeam": "Chelsea",
      "strLeague": "English Premier League",
      "dateEvent": "2024-06-01",
      "strTime": "19:45:00",
      "strTimestamp": "2024-06-01T19:45:00",
      "strVenue": "Emirates Stadium"
    },
    {
      "idEvent": "2002",
      "strEvent": "Everton vs Fulham",
      "strHomeTeam": "Everton",
      "strAwayTeam": "Fulham",
      "strLeague": "English Premier League",
      "dateEvent": "2024-06-01",
      "strTime": "15:00:00",
      "strVenue": "Goodison Park"
    }
  ]
}`

// eventsOn serves eventsDayPayload for 2024-06-01 and no events for every
// other day.
func eventsOn(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("d") != "2024-06-01" {
		_, _ = w.Write([]byte(`{"events":null}`))
		return
	}
	_, _ = w.Write([]byte(eventsDayPayload))
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *atomic.Int32) {
	t.Helper()
	return newTestClientIn(t, time.UTC, handler)
}

func newTestClientIn(t *testing.T, loc *time.Location, handler http.HandlerFunc) (*Client, *atomic.Int32) {
	t.Helper()

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		handler(w, r)
	}))
	t.Cleanup(server.Close)

	transport := sportsapi.NewClient(sportsapi.ClientConfig{
		Name:           "thesportsdb",
		Fetcher:        sportsapi.NewHTTPFetcher(server.Client(), time.Second),
		Secrets:        []string{"test-key"},
		Logger:         logging.NewNop(),
		CircuitBreaker: resilience.CircuitBreakerConfig{Enabled: false},
	})

	return NewClient(Config{
		HTTP:     transport,
		Cache:    sportsapi.NewFixtureCache(0),
		BaseURL:  server.URL + "/api/v1/json",
		APIKey:   "test-key",
		Location: loc,
		Logger:   logging.NewNop(),
	}), &calls
}

func TestClient_Fetch_NormalizesFollowedFixtures(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/json/test-key/eventsday.php" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("s"); got != "Soccer" {
			t.Errorf("unexpected sport param %q", got)
		}
		eventsOn(w, r)
	})

	items, err := client.Fetch(context.Background(), fixture.Query{
		Date:  civil.Date{Year: 2024, Month: time.June, Day: 1},
		Sport: "Football",
		Teams: []favorite.FollowedTeam{{Name: "arsenal"}},
	})
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected one followed fixture, got=%d", len(items))
	}

	item := items[0]
	if item.Title != "Soccer: Arsenal vs Chelsea" {
		t.Fatalf("unexpected title %q", item.Title)
	}
	if item.Kind != "fixture" || item.Venue != "Emirates Stadium" || item.SourceNote != "English Premier League" {
		t.Fatalf("unexpected item fields: %+v", item)
	}
	wantStart := time.Date(2024, 6, 1, 19, 45, 0, 0, time.UTC)
	if item.StartTime == nil || !item.StartTime.Equal(wantStart) {
		t.Fatalf("unexpected start %v", item.StartTime)
	}
	if item.EndTime == nil || !item.EndTime.Equal(wantStart.Add(2*time.Hour)) {
		t.Fatalf("unexpected end %v", item.EndTime)
	}
	if item.ID == "" {
		t.Fatalf("expected generated id")
	}
}

func TestClient_Fetch_WarmCacheMakesOneNetworkCall(t *testing.T) {
	t.Parallel()

	client, calls := newTestClient(t, eventsOn)

	q := fixture.Query{
		Date:  civil.Date{Year: 2024, Month: time.June, Day: 1},
		Sport: "Soccer",
		Teams: []favorite.FollowedTeam{{Name: "Arsenal"}},
	}
	first, err := client.Fetch(context.Background(), q)
	if err != nil {
		t.Fatalf("first fetch: %v", err)
	}
	second, err := client.Fetch(context.Background(), q)
	if err != nil {
		t.Fatalf("second fetch: %v", err)
	}

	// One call each for the requested day and its two neighbours.
	if got := calls.Load(); got != 3 {
		t.Fatalf("expected three network calls, got=%d", got)
	}
	if len(first) != len(second) || first[0].Title != second[0].Title || !first[0].StartTime.Equal(*second[0].StartTime) {
		t.Fatalf("expected identical results, got %+v and %+v", first, second)
	}

	other, err := client.Fetch(context.Background(), fixture.Query{Date: q.Date, Sport: "Soccer", Teams: []favorite.FollowedTeam{{Name: "Everton"}}})
	if err != nil {
		t.Fatalf("third fetch: %v", err)
	}
	if len(other) != 1 || other[0].Title != "Soccer: Everton vs Fulham" {
		t.Fatalf("expected cached payload to be filtered per team set, got %+v", other)
	}
	if got := calls.Load(); got != 3 {
		t.Fatalf("expected cached urls to be reused, calls=%d", got)
	}
}

func TestClient_Fetch_NullEventsIsEmpty(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"events":null}`))
	})

	items, err := client.Fetch(context.Background(), fixture.Query{
		Date:  civil.Date{Year: 2024, Month: time.June, Day: 1},
		Sport: "Cricket",
		Teams: []favorite.FollowedTeam{{Name: "India"}},
	})
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected no items, got=%d", len(items))
	}
}

func TestClient_Fetch_AliasSportsGetDistinctIDs(t *testing.T) {
	t.Parallel()

	client, calls := newTestClient(t, eventsOn)
	day := civil.Date{Year: 2024, Month: time.June, Day: 1}
	teams := []favorite.FollowedTeam{{Name: "Arsenal"}}

	football, err := client.Fetch(context.Background(), fixture.Query{Date: day, Sport: "Football", Teams: teams})
	if err != nil {
		t.Fatalf("football fetch: %v", err)
	}
	soccer, err := client.Fetch(context.Background(), fixture.Query{Date: day, Sport: "Soccer", Teams: teams})
	if err != nil {
		t.Fatalf("soccer fetch: %v", err)
	}

	if len(football) != 1 || len(soccer) != 1 {
		t.Fatalf("expected one item each, got %d and %d", len(football), len(soccer))
	}
	if football[0].ID == "" || football[0].ID == soccer[0].ID {
		t.Fatalf("expected distinct ids, got %q and %q", football[0].ID, soccer[0].ID)
	}
	if got := calls.Load(); got != 3 {
		t.Fatalf("expected both sports to share cached urls, calls=%d", got)
	}
}

func TestClient_Fetch_BucketsByLocalStartDate(t *testing.T) {
	t.Parallel()

	plus7 := time.FixedZone("UTC+7", 7*60*60)
	client, _ := newTestClientIn(t, plus7, eventsOn)
	teams := []favorite.FollowedTeam{{Name: "Arsenal"}, {Name: "Everton"}}

	// 19:45Z on June 1 is 02:45 on June 2 at UTC+7. Everton's 15:00Z kickoff
	// stays on June 1.
	june2, err := client.Fetch(context.Background(), fixture.Query{
		Date:  civil.Date{Year: 2024, Month: time.June, Day: 2},
		Sport: "Soccer",
		Teams: teams,
	})
	if err != nil {
		t.Fatalf("fetch june 2: %v", err)
	}
	if len(june2) != 1 || june2[0].Title != "Soccer: Arsenal vs Chelsea" {
		t.Fatalf("unexpected june 2 items %+v", june2)
	}
	if june2[0].CalendarDate.String() != "2024-06-02" {
		t.Fatalf("unexpected calendar date %s", june2[0].CalendarDate)
	}
	if june2[0].StartTime == nil || june2[0].StartTime.Hour() != 2 || june2[0].StartTime.Minute() != 45 {
		t.Fatalf("unexpected local start %v", june2[0].StartTime)
	}

	june1, err := client.Fetch(context.Background(), fixture.Query{
		Date:  civil.Date{Year: 2024, Month: time.June, Day: 1},
		Sport: "Soccer",
		Teams: teams,
	})
	if err != nil {
		t.Fatalf("fetch june 1: %v", err)
	}
	if len(june1) != 1 || june1[0].Title != "Soccer: Everton vs Fulham" {
		t.Fatalf("unexpected june 1 items %+v", june1)
	}
}

func TestProviderSport(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"Football":             "Soccer",
		" american  football ": "American Football",
		"darts":                "Darts",
		"Motorsport":           "Motorsport",
	}
	for in, want := range tests {
		if got := ProviderSport(in); got != want {
			t.Fatalf("ProviderSport(%q)=%q want=%q", in, got, want)
		}
	}
}
