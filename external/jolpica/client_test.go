package jolpica

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/riskibarqy/day-planner/external/sportsapi"
	"github.com/riskibarqy/day-planner/internal/domain/favorite"
	"github.com/riskibarqy/day-planner/internal/domain/fixture"
	"github.com/riskibarqy/day-planner/internal/platform/logging"
	"github.com/riskibarqy/day-planner/internal/platform/resilience"
)

const seasonPayload = `{
  "MRData": {
    "RaceTable": {
      "season": "2024",
      "Races": [
        {
          "season": "2024",
          "round": "9",
          "raceName": "Canadian Grand Prix",
          "Circuit": {
            "circuitId": "villeneuve",
            "circuitName": "Circuit Gilles Villeneuve",
            "Location": {"locality": "Montreal", "country": "Canada"}
          },
          "date": "2024-06-01",
          "time": "18:00:00Z",
          "FirstPractice": {"date": "2024-06-01", "time": "10:00:00Z"},
          "SecondPractice": {"date": "2024-05-31", "time": "15:00:00Z"},
          "Qualifying": {"date": "2024-06-01", "time": "14:00:00Z"}
        },
        {
          "season": "2024",
          "round": "10",
          "raceName": "Spanish Grand Prix",
          "Circuit": {
            "circuitId": "catalunya",
            "circuitName": "Circuit de Barcelona-Catalunya",
            "Location": {"locality": "Montmeló", "country": "Spain"}
          },
          "date": "2024-06-23",
          "time": "13:00:00Z"
        }
      ]
    }
  }
}`

func newTestClient(t *testing.T, loc *time.Location, handler http.HandlerFunc) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewClient(Config{
		HTTP: sportsapi.NewClient(sportsapi.ClientConfig{
			Name:           "jolpica",
			Fetcher:        sportsapi.NewHTTPFetcher(server.Client(), time.Second),
			Logger:         logging.NewNop(),
			CircuitBreaker: resilience.CircuitBreakerConfig{Enabled: false},
		}),
		Cache:    sportsapi.NewFixtureCache(0),
		BaseURL:  server.URL,
		Location: loc,
		Logger:   logging.NewNop(),
	})
}

func TestClient_Fetch_SessionsOnRequestedDate(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, time.UTC, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/ergast/f1/2024.json" || r.URL.Query().Get("limit") != "100" {
			t.Errorf("unexpected request %s", r.URL.String())
		}
		_, _ = w.Write([]byte(seasonPayload))
	})

	items, err := client.Fetch(context.Background(), fixture.Query{
		Date:  civil.Date{Year: 2024, Month: time.June, Day: 1},
		Sport: "Formula 1",
		Teams: []favorite.FollowedTeam{{Name: "Formula 1"}},
	})
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected three sessions, got=%d", len(items))
	}

	expected := []struct {
		title    string
		start    time.Time
		duration time.Duration
	}{
		{title: "Formula 1: Canadian Grand Prix - Practice 1", start: time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC), duration: time.Hour},
		{title: "Formula 1: Canadian Grand Prix - Qualifying", start: time.Date(2024, 6, 1, 14, 0, 0, 0, time.UTC), duration: time.Hour},
		{title: "Formula 1: Canadian Grand Prix - Race", start: time.Date(2024, 6, 1, 18, 0, 0, 0, time.UTC), duration: 2 * time.Hour},
	}
	for i, want := range expected {
		item := items[i]
		if item.Title != want.title {
			t.Fatalf("item %d: unexpected title %q", i, item.Title)
		}
		if item.StartTime == nil || !item.StartTime.Equal(want.start) {
			t.Fatalf("item %d: unexpected start %v", i, item.StartTime)
		}
		if item.EndTime == nil || !item.EndTime.Equal(want.start.Add(want.duration)) {
			t.Fatalf("item %d: unexpected end %v", i, item.EndTime)
		}
		if item.Venue != "Circuit Gilles Villeneuve" || item.SourceNote != "Formula 1 Round 9" {
			t.Fatalf("item %d: unexpected venue/source %q %q", i, item.Venue, item.SourceNote)
		}
	}
}

func TestClient_Fetch_MatchesCircuitAndCountry(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, time.UTC, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(seasonPayload))
	})

	items, err := client.Fetch(context.Background(), fixture.Query{
		Date:  civil.Date{Year: 2024, Month: time.June, Day: 23},
		Teams: []favorite.FollowedTeam{{Name: "spain"}},
	})
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(items) != 1 || items[0].Title != "Formula 1: Spanish Grand Prix - Race" {
		t.Fatalf("unexpected items %+v", items)
	}
}

func TestClient_Fetch_BucketsByLocalDate(t *testing.T) {
	t.Parallel()

	tokyo := time.FixedZone("UTC+9", 9*60*60)
	client := newTestClient(t, tokyo, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(seasonPayload))
	})

	// 18:00Z on June 1 is 03:00 on June 2 at UTC+9.
	items, err := client.Fetch(context.Background(), fixture.Query{
		Date:  civil.Date{Year: 2024, Month: time.June, Day: 2},
		Teams: []favorite.FollowedTeam{{Name: "F1"}},
	})
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(items) != 1 || items[0].Title != "Formula 1: Canadian Grand Prix - Race" {
		t.Fatalf("unexpected items %+v", items)
	}
	if items[0].CalendarDate.String() != "2024-06-02" || items[0].StartTime.Hour() != 3 {
		t.Fatalf("expected 03:00 on June 2, got %s %v", items[0].CalendarDate, items[0].StartTime)
	}
}
