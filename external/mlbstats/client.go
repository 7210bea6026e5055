package mlbstats

import (
	"context"
	"net/url"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/riskibarqy/day-planner/external/sportsapi"
	"github.com/riskibarqy/day-planner/internal/domain/favorite"
	"github.com/riskibarqy/day-planner/internal/domain/fixture"
	"github.com/riskibarqy/day-planner/internal/domain/timeline"
	idgen "github.com/riskibarqy/day-planner/internal/platform/id"
	"github.com/riskibarqy/day-planner/internal/platform/logging"
)

const (
	defaultBaseURL = "https://statsapi.mlb.com"
	defaultLabel   = "Baseball"
	sourceNote     = "MLB Game"
)

type Config struct {
	HTTP     *sportsapi.Client
	Cache    *sportsapi.FixtureCache
	BaseURL  string
	Label    string
	Location *time.Location
	Matcher  favorite.Matcher
	IDs      idgen.Generator
	Logger   *logging.Logger
}

// Client reads the MLB Stats API schedule for a single date.
type Client struct {
	http     *sportsapi.Client
	cache    *sportsapi.FixtureCache
	baseURL  string
	label    string
	location *time.Location
	matcher  favorite.Matcher
	ids      idgen.Generator
	logger   *logging.Logger
}

func NewClient(cfg Config) *Client {
	c := &Client{
		http:     cfg.HTTP,
		cache:    cfg.Cache,
		baseURL:  strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		label:    strings.TrimSpace(cfg.Label),
		location: cfg.Location,
		matcher:  cfg.Matcher,
		ids:      cfg.IDs,
		logger:   cfg.Logger,
	}
	if c.http == nil {
		c.http = sportsapi.NewClient(sportsapi.ClientConfig{Name: "mlbstats"})
	}
	if c.baseURL == "" {
		c.baseURL = defaultBaseURL
	}
	if c.label == "" {
		c.label = defaultLabel
	}
	if c.location == nil {
		c.location = time.Local
	}
	if c.matcher == nil {
		c.matcher = favorite.SubstringMatcher{}
	}
	if c.ids == nil {
		c.ids = idgen.NewUUIDGenerator()
	}
	if c.logger == nil {
		c.logger = logging.Default()
	}
	return c
}

func (c *Client) Provider() fixture.Provider {
	return fixture.ProviderBaseball
}

// Fetch reads the schedules of the query date and its neighbours, since MLB
// dates games by their official (US) date.
func (c *Client) Fetch(ctx context.Context, q fixture.Query) ([]timeline.Item, error) {
	fixtures, err := sportsapi.LoadFixtureDays(ctx, c.cache, c.Provider(), sportsapi.ProviderDays(q.Date), c.requestURL,
		func(ctx context.Context, day civil.Date, rawURL string) ([]sportsapi.Fixture, error) {
			var payload scheduleEnvelope
			if err := c.http.GetJSON(ctx, rawURL, &payload); err != nil {
				return nil, err
			}
			return c.normalize(day, payload), nil
		}, c.logger)
	if err != nil {
		return nil, err
	}

	items := sportsapi.SelectFollowed(fixtures, q, c.matcher, c.ids)
	c.logger.DebugContext(ctx, "mlb fixtures selected", "date", q.Date.String(), "total", len(fixtures), "selected", len(items))
	return items, nil
}

func (c *Client) requestURL(day civil.Date) string {
	return sportsapi.BuildURL(c.baseURL, "/api/v1/schedule", url.Values{
		"date":    {day.String()},
		"hydrate": {"team,venue"},
		"sportId": {"1"},
	})
}

// normalize buckets each game on the local date of its first pitch. Games
// without a time fall back to the official date.
func (c *Client) normalize(requested civil.Date, payload scheduleEnvelope) []sportsapi.Fixture {
	out := make([]sportsapi.Fixture, 0)
	for _, day := range payload.Dates {
		for _, g := range day.Games {
			home := strings.TrimSpace(g.Teams.Home.Team.Name)
			away := strings.TrimSpace(g.Teams.Away.Team.Name)
			if home == "" || away == "" {
				continue
			}

			listed, ok := sportsapi.ParseDate(sportsapi.FirstNonEmpty(g.OfficialDate, day.Date))
			if !ok {
				listed = requested
			}

			start := sportsapi.InLocation(sportsapi.ParseProviderDateTime(g.GameDate), c.location)
			startTime, endTime := fixture.Window(start, fixture.DefaultDuration(fixture.ProviderBaseball))

			note := sourceNote
			if state := strings.TrimSpace(g.Status.DetailedState); isDisruptedState(state) {
				note += " (" + state + ")"
			}

			out = append(out, sportsapi.Fixture{
				Item: timeline.Item{
					Title:        sportsapi.MatchTitle(c.label, home, away),
					Kind:         timeline.KindFixture,
					CalendarDate: sportsapi.LocalDate(start, listed),
					StartTime:    startTime,
					EndTime:      endTime,
					Venue:        strings.TrimSpace(g.Venue.Name),
					SourceNote:   note,
				},
				MatchNames: []string{home, away},
			})
		}
	}
	return out
}

func isDisruptedState(state string) bool {
	switch strings.ToLower(state) {
	case "postponed", "cancelled", "suspended":
		return true
	default:
		return false
	}
}
