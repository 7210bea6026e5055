package thesportsdb

import (
	"context"
	"net/url"
	"strings"
	"time"
	"unicode"

	"cloud.google.com/go/civil"
	"github.com/riskibarqy/day-planner/external/sportsapi"
	"github.com/riskibarqy/day-planner/internal/domain/favorite"
	"github.com/riskibarqy/day-planner/internal/domain/fixture"
	"github.com/riskibarqy/day-planner/internal/domain/timeline"
	idgen "github.com/riskibarqy/day-planner/internal/platform/id"
	"github.com/riskibarqy/day-planner/internal/platform/logging"
)

const (
	defaultBaseURL = "https://www.thesportsdb.com/api/v1/json"
	defaultAPIKey  = "3"
)

// providerSports maps common sport names onto TheSportsDB's sport labels.
var providerSports = map[string]string{
	"football":          "Soccer",
	"soccer":            "Soccer",
	"basketball":        "Basketball",
	"nba":               "Basketball",
	"american football": "American Football",
	"nfl":               "American Football",
	"ice hockey":        "Ice Hockey",
	"rugby":             "Rugby",
	"cricket":           "Cricket",
	"volleyball":        "Volleyball",
	"handball":          "Handball",
	"tennis":            "Tennis",
}

type Config struct {
	HTTP     *sportsapi.Client
	Cache    *sportsapi.FixtureCache
	BaseURL  string
	APIKey   string
	Location *time.Location
	Matcher  favorite.Matcher
	IDs      idgen.Generator
	Logger   *logging.Logger
}

// Client is the generic league source backed by TheSportsDB's events-by-day
// endpoint. It serves any sport without a dedicated source.
type Client struct {
	http     *sportsapi.Client
	cache    *sportsapi.FixtureCache
	baseURL  string
	apiKey   string
	location *time.Location
	matcher  favorite.Matcher
	ids      idgen.Generator
	logger   *logging.Logger
}

func NewClient(cfg Config) *Client {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		apiKey = defaultAPIKey
	}
	httpClient := cfg.HTTP
	if httpClient == nil {
		httpClient = sportsapi.NewClient(sportsapi.ClientConfig{Name: "thesportsdb", Secrets: []string{apiKey}})
	}
	location := cfg.Location
	if location == nil {
		location = time.Local
	}
	matcher := cfg.Matcher
	if matcher == nil {
		matcher = favorite.SubstringMatcher{}
	}
	ids := cfg.IDs
	if ids == nil {
		ids = idgen.NewUUIDGenerator()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	return &Client{
		http:     httpClient,
		cache:    cfg.Cache,
		baseURL:  baseURL,
		apiKey:   apiKey,
		location: location,
		matcher:  matcher,
		ids:      ids,
		logger:   logger,
	}
}

func (c *Client) Provider() fixture.Provider {
	return fixture.ProviderGenericLeague
}

// Fetch reads the events of the query date and its neighbours. dateEvent is
// a UTC date, so a local evening or early morning can sit on either side.
func (c *Client) Fetch(ctx context.Context, q fixture.Query) ([]timeline.Item, error) {
	sport := ProviderSport(q.SportName())
	urlFor := func(day civil.Date) string { return c.requestURL(day, sport) }

	fixtures, err := sportsapi.LoadFixtureDays(ctx, c.cache, c.Provider(), sportsapi.ProviderDays(q.Date), urlFor,
		func(ctx context.Context, day civil.Date, rawURL string) ([]sportsapi.Fixture, error) {
			var payload eventsEnvelope
			if err := c.http.GetJSON(ctx, rawURL, &payload); err != nil {
				return nil, err
			}
			return c.normalize(day, sport, payload.Events), nil
		}, c.logger)
	if err != nil {
		return nil, err
	}

	items := sportsapi.SelectFollowed(fixtures, q, c.matcher, c.ids)
	c.logger.DebugContext(ctx, "thesportsdb fixtures selected", "sport", sport, "date", q.Date.String(), "total", len(fixtures), "selected", len(items))
	return items, nil
}

func (c *Client) requestURL(date civil.Date, sport string) string {
	return sportsapi.BuildURL(c.baseURL, "/"+c.apiKey+"/eventsday.php", url.Values{
		"d": {date.String()},
		"s": {sport},
	})
}

func (c *Client) normalize(requested civil.Date, sport string, events []event) []sportsapi.Fixture {
	out := make([]sportsapi.Fixture, 0, len(events))
	for _, ev := range events {
		home := strings.TrimSpace(ev.HomeTeam)
		away := strings.TrimSpace(ev.AwayTeam)
		title := sport + ": " + strings.TrimSpace(ev.Event)
		if home != "" && away != "" {
			title = sportsapi.MatchTitle(sport, home, away)
		}

		start := sportsapi.ParseProviderDateTime(ev.Timestamp)
		if start == nil {
			start = sportsapi.CombineDateTime(ev.DateEvent, ev.Time)
		}
		start = sportsapi.InLocation(start, c.location)
		startTime, endTime := fixture.Window(start, fixture.DefaultDuration(fixture.ProviderGenericLeague))

		listed, ok := sportsapi.ParseDate(ev.DateEvent)
		if !ok {
			listed = requested
		}

		out = append(out, sportsapi.Fixture{
			Item: timeline.Item{
				Title:        title,
				Kind:         timeline.KindFixture,
				CalendarDate: sportsapi.LocalDate(start, listed),
				StartTime:    startTime,
				EndTime:      endTime,
				Venue:        strings.TrimSpace(ev.Venue),
				SourceNote:   sportsapi.FirstNonEmpty(ev.League, "TheSportsDB"),
			},
			MatchNames: []string{home, away},
		})
	}
	return out
}

// ProviderSport maps a followed sport name to TheSportsDB's label. Unknown
// names are title-cased and passed through.
func ProviderSport(name string) string {
	key := strings.ToLower(strings.Join(strings.Fields(name), " "))
	if mapped, ok := providerSports[key]; ok {
		return mapped
	}

	words := strings.Fields(key)
	for i, word := range words {
		runes := []rune(word)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
