package nhlweb

import (
	"context"
	"strings"
	"time"

	"github.com/riskibarqy/day-planner/external/sportsapi"
	"github.com/riskibarqy/day-planner/internal/domain/favorite"
	"github.com/riskibarqy/day-planner/internal/domain/fixture"
	"github.com/riskibarqy/day-planner/internal/domain/timeline"
	idgen "github.com/riskibarqy/day-planner/internal/platform/id"
	"github.com/riskibarqy/day-planner/internal/platform/logging"
)

const (
	defaultBaseURL = "https://api-web.nhle.com"
	defaultLabel   = "Hockey"
	sourceNote     = "NHL Game"
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
		c.http = sportsapi.NewClient(sportsapi.ClientConfig{Name: "nhlweb"})
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
	return fixture.ProviderHockey
}

// Fetch reads the schedule week starting the day before q.Date. The endpoint
// returns seven days, which covers games dated on either side of q.Date that
// start on q.Date locally. Only games bucketed on q.Date survive selection.
func (c *Client) Fetch(ctx context.Context, q fixture.Query) ([]timeline.Item, error) {
	rawURL := sportsapi.BuildURL(c.baseURL, "/v1/schedule/"+q.Date.AddDays(-1).String(), nil)

	fixtures, err := sportsapi.LoadFixtures(ctx, c.cache, c.Provider(), rawURL, func(ctx context.Context) ([]sportsapi.Fixture, error) {
		var payload scheduleEnvelope
		if err := c.http.GetJSON(ctx, rawURL, &payload); err != nil {
			return nil, err
		}
		return c.normalize(payload), nil
	})
	if err != nil {
		return nil, err
	}

	items := sportsapi.SelectFollowed(fixtures, q, c.matcher, c.ids)
	c.logger.DebugContext(ctx, "nhl fixtures selected", "date", q.Date.String(), "total", len(fixtures), "selected", len(items))
	return items, nil
}

func (c *Client) normalize(payload scheduleEnvelope) []sportsapi.Fixture {
	out := make([]sportsapi.Fixture, 0)
	for _, day := range payload.GameWeek {
		listed, ok := sportsapi.ParseDate(day.Date)
		if !ok {
			continue
		}
		for _, g := range day.Games {
			home := strings.TrimSpace(g.HomeTeam.fullName())
			away := strings.TrimSpace(g.AwayTeam.fullName())
			if home == "" || away == "" {
				continue
			}

			start := sportsapi.InLocation(sportsapi.ParseProviderDateTime(g.StartTimeUTC), c.location)
			startTime, endTime := fixture.Window(start, fixture.DefaultDuration(fixture.ProviderHockey))

			out = append(out, sportsapi.Fixture{
				Item: timeline.Item{
					Title:        sportsapi.MatchTitle(c.label, home, away),
					Kind:         timeline.KindFixture,
					CalendarDate: sportsapi.LocalDate(start, listed),
					StartTime:    startTime,
					EndTime:      endTime,
					Venue:        strings.TrimSpace(g.Venue.Default),
					SourceNote:   sourceNote,
				},
				MatchNames: matchNames(g.HomeTeam, g.AwayTeam),
			})
		}
	}
	return out
}

// matchNames skips abbreviations and bare place names; "NY" or "New York"
// would match several clubs.
func matchNames(teams ...scheduledTeam) []string {
	out := make([]string, 0, len(teams)*2)
	for _, team := range teams {
		if full := strings.TrimSpace(team.fullName()); full != "" {
			out = append(out, full)
		}
		if common := strings.TrimSpace(team.CommonName.Default); common != "" {
			out = append(out, common)
		}
	}
	return out
}
