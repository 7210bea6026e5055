package jolpica

import (
	"context"
	"net/url"
	"strconv"
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
	defaultBaseURL = "https://api.jolpi.ca"
	defaultLabel   = "Formula 1"
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

// Client reads a Formula 1 season calendar from the Jolpica mirror of the
// Ergast API and expands each race weekend into one item per session.
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
		c.http = sportsapi.NewClient(sportsapi.ClientConfig{Name: "jolpica"})
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
	return fixture.ProviderMotorsport
}

func (c *Client) Fetch(ctx context.Context, q fixture.Query) ([]timeline.Item, error) {
	season := strconv.Itoa(q.Date.Year)
	rawURL := sportsapi.BuildURL(c.baseURL, "/ergast/f1/"+season+".json", url.Values{"limit": {"100"}})

	fixtures, err := sportsapi.LoadFixtures(ctx, c.cache, c.Provider(), rawURL, func(ctx context.Context) ([]sportsapi.Fixture, error) {
		var payload seasonEnvelope
		if err := c.http.GetJSON(ctx, rawURL, &payload); err != nil {
			return nil, err
		}
		return c.normalize(payload), nil
	})
	if err != nil {
		return nil, err
	}

	items := sportsapi.SelectFollowed(fixtures, q, c.matcher, c.ids)
	c.logger.DebugContext(ctx, "f1 sessions selected", "date", q.Date.String(), "season", season, "total", len(fixtures), "selected", len(items))
	return items, nil
}

type scheduledSession struct {
	name fixture.Session
	at   *session
}

func (r race) sessions() []scheduledSession {
	sprintQualifying := r.SprintQualifying
	if sprintQualifying == nil {
		sprintQualifying = r.SprintShootout
	}
	return []scheduledSession{
		{name: fixture.SessionPractice1, at: r.FirstPractice},
		{name: fixture.SessionPractice2, at: r.SecondPractice},
		{name: fixture.SessionPractice3, at: r.ThirdPractice},
		{name: fixture.SessionSprintQualifying, at: sprintQualifying},
		{name: fixture.SessionSprint, at: r.Sprint},
		{name: fixture.SessionQualifying, at: r.Qualifying},
		{name: fixture.SessionRace, at: &session{Date: r.Date, Time: r.Time}},
	}
}

// normalize emits every session of the season. A session is bucketed on the
// local date of its start, or on its listed date when no time is published.
func (c *Client) normalize(payload seasonEnvelope) []sportsapi.Fixture {
	out := make([]sportsapi.Fixture, 0)
	for _, r := range payload.MRData.RaceTable.Races {
		raceName := strings.TrimSpace(r.RaceName)
		if raceName == "" {
			continue
		}
		names := c.matchNames(r)

		for _, s := range r.sessions() {
			if s.at == nil || strings.TrimSpace(s.at.Date) == "" {
				continue
			}

			start := sportsapi.InLocation(sportsapi.CombineDateTime(s.at.Date, s.at.Time), c.location)
			listed, ok := sportsapi.ParseDate(s.at.Date)
			if !ok {
				continue
			}
			startTime, endTime := fixture.Window(start, fixture.SessionDuration(s.name))

			out = append(out, sportsapi.Fixture{
				Item: timeline.Item{
					Title:        c.label + ": " + raceName + " - " + string(s.name),
					Kind:         timeline.KindFixture,
					CalendarDate: sportsapi.LocalDate(start, listed),
					StartTime:    startTime,
					EndTime:      endTime,
					Venue:        strings.TrimSpace(r.Circuit.CircuitName),
					SourceNote:   roundNote(c.label, r.Round),
				},
				MatchNames: names,
			})
		}
	}
	return out
}

// matchNames lets a favorite such as "F1", "Monaco" or "Silverstone" pick up
// a weekend, since races have no participants to match.
func (c *Client) matchNames(r race) []string {
	candidates := []string{
		c.label,
		"F1",
		r.RaceName,
		r.Circuit.CircuitName,
		r.Circuit.Location.Locality,
		r.Circuit.Location.Country,
	}
	out := make([]string, 0, len(candidates))
	for _, name := range candidates {
		if name = strings.TrimSpace(name); name != "" {
			out = append(out, name)
		}
	}
	return out
}

func roundNote(label, round string) string {
	round = strings.TrimSpace(round)
	if round == "" {
		return label
	}
	return label + " Round " + round
}
