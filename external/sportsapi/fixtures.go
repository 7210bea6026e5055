package sportsapi

import (
	"context"
	"net/url"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/riskibarqy/day-planner/internal/domain/favorite"
	"github.com/riskibarqy/day-planner/internal/domain/fixture"
	"github.com/riskibarqy/day-planner/internal/domain/timeline"
	"github.com/riskibarqy/day-planner/internal/platform/cache"
	idgen "github.com/riskibarqy/day-planner/internal/platform/id"
	"github.com/riskibarqy/day-planner/internal/platform/logging"
	"github.com/riskibarqy/day-planner/internal/platform/metrics"
	"github.com/sourcegraph/conc/iter"
)

// Fixture is a normalized provider entry plus the names a followed team may
// match against (participants, or race and circuit names for motorsport).
type Fixture struct {
	Item       timeline.Item
	MatchNames []string
}

// FixtureCache holds every normalized fixture a provider returned for a URL,
// before team filtering.
type FixtureCache = cache.Store[[]Fixture]

func NewFixtureCache(ttl time.Duration) *FixtureCache {
	return cache.NewStore[[]Fixture](ttl)
}

// LoadFixtures reads the fixtures for rawURL through store, calling load on a
// miss. Concurrent misses for the same URL share one load. Failed loads are
// not cached. A nil store always loads.
func LoadFixtures(
	ctx context.Context,
	store *FixtureCache,
	provider fixture.Provider,
	rawURL string,
	load func(context.Context) ([]Fixture, error),
) ([]Fixture, error) {
	if store == nil {
		return load(ctx)
	}

	items, outcome, err := store.GetOrLoad(ctx, rawURL, load)
	metrics.ObserveCacheLookup(provider.String(), outcome.String())
	if err != nil {
		return nil, err
	}
	return items, nil
}

// ProviderDays lists the provider dates whose games can start on local day d.
// Providers date games in their own zone, so a game listed on the day before
// or after can land on d once shifted into the planner's location.
func ProviderDays(d civil.Date) []civil.Date {
	return []civil.Date{d, d.AddDays(-1), d.AddDays(1)}
}

// LoadFixtureDays loads the fixtures of every provider day in days through
// store, concurrently. A failure on days[0] is returned; the neighbouring
// days only add games that cross midnight, so their failures are logged and
// skipped.
func LoadFixtureDays(
	ctx context.Context,
	store *FixtureCache,
	provider fixture.Provider,
	days []civil.Date,
	urlFor func(civil.Date) string,
	load func(ctx context.Context, day civil.Date, rawURL string) ([]Fixture, error),
	logger *logging.Logger,
) ([]Fixture, error) {
	if len(days) == 0 {
		return nil, nil
	}
	if logger == nil {
		logger = logging.Default()
	}

	type dayResult struct {
		fixtures []Fixture
		err      error
	}
	results := iter.Map(days, func(day *civil.Date) dayResult {
		rawURL := urlFor(*day)
		fixtures, err := LoadFixtures(ctx, store, provider, rawURL, func(ctx context.Context) ([]Fixture, error) {
			return load(ctx, *day, rawURL)
		})
		return dayResult{fixtures: fixtures, err: err}
	})

	if results[0].err != nil {
		return nil, results[0].err
	}
	out := make([]Fixture, 0, len(results[0].fixtures))
	for i, res := range results {
		if res.err != nil {
			logger.WarnContext(ctx, "neighbouring provider day skipped", "provider", provider.String(), "day", days[i], "error", res.err)
			continue
		}
		out = append(out, res.fixtures...)
	}
	return out, nil
}

// LocalDate is the planner day a fixture belongs to: the local date of its
// start, or listed when the provider publishes no start time.
func LocalDate(start *time.Time, listed civil.Date) civil.Date {
	if start == nil {
		return listed
	}
	return civil.DateOf(*start)
}

// SelectFollowed keeps fixtures on the query date that involve a followed
// team and returns copies of their items. Cached fixtures are shared between
// queries, so every copy gets a fresh id from ids.
func SelectFollowed(fixtures []Fixture, q fixture.Query, matcher favorite.Matcher, ids idgen.Generator) []timeline.Item {
	if ids == nil {
		ids = idgen.NewUUIDGenerator()
	}
	out := make([]timeline.Item, 0)
	for _, f := range fixtures {
		if f.Item.CalendarDate != q.Date {
			continue
		}
		if !favorite.MatchesAny(matcher, q.Teams, f.MatchNames...) {
			continue
		}
		item := f.Item.Clone()
		item.ID = idgen.MustNewID(ids)
		out = append(out, item)
	}
	return out
}

// MatchTitle renders "<label>: <home> vs <away>".
func MatchTitle(label, home, away string) string {
	return strings.TrimSpace(label) + ": " + strings.TrimSpace(home) + " vs " + strings.TrimSpace(away)
}

// BuildURL joins base and path and appends the encoded query. Keys are sorted
// by url.Values.Encode so equal inputs always produce the same string.
func BuildURL(base, path string, query url.Values) string {
	out := strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
	if encoded := query.Encode(); encoded != "" {
		out += "?" + encoded
	}
	return out
}

// ParseProviderDateTime accepts the timestamp layouts seen across providers.
// Values without an offset are read as UTC.
func ParseProviderDateTime(raw string) *time.Time {
	value := strings.TrimSpace(raw)
	if value == "" {
		return nil
	}

	layouts := []string{
		time.RFC3339,
		"2006-01-02T15:04:05Z07:00",
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		"2006-01-02T15:04Z07:00",
	}
	for _, layout := range layouts {
		parsed, err := time.Parse(layout, value)
		if err == nil {
			v := parsed.UTC()
			return &v
		}
	}
	return nil
}

// CombineDateTime joins a YYYY-MM-DD date with a clock time such as
// "19:45:00", "19:45:00Z" or "19:45:00+00:00".
func CombineDateTime(date, clock string) *time.Time {
	date = strings.TrimSpace(date)
	clock = strings.TrimSpace(clock)
	if date == "" || clock == "" {
		return nil
	}
	return ParseProviderDateTime(date + "T" + clock)
}

// InLocation converts t into loc, returning nil for nil.
func InLocation(t *time.Time, loc *time.Location) *time.Time {
	if t == nil {
		return nil
	}
	if loc == nil {
		loc = time.Local
	}
	v := t.In(loc)
	return &v
}

func ParseDate(raw string) (civil.Date, bool) {
	value := strings.TrimSpace(raw)
	if len(value) > 10 {
		value = value[:10]
	}
	d, err := civil.ParseDate(value)
	if err != nil {
		return civil.Date{}, false
	}
	return d, true
}

func FirstNonEmpty(values ...string) string {
	for _, item := range values {
		if strings.TrimSpace(item) != "" {
			return strings.TrimSpace(item)
		}
	}
	return ""
}
