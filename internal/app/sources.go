package app

import (
	"time"

	"github.com/riskibarqy/day-planner/external/jolpica"
	"github.com/riskibarqy/day-planner/external/mlbstats"
	"github.com/riskibarqy/day-planner/external/nhlweb"
	"github.com/riskibarqy/day-planner/external/sportsapi"
	"github.com/riskibarqy/day-planner/external/thesportsdb"
	"github.com/riskibarqy/day-planner/internal/config"
	"github.com/riskibarqy/day-planner/internal/domain/favorite"
	"github.com/riskibarqy/day-planner/internal/domain/fixture"
	idgen "github.com/riskibarqy/day-planner/internal/platform/id"
	"github.com/riskibarqy/day-planner/internal/platform/logging"
)

// newSources builds one adapter per provider. They share the response cache
// (keyed by request URL) and the matcher; each has its own transport and
// circuit breaker.
func newSources(cfg config.Config, logger *logging.Logger) []fixture.Source {
	responseCache := sportsapi.NewFixtureCache(cfg.ResponseCacheTTL)
	matcher := favorite.MatcherByName(cfg.TeamMatchStrategy)
	ids := idgen.NewUUIDGenerator()

	transport := func(name string, provider config.ProviderConfig, secrets ...string) *sportsapi.Client {
		return sportsapi.NewClient(sportsapi.ClientConfig{
			Name:           name,
			Fetcher:        newFetcher(cfg.ProviderHTTPClient, provider.Timeout),
			Secrets:        secrets,
			MaxRetries:     cfg.ProviderMaxRetries,
			Logger:         logger,
			CircuitBreaker: circuitBreakerConfig(cfg.ProviderCircuit),
		})
	}

	return []fixture.Source{
		thesportsdb.NewClient(thesportsdb.Config{
			HTTP:     transport("thesportsdb", cfg.TheSportsDB, cfg.TheSportsDB.APIKey),
			Cache:    responseCache,
			BaseURL:  cfg.TheSportsDB.BaseURL,
			APIKey:   cfg.TheSportsDB.APIKey,
			Location: cfg.Location,
			Matcher:  matcher,
			IDs:      ids,
			Logger:   logger,
		}),
		mlbstats.NewClient(mlbstats.Config{
			HTTP:     transport("mlbstats", cfg.MLB),
			Cache:    responseCache,
			BaseURL:  cfg.MLB.BaseURL,
			Location: cfg.Location,
			Matcher:  matcher,
			IDs:      ids,
			Logger:   logger,
		}),
		nhlweb.NewClient(nhlweb.Config{
			HTTP:     transport("nhlweb", cfg.NHL),
			Cache:    responseCache,
			BaseURL:  cfg.NHL.BaseURL,
			Location: cfg.Location,
			Matcher:  matcher,
			IDs:      ids,
			Logger:   logger,
		}),
		jolpica.NewClient(jolpica.Config{
			HTTP:     transport("jolpica", cfg.Jolpica),
			Cache:    responseCache,
			BaseURL:  cfg.Jolpica.BaseURL,
			Location: cfg.Location,
			Matcher:  matcher,
			IDs:      ids,
			Logger:   logger,
		}),
	}
}

func newFetcher(kind string, timeout time.Duration) sportsapi.Fetcher {
	if kind == config.ProviderClientFastHTTP {
		return sportsapi.NewFastHTTPFetcher(timeout)
	}
	return sportsapi.NewHTTPFetcher(nil, timeout)
}
