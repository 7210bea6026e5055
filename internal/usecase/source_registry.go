package usecase

import (
	"strings"

	"github.com/riskibarqy/day-planner/internal/domain/fixture"
)

// sportAliases maps lower-cased sport names onto dedicated providers. Anything
// else is served by the generic league source.
var sportAliases = map[string]fixture.Provider{
	"baseball":    fixture.ProviderBaseball,
	"mlb":         fixture.ProviderBaseball,
	"hockey":      fixture.ProviderHockey,
	"ice hockey":  fixture.ProviderHockey,
	"nhl":         fixture.ProviderHockey,
	"motorsport":  fixture.ProviderMotorsport,
	"formula 1":   fixture.ProviderMotorsport,
	"formula one": fixture.ProviderMotorsport,
	"f1":          fixture.ProviderMotorsport,
	"racing":      fixture.ProviderMotorsport,
}

// SourceRegistry resolves a followed sport to the source that serves it.
type SourceRegistry struct {
	sources map[fixture.Provider]fixture.Source
}

func NewSourceRegistry(sources ...fixture.Source) *SourceRegistry {
	r := &SourceRegistry{sources: make(map[fixture.Provider]fixture.Source, len(sources))}
	for _, source := range sources {
		if source == nil {
			continue
		}
		r.sources[source.Provider()] = source
	}
	return r
}

// Resolve returns the dedicated source for sport, falling back to the generic
// league source. The bool is false when neither is registered.
func (r *SourceRegistry) Resolve(sport string) (fixture.Source, bool) {
	if r == nil {
		return nil, false
	}
	key := strings.Join(strings.Fields(strings.ToLower(sport)), " ")
	if provider, ok := sportAliases[key]; ok {
		if source, ok := r.sources[provider]; ok {
			return source, true
		}
	}
	source, ok := r.sources[fixture.ProviderGenericLeague]
	return source, ok
}

func (r *SourceRegistry) Sources() []fixture.Source {
	if r == nil {
		return nil
	}
	out := make([]fixture.Source, 0, len(r.sources))
	for _, provider := range []fixture.Provider{
		fixture.ProviderGenericLeague,
		fixture.ProviderBaseball,
		fixture.ProviderHockey,
		fixture.ProviderMotorsport,
	} {
		if source, ok := r.sources[provider]; ok {
			out = append(out, source)
		}
	}
	return out
}
