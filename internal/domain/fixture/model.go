package fixture

import (
	"context"
	"errors"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/riskibarqy/day-planner/internal/domain/favorite"
	"github.com/riskibarqy/day-planner/internal/domain/timeline"
)

var (
	ErrNetwork = errors.New("fixture provider request failed")
	ErrParse   = errors.New("fixture provider payload invalid")
)

// Provider identifies a family of schedule sources.
type Provider string

const (
	ProviderGenericLeague Provider = "generic_league"
	ProviderBaseball      Provider = "baseball"
	ProviderHockey        Provider = "hockey"
	ProviderMotorsport    Provider = "motorsport"
)

func (p Provider) String() string {
	return string(p)
}

// Query asks a source for one day of fixtures involving the given teams.
type Query struct {
	Date  civil.Date
	Sport string
	Teams []favorite.FollowedTeam
}

func (q Query) SportName() string {
	return strings.TrimSpace(q.Sport)
}

// Source fetches and normalizes fixtures from one provider. The request URL
// depends only on the query date and sport so responses can be cached per URL.
// An empty result is not an error.
type Source interface {
	Provider() Provider
	Fetch(ctx context.Context, q Query) ([]timeline.Item, error)
}
