package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"cloud.google.com/go/civil"
	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/day-planner/internal/domain/favorite"
	"github.com/riskibarqy/day-planner/internal/domain/timeline"
	"github.com/riskibarqy/day-planner/internal/platform/logging"
	"go.opentelemetry.io/otel/attribute"
)

const (
	maxRangeDays           = 14
	defaultRangeMaxWorkers = 4
)

type DayView struct {
	Date  civil.Date
	Items []timeline.Item
}

type favoritesLister interface {
	List() []favorite.FollowedSport
}

type TimelineServiceConfig struct {
	Location        *time.Location
	RangeMaxWorkers int
}

// TimelineService assembles the day view: the user's own items merged with
// fixtures of followed teams.
type TimelineService struct {
	userItems  timeline.UserItemProvider
	favorites  favoritesLister
	aggregator *Aggregator
	location   *time.Location
	maxWorkers int
	logger     *logging.Logger
	now        func() time.Time
}

func NewTimelineService(
	userItems timeline.UserItemProvider,
	favorites favoritesLister,
	aggregator *Aggregator,
	cfg TimelineServiceConfig,
	logger *logging.Logger,
) *TimelineService {
	location := cfg.Location
	if location == nil {
		location = time.Local
	}
	maxWorkers := cfg.RangeMaxWorkers
	if maxWorkers <= 0 {
		maxWorkers = defaultRangeMaxWorkers
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &TimelineService{
		userItems:  userItems,
		favorites:  favorites,
		aggregator: aggregator,
		location:   location,
		maxWorkers: maxWorkers,
		logger:     logger,
		now:        time.Now,
	}
}

func (s *TimelineService) Location() *time.Location {
	return s.location
}

// Today is the current date in the planner's timezone.
func (s *TimelineService) Today() civil.Date {
	return civil.DateOf(s.now().In(s.location))
}

// Day returns the merged timeline for date. Fixture sources that fail are
// left out silently; a failing user item store is an error.
func (s *TimelineService) Day(ctx context.Context, date civil.Date, includeCompleted bool) (DayView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TimelineService.Day", dateAttr("timeline.date", date))
	defer span.End()

	if !date.IsValid() {
		return DayView{}, fmt.Errorf("%w: invalid date", ErrInvalidInput)
	}

	userItems := []timeline.Item{}
	if s.userItems != nil {
		items, err := s.userItems.ItemsForDate(ctx, date, includeCompleted)
		if err != nil {
			return DayView{}, fmt.Errorf("%w: load user items: %w", ErrDependencyUnavailable, err)
		}
		userItems = items
	}

	sportsItems := s.aggregator.Aggregate(ctx, date, s.favorites.List())
	return DayView{
		Date:  date,
		Items: timeline.Merge(s.location, userItems, sportsItems),
	}, nil
}

// Range builds consecutive day views starting at from, in date order.
func (s *TimelineService) Range(ctx context.Context, from civil.Date, days int, includeCompleted bool) ([]DayView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TimelineService.Range",
		dateAttr("timeline.from", from),
		attribute.Int("timeline.days", days),
	)
	defer span.End()

	if !from.IsValid() {
		return nil, fmt.Errorf("%w: invalid date", ErrInvalidInput)
	}
	if days < 1 || days > maxRangeDays {
		return nil, fmt.Errorf("%w: days must be between 1 and %d", ErrInvalidInput, maxRangeDays)
	}

	pool, err := ants.NewPool(min(s.maxWorkers, days))
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	type dayResult struct {
		view DayView
		err  error
	}
	results := make(chan dayResult, days)

	var workers sync.WaitGroup
	for offset := range days {
		date := from.AddDays(offset)
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()
			view, err := s.Day(ctx, date, includeCompleted)
			results <- dayResult{view: view, err: err}
		}); err != nil {
			workers.Done()
			workers.Wait()
			return nil, fmt.Errorf("submit day to worker pool: %w", err)
		}
	}

	workers.Wait()
	close(results)

	out := make([]DayView, 0, days)
	for result := range results {
		if result.err != nil {
			return nil, result.err
		}
		out = append(out, result.view)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out, nil
}

// Fixtures returns only the followed-team fixtures for date, in time order.
func (s *TimelineService) Fixtures(ctx context.Context, date civil.Date) ([]timeline.Item, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TimelineService.Fixtures", dateAttr("timeline.date", date))
	defer span.End()

	if !date.IsValid() {
		return nil, fmt.Errorf("%w: invalid date", ErrInvalidInput)
	}
	items := s.aggregator.Aggregate(ctx, date, s.favorites.List())
	return timeline.Merge(s.location, nil, items), nil
}
