package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/riskibarqy/day-planner/internal/domain/timeline"
	"github.com/riskibarqy/day-planner/internal/domain/useritem"
	idgen "github.com/riskibarqy/day-planner/internal/platform/id"
	"github.com/riskibarqy/day-planner/internal/platform/logging"
)

type CreateItemInput struct {
	Title      string
	Kind       string
	Date       civil.Date
	StartTime  *time.Time
	EndTime    *time.Time
	Venue      string
	SourceNote string
}

// UpdateItemInput patches an item. Nil fields are left unchanged;
// ClearSchedule drops both start and end time.
type UpdateItemInput struct {
	ItemID        string
	Title         *string
	Date          *civil.Date
	StartTime     *time.Time
	EndTime       *time.Time
	ClearSchedule bool
	Venue         *string
	SourceNote    *string
	Completed     *bool
}

type noopCalendarMirror struct{}

func (noopCalendarMirror) Upsert(context.Context, timeline.Item) error { return nil }
func (noopCalendarMirror) Remove(context.Context, string) error        { return nil }

type noopReminderScheduler struct{}

func (noopReminderScheduler) Schedule(context.Context, timeline.Item) error { return nil }
func (noopReminderScheduler) Cancel(context.Context, string) error          { return nil }

// UserItemService manages the user's own tasks, habits and events and
// implements timeline.UserItemProvider.
type UserItemService struct {
	repo      useritem.Repository
	mirror    timeline.CalendarMirror
	reminders timeline.ReminderScheduler
	ids       idgen.Generator
	location  *time.Location
	logger    *logging.Logger
}

func NewUserItemService(
	repo useritem.Repository,
	mirror timeline.CalendarMirror,
	reminders timeline.ReminderScheduler,
	ids idgen.Generator,
	logger *logging.Logger,
) *UserItemService {
	if mirror == nil {
		mirror = noopCalendarMirror{}
	}
	if reminders == nil {
		reminders = noopReminderScheduler{}
	}
	if ids == nil {
		ids = idgen.NewUUIDGenerator()
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &UserItemService{
		repo:      repo,
		mirror:    mirror,
		reminders: reminders,
		ids:       ids,
		location:  time.Local,
		logger:    logger,
	}
}

// WithLocation sets the zone all-day items are placed in when ordering, which
// must match the timeline's location.
func (s *UserItemService) WithLocation(loc *time.Location) *UserItemService {
	if loc != nil {
		s.location = loc
	}
	return s
}

// ItemsForDate lists items on date ordered by start time; completed items
// are dropped unless includeCompleted is set.
func (s *UserItemService) ItemsForDate(ctx context.Context, date civil.Date, includeCompleted bool) ([]timeline.Item, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.UserItemService.ItemsForDate", dateAttr("items.date", date))
	defer span.End()

	items, err := s.repo.ListByDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("list items by date: %w", err)
	}

	out := make([]timeline.Item, 0, len(items))
	for _, item := range items {
		if item.Completed && !includeCompleted {
			continue
		}
		out = append(out, item)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].EffectiveTime(s.location).Before(out[j].EffectiveTime(s.location))
	})
	return out, nil
}

func (s *UserItemService) Get(ctx context.Context, itemID string) (timeline.Item, error) {
	itemID = strings.TrimSpace(itemID)
	if itemID == "" {
		return timeline.Item{}, fmt.Errorf("%w: item_id is required", ErrInvalidInput)
	}
	item, exists, err := s.repo.GetByID(ctx, itemID)
	if err != nil {
		return timeline.Item{}, fmt.Errorf("get item by id: %w", err)
	}
	if !exists {
		return timeline.Item{}, fmt.Errorf("%w: item=%s", ErrNotFound, itemID)
	}
	return item, nil
}

func (s *UserItemService) Create(ctx context.Context, input CreateItemInput) (timeline.Item, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.UserItemService.Create")
	defer span.End()

	kind, ok := timeline.ParseKind(input.Kind)
	if !ok || kind == timeline.KindFixture {
		return timeline.Item{}, fmt.Errorf("%w: kind must be task, habit or event", ErrInvalidInput)
	}

	itemID, err := s.ids.NewID()
	if err != nil {
		return timeline.Item{}, fmt.Errorf("generate item id: %w", err)
	}

	item := timeline.Item{
		ID:           itemID,
		Title:        strings.TrimSpace(input.Title),
		Kind:         kind,
		CalendarDate: input.Date,
		StartTime:    copyTime(input.StartTime),
		EndTime:      copyTime(input.EndTime),
		Venue:        strings.TrimSpace(input.Venue),
		SourceNote:   strings.TrimSpace(input.SourceNote),
	}
	if err := validateUserItem(item); err != nil {
		return timeline.Item{}, err
	}

	if err := s.repo.Upsert(ctx, item); err != nil {
		return timeline.Item{}, fmt.Errorf("upsert item: %w", err)
	}
	s.notifyUpsert(ctx, item)
	return item, nil
}

func (s *UserItemService) Update(ctx context.Context, input UpdateItemInput) (timeline.Item, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.UserItemService.Update")
	defer span.End()

	item, err := s.Get(ctx, input.ItemID)
	if err != nil {
		return timeline.Item{}, err
	}

	if input.Title != nil {
		item.Title = strings.TrimSpace(*input.Title)
	}
	if input.Date != nil {
		item.CalendarDate = *input.Date
	}
	if input.ClearSchedule {
		item.StartTime = nil
		item.EndTime = nil
	}
	if input.StartTime != nil {
		item.StartTime = copyTime(input.StartTime)
	}
	if input.EndTime != nil {
		item.EndTime = copyTime(input.EndTime)
	}
	if input.Venue != nil {
		item.Venue = strings.TrimSpace(*input.Venue)
	}
	if input.SourceNote != nil {
		item.SourceNote = strings.TrimSpace(*input.SourceNote)
	}
	if input.Completed != nil {
		if *input.Completed && !item.Kind.Completable() {
			return timeline.Item{}, fmt.Errorf("%w: only tasks and habits can be completed", ErrInvalidInput)
		}
		item.Completed = *input.Completed
	}
	if err := validateUserItem(item); err != nil {
		return timeline.Item{}, err
	}

	if err := s.repo.Upsert(ctx, item); err != nil {
		return timeline.Item{}, fmt.Errorf("upsert item: %w", err)
	}
	s.notifyUpsert(ctx, item)
	return item, nil
}

// ToggleComplete flips the completion flag of a task or habit.
func (s *UserItemService) ToggleComplete(ctx context.Context, itemID string) (timeline.Item, error) {
	item, err := s.Get(ctx, itemID)
	if err != nil {
		return timeline.Item{}, err
	}
	completed := !item.Completed
	return s.Update(ctx, UpdateItemInput{ItemID: item.ID, Completed: &completed})
}

func (s *UserItemService) Delete(ctx context.Context, itemID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.UserItemService.Delete")
	defer span.End()

	item, err := s.Get(ctx, itemID)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, item.ID); err != nil {
		return fmt.Errorf("delete item: %w", err)
	}

	if item.Kind.IsEvent() {
		if err := s.mirror.Remove(ctx, item.ID); err != nil {
			s.logger.WarnContext(ctx, "calendar mirror remove failed", "item_id", item.ID, "error", err)
		}
	}
	if item.StartTime != nil {
		if err := s.reminders.Cancel(ctx, item.ID); err != nil {
			s.logger.WarnContext(ctx, "reminder cancel failed", "item_id", item.ID, "error", err)
		}
	}
	return nil
}

// notifyUpsert runs the calendar and reminder hooks. Hook failures are
// logged and never fail the mutation.
func (s *UserItemService) notifyUpsert(ctx context.Context, item timeline.Item) {
	if item.Kind.IsEvent() {
		if err := s.mirror.Upsert(ctx, item); err != nil {
			s.logger.WarnContext(ctx, "calendar mirror upsert failed", "item_id", item.ID, "error", err)
		}
	}

	switch {
	case item.StartTime != nil && !item.Completed:
		if err := s.reminders.Schedule(ctx, item); err != nil {
			s.logger.WarnContext(ctx, "reminder schedule failed", "item_id", item.ID, "error", err)
		}
	default:
		if err := s.reminders.Cancel(ctx, item.ID); err != nil {
			s.logger.WarnContext(ctx, "reminder cancel failed", "item_id", item.ID, "error", err)
		}
	}
}

func validateUserItem(item timeline.Item) error {
	if item.Title == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if !item.CalendarDate.IsValid() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	if item.EndTime != nil && item.StartTime == nil {
		return fmt.Errorf("%w: end_time requires start_time", ErrInvalidInput)
	}
	if item.StartTime != nil && item.EndTime != nil && item.EndTime.Before(*item.StartTime) {
		return fmt.Errorf("%w: end_time must not be before start_time", ErrInvalidInput)
	}
	if item.Completed && !item.Kind.Completable() {
		return fmt.Errorf("%w: only tasks and habits can be completed", ErrInvalidInput)
	}
	return nil
}

func copyTime(value *time.Time) *time.Time {
	if value == nil {
		return nil
	}
	v := *value
	return &v
}
