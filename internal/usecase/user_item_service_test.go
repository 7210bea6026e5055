package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/riskibarqy/day-planner/internal/domain/timeline"
	useritemmock "github.com/riskibarqy/day-planner/internal/mocks/domain/useritem"
	"github.com/riskibarqy/day-planner/internal/platform/logging"
	"github.com/stretchr/testify/mock"
)

type fixedIDs struct{ id string }

func (g fixedIDs) NewID() (string, error) { return g.id, nil }

type recordingHooks struct {
	upserts   []string
	removes   []string
	schedules []string
	cancels   []string
	err       error
}

func (h *recordingHooks) Upsert(_ context.Context, item timeline.Item) error {
	h.upserts = append(h.upserts, item.ID)
	return h.err
}

func (h *recordingHooks) Remove(_ context.Context, itemID string) error {
	h.removes = append(h.removes, itemID)
	return h.err
}

func (h *recordingHooks) Schedule(_ context.Context, item timeline.Item) error {
	h.schedules = append(h.schedules, item.ID)
	return h.err
}

func (h *recordingHooks) Cancel(_ context.Context, itemID string) error {
	h.cancels = append(h.cancels, itemID)
	return h.err
}

var itemDate = civil.Date{Year: 2024, Month: time.June, Day: 1}

func TestUserItemService_CreateEventRunsHooks(t *testing.T) {
	t.Parallel()

	repo := useritemmock.NewRepository(t)
	repo.
		On("Upsert", mock.Anything, mock.MatchedBy(func(item timeline.Item) bool {
			return item.ID == "item-1" && item.Title == "Dentist" && item.Kind == timeline.KindEvent
		})).
		Return(nil).
		Once()

	hooks := &recordingHooks{err: errors.New("calendar offline")}
	service := NewUserItemService(repo, hooks, hooks, fixedIDs{id: "item-1"}, logging.NewNop())

	start := time.Date(2024, 6, 1, 15, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)
	item, err := service.Create(context.Background(), CreateItemInput{
		Title:     "  Dentist ",
		Kind:      "event",
		Date:      itemDate,
		StartTime: &start,
		EndTime:   &end,
	})
	if err != nil {
		t.Fatalf("hook failures must not fail create: %v", err)
	}
	if item.ID != "item-1" {
		t.Fatalf("unexpected item %#v", item)
	}
	if len(hooks.upserts) != 1 || len(hooks.schedules) != 1 {
		t.Fatalf("expected mirror and reminder hooks, got %#v", hooks)
	}
}

func TestUserItemService_CreateValidation(t *testing.T) {
	t.Parallel()

	service := NewUserItemService(useritemmock.NewRepository(t), nil, nil, fixedIDs{id: "x"}, logging.NewNop())
	start := time.Date(2024, 6, 1, 15, 0, 0, 0, time.UTC)
	before := start.Add(-time.Minute)

	inputs := map[string]CreateItemInput{
		"fixture kind": {Title: "Match", Kind: "fixture", Date: itemDate},
		"unknown kind": {Title: "Thing", Kind: "meeting", Date: itemDate},
		"blank title":  {Title: " ", Kind: "task", Date: itemDate},
		"missing date": {Title: "Task", Kind: "task"},
		"end only":     {Title: "Task", Kind: "task", Date: itemDate, EndTime: &start},
		"end before":   {Title: "Task", Kind: "task", Date: itemDate, StartTime: &start, EndTime: &before},
	}
	for name, input := range inputs {
		if _, err := service.Create(context.Background(), input); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("%s: expected ErrInvalidInput, got %v", name, err)
		}
	}
}

func TestUserItemService_ToggleComplete(t *testing.T) {
	t.Parallel()

	task := timeline.Item{ID: "task-1", Title: "Laundry", Kind: timeline.KindTask, CalendarDate: itemDate}
	repo := useritemmock.NewRepository(t)
	repo.On("GetByID", mock.Anything, "task-1").Return(task, true, nil).Twice()
	repo.
		On("Upsert", mock.Anything, mock.MatchedBy(func(item timeline.Item) bool { return item.ID == "task-1" && item.Completed })).
		Return(nil).
		Once()

	hooks := &recordingHooks{}
	service := NewUserItemService(repo, hooks, hooks, nil, logging.NewNop())

	got, err := service.ToggleComplete(context.Background(), "task-1")
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !got.Completed {
		t.Fatalf("expected completed task")
	}
	if len(hooks.upserts) != 0 {
		t.Fatalf("tasks are not mirrored to the calendar")
	}
}

func TestUserItemService_EventsCannotBeCompleted(t *testing.T) {
	t.Parallel()

	event := timeline.Item{ID: "evt-1", Title: "Concert", Kind: timeline.KindEvent, CalendarDate: itemDate}
	repo := useritemmock.NewRepository(t)
	repo.On("GetByID", mock.Anything, "evt-1").Return(event, true, nil).Twice()

	service := NewUserItemService(repo, nil, nil, nil, logging.NewNop())
	if _, err := service.ToggleComplete(context.Background(), "evt-1"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestUserItemService_DeleteMissingItem(t *testing.T) {
	t.Parallel()

	repo := useritemmock.NewRepository(t)
	repo.On("GetByID", mock.Anything, "missing").Return(timeline.Item{}, false, nil).Once()

	service := NewUserItemService(repo, nil, nil, nil, logging.NewNop())
	if err := service.Delete(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUserItemService_DeleteEventRemovesMirrorAndReminder(t *testing.T) {
	t.Parallel()

	start := time.Date(2024, 6, 1, 15, 0, 0, 0, time.UTC)
	event := timeline.Item{ID: "evt-1", Title: "Concert", Kind: timeline.KindEvent, CalendarDate: itemDate, StartTime: &start}
	repo := useritemmock.NewRepository(t)
	repo.On("GetByID", mock.Anything, "evt-1").Return(event, true, nil).Once()
	repo.On("Delete", mock.Anything, "evt-1").Return(nil).Once()

	hooks := &recordingHooks{}
	service := NewUserItemService(repo, hooks, hooks, nil, logging.NewNop())
	if err := service.Delete(context.Background(), "evt-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(hooks.removes) != 1 || len(hooks.cancels) != 1 {
		t.Fatalf("expected mirror remove and reminder cancel, got %#v", hooks)
	}
}

func TestUserItemService_ItemsForDateFiltersCompleted(t *testing.T) {
	t.Parallel()

	repo := useritemmock.NewRepository(t)
	repo.
		On("ListByDate", mock.Anything, itemDate).
		Return([]timeline.Item{
			{ID: "done", Title: "Laundry", Kind: timeline.KindTask, CalendarDate: itemDate, Completed: true},
			{ID: "open", Title: "Groceries", Kind: timeline.KindTask, CalendarDate: itemDate},
		}, nil).
		Twice()

	service := NewUserItemService(repo, nil, nil, nil, logging.NewNop())

	open, err := service.ItemsForDate(context.Background(), itemDate, false)
	if err != nil {
		t.Fatalf("items for date: %v", err)
	}
	if len(open) != 1 || open[0].ID != "open" {
		t.Fatalf("expected only open items, got %#v", open)
	}

	all, err := service.ItemsForDate(context.Background(), itemDate, true)
	if err != nil {
		t.Fatalf("items for date: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected completed items included, got %#v", all)
	}
}

func TestUserItemService_ItemsForDateOrdersAllDayInLocation(t *testing.T) {
	t.Parallel()

	plus7 := time.FixedZone("UTC+7", 7*60*60)
	// 03:00 on June 1 at UTC+7, which is still May 31 in UTC.
	early := time.Date(2024, 5, 31, 20, 0, 0, 0, time.UTC)
	repo := useritemmock.NewRepository(t)
	repo.
		On("ListByDate", mock.Anything, itemDate).
		Return([]timeline.Item{
			{ID: "early", Title: "Run", Kind: timeline.KindHabit, CalendarDate: itemDate, StartTime: &early},
			{ID: "all-day", Title: "Groceries", Kind: timeline.KindTask, CalendarDate: itemDate},
		}, nil).
		Once()

	service := NewUserItemService(repo, nil, nil, nil, logging.NewNop()).WithLocation(plus7)
	items, err := service.ItemsForDate(context.Background(), itemDate, false)
	if err != nil {
		t.Fatalf("items for date: %v", err)
	}
	if len(items) != 2 || items[0].ID != "all-day" || items[1].ID != "early" {
		t.Fatalf("expected all-day item at local midnight first, got %#v", items)
	}
}
