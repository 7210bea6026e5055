package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/day-planner/internal/domain/fixture"
	"github.com/riskibarqy/day-planner/internal/domain/timeline"
	"github.com/riskibarqy/day-planner/internal/infrastructure/calendar"
	"github.com/riskibarqy/day-planner/internal/infrastructure/repository/memory"
	fixturemock "github.com/riskibarqy/day-planner/internal/mocks/domain/fixture"
	"github.com/riskibarqy/day-planner/internal/platform/logging"
	"github.com/riskibarqy/day-planner/internal/usecase"
	"github.com/stretchr/testify/mock"
)

const testJobToken = "job-token"

type testAPI struct {
	router    http.Handler
	items     *usecase.UserItemService
	favorites *usecase.FavoritesRegistry
	mirror    *calendar.ICSMirror
}

func newTestAPI(t *testing.T, sources ...fixture.Source) testAPI {
	t.Helper()

	logger := logging.NewNop()
	mirror := calendar.NewICSMirror("")
	items := usecase.NewUserItemService(memory.NewUserItemRepository(), mirror, nil, nil, logger)
	favorites := usecase.NewFavoritesRegistry(memory.NewFavoritesRepository(), logger)
	favorites.Load(context.Background())

	aggregator := usecase.NewAggregator(usecase.NewSourceRegistry(sources...), usecase.AggregatorConfig{}, logger)
	timelineService := usecase.NewTimelineService(items, favorites, aggregator, usecase.TimelineServiceConfig{Location: time.UTC}, logger)

	handler := NewHandler(timelineService, favorites, items, mirror, logger)
	return testAPI{
		router:    NewRouter(handler, logger, true, []string{"*"}, testJobToken),
		items:     items,
		favorites: favorites,
		mirror:    mirror,
	}
}

func (a testAPI) do(t *testing.T, method, target, body string, headers map[string]string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)

	var decoded map[string]any
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		if err := sonic.Unmarshal(rec.Body.Bytes(), &decoded); err != nil {
			t.Fatalf("unmarshal response: %v body=%s", err, rec.Body.String())
		}
	}
	return rec, decoded
}

func errorStatus(body map[string]any) string {
	errObj, _ := body["error"].(map[string]any)
	status, _ := errObj["status"].(string)
	return status
}

func TestHandler_Healthz(t *testing.T) {
	api := newTestAPI(t)

	rec, body := api.do(t, http.MethodGet, "/healthz", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	data, _ := body["data"].(map[string]any)
	if data["status"] != "ok" {
		t.Fatalf("unexpected body: %v", body)
	}
}

func TestHandler_TimelineMergesUserItemsAndFixtures(t *testing.T) {
	generic := fixturemock.NewSource(t)
	generic.On("Provider").Return(fixture.ProviderGenericLeague)

	kickoff := time.Date(2024, 6, 1, 15, 0, 0, 0, time.UTC)
	generic.
		On("Fetch", mock.Anything, mock.Anything).
		Return([]timeline.Item{{
			ID:           "fx-1",
			Title:        "Soccer: Arsenal vs Chelsea",
			Kind:         timeline.KindFixture,
			CalendarDate: civil.Date{Year: 2024, Month: time.June, Day: 1},
			StartTime:    &kickoff,
		}}, nil).
		Once()

	api := newTestAPI(t, generic)
	if _, err := api.favorites.Add(context.Background(), "Soccer", "Arsenal"); err != nil {
		t.Fatalf("add favorite: %v", err)
	}

	rec, _ := api.do(t, http.MethodPost, "/v1/items",
		`{"title":"Gym","kind":"task","date":"2024-06-01","start_time":"2024-06-01T09:00:00Z"}`, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", rec.Code, rec.Body.String())
	}

	rec, body := api.do(t, http.MethodGet, "/v1/timeline?date=2024-06-01", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	data, _ := body["data"].(map[string]any)
	items, _ := data["items"].([]any)
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d: %v", len(items), data)
	}
	first, _ := items[0].(map[string]any)
	second, _ := items[1].(map[string]any)
	if first["title"] != "Gym" || second["id"] != "fx-1" {
		t.Fatalf("unexpected order: %v", items)
	}
}

func TestHandler_TimelineRejectsBadDate(t *testing.T) {
	api := newTestAPI(t)

	rec, body := api.do(t, http.MethodGet, "/v1/timeline?date=06-01-2024", "", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if errorStatus(body) != "INVALID_ARGUMENT" {
		t.Fatalf("unexpected error body: %v", body)
	}
}

func TestHandler_TimelineRangeValidatesDays(t *testing.T) {
	api := newTestAPI(t)

	rec, _ := api.do(t, http.MethodGet, "/v1/timeline/range?from=2024-06-01&days=30", "", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	rec, body := api.do(t, http.MethodGet, "/v1/timeline/range?from=2024-06-01&days=3", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	days, _ := body["data"].([]any)
	if len(days) != 3 {
		t.Fatalf("expected 3 day views, got %d", len(days))
	}
	last, _ := days[2].(map[string]any)
	if last["date"] != "2024-06-03" {
		t.Fatalf("unexpected last date: %v", last["date"])
	}
}

func TestHandler_FavoritesLifecycle(t *testing.T) {
	api := newTestAPI(t)

	rec, body := api.do(t, http.MethodPost, "/v1/favorites", `{"sport":"MLB","team":"Yankees"}`, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	sports, _ := body["data"].([]any)
	if len(sports) != 1 {
		t.Fatalf("expected 1 followed sport, got %v", body)
	}

	rec, body = api.do(t, http.MethodDelete, "/v1/favorites/MLB/teams/Yankees", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	sports, _ = body["data"].([]any)
	if len(sports) != 0 {
		t.Fatalf("expected sport pruned after last team removed, got %v", sports)
	}
}

func TestHandler_AddFavoriteValidation(t *testing.T) {
	api := newTestAPI(t)

	rec, _ := api.do(t, http.MethodPost, "/v1/favorites", `{"sport":"MLB"}`, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing team, got %d", rec.Code)
	}

	rec, _ = api.do(t, http.MethodPost, "/v1/favorites", `{"sport":"MLB","team":"Yankees","extra":1}`, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown field, got %d", rec.Code)
	}
}

func TestHandler_ItemLifecycle(t *testing.T) {
	api := newTestAPI(t)

	rec, body := api.do(t, http.MethodPost, "/v1/items",
		`{"title":"Dentist","kind":"event","date":"2024-06-01","start_time":"2024-06-01T10:00:00Z","end_time":"2024-06-01T11:00:00Z","venue":"Clinic"}`, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", rec.Code, rec.Body.String())
	}
	data, _ := body["data"].(map[string]any)
	itemID, _ := data["id"].(string)
	if itemID == "" {
		t.Fatalf("expected item id in %v", data)
	}
	if api.mirror.Len() != 1 {
		t.Fatalf("expected event mirrored to calendar")
	}

	rec, _ = api.do(t, http.MethodGet, "/v1/calendar.ics", "", nil)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "SUMMARY:Dentist") {
		t.Fatalf("unexpected calendar feed: %d %s", rec.Code, rec.Body.String())
	}

	rec, body = api.do(t, http.MethodPatch, "/v1/items/"+itemID, `{"title":"Dentist (moved)"}`, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	data, _ = body["data"].(map[string]any)
	if data["title"] != "Dentist (moved)" {
		t.Fatalf("unexpected updated item: %v", data)
	}

	rec, _ = api.do(t, http.MethodDelete, "/v1/items/"+itemID, "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if api.mirror.Len() != 0 {
		t.Fatalf("expected event removed from calendar")
	}

	rec, body = api.do(t, http.MethodDelete, "/v1/items/"+itemID, "", nil)
	if rec.Code != http.StatusNotFound || errorStatus(body) != "NOT_FOUND" {
		t.Fatalf("expected 404 for deleted item, got %d %v", rec.Code, body)
	}
}

func TestHandler_ToggleTaskAndListFilter(t *testing.T) {
	api := newTestAPI(t)

	rec, body := api.do(t, http.MethodPost, "/v1/items", `{"title":"Read","kind":"task","date":"2024-06-01"}`, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	data, _ := body["data"].(map[string]any)
	itemID, _ := data["id"].(string)

	rec, body = api.do(t, http.MethodPatch, "/v1/items/"+itemID, `{"toggle_complete":true}`, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	data, _ = body["data"].(map[string]any)
	if data["completed"] != true {
		t.Fatalf("expected completed item, got %v", data)
	}

	_, body = api.do(t, http.MethodGet, "/v1/items?date=2024-06-01", "", nil)
	if items, _ := body["data"].([]any); len(items) != 0 {
		t.Fatalf("expected completed task hidden, got %v", items)
	}
	_, body = api.do(t, http.MethodGet, "/v1/items?date=2024-06-01&include_completed=true", "", nil)
	if items, _ := body["data"].([]any); len(items) != 1 {
		t.Fatalf("expected completed task listed, got %v", items)
	}
}

func TestHandler_CreateItemRejectsFixtureKind(t *testing.T) {
	api := newTestAPI(t)

	rec, _ := api.do(t, http.MethodPost, "/v1/items", `{"title":"Match","kind":"fixture","date":"2024-06-01"}`, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestHandler_ReminderRequiresJobToken(t *testing.T) {
	api := newTestAPI(t)

	rec, body := api.do(t, http.MethodPost, "/v1/internal/reminders", `{"item_id":"x"}`, nil)
	if rec.Code != http.StatusUnauthorized || errorStatus(body) != "UNAUTHENTICATED" {
		t.Fatalf("expected 401, got %d %v", rec.Code, body)
	}

	rec, body = api.do(t, http.MethodPost, "/v1/internal/reminders", `{"item_id":"x"}`,
		map[string]string{"X-Internal-Job-Token": testJobToken})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	data, _ := body["data"].(map[string]any)
	if data["status"] != "dropped" {
		t.Fatalf("expected dropped reminder for unknown item, got %v", data)
	}
}

func TestHandler_ReminderDeliversExistingItem(t *testing.T) {
	api := newTestAPI(t)

	start := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	item, err := api.items.Create(context.Background(), usecase.CreateItemInput{
		Title:     "Dentist",
		Kind:      string(timeline.KindEvent),
		Date:      civil.DateOf(start),
		StartTime: &start,
	})
	if err != nil {
		t.Fatalf("create item: %v", err)
	}

	rec, body := api.do(t, http.MethodPost, "/v1/internal/reminders", `{"item_id":"`+item.ID+`","title":"Dentist"}`,
		map[string]string{"X-Internal-Job-Token": testJobToken})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	data, _ := body["data"].(map[string]any)
	if data["status"] != "delivered" {
		t.Fatalf("unexpected reminder response: %v", data)
	}
}

func TestHandler_Metrics(t *testing.T) {
	api := newTestAPI(t)

	rec, _ := api.do(t, http.MethodGet, "/metrics", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestMapError_PersistenceFailureIsUnavailable(t *testing.T) {
	mapped := mapError(context.Background(), usecase.ErrPersistenceFailed)
	if mapped.HTTPStatus != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", mapped.HTTPStatus)
	}
}
