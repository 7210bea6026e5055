package httpapi

import (
	"net/http"

	"github.com/riskibarqy/day-planner/external/jobqueue"
	"github.com/riskibarqy/day-planner/internal/platform/metrics"
)

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, swaggerEnabled bool) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	mux.Handle("GET /metrics", metrics.Handler())
	if !swaggerEnabled {
		return
	}

	mux.HandleFunc("GET /openapi.yaml", handler.OpenAPI)
	mux.HandleFunc("GET /docs", handler.SwaggerUI)
	mux.HandleFunc("GET /docs/", handler.SwaggerUI)
}

func registerPlannerRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/timeline", handler.GetTimeline)
	mux.HandleFunc("GET /v1/timeline/range", handler.GetTimelineRange)
	mux.HandleFunc("GET /v1/fixtures", handler.ListFixtures)

	mux.HandleFunc("GET /v1/favorites", handler.ListFavorites)
	mux.HandleFunc("POST /v1/favorites", handler.AddFavorite)
	mux.HandleFunc("DELETE /v1/favorites/{sport}", handler.RemoveFavoriteSport)
	mux.HandleFunc("DELETE /v1/favorites/{sport}/teams/{team}", handler.RemoveFavoriteTeam)

	mux.HandleFunc("GET /v1/items", handler.ListItems)
	mux.HandleFunc("POST /v1/items", handler.CreateItem)
	mux.HandleFunc("PATCH /v1/items/{itemID}", handler.UpdateItem)
	mux.HandleFunc("DELETE /v1/items/{itemID}", handler.DeleteItem)

	mux.HandleFunc("GET /v1/calendar.ics", handler.CalendarFeed)
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST "+jobqueue.ReminderPath, RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.DeliverReminder)))
}
