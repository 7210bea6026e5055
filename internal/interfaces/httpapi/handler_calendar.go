package httpapi

import (
	"errors"
	"net/http"

	"github.com/riskibarqy/day-planner/internal/usecase"
)

func (h *Handler) CalendarFeed(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CalendarFeed")
	defer span.End()

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `inline; filename="day-planner.ics"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(h.calendar.Render())); err != nil {
		h.logger.WarnContext(ctx, "write calendar feed failed", "error", err)
	}
}

// DeliverReminder is the QStash callback for a due reminder. Delivery to a
// device is out of scope; the reminder is logged and acknowledged.
func (h *Handler) DeliverReminder(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeliverReminder")
	defer span.End()

	var req reminderRequest
	if err := decodeJSON(r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.itemService.Get(ctx, req.ItemID)
	switch {
	case errors.Is(err, usecase.ErrNotFound):
		h.logger.InfoContext(ctx, "reminder for deleted item dropped", "item_id", req.ItemID)
		writeSuccess(ctx, w, http.StatusOK, reminderDTO{ItemID: req.ItemID, Status: "dropped"})
		return
	case err != nil:
		h.logger.WarnContext(ctx, "load reminder item failed", "item_id", req.ItemID, "error", err)
		writeError(ctx, w, err)
		return
	}

	h.logger.InfoContext(ctx, "reminder due",
		"item_id", item.ID,
		"title", item.Title,
		"kind", string(item.Kind),
		"venue", item.Venue,
	)
	writeSuccess(ctx, w, http.StatusOK, reminderDTO{
		ItemID:    item.ID,
		Status:    "delivered",
		Title:     item.Title,
		StartTime: formatOptionalTime(item.StartTime),
	})
}
