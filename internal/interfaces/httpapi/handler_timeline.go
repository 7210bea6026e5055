package httpapi

import (
	"net/http"
)

func (h *Handler) GetTimeline(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTimeline")
	defer span.End()

	date, err := h.dateQuery(r, "date")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	includeCompleted, err := boolQuery(r, "include_completed")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	view, err := h.timelineService.Day(ctx, date, includeCompleted)
	if err != nil {
		h.logger.WarnContext(ctx, "get timeline failed", "date", date.String(), "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, dayViewToDTO(view))
}

func (h *Handler) GetTimelineRange(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTimelineRange")
	defer span.End()

	from, err := h.dateQuery(r, "from")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	days, err := intQuery(r, "days", 7)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	includeCompleted, err := boolQuery(r, "include_completed")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	views, err := h.timelineService.Range(ctx, from, days, includeCompleted)
	if err != nil {
		h.logger.WarnContext(ctx, "get timeline range failed", "from", from.String(), "days", days, "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]dayViewDTO, 0, len(views))
	for _, view := range views {
		out = append(out, dayViewToDTO(view))
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) ListFixtures(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListFixtures")
	defer span.End()

	date, err := h.dateQuery(r, "date")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	items, err := h.timelineService.Fixtures(ctx, date)
	if err != nil {
		h.logger.WarnContext(ctx, "list fixtures failed", "date", date.String(), "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, itemsToDTO(items))
}
