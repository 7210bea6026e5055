package httpapi

import (
	"net/http"

	"cloud.google.com/go/civil"
	"github.com/riskibarqy/day-planner/internal/usecase"
)

func (h *Handler) ListItems(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListItems")
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

	items, err := h.itemService.ItemsForDate(ctx, date, includeCompleted)
	if err != nil {
		h.logger.WarnContext(ctx, "list items failed", "date", date.String(), "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, itemsToDTO(items))
}

func (h *Handler) CreateItem(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateItem")
	defer span.End()

	var req createItemRequest
	if err := decodeJSON(r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}
	// validated by the datetime tag
	date, _ := civil.ParseDate(req.Date)

	item, err := h.itemService.Create(ctx, usecase.CreateItemInput{
		Title:      req.Title,
		Kind:       req.Kind,
		Date:       date,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
		Venue:      req.Venue,
		SourceNote: req.SourceNote,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "create item failed", "kind", req.Kind, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, itemToDTO(item))
}

func (h *Handler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateItem")
	defer span.End()

	itemID := r.PathValue("itemID")
	var req updateItemRequest
	if err := decodeJSON(r, &req, true); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	if req.Toggle {
		item, err := h.itemService.ToggleComplete(ctx, itemID)
		if err != nil {
			h.logger.WarnContext(ctx, "toggle item failed", "item_id", itemID, "error", err)
			writeError(ctx, w, err)
			return
		}
		writeSuccess(ctx, w, http.StatusOK, itemToDTO(item))
		return
	}

	input := usecase.UpdateItemInput{
		ItemID:        itemID,
		Title:         req.Title,
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
		ClearSchedule: req.ClearSchedule,
		Venue:         req.Venue,
		SourceNote:    req.SourceNote,
		Completed:     req.Completed,
	}
	if req.Date != nil {
		date, _ := civil.ParseDate(*req.Date)
		input.Date = &date
	}

	item, err := h.itemService.Update(ctx, input)
	if err != nil {
		h.logger.WarnContext(ctx, "update item failed", "item_id", itemID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, itemToDTO(item))
}

func (h *Handler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeleteItem")
	defer span.End()

	itemID := r.PathValue("itemID")
	if err := h.itemService.Delete(ctx, itemID); err != nil {
		h.logger.WarnContext(ctx, "delete item failed", "item_id", itemID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"id": itemID, "status": "deleted"})
}
