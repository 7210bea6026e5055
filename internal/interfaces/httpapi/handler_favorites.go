package httpapi

import (
	"net/http"
)

func (h *Handler) ListFavorites(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListFavorites")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, favoritesToDTO(h.favorites.List()))
}

func (h *Handler) AddFavorite(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AddFavorite")
	defer span.End()

	var req addFavoriteRequest
	if err := decodeJSON(r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	sports, err := h.favorites.Add(ctx, req.Sport, req.Team)
	if err != nil {
		h.logger.WarnContext(ctx, "add favorite failed", "sport", req.Sport, "team", req.Team, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, favoritesToDTO(sports))
}

func (h *Handler) RemoveFavoriteSport(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RemoveFavoriteSport")
	defer span.End()

	sport := r.PathValue("sport")
	sports, err := h.favorites.RemoveSport(ctx, sport)
	if err != nil {
		h.logger.WarnContext(ctx, "remove favorite sport failed", "sport", sport, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, favoritesToDTO(sports))
}

func (h *Handler) RemoveFavoriteTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RemoveFavoriteTeam")
	defer span.End()

	sport := r.PathValue("sport")
	team := r.PathValue("team")
	sports, err := h.favorites.Remove(ctx, sport, team)
	if err != nil {
		h.logger.WarnContext(ctx, "remove favorite team failed", "sport", sport, "team", team, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, favoritesToDTO(sports))
}
