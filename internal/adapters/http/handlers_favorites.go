package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) addFavorite(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid or missing credentials")
		return
	}
	if err := h.service.AddFavorite(r.Context(), actor, chi.URLParam(r, "ad_id")); err != nil {
		writeDomainError(w, err)
		return
	}
	writeMessage(w, http.StatusCreated, "added to favorites")
}

func (h *Handler) removeFavorite(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid or missing credentials")
		return
	}
	if err := h.service.RemoveFavorite(r.Context(), actor, chi.URLParam(r, "ad_id")); err != nil {
		writeDomainError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "removed from favorites")
}

func (h *Handler) checkFavorite(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid or missing credentials")
		return
	}
	saved, err := h.service.CheckFavorite(r.Context(), actor, chi.URLParam(r, "ad_id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]bool{"favorited": saved})
}

func (h *Handler) listFavorites(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid or missing credentials")
		return
	}
	q := r.URL.Query()
	resp, err := h.service.ListFavorites(r.Context(), actor, queryInt(q.Get("page")), queryInt(q.Get("limit")))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, resp)
}
