package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/x67digital/marketplace/internal/application"
)

func (h *Handler) createReview(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid or missing credentials")
		return
	}
	var req application.CreateReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid json body")
		return
	}
	resp, err := h.service.CreateReview(r.Context(), actor, req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeSuccess(w, http.StatusCreated, resp)
}

func (h *Handler) deleteReview(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid or missing credentials")
		return
	}
	if err := h.service.DeleteReview(r.Context(), actor, chi.URLParam(r, "review_id")); err != nil {
		writeDomainError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "review deleted")
}

func (h *Handler) listSellerReviews(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	resp, err := h.service.ListSellerReviews(r.Context(), chi.URLParam(r, "seller_id"),
		queryInt(q.Get("page")), queryInt(q.Get("limit")))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, resp)
}

func (h *Handler) sellerReviewStats(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.SellerStats(r.Context(), chi.URLParam(r, "seller_id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, resp)
}
