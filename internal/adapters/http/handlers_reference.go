package http

import (
	"encoding/json"
	"net/http"
)

func (h *Handler) listCategories(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, http.StatusOK, h.service.Categories())
}

func (h *Handler) listCities(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, http.StatusOK, h.service.Cities())
}

func (h *Handler) myReferralCode(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid or missing credentials")
		return
	}
	resp, err := h.service.ReferralCode(r.Context(), actor)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, resp)
}

func (h *Handler) trackReferral(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid json body")
		return
	}
	tracked, err := h.service.TrackReferral(r.Context(), req.Code)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]bool{"tracked": tracked})
}
