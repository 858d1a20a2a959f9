package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/x67digital/marketplace/internal/application"
)

func (h *Handler) createPaymentOrder(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid or missing credentials")
		return
	}
	var req application.CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid json body")
		return
	}
	resp, err := h.service.CreatePaymentOrder(r.Context(), actor, req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeSuccess(w, http.StatusCreated, resp)
}

// webhookEnvelope is the gateway's callback body. Only the event data is
// consumed; the rest of the envelope is ignored.
type webhookEnvelope struct {
	EventTypeID int64            `json:"EventTypeId"`
	EventData   webhookEventData `json:"EventData"`
}

type webhookEventData struct {
	OrderCode     json.Number `json:"OrderCode"`
	StatusID      string      `json:"StatusId"`
	TransactionID string      `json:"TransactionId"`
	MerchantTrns  string      `json:"MerchantTrns"`
}

// paymentWebhook accepts the settlement callback. The response is 200 for
// every processable body so the gateway does not retry events we have
// deliberately ignored; only persistence failures return 5xx.
func (h *Handler) paymentWebhook(w http.ResponseWriter, r *http.Request) {
	var envelope webhookEnvelope
	if err := json.NewDecoder(r.Body).Decode(&envelope); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid json body")
		return
	}
	orderCode, err := envelope.EventData.OrderCode.Int64()
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid order code")
		return
	}
	event := application.WebhookEvent{
		OrderCode:     orderCode,
		StatusCode:    envelope.EventData.StatusID,
		TransactionID: envelope.EventData.TransactionID,
		MerchantRef:   envelope.EventData.MerchantTrns,
	}
	if err := h.service.HandleWebhook(r.Context(), event); err != nil {
		writeDomainError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "ok")
}

// webhookVerification answers the gateway's endpoint ownership probe.
func (h *Handler) webhookVerification(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"Key": h.webhookKey})
}

func (h *Handler) verifyOrder(w http.ResponseWriter, r *http.Request) {
	orderCode, err := strconv.ParseInt(chi.URLParam(r, "order_code"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid order code")
		return
	}
	resp, err := h.service.VerifyOrder(r.Context(), orderCode)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, resp)
}
