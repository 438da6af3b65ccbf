package handler

import (
	"encoding/json"
	"net/http"

	"github.com/amanuel-t/travel_booking/internal/core/services"
	"github.com/amanuel-t/travel_booking/internal/monitoring"
)

type PaymentHandler struct {
	svc *services.PaymentService
}

func NewPaymentHandler(svc *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{svc: svc}
}

// InitiatePayment starts a gateway checkout for the booking's pending payment.
func (h *PaymentHandler) InitiatePayment(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFrom(r)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "missing or invalid user identity"})
		return
	}

	bookingID, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid booking id"})
		return
	}

	resp, err := h.svc.InitiatePayment(r.Context(), bookingID, actor)
	if err != nil {
		monitoring.TrackPaymentOperation("initiate", "error")
		writeError(w, err)
		return
	}

	monitoring.TrackPaymentOperation("initiate", "success")
	writeJSON(w, http.StatusOK, resp)
}

func (h *PaymentHandler) VerifyPayment(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFrom(r)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "missing or invalid user identity"})
		return
	}

	paymentID, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payment id"})
		return
	}

	resp, err := h.svc.VerifyPaymentForActor(r.Context(), paymentID, actor)
	if err != nil {
		monitoring.TrackPaymentOperation("verify", "error")
		writeError(w, err)
		return
	}

	monitoring.TrackPaymentOperation("verify", "success")
	writeJSON(w, http.StatusOK, resp)
}

// GatewayCallback handles the payment provider's server-to-server
// notification. The provider does not carry our user identity, so the
// payment is resolved by transaction reference and the verdict is fetched
// from the gateway rather than trusted from the request body.
func (h *PaymentHandler) GatewayCallback(w http.ResponseWriter, r *http.Request) {
	var body struct {
		TxRef string `json:"tx_ref"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.TxRef == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing tx_ref"})
		return
	}

	resp, err := h.svc.VerifyByReference(r.Context(), body.TxRef)
	if err != nil {
		monitoring.TrackPaymentOperation("callback", "error")
		writeError(w, err)
		return
	}

	monitoring.TrackPaymentOperation("callback", "success")
	writeJSON(w, http.StatusOK, resp)
}

func (h *PaymentHandler) GetPayment(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFrom(r)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "missing or invalid user identity"})
		return
	}

	paymentID, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payment id"})
		return
	}

	resp, err := h.svc.GetPayment(r.Context(), paymentID, actor)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}
