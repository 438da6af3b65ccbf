package handler

import (
	"encoding/json"
	"net/http"

	"github.com/amanuel-t/travel_booking/internal/core/services"
	"github.com/amanuel-t/travel_booking/internal/monitoring"
)

type BookingHandler struct {
	svc *services.BookingService
}

func NewBookingHandler(svc *services.BookingService) *BookingHandler {
	return &BookingHandler{svc: svc}
}

func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFrom(r)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "missing or invalid user identity"})
		return
	}

	var req services.CreateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json body"})
		return
	}

	resp, err := h.svc.CreateBooking(r.Context(), actor, req)
	if err != nil {
		monitoring.TrackBookingOperation("create", "error")
		writeError(w, err)
		return
	}

	monitoring.TrackBookingOperation("create", "success")
	writeJSON(w, http.StatusCreated, resp)
}

func (h *BookingHandler) GetBooking(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFrom(r)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "missing or invalid user identity"})
		return
	}

	id, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid booking id"})
		return
	}

	resp, err := h.svc.GetBooking(r.Context(), id, actor)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *BookingHandler) ListBookings(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFrom(r)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "missing or invalid user identity"})
		return
	}

	resp, err := h.svc.ListForActor(r.Context(), actor)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *BookingHandler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFrom(r)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "missing or invalid user identity"})
		return
	}

	id, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid booking id"})
		return
	}

	resp, err := h.svc.Cancel(r.Context(), id, actor)
	if err != nil {
		monitoring.TrackBookingOperation("cancel", "error")
		writeError(w, err)
		return
	}

	monitoring.TrackBookingOperation("cancel", "success")
	writeJSON(w, http.StatusOK, resp)
}

func (h *BookingHandler) ConfirmBooking(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFrom(r)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "missing or invalid user identity"})
		return
	}

	id, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid booking id"})
		return
	}

	resp, err := h.svc.Confirm(r.Context(), id, actor)
	if err != nil {
		monitoring.TrackBookingOperation("confirm", "error")
		writeError(w, err)
		return
	}

	monitoring.TrackBookingOperation("confirm", "success")
	writeJSON(w, http.StatusOK, resp)
}
