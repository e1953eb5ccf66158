package handlers

import (
	"context"
	"net/http"

	"chargenet/backend/services/roaming-api/internal/domain"
)

func reservationKey(r domain.Reservation) domain.ReservationID { return r.ID }

// ListReservations answers GET /RNs/{RN}/Reservations.
func (h *Handlers) ListReservations(w http.ResponseWriter, r *http.Request) {
	if n, ok := h.network(w, r); ok {
		writeList(w, params(r), n.Reservations(), reservationKey, newReservationJSON)
	}
}

// CountReservations answers COUNT /RNs/{RN}/Reservations.
func (h *Handlers) CountReservations(w http.ResponseWriter, r *http.Request) {
	if n, ok := h.network(w, r); ok {
		writeCount(w, len(n.Reservations()))
	}
}

// GetReservation answers GET /RNs/{RN}/Reservations/{ReservationId}.
func (h *Handlers) GetReservation(w http.ResponseWriter, r *http.Request) {
	if _, res, ok := h.reservation(w, r); ok {
		writeJSON(w, http.StatusOK, newReservationJSON(res))
	}
}

// ExpireReservation answers SETEXPIRED /RNs/{RN}/Reservations/{ReservationId}.
func (h *Handlers) ExpireReservation(w http.ResponseWriter, r *http.Request) {
	h.cancelReservation(w, r, "SETEXPIRED", domain.CancelReasonExpired)
}

// DeleteReservation answers DELETE /RNs/{RN}/Reservations/{ReservationId}.
func (h *Handlers) DeleteReservation(w http.ResponseWriter, r *http.Request) {
	h.cancelReservation(w, r, "DELETE", domain.CancelReasonDeleted)
}

func (h *Handlers) cancelReservation(w http.ResponseWriter, r *http.Request, command string, reason domain.CancelReason) {
	n, res, ok := h.reservation(w, r)
	if !ok {
		return
	}
	result := execute(r.Context(), h.commandTimeout,
		func(ctx context.Context) domain.CancelReservationResult {
			return n.CancelReservation(ctx, res.ID, reason)
		},
		func() domain.CancelReservationResult {
			return domain.CancelReservationResult{Type: domain.CancelReservationTimeout, Description: "Cancel reservation request timed out!"}
		})
	h.logCommand(r, command, n, res.ID.String(), string(result.Type))
	status, payload := cancelReservationResponse(result)
	writeJSON(w, status, payload)
}
