package handlers

import (
	"net/http"

	"chargenet/backend/services/roaming-api/internal/domain"
)

func sessionKey(s domain.ChargingSession) domain.ChargingSessionID { return s.ID }

// ListSessions answers GET /RNs/{RN}/ChargingSessions.
func (h *Handlers) ListSessions(w http.ResponseWriter, r *http.Request) {
	if n, ok := h.network(w, r); ok {
		writeList(w, params(r), n.ChargingSessions(), sessionKey, newSessionJSON)
	}
}

// CountSessions answers COUNT /RNs/{RN}/ChargingSessions.
func (h *Handlers) CountSessions(w http.ResponseWriter, r *http.Request) {
	if n, ok := h.network(w, r); ok {
		writeCount(w, len(n.ChargingSessions()))
	}
}

// GetSession answers GET /RNs/{RN}/ChargingSessions/{SessionId}.
func (h *Handlers) GetSession(w http.ResponseWriter, r *http.Request) {
	if _, s, ok := h.session(w, r); ok {
		writeJSON(w, http.StatusOK, newSessionJSON(s))
	}
}

// Events answers GET /RNs/{RN}/Events by upgrading to a WebSocket event stream.
func (h *Handlers) Events(w http.ResponseWriter, r *http.Request) {
	n, ok := h.network(w, r)
	if !ok {
		return
	}
	if h.events == nil {
		writeError(w, http.StatusNotImplemented, "Event streaming is disabled!")
		return
	}
	h.events.ServeEvents(w, r, n.ID())
}
