package handlers

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"chargenet/backend/services/roaming-api/internal/domain"
)

// Path variable names used in route templates.
const (
	varNetwork     = "RN"
	varProperty    = "propertyKey"
	varOperator    = "OperatorId"
	varPool        = "PoolId"
	varStation     = "StationId"
	varEVSE        = "EVSEId"
	varReservation = "ReservationId"
	varSession     = "SessionId"
)

// resolve parses one path variable and looks it up. It answers 400 for a malformed
// identifier and 404 for an unknown one; ok is false once a response has been written.
func resolve[ID any, E any](w http.ResponseWriter, r *http.Request, name, kind string, parse func(string) (ID, error), lookup func(ID) (E, bool)) (E, bool) {
	var zero E
	id, ok := parseVar(w, r, name, kind, parse)
	if !ok {
		return zero, false
	}
	entity, found := lookup(id)
	if !found {
		writeError(w, http.StatusNotFound, fmt.Sprintf("Unknown %s!", kind))
		return zero, false
	}
	return entity, true
}

// parseVar only validates the syntax of a path variable.
func parseVar[ID any](w http.ResponseWriter, r *http.Request, name, kind string, parse func(string) (ID, error)) (ID, bool) {
	id, err := parse(mux.Vars(r)[name])
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid %s!", kind))
		return id, false
	}
	return id, true
}

func (h *Handlers) network(w http.ResponseWriter, r *http.Request) (*domain.RoamingNetwork, bool) {
	return resolve(w, r, varNetwork, "RoamingNetworkId", domain.ParseRoamingNetworkID, h.registry.Get)
}

func (h *Handlers) operator(w http.ResponseWriter, r *http.Request) (*domain.RoamingNetwork, domain.ChargingStationOperator, bool) {
	n, ok := h.network(w, r)
	if !ok {
		return nil, domain.ChargingStationOperator{}, false
	}
	op, ok := resolve(w, r, varOperator, "ChargingStationOperatorId", domain.ParseChargingStationOperatorID, n.Operator)
	return n, op, ok
}

func (h *Handlers) pool(w http.ResponseWriter, r *http.Request) (*domain.RoamingNetwork, domain.ChargingPool, bool) {
	n, ok := h.network(w, r)
	if !ok {
		return nil, domain.ChargingPool{}, false
	}
	p, ok := resolve(w, r, varPool, "ChargingPoolId", domain.ParseChargingPoolID, n.Pool)
	return n, p, ok
}

// station resolves a station; below a pool path it must belong to that pool.
func (h *Handlers) station(w http.ResponseWriter, r *http.Request) (*domain.RoamingNetwork, domain.ChargingStation, bool) {
	var (
		n    *domain.RoamingNetwork
		pool *domain.ChargingPool
		ok   bool
	)
	if hasVar(r, varPool) {
		var p domain.ChargingPool
		if n, p, ok = h.pool(w, r); !ok {
			return nil, domain.ChargingStation{}, false
		}
		pool = &p
	} else if n, ok = h.network(w, r); !ok {
		return nil, domain.ChargingStation{}, false
	}

	lookup := n.Station
	if pool != nil {
		lookup = func(id domain.ChargingStationID) (domain.ChargingStation, bool) {
			st, found := n.Station(id)
			return st, found && st.PoolID == pool.ID
		}
	}
	st, ok := resolve(w, r, varStation, "ChargingStationId", domain.ParseChargingStationID, lookup)
	return n, st, ok
}

func (h *Handlers) evse(w http.ResponseWriter, r *http.Request) (*domain.RoamingNetwork, domain.EVSE, bool) {
	n, ok := h.network(w, r)
	if !ok {
		return nil, domain.EVSE{}, false
	}
	e, ok := resolve(w, r, varEVSE, "EVSEId", domain.ParseEVSEID, n.EVSE)
	return n, e, ok
}

func (h *Handlers) reservation(w http.ResponseWriter, r *http.Request) (*domain.RoamingNetwork, domain.Reservation, bool) {
	n, ok := h.network(w, r)
	if !ok {
		return nil, domain.Reservation{}, false
	}
	res, ok := resolve(w, r, varReservation, "ReservationId", domain.ParseReservationID, n.Reservation)
	return n, res, ok
}

func (h *Handlers) session(w http.ResponseWriter, r *http.Request) (*domain.RoamingNetwork, domain.ChargingSession, bool) {
	n, ok := h.network(w, r)
	if !ok {
		return nil, domain.ChargingSession{}, false
	}
	s, ok := resolve(w, r, varSession, "ChargingSessionId", domain.ParseChargingSessionID, n.ChargingSession)
	return n, s, ok
}

func hasVar(r *http.Request, name string) bool {
	_, ok := mux.Vars(r)[name]
	return ok
}
