package handlers

import (
	"net/http"

	"chargenet/backend/services/roaming-api/internal/domain"
)

// ListOperators answers GET /RNs/{RN}/ChargingStationOperators.
func (h *Handlers) ListOperators(w http.ResponseWriter, r *http.Request) {
	n, ok := h.network(w, r)
	if !ok {
		return
	}
	p := params(r)
	s := serializer{network: n, expand: p.Expand}
	writeList(w, p, n.Operators(), func(op domain.ChargingStationOperator) domain.ChargingStationOperatorID { return op.ID }, s.operatorJSON)
}

// CountOperators answers COUNT /RNs/{RN}/ChargingStationOperators.
func (h *Handlers) CountOperators(w http.ResponseWriter, r *http.Request) {
	if n, ok := h.network(w, r); ok {
		writeCount(w, len(n.Operators()))
	}
}

// GetOperator answers GET /RNs/{RN}/ChargingStationOperators/{OperatorId}.
func (h *Handlers) GetOperator(w http.ResponseWriter, r *http.Request) {
	n, op, ok := h.operator(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, serializer{network: n, expand: params(r).Expand}.operatorJSON(op))
}

func poolKey(p domain.ChargingPool) domain.ChargingPoolID          { return p.ID }
func stationKey(s domain.ChargingStation) domain.ChargingStationID { return s.ID }
func evseKey(e domain.EVSE) domain.EVSEID                          { return e.ID }

// ListPools answers GET /RNs/{RN}/ChargingPools.
func (h *Handlers) ListPools(w http.ResponseWriter, r *http.Request) {
	n, ok := h.network(w, r)
	if !ok {
		return
	}
	p := params(r)
	writeList(w, p, n.Pools(), poolKey, serializer{network: n, expand: p.Expand}.poolJSON)
}

// CountPools answers COUNT /RNs/{RN}/ChargingPools.
func (h *Handlers) CountPools(w http.ResponseWriter, r *http.Request) {
	if n, ok := h.network(w, r); ok {
		writeCount(w, len(n.Pools()))
	}
}

// GetPool answers GET /RNs/{RN}/ChargingPools/{PoolId}.
func (h *Handlers) GetPool(w http.ResponseWriter, r *http.Request) {
	n, pool, ok := h.pool(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, serializer{network: n, expand: params(r).Expand}.poolJSON(pool))
}

// ListStations answers GET /RNs/{RN}/ChargingStations and, below a pool, the stations of
// that pool.
func (h *Handlers) ListStations(w http.ResponseWriter, r *http.Request) {
	var (
		n        *domain.RoamingNetwork
		stations []domain.ChargingStation
	)
	if hasVar(r, varPool) {
		var pool domain.ChargingPool
		var ok bool
		if n, pool, ok = h.pool(w, r); !ok {
			return
		}
		stations = n.StationsOfPool(pool.ID)
	} else {
		var ok bool
		if n, ok = h.network(w, r); !ok {
			return
		}
		stations = n.Stations()
	}
	p := params(r)
	writeList(w, p, stations, stationKey, serializer{network: n, expand: p.Expand}.stationJSON)
}

// CountStations answers COUNT /RNs/{RN}/ChargingStations.
func (h *Handlers) CountStations(w http.ResponseWriter, r *http.Request) {
	if n, ok := h.network(w, r); ok {
		writeCount(w, len(n.Stations()))
	}
}

// GetStation answers GET on a station, flat or below its pool.
func (h *Handlers) GetStation(w http.ResponseWriter, r *http.Request) {
	n, st, ok := h.station(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, serializer{network: n, expand: params(r).Expand}.stationJSON(st))
}

// ListEVSEs answers GET /RNs/{RN}/EVSEs and, below a station, the EVSEs of that station.
func (h *Handlers) ListEVSEs(w http.ResponseWriter, r *http.Request) {
	var evses []domain.EVSE
	if hasVar(r, varStation) {
		n, st, ok := h.station(w, r)
		if !ok {
			return
		}
		evses = n.EVSEsOfStation(st.ID)
	} else {
		n, ok := h.network(w, r)
		if !ok {
			return
		}
		evses = n.EVSEs()
	}
	writeList(w, params(r), evses, evseKey, newEVSEJSON)
}

// CountEVSEs answers COUNT /RNs/{RN}/EVSEs.
func (h *Handlers) CountEVSEs(w http.ResponseWriter, r *http.Request) {
	if n, ok := h.network(w, r); ok {
		writeCount(w, len(n.EVSEs()))
	}
}

// GetEVSE answers GET /RNs/{RN}/EVSEs/{EVSEId}.
func (h *Handlers) GetEVSE(w http.ResponseWriter, r *http.Request) {
	_, e, ok := h.evse(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, newEVSEJSON(e))
}

// ListProviders answers GET /RNs/{RN}/eMobilityProviders.
func (h *Handlers) ListProviders(w http.ResponseWriter, r *http.Request) {
	n, ok := h.network(w, r)
	if !ok {
		return
	}
	writeList(w, params(r), n.EMobilityProviders(),
		func(p domain.EMobilityProvider) domain.EMobilityProviderID { return p.ID }, newProviderJSON)
}

// CountProviders answers COUNT /RNs/{RN}/eMobilityProviders.
func (h *Handlers) CountProviders(w http.ResponseWriter, r *http.Request) {
	if n, ok := h.network(w, r); ok {
		writeCount(w, len(n.EMobilityProviders()))
	}
}

// ListParkingOperators answers GET /RNs/{RN}/ParkingOperators.
func (h *Handlers) ListParkingOperators(w http.ResponseWriter, r *http.Request) {
	n, ok := h.network(w, r)
	if !ok {
		return
	}
	writeList(w, params(r), n.ParkingOperators(),
		func(p domain.ParkingOperator) domain.ParkingOperatorID { return p.ID }, newParkingOperatorJSON)
}

// CountParkingOperators answers COUNT /RNs/{RN}/ParkingOperators.
func (h *Handlers) CountParkingOperators(w http.ResponseWriter, r *http.Request) {
	if n, ok := h.network(w, r); ok {
		writeCount(w, len(n.ParkingOperators()))
	}
}
