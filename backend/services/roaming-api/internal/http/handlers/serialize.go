package handlers

import (
	"time"

	"chargenet/backend/services/roaming-api/internal/domain"
	"chargenet/backend/services/roaming-api/internal/query"
)

// Relation names accepted by the expand parameter.
const (
	relOperators = "operators"
	relBrands    = "brands"
	relPools     = "pools"
	relStations  = "stations"
	relEVSEs     = "evses"
)

type brandJSON struct {
	ID   string `json:"@id"`
	Name string `json:"Name,omitempty"`
}

type networkJSON struct {
	ID          string `json:"@id"`
	Name        string `json:"Name,omitempty"`
	Description string `json:"Description,omitempty"`
	AdminStatus string `json:"AdminStatus"`
	Status      string `json:"Status"`
	Operators   any    `json:"ChargingStationOperators"`
	Pools       any    `json:"ChargingPools"`
	Stations    any    `json:"ChargingStations"`
	EVSEs       any    `json:"EVSEs"`
}

type operatorJSON struct {
	ID     string `json:"@id"`
	Name   string `json:"Name,omitempty"`
	Brands any    `json:"Brands"`
	Pools  any    `json:"ChargingPools"`
}

type poolJSON struct {
	ID          string `json:"@id"`
	Name        string `json:"Name,omitempty"`
	Description string `json:"Description,omitempty"`
	OperatorID  string `json:"ChargingStationOperatorId"`
	AdminStatus string `json:"AdminStatus"`
	Status      string `json:"Status"`
	Stations    any    `json:"ChargingStations"`
}

type stationJSON struct {
	ID          string `json:"@id"`
	Name        string `json:"Name,omitempty"`
	PoolID      string `json:"ChargingPoolId"`
	OperatorID  string `json:"ChargingStationOperatorId"`
	AdminStatus string `json:"AdminStatus"`
	Status      string `json:"Status"`
	EVSEs       any    `json:"EVSEs"`
}

type evseJSON struct {
	ID          string  `json:"@id"`
	Description string  `json:"Description,omitempty"`
	MaxPower    float64 `json:"MaxPower,omitempty"`
	StationID   string  `json:"ChargingStationId"`
	PoolID      string  `json:"ChargingPoolId"`
	OperatorID  string  `json:"ChargingStationOperatorId"`
	AdminStatus string  `json:"AdminStatus"`
	Status      string  `json:"Status"`
}

type providerJSON struct {
	ID   string `json:"@id"`
	Name string `json:"Name,omitempty"`
}

type authorizedIDsJSON struct {
	AuthTokens []string `json:"AuthTokens,omitempty"`
	EMAIDs     []string `json:"eMAIds,omitempty"`
	PINs       int      `json:"PINs,omitempty"`
}

type intendedChargingJSON struct {
	StartTime         string `json:"StartTime,omitempty"`
	Duration          int64  `json:"Duration,omitempty"`
	ChargingProductID string `json:"ChargingProductId,omitempty"`
	Plan              string `json:"Plan,omitempty"`
	EMail             string `json:"eMail,omitempty"`
	SMS               string `json:"SMS,omitempty"`
}

type reservationJSON struct {
	ID               string                `json:"@id"`
	EVSEID           string                `json:"EVSEId"`
	ProviderID       string                `json:"ProviderId,omitempty"`
	EMAID            string                `json:"eMAId,omitempty"`
	StartTime        string                `json:"StartTime"`
	Duration         int64                 `json:"Duration"`
	EndTime          string                `json:"EndTime"`
	CreatedAt        string                `json:"Timestamp"`
	AuthorizedIDs    *authorizedIDsJSON    `json:"AuthorizedIds,omitempty"`
	IntendedCharging *intendedChargingJSON `json:"IntendedCharging,omitempty"`
}

type sessionJSON struct {
	ID                string `json:"@id"`
	EVSEID            string `json:"EVSEId"`
	ProviderID        string `json:"ProviderId,omitempty"`
	AuthToken         string `json:"AuthToken,omitempty"`
	EMAID             string `json:"eMAId,omitempty"`
	AuthorizatorID    string `json:"AuthorizatorId,omitempty"`
	ReservationID     string `json:"ReservationId,omitempty"`
	ChargingProductID string `json:"ChargingProductId,omitempty"`
	State             string `json:"State"`
	StartTime         string `json:"StartTime"`
	EndTime           string `json:"EndTime,omitempty"`
}

// serializer renders infrastructure of one network honoring the request's expansion.
type serializer struct {
	network *domain.RoamingNetwork
	expand  query.Expansion
}

func (s serializer) networkJSON() networkJSON {
	info := s.network.Info()
	out := networkJSON{
		ID:          info.ID.String(),
		Name:        info.Name,
		Description: info.Description,
		AdminStatus: string(info.AdminStatus.Value),
		Status:      string(info.Status.Value),
	}
	out.Operators = related(s, relOperators, query.ShowIDOnly, info.OperatorIDs, s.network.Operator, s.operatorJSON)
	out.Pools = related(s, relPools, query.ShowIDOnly, info.PoolIDs, s.network.Pool, s.poolJSON)
	out.Stations = related(s, relStations, query.ShowIDOnly, info.StationIDs, s.network.Station, s.stationJSON)
	out.EVSEs = related(s, relEVSEs, query.ShowIDOnly, info.EVSEIDs, s.network.EVSE, newEVSEJSON)
	return out
}

func (s serializer) operatorJSON(op domain.ChargingStationOperator) operatorJSON {
	out := operatorJSON{ID: op.ID.String(), Name: op.Name}
	if s.expand.Expanded(relBrands, query.Expand) {
		brands := make([]brandJSON, 0, len(op.Brands))
		for _, b := range op.Brands {
			brands = append(brands, brandJSON{ID: b.ID, Name: b.Name})
		}
		out.Brands = brands
	} else {
		ids := make([]string, 0, len(op.Brands))
		for _, b := range op.Brands {
			ids = append(ids, b.ID)
		}
		out.Brands = ids
	}
	out.Pools = related(s, relPools, query.ShowIDOnly, op.PoolIDs, s.network.Pool, s.poolJSON)
	return out
}

func (s serializer) poolJSON(p domain.ChargingPool) poolJSON {
	return poolJSON{
		ID:          p.ID.String(),
		Name:        p.Name,
		Description: p.Description,
		OperatorID:  p.OperatorID.String(),
		AdminStatus: string(current(p.AdminStatusHistory)),
		Status:      string(current(p.StatusHistory)),
		Stations:    related(s, relStations, query.ShowIDOnly, p.StationIDs, s.network.Station, s.stationJSON),
	}
}

func (s serializer) stationJSON(st domain.ChargingStation) stationJSON {
	return stationJSON{
		ID:          st.ID.String(),
		Name:        st.Name,
		PoolID:      st.PoolID.String(),
		OperatorID:  st.OperatorID.String(),
		AdminStatus: string(current(st.AdminStatusHistory)),
		Status:      string(current(st.StatusHistory)),
		EVSEs:       related(s, relEVSEs, query.ShowIDOnly, st.EVSEIDs, s.network.EVSE, newEVSEJSON),
	}
}

func newEVSEJSON(e domain.EVSE) evseJSON {
	return evseJSON{
		ID:          e.ID.String(),
		Description: e.Description,
		MaxPower:    e.MaxPowerKW,
		StationID:   e.StationID.String(),
		PoolID:      e.PoolID.String(),
		OperatorID:  e.OperatorID.String(),
		AdminStatus: string(current(e.AdminStatusHistory)),
		Status:      string(current(e.StatusHistory)),
	}
}

// related renders ids either as identifiers or, when the relation is expanded, as full
// objects. Identifiers that no longer resolve are skipped in the expanded form.
func related[ID ~string, E any, J any](s serializer, relation string, def query.Mode, ids []ID, lookup func(ID) (E, bool), render func(E) J) any {
	if !s.expand.Expanded(relation, def) {
		out := make([]string, 0, len(ids))
		for _, id := range ids {
			out = append(out, string(id))
		}
		return out
	}
	out := make([]J, 0, len(ids))
	for _, id := range ids {
		if entity, ok := lookup(id); ok {
			out = append(out, render(entity))
		}
	}
	return out
}

func current[T any](history []domain.Timestamped[T]) T {
	var zero T
	if len(history) == 0 {
		return zero
	}
	return history[0].Value
}

func newProviderJSON(p domain.EMobilityProvider) providerJSON {
	return providerJSON{ID: p.ID.String(), Name: p.Name}
}

func newParkingOperatorJSON(p domain.ParkingOperator) providerJSON {
	return providerJSON{ID: p.ID.String(), Name: p.Name}
}

func newReservationJSON(r domain.Reservation) reservationJSON {
	out := reservationJSON{
		ID:         r.ID.String(),
		EVSEID:     r.EVSEID.String(),
		ProviderID: r.ProviderID.String(),
		EMAID:      r.EMAID.String(),
		StartTime:  stamp(r.StartTime),
		Duration:   int64(r.Duration / time.Second),
		EndTime:    stamp(r.EndTime()),
		CreatedAt:  stamp(r.CreatedAt),
	}
	if len(r.AuthTokens) > 0 || len(r.EMAIDs) > 0 || len(r.PINHashes) > 0 {
		ids := &authorizedIDsJSON{PINs: len(r.PINHashes)}
		for _, t := range r.AuthTokens {
			ids.AuthTokens = append(ids.AuthTokens, t.String())
		}
		for _, e := range r.EMAIDs {
			ids.EMAIDs = append(ids.EMAIDs, e.String())
		}
		out.AuthorizedIDs = ids
	}
	if ic := r.IntendedCharging; ic != nil {
		intended := &intendedChargingJSON{
			Duration:          int64(ic.Duration / time.Second),
			ChargingProductID: ic.ChargingProductID.String(),
			Plan:              ic.Plan,
			EMail:             ic.EMail,
			SMS:               ic.SMS,
		}
		if ic.StartTime != nil {
			intended.StartTime = stamp(*ic.StartTime)
		}
		out.IntendedCharging = intended
	}
	return out
}

func newSessionJSON(s domain.ChargingSession) sessionJSON {
	out := sessionJSON{
		ID:                s.ID.String(),
		EVSEID:            s.EVSEID.String(),
		ProviderID:        s.ProviderID.String(),
		AuthToken:         s.AuthToken.String(),
		EMAID:             s.EMAID.String(),
		AuthorizatorID:    s.AuthorizatorID,
		ReservationID:     s.ReservationID.String(),
		ChargingProductID: s.ChargingProductID.String(),
		State:             string(s.State),
		StartTime:         stamp(s.StartTime),
	}
	if s.EndTime != nil {
		out.EndTime = stamp(*s.EndTime)
	}
	return out
}
