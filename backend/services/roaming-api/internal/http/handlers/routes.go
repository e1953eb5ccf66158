package handlers

import (
	"net/http"

	httpserver "chargenet/backend/services/roaming-api/internal/http"
)

// Custom verbs of the roaming network API.
const (
	MethodCount       = "COUNT"
	MethodCreate      = "CREATE"
	MethodSet         = "SET"
	MethodSetExpired  = "SETEXPIRED"
	MethodReserve     = "RESERVE"
	MethodAuthStart   = "AUTHSTART"
	MethodAuthStop    = "AUTHSTOP"
	MethodRemoteStart = "REMOTESTART"
	MethodRemoteStop  = "REMOTESTOP"
	MethodSendCDR     = "SENDCDR"
)

// Routes returns the route table. Literal segments come before variables sharing the same
// position, and the property route is last because it matches any second segment.
func (h *Handlers) Routes() httpserver.Routes {
	pools := newProjections(h, poolCollection)
	stations := newProjections(h, stationCollection)
	evses := newProjections(h, evseCollection)

	routes := httpserver.Routes{
		{Name: "Health", Method: http.MethodGet, Pattern: "/health", Handler: h.Health},

		{Name: "ListNetworks", Method: http.MethodGet, Pattern: "/RNs", Handler: h.ListNetworks},
		{Name: "CountNetworks", Method: MethodCount, Pattern: "/RNs", Handler: h.CountNetworks},
		{Name: "GetNetwork", Method: http.MethodGet, Pattern: "/RNs/{RN}", Handler: h.GetNetwork},
		{Name: "CreateNetwork", Method: MethodCreate, Pattern: "/RNs/{RN}", Handler: h.CreateNetwork},
		{Name: "DeleteNetwork", Method: http.MethodDelete, Pattern: "/RNs/{RN}", Handler: h.DeleteNetwork},

		{Name: "ListOperators", Method: http.MethodGet, Pattern: "/RNs/{RN}/ChargingStationOperators", Handler: h.ListOperators},
		{Name: "CountOperators", Method: MethodCount, Pattern: "/RNs/{RN}/ChargingStationOperators", Handler: h.CountOperators},
		{Name: "GetOperator", Method: http.MethodGet, Pattern: "/RNs/{RN}/ChargingStationOperators/{OperatorId}", Handler: h.GetOperator},

		{Name: "PoolIDs", Method: http.MethodGet, Pattern: "/RNs/{RN}/ChargingPools->Id", Handler: pools.IDs},
		{Name: "PoolAdminStatus", Method: http.MethodGet, Pattern: "/RNs/{RN}/ChargingPools->AdminStatus", Handler: pools.AdminStatus},
		{Name: "PoolStatus", Method: http.MethodGet, Pattern: "/RNs/{RN}/ChargingPools->Status", Handler: pools.Status},
		{Name: "PoolStatusReport", Method: http.MethodGet, Pattern: "/RNs/{RN}/ChargingPools/DynamicStatusReport", Handler: pools.Report},
		{Name: "ListPools", Method: http.MethodGet, Pattern: "/RNs/{RN}/ChargingPools", Handler: h.ListPools},
		{Name: "CountPools", Method: MethodCount, Pattern: "/RNs/{RN}/ChargingPools", Handler: h.CountPools},
		{Name: "GetPool", Method: http.MethodGet, Pattern: "/RNs/{RN}/ChargingPools/{PoolId}", Handler: h.GetPool},
		{Name: "ListPoolStations", Method: http.MethodGet, Pattern: "/RNs/{RN}/ChargingPools/{PoolId}/ChargingStations", Handler: h.ListStations},
		{Name: "GetPoolStation", Method: http.MethodGet, Pattern: "/RNs/{RN}/ChargingPools/{PoolId}/ChargingStations/{StationId}", Handler: h.GetStation},

		{Name: "StationIDs", Method: http.MethodGet, Pattern: "/RNs/{RN}/ChargingStations->Id", Handler: stations.IDs},
		{Name: "StationAdminStatus", Method: http.MethodGet, Pattern: "/RNs/{RN}/ChargingStations->AdminStatus", Handler: stations.AdminStatus},
		{Name: "StationStatus", Method: http.MethodGet, Pattern: "/RNs/{RN}/ChargingStations->Status", Handler: stations.Status},
		{Name: "StationStatusReport", Method: http.MethodGet, Pattern: "/RNs/{RN}/ChargingStations/DynamicStatusReport", Handler: stations.Report},
		{Name: "ListStations", Method: http.MethodGet, Pattern: "/RNs/{RN}/ChargingStations", Handler: h.ListStations},
		{Name: "CountStations", Method: MethodCount, Pattern: "/RNs/{RN}/ChargingStations", Handler: h.CountStations},
		{Name: "GetStation", Method: http.MethodGet, Pattern: "/RNs/{RN}/ChargingStations/{StationId}", Handler: h.GetStation},
		{Name: "ListStationEVSEs", Method: http.MethodGet, Pattern: "/RNs/{RN}/ChargingStations/{StationId}/EVSEs", Handler: h.ListEVSEs},

		{Name: "EVSEIDs", Method: http.MethodGet, Pattern: "/RNs/{RN}/EVSEs->Id", Handler: evses.IDs},
		{Name: "EVSEAdminStatusList", Method: http.MethodGet, Pattern: "/RNs/{RN}/EVSEs->AdminStatus", Handler: evses.AdminStatus},
		{Name: "EVSEStatusList", Method: http.MethodGet, Pattern: "/RNs/{RN}/EVSEs->Status", Handler: evses.Status},
		{Name: "EVSEStatusReport", Method: http.MethodGet, Pattern: "/RNs/{RN}/EVSEs/DynamicStatusReport", Handler: evses.Report},
		{Name: "ListEVSEs", Method: http.MethodGet, Pattern: "/RNs/{RN}/EVSEs", Handler: h.ListEVSEs},
		{Name: "CountEVSEs", Method: MethodCount, Pattern: "/RNs/{RN}/EVSEs", Handler: h.CountEVSEs},
		{Name: "GetEVSE", Method: http.MethodGet, Pattern: "/RNs/{RN}/EVSEs/{EVSEId}", Handler: h.GetEVSE},
		{Name: "ReserveEVSE", Method: MethodReserve, Pattern: "/RNs/{RN}/EVSEs/{EVSEId}", Handler: h.ReserveEVSE},
		{Name: "AuthStartEVSE", Method: MethodAuthStart, Pattern: "/RNs/{RN}/EVSEs/{EVSEId}", Handler: h.AuthStartEVSE},
		{Name: "AuthStopEVSE", Method: MethodAuthStop, Pattern: "/RNs/{RN}/EVSEs/{EVSEId}", Handler: h.AuthStopEVSE},
		{Name: "RemoteStartEVSE", Method: MethodRemoteStart, Pattern: "/RNs/{RN}/EVSEs/{EVSEId}", Handler: h.RemoteStartEVSE},
		{Name: "RemoteStopEVSE", Method: MethodRemoteStop, Pattern: "/RNs/{RN}/EVSEs/{EVSEId}", Handler: h.RemoteStopEVSE},
		{Name: "SendCDR", Method: MethodSendCDR, Pattern: "/RNs/{RN}/EVSEs/{EVSEId}", Handler: h.SendCDR},
		{Name: "GetEVSEAdminStatus", Method: http.MethodGet, Pattern: "/RNs/{RN}/EVSEs/{EVSEId}/AdminStatus", Handler: h.GetEVSEAdminStatus},
		{Name: "SetEVSEAdminStatus", Method: MethodSet, Pattern: "/RNs/{RN}/EVSEs/{EVSEId}/AdminStatus", Handler: h.SetEVSEAdminStatus},
		{Name: "GetEVSEStatus", Method: http.MethodGet, Pattern: "/RNs/{RN}/EVSEs/{EVSEId}/Status", Handler: h.GetEVSEStatus},
		{Name: "SetEVSEStatus", Method: MethodSet, Pattern: "/RNs/{RN}/EVSEs/{EVSEId}/Status", Handler: h.SetEVSEStatus},

		{Name: "ListReservations", Method: http.MethodGet, Pattern: "/RNs/{RN}/Reservations", Handler: h.ListReservations},
		{Name: "CountReservations", Method: MethodCount, Pattern: "/RNs/{RN}/Reservations", Handler: h.CountReservations},
		{Name: "GetReservation", Method: http.MethodGet, Pattern: "/RNs/{RN}/Reservations/{ReservationId}", Handler: h.GetReservation},
		{Name: "ExpireReservation", Method: MethodSetExpired, Pattern: "/RNs/{RN}/Reservations/{ReservationId}", Handler: h.ExpireReservation},
		{Name: "DeleteReservation", Method: http.MethodDelete, Pattern: "/RNs/{RN}/Reservations/{ReservationId}", Handler: h.DeleteReservation},

		{Name: "ListSessions", Method: http.MethodGet, Pattern: "/RNs/{RN}/ChargingSessions", Handler: h.ListSessions},
		{Name: "CountSessions", Method: MethodCount, Pattern: "/RNs/{RN}/ChargingSessions", Handler: h.CountSessions},
		{Name: "GetSession", Method: http.MethodGet, Pattern: "/RNs/{RN}/ChargingSessions/{SessionId}", Handler: h.GetSession},

		{Name: "ListProviders", Method: http.MethodGet, Pattern: "/RNs/{RN}/eMobilityProviders", Handler: h.ListProviders},
		{Name: "CountProviders", Method: MethodCount, Pattern: "/RNs/{RN}/eMobilityProviders", Handler: h.CountProviders},
		{Name: "ListParkingOperators", Method: http.MethodGet, Pattern: "/RNs/{RN}/ParkingOperators", Handler: h.ListParkingOperators},
		{Name: "CountParkingOperators", Method: MethodCount, Pattern: "/RNs/{RN}/ParkingOperators", Handler: h.CountParkingOperators},
	}

	if h.events != nil {
		routes = append(routes, httpserver.Route{Name: "Events", Method: http.MethodGet, Pattern: "/RNs/{RN}/Events", Handler: h.Events})
	}

	return append(routes,
		httpserver.Route{Name: "GetProperty", Method: http.MethodGet, Pattern: "/RNs/{RN}/{propertyKey}", Handler: h.GetProperty},
		httpserver.Route{Name: "SetProperty", Method: MethodSet, Pattern: "/RNs/{RN}/{propertyKey}", Handler: h.SetProperty},
	)
}
