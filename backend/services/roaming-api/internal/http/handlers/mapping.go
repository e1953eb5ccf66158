package handlers

import (
	"net/http"

	"chargenet/backend/services/roaming-api/internal/domain"
)

// The tables below map every domain result variant to exactly one HTTP status. A variant
// missing from a table answers 500; the tests fail for any missing variant.

var reservationStatus = map[domain.ReservationResultType]int{
	domain.ReservationSuccess:          http.StatusCreated,
	domain.ReservationUnknownEVSE:      http.StatusNotFound,
	domain.ReservationAlreadyReserved:  http.StatusBadRequest,
	domain.ReservationAlreadyInUse:     http.StatusBadRequest,
	domain.ReservationOutOfService:     http.StatusBadRequest,
	domain.ReservationOffline:          http.StatusBadRequest,
	domain.ReservationInvalidStartTime: http.StatusBadRequest,
	domain.ReservationTimeout:          http.StatusRequestTimeout,
	domain.ReservationError:            http.StatusInternalServerError,
}

var cancelReservationStatus = map[domain.CancelReservationResultType]int{
	domain.CancelReservationSuccess:            http.StatusOK,
	domain.CancelReservationUnknownReservation: http.StatusNotFound,
	domain.CancelReservationTimeout:            http.StatusRequestTimeout,
	domain.CancelReservationError:              http.StatusInternalServerError,
}

var authStartStatus = map[domain.AuthStartResultType]int{
	domain.AuthStartAuthorized:    http.StatusOK,
	domain.AuthStartNotAuthorized: http.StatusUnauthorized,
	domain.AuthStartBlocked:       http.StatusForbidden,
	domain.AuthStartUnknownEVSE:   http.StatusNotFound,
	domain.AuthStartOutOfService:  http.StatusBadRequest,
	domain.AuthStartTimeout:       http.StatusRequestTimeout,
	domain.AuthStartError:         http.StatusInternalServerError,
}

var authStopStatus = map[domain.AuthStopResultType]int{
	domain.AuthStopAuthorized:       http.StatusOK,
	domain.AuthStopNotAuthorized:    http.StatusUnauthorized,
	domain.AuthStopInvalidSessionID: http.StatusBadRequest,
	domain.AuthStopTimeout:          http.StatusRequestTimeout,
	domain.AuthStopError:            http.StatusInternalServerError,
}

var remoteStartStatus = map[domain.RemoteStartResultType]int{
	domain.RemoteStartSuccess:      http.StatusCreated,
	domain.RemoteStartUnknownEVSE:  http.StatusNotFound,
	domain.RemoteStartAlreadyInUse: http.StatusBadRequest,
	domain.RemoteStartReserved:     http.StatusBadRequest,
	domain.RemoteStartOutOfService: http.StatusBadRequest,
	domain.RemoteStartOffline:      http.StatusBadRequest,
	domain.RemoteStartTimeout:      http.StatusRequestTimeout,
	domain.RemoteStartError:        http.StatusInternalServerError,
}

var remoteStopStatus = map[domain.RemoteStopResultType]int{
	domain.RemoteStopSuccess:          http.StatusOK,
	domain.RemoteStopInvalidSessionID: http.StatusBadRequest,
	domain.RemoteStopUnknownEVSE:      http.StatusNotFound,
	domain.RemoteStopTimeout:          http.StatusRequestTimeout,
	domain.RemoteStopError:            http.StatusInternalServerError,
}

var sendCDRStatus = map[domain.SendCDRResultType]int{
	domain.SendCDRForwarded:        http.StatusOK,
	domain.SendCDRInvalidSessionID: http.StatusBadRequest,
	domain.SendCDRNotForwarded:     http.StatusBadRequest,
	domain.SendCDRTimeout:          http.StatusRequestTimeout,
	domain.SendCDRError:            http.StatusInternalServerError,
}

func statusFor[T comparable](table map[T]int, result T) int {
	if status, ok := table[result]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// resultJSON is the body of a refused or failed command.
type resultJSON struct {
	Result      string `json:"Result"`
	Description string `json:"Description,omitempty"`
}

// authorizationJSON is the body of AUTHSTART and AUTHSTOP responses.
type authorizationJSON struct {
	SessionID      string `json:"SessionId,omitempty"`
	ProviderID     string `json:"ProviderId,omitempty"`
	AuthorizatorID string `json:"AuthorizatorId"`
	Description    string `json:"Description"`
}

func reservationResponse(res domain.ReservationResult) (int, any) {
	status := statusFor(reservationStatus, res.Type)
	if res.Type == domain.ReservationSuccess && res.Reservation != nil {
		return status, newReservationJSON(*res.Reservation)
	}
	return status, resultJSON{Result: string(res.Type), Description: res.Description}
}

func cancelReservationResponse(res domain.CancelReservationResult) (int, any) {
	status := statusFor(cancelReservationStatus, res.Type)
	if res.Type == domain.CancelReservationSuccess && res.Reservation != nil {
		return status, newReservationJSON(*res.Reservation)
	}
	return status, resultJSON{Result: string(res.Type), Description: res.Description}
}

func authStartResponse(res domain.AuthStartResult) (int, any) {
	body := authorizationJSON{AuthorizatorID: res.AuthorizatorID, Description: res.Description}
	if res.Type == domain.AuthStartAuthorized {
		body.SessionID = res.SessionID.String()
		body.ProviderID = string(res.ProviderID)
	}
	return statusFor(authStartStatus, res.Type), body
}

func authStopResponse(res domain.AuthStopResult) (int, any) {
	body := authorizationJSON{AuthorizatorID: res.AuthorizatorID, Description: res.Description}
	if res.Type == domain.AuthStopAuthorized {
		body.SessionID = res.SessionID.String()
		body.ProviderID = string(res.ProviderID)
	}
	return statusFor(authStopStatus, res.Type), body
}

func remoteStartResponse(res domain.RemoteStartResult) (int, any) {
	status := statusFor(remoteStartStatus, res.Type)
	if res.Type == domain.RemoteStartSuccess && res.Session != nil {
		return status, newSessionJSON(*res.Session)
	}
	return status, resultJSON{Result: string(res.Type), Description: res.Description}
}

func remoteStopResponse(res domain.RemoteStopResult) (int, any) {
	status := statusFor(remoteStopStatus, res.Type)
	if res.Type == domain.RemoteStopSuccess && res.Session != nil {
		return status, newSessionJSON(*res.Session)
	}
	return status, resultJSON{Result: string(res.Type), Description: res.Description}
}

func sendCDRResponse(res domain.SendCDRResult) (int, any) {
	return statusFor(sendCDRStatus, res.Type), resultJSON{Result: string(res.Type), Description: res.Description}
}
