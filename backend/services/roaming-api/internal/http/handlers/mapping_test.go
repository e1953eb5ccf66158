package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"chargenet/backend/services/roaming-api/internal/domain"
)

func assertExhaustive[T comparable](t *testing.T, table map[T]int, variants []T) {
	t.Helper()
	assert.Len(t, table, len(variants))
	for _, v := range variants {
		_, ok := table[v]
		assert.True(t, ok, "no HTTP status for %v", v)
	}
}

func TestMappingTablesAreExhaustive(t *testing.T) {
	assertExhaustive(t, reservationStatus, domain.ReservationResultTypes)
	assertExhaustive(t, cancelReservationStatus, domain.CancelReservationResultTypes)
	assertExhaustive(t, authStartStatus, domain.AuthStartResultTypes)
	assertExhaustive(t, authStopStatus, domain.AuthStopResultTypes)
	assertExhaustive(t, remoteStartStatus, domain.RemoteStartResultTypes)
	assertExhaustive(t, remoteStopStatus, domain.RemoteStopResultTypes)
	assertExhaustive(t, sendCDRStatus, domain.SendCDRResultTypes)
}

func TestMappingStatuses(t *testing.T) {
	assert.Equal(t, http.StatusCreated, statusFor(reservationStatus, domain.ReservationSuccess))
	assert.Equal(t, http.StatusNotFound, statusFor(reservationStatus, domain.ReservationUnknownEVSE))
	assert.Equal(t, http.StatusBadRequest, statusFor(reservationStatus, domain.ReservationInvalidStartTime))
	assert.Equal(t, http.StatusRequestTimeout, statusFor(reservationStatus, domain.ReservationTimeout))
	assert.Equal(t, http.StatusNotFound, statusFor(cancelReservationStatus, domain.CancelReservationUnknownReservation))
	assert.Equal(t, http.StatusUnauthorized, statusFor(authStartStatus, domain.AuthStartNotAuthorized))
	assert.Equal(t, http.StatusCreated, statusFor(remoteStartStatus, domain.RemoteStartSuccess))
	assert.Equal(t, http.StatusInternalServerError, statusFor(sendCDRStatus, domain.SendCDRError))
	assert.Equal(t, http.StatusInternalServerError, statusFor(sendCDRStatus, domain.SendCDRResultType("Bogus")))
}

func TestAuthStartResponseHidesSessionOnRefusal(t *testing.T) {
	status, body := authStartResponse(domain.AuthStartResult{
		Type:           domain.AuthStartNotAuthorized,
		SessionID:      "S1",
		AuthorizatorID: "LocalAuthorizator",
		Description:    "Unknown token!",
	})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, authorizationJSON{AuthorizatorID: "LocalAuthorizator", Description: "Unknown token!"}, body)
}
