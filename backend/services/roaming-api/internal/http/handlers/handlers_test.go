package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"golang.org/x/crypto/bcrypt"

	"chargenet/backend/services/roaming-api/internal/domain"
	httpserver "chargenet/backend/services/roaming-api/internal/http"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type testAPI struct {
	registry *domain.Registry
	network  *domain.RoamingNetwork
	router   http.Handler
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	auth := domain.NewAuthorizator("")
	auth.AllowToken("AABBCCDD", "DE*ICE")

	registry := domain.NewRegistry(domain.NetworkOptions{
		HistorySize:  10,
		Clock:        func() time.Time { return testNow },
		Authorizator: auth,
		CDRArchive:   domain.NewMemoryCDRArchive(),
		PINHashCost:  bcrypt.MinCost,
	})
	network, err := registry.Create("Test", "Test network", "")
	require.NoError(t, err)
	require.NoError(t, network.AddOperator(domain.OperatorSpec{ID: "DE*GEF", Name: "GraphDefined"}))
	require.NoError(t, network.AddPool(domain.PoolSpec{ID: "DE*GEF*P1", OperatorID: "DE*GEF", Name: "Pool 1"}))
	require.NoError(t, network.AddStation(domain.StationSpec{ID: "DE*GEF*S1", PoolID: "DE*GEF*P1"}))
	for _, id := range []domain.EVSEID{"DE*GEF*E5", "DE*GEF*E3", "DE*GEF*E1", "DE*GEF*E4", "DE*GEF*E2"} {
		require.NoError(t, network.AddEVSE(domain.EVSESpec{ID: id, StationID: "DE*GEF*S1", MaxPowerKW: 22}))
	}

	h := New(registry, zaptest.NewLogger(t), Options{CommandTimeout: time.Second})
	router := httpserver.NewRouter(h.Routes(), httpserver.RouterOptions{
		ServerName: "roaming-api test",
		Clock:      func() time.Time { return testNow },
	})
	return &testAPI{registry: registry, network: network, router: router}
}

func (a *testAPI) do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestListEVSEsWindow(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodGet, "/RNs/Test/EVSEs?skip=0&take=2", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "5", rec.Header().Get(ExpectedTotalHeader))
	assert.Equal(t, `"1"`, rec.Header().Get("ETag"))
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	items := decodeBody[[]map[string]any](t, rec)
	require.Len(t, items, 2)
	assert.Equal(t, "DE*GEF*E1", items[0]["@id"])
	assert.Equal(t, "DE*GEF*E2", items[1]["@id"])
}

func TestListFiltersAndEmptyCollections(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodGet, "/RNs/Test/EVSEs?match=E4", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[[]map[string]any](t, rec), 1)

	rec = api.do(t, http.MethodGet, "/RNs/Test/EVSEs?match=nothing", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = api.do(t, http.MethodGet, "/RNs/Test/Reservations", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "0", rec.Header().Get(ExpectedTotalHeader))

	rec = api.do(t, "COUNT", "/RNs/Test/EVSEs", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"count":5}`, rec.Body.String())
}

func TestUnknownAndInvalidIdentifiers(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodGet, "/RNs/Nope/EVSEs", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"description":"Unknown RoamingNetworkId!"}`, rec.Body.String())

	rec = api.do(t, http.MethodGet, "/RNs/Test/EVSEs/garbage", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"description":"Invalid EVSEId!"}`, rec.Body.String())

	rec = api.do(t, http.MethodGet, "/RNs/Test/EVSEs/DE*GEF*E9", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestOptionsListsVerbs(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodOptions, "/RNs/Test/EVSEs/DE*GEF*E1", "")

	assert.Equal(t, http.StatusNoContent, rec.Code)
	allowed := rec.Header().Get("Access-Control-Allow-Methods")
	for _, verb := range []string{"GET", "RESERVE", "AUTHSTART", "AUTHSTOP", "REMOTESTART", "REMOTESTOP", "SENDCDR", "OPTIONS"} {
		assert.Contains(t, allowed, verb)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	api := newTestAPI(t)
	rec := api.do(t, "RESERVE", "/RNs/Test/Reservations", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestReserveValidation(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, "RESERVE", "/RNs/Test/EVSEs/DE*GEF*E1", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"description":"Missing JSON property 'eMAId'!"}`, rec.Body.String())

	rec = api.do(t, "RESERVE", "/RNs/Test/EVSEs/DE*GEF*E1",
		`{"eMAId":"DE*ICE*C12345678*X","StartTime":"2026-03-01T11:00:00Z"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"description":"The starting time must be in the future!"}`, rec.Body.String())

	rec = api.do(t, "RESERVE", "/RNs/Test/EVSEs/DE*GEF*E1",
		`{"eMAId":"DE*ICE*C12345678*X","StartTime":"2026-03-01T12:00:00Z"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"description":"The starting time must be in the future!"}`, rec.Body.String())

	rec = api.do(t, "RESERVE", "/RNs/Test/EVSEs/DE*GEF*E1", `{"eMAId":"DE*ICE*C12345678*X","Duration":"NaN"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Duration")

	rec = api.do(t, "RESERVE", "/RNs/Test/EVSEs/DE*GEF*E1", `{"eMAId":"DE*ICE*C12345678*X",`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = api.do(t, "RESERVE", "/RNs/Test/EVSEs/DE*GEF*E9", `{"eMAId":"DE*ICE*C12345678*X"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestReserveThenCancel(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, "RESERVE", "/RNs/Test/EVSEs/DE*GEF*E1", `{
		"ReservationId": "R-1",
		"eMAId": "DE*ICE*C12345678*X",
		"Duration": 600,
		"AuthorizedIds": {"AuthTokens": ["AABBCCDD"], "PINs": ["1234"]}
	}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	res := decodeBody[map[string]any](t, rec)
	assert.Equal(t, "R-1", res["@id"])
	assert.Equal(t, float64(600), res["Duration"])

	rec = api.do(t, http.MethodGet, "/RNs/Test/EVSEs/DE*GEF*E1/Status", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"Reserved"`)

	rec = api.do(t, "COUNT", "/RNs/Test/Reservations", "")
	assert.JSONEq(t, `{"count":1}`, rec.Body.String())

	rec = api.do(t, "SETEXPIRED", "/RNs/Test/Reservations/R-1", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = api.do(t, "SETEXPIRED", "/RNs/Test/Reservations/R-1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"description":"Unknown ReservationId!"}`, rec.Body.String())
}

func TestAuthStart(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, "AUTHSTART", "/RNs/Test/EVSEs/DE*GEF*E1", `{"AuthToken":"AABBCCDD"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decodeBody[map[string]string](t, rec)
	assert.NotEmpty(t, body["SessionId"])
	assert.Equal(t, "DE*ICE", body["ProviderId"])
	assert.Equal(t, domain.DefaultAuthorizatorID, body["AuthorizatorId"])

	rec = api.do(t, "AUTHSTART", "/RNs/Test/EVSEs/DE*GEF*E2", `{"AuthToken":"11223344"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.NotContains(t, rec.Body.String(), "SessionId")

	rec = api.do(t, "AUTHSTART", "/RNs/Test/EVSEs/DE*GEF*E2", `{"AuthToken":42}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSendCDRNeedsIdentification(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, "SENDCDR", "/RNs/Test/EVSEs/DE*GEF*E1", `{
		"SessionId": "S-1",
		"SessionStart": "2026-03-01T10:00:00Z", "SessionEnd": "2026-03-01T11:00:00Z",
		"ChargeStart": "2026-03-01T10:05:00Z", "ChargeEnd": "2026-03-01T10:55:00Z",
		"MeterValueStart": 10, "MeterValueEnd": 32.5
	}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"description":"Missing JSON property 'AuthToken' or 'eMAId'!"}`, rec.Body.String())
}

func TestEVSEAdminStatusRoundTrip(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, "SET", "/RNs/Test/EVSEs/DE*GEF*E3/AdminStatus", `{"StatusList":{"2026-03-01T12:30:00Z":"OutOfService"}}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = api.do(t, http.MethodGet, "/RNs/Test/EVSEs/DE*GEF*E3/AdminStatus", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t,
		`{"2026-03-01T12:30:00.000Z":"OutOfService","2026-03-01T12:00:00.000Z":"Operational"}`,
		strings.TrimSpace(rec.Body.String()))

	rec = api.do(t, http.MethodGet, "/RNs/Test/EVSEs/DE*GEF*E3/AdminStatus?historysize=1", "")
	assert.Equal(t, `{"2026-03-01T12:30:00.000Z":"OutOfService"}`, strings.TrimSpace(rec.Body.String()))

	rec = api.do(t, "SET", "/RNs/Test/EVSEs/DE*GEF*E3/AdminStatus", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"description":"Missing JSON property 'CurrentStatus' or 'StatusList'!"}`, rec.Body.String())

	rec = api.do(t, "RESERVE", "/RNs/Test/EVSEs/DE*GEF*E3", `{"eMAId":"DE*ICE*C12345678*X"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStatusProjectionAndReport(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodGet, "/RNs/Test/EVSEs->Status?take=2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "5", rec.Header().Get(ExpectedTotalHeader))
	assert.Equal(t,
		`{"DE*GEF*E1":{"2026-03-01T12:00:00.000Z":"Available"},"DE*GEF*E2":{"2026-03-01T12:00:00.000Z":"Available"}}`,
		strings.TrimSpace(rec.Body.String()))

	rec = api.do(t, http.MethodGet, "/RNs/Test/EVSEs->Id", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `["DE*GEF*E1","DE*GEF*E2","DE*GEF*E3","DE*GEF*E4","DE*GEF*E5"]`, rec.Body.String())

	rec = api.do(t, http.MethodGet, "/RNs/Test/EVSEs/DynamicStatusReport", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"count":5,"status":{"Available":5}}`, rec.Body.String())

	rec = api.do(t, http.MethodGet, "/RNs/Test/ChargingPools->Id?match=nothing", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestNetworkLifecycle(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, "CREATE", "/RNs/Prod", `{"Name":"Production"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = api.do(t, "CREATE", "/RNs/Prod", "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = api.do(t, "COUNT", "/RNs", "")
	assert.JSONEq(t, `{"count":2}`, rec.Body.String())

	rec = api.do(t, http.MethodGet, "/RNs/Prod/EVSEs", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = api.do(t, http.MethodDelete, "/RNs/Prod", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = api.do(t, http.MethodDelete, "/RNs/Prod", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPropertyOptimisticUpdate(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodGet, "/RNs/Test/Owner", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = api.do(t, "SET", "/RNs/Test/Owner", `{"newValue":"GraphDefined"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = api.do(t, "SET", "/RNs/Test/Owner", `{"oldValue":"Someone","newValue":"Other"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = api.do(t, "SET", "/RNs/Test/Owner", `{"oldValue":"GraphDefined","newValue":42}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = api.do(t, http.MethodGet, "/RNs/Test/Owner", "")
	assert.JSONEq(t, `{"Owner":42}`, rec.Body.String())

	rec = api.do(t, "SET", "/RNs/Test/EVSEs", `{"newValue":1}`)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHugeWindowIsLenient(t *testing.T) {
	api := newTestAPI(t)

	for _, target := range []string{
		"/RNs/Test/EVSEs?skip=1&take=18446744073709551615",
		"/RNs/Test/EVSEs->Id?skip=1&take=18446744073709551615",
		"/RNs/Test/EVSEs->Status?skip=1&take=18446744073709551615",
	} {
		t.Run(target, func(t *testing.T) {
			rec := api.do(t, http.MethodGet, target, "")
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "5", rec.Header().Get(ExpectedTotalHeader))
			assert.NotContains(t, rec.Body.String(), "DE*GEF*E1")
			assert.Contains(t, rec.Body.String(), "DE*GEF*E5")
		})
	}
}

func TestPaginationIsStable(t *testing.T) {
	api := newTestAPI(t)

	first := api.do(t, http.MethodGet, "/RNs/Test/EVSEs?skip=1&take=3", "")
	second := api.do(t, http.MethodGet, "/RNs/Test/EVSEs?skip=1&take=3", "")
	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, first.Body.String(), second.Body.String())

	items := decodeBody[[]map[string]any](t, first)
	ids := make([]any, 0, len(items))
	for _, item := range items {
		ids = append(ids, item["@id"])
	}
	assert.Equal(t, []any{"DE*GEF*E2", "DE*GEF*E3", "DE*GEF*E4"}, ids)
}

func TestCurrentStatusRoundTrip(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, "SET", "/RNs/Test/EVSEs/DE*GEF*E3/AdminStatus", `{"CurrentStatus":"OutOfService"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 1, strings.Count(rec.Body.String(), "2026-03-01T12:00:00.000Z"))

	rec = api.do(t, http.MethodGet, "/RNs/Test/EVSEs/DE*GEF*E3/AdminStatus", "")
	require.Equal(t, http.StatusOK, rec.Code)
	history := decodeBody[map[string]string](t, rec)
	assert.Equal(t, map[string]string{"2026-03-01T12:00:00.000Z": "OutOfService"}, history)

	rec = api.do(t, "SET", "/RNs/Test/EVSEs/DE*GEF*E3/Status", `{"CurrentStatus":"Offline"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rec = api.do(t, http.MethodGet, "/RNs/Test/EVSEs/DE*GEF*E3/Status", "")
	assert.Equal(t, map[string]string{"2026-03-01T12:00:00.000Z": "Offline"}, decodeBody[map[string]string](t, rec))
}

func TestStatusProjectionSince(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, "SET", "/RNs/Test/EVSEs/DE*GEF*E2/Status", `{"StatusList":{"2026-03-01T12:30:00Z":"OutOfService"}}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	cases := []struct {
		name  string
		since string
		want  string
	}{
		{"before every change", "2026-03-01T11:00:00Z",
			`{"DE*GEF*E1":{"2026-03-01T12:00:00.000Z":"Available"},"DE*GEF*E2":{"2026-03-01T12:30:00.000Z":"OutOfService"},` +
				`"DE*GEF*E3":{"2026-03-01T12:00:00.000Z":"Available"},"DE*GEF*E4":{"2026-03-01T12:00:00.000Z":"Available"},` +
				`"DE*GEF*E5":{"2026-03-01T12:00:00.000Z":"Available"}}`},
		{"after seeding", "2026-03-01T12:15:00Z", `{"DE*GEF*E2":{"2026-03-01T12:30:00.000Z":"OutOfService"}}`},
		{"after every change", "2026-03-01T13:00:00Z", `{}`},
		{"malformed is ignored", "yesterday", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := api.do(t, http.MethodGet, "/RNs/Test/EVSEs->Status?since="+tc.since, "")
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "5", rec.Header().Get(ExpectedTotalHeader))
			if tc.want == "" {
				assert.Len(t, decodeBody[map[string]any](t, rec), 5)
				return
			}
			assert.Equal(t, tc.want, strings.TrimSpace(rec.Body.String()))
		})
	}
}

func TestNestedStationRoutes(t *testing.T) {
	api := newTestAPI(t)
	require.NoError(t, api.network.AddPool(domain.PoolSpec{ID: "DE*GEF*P2", OperatorID: "DE*GEF", Name: "Pool 2"}))
	require.NoError(t, api.network.AddStation(domain.StationSpec{ID: "DE*GEF*S2", PoolID: "DE*GEF*P2"}))

	cases := []struct {
		name   string
		target string
		status int
		id     string
	}{
		{"station in pool", "/RNs/Test/ChargingPools/DE*GEF*P1/ChargingStations/DE*GEF*S1", http.StatusOK, "DE*GEF*S1"},
		{"station of another pool", "/RNs/Test/ChargingPools/DE*GEF*P1/ChargingStations/DE*GEF*S2", http.StatusNotFound, ""},
		{"unknown pool", "/RNs/Test/ChargingPools/DE*GEF*P9/ChargingStations/DE*GEF*S1", http.StatusNotFound, ""},
		{"invalid station", "/RNs/Test/ChargingPools/DE*GEF*P1/ChargingStations/garbage", http.StatusBadRequest, ""},
		{"flat station", "/RNs/Test/ChargingStations/DE*GEF*S2", http.StatusOK, "DE*GEF*S2"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := api.do(t, http.MethodGet, tc.target, "")
			require.Equal(t, tc.status, rec.Code, rec.Body.String())
			if tc.id != "" {
				assert.Equal(t, tc.id, decodeBody[map[string]any](t, rec)["@id"])
			} else {
				assert.Contains(t, rec.Body.String(), `"description"`)
			}
		})
	}

	rec := api.do(t, http.MethodGet, "/RNs/Test/ChargingPools/DE*GEF*P2/ChargingStations", "")
	require.Equal(t, http.StatusOK, rec.Code)
	stations := decodeBody[[]map[string]any](t, rec)
	require.Len(t, stations, 1)
	assert.Equal(t, "DE*GEF*S2", stations[0]["@id"])
}

func TestRemoteStartAndStop(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, "REMOTESTART", "/RNs/Test/EVSEs/DE*GEF*E1", `{"eMAId":"DE*ICE*C12345678*X","SessionId":"S-1"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	session := decodeBody[map[string]any](t, rec)
	assert.Equal(t, "S-1", session["@id"])
	assert.Equal(t, "DE*GEF*E1", session["EVSEId"])
	assert.Equal(t, "Charging", session["State"])

	cases := []struct {
		name   string
		method string
		target string
		body   string
		status int
		want   string
	}{
		{"start busy EVSE", "REMOTESTART", "/RNs/Test/EVSEs/DE*GEF*E1", `{"eMAId":"DE*ICE*C12345678*X"}`,
			http.StatusBadRequest, `{"Result":"AlreadyInUse","Description":"The EVSE is already in use!"}`},
		{"start unknown EVSE", "REMOTESTART", "/RNs/Test/EVSEs/DE*GEF*E9", `{"eMAId":"DE*ICE*C12345678*X"}`,
			http.StatusNotFound, `{"Result":"UnknownEVSE","Description":"Unknown EVSE!"}`},
		{"start without eMAId", "REMOTESTART", "/RNs/Test/EVSEs/DE*GEF*E2", `{}`,
			http.StatusBadRequest, `{"description":"Missing JSON property 'eMAId'!"}`},
		{"stop without session", "REMOTESTOP", "/RNs/Test/EVSEs/DE*GEF*E1", `{}`,
			http.StatusBadRequest, `{"description":"Missing JSON property 'SessionId'!"}`},
		{"stop foreign session", "REMOTESTOP", "/RNs/Test/EVSEs/DE*GEF*E2", `{"SessionId":"S-1"}`,
			http.StatusBadRequest, `{"Result":"InvalidSessionId","Description":"Invalid charging session identification!"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := api.do(t, tc.method, tc.target, tc.body)
			assert.Equal(t, tc.status, rec.Code)
			assert.JSONEq(t, tc.want, rec.Body.String())
		})
	}

	rec = api.do(t, "REMOTESTOP", "/RNs/Test/EVSEs/DE*GEF*E1", `{"SessionId":"S-1"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	stopped := decodeBody[map[string]any](t, rec)
	assert.Equal(t, "Stopped", stopped["State"])
	assert.NotEmpty(t, stopped["EndTime"])

	rec = api.do(t, "REMOTESTOP", "/RNs/Test/EVSEs/DE*GEF*E1", `{"SessionId":"S-1"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRemoteStartChecksReservationPIN(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, "RESERVE", "/RNs/Test/EVSEs/DE*GEF*E2", `{
		"ReservationId": "R-PIN",
		"eMAId": "DE*ICE*C12345678*X",
		"AuthorizedIds": {"PINs": ["1234"]}
	}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = api.do(t, "REMOTESTART", "/RNs/Test/EVSEs/DE*GEF*E2", `{"eMAId":"DE*ICE*C12345678*X","PIN":"9999"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Reserved", decodeBody[map[string]string](t, rec)["Result"])

	rec = api.do(t, "REMOTESTART", "/RNs/Test/EVSEs/DE*GEF*E2", `{"eMAId":"DE*ICE*C12345678*X","PIN":"12"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"description"`)

	rec = api.do(t, "REMOTESTART", "/RNs/Test/EVSEs/DE*GEF*E2", `{"eMAId":"DE*ICE*C12345678*X","PIN":"1234"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "R-PIN", decodeBody[map[string]any](t, rec)["ReservationId"])
}

func TestAuthStop(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, "AUTHSTART", "/RNs/Test/EVSEs/DE*GEF*E1", `{"AuthToken":"AABBCCDD","SessionId":"S-7"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	cases := []struct {
		name   string
		body   string
		status int
		want   string
	}{
		{"same token", `{"SessionId":"S-7","AuthToken":"AABBCCDD"}`, http.StatusOK,
			`{"SessionId":"S-7","ProviderId":"DE*ICE","AuthorizatorId":"` + domain.DefaultAuthorizatorID + `","Description":"Authorized"}`},
		{"stranger", `{"SessionId":"S-7","AuthToken":"11223344"}`, http.StatusUnauthorized,
			`{"AuthorizatorId":"` + domain.DefaultAuthorizatorID + `","Description":"Not authorized"}`},
		{"unknown session", `{"SessionId":"S-8","AuthToken":"AABBCCDD"}`, http.StatusBadRequest,
			`{"AuthorizatorId":"` + domain.DefaultAuthorizatorID + `","Description":"Invalid charging session identification!"}`},
		{"missing session", `{"AuthToken":"AABBCCDD"}`, http.StatusBadRequest,
			`{"description":"Missing JSON property 'SessionId'!"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := api.do(t, "AUTHSTOP", "/RNs/Test/EVSEs/DE*GEF*E1", tc.body)
			assert.Equal(t, tc.status, rec.Code)
			assert.JSONEq(t, tc.want, rec.Body.String())
		})
	}
}
