package handlers

import (
	"net/http"
	"sort"
	"time"

	"chargenet/backend/services/roaming-api/internal/domain"
	"chargenet/backend/services/roaming-api/internal/jsonbody"
	"chargenet/backend/services/roaming-api/internal/projection"
	"chargenet/backend/services/roaming-api/internal/query"
)

// collection describes one infrastructure collection for the ->Id, ->AdminStatus,
// ->Status and DynamicStatusReport projections.
type collection[E any, ID ~string] struct {
	items  func(*domain.RoamingNetwork) []E
	key    func(E) ID
	admin  func(E) []domain.Timestamped[domain.AdminStatus]
	status func(E) []domain.Timestamped[domain.Status]
}

var (
	poolCollection = collection[domain.ChargingPool, domain.ChargingPoolID]{
		items:  (*domain.RoamingNetwork).Pools,
		key:    poolKey,
		admin:  func(p domain.ChargingPool) []domain.Timestamped[domain.AdminStatus] { return p.AdminStatusHistory },
		status: func(p domain.ChargingPool) []domain.Timestamped[domain.Status] { return p.StatusHistory },
	}
	stationCollection = collection[domain.ChargingStation, domain.ChargingStationID]{
		items:  (*domain.RoamingNetwork).Stations,
		key:    stationKey,
		admin:  func(s domain.ChargingStation) []domain.Timestamped[domain.AdminStatus] { return s.AdminStatusHistory },
		status: func(s domain.ChargingStation) []domain.Timestamped[domain.Status] { return s.StatusHistory },
	}
	evseCollection = collection[domain.EVSE, domain.EVSEID]{
		items:  (*domain.RoamingNetwork).EVSEs,
		key:    evseKey,
		admin:  func(e domain.EVSE) []domain.Timestamped[domain.AdminStatus] { return e.AdminStatusHistory },
		status: func(e domain.EVSE) []domain.Timestamped[domain.Status] { return e.StatusHistory },
	}
)

// projections are the read-only views over one collection.
type projections struct {
	IDs         http.HandlerFunc
	AdminStatus http.HandlerFunc
	Status      http.HandlerFunc
	Report      http.HandlerFunc
}

func newProjections[E any, ID ~string](h *Handlers, c collection[E, ID]) projections {
	return projections{
		IDs: func(w http.ResponseWriter, r *http.Request) {
			n, ok := h.network(w, r)
			if !ok {
				return
			}
			p := params(r)
			page := projection.Apply(c.items(n), c.key, func(e E) bool { return p.Matches(string(c.key(e))) }, p.Window())
			setExpectedTotal(w, page.Total)
			writeJSON(w, http.StatusOK, projection.Map(page, func(e E) string { return string(c.key(e)) }).Items)
		},
		AdminStatus: func(w http.ResponseWriter, r *http.Request) {
			if n, ok := h.network(w, r); ok {
				writeStatusProjection(w, params(r), c.items(n), c.key, c.admin)
			}
		},
		Status: func(w http.ResponseWriter, r *http.Request) {
			if n, ok := h.network(w, r); ok {
				writeStatusProjection(w, params(r), c.items(n), c.key, c.status)
			}
		},
		Report: func(w http.ResponseWriter, r *http.Request) {
			if n, ok := h.network(w, r); ok {
				writeJSON(w, http.StatusOK, statusReport(c.items(n), c.status))
			}
		},
	}
}

// writeStatusProjection answers {id: {timestamp: status}} with the newest historysize
// entries per entity. since applies to the newest entry. Always 200.
func writeStatusProjection[E any, ID ~string, T ~string](w http.ResponseWriter, p query.Params, items []E, key func(E) ID, history func(E) []domain.Timestamped[T]) {
	keep := func(e E) bool {
		h := history(e)
		return p.Matches(string(key(e))) && len(h) > 0 && p.After(h[0].Timestamp)
	}
	page := projection.Apply(items, key, keep, p.Window())
	setExpectedTotal(w, page.Total)

	out := make(orderedObject, 0, len(page.Items))
	for _, e := range page.Items {
		out = append(out, member{Key: string(key(e)), Value: historyJSON(history(e), p.HistorySize)})
	}
	writeJSON(w, http.StatusOK, out)
}

func historyJSON[T ~string](history []domain.Timestamped[T], limit uint64) orderedObject {
	n := len(history)
	if limit > 0 && limit < uint64(n) {
		n = int(limit)
	}
	out := make(orderedObject, 0, n)
	for _, entry := range history[:n] {
		out = append(out, member{Key: stamp(entry.Timestamp), Value: string(entry.Value)})
	}
	return out
}

type statusReportJSON struct {
	Count  int            `json:"count"`
	Status map[string]int `json:"status"`
}

func statusReport[E any, T ~string](items []E, history func(E) []domain.Timestamped[T]) statusReportJSON {
	report := statusReportJSON{Count: len(items), Status: map[string]int{}}
	for _, e := range items {
		if h := history(e); len(h) > 0 {
			report.Status[string(h[0].Value)]++
		}
	}
	return report
}

// historyLimit is the historysize parameter of single-entity history requests; absent
// means the full history.
func historyLimit(r *http.Request) uint64 {
	if !r.URL.Query().Has("historysize") {
		return 0
	}
	return params(r).HistorySize
}

// GetEVSEAdminStatus answers GET /RNs/{RN}/EVSEs/{EVSEId}/AdminStatus.
func (h *Handlers) GetEVSEAdminStatus(w http.ResponseWriter, r *http.Request) {
	if _, e, ok := h.evse(w, r); ok {
		writeJSON(w, http.StatusOK, historyJSON(e.AdminStatusHistory, historyLimit(r)))
	}
}

// GetEVSEStatus answers GET /RNs/{RN}/EVSEs/{EVSEId}/Status.
func (h *Handlers) GetEVSEStatus(w http.ResponseWriter, r *http.Request) {
	if _, e, ok := h.evse(w, r); ok {
		writeJSON(w, http.StatusOK, historyJSON(e.StatusHistory, historyLimit(r)))
	}
}

// SetEVSEAdminStatus answers SET /RNs/{RN}/EVSEs/{EVSEId}/AdminStatus.
func (h *Handlers) SetEVSEAdminStatus(w http.ResponseWriter, r *http.Request) {
	n, e, ok := h.evse(w, r)
	if !ok {
		return
	}
	entries, ok := readStatusBody(w, r, n.Now, domain.ParseAdminStatus)
	if !ok {
		return
	}
	if err := n.SetEVSEAdminStatus(r.Context(), e.ID, entries); err != nil {
		writeError(w, http.StatusNotFound, "Unknown EVSEId!")
		return
	}
	updated, _ := n.EVSE(e.ID)
	writeJSON(w, http.StatusOK, historyJSON(updated.AdminStatusHistory, historyLimit(r)))
}

// SetEVSEStatus answers SET /RNs/{RN}/EVSEs/{EVSEId}/Status.
func (h *Handlers) SetEVSEStatus(w http.ResponseWriter, r *http.Request) {
	n, e, ok := h.evse(w, r)
	if !ok {
		return
	}
	entries, ok := readStatusBody(w, r, n.Now, domain.ParseStatus)
	if !ok {
		return
	}
	if err := n.SetEVSEStatus(r.Context(), e.ID, entries); err != nil {
		writeError(w, http.StatusNotFound, "Unknown EVSEId!")
		return
	}
	updated, _ := n.EVSE(e.ID)
	writeJSON(w, http.StatusOK, historyJSON(updated.StatusHistory, historyLimit(r)))
}

// readStatusBody accepts {"CurrentStatus": "..."} or {"StatusList": {"<timestamp>": "..."}}.
func readStatusBody[T any](w http.ResponseWriter, r *http.Request, now func() time.Time, parse func(string) (T, error)) ([]domain.Timestamped[T], bool) {
	body, err := jsonbody.Decode(r.Body)
	if err != nil {
		writeBodyError(w, err)
		return nil, false
	}

	current, hasCurrent, err := jsonbody.Optional(body, "CurrentStatus", jsonbody.Via(parse))
	if err != nil {
		writeBodyError(w, err)
		return nil, false
	}
	if hasCurrent {
		return []domain.Timestamped[T]{{Timestamp: now(), Value: current}}, true
	}

	list, hasList, err := body.Section("StatusList")
	if err != nil {
		writeBodyError(w, err)
		return nil, false
	}
	if !hasList || len(list.Keys()) == 0 {
		writeError(w, http.StatusBadRequest, "Missing JSON property 'CurrentStatus' or 'StatusList'!")
		return nil, false
	}

	keys := list.Keys()
	sort.Strings(keys)
	entries := make([]domain.Timestamped[T], 0, len(keys))
	for _, key := range keys {
		ts, err := jsonbody.Time(key)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid timestamp '"+key+"' in JSON property 'StatusList'!")
			return nil, false
		}
		value, err := jsonbody.Mandatory(list, key, jsonbody.Via(parse))
		if err != nil {
			writeBodyError(w, err)
			return nil, false
		}
		entries = append(entries, domain.Timestamped[T]{Timestamp: ts, Value: value})
	}
	return entries, true
}
