package domain

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"sync"
	"time"
)

var (
	// ErrDuplicate is returned when an entity with the same identifier exists.
	ErrDuplicate = errors.New("duplicate identifier")
	// ErrNotFound is returned when a referenced entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrPropertyMismatch is returned when an optimistic property update sees a different old value.
	ErrPropertyMismatch = errors.New("property value mismatch")
)

// NetworkOptions holds collaborators shared by roaming networks.
type NetworkOptions struct {
	HistorySize  int
	Clock        func() time.Time
	Authorizator *Authorizator
	CDRArchive   CDRArchive
	Events       EventSink
	// PINHashCost is the bcrypt cost for reservation PINs; zero selects bcrypt.DefaultCost.
	PINHashCost int
}

func (o NetworkOptions) withDefaults() NetworkOptions {
	if o.HistorySize <= 0 {
		o.HistorySize = DefaultHistorySize
	}
	if o.Clock == nil {
		o.Clock = func() time.Time { return time.Now().UTC() }
	}
	if o.Authorizator == nil {
		o.Authorizator = NewAuthorizator(DefaultAuthorizatorID)
	}
	if o.CDRArchive == nil {
		o.CDRArchive = NewMemoryCDRArchive()
	}
	if o.Events == nil {
		o.Events = discardSink{}
	}
	return o
}

type operatorState struct {
	id     ChargingStationOperatorID
	name   string
	brands []Brand
	pools  []ChargingPoolID
}

type poolState struct {
	id          ChargingPoolID
	operatorID  ChargingStationOperatorID
	name        string
	description string
	adminStatus *StatusSchedule[AdminStatus]
	status      *StatusSchedule[Status]
	stations    []ChargingStationID
}

type stationState struct {
	id          ChargingStationID
	poolID      ChargingPoolID
	operatorID  ChargingStationOperatorID
	name        string
	adminStatus *StatusSchedule[AdminStatus]
	status      *StatusSchedule[Status]
	evses       []EVSEID
}

type evseState struct {
	id          EVSEID
	stationID   ChargingStationID
	poolID      ChargingPoolID
	operatorID  ChargingStationOperatorID
	description string
	maxPowerKW  float64
	adminStatus *StatusSchedule[AdminStatus]
	status      *StatusSchedule[Status]
	reservation ReservationID
	session     ChargingSessionID
}

// RoamingNetwork groups operators, infrastructure, providers, reservations and sessions.
// All methods are safe for concurrent use; read methods return snapshots.
type RoamingNetwork struct {
	opts NetworkOptions

	mu          sync.RWMutex
	id          RoamingNetworkID
	name        string
	description string
	adminStatus *StatusSchedule[AdminStatus]
	status      *StatusSchedule[Status]

	operators        map[ChargingStationOperatorID]*operatorState
	pools            map[ChargingPoolID]*poolState
	stations         map[ChargingStationID]*stationState
	evses            map[EVSEID]*evseState
	providers        map[EMobilityProviderID]EMobilityProvider
	parkingOperators map[ParkingOperatorID]ParkingOperator
	reservations     map[ReservationID]*Reservation
	sessions         map[ChargingSessionID]*ChargingSession
	cdrSent          map[ChargingSessionID]struct{}
	properties       map[string]any
}

// NewRoamingNetwork creates an empty, operational roaming network.
func NewRoamingNetwork(id RoamingNetworkID, name, description string, opts NetworkOptions) *RoamingNetwork {
	opts = opts.withDefaults()
	now := opts.Clock()
	return &RoamingNetwork{
		opts:             opts,
		id:               id,
		name:             name,
		description:      description,
		adminStatus:      NewStatusSchedule(opts.HistorySize, AdminStatusOperational, now),
		status:           NewStatusSchedule(opts.HistorySize, StatusAvailable, now),
		operators:        make(map[ChargingStationOperatorID]*operatorState),
		pools:            make(map[ChargingPoolID]*poolState),
		stations:         make(map[ChargingStationID]*stationState),
		evses:            make(map[EVSEID]*evseState),
		providers:        make(map[EMobilityProviderID]EMobilityProvider),
		parkingOperators: make(map[ParkingOperatorID]ParkingOperator),
		reservations:     make(map[ReservationID]*Reservation),
		sessions:         make(map[ChargingSessionID]*ChargingSession),
		cdrSent:          make(map[ChargingSessionID]struct{}),
		properties:       make(map[string]any),
	}
}

// ID returns the network identifier.
func (n *RoamingNetwork) ID() RoamingNetworkID {
	return n.id
}

// Now reads the network clock.
func (n *RoamingNetwork) Now() time.Time {
	return n.opts.Clock()
}

// AuthorizatorID names the authorizator answering for this network.
func (n *RoamingNetwork) AuthorizatorID() string {
	return n.opts.Authorizator.ID()
}

// Info returns a snapshot of the network's own attributes.
func (n *RoamingNetwork) Info() RoamingNetworkInfo {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return RoamingNetworkInfo{
		ID:          n.id,
		Name:        n.name,
		Description: n.description,
		AdminStatus: n.adminStatus.Current(),
		Status:      n.status.Current(),
		OperatorIDs: sortedKeys(n.operators),
		PoolIDs:     sortedKeys(n.pools),
		StationIDs:  sortedKeys(n.stations),
		EVSEIDs:     sortedKeys(n.evses),
	}
}

// OperatorSpec describes an operator to add.
type OperatorSpec struct {
	ID     ChargingStationOperatorID
	Name   string
	Brands []Brand
}

// AddOperator registers an operator.
func (n *RoamingNetwork) AddOperator(spec OperatorSpec) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if _, exists := n.operators[spec.ID]; exists {
		return fmt.Errorf("operator %s: %w", spec.ID, ErrDuplicate)
	}
	n.operators[spec.ID] = &operatorState{
		id:     spec.ID,
		name:   spec.Name,
		brands: append([]Brand(nil), spec.Brands...),
	}
	return nil
}

// PoolSpec describes a pool to add.
type PoolSpec struct {
	ID          ChargingPoolID
	OperatorID  ChargingStationOperatorID
	Name        string
	Description string
}

// AddPool registers a pool below an existing operator.
func (n *RoamingNetwork) AddPool(spec PoolSpec) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	operator, ok := n.operators[spec.OperatorID]
	if !ok {
		return fmt.Errorf("operator %s: %w", spec.OperatorID, ErrNotFound)
	}
	if _, exists := n.pools[spec.ID]; exists {
		return fmt.Errorf("pool %s: %w", spec.ID, ErrDuplicate)
	}
	now := n.opts.Clock()
	n.pools[spec.ID] = &poolState{
		id:          spec.ID,
		operatorID:  spec.OperatorID,
		name:        spec.Name,
		description: spec.Description,
		adminStatus: NewStatusSchedule(n.opts.HistorySize, AdminStatusOperational, now),
		status:      NewStatusSchedule(n.opts.HistorySize, StatusAvailable, now),
	}
	operator.pools = append(operator.pools, spec.ID)
	return nil
}

// StationSpec describes a station to add.
type StationSpec struct {
	ID     ChargingStationID
	PoolID ChargingPoolID
	Name   string
}

// AddStation registers a station below an existing pool.
func (n *RoamingNetwork) AddStation(spec StationSpec) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	pool, ok := n.pools[spec.PoolID]
	if !ok {
		return fmt.Errorf("pool %s: %w", spec.PoolID, ErrNotFound)
	}
	if _, exists := n.stations[spec.ID]; exists {
		return fmt.Errorf("station %s: %w", spec.ID, ErrDuplicate)
	}
	now := n.opts.Clock()
	n.stations[spec.ID] = &stationState{
		id:          spec.ID,
		poolID:      pool.id,
		operatorID:  pool.operatorID,
		name:        spec.Name,
		adminStatus: NewStatusSchedule(n.opts.HistorySize, AdminStatusOperational, now),
		status:      NewStatusSchedule(n.opts.HistorySize, StatusAvailable, now),
	}
	pool.stations = append(pool.stations, spec.ID)
	return nil
}

// EVSESpec describes an EVSE to add.
type EVSESpec struct {
	ID          EVSEID
	StationID   ChargingStationID
	Description string
	MaxPowerKW  float64
}

// AddEVSE registers an EVSE below an existing station.
func (n *RoamingNetwork) AddEVSE(spec EVSESpec) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	station, ok := n.stations[spec.StationID]
	if !ok {
		return fmt.Errorf("station %s: %w", spec.StationID, ErrNotFound)
	}
	if _, exists := n.evses[spec.ID]; exists {
		return fmt.Errorf("evse %s: %w", spec.ID, ErrDuplicate)
	}
	now := n.opts.Clock()
	n.evses[spec.ID] = &evseState{
		id:          spec.ID,
		stationID:   station.id,
		poolID:      station.poolID,
		operatorID:  station.operatorID,
		description: spec.Description,
		maxPowerKW:  spec.MaxPowerKW,
		adminStatus: NewStatusSchedule(n.opts.HistorySize, AdminStatusOperational, now),
		status:      NewStatusSchedule(n.opts.HistorySize, StatusAvailable, now),
	}
	station.evses = append(station.evses, spec.ID)
	return nil
}

// AddEMobilityProvider registers a provider.
func (n *RoamingNetwork) AddEMobilityProvider(provider EMobilityProvider) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if _, exists := n.providers[provider.ID]; exists {
		return fmt.Errorf("provider %s: %w", provider.ID, ErrDuplicate)
	}
	n.providers[provider.ID] = provider
	return nil
}

// AddParkingOperator registers a parking operator.
func (n *RoamingNetwork) AddParkingOperator(operator ParkingOperator) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if _, exists := n.parkingOperators[operator.ID]; exists {
		return fmt.Errorf("parking operator %s: %w", operator.ID, ErrDuplicate)
	}
	n.parkingOperators[operator.ID] = operator
	return nil
}

// Operators returns all operators in unspecified order.
func (n *RoamingNetwork) Operators() []ChargingStationOperator {
	n.mu.RLock()
	defer n.mu.RUnlock()
	out := make([]ChargingStationOperator, 0, len(n.operators))
	for _, op := range n.operators {
		out = append(out, op.snapshot())
	}
	return out
}

// Operator looks up one operator.
func (n *RoamingNetwork) Operator(id ChargingStationOperatorID) (ChargingStationOperator, bool) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	op, ok := n.operators[id]
	if !ok {
		return ChargingStationOperator{}, false
	}
	return op.snapshot(), true
}

// Pools returns all pools in unspecified order.
func (n *RoamingNetwork) Pools() []ChargingPool {
	n.mu.RLock()
	defer n.mu.RUnlock()
	out := make([]ChargingPool, 0, len(n.pools))
	for _, p := range n.pools {
		out = append(out, p.snapshot())
	}
	return out
}

// Pool looks up one pool.
func (n *RoamingNetwork) Pool(id ChargingPoolID) (ChargingPool, bool) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	p, ok := n.pools[id]
	if !ok {
		return ChargingPool{}, false
	}
	return p.snapshot(), true
}

// Stations returns all stations in unspecified order.
func (n *RoamingNetwork) Stations() []ChargingStation {
	n.mu.RLock()
	defer n.mu.RUnlock()
	out := make([]ChargingStation, 0, len(n.stations))
	for _, s := range n.stations {
		out = append(out, s.snapshot())
	}
	return out
}

// Station looks up one station.
func (n *RoamingNetwork) Station(id ChargingStationID) (ChargingStation, bool) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	s, ok := n.stations[id]
	if !ok {
		return ChargingStation{}, false
	}
	return s.snapshot(), true
}

// StationsOfPool returns the stations of a pool.
func (n *RoamingNetwork) StationsOfPool(id ChargingPoolID) []ChargingStation {
	n.mu.RLock()
	defer n.mu.RUnlock()
	p, ok := n.pools[id]
	if !ok {
		return nil
	}
	out := make([]ChargingStation, 0, len(p.stations))
	for _, sid := range p.stations {
		out = append(out, n.stations[sid].snapshot())
	}
	return out
}

// EVSEs returns all EVSEs in unspecified order.
func (n *RoamingNetwork) EVSEs() []EVSE {
	n.mu.RLock()
	defer n.mu.RUnlock()
	out := make([]EVSE, 0, len(n.evses))
	for _, e := range n.evses {
		out = append(out, e.snapshot())
	}
	return out
}

// EVSE looks up one EVSE.
func (n *RoamingNetwork) EVSE(id EVSEID) (EVSE, bool) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	e, ok := n.evses[id]
	if !ok {
		return EVSE{}, false
	}
	return e.snapshot(), true
}

// EVSEsOfStation returns the EVSEs of a station.
func (n *RoamingNetwork) EVSEsOfStation(id ChargingStationID) []EVSE {
	n.mu.RLock()
	defer n.mu.RUnlock()
	s, ok := n.stations[id]
	if !ok {
		return nil
	}
	out := make([]EVSE, 0, len(s.evses))
	for _, eid := range s.evses {
		out = append(out, n.evses[eid].snapshot())
	}
	return out
}

// EMobilityProviders returns all providers in unspecified order.
func (n *RoamingNetwork) EMobilityProviders() []EMobilityProvider {
	n.mu.RLock()
	defer n.mu.RUnlock()
	out := make([]EMobilityProvider, 0, len(n.providers))
	for _, p := range n.providers {
		out = append(out, p)
	}
	return out
}

// ParkingOperators returns all parking operators in unspecified order.
func (n *RoamingNetwork) ParkingOperators() []ParkingOperator {
	n.mu.RLock()
	defer n.mu.RUnlock()
	out := make([]ParkingOperator, 0, len(n.parkingOperators))
	for _, p := range n.parkingOperators {
		out = append(out, p)
	}
	return out
}

// Reservations returns all reservations in unspecified order.
func (n *RoamingNetwork) Reservations() []Reservation {
	n.mu.RLock()
	defer n.mu.RUnlock()
	out := make([]Reservation, 0, len(n.reservations))
	for _, r := range n.reservations {
		out = append(out, *r)
	}
	return out
}

// Reservation looks up one reservation.
func (n *RoamingNetwork) Reservation(id ReservationID) (Reservation, bool) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	r, ok := n.reservations[id]
	if !ok {
		return Reservation{}, false
	}
	return *r, true
}

// ChargingSessions returns all sessions in unspecified order.
func (n *RoamingNetwork) ChargingSessions() []ChargingSession {
	n.mu.RLock()
	defer n.mu.RUnlock()
	out := make([]ChargingSession, 0, len(n.sessions))
	for _, s := range n.sessions {
		out = append(out, *s)
	}
	return out
}

// ChargingSession looks up one session.
func (n *RoamingNetwork) ChargingSession(id ChargingSessionID) (ChargingSession, bool) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	s, ok := n.sessions[id]
	if !ok {
		return ChargingSession{}, false
	}
	return *s, true
}

// Property returns a generic property value.
func (n *RoamingNetwork) Property(key string) (any, bool) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	v, ok := n.properties[key]
	return v, ok
}

// SetProperty stores newValue if the current value equals oldValue. hasOld=false expects
// the property to be absent.
func (n *RoamingNetwork) SetProperty(key string, oldValue any, hasOld bool, newValue any) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	current, exists := n.properties[key]
	if exists != hasOld || (exists && !reflect.DeepEqual(current, oldValue)) {
		return fmt.Errorf("property %s: %w", key, ErrPropertyMismatch)
	}
	n.properties[key] = newValue
	return nil
}

// SetEVSEAdminStatus merges admin status entries into the EVSE history.
func (n *RoamingNetwork) SetEVSEAdminStatus(ctx context.Context, id EVSEID, entries []Timestamped[AdminStatus]) error {
	n.mu.Lock()
	e, ok := n.evses[id]
	if !ok {
		n.mu.Unlock()
		return fmt.Errorf("evse %s: %w", id, ErrNotFound)
	}
	before := e.adminStatus.Current()
	for _, entry := range entries {
		e.adminStatus.Insert(entry)
	}
	after := e.adminStatus.Current()
	n.mu.Unlock()

	if before.Value != after.Value {
		n.publish(ctx, Event{
			Type:     EventEVSEAdminStatusChanged,
			EntityID: id.String(),
			OldValue: string(before.Value),
			NewValue: string(after.Value),
		})
	}
	return nil
}

// SetEVSEStatus merges status entries into the EVSE history.
func (n *RoamingNetwork) SetEVSEStatus(ctx context.Context, id EVSEID, entries []Timestamped[Status]) error {
	n.mu.Lock()
	e, ok := n.evses[id]
	if !ok {
		n.mu.Unlock()
		return fmt.Errorf("evse %s: %w", id, ErrNotFound)
	}
	before := e.status.Current()
	for _, entry := range entries {
		e.status.Insert(entry)
	}
	after := e.status.Current()
	n.mu.Unlock()

	if before.Value != after.Value {
		n.publish(ctx, statusEvent(id, before.Value, after.Value))
	}
	return nil
}

func (n *RoamingNetwork) publish(ctx context.Context, events ...Event) {
	now := n.opts.Clock()
	for _, ev := range events {
		ev.RoamingNetworkID = n.id
		if ev.Timestamp.IsZero() {
			ev.Timestamp = now
		}
		n.opts.Events.Publish(ctx, ev)
	}
}

func statusEvent(id EVSEID, from, to Status) Event {
	return Event{
		Type:     EventEVSEStatusChanged,
		EntityID: id.String(),
		OldValue: string(from),
		NewValue: string(to),
	}
}

func (o *operatorState) snapshot() ChargingStationOperator {
	return ChargingStationOperator{
		ID:      o.id,
		Name:    o.name,
		Brands:  append([]Brand(nil), o.brands...),
		PoolIDs: append([]ChargingPoolID(nil), o.pools...),
	}
}

func (p *poolState) snapshot() ChargingPool {
	return ChargingPool{
		ID:                 p.id,
		OperatorID:         p.operatorID,
		Name:               p.name,
		Description:        p.description,
		AdminStatusHistory: p.adminStatus.History(0),
		StatusHistory:      p.status.History(0),
		StationIDs:         append([]ChargingStationID(nil), p.stations...),
	}
}

func (s *stationState) snapshot() ChargingStation {
	return ChargingStation{
		ID:                 s.id,
		PoolID:             s.poolID,
		OperatorID:         s.operatorID,
		Name:               s.name,
		AdminStatusHistory: s.adminStatus.History(0),
		StatusHistory:      s.status.History(0),
		EVSEIDs:            append([]EVSEID(nil), s.evses...),
	}
}

func (e *evseState) snapshot() EVSE {
	return EVSE{
		ID:                 e.id,
		StationID:          e.stationID,
		PoolID:             e.poolID,
		OperatorID:         e.operatorID,
		Description:        e.description,
		MaxPowerKW:         e.maxPowerKW,
		AdminStatusHistory: e.adminStatus.History(0),
		StatusHistory:      e.status.History(0),
	}
}

func sortedKeys[K ~string, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
