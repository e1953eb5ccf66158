package domain

import (
	"context"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// DefaultReservationDuration applies when a reservation request names no duration.
const DefaultReservationDuration = 15 * time.Minute

// ReserveRequest asks for a hold on an EVSE.
type ReserveRequest struct {
	EVSEID           EVSEID
	ReservationID    ReservationID
	ProviderID       EMobilityProviderID
	EMAID            EMAID
	StartTime        *time.Time
	Duration         time.Duration
	IntendedCharging *IntendedCharging
	AuthTokens       []AuthToken
	EMAIDs           []EMAID
	PINs             []string
}

// Reserve places a reservation on an EVSE.
func (n *RoamingNetwork) Reserve(ctx context.Context, req ReserveRequest) ReservationResult {
	if ctx.Err() != nil {
		return ReservationResult{Type: ReservationTimeout, Description: "Reservation request timed out!"}
	}

	now := n.opts.Clock()
	start := now
	if req.StartTime != nil {
		if !req.StartTime.After(now) {
			return ReservationResult{Type: ReservationInvalidStartTime, Description: "The starting time must be in the future!"}
		}
		start = req.StartTime.UTC()
	}
	duration := req.Duration
	if duration <= 0 {
		duration = DefaultReservationDuration
	}

	pinHashes := make([]string, 0, len(req.PINs))
	for _, pin := range req.PINs {
		hash, err := bcrypt.GenerateFromPassword([]byte(pin), n.pinCost())
		if err != nil {
			return ReservationResult{Type: ReservationError, Description: err.Error()}
		}
		pinHashes = append(pinHashes, string(hash))
	}

	n.mu.Lock()
	expired := n.expireLocked(now)
	e, ok := n.evses[req.EVSEID]
	if !ok {
		n.mu.Unlock()
		n.publish(ctx, expired...)
		return ReservationResult{Type: ReservationUnknownEVSE, Description: "Unknown EVSE!"}
	}

	if refusal, description := n.availabilityLocked(e); refusal != "" {
		n.mu.Unlock()
		n.publish(ctx, expired...)
		switch refusal {
		case StatusCharging:
			return ReservationResult{Type: ReservationAlreadyInUse, Description: description}
		case StatusOffline:
			return ReservationResult{Type: ReservationOffline, Description: description}
		default:
			return ReservationResult{Type: ReservationOutOfService, Description: description}
		}
	}

	id := req.ReservationID
	if id == "" {
		id = NewReservationID()
	}
	if e.reservation != "" && e.reservation != id {
		n.mu.Unlock()
		n.publish(ctx, expired...)
		return ReservationResult{Type: ReservationAlreadyReserved, Description: "The EVSE is already reserved!"}
	}
	if existing, exists := n.reservations[id]; exists && existing.EVSEID != req.EVSEID {
		n.mu.Unlock()
		n.publish(ctx, expired...)
		return ReservationResult{Type: ReservationAlreadyReserved, Description: "The reservation identification is already in use!"}
	}

	providerID := req.ProviderID
	if providerID == "" {
		providerID = req.EMAID.ProviderID()
	}
	reservation := &Reservation{
		ID:               id,
		RoamingNetworkID: n.id,
		EVSEID:           req.EVSEID,
		ProviderID:       providerID,
		EMAID:            req.EMAID,
		StartTime:        start,
		Duration:         duration,
		CreatedAt:        now,
		AuthTokens:       append([]AuthToken(nil), req.AuthTokens...),
		EMAIDs:           append([]EMAID(nil), req.EMAIDs...),
		PINHashes:        pinHashes,
		IntendedCharging: req.IntendedCharging,
	}
	n.reservations[id] = reservation
	e.reservation = id
	old, changed := e.status.Set(StatusReserved, now)
	snapshot := *reservation
	n.mu.Unlock()

	events := append(expired, Event{Type: EventReservationCreated, EntityID: id.String(), NewValue: req.EVSEID.String()})
	if changed {
		events = append(events, statusEvent(req.EVSEID, old.Value, StatusReserved))
	}
	n.publish(ctx, events...)
	return ReservationResult{Type: ReservationSuccess, Reservation: &snapshot}
}

// CancelReservation removes a reservation and frees its EVSE.
func (n *RoamingNetwork) CancelReservation(ctx context.Context, id ReservationID, reason CancelReason) CancelReservationResult {
	if ctx.Err() != nil {
		return CancelReservationResult{Type: CancelReservationTimeout, Description: "Cancel reservation request timed out!"}
	}

	n.mu.Lock()
	reservation, ok := n.reservations[id]
	if !ok {
		n.mu.Unlock()
		return CancelReservationResult{Type: CancelReservationUnknownReservation, Description: "Unknown reservation!"}
	}
	events := n.cancelLocked(reservation, reason, n.opts.Clock())
	snapshot := *reservation
	n.mu.Unlock()

	n.publish(ctx, events...)
	return CancelReservationResult{Type: CancelReservationSuccess, Reservation: &snapshot}
}

// ExpireReservations cancels every reservation whose end time has passed.
func (n *RoamingNetwork) ExpireReservations(ctx context.Context) int {
	n.mu.Lock()
	events := n.expireLocked(n.opts.Clock())
	n.mu.Unlock()
	n.publish(ctx, events...)

	count := 0
	for _, ev := range events {
		if ev.Type == EventReservationCanceled {
			count++
		}
	}
	return count
}

func (n *RoamingNetwork) expireLocked(now time.Time) []Event {
	var events []Event
	for _, r := range n.reservations {
		if now.After(r.EndTime()) {
			events = append(events, n.cancelLocked(r, CancelReasonExpired, now)...)
		}
	}
	return events
}

func (n *RoamingNetwork) cancelLocked(r *Reservation, reason CancelReason, now time.Time) []Event {
	delete(n.reservations, r.ID)
	events := []Event{{Type: EventReservationCanceled, EntityID: r.ID.String(), NewValue: string(reason)}}
	if e, ok := n.evses[r.EVSEID]; ok && e.reservation == r.ID {
		e.reservation = ""
		if e.status.Current().Value == StatusReserved {
			old, _ := e.status.Set(StatusAvailable, now)
			events = append(events, statusEvent(e.id, old.Value, StatusAvailable))
		}
	}
	return events
}

// availabilityLocked reports why an EVSE cannot be used; an empty status means usable.
func (n *RoamingNetwork) availabilityLocked(e *evseState) (Status, string) {
	if e.adminStatus.Current().Value != AdminStatusOperational {
		return StatusOutOfService, "The EVSE is not operational!"
	}
	switch e.status.Current().Value {
	case StatusOutOfService:
		return StatusOutOfService, "The EVSE is out of service!"
	case StatusOffline:
		return StatusOffline, "The EVSE is offline!"
	case StatusCharging:
		return StatusCharging, "The EVSE is already in use!"
	}
	return "", ""
}

// AuthStartRequest asks whether a token may start charging at an EVSE.
type AuthStartRequest struct {
	EVSEID            EVSEID
	AuthToken         AuthToken
	SessionID         ChargingSessionID
	OperatorID        ChargingStationOperatorID
	ChargingProductID ChargingProductID
}

// AuthorizeStart checks a token against the authorizator and records an authorized session.
func (n *RoamingNetwork) AuthorizeStart(ctx context.Context, req AuthStartRequest) AuthStartResult {
	authorizatorID := n.AuthorizatorID()
	if ctx.Err() != nil {
		return AuthStartResult{Type: AuthStartTimeout, AuthorizatorID: authorizatorID, Description: "Authorization request timed out!"}
	}

	n.mu.RLock()
	e, ok := n.evses[req.EVSEID]
	operational := ok && e.adminStatus.Current().Value == AdminStatusOperational
	n.mu.RUnlock()
	if !ok {
		return AuthStartResult{Type: AuthStartUnknownEVSE, AuthorizatorID: authorizatorID, Description: "Unknown EVSE!"}
	}
	if !operational {
		return AuthStartResult{Type: AuthStartOutOfService, AuthorizatorID: authorizatorID, Description: "The EVSE is not operational!"}
	}

	verdict, providerID := n.opts.Authorizator.CheckToken(req.AuthToken)
	switch verdict {
	case AuthorizationBlocked:
		return AuthStartResult{Type: AuthStartBlocked, AuthorizatorID: authorizatorID, Description: "Blocked"}
	case AuthorizationGranted:
	default:
		return AuthStartResult{Type: AuthStartNotAuthorized, AuthorizatorID: authorizatorID, Description: "Not authorized"}
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = NewChargingSessionID()
	}
	session := &ChargingSession{
		ID:                sessionID,
		RoamingNetworkID:  n.id,
		EVSEID:            req.EVSEID,
		ProviderID:        providerID,
		AuthToken:         req.AuthToken,
		AuthorizatorID:    authorizatorID,
		ChargingProductID: req.ChargingProductID,
		State:             SessionAuthorized,
		StartTime:         n.opts.Clock(),
	}

	n.mu.Lock()
	if _, exists := n.sessions[sessionID]; exists {
		n.mu.Unlock()
		return AuthStartResult{Type: AuthStartError, AuthorizatorID: authorizatorID, Description: "The charging session identification is already in use!"}
	}
	n.sessions[sessionID] = session
	snapshot := *session
	n.mu.Unlock()

	n.publish(ctx, Event{Type: EventSessionAuthorized, EntityID: sessionID.String(), Session: &snapshot})
	return AuthStartResult{
		Type:           AuthStartAuthorized,
		SessionID:      sessionID,
		ProviderID:     providerID,
		AuthorizatorID: authorizatorID,
		Description:    "Authorized",
	}
}

// AuthStopRequest asks whether a token may stop a session.
type AuthStopRequest struct {
	EVSEID     EVSEID
	SessionID  ChargingSessionID
	AuthToken  AuthToken
	OperatorID ChargingStationOperatorID
}

// AuthorizeStop allows the token that started a session, or another token of the same provider.
func (n *RoamingNetwork) AuthorizeStop(ctx context.Context, req AuthStopRequest) AuthStopResult {
	authorizatorID := n.AuthorizatorID()
	if ctx.Err() != nil {
		return AuthStopResult{Type: AuthStopTimeout, AuthorizatorID: authorizatorID, Description: "Authorization request timed out!"}
	}

	n.mu.RLock()
	session, ok := n.sessions[req.SessionID]
	var snapshot ChargingSession
	if ok {
		snapshot = *session
	}
	n.mu.RUnlock()
	if !ok || snapshot.EVSEID != req.EVSEID {
		return AuthStopResult{Type: AuthStopInvalidSessionID, SessionID: req.SessionID, AuthorizatorID: authorizatorID, Description: "Invalid charging session identification!"}
	}

	authorized := snapshot.AuthToken != "" && snapshot.AuthToken == req.AuthToken
	if !authorized {
		verdict, providerID := n.opts.Authorizator.CheckToken(req.AuthToken)
		authorized = verdict == AuthorizationGranted && providerID != "" && providerID == snapshot.ProviderID
	}
	if !authorized {
		return AuthStopResult{Type: AuthStopNotAuthorized, SessionID: req.SessionID, AuthorizatorID: authorizatorID, Description: "Not authorized"}
	}
	return AuthStopResult{
		Type:           AuthStopAuthorized,
		SessionID:      req.SessionID,
		ProviderID:     snapshot.ProviderID,
		AuthorizatorID: authorizatorID,
		Description:    "Authorized",
	}
}

// RemoteStartRequest starts charging on behalf of an e-mobility account.
type RemoteStartRequest struct {
	EVSEID            EVSEID
	EMAID             EMAID
	SessionID         ChargingSessionID
	ProviderID        EMobilityProviderID
	ChargingProductID ChargingProductID
	ReservationID     ReservationID
	PIN               string
}

// RemoteStart begins a charging session, consuming a matching reservation.
func (n *RoamingNetwork) RemoteStart(ctx context.Context, req RemoteStartRequest) RemoteStartResult {
	if ctx.Err() != nil {
		return RemoteStartResult{Type: RemoteStartTimeout, Description: "Remote start request timed out!"}
	}

	now := n.opts.Clock()
	n.mu.Lock()
	events := n.expireLocked(now)
	e, ok := n.evses[req.EVSEID]
	if !ok {
		n.mu.Unlock()
		n.publish(ctx, events...)
		return RemoteStartResult{Type: RemoteStartUnknownEVSE, Description: "Unknown EVSE!"}
	}
	if refusal, description := n.availabilityLocked(e); refusal != "" {
		n.mu.Unlock()
		n.publish(ctx, events...)
		switch refusal {
		case StatusCharging:
			return RemoteStartResult{Type: RemoteStartAlreadyInUse, Description: description}
		case StatusOffline:
			return RemoteStartResult{Type: RemoteStartOffline, Description: description}
		default:
			return RemoteStartResult{Type: RemoteStartOutOfService, Description: description}
		}
	}

	var consumed ReservationID
	if e.reservation != "" {
		r := n.reservations[e.reservation]
		if r == nil || !reservationAdmits(r, req) {
			n.mu.Unlock()
			n.publish(ctx, events...)
			return RemoteStartResult{Type: RemoteStartReserved, Description: "The EVSE is reserved!"}
		}
		consumed = r.ID
		delete(n.reservations, r.ID)
		e.reservation = ""
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = NewChargingSessionID()
	}
	if existing, exists := n.sessions[sessionID]; exists && existing.State != SessionAuthorized {
		n.mu.Unlock()
		n.publish(ctx, events...)
		return RemoteStartResult{Type: RemoteStartError, Description: "The charging session identification is already in use!"}
	}
	providerID := req.ProviderID
	if providerID == "" {
		providerID = req.EMAID.ProviderID()
	}
	session := &ChargingSession{
		ID:                sessionID,
		RoamingNetworkID:  n.id,
		EVSEID:            req.EVSEID,
		ProviderID:        providerID,
		EMAID:             req.EMAID,
		ReservationID:     consumed,
		ChargingProductID: req.ChargingProductID,
		State:             SessionCharging,
		StartTime:         now,
	}
	n.sessions[sessionID] = session
	e.session = sessionID
	old, changed := e.status.Set(StatusCharging, now)
	snapshot := *session
	n.mu.Unlock()

	if consumed != "" {
		events = append(events, Event{Type: EventReservationCanceled, EntityID: consumed.String(), NewValue: "Consumed"})
	}
	if changed {
		events = append(events, statusEvent(req.EVSEID, old.Value, StatusCharging))
	}
	events = append(events, Event{Type: EventSessionStarted, EntityID: sessionID.String(), Session: &snapshot})
	n.publish(ctx, events...)
	return RemoteStartResult{Type: RemoteStartSuccess, Session: &snapshot}
}

// reservationAdmits reports whether a remote start may consume r. A reservation carrying
// PINs additionally requires one of them.
func reservationAdmits(r *Reservation, req RemoteStartRequest) bool {
	if len(r.PINHashes) > 0 && !pinMatches(r.PINHashes, req.PIN) {
		return false
	}
	if req.ReservationID != "" && req.ReservationID == r.ID {
		return true
	}
	if r.EMAID == req.EMAID {
		return true
	}
	for _, id := range r.EMAIDs {
		if id == req.EMAID {
			return true
		}
	}
	return false
}

func pinMatches(hashes []string, pin string) bool {
	if pin == "" {
		return false
	}
	for _, hash := range hashes {
		if bcrypt.CompareHashAndPassword([]byte(hash), []byte(pin)) == nil {
			return true
		}
	}
	return false
}

// RemoteStopRequest stops a running session.
type RemoteStopRequest struct {
	EVSEID     EVSEID
	SessionID  ChargingSessionID
	ProviderID EMobilityProviderID
	EMAID      EMAID
}

// RemoteStop ends a charging session and frees the EVSE.
func (n *RoamingNetwork) RemoteStop(ctx context.Context, req RemoteStopRequest) RemoteStopResult {
	if ctx.Err() != nil {
		return RemoteStopResult{Type: RemoteStopTimeout, Description: "Remote stop request timed out!"}
	}

	now := n.opts.Clock()
	n.mu.Lock()
	e, ok := n.evses[req.EVSEID]
	if !ok {
		n.mu.Unlock()
		return RemoteStopResult{Type: RemoteStopUnknownEVSE, Description: "Unknown EVSE!"}
	}
	session, ok := n.sessions[req.SessionID]
	if !ok || session.EVSEID != req.EVSEID || session.State != SessionCharging {
		n.mu.Unlock()
		return RemoteStopResult{Type: RemoteStopInvalidSessionID, Description: "Invalid charging session identification!"}
	}
	session.State = SessionStopped
	end := now
	session.EndTime = &end
	var events []Event
	if e.session == session.ID {
		e.session = ""
		if old, changed := e.status.Set(StatusAvailable, now); changed {
			events = append(events, statusEvent(e.id, old.Value, StatusAvailable))
		}
	}
	snapshot := *session
	n.mu.Unlock()

	events = append(events, Event{Type: EventSessionStopped, EntityID: snapshot.ID.String(), Session: &snapshot})
	n.publish(ctx, events...)
	return RemoteStopResult{Type: RemoteStopSuccess, Session: &snapshot}
}

// SendChargeDetailRecord accepts the billing record of a known session and archives it.
func (n *RoamingNetwork) SendChargeDetailRecord(ctx context.Context, cdr ChargeDetailRecord) SendCDRResult {
	if ctx.Err() != nil {
		return SendCDRResult{Type: SendCDRTimeout, Description: "Charge detail record submission timed out!"}
	}

	// The session is claimed before archiving; a failed Store releases it.
	n.mu.Lock()
	session, ok := n.sessions[cdr.SessionID]
	if !ok || session.EVSEID != cdr.EVSEID {
		n.mu.Unlock()
		return SendCDRResult{Type: SendCDRInvalidSessionID, Description: "Invalid charging session identification!"}
	}
	if _, alreadySent := n.cdrSent[cdr.SessionID]; alreadySent {
		n.mu.Unlock()
		return SendCDRResult{Type: SendCDRNotForwarded, Description: "A charge detail record for this session was already received!"}
	}
	n.cdrSent[cdr.SessionID] = struct{}{}
	n.mu.Unlock()

	cdr.RoamingNetworkID = n.id
	cdr.ReceivedAt = n.opts.Clock()
	if err := n.opts.CDRArchive.Store(ctx, cdr); err != nil {
		n.mu.Lock()
		delete(n.cdrSent, cdr.SessionID)
		n.mu.Unlock()
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return SendCDRResult{Type: SendCDRTimeout, Description: "Charge detail record submission timed out!"}
		}
		return SendCDRResult{Type: SendCDRError, Description: err.Error()}
	}

	n.mu.Lock()
	if s, ok := n.sessions[cdr.SessionID]; ok {
		s.State = SessionCompleted
		if s.EndTime == nil {
			end := cdr.SessionEnd
			s.EndTime = &end
		}
	}
	n.mu.Unlock()

	n.publish(ctx, Event{Type: EventCDRReceived, EntityID: cdr.SessionID.String()})
	return SendCDRResult{Type: SendCDRForwarded, Description: "Forwarded"}
}

// VerifyReservationPIN reports whether pin matches one of the reservation's PINs.
func (n *RoamingNetwork) VerifyReservationPIN(id ReservationID, pin string) bool {
	r, ok := n.Reservation(id)
	if !ok {
		return false
	}
	return pinMatches(r.PINHashes, pin)
}

func (n *RoamingNetwork) pinCost() int {
	if n.opts.PINHashCost == 0 {
		return bcrypt.DefaultCost
	}
	return n.opts.PINHashCost
}
