package handlers

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"chargenet/backend/services/roaming-api/internal/domain"
	"chargenet/backend/services/roaming-api/internal/http/middleware"
	"chargenet/backend/services/roaming-api/internal/jsonbody"
)

// commandTarget resolves the network and parses the EVSE identifier of a command. Whether
// the EVSE exists is left to the domain, which reports it as a result variant.
func (h *Handlers) commandTarget(w http.ResponseWriter, r *http.Request) (*domain.RoamingNetwork, domain.EVSEID, jsonbody.Object, bool) {
	n, ok := h.network(w, r)
	if !ok {
		return nil, "", jsonbody.Object{}, false
	}
	evseID, ok := parseVar(w, r, varEVSE, "EVSEId", domain.ParseEVSEID)
	if !ok {
		return nil, "", jsonbody.Object{}, false
	}
	body, err := jsonbody.Decode(r.Body)
	if err != nil {
		writeBodyError(w, err)
		return nil, "", jsonbody.Object{}, false
	}
	return n, evseID, body, true
}

func (h *Handlers) logCommand(r *http.Request, command string, n *domain.RoamingNetwork, target, result string) {
	fields := []zap.Field{
		zap.String("command", command),
		zap.String("roaming_network", n.ID().String()),
		zap.String("target", target),
		zap.String("result", result),
	}
	if subject, ok := middleware.SubjectFromContext(r.Context()); ok {
		fields = append(fields, zap.String("subject", subject))
	}
	h.logger.Info("command handled", fields...)
}

var (
	parseEVSEIDField      = jsonbody.Via(domain.ParseEVSEID)
	parseEMAIDField       = jsonbody.Via(domain.ParseEMAID)
	parseProviderField    = jsonbody.Via(domain.ParseEMobilityProviderID)
	parseOperatorField    = jsonbody.Via(domain.ParseChargingStationOperatorID)
	parseReservationField = jsonbody.Via(domain.ParseReservationID)
	parseSessionField     = jsonbody.Via(domain.ParseChargingSessionID)
	parseAuthTokenField   = jsonbody.Via(domain.ParseAuthToken)
	parseProductField     = jsonbody.Via(domain.ParseChargingProductID)
	parsePINField         = jsonbody.Via(domain.ParsePIN)
)

// ReserveEVSE answers RESERVE /RNs/{RN}/EVSEs/{EVSEId}.
func (h *Handlers) ReserveEVSE(w http.ResponseWriter, r *http.Request) {
	n, evseID, body, ok := h.commandTarget(w, r)
	if !ok {
		return
	}

	var rd jsonbody.Reader
	req := domain.ReserveRequest{EVSEID: evseID}
	req.ReservationID, _ = jsonbody.ReadOptional(&rd, body, "ReservationId", parseReservationField)
	req.ProviderID, _ = jsonbody.ReadOptional(&rd, body, "ProviderId", parseProviderField)
	req.EMAID = jsonbody.Read(&rd, body, "eMAId", parseEMAIDField)
	if start, present := jsonbody.ReadOptional(&rd, body, "StartTime", jsonbody.Time); present {
		req.StartTime = &start
	}
	req.Duration, _ = jsonbody.ReadOptional(&rd, body, "Duration", jsonbody.Duration)

	if section, present := rd.Section(body, "IntendedCharging"); present {
		intended := &domain.IntendedCharging{}
		if start, ok := jsonbody.ReadOptional(&rd, section, "StartTime", jsonbody.Time); ok {
			intended.StartTime = &start
		}
		intended.Duration, _ = jsonbody.ReadOptional(&rd, section, "Duration", jsonbody.Duration)
		intended.ChargingProductID, _ = jsonbody.ReadOptional(&rd, section, "ChargingProductId", parseProductField)
		intended.Plan, _ = jsonbody.ReadOptional(&rd, section, "Plan", jsonbody.String)
		intended.EMail, _ = jsonbody.ReadOptional(&rd, section, "eMail", jsonbody.String)
		intended.SMS, _ = jsonbody.ReadOptional(&rd, section, "SMS", jsonbody.String)
		req.IntendedCharging = intended
	}
	if section, present := rd.Section(body, "AuthorizedIds"); present {
		req.AuthTokens, _ = jsonbody.ReadOptional(&rd, section, "AuthTokens", jsonbody.List(parseAuthTokenField))
		req.EMAIDs, _ = jsonbody.ReadOptional(&rd, section, "eMAIds", jsonbody.List(parseEMAIDField))
		req.PINs, _ = jsonbody.ReadOptional(&rd, section, "PINs", jsonbody.List(parsePINField))
	}
	if err := rd.Err(); err != nil {
		writeBodyError(w, err)
		return
	}
	if req.StartTime != nil && !req.StartTime.After(n.Now()) {
		writeError(w, http.StatusBadRequest, "The starting time must be in the future!")
		return
	}

	result := execute(r.Context(), h.commandTimeout,
		func(ctx context.Context) domain.ReservationResult { return n.Reserve(ctx, req) },
		func() domain.ReservationResult {
			return domain.ReservationResult{Type: domain.ReservationTimeout, Description: "Reservation request timed out!"}
		})
	h.logCommand(r, "RESERVE", n, evseID.String(), string(result.Type))
	status, payload := reservationResponse(result)
	writeJSON(w, status, payload)
}

// AuthStartEVSE answers AUTHSTART /RNs/{RN}/EVSEs/{EVSEId}.
func (h *Handlers) AuthStartEVSE(w http.ResponseWriter, r *http.Request) {
	n, evseID, body, ok := h.commandTarget(w, r)
	if !ok {
		return
	}

	var rd jsonbody.Reader
	req := domain.AuthStartRequest{EVSEID: evseID}
	req.AuthToken = jsonbody.Read(&rd, body, "AuthToken", parseAuthTokenField)
	req.SessionID, _ = jsonbody.ReadOptional(&rd, body, "SessionId", parseSessionField)
	req.OperatorID, _ = jsonbody.ReadOptional(&rd, body, "OperatorId", parseOperatorField)
	req.ChargingProductID, _ = jsonbody.ReadOptional(&rd, body, "ChargingProductId", parseProductField)
	if err := rd.Err(); err != nil {
		writeBodyError(w, err)
		return
	}

	result := execute(r.Context(), h.commandTimeout,
		func(ctx context.Context) domain.AuthStartResult { return n.AuthorizeStart(ctx, req) },
		func() domain.AuthStartResult {
			return domain.AuthStartResult{Type: domain.AuthStartTimeout, AuthorizatorID: n.AuthorizatorID(), Description: "Authorization request timed out!"}
		})
	h.logCommand(r, "AUTHSTART", n, evseID.String(), string(result.Type))
	status, payload := authStartResponse(result)
	writeJSON(w, status, payload)
}

// AuthStopEVSE answers AUTHSTOP /RNs/{RN}/EVSEs/{EVSEId}.
func (h *Handlers) AuthStopEVSE(w http.ResponseWriter, r *http.Request) {
	n, evseID, body, ok := h.commandTarget(w, r)
	if !ok {
		return
	}

	var rd jsonbody.Reader
	req := domain.AuthStopRequest{EVSEID: evseID}
	req.SessionID = jsonbody.Read(&rd, body, "SessionId", parseSessionField)
	req.AuthToken = jsonbody.Read(&rd, body, "AuthToken", parseAuthTokenField)
	req.OperatorID, _ = jsonbody.ReadOptional(&rd, body, "OperatorId", parseOperatorField)
	if err := rd.Err(); err != nil {
		writeBodyError(w, err)
		return
	}

	result := execute(r.Context(), h.commandTimeout,
		func(ctx context.Context) domain.AuthStopResult { return n.AuthorizeStop(ctx, req) },
		func() domain.AuthStopResult {
			return domain.AuthStopResult{Type: domain.AuthStopTimeout, AuthorizatorID: n.AuthorizatorID(), Description: "Authorization request timed out!"}
		})
	h.logCommand(r, "AUTHSTOP", n, evseID.String(), string(result.Type))
	status, payload := authStopResponse(result)
	writeJSON(w, status, payload)
}

// RemoteStartEVSE answers REMOTESTART /RNs/{RN}/EVSEs/{EVSEId}.
func (h *Handlers) RemoteStartEVSE(w http.ResponseWriter, r *http.Request) {
	n, evseID, body, ok := h.commandTarget(w, r)
	if !ok {
		return
	}

	var rd jsonbody.Reader
	req := domain.RemoteStartRequest{EVSEID: evseID}
	req.EMAID = jsonbody.Read(&rd, body, "eMAId", parseEMAIDField)
	req.SessionID, _ = jsonbody.ReadOptional(&rd, body, "SessionId", parseSessionField)
	req.ProviderID, _ = jsonbody.ReadOptional(&rd, body, "ProviderId", parseProviderField)
	req.ChargingProductID, _ = jsonbody.ReadOptional(&rd, body, "ChargingProductId", parseProductField)
	req.ReservationID, _ = jsonbody.ReadOptional(&rd, body, "ReservationId", parseReservationField)
	req.PIN, _ = jsonbody.ReadOptional(&rd, body, "PIN", parsePINField)
	if err := rd.Err(); err != nil {
		writeBodyError(w, err)
		return
	}

	result := execute(r.Context(), h.commandTimeout,
		func(ctx context.Context) domain.RemoteStartResult { return n.RemoteStart(ctx, req) },
		func() domain.RemoteStartResult {
			return domain.RemoteStartResult{Type: domain.RemoteStartTimeout, Description: "Remote start request timed out!"}
		})
	h.logCommand(r, "REMOTESTART", n, evseID.String(), string(result.Type))
	status, payload := remoteStartResponse(result)
	writeJSON(w, status, payload)
}

// RemoteStopEVSE answers REMOTESTOP /RNs/{RN}/EVSEs/{EVSEId}.
func (h *Handlers) RemoteStopEVSE(w http.ResponseWriter, r *http.Request) {
	n, evseID, body, ok := h.commandTarget(w, r)
	if !ok {
		return
	}

	var rd jsonbody.Reader
	req := domain.RemoteStopRequest{EVSEID: evseID}
	req.SessionID = jsonbody.Read(&rd, body, "SessionId", parseSessionField)
	req.ProviderID, _ = jsonbody.ReadOptional(&rd, body, "ProviderId", parseProviderField)
	req.EMAID, _ = jsonbody.ReadOptional(&rd, body, "eMAId", parseEMAIDField)
	if err := rd.Err(); err != nil {
		writeBodyError(w, err)
		return
	}

	result := execute(r.Context(), h.commandTimeout,
		func(ctx context.Context) domain.RemoteStopResult { return n.RemoteStop(ctx, req) },
		func() domain.RemoteStopResult {
			return domain.RemoteStopResult{Type: domain.RemoteStopTimeout, Description: "Remote stop request timed out!"}
		})
	h.logCommand(r, "REMOTESTOP", n, evseID.String(), string(result.Type))
	status, payload := remoteStopResponse(result)
	writeJSON(w, status, payload)
}

// SendCDR answers SENDCDR /RNs/{RN}/EVSEs/{EVSEId}.
func (h *Handlers) SendCDR(w http.ResponseWriter, r *http.Request) {
	n, evseID, body, ok := h.commandTarget(w, r)
	if !ok {
		return
	}

	var rd jsonbody.Reader
	cdr := domain.ChargeDetailRecord{EVSEID: evseID}
	cdr.SessionID = jsonbody.Read(&rd, body, "SessionId", parseSessionField)
	cdr.ChargeStart = jsonbody.Read(&rd, body, "ChargeStart", jsonbody.Time)
	cdr.ChargeEnd = jsonbody.Read(&rd, body, "ChargeEnd", jsonbody.Time)
	cdr.SessionStart = jsonbody.Read(&rd, body, "SessionStart", jsonbody.Time)
	cdr.SessionEnd = jsonbody.Read(&rd, body, "SessionEnd", jsonbody.Time)
	cdr.MeterValueStart = jsonbody.Read(&rd, body, "MeterValueStart", jsonbody.Float)
	cdr.MeterValueEnd = jsonbody.Read(&rd, body, "MeterValueEnd", jsonbody.Float)
	token, hasToken := jsonbody.ReadOptional(&rd, body, "AuthToken", parseAuthTokenField)
	emaID, hasEMAID := jsonbody.ReadOptional(&rd, body, "eMAId", parseEMAIDField)
	cdr.ProviderID, _ = jsonbody.ReadOptional(&rd, body, "ProviderId", parseProviderField)
	cdr.ChargingProductID, _ = jsonbody.ReadOptional(&rd, body, "ChargingProductId", parseProductField)
	if err := rd.Err(); err != nil {
		writeBodyError(w, err)
		return
	}
	if !hasToken && !hasEMAID {
		writeError(w, http.StatusBadRequest, "Missing JSON property 'AuthToken' or 'eMAId'!")
		return
	}
	if cdr.SessionEnd.Before(cdr.SessionStart) || cdr.ChargeEnd.Before(cdr.ChargeStart) {
		writeError(w, http.StatusBadRequest, "The end of a period must not be before its start!")
		return
	}
	cdr.AuthToken, cdr.EMAID = token, emaID

	result := execute(r.Context(), h.commandTimeout,
		func(ctx context.Context) domain.SendCDRResult { return n.SendChargeDetailRecord(ctx, cdr) },
		func() domain.SendCDRResult {
			return domain.SendCDRResult{Type: domain.SendCDRTimeout, Description: "Charge detail record submission timed out!"}
		})
	h.logCommand(r, "SENDCDR", n, evseID.String(), string(result.Type))
	status, payload := sendCDRResponse(result)
	writeJSON(w, status, payload)
}
