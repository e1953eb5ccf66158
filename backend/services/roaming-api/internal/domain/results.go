package domain

// ReservationResultType is the outcome of Reserve.
type ReservationResultType string

const (
	ReservationSuccess          ReservationResultType = "Success"
	ReservationUnknownEVSE      ReservationResultType = "UnknownEVSE"
	ReservationAlreadyReserved  ReservationResultType = "AlreadyReserved"
	ReservationAlreadyInUse     ReservationResultType = "AlreadyInUse"
	ReservationOutOfService     ReservationResultType = "OutOfService"
	ReservationOffline          ReservationResultType = "Offline"
	ReservationInvalidStartTime ReservationResultType = "InvalidStartTime"
	ReservationTimeout          ReservationResultType = "Timeout"
	ReservationError            ReservationResultType = "Error"
)

// ReservationResultTypes lists every variant.
var ReservationResultTypes = []ReservationResultType{
	ReservationSuccess, ReservationUnknownEVSE, ReservationAlreadyReserved, ReservationAlreadyInUse,
	ReservationOutOfService, ReservationOffline, ReservationInvalidStartTime, ReservationTimeout, ReservationError,
}

// ReservationResult carries the reservation on success.
type ReservationResult struct {
	Type        ReservationResultType
	Reservation *Reservation
	Description string
}

// CancelReason distinguishes explicit deletion from expiry.
type CancelReason string

const (
	CancelReasonDeleted CancelReason = "Deleted"
	CancelReasonExpired CancelReason = "Expired"
)

// CancelReservationResultType is the outcome of CancelReservation.
type CancelReservationResultType string

const (
	CancelReservationSuccess            CancelReservationResultType = "Success"
	CancelReservationUnknownReservation CancelReservationResultType = "UnknownReservation"
	CancelReservationTimeout            CancelReservationResultType = "Timeout"
	CancelReservationError              CancelReservationResultType = "Error"
)

// CancelReservationResultTypes lists every variant.
var CancelReservationResultTypes = []CancelReservationResultType{
	CancelReservationSuccess, CancelReservationUnknownReservation, CancelReservationTimeout, CancelReservationError,
}

// CancelReservationResult carries the canceled reservation on success.
type CancelReservationResult struct {
	Type        CancelReservationResultType
	Reservation *Reservation
	Description string
}

// AuthStartResultType is the outcome of AuthorizeStart.
type AuthStartResultType string

const (
	AuthStartAuthorized    AuthStartResultType = "Authorized"
	AuthStartNotAuthorized AuthStartResultType = "NotAuthorized"
	AuthStartBlocked       AuthStartResultType = "Blocked"
	AuthStartUnknownEVSE   AuthStartResultType = "UnknownEVSE"
	AuthStartOutOfService  AuthStartResultType = "OutOfService"
	AuthStartTimeout       AuthStartResultType = "Timeout"
	AuthStartError         AuthStartResultType = "Error"
)

// AuthStartResultTypes lists every variant.
var AuthStartResultTypes = []AuthStartResultType{
	AuthStartAuthorized, AuthStartNotAuthorized, AuthStartBlocked, AuthStartUnknownEVSE,
	AuthStartOutOfService, AuthStartTimeout, AuthStartError,
}

// AuthStartResult carries the authorization details.
type AuthStartResult struct {
	Type           AuthStartResultType
	SessionID      ChargingSessionID
	ProviderID     EMobilityProviderID
	AuthorizatorID string
	Description    string
}

// AuthStopResultType is the outcome of AuthorizeStop.
type AuthStopResultType string

const (
	AuthStopAuthorized       AuthStopResultType = "Authorized"
	AuthStopNotAuthorized    AuthStopResultType = "NotAuthorized"
	AuthStopInvalidSessionID AuthStopResultType = "InvalidSessionId"
	AuthStopTimeout          AuthStopResultType = "Timeout"
	AuthStopError            AuthStopResultType = "Error"
)

// AuthStopResultTypes lists every variant.
var AuthStopResultTypes = []AuthStopResultType{
	AuthStopAuthorized, AuthStopNotAuthorized, AuthStopInvalidSessionID, AuthStopTimeout, AuthStopError,
}

// AuthStopResult carries the authorization details.
type AuthStopResult struct {
	Type           AuthStopResultType
	SessionID      ChargingSessionID
	ProviderID     EMobilityProviderID
	AuthorizatorID string
	Description    string
}

// RemoteStartResultType is the outcome of RemoteStart.
type RemoteStartResultType string

const (
	RemoteStartSuccess      RemoteStartResultType = "Success"
	RemoteStartUnknownEVSE  RemoteStartResultType = "UnknownEVSE"
	RemoteStartAlreadyInUse RemoteStartResultType = "AlreadyInUse"
	RemoteStartReserved     RemoteStartResultType = "Reserved"
	RemoteStartOutOfService RemoteStartResultType = "OutOfService"
	RemoteStartOffline      RemoteStartResultType = "Offline"
	RemoteStartTimeout      RemoteStartResultType = "Timeout"
	RemoteStartError        RemoteStartResultType = "Error"
)

// RemoteStartResultTypes lists every variant.
var RemoteStartResultTypes = []RemoteStartResultType{
	RemoteStartSuccess, RemoteStartUnknownEVSE, RemoteStartAlreadyInUse, RemoteStartReserved,
	RemoteStartOutOfService, RemoteStartOffline, RemoteStartTimeout, RemoteStartError,
}

// RemoteStartResult carries the started session.
type RemoteStartResult struct {
	Type        RemoteStartResultType
	Session     *ChargingSession
	Description string
}

// RemoteStopResultType is the outcome of RemoteStop.
type RemoteStopResultType string

const (
	RemoteStopSuccess          RemoteStopResultType = "Success"
	RemoteStopInvalidSessionID RemoteStopResultType = "InvalidSessionId"
	RemoteStopUnknownEVSE      RemoteStopResultType = "UnknownEVSE"
	RemoteStopTimeout          RemoteStopResultType = "Timeout"
	RemoteStopError            RemoteStopResultType = "Error"
)

// RemoteStopResultTypes lists every variant.
var RemoteStopResultTypes = []RemoteStopResultType{
	RemoteStopSuccess, RemoteStopInvalidSessionID, RemoteStopUnknownEVSE, RemoteStopTimeout, RemoteStopError,
}

// RemoteStopResult carries the stopped session.
type RemoteStopResult struct {
	Type        RemoteStopResultType
	Session     *ChargingSession
	Description string
}

// SendCDRResultType is the outcome of SendChargeDetailRecord.
type SendCDRResultType string

const (
	SendCDRForwarded        SendCDRResultType = "Forwarded"
	SendCDRInvalidSessionID SendCDRResultType = "InvalidSessionId"
	SendCDRNotForwarded     SendCDRResultType = "NotForwarded"
	SendCDRTimeout          SendCDRResultType = "Timeout"
	SendCDRError            SendCDRResultType = "Error"
)

// SendCDRResultTypes lists every variant.
var SendCDRResultTypes = []SendCDRResultType{
	SendCDRForwarded, SendCDRInvalidSessionID, SendCDRNotForwarded, SendCDRTimeout, SendCDRError,
}

// SendCDRResult describes what happened to the record.
type SendCDRResult struct {
	Type        SendCDRResultType
	Description string
}
