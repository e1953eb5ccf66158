package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// ErrInvalidIdentifier is wrapped by every Parse* failure.
var ErrInvalidIdentifier = errors.New("invalid identifier")

var (
	roamingNetworkIDPattern  = regexp.MustCompile(`^[A-Za-z0-9_\-]{1,64}$`)
	operatorIDPattern        = regexp.MustCompile(`^([A-Z]{2})\*?([A-Z0-9]{3})$`)
	poolIDPattern            = regexp.MustCompile(`^([A-Z]{2})\*?([A-Z0-9]{3})\*?P([A-Z0-9][A-Z0-9\*]{0,30})$`)
	stationIDPattern         = regexp.MustCompile(`^([A-Z]{2})\*?([A-Z0-9]{3})\*?S([A-Z0-9][A-Z0-9\*]{0,30})$`)
	evseIDPattern            = regexp.MustCompile(`^([A-Z]{2})\*?([A-Z0-9]{3})\*?E([A-Z0-9][A-Z0-9\*]{0,30})$`)
	providerIDPattern        = regexp.MustCompile(`^([A-Z]{2})[\*\-]?([A-Z0-9]{3})$`)
	emaIDPattern             = regexp.MustCompile(`^([A-Z]{2})[\*\-]?([A-Z0-9]{3})[\*\-]?C([A-Z0-9]{8})[\*\-]?([A-Z0-9]?)$`)
	genericIDPattern         = regexp.MustCompile(`^[A-Za-z0-9\*_\-]{1,64}$`)
	authTokenPattern         = regexp.MustCompile(`^[A-Fa-f0-9]{8,20}$`)
	pinPattern               = regexp.MustCompile(`^[0-9]{4,8}$`)
	chargingProductIDPattern = regexp.MustCompile(`^[A-Za-z0-9_\-\.]{1,64}$`)
)

func parseID(kind string, pattern *regexp.Regexp, raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if !pattern.MatchString(trimmed) {
		return "", fmt.Errorf("%w: invalid %s '%s'", ErrInvalidIdentifier, kind, raw)
	}
	return trimmed, nil
}

// RoamingNetworkID identifies a roaming network.
type RoamingNetworkID string

// ParseRoamingNetworkID validates a roaming network identifier.
func ParseRoamingNetworkID(raw string) (RoamingNetworkID, error) {
	id, err := parseID("roaming network identification", roamingNetworkIDPattern, raw)
	return RoamingNetworkID(id), err
}

func (id RoamingNetworkID) String() string { return string(id) }

// ChargingStationOperatorID identifies an operator, e.g. DE*GEF.
type ChargingStationOperatorID string

// ParseChargingStationOperatorID validates an operator identifier.
func ParseChargingStationOperatorID(raw string) (ChargingStationOperatorID, error) {
	id, err := parseID("charging station operator identification", operatorIDPattern, raw)
	return ChargingStationOperatorID(id), err
}

func (id ChargingStationOperatorID) String() string { return string(id) }

// ChargingPoolID identifies a pool, e.g. DE*GEF*P1.
type ChargingPoolID string

// ParseChargingPoolID validates a pool identifier.
func ParseChargingPoolID(raw string) (ChargingPoolID, error) {
	id, err := parseID("charging pool identification", poolIDPattern, raw)
	return ChargingPoolID(id), err
}

func (id ChargingPoolID) String() string { return string(id) }

// OperatorID returns the operator prefix of the pool identifier.
func (id ChargingPoolID) OperatorID() ChargingStationOperatorID {
	return operatorPrefix(poolIDPattern, string(id))
}

// ChargingStationID identifies a station, e.g. DE*GEF*S1.
type ChargingStationID string

// ParseChargingStationID validates a station identifier.
func ParseChargingStationID(raw string) (ChargingStationID, error) {
	id, err := parseID("charging station identification", stationIDPattern, raw)
	return ChargingStationID(id), err
}

func (id ChargingStationID) String() string { return string(id) }

// EVSEID identifies a single charge point, e.g. DE*GEF*E1.
type EVSEID string

// ParseEVSEID validates an EVSE identifier.
func ParseEVSEID(raw string) (EVSEID, error) {
	id, err := parseID("EVSE identification", evseIDPattern, raw)
	return EVSEID(id), err
}

func (id EVSEID) String() string { return string(id) }

// OperatorID returns the operator prefix of the EVSE identifier.
func (id EVSEID) OperatorID() ChargingStationOperatorID {
	return operatorPrefix(evseIDPattern, string(id))
}

func operatorPrefix(pattern *regexp.Regexp, raw string) ChargingStationOperatorID {
	m := pattern.FindStringSubmatch(raw)
	if len(m) < 3 {
		return ""
	}
	return ChargingStationOperatorID(m[1] + "*" + m[2])
}

// EMobilityProviderID identifies an e-mobility provider, e.g. DE*ICE.
type EMobilityProviderID string

// ParseEMobilityProviderID validates a provider identifier.
func ParseEMobilityProviderID(raw string) (EMobilityProviderID, error) {
	id, err := parseID("e-mobility provider identification", providerIDPattern, raw)
	return EMobilityProviderID(id), err
}

func (id EMobilityProviderID) String() string { return string(id) }

// EMAID is an e-mobility account identifier.
type EMAID string

// ParseEMAID validates an e-mobility account identifier.
func ParseEMAID(raw string) (EMAID, error) {
	id, err := parseID("e-mobility account identification", emaIDPattern, raw)
	return EMAID(id), err
}

func (id EMAID) String() string { return string(id) }

// ProviderID derives the provider part of the account identifier.
func (id EMAID) ProviderID() EMobilityProviderID {
	m := emaIDPattern.FindStringSubmatch(string(id))
	if len(m) < 3 {
		return ""
	}
	return EMobilityProviderID(m[1] + "*" + m[2])
}

// ParkingOperatorID identifies a parking operator.
type ParkingOperatorID string

// ParseParkingOperatorID validates a parking operator identifier.
func ParseParkingOperatorID(raw string) (ParkingOperatorID, error) {
	id, err := parseID("parking operator identification", genericIDPattern, raw)
	return ParkingOperatorID(id), err
}

func (id ParkingOperatorID) String() string { return string(id) }

// ReservationID identifies a charging reservation.
type ReservationID string

// ParseReservationID validates a reservation identifier.
func ParseReservationID(raw string) (ReservationID, error) {
	id, err := parseID("charging reservation identification", genericIDPattern, raw)
	return ReservationID(id), err
}

// NewReservationID generates a random reservation identifier.
func NewReservationID() ReservationID {
	return ReservationID(uuid.NewString())
}

func (id ReservationID) String() string { return string(id) }

// ChargingSessionID identifies a charging session.
type ChargingSessionID string

// ParseChargingSessionID validates a charging session identifier.
func ParseChargingSessionID(raw string) (ChargingSessionID, error) {
	id, err := parseID("charging session identification", genericIDPattern, raw)
	return ChargingSessionID(id), err
}

// NewChargingSessionID generates a random charging session identifier.
func NewChargingSessionID() ChargingSessionID {
	return ChargingSessionID(uuid.NewString())
}

func (id ChargingSessionID) String() string { return string(id) }

// AuthToken is an RFID/NFC token UID.
type AuthToken string

// ParseAuthToken validates a hex token UID and normalizes it to upper case.
func ParseAuthToken(raw string) (AuthToken, error) {
	id, err := parseID("authentication token", authTokenPattern, raw)
	return AuthToken(strings.ToUpper(id)), err
}

func (t AuthToken) String() string { return string(t) }

// ParsePIN validates a numeric PIN.
func ParsePIN(raw string) (string, error) {
	return parseID("PIN", pinPattern, raw)
}

// ChargingProductID names a charging product or tariff.
type ChargingProductID string

// ParseChargingProductID validates a charging product identifier.
func ParseChargingProductID(raw string) (ChargingProductID, error) {
	id, err := parseID("charging product identification", chargingProductIDPattern, raw)
	return ChargingProductID(id), err
}

func (id ChargingProductID) String() string { return string(id) }
