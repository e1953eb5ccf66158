package domain

import "time"

// Brand is a marketing brand of a charging station operator.
type Brand struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

// ChargingStationOperator is a snapshot of an operator.
type ChargingStationOperator struct {
	ID      ChargingStationOperatorID
	Name    string
	Brands  []Brand
	PoolIDs []ChargingPoolID
}

// ChargingPool is a snapshot of a pool.
type ChargingPool struct {
	ID                 ChargingPoolID
	OperatorID         ChargingStationOperatorID
	Name               string
	Description        string
	AdminStatusHistory []Timestamped[AdminStatus]
	StatusHistory      []Timestamped[Status]
	StationIDs         []ChargingStationID
}

// ChargingStation is a snapshot of a station.
type ChargingStation struct {
	ID                 ChargingStationID
	PoolID             ChargingPoolID
	OperatorID         ChargingStationOperatorID
	Name               string
	AdminStatusHistory []Timestamped[AdminStatus]
	StatusHistory      []Timestamped[Status]
	EVSEIDs            []EVSEID
}

// EVSE is a snapshot of a charge point.
type EVSE struct {
	ID                 EVSEID
	StationID          ChargingStationID
	PoolID             ChargingPoolID
	OperatorID         ChargingStationOperatorID
	Description        string
	MaxPowerKW         float64
	AdminStatusHistory []Timestamped[AdminStatus]
	StatusHistory      []Timestamped[Status]
}

// EMobilityProvider is a snapshot of a provider.
type EMobilityProvider struct {
	ID   EMobilityProviderID
	Name string
}

// ParkingOperator is a snapshot of a parking operator.
type ParkingOperator struct {
	ID   ParkingOperatorID
	Name string
}

// IntendedCharging describes what the driver plans to do with a reservation.
type IntendedCharging struct {
	StartTime         *time.Time
	Duration          time.Duration
	ChargingProductID ChargingProductID
	Plan              string
	EMail             string
	SMS               string
}

// Reservation is a time-bounded hold on an EVSE.
type Reservation struct {
	ID               ReservationID
	RoamingNetworkID RoamingNetworkID
	EVSEID           EVSEID
	ProviderID       EMobilityProviderID
	EMAID            EMAID
	StartTime        time.Time
	Duration         time.Duration
	CreatedAt        time.Time
	AuthTokens       []AuthToken
	EMAIDs           []EMAID
	PINHashes        []string
	IntendedCharging *IntendedCharging
}

// EndTime is StartTime + Duration.
func (r Reservation) EndTime() time.Time {
	return r.StartTime.Add(r.Duration)
}

// SessionState is the lifecycle state of a charging session.
type SessionState string

const (
	SessionAuthorized SessionState = "Authorized"
	SessionCharging   SessionState = "Charging"
	SessionStopped    SessionState = "Stopped"
	SessionCompleted  SessionState = "Completed"
)

// ChargingSession records an active or completed charging transaction.
type ChargingSession struct {
	ID                ChargingSessionID
	RoamingNetworkID  RoamingNetworkID
	EVSEID            EVSEID
	ProviderID        EMobilityProviderID
	AuthToken         AuthToken
	EMAID             EMAID
	AuthorizatorID    string
	ReservationID     ReservationID
	ChargingProductID ChargingProductID
	State             SessionState
	StartTime         time.Time
	EndTime           *time.Time
}

// ChargeDetailRecord is the billing record of a finished session.
type ChargeDetailRecord struct {
	SessionID         ChargingSessionID
	RoamingNetworkID  RoamingNetworkID
	EVSEID            EVSEID
	ProviderID        EMobilityProviderID
	AuthToken         AuthToken
	EMAID             EMAID
	ChargingProductID ChargingProductID
	SessionStart      time.Time
	SessionEnd        time.Time
	ChargeStart       time.Time
	ChargeEnd         time.Time
	MeterValueStart   float64
	MeterValueEnd     float64
	ReceivedAt        time.Time
}

// ConsumedEnergy is the meter difference in kWh.
func (c ChargeDetailRecord) ConsumedEnergy() float64 {
	if c.MeterValueEnd < c.MeterValueStart {
		return 0
	}
	return c.MeterValueEnd - c.MeterValueStart
}

// RoamingNetworkInfo is a snapshot of the roaming network's own attributes.
type RoamingNetworkInfo struct {
	ID          RoamingNetworkID
	Name        string
	Description string
	AdminStatus Timestamped[AdminStatus]
	Status      Timestamped[Status]
	OperatorIDs []ChargingStationOperatorID
	PoolIDs     []ChargingPoolID
	StationIDs  []ChargingStationID
	EVSEIDs     []EVSEID
}
