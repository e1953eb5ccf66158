package domain

import (
	"context"
	"time"
)

// EventType names a state change.
type EventType string

const (
	EventEVSEStatusChanged      EventType = "EVSEStatusChanged"
	EventEVSEAdminStatusChanged EventType = "EVSEAdminStatusChanged"
	EventReservationCreated     EventType = "ReservationCreated"
	EventReservationCanceled    EventType = "ReservationCanceled"
	EventSessionAuthorized      EventType = "SessionAuthorized"
	EventSessionStarted         EventType = "SessionStarted"
	EventSessionStopped         EventType = "SessionStopped"
	EventCDRReceived            EventType = "ChargeDetailRecordReceived"
)

// Event is emitted after a domain state change has been committed.
type Event struct {
	Type             EventType        `json:"type"`
	RoamingNetworkID RoamingNetworkID `json:"roamingNetworkId"`
	EntityID         string           `json:"entityId"`
	Timestamp        time.Time        `json:"timestamp"`
	OldValue         string           `json:"oldValue,omitempty"`
	NewValue         string           `json:"newValue,omitempty"`
	Session          *ChargingSession `json:"-"`
}

// EventSink receives committed events; implementations must not block for long.
type EventSink interface {
	Publish(ctx context.Context, event Event)
}

// MultiSink fans an event out to every sink.
type MultiSink []EventSink

// Publish implements EventSink.
func (m MultiSink) Publish(ctx context.Context, event Event) {
	for _, sink := range m {
		if sink != nil {
			sink.Publish(ctx, event)
		}
	}
}

type discardSink struct{}

func (discardSink) Publish(context.Context, Event) {}
