package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"chargenet/backend/services/roaming-api/internal/domain"
)

// ErrNotFound is returned by Get for an unknown or expired session.
var ErrNotFound = errors.New("active session not found")

// ActiveSession is the cached view of an authorized or running charging session.
type ActiveSession struct {
	SessionID        string    `json:"session_id"`
	RoamingNetworkID string    `json:"roaming_network_id"`
	EVSEID           string    `json:"evse_id"`
	ProviderID       string    `json:"provider_id,omitempty"`
	AuthToken        string    `json:"auth_token,omitempty"`
	EMAID            string    `json:"emaid,omitempty"`
	State            string    `json:"state"`
	StartTime        time.Time `json:"start_time"`
}

// client is the subset of *redis.Client the store uses.
type client interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// Store caches active sessions in redis. It is also an event sink: sessions are saved
// when authorized or started and removed when stopped or billed.
type Store struct {
	client client
	ttl    time.Duration
	logger *zap.Logger
}

// NewStore returns a redis-backed store.
func NewStore(c client, ttl time.Duration, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{client: c, ttl: ttl, logger: logger}
}

func (s *Store) key(network domain.RoamingNetworkID, sessionID string) string {
	return fmt.Sprintf("roaming:%s:sessions:active:%s", network, sessionID)
}

// Save caches session.
func (s *Store) Save(ctx context.Context, session ActiveSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.key(domain.RoamingNetworkID(session.RoamingNetworkID), session.SessionID), data, s.ttl).Err()
}

// Get returns a cached session.
func (s *Store) Get(ctx context.Context, network domain.RoamingNetworkID, sessionID string) (*ActiveSession, error) {
	result, err := s.client.Get(ctx, s.key(network, sessionID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var session ActiveSession
	if err := json.Unmarshal([]byte(result), &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// Delete removes a cached session.
func (s *Store) Delete(ctx context.Context, network domain.RoamingNetworkID, sessionID string) error {
	return s.client.Del(ctx, s.key(network, sessionID)).Err()
}

// Publish implements domain.EventSink.
func (s *Store) Publish(ctx context.Context, event domain.Event) {
	var err error
	switch event.Type {
	case domain.EventSessionAuthorized, domain.EventSessionStarted:
		if event.Session == nil {
			return
		}
		err = s.Save(ctx, fromSession(*event.Session))
	case domain.EventSessionStopped, domain.EventCDRReceived:
		err = s.Delete(ctx, event.RoamingNetworkID, event.EntityID)
	default:
		return
	}
	if err != nil {
		s.logger.Warn("failed to update active session cache",
			zap.String("event", string(event.Type)),
			zap.String("session_id", event.EntityID),
			zap.Error(err))
	}
}

func fromSession(cs domain.ChargingSession) ActiveSession {
	return ActiveSession{
		SessionID:        cs.ID.String(),
		RoamingNetworkID: cs.RoamingNetworkID.String(),
		EVSEID:           cs.EVSEID.String(),
		ProviderID:       cs.ProviderID.String(),
		AuthToken:        cs.AuthToken.String(),
		EMAID:            cs.EMAID.String(),
		State:            string(cs.State),
		StartTime:        cs.StartTime,
	}
}
