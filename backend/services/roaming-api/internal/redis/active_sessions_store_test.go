package redisstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chargenet/backend/services/roaming-api/internal/domain"
)

type fakeClient struct {
	values map[string]string
	ttls   map[string]time.Duration
	err    error
}

func newFakeClient() *fakeClient {
	return &fakeClient{values: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeClient) Set(_ context.Context, key string, value interface{}, ttl time.Duration) *redis.StatusCmd {
	if f.err != nil {
		return redis.NewStatusResult("", f.err)
	}
	f.values[key] = string(value.([]byte))
	f.ttls[key] = ttl
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeClient) Get(_ context.Context, key string) *redis.StringCmd {
	v, ok := f.values[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeClient) Del(_ context.Context, keys ...string) *redis.IntCmd {
	var n int64
	for _, k := range keys {
		if _, ok := f.values[k]; ok {
			delete(f.values, k)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func TestStoreFollowsSessionEvents(t *testing.T) {
	ctx := context.Background()
	fc := newFakeClient()
	store := NewStore(fc, time.Hour, nil)

	session := domain.ChargingSession{
		ID:               "S-1",
		RoamingNetworkID: "Test",
		EVSEID:           "DE*GEF*E1",
		AuthToken:        "AABBCCDD",
		State:            domain.SessionAuthorized,
		StartTime:        time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	store.Publish(ctx, domain.Event{Type: domain.EventSessionAuthorized, RoamingNetworkID: "Test", EntityID: "S-1", Session: &session})

	assert.Equal(t, time.Hour, fc.ttls["roaming:Test:sessions:active:S-1"])
	got, err := store.Get(ctx, "Test", "S-1")
	require.NoError(t, err)
	assert.Equal(t, "DE*GEF*E1", got.EVSEID)
	assert.Equal(t, "Authorized", got.State)

	store.Publish(ctx, domain.Event{Type: domain.EventEVSEStatusChanged, RoamingNetworkID: "Test", EntityID: "DE*GEF*E1"})
	_, err = store.Get(ctx, "Test", "S-1")
	require.NoError(t, err)

	store.Publish(ctx, domain.Event{Type: domain.EventSessionStopped, RoamingNetworkID: "Test", EntityID: "S-1"})
	_, err = store.Get(ctx, "Test", "S-1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStoreSwallowsRedisErrors(t *testing.T) {
	fc := newFakeClient()
	fc.err = errors.New("connection refused")
	store := NewStore(fc, time.Minute, nil)

	session := domain.ChargingSession{ID: "S-2", RoamingNetworkID: "Test"}
	assert.NotPanics(t, func() {
		store.Publish(context.Background(), domain.Event{Type: domain.EventSessionStarted, Session: &session})
	})
	assert.Empty(t, fc.values)
}
