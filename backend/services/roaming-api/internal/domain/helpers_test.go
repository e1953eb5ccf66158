package domain

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type recordingSink struct {
	mu     sync.Mutex
	events []Event
}

func (s *recordingSink) Publish(_ context.Context, ev Event) {
	s.mu.Lock()
	s.events = append(s.events, ev)
	s.mu.Unlock()
}

func (s *recordingSink) types() []EventType {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]EventType, 0, len(s.events))
	for _, ev := range s.events {
		out = append(out, ev.Type)
	}
	return out
}

const (
	testToken    AuthToken = "AABBCCDD"
	otherToken   AuthToken = "11223344"
	blockedTok   AuthToken = "DEADBEEF"
	testEMAID    EMAID     = "DE*ICE*C12345678*X"
	testOperator           = ChargingStationOperatorID("DE*GEF")
)

type fixture struct {
	network  *RoamingNetwork
	clock    *fakeClock
	sink     *recordingSink
	archive  *MemoryCDRArchive
	registry *Registry
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	clock := &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	sink := &recordingSink{}
	archive := NewMemoryCDRArchive()
	auth := NewAuthorizator("")
	auth.AllowToken(testToken, "DE*ICE")
	auth.AllowToken(otherToken, "DE*ICE")
	auth.AllowToken(blockedTok, "DE*ICE")
	auth.BlockToken(blockedTok)

	registry := NewRegistry(NetworkOptions{
		HistorySize:  10,
		Clock:        clock.Now,
		Authorizator: auth,
		CDRArchive:   archive,
		Events:       sink,
		PINHashCost:  bcrypt.MinCost,
	})
	network, err := registry.Create("Test", "Test network", "")
	require.NoError(t, err)

	require.NoError(t, network.AddOperator(OperatorSpec{ID: testOperator, Name: "GraphDefined"}))
	require.NoError(t, network.AddPool(PoolSpec{ID: "DE*GEF*P1", OperatorID: testOperator, Name: "Pool 1"}))
	require.NoError(t, network.AddStation(StationSpec{ID: "DE*GEF*S1", PoolID: "DE*GEF*P1"}))
	for _, id := range []EVSEID{"DE*GEF*E5", "DE*GEF*E3", "DE*GEF*E1", "DE*GEF*E4", "DE*GEF*E2"} {
		require.NoError(t, network.AddEVSE(EVSESpec{ID: id, StationID: "DE*GEF*S1", MaxPowerKW: 22}))
	}
	return &fixture{network: network, clock: clock, sink: sink, archive: archive, registry: registry}
}
