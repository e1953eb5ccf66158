package ws

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"

	"chargenet/backend/services/roaming-api/internal/domain"
)

// Manager tracks event subscribers and fans events out to them.
type Manager struct {
	mu           sync.RWMutex
	connections  map[string]*Connection
	pingInterval time.Duration
	logger       *zap.Logger
}

// NewManager builds connection manager.
func NewManager(pingInterval time.Duration, logger *zap.Logger) *Manager {
	if pingInterval <= 0 {
		pingInterval = 30 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		connections:  make(map[string]*Connection),
		pingInterval: pingInterval,
		logger:       logger,
	}
}

// Add registers new connection.
func (m *Manager) Add(conn *Connection) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.connections[conn.ID()] = conn
}

// Remove removes connection.
func (m *Manager) Remove(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.connections, id)
}

// Count returns the number of subscribers of network.
func (m *Manager) Count(network domain.RoamingNetworkID) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, conn := range m.connections {
		if conn.Network() == network {
			n++
		}
	}
	return n
}

// Publish implements domain.EventSink.
func (m *Manager) Publish(_ context.Context, event domain.Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		m.logger.Error("failed to encode event", zap.String("event", string(event.Type)), zap.Error(err))
		return
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, conn := range m.connections {
		if conn.Network() == event.RoamingNetworkID {
			conn.Send(payload)
		}
	}
}

// Start runs the keep-alive ping loop until ctx is done.
func (m *Manager) Start(ctx context.Context) error {
	ticker := time.NewTicker(m.pingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			m.mu.RLock()
			for _, conn := range m.connections {
				_ = conn.Ping()
			}
			m.mu.RUnlock()
		}
	}
}
