// Package handlers implements the roaming network REST surface: path resolution, list
// projections and the command verbs on EVSEs and reservations.
package handlers

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"chargenet/backend/services/roaming-api/internal/domain"
)

// DefaultCommandTimeout bounds a domain command when none is configured.
const DefaultCommandTimeout = 60 * time.Second

// EventStream serves the live event feed of one roaming network.
type EventStream interface {
	ServeEvents(w http.ResponseWriter, r *http.Request, network domain.RoamingNetworkID)
}

// Options configures Handlers.
type Options struct {
	CommandTimeout time.Duration
	Events         EventStream
}

// Handlers serves every roaming network route.
type Handlers struct {
	registry       *domain.Registry
	logger         *zap.Logger
	commandTimeout time.Duration
	events         EventStream
}

// New returns handlers backed by registry.
func New(registry *domain.Registry, logger *zap.Logger, opts Options) *Handlers {
	if opts.CommandTimeout <= 0 {
		opts.CommandTimeout = DefaultCommandTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handlers{
		registry:       registry,
		logger:         logger,
		commandTimeout: opts.CommandTimeout,
		events:         opts.Events,
	}
}

// Health answers GET /health.
func (h *Handlers) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
