package domain

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Registry owns the set of roaming networks.
type Registry struct {
	opts NetworkOptions

	mu       sync.RWMutex
	networks map[RoamingNetworkID]*RoamingNetwork
}

// NewRegistry returns an empty registry; opts are shared by every network it creates.
func NewRegistry(opts NetworkOptions) *Registry {
	return &Registry{
		opts:     opts.withDefaults(),
		networks: make(map[RoamingNetworkID]*RoamingNetwork),
	}
}

// Authorizator returns the shared authorizator.
func (r *Registry) Authorizator() *Authorizator {
	return r.opts.Authorizator
}

// Create adds a new roaming network.
func (r *Registry) Create(id RoamingNetworkID, name, description string) (*RoamingNetwork, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.networks[id]; exists {
		return nil, fmt.Errorf("roaming network %s: %w", id, ErrDuplicate)
	}
	network := NewRoamingNetwork(id, name, description, r.opts)
	r.networks[id] = network
	return network, nil
}

// Delete removes a roaming network.
func (r *Registry) Delete(id RoamingNetworkID) (*RoamingNetwork, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	network, ok := r.networks[id]
	if !ok {
		return nil, fmt.Errorf("roaming network %s: %w", id, ErrNotFound)
	}
	delete(r.networks, id)
	return network, nil
}

// Get looks up a roaming network.
func (r *Registry) Get(id RoamingNetworkID) (*RoamingNetwork, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	network, ok := r.networks[id]
	return network, ok
}

// All returns the networks ordered by identifier.
func (r *Registry) All() []*RoamingNetwork {
	r.mu.RLock()
	out := make([]*RoamingNetwork, 0, len(r.networks))
	for _, n := range r.networks {
		out = append(out, n)
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}

// Count returns the number of networks.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.networks)
}

// ExpireReservations expires overdue reservations in every network and returns how many were expired.
func (r *Registry) ExpireReservations(ctx context.Context) int {
	total := 0
	for _, n := range r.All() {
		total += n.ExpireReservations(ctx)
	}
	return total
}
