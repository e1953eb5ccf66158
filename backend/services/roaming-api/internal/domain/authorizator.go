package domain

import "sync"

// AuthorizationStatus is the verdict of an authorizator.
type AuthorizationStatus int

const (
	AuthorizationUnknown AuthorizationStatus = iota
	AuthorizationGranted
	AuthorizationBlocked
)

// DefaultAuthorizatorID names the local whitelist authorizator.
const DefaultAuthorizatorID = "LocalAuthorizator"

// Authorizator is a local whitelist of tokens and e-mobility accounts.
type Authorizator struct {
	id      string
	mu      sync.RWMutex
	tokens  map[AuthToken]EMobilityProviderID
	emaIDs  map[EMAID]EMobilityProviderID
	blocked map[AuthToken]struct{}
}

// NewAuthorizator returns an empty whitelist.
func NewAuthorizator(id string) *Authorizator {
	if id == "" {
		id = DefaultAuthorizatorID
	}
	return &Authorizator{
		id:      id,
		tokens:  make(map[AuthToken]EMobilityProviderID),
		emaIDs:  make(map[EMAID]EMobilityProviderID),
		blocked: make(map[AuthToken]struct{}),
	}
}

// ID identifies the authorizator in responses.
func (a *Authorizator) ID() string {
	return a.id
}

// AllowToken whitelists a token for a provider.
func (a *Authorizator) AllowToken(token AuthToken, provider EMobilityProviderID) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.tokens[token] = provider
	delete(a.blocked, token)
}

// BlockToken blacklists a token.
func (a *Authorizator) BlockToken(token AuthToken) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.blocked[token] = struct{}{}
}

// AllowEMAID whitelists an account; its provider defaults to the account prefix.
func (a *Authorizator) AllowEMAID(emaID EMAID, provider EMobilityProviderID) {
	if provider == "" {
		provider = emaID.ProviderID()
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.emaIDs[emaID] = provider
}

// CheckToken returns the verdict and the provider owning the token.
func (a *Authorizator) CheckToken(token AuthToken) (AuthorizationStatus, EMobilityProviderID) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if _, blocked := a.blocked[token]; blocked {
		return AuthorizationBlocked, ""
	}
	if provider, ok := a.tokens[token]; ok {
		return AuthorizationGranted, provider
	}
	return AuthorizationUnknown, ""
}

// CheckEMAID returns the verdict for an account.
func (a *Authorizator) CheckEMAID(emaID EMAID) (AuthorizationStatus, EMobilityProviderID) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if provider, ok := a.emaIDs[emaID]; ok {
		return AuthorizationGranted, provider
	}
	return AuthorizationUnknown, ""
}
