package client

import "sync"

// TokenManager is an interface for managing authentication tokens.
// Different implementations can store tokens in files, the OS keyring,
// or in memory. Implementations must be safe for concurrent use and
// must store the access/refresh pair atomically: a reader never sees
// a half-updated pair.
type TokenManager interface {
	// AccessToken returns the current access token, or "" when not logged in.
	AccessToken() string

	// RefreshToken returns the current refresh token, or "" when not logged in.
	RefreshToken() string

	// SetTokens stores both tokens as one unit.
	SetTokens(access, refresh string) error

	// Clear removes stored credentials.
	Clear() error
}

// MemoryTokens is an in-memory TokenManager. Useful for tests and for
// embedding the client in a process that owns its own session lifecycle.
type MemoryTokens struct {
	mu      sync.RWMutex
	access  string
	refresh string
}

// NewMemoryTokens creates an in-memory token manager, optionally seeded
// with an existing token pair.
func NewMemoryTokens(access, refresh string) *MemoryTokens {
	return &MemoryTokens{access: access, refresh: refresh}
}

func (m *MemoryTokens) AccessToken() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.access
}

func (m *MemoryTokens) RefreshToken() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.refresh
}

func (m *MemoryTokens) SetTokens(access, refresh string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.access = access
	m.refresh = refresh
	return nil
}

func (m *MemoryTokens) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.access = ""
	m.refresh = ""
	return nil
}
