package engine

import (
	"context"
	"strings"
	"sync"

	"github.com/namelens/namesmith/internal/core"
)

// MemoryRateStore keeps rate limit state for the life of the process. It
// backs the limiter when no database is configured.
type MemoryRateStore struct {
	mu     sync.Mutex
	states map[string]core.RateLimitState
}

func NewMemoryRateStore() *MemoryRateStore {
	return &MemoryRateStore{states: make(map[string]core.RateLimitState)}
}

func (m *MemoryRateStore) GetRateLimit(_ context.Context, endpoint string) (*core.RateLimitState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	state, ok := m.states[strings.ToLower(endpoint)]
	if !ok {
		return nil, nil
	}
	return &state, nil
}

func (m *MemoryRateStore) UpdateRateLimit(_ context.Context, endpoint string, state *core.RateLimitState) error {
	if state == nil {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.states == nil {
		m.states = make(map[string]core.RateLimitState)
	}
	m.states[strings.ToLower(endpoint)] = *state
	return nil
}
