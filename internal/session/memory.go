package session

import (
	"context"
	"sync"
)

// MemorySlot is an in-process token slot. It survives for the lifetime of
// the value only.
type MemorySlot struct {
	mu    sync.Mutex
	token string
}

// NewMemorySlot returns a slot pre-filled with token ("" for empty).
func NewMemorySlot(token string) *MemorySlot {
	return &MemorySlot{token: token}
}

func (m *MemorySlot) Load(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token, nil
}

func (m *MemorySlot) Save(ctx context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	return nil
}

func (m *MemorySlot) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
	return nil
}
