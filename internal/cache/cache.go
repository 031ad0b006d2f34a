// Package cache holds the best-effort transaction cache used by the
// repository. No implementation is authoritative: a miss always falls back to
// the store and failures are swallowed.
package cache

import (
	"context"
	"sync"
	"time"

	"transaction_api/internal/domain"
)

type Cache interface {
	Get(ctx context.Context, id string) (*domain.Transaction, bool)
	Set(ctx context.Context, tx *domain.Transaction)
	Invalidate(ctx context.Context, id string)
}

// Noop never holds anything.
type Noop struct{}

func (Noop) Get(context.Context, string) (*domain.Transaction, bool) { return nil, false }
func (Noop) Set(context.Context, *domain.Transaction)                {}
func (Noop) Invalidate(context.Context, string)                      {}

type entry struct {
	tx      domain.Transaction
	expires time.Time
}

// Memory is a per-process cache with a fixed ttl.
type Memory struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]entry
	now     func() time.Time
}

func NewMemory(ttl time.Duration) *Memory {
	return &Memory{
		ttl:     ttl,
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

func (m *Memory) Get(_ context.Context, id string) (*domain.Transaction, bool) {
	m.mu.RLock()
	e, ok := m.entries[id]
	m.mu.RUnlock()

	if !ok {
		return nil, false
	}
	if m.now().After(e.expires) {
		m.mu.Lock()
		delete(m.entries, id)
		m.mu.Unlock()
		return nil, false
	}

	tx := e.tx
	return &tx, true
}

func (m *Memory) Set(_ context.Context, tx *domain.Transaction) {
	if tx == nil {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[tx.ID.Hex()] = entry{tx: *tx, expires: m.now().Add(m.ttl)}
}

func (m *Memory) Invalidate(_ context.Context, id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, id)
}

// Len reports the number of entries, expired ones included.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
