// Package scan hands a scanned card from the RFID reader to the next start/end call.
package scan

import (
	"context"
	"errors"
	"sync"
	"time"
)

var ErrNoPendingCard = errors.New("no pending card for device")

// Marker holds at most one pending card per device. A new scan overwrites the previous one.
type Marker interface {
	Set(ctx context.Context, deviceID, cardID string) error
	Get(ctx context.Context, deviceID string) (string, error)
	Clear(ctx context.Context, deviceID string) error
}

type pending struct {
	cardID    string
	expiresAt time.Time
}

// MemoryMarker keeps pending cards in process memory.
type MemoryMarker struct {
	ttl     time.Duration
	now     func() time.Time
	mu      sync.RWMutex
	pending map[string]pending
}

func NewMemoryMarker(ttl time.Duration) *MemoryMarker {
	return &MemoryMarker{
		ttl:     ttl,
		now:     time.Now,
		pending: map[string]pending{},
	}
}

func (m *MemoryMarker) Set(_ context.Context, deviceID, cardID string) error {
	entry := pending{cardID: cardID}
	if m.ttl > 0 {
		entry.expiresAt = m.now().Add(m.ttl)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.pending[deviceID] = entry
	return nil
}

func (m *MemoryMarker) Get(_ context.Context, deviceID string) (string, error) {
	m.mu.RLock()
	entry, ok := m.pending[deviceID]
	m.mu.RUnlock()

	if !ok {
		return "", ErrNoPendingCard
	}
	if !entry.expiresAt.IsZero() && !m.now().Before(entry.expiresAt) {
		m.mu.Lock()
		if current, ok := m.pending[deviceID]; ok && current == entry {
			delete(m.pending, deviceID)
		}
		m.mu.Unlock()
		return "", ErrNoPendingCard
	}
	return entry.cardID, nil
}

func (m *MemoryMarker) Clear(_ context.Context, deviceID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.pending, deviceID)
	return nil
}
