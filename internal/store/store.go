package store

import (
	"context"
	"errors"
	"sync"
	"time"
)

// DefaultBoardKey is the slot a board persists under when no key is configured.
const DefaultBoardKey = "sticky-notes"

// Slots is a key/value persistence primitive: one serialized value per key.
type Slots interface {
	// Read returns the stored value; ok is false when the key was never written.
	Read(ctx context.Context, key string) (value []byte, ok bool, err error)
	Write(ctx context.Context, key string, value []byte) error
}

// SlotInfo describes one stored key.
type SlotInfo struct {
	Key       string    `json:"key"`
	Size      int       `json:"size"`
	UpdatedAt time.Time `json:"updatedAt"`
}

var ErrWriteRefused = errors.New("slot write refused")

// Memory keeps slots in process memory. It backs tests and --ephemeral runs.
type Memory struct {
	mu      sync.Mutex
	slots   map[string][]byte
	updated map[string]time.Time
	writes  int

	// FailWrites makes every Write return ErrWriteRefused (quota-exceeded stand-in).
	FailWrites bool
}

func NewMemory() *Memory {
	return &Memory{slots: map[string][]byte{}, updated: map[string]time.Time{}}
}

func (m *Memory) Read(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.slots[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (m *Memory) Write(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWrites {
		return ErrWriteRefused
	}
	m.slots[key] = append([]byte(nil), value...)
	m.updated[key] = time.Now().UTC()
	m.writes++
	return nil
}

// Writes reports how many successful writes the store has taken.
func (m *Memory) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

func (m *Memory) Keys(_ context.Context) ([]SlotInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]SlotInfo, 0, len(m.slots))
	for k, v := range m.slots {
		out = append(out, SlotInfo{Key: k, Size: len(v), UpdatedAt: m.updated[k]})
	}
	sortSlotInfos(out)
	return out, nil
}
