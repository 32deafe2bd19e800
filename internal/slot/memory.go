package slot

import (
	"context"
	"sync"
)

// Memory is a process-local slot for tests.
type Memory struct {
	mu      sync.RWMutex
	key     string
	payload []byte
	present bool
	writes  int
}

// NewMemory returns an empty in-memory slot.
func NewMemory(key string) *Memory {
	return &Memory{key: key}
}

func (m *Memory) Driver() Driver { return DriverMemory }

func (m *Memory) Read(_ context.Context) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.present {
		return nil, ErrNotFound
	}
	out := make([]byte, len(m.payload))
	copy(out, m.payload)
	return out, nil
}

func (m *Memory) Write(_ context.Context, payload []byte) error {
	buf := make([]byte, len(payload))
	copy(buf, payload)
	m.mu.Lock()
	m.payload = buf
	m.present = true
	m.writes++
	m.mu.Unlock()
	return nil
}

// Writes reports how many times the document has been stored. Test helper.
func (m *Memory) Writes() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.writes
}
