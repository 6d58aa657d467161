package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/mcoot/tankbattle/internal/dependencies/clock"
)

// MemoryStore keeps sessions in process memory
type MemoryStore struct {
	clock  clock.Clock
	logger *slog.Logger

	mu       sync.RWMutex
	sessions map[string]*Session

	stop chan struct{}
	once sync.Once
}

// Ensure MemoryStore implements the interface
var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory session store
func NewMemoryStore(clock clock.Clock, logger *slog.Logger) *MemoryStore {
	return &MemoryStore{
		clock:    clock,
		logger:   logger,
		sessions: make(map[string]*Session),
		stop:     make(chan struct{}),
	}
}

func (m *MemoryStore) Save(ctx context.Context, s *Session) error {
	stored := *s
	m.mu.Lock()
	m.sessions[s.ID] = &stored
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Get(ctx context.Context, id string) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()

	if !ok {
		return nil, ErrNotFound
	}

	if m.clock.Now().After(s.ExpiresAt) {
		m.mu.Lock()
		delete(m.sessions, id)
		m.mu.Unlock()
		return nil, ErrNotFound
	}

	result := *s
	return &result, nil
}

func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
	return nil
}

// CleanExpired removes expired sessions and reports how many went
func (m *MemoryStore) CleanExpired() int {
	now := m.clock.Now()
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, s := range m.sessions {
		if now.After(s.ExpiresAt) {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}

// StartSweeper runs CleanExpired every interval until Close is called
func (m *MemoryStore) StartSweeper(interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if n := m.CleanExpired(); n > 0 {
					m.logger.Debug("expired sessions removed", slog.Int("count", n))
				}
			case <-m.stop:
				return
			}
		}
	}()
}

// Close stops the sweeper if one is running
func (m *MemoryStore) Close() error {
	m.once.Do(func() { close(m.stop) })
	return nil
}
