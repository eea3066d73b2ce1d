package repository

import (
	"context"
	"sync"
	"time"

	"github.com/rocketscienceinc/tictactoe-impossible/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-impossible/internal/entity"
)

type memorySession struct {
	mu       sync.Mutex
	ttl      time.Duration
	sessions map[string]memoryEntry
	now      func() time.Time
}

type memoryEntry struct {
	session   entity.Session
	expiresAt time.Time
}

// NewMemorySessionRepository - process-local store used when redis is not configured.
// Stored values are copies, callers never share a session with the store.
func NewMemorySessionRepository(ttl time.Duration) SessionRepository {
	return &memorySession{
		ttl:      ttl,
		sessions: make(map[string]memoryEntry),
		now:      time.Now,
	}
}

// CreateOrUpdate - stores the session if it still carries the stored version, then bumps it.
func (that *memorySession) CreateOrUpdate(_ context.Context, session *entity.Session) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	stored, ok := that.lookupLocked(session.ID)
	if err := checkVersion(session, stored.session, ok); err != nil {
		return err
	}

	session.Version++

	entry := memoryEntry{session: *session}
	if that.ttl > 0 {
		entry.expiresAt = that.now().Add(that.ttl)
	}
	that.sessions[session.ID] = entry

	return nil
}

func (that *memorySession) GetByID(_ context.Context, id string) (*entity.Session, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	entry, ok := that.lookupLocked(id)
	if !ok {
		return nil, apperror.ErrSessionNotFound
	}

	session := entry.session
	return &session, nil
}

func (that *memorySession) DeleteByID(_ context.Context, id string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if _, ok := that.lookupLocked(id); !ok {
		return apperror.ErrSessionNotFound
	}
	delete(that.sessions, id)

	return nil
}

func (that *memorySession) lookupLocked(id string) (memoryEntry, bool) {
	entry, ok := that.sessions[id]
	if !ok {
		return memoryEntry{}, false
	}

	if !entry.expiresAt.IsZero() && that.now().After(entry.expiresAt) {
		delete(that.sessions, id)
		return memoryEntry{}, false
	}

	return entry, true
}
