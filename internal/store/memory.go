package store

import (
	"context"
	"sync"
	"time"

	"github.com/davrenn/flowdraft/pkg/schema"
)

// MemoryStore is an in-memory Store for tests and ephemeral runs. It honors
// the same uniqueness and not-found semantics as the SQL-backed store.
type MemoryStore struct {
	mu       sync.RWMutex
	users    map[string]*User    // by ID
	sessions map[string]*Session // by token
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:    make(map[string]*User),
		sessions: make(map[string]*Session),
	}
}

func (m *MemoryStore) CreateUser(ctx context.Context, u *User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[u.ID]; ok {
		return schema.NewErrorf(schema.ErrCodeConflict, "user %s already exists", u.ID)
	}
	for _, existing := range m.users {
		if existing.Username == u.Username {
			return schema.NewErrorf(schema.ErrCodeConflict, "username %s already taken", u.Username)
		}
	}
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *MemoryStore) GetUser(ctx context.Context, id string) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[id]
	if !ok {
		return nil, schema.NewErrorf(schema.ErrCodeNotFound, "user %s not found", id)
	}
	cp := *u
	return &cp, nil
}

func (m *MemoryStore) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, u := range m.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, schema.NewErrorf(schema.ErrCodeNotFound, "user %s not found", username)
}

func (m *MemoryStore) CreateSession(ctx context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[s.Token]; ok {
		return schema.NewError(schema.ErrCodeConflict, "session token already exists")
	}
	cp := *s
	m.sessions[s.Token] = &cp
	return nil
}

func (m *MemoryStore) GetSession(ctx context.Context, token string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[token]
	if !ok {
		return nil, schema.NewError(schema.ErrCodeNotFound, "session not found")
	}
	cp := *s
	return &cp, nil
}

func (m *MemoryStore) DeleteSession(ctx context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, token)
	return nil
}

func (m *MemoryStore) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var purged int64
	for token, s := range m.sessions {
		if now.After(s.ExpiresAt) {
			delete(m.sessions, token)
			purged++
		}
	}
	return purged, nil
}

func (m *MemoryStore) Close() error { return nil }
