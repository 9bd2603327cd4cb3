package wizard

import (
	"sync"

	"github.com/google/uuid"

	"github.com/viajemos/service-travel/pkg/domain"
)

// Store holds active wizard sessions in memory. Drafts are transient by
// contract: they die with the session (or the process) and are never shared
// across sessions, so nothing here touches the database.
type Store struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*sessionEntry
}

type sessionEntry struct {
	mu     sync.Mutex
	userID uuid.UUID
	wizard *Wizard
}

// NewStore creates an empty session store.
func NewStore() *Store {
	return &Store{sessions: make(map[uuid.UUID]*sessionEntry)}
}

// Open registers a new wizard session for the user and returns its ID.
func (s *Store) Open(userID uuid.UUID, w *Wizard) uuid.UUID {
	id := uuid.New()
	s.mu.Lock()
	s.sessions[id] = &sessionEntry{userID: userID, wizard: w}
	s.mu.Unlock()
	return id
}

// With runs fn against the session's wizard while holding the session lock,
// serializing draft mutations in the order received. The session must belong
// to the user.
func (s *Store) With(sessionID, userID uuid.UUID, fn func(w *Wizard) error) error {
	s.mu.RLock()
	entry, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if !ok {
		return domain.NewNotFoundError("WizardSession", sessionID.String())
	}
	if entry.userID != userID {
		return domain.NewForbiddenError("wizard session does not belong to this user")
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	return fn(entry.wizard)
}

// Delete discards the session and its draft. Abandoning a wizard has no
// persisted side effect.
func (s *Store) Delete(sessionID uuid.UUID) {
	s.mu.Lock()
	delete(s.sessions, sessionID)
	s.mu.Unlock()
}
