package agent

import (
	"sync"

	"github.com/donhauser001/dhs-atlas/internal/llm"
)

// maxHistoryMessages caps per-session history. Older messages fall off
// the front; long-lived sessions never grow without bound.
const maxHistoryMessages = 20

// SessionStore holds per-session conversation history. Implementations
// must be safe for concurrent use.
type SessionStore interface {
	// Get returns the stored history for a session, empty when unknown
	Get(sessionID string) []llm.Message

	// Put replaces the stored history for a session
	Put(sessionID string, history []llm.Message)

	// Delete removes a session. Deleting an absent session is a no-op.
	Delete(sessionID string)
}

// MemorySessionStore is the in-memory SessionStore.
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string][]llm.Message
}

// NewMemorySessionStore creates an empty in-memory session store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: make(map[string][]llm.Message)}
}

// Get returns a copy of the session history.
func (s *MemorySessionStore) Get(sessionID string) []llm.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	history := s.sessions[sessionID]
	out := make([]llm.Message, len(history))
	copy(out, history)
	return out
}

// Put stores the history, keeping only the most recent messages.
func (s *MemorySessionStore) Put(sessionID string, history []llm.Message) {
	if len(history) > maxHistoryMessages {
		history = history[len(history)-maxHistoryMessages:]
	}
	stored := make([]llm.Message, len(history))
	copy(stored, history)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sessionID] = stored
}

// Delete removes the session.
func (s *MemorySessionStore) Delete(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
}

var _ SessionStore = (*MemorySessionStore)(nil)
