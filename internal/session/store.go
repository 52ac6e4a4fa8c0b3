package session

import (
	"sync"

	"github.com/google/uuid"
	"github.com/rgehrsitz/lensquote/internal/calculation"
	"github.com/rgehrsitz/lensquote/internal/logging"
)

// Store keeps the live sessions of a server process, keyed by random UUID
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	engine   *calculation.Engine
	logger   logging.Logger
}

// NewStore creates an empty store sharing one engine across sessions
func NewStore(engine *calculation.Engine, logger logging.Logger) *Store {
	if engine == nil {
		engine = calculation.NewEngine()
	}
	return &Store{
		sessions: make(map[string]*Session),
		engine:   engine,
		logger:   logging.OrNop(logger),
	}
}

// Create starts a new signed-out session
func (st *Store) Create() *Session {
	s := New(uuid.NewString(), st.engine)
	s.SetLogger(st.logger)

	st.mu.Lock()
	st.sessions[s.ID] = s
	st.mu.Unlock()
	return s
}

// Get returns a session by ID
func (st *Store) Get(id string) (*Session, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	s, ok := st.sessions[id]
	return s, ok
}

// Delete signs the session out and forgets it
func (st *Store) Delete(id string) bool {
	st.mu.Lock()
	s, ok := st.sessions[id]
	delete(st.sessions, id)
	st.mu.Unlock()

	if ok {
		s.SignOut()
	}
	return ok
}

// Len returns the number of live sessions
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}
