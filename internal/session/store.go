package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"tubesnap/pkg/models"
)

// State holds what one browsing session has analyzed so far
type State struct {
	LastURL   string
	Info      *models.VideoInfo
	Qualities []string
}

type entry struct {
	state    State
	lastSeen time.Time
}

// Store is an in-memory session store keyed by an opaque session ID.
// Idle sessions are pruned after the configured TTL. Only the single active
// UI interaction for a session ever touches its state, but the map itself
// is shared across sessions and guarded accordingly.
type Store struct {
	mu       sync.RWMutex
	ttl      time.Duration
	sessions map[string]*entry
	now      func() time.Time
}

// NewStore creates a store whose sessions expire after ttl of inactivity.
// A non-positive ttl disables expiry.
func NewStore(ttl time.Duration) *Store {
	return &Store{
		ttl:      ttl,
		sessions: make(map[string]*entry),
		now:      time.Now,
	}
}

// NewID mints a fresh session identifier
func (s *Store) NewID() string {
	return uuid.NewString()
}

// Get returns a copy of the session state
func (s *Store) Get(id string) (State, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.sessions[id]
	if !ok || s.expired(e) {
		return State{}, false
	}

	return e.state, true
}

// SetAnalysis stores the analysis result for a URL
func (s *Store) SetAnalysis(id, url string, info *models.VideoInfo, qualities []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.prune()
	s.sessions[id] = &entry{
		state: State{
			LastURL:   url,
			Info:      info,
			Qualities: qualities,
		},
		lastSeen: s.now(),
	}
}

// Reset clears any cached analysis for the session, keeping only the URL.
// Submitting a different URL invalidates what was analyzed before.
func (s *Store) Reset(id, url string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.prune()
	s.sessions[id] = &entry{
		state:    State{LastURL: url},
		lastSeen: s.now(),
	}
}

// Touch marks the session as recently used
func (s *Store) Touch(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.sessions[id]; ok {
		e.lastSeen = s.now()
	}
}

// Len returns the number of live sessions
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.prune()
	return len(s.sessions)
}

func (s *Store) expired(e *entry) bool {
	return s.ttl > 0 && s.now().Sub(e.lastSeen) > s.ttl
}

// prune drops expired sessions. Must be called with the write lock held.
func (s *Store) prune() {
	if s.ttl <= 0 {
		return
	}
	for id, e := range s.sessions {
		if s.expired(e) {
			delete(s.sessions, id)
		}
	}
}
