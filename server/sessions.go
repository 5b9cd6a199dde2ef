package server

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jtejido/notecheck"
)

// sessionEntry serializes use of one notecheck.Session.
type sessionEntry struct {
	mu       sync.Mutex
	session  *notecheck.Session
	lastUsed time.Time
}

// SessionStore holds the sessions of all clients keyed by UUID. Sessions idle for longer
// than ttl are dropped, and the least recently used one is evicted once max is reached.
type SessionStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	max     int
	entries map[string]*sessionEntry
	factory func() (*notecheck.Session, error)
	now     func() time.Time
}

func NewSessionStore(ttl time.Duration, max int, factory func() (*notecheck.Session, error)) *SessionStore {
	return &SessionStore{
		ttl:     ttl,
		max:     max,
		entries: make(map[string]*sessionEntry),
		factory: factory,
		now:     time.Now,
	}
}

// Create starts a new session and returns its id.
func (st *SessionStore) Create() (string, *sessionEntry, error) {
	sess, err := st.factory()
	if err != nil {
		return "", nil, err
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	st.purgeLocked()
	if st.max > 0 && len(st.entries) >= st.max {
		st.evictOldestLocked()
	}
	id := uuid.NewString()
	e := &sessionEntry{session: sess, lastUsed: st.now()}
	st.entries[id] = e
	return id, e, nil
}

// Get returns the session for id and marks it used.
func (st *SessionStore) Get(id string) (*sessionEntry, bool) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, false
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	st.purgeLocked()
	e, ok := st.entries[id]
	if ok {
		e.lastUsed = st.now()
	}
	return e, ok
}

func (st *SessionStore) Delete(id string) bool {
	st.mu.Lock()
	defer st.mu.Unlock()

	_, ok := st.entries[id]
	delete(st.entries, id)
	return ok
}

func (st *SessionStore) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.entries)
}

func (st *SessionStore) purgeLocked() {
	if st.ttl <= 0 {
		return
	}
	cutoff := st.now().Add(-st.ttl)
	for id, e := range st.entries {
		if e.lastUsed.Before(cutoff) {
			delete(st.entries, id)
		}
	}
}

func (st *SessionStore) evictOldestLocked() {
	var oldestID string
	var oldest time.Time
	for id, e := range st.entries {
		if oldestID == "" || e.lastUsed.Before(oldest) {
			oldestID, oldest = id, e.lastUsed
		}
	}
	delete(st.entries, oldestID)
}
