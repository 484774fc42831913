package server

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-contactform/pkg/contact"
	"github.com/goliatone/go-contactform/pkg/model"
)

// ControllerFactory builds the controller for a new session.
type ControllerFactory func() (*contact.Controller, error)

// Session is one browser's controller. Callers hold mu while touching ctrl.
type Session struct {
	ID string

	mu       sync.Mutex
	ctrl     *contact.Controller
	lastSeen time.Time
	revision uint64
	seqs     map[model.FieldName]uint64
}

// Do runs fn with the session locked.
func (s *Session) Do(fn func(*contact.Controller) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.ctrl)
}

// Render runs fn for a full page render and starts a new page revision.
// Change events from the page echo the revision back; events from older
// pages are dropped.
func (s *Session) Render(fn func(*contact.Controller) error) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revision++
	s.seqs = nil
	return s.revision, fn(s.ctrl)
}

// Change runs fn for a change event on field unless the event is stale: it
// names an older page revision, or a later event for the same field was
// already applied. A zero seq marks an unordered event, which always applies.
// It reports whether fn ran.
func (s *Session) Change(field model.FieldName, revision, seq uint64, fn func(*contact.Controller) error) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != 0 {
		if revision != s.revision || seq <= s.seqs[field] {
			return false, nil
		}
		if s.seqs == nil {
			s.seqs = make(map[model.FieldName]uint64)
		}
		s.seqs[field] = seq
	}
	return true, fn(s.ctrl)
}

// SessionStore keeps controllers in memory and evicts idle ones.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	ttl      time.Duration
	factory  ControllerFactory
	now      func() time.Time

	stop      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

// NewSessionStore starts a janitor sweeping every interval. A non-positive
// interval disables the janitor.
func NewSessionStore(ttl, interval time.Duration, factory ControllerFactory) *SessionStore {
	s := &SessionStore{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		factory:  factory,
		now:      time.Now,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	if interval > 0 {
		go s.janitor(interval)
	} else {
		close(s.done)
	}
	return s
}

// Get returns the session for id, creating one under a fresh id when id is
// empty, unknown or expired.
func (s *SessionStore) Get(id string) (*Session, bool, error) {
	now := s.now()

	if id != "" {
		s.mu.RLock()
		sess, ok := s.sessions[id]
		s.mu.RUnlock()
		if ok {
			sess.mu.Lock()
			expired := now.Sub(sess.lastSeen) > s.ttl
			if !expired {
				sess.lastSeen = now
			}
			sess.mu.Unlock()
			if !expired {
				return sess, false, nil
			}
		}
	}

	ctrl, err := s.factory()
	if err != nil {
		return nil, false, err
	}
	sess := &Session{
		ID:       uuid.NewString(),
		ctrl:     ctrl,
		lastSeen: now,
	}
	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()
	return sess, true, nil
}

// Len reports the number of live sessions.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Sweep drops sessions idle longer than the ttl and reports how many went.
func (s *SessionStore) Sweep() int {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, sess := range s.sessions {
		sess.mu.Lock()
		idle := now.Sub(sess.lastSeen)
		sess.mu.Unlock()
		if idle > s.ttl {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

func (s *SessionStore) janitor(interval time.Duration) {
	defer close(s.done)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}

// Close stops the janitor and waits for it to exit.
func (s *SessionStore) Close() {
	s.closeOnce.Do(func() {
		close(s.stop)
	})
	<-s.done
}
