package pinlib

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

const DefaultSessionTTL = time.Hour

// Session is a context of a single user. It owns a PointStore for
// multi-point mode and a result of the last single-point search. All
// operations on a session are serialized.
type Session struct {
	ID string

	mutex    sync.Mutex
	store    PointStore
	last     *LocatedPoint
	lastSeen time.Time
}

func (s *Session) do(callback func()) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	callback()
}

// SessionRegistry keeps sessions until they are dropped or have not been
// used for longer than ttl.
type SessionRegistry struct {
	mutex    sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
	logger   Logger
}

func (s *SessionRegistry) Create() *Session {
	now := time.Now()
	sess := &Session{
		ID:       uuid.NewString(),
		lastSeen: now,
	}

	s.mutex.Lock()
	s.sweep(now)
	s.sessions[sess.ID] = sess
	s.mutex.Unlock()

	s.logger.SessionInfo(sess.ID, "Session was created")

	return sess
}

// Get returns a live session and marks it as used.
func (s *SessionRegistry) Get(id string) (*Session, error) {
	now := time.Now()

	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.sweep(now)

	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrUnknownSession
	}

	sess.lastSeen = now

	return sess, nil
}

func (s *SessionRegistry) Drop(id string) {
	s.mutex.Lock()
	_, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mutex.Unlock()

	if ok {
		s.logger.SessionInfo(id, "Session was dropped")
	}
}

func (s *SessionRegistry) Len() int {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	return len(s.sessions)
}

func (s *SessionRegistry) sweep(now time.Time) {
	for k, v := range s.sessions {
		if now.Sub(v.lastSeen) > s.ttl {
			delete(s.sessions, k)
			s.logger.SessionInfo(k, "Session has expired")
		}
	}
}

func NewSessionRegistry(ttl time.Duration, logger Logger) *SessionRegistry {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}

	return &SessionRegistry{
		sessions: map[string]*Session{},
		ttl:      ttl,
		logger:   logger,
	}
}
