// Package session keeps server-side login state and one-shot flash messages
// keyed by an opaque cookie token.
package session

import (
	"crypto/rand"
	"encoding/hex"
	"sync"
	"time"

	"clubsite/pkg/logger"
)

const (
	// GCInterval: Expired session sweep frequency
	GCInterval = 5 * time.Minute

	// AnonymousTTL: Idle lifetime of sessions that never logged in. They only
	// carry flashes, so they expire regardless of the admin TTL.
	AnonymousTTL = 30 * time.Minute
)

const (
	FlashSuccess = "success"
	FlashWarning = "warning"
	FlashDanger  = "danger"
)

type Flash struct {
	Category string
	Message  string
}

// Session is the state behind one token. All fields are guarded by mu.
type Session struct {
	mu            sync.Mutex
	token         string
	authenticated bool
	flashes       []Flash
	lastSeen      time.Time
}

func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

func (s *Session) Authenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.authenticated
}

func (s *Session) AddFlash(category, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flashes = append(s.flashes, Flash{Category: category, Message: message})
}

// PopFlashes returns the queued messages and clears the queue.
func (s *Session) PopFlashes() []Flash {
	s.mu.Lock()
	defer s.mu.Unlock()
	f := s.flashes
	s.flashes = nil
	return f
}

// Store is an in-memory token -> session map. Anonymous sessions always
// expire after AnonymousTTL; authenticated ones follow the configured ttl.
type Store struct {
	sync.RWMutex
	items map[string]*Session
	ttl   time.Duration
	stop  chan struct{}
	once  sync.Once
}

// NewStore creates the store and starts the background sweeper. A positive
// ttl expires idle authenticated sessions; zero keeps them until Delete.
func NewStore(ttl time.Duration) *Store {
	s := &Store{
		items: make(map[string]*Session),
		ttl:   ttl,
		stop:  make(chan struct{}),
	}
	go s.startGC()
	if ttl > 0 {
		logger.LogInfo("Session store initialized, idle TTL: %s", ttl)
	} else {
		logger.LogInfo("Session store initialized, admin sessions end on logout only")
	}
	return s
}

func newToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// Create registers a fresh anonymous session.
func (s *Store) Create() (*Session, error) {
	token, err := newToken()
	if err != nil {
		return nil, err
	}
	sess := &Session{token: token, lastSeen: time.Now()}

	s.Lock()
	s.items[token] = sess
	s.Unlock()
	return sess, nil
}

// Get returns the live session for token and refreshes its idle timer.
func (s *Store) Get(token string) (*Session, bool) {
	if token == "" {
		return nil, false
	}
	s.RLock()
	sess, ok := s.items[token]
	s.RUnlock()
	if !ok {
		return nil, false
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	if s.expired(sess, time.Now()) {
		return nil, false
	}
	sess.lastSeen = time.Now()
	return sess, true
}

// Rotate moves the session to a new token. The old token stops resolving.
func (s *Store) Rotate(sess *Session) error {
	token, err := newToken()
	if err != nil {
		return err
	}

	s.Lock()
	defer s.Unlock()
	sess.mu.Lock()
	defer sess.mu.Unlock()

	delete(s.items, sess.token)
	sess.token = token
	sess.lastSeen = time.Now()
	s.items[token] = sess
	return nil
}

func (s *Store) Delete(token string) {
	s.Lock()
	defer s.Unlock()
	delete(s.items, token)
}

func (s *Store) Len() int {
	s.RLock()
	defer s.RUnlock()
	return len(s.items)
}

// Close stops the sweeper.
func (s *Store) Close() {
	s.once.Do(func() { close(s.stop) })
}

// expired expects sess.mu to be held.
func (s *Store) expired(sess *Session, now time.Time) bool {
	idle := now.Sub(sess.lastSeen)
	if !sess.authenticated {
		limit := AnonymousTTL
		if s.ttl > 0 && s.ttl < limit {
			limit = s.ttl
		}
		return idle > limit
	}
	return s.ttl > 0 && idle > s.ttl
}

func (s *Store) sweep(now time.Time) int {
	s.Lock()
	defer s.Unlock()

	removed := 0
	for token, sess := range s.items {
		sess.mu.Lock()
		dead := s.expired(sess, now)
		sess.mu.Unlock()
		if dead {
			delete(s.items, token)
			removed++
		}
	}
	return removed
}

func (s *Store) startGC() {
	ticker := time.NewTicker(GCInterval)
	defer ticker.Stop()
	for {
		select {
		case <-s.stop:
			return
		case now := <-ticker.C:
			if n := s.sweep(now); n > 0 {
				logger.LogInfo("Session GC: expired %d idle sessions", n)
			}
		}
	}
}
