package services

import (
	"context"
	"fmt"
	"sync"

	gocache "github.com/patrickmn/go-cache"

	"github.com/storeshot/storeshot-api/internal/canvas"
	"github.com/storeshot/storeshot-api/internal/config"
	"github.com/storeshot/storeshot-api/internal/logger"
)

// Session is one ephemeral editing session: a canvas document, its
// interaction engine and the frame scheduler that flushes staged pointer
// updates. Sessions live in memory only; canvas state is never persisted
// server-side.
type Session struct {
	ID        string
	Document  *canvas.Document
	Scheduler *canvas.FrameScheduler

	// lastRequestID guards against stale generation responses: only the
	// most recently issued generation may write its result back.
	mu            sync.Mutex
	lastRequestID string
}

// ClaimRequest marks requestID as the session's current generation.
func (s *Session) ClaimRequest(requestID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastRequestID = requestID
}

// IsCurrentRequest reports whether requestID is still the latest generation
// for this session. Responses for superseded requests are discarded.
func (s *Session) IsCurrentRequest(requestID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastRequestID == requestID
}

// SessionStore keeps sessions in an expiring in-memory cache. Idle sessions
// are evicted after the configured TTL; touching a session resets it.
type SessionStore struct {
	sessions *gocache.Cache
	ctx      context.Context
}

func NewSessionStore(ctx context.Context, cfg *config.Config) *SessionStore {
	store := &SessionStore{
		sessions: gocache.New(cfg.SessionTTL, cfg.SessionTTL/4),
		ctx:      ctx,
	}
	store.sessions.OnEvicted(func(id string, v interface{}) {
		if session, ok := v.(*Session); ok {
			session.Scheduler.Stop()
			logger.Info("Session expired", logger.Fields{"session_id": id})
		}
	})
	return store
}

// Create starts a new session with an empty document.
func (s *SessionStore) Create(id string) *Session {
	doc := canvas.NewDocument()
	engine := canvas.NewEngine(doc)
	scheduler := canvas.NewFrameScheduler(engine)
	scheduler.Start(s.ctx)

	session := &Session{
		ID:        id,
		Document:  doc,
		Scheduler: scheduler,
	}
	s.sessions.SetDefault(id, session)
	return session
}

// Get fetches a session and refreshes its TTL.
func (s *SessionStore) Get(id string) (*Session, error) {
	v, found := s.sessions.Get(id)
	if !found {
		return nil, fmt.Errorf("session %q not found or expired", id)
	}
	session := v.(*Session)
	s.sessions.SetDefault(id, session)
	return session, nil
}

// Delete removes a session; the eviction hook stops its frame loop.
func (s *SessionStore) Delete(id string) {
	s.sessions.Delete(id)
}

// Count returns the number of live sessions, for the health endpoint.
func (s *SessionStore) Count() int {
	return s.sessions.ItemCount()
}
