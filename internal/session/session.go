// internal/session/session.go
//
// Feedback Desk – per-browser form sessions.
//
// Context
//   Each browser gets its own form controller and notice.  A random session
//   ID travels in the “feedback_session” cookie; the state itself stays in an
//   in-memory LRU, so nothing about the visitor's input is written to disk.
//   When the LRU evicts a session (capacity pressure or Close) its Flash is
//   closed, which cancels any pending auto-dismiss timer.
//
//------------------------------------------------------------------------------

package session

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/yanizio/feedback/internal/cache"
	"github.com/yanizio/feedback/internal/feedback"
	"github.com/yanizio/feedback/internal/form"
	"github.com/yanizio/feedback/internal/message"
	"github.com/yanizio/feedback/internal/metrics"
)

const (
	// CookieName carries the session ID.
	CookieName = "feedback_session"

	cookieTTL = 14 * 24 * time.Hour
)

// DefaultMaxSessions bounds the LRU when the caller passes zero.
const DefaultMaxSessions = 10_000

// Session is the UI-side state of one browser.
type Session struct {
	ID    string
	Form  *form.Controller
	Flash *message.Flash
}

// Store maps session IDs to Sessions.
type Store struct {
	lru       *cache.LRU[string, *Session]
	noticeTTL time.Duration
}

// NewStore returns a Store holding at most maxSessions sessions whose success
// notices expire after noticeTTL.
func NewStore(maxSessions int, noticeTTL time.Duration) *Store {
	if maxSessions <= 0 {
		maxSessions = DefaultMaxSessions
	}
	return &Store{
		lru:       cache.New[string, *Session](maxSessions, evict),
		noticeTTL: noticeTTL,
	}
}

func evict(_ string, s *Session) {
	s.Flash.Close()
	metrics.ActiveSessions.Dec()
}

// Get returns the caller's session, creating one (and setting the cookie)
// when the request carries no known ID.
func (st *Store) Get(w http.ResponseWriter, r *http.Request) *Session {
	if c, err := r.Cookie(CookieName); err == nil && c.Value != "" {
		if s, ok := st.lru.Get(c.Value); ok {
			return s
		}
	}

	s := st.newSession()
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    s.ID,
		Path:     "/",
		HttpOnly: true,
		Secure:   r.TLS != nil, // only send over HTTPS
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(cookieTTL),
	})
	return s
}

// Lookup returns an existing session without creating one.
func (st *Store) Lookup(id string) (*Session, bool) {
	return st.lru.Get(id)
}

// Len reports how many sessions are held.
func (st *Store) Len() int { return st.lru.Len() }

// Close evicts every session, stopping their timers.
func (st *Store) Close() { st.lru.Purge() }

func (st *Store) newSession() *Session {
	s := &Session{
		ID:    uuid.NewString(),
		Form:  form.New(feedback.FormData{}),
		Flash: message.NewFlash(st.noticeTTL),
	}
	st.lru.Add(s.ID, s)
	metrics.ActiveSessions.Inc()
	return s
}
