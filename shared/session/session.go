package session

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"sync"
	"time"

	"github.com/dracory/tdbdesk/shared/schema"
)

const (
	// SessionCookieName is the name of the session cookie
	SessionCookieName = "tdb_sid"
	// SessionIDLength is the length of the session ID in bytes
	SessionIDLength = 32
)

// Session represents a user session
type Session struct {
	ID        string
	CreatedAt time.Time
	Form      *Form
}

// Form is the state of the new connection form of one session. It is
// created empty when the session starts.
type Form struct {
	Schema     *schema.Buffer
	Reconciler *schema.Reconciler

	mu         sync.Mutex
	lastConnID string
}

// NewForm creates an empty form with an idle reconciler.
func NewForm() *Form {
	buf := schema.NewBuffer()
	return &Form{Schema: buf, Reconciler: schema.NewReconciler(buf)}
}

// LastConnID returns the id of the last successful connect from this form.
func (f *Form) LastConnID() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastConnID
}

// SetLastConnID records the id of a successful connect.
func (f *Form) SetLastConnID(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastConnID = id
}

var (
	sessionsMu sync.RWMutex
	sessions   = map[string]*Session{}
)

// newRandomID generates a new random ID for sessions
func newRandomID() string {
	b := make([]byte, SessionIDLength/2)
	if _, err := rand.Read(b); err != nil {
		panic(err) // This should never happen with crypto/rand
	}
	return hex.EncodeToString(b)
}

// EnsureSession returns the existing session from cookie or creates a new one.
func EnsureSession(w http.ResponseWriter, r *http.Request) *Session {
	// Try to get existing session from cookie
	if c, err := r.Cookie(SessionCookieName); err == nil && c != nil && c.Value != "" {
		sessionsMu.RLock()
		s, ok := sessions[c.Value]
		sessionsMu.RUnlock()
		if ok {
			return s
		}
	}

	// Create new session
	s := New(newRandomID())

	// Set session cookie
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    s.ID,
		Path:     "/",
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})

	return s
}

// New creates and stores a session with the given ID.
func New(id string) *Session {
	s := &Session{
		ID:        id,
		CreatedAt: time.Now(),
		Form:      NewForm(),
	}
	sessionsMu.Lock()
	sessions[id] = s
	sessionsMu.Unlock()
	return s
}

// GetSession retrieves an existing session by ID
func GetSession(sessionID string) (*Session, bool) {
	sessionsMu.RLock()
	defer sessionsMu.RUnlock()
	session, exists := sessions[sessionID]
	return session, exists
}

// DeleteSession removes a session
func DeleteSession(sessionID string) {
	sessionsMu.Lock()
	defer sessionsMu.Unlock()
	delete(sessions, sessionID)
}

// Snapshot describes the form's schema state for JSON responses.
func (f *Form) Snapshot() map[string]any {
	pending, awaiting := f.Reconciler.Pending()
	out := map[string]any{
		"state":   f.Reconciler.State().String(),
		"schema":  f.Schema.CurrentText(),
		"pending": awaiting,
	}
	if awaiting {
		out["pending_schema"] = pending
	}
	return out
}
