package services

import (
	"net/http"

	"github.com/gorilla/sessions"
)

const sessionName = "marquee-session"

const viewerKey = "viewer"

// Sessions holds the cookie store that remembers who is watching and any
// pending flash messages.
type Sessions struct {
	store *sessions.CookieStore
}

func NewSessions(secret string, production bool) *Sessions {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   production,
		SameSite: http.SameSiteLaxMode,
	}
	return &Sessions{store: store}
}

// get never fails: a cookie that no longer decodes, e.g. after a secret
// rotation, yields a fresh session.
func (s *Sessions) get(r *http.Request) *sessions.Session {
	session, _ := s.store.Get(r, sessionName)
	return session
}

// Viewer returns the selected viewer, or "" when none is set.
func (s *Sessions) Viewer(r *http.Request) string {
	name, _ := s.get(r).Values[viewerKey].(string)
	return name
}

func (s *Sessions) SetViewer(w http.ResponseWriter, r *http.Request, name string) error {
	session := s.get(r)
	session.Values[viewerKey] = name
	return session.Save(r, w)
}

func (s *Sessions) ClearViewer(w http.ResponseWriter, r *http.Request) error {
	session := s.get(r)
	delete(session.Values, viewerKey)
	return session.Save(r, w)
}

// AddFlash queues a message for the next rendered page.
func (s *Sessions) AddFlash(w http.ResponseWriter, r *http.Request, message string) error {
	session := s.get(r)
	session.AddFlash(message)
	return session.Save(r, w)
}

// Flashes pops every queued message.
func (s *Sessions) Flashes(w http.ResponseWriter, r *http.Request) []string {
	session := s.get(r)
	raw := session.Flashes()
	if len(raw) == 0 {
		return nil
	}
	_ = session.Save(r, w)

	out := make([]string, 0, len(raw))
	for _, f := range raw {
		if msg, ok := f.(string); ok {
			out = append(out, msg)
		}
	}
	return out
}
