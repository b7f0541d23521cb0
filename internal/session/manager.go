package session

import (
	"context"
	"net/http"

	"clubsite/internal/config"
	"clubsite/pkg/logger"
)

// LoginPath is where the gate sends anonymous visitors.
const LoginPath = "/login"

// LoginRequiredPath is the gate's redirect for visitors without a session.
// The notice travels in the query so no session is created for them.
const LoginRequiredPath = LoginPath + "?required=1"

const msgLoginRequired = "Please log in to access this page."

// LoginRequired reports whether r arrived through the gate's cookieless redirect
// and returns the notice the login page should show for it.
func LoginRequired(r *http.Request) (Flash, bool) {
	if r.URL.Query().Get("required") != "1" {
		return Flash{}, false
	}
	return Flash{Category: FlashDanger, Message: msgLoginRequired}, true
}

type ctxKey struct{}

// holder lets a handler replace the request's session (login, logout)
// after Middleware has already stored it in the context.
type holder struct {
	sess *Session
}

// Manager binds the store to HTTP: cookie handling, request context and the admin gate.
type Manager struct {
	store      *Store
	creds      *Credentials
	cookieName string
}

func NewManager(store *Store, creds *Credentials, cfg config.SessionConfig) *Manager {
	name := cfg.CookieName
	if name == "" {
		name = "session_token"
	}
	return &Manager{store: store, creds: creds, cookieName: name}
}

func (m *Manager) Store() *Store { return m.store }

// Middleware resolves the session cookie into the request context.
// Unknown or expired tokens resolve to no session; one is created on first write.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := &holder{}
		if c, err := r.Cookie(m.cookieName); err == nil {
			if sess, ok := m.store.Get(c.Value); ok {
				h.sess = sess
			}
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, h)))
	})
}

func holderFrom(ctx context.Context) *holder {
	h, _ := ctx.Value(ctxKey{}).(*holder)
	return h
}

// FromContext returns the request's session, or nil for a visitor without one.
func FromContext(ctx context.Context) *Session {
	if h := holderFrom(ctx); h != nil {
		return h.sess
	}
	return nil
}

// Ensure returns the request's session, creating it and setting the cookie if needed.
func (m *Manager) Ensure(w http.ResponseWriter, r *http.Request) (*Session, error) {
	h := holderFrom(r.Context())
	if h == nil {
		h = &holder{}
	}
	if h.sess != nil {
		return h.sess, nil
	}
	sess, err := m.store.Create()
	if err != nil {
		return nil, err
	}
	h.sess = sess
	m.setCookie(w, r, sess.Token())
	return sess, nil
}

// Flash queues a one-shot message for the next rendered page.
func (m *Manager) Flash(w http.ResponseWriter, r *http.Request, category, message string) {
	sess, err := m.Ensure(w, r)
	if err != nil {
		logger.LogError("Flash dropped, session unavailable: %v", err)
		return
	}
	sess.AddFlash(category, message)
}

// PopFlashes drains the request's queued messages.
func (m *Manager) PopFlashes(r *http.Request) []Flash {
	if sess := FromContext(r.Context()); sess != nil {
		return sess.PopFlashes()
	}
	return nil
}

func (m *Manager) IsAuthenticated(r *http.Request) bool {
	sess := FromContext(r.Context())
	return sess != nil && sess.Authenticated()
}

// Login verifies the credentials and, on success, rotates the session token
// and marks the session authenticated. Queued flashes survive the rotation.
func (m *Manager) Login(w http.ResponseWriter, r *http.Request, username, password string) error {
	if err := m.creds.Verify(username, password); err != nil {
		return err
	}

	h := holderFrom(r.Context())
	if h == nil {
		h = &holder{}
	}
	if h.sess == nil {
		sess, err := m.store.Create()
		if err != nil {
			return err
		}
		h.sess = sess
	} else if err := m.store.Rotate(h.sess); err != nil {
		return err
	}
	sess := h.sess

	sess.mu.Lock()
	sess.authenticated = true
	sess.mu.Unlock()

	m.setCookie(w, r, sess.Token())
	return nil
}

// Logout destroys the session and every value scoped to it.
func (m *Manager) Logout(w http.ResponseWriter, r *http.Request) {
	h := holderFrom(r.Context())
	if h != nil && h.sess != nil {
		m.store.Delete(h.sess.Token())
		h.sess = nil
	}
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
}

// RequireAuth protects admin routes; next never runs for anonymous requests.
// A visitor that already holds a session gets the notice as a flash. One
// without a session is redirected to LoginRequiredPath and none is created.
func (m *Manager) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if m.IsAuthenticated(r) {
			next(w, r)
			return
		}
		if FromContext(r.Context()) == nil {
			http.Redirect(w, r, LoginRequiredPath, http.StatusSeeOther)
			return
		}
		m.Flash(w, r, FlashDanger, msgLoginRequired)
		http.Redirect(w, r, LoginPath, http.StatusSeeOther)
	}
}

func (m *Manager) setCookie(w http.ResponseWriter, r *http.Request, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,                 // JavaScript access forbidden (XSS protection)
		Secure:   r.TLS != nil,         // True if using HTTPS
		SameSite: http.SameSiteLaxMode, // CSRF
	})
}
