// Package handlers serves the public site and the gated admin area.
package handlers

import (
	"errors"
	"net/http"
	"sync"

	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"

	"clubsite/internal/config"
	"clubsite/internal/content"
	"clubsite/internal/middleware"
	"clubsite/internal/session"
	"clubsite/internal/upload"
)

// Deps are the collaborators a Handler needs. All fields are required except
// LoginLimiter, which defaults to a disabled limiter.
type Deps struct {
	Config       *config.Config
	DB           *gorm.DB
	Repo         *content.Repository
	Uploads      *upload.Store
	Sessions     *session.Manager
	Metrics      *middleware.Metrics
	LoginLimiter *middleware.RateLimiter
}

type Handler struct {
	cfg          *config.Config
	db           *gorm.DB
	repo         *content.Repository
	uploads      *upload.Store
	sessions     *session.Manager
	metrics      *middleware.Metrics
	loginLimiter *middleware.RateLimiter
	views        *renderer

	// SingleFlight group so concurrent homepage loads share one listing query
	listingGroup singleflight.Group

	backupMu sync.Mutex
}

func New(d Deps) (*Handler, error) {
	if d.Config == nil || d.DB == nil || d.Repo == nil || d.Uploads == nil || d.Sessions == nil || d.Metrics == nil {
		return nil, errors.New("handlers: missing dependency")
	}
	if d.LoginLimiter == nil {
		d.LoginLimiter = middleware.NewRateLimiter(config.RateLimitConfig{Enabled: false}, false)
	}

	h := &Handler{
		cfg:          d.Config,
		db:           d.DB,
		repo:         d.Repo,
		uploads:      d.Uploads,
		sessions:     d.Sessions,
		metrics:      d.Metrics,
		loginLimiter: d.LoginLimiter,
	}

	views, err := newRenderer(h.templateFuncs())
	if err != nil {
		return nil, err
	}
	h.views = views
	return h, nil
}

// Routes registers every page on a fresh mux.
func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	gate := h.sessions.RequireAuth

	// Public
	mux.HandleFunc("GET /{$}", h.Home)
	mux.HandleFunc("GET /blog/{id}", h.BlogDetail)
	mux.HandleFunc("GET /login", h.LoginPage)
	mux.HandleFunc("POST /login", h.Login)
	mux.Handle("GET /uploads/{file...}", h.Uploads())

	// Admin
	mux.HandleFunc("GET /logout", gate(h.Logout))
	mux.HandleFunc("GET /admin", gate(h.Dashboard))
	mux.HandleFunc("GET /admin/backup", gate(h.Backup))
	mux.HandleFunc("POST /admin/{kind}/add", gate(h.AddRecord))
	mux.HandleFunc("POST /admin/{kind}/delete/{id}", gate(h.DeleteRecord))
	mux.HandleFunc("POST /delete/{kind}/{id}", gate(h.DeleteRecord))

	// Older form actions post to /add_<kind>.
	for _, k := range content.Kinds() {
		mux.HandleFunc("POST /add_"+string(k), gate(withKind(k, h.AddRecord)))
	}

	if h.cfg.Metrics.Enabled {
		mux.Handle("GET "+h.cfg.Metrics.Path, h.metrics.Handler())
	}

	mux.HandleFunc("/", h.NotFound)
	return mux
}

// Handler wraps Routes with the session and metrics middleware.
func (h *Handler) Handler() http.Handler {
	return h.sessions.Middleware(h.metrics.Middleware(h.Routes()))
}

func withKind(k content.Kind, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.SetPathValue("kind", string(k))
		next(w, r)
	}
}
