package handlers

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"clubsite/internal/content"
	"clubsite/internal/database"
	"clubsite/internal/session"
	"clubsite/internal/upload"
	"clubsite/pkg/logger"
	"clubsite/web"
)

var pageNames = []string{"index", "blog", "login", "admin", "not_found", "server_error"}

type renderer struct {
	pages map[string]*template.Template
}

func newRenderer(funcs template.FuncMap) (*renderer, error) {
	rd := &renderer{pages: make(map[string]*template.Template, len(pageNames))}
	for _, name := range pageNames {
		t, err := template.New(name).Funcs(funcs).ParseFS(web.Templates,
			"templates/layout.html",
			"templates/"+name+".html",
		)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		rd.pages[name] = t
	}
	return rd, nil
}

// basePage is what the layout needs on every page.
type basePage struct {
	SiteName      string
	Title         string
	Flashes       []session.Flash
	Authenticated bool
}

type homePage struct {
	basePage
	Listing *content.Listing
}

type blogPage struct {
	basePage
	Post    *database.BlogPost
	Related []database.BlogPost
}

type dashboardStats struct {
	Uptime      time.Duration
	UploadCount int64
	UploadSize  string
	MaxUpload   string
}

type adminPage struct {
	basePage
	Listing *content.Listing
	Stats   dashboardStats
	Accept  string
}

// base pops the session's flashes, so build it once per rendered page.
func (h *Handler) base(r *http.Request, title string) basePage {
	return basePage{
		SiteName:      h.cfg.App.Name,
		Title:         title,
		Flashes:       h.sessions.PopFlashes(r),
		Authenticated: h.sessions.IsAuthenticated(r),
	}
}

func (h *Handler) render(w http.ResponseWriter, status int, page string, data interface{}) {
	t, ok := h.views.pages[page]
	if !ok {
		logger.LogError("Unknown template %q", page)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		logger.LogError("Render %s failed: %v", page, err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

// NotFound renders the terminal 404 page.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusNotFound, "not_found", h.base(r, "Not found"))
}

// ServerError logs err and renders the HTML 500 page.
func (h *Handler) ServerError(w http.ResponseWriter, r *http.Request, what string, err error) {
	logger.LogError("%s %s: %s: %v", r.Method, r.URL.Path, what, err)
	h.render(w, http.StatusInternalServerError, "server_error", h.base(r, "Error"))
}

func (h *Handler) templateFuncs() template.FuncMap {
	return template.FuncMap{
		"upload": uploadURL,
		"thumb": func(name string) string {
			if h.uploads.HasThumbnail(name) {
				return uploadURL(upload.ThumbnailPath(name))
			}
			return uploadURL(name)
		},
		"date": func(t time.Time) string {
			return t.Format("January 2, 2006")
		},
		"excerpt": func(s string, n int) string {
			runes := []rune(s)
			if len(runes) <= n {
				return s
			}
			return string(runes[:n]) + "…"
		},
		"row": func(kind string, id uint) map[string]interface{} {
			return map[string]interface{}{"Kind": kind, "ID": id}
		},
	}
}

func uploadURL(name string) string {
	return "/uploads/" + name
}
