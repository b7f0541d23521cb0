package handlers

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strings"

	"clubsite/internal/upload"
)

// errNoFile means the optional file field was left empty.
var errNoFile = errors.New("no file submitted")

// formFile returns the non-empty upload in field, or errNoFile.
func formFile(r *http.Request, field string) (*multipart.FileHeader, error) {
	f, fh, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, errNoFile
	}
	if err != nil {
		return nil, err
	}
	f.Close()
	if fh.Filename == "" && fh.Size == 0 {
		return nil, errNoFile
	}
	return fh, nil
}

// Uploads serves the upload directory. Directory listings are not exposed.
func (h *Handler) Uploads() http.Handler {
	files := http.StripPrefix("/uploads/", http.FileServer(http.Dir(h.uploads.Dir())))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := r.PathValue("file")
		if name == "" || strings.HasSuffix(name, "/") || name == upload.ThumbDir {
			h.NotFound(w, r)
			return
		}
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("Cache-Control", "public, max-age=86400")
		files.ServeHTTP(w, r)
	})
}
