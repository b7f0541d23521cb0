package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"clubsite/internal/appinfo"
	"clubsite/internal/content"
	"clubsite/internal/database"
	"clubsite/internal/session"
	"clubsite/internal/upload"
	"clubsite/pkg/logger"
	"clubsite/pkg/utils"
)

// formValues holds trimmed text fields keyed by field name without the kind prefix.
type formValues map[string]string

// addForm describes one kind's add form. Fields are posted as "<kind>-<field>".
type addForm struct {
	required []string
	optional []string

	// file is the upload field name, empty when the kind takes no file.
	file         string
	fileRequired bool

	success string
	build   func(v formValues, stored *upload.Stored) content.Record
}

var addForms = map[content.Kind]addForm{
	content.KindUpdate: {
		required: []string{"title", "description"},
		optional: []string{"date"},
		file:     "image",
		success:  "New update has been added successfully!",
		build: func(v formValues, stored *upload.Stored) content.Record {
			u := &database.Update{Title: v["title"], Description: v["description"], Date: v["date"]}
			u.ImageFile, u.ImageOriginal = storedRefs(stored)
			return u
		},
	},
	content.KindClub: {
		required: []string{"name", "description"},
		file:     "image",
		success:  "New club has been added successfully!",
		build: func(v formValues, stored *upload.Stored) content.Record {
			c := &database.Club{Name: v["name"], Description: v["description"]}
			c.ImageFile, c.ImageOriginal = storedRefs(stored)
			return c
		},
	},
	content.KindBlog: {
		required: []string{"title", "content"},
		file:     "image",
		success:  "New blog post has been published!",
		build: func(v formValues, stored *upload.Stored) content.Record {
			p := &database.BlogPost{Title: v["title"], Content: v["content"]}
			p.ImageFile, p.ImageOriginal = storedRefs(stored)
			return p
		},
	},
	content.KindGallery: {
		optional:     []string{"caption"},
		file:         "image",
		fileRequired: true,
		success:      "New gallery image has been added!",
		build: func(v formValues, stored *upload.Stored) content.Record {
			return &database.GalleryImage{
				Filename:         stored.Name,
				OriginalFilename: stored.Original,
				Caption:          v["caption"],
			}
		},
	},
	content.KindEvent: {
		required: []string{"title", "description"},
		optional: []string{"date", "location"},
		success:  "New event has been added successfully!",
		build: func(v formValues, _ *upload.Stored) content.Record {
			return &database.Event{
				Title:       v["title"],
				Description: v["description"],
				Date:        v["date"],
				Location:    v["location"],
			}
		},
	},
}

func storedRefs(stored *upload.Stored) (name, original *string) {
	if stored == nil {
		return nil, nil
	}
	n, o := stored.Name, stored.Original
	return &n, &o
}

// Dashboard lists every record with its delete control and the add forms.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	listing, err := h.repo.LoadListing(r.Context())
	if err != nil {
		h.ServerError(w, r, "load dashboard", err)
		return
	}

	accept := make([]string, len(h.cfg.Upload.AllowedExtensions))
	for i, ext := range h.cfg.Upload.AllowedExtensions {
		accept[i] = "." + ext
	}

	h.render(w, http.StatusOK, "admin", adminPage{
		basePage: h.base(r, "Dashboard"),
		Listing:  listing,
		Stats: dashboardStats{
			Uptime:      appinfo.Uptime(),
			UploadCount: appinfo.TotalAssetsCount.Load(),
			UploadSize:  utils.FormatBytes(appinfo.TotalAssetsSize.Load()),
			MaxUpload:   utils.FormatBytes(h.cfg.MaxUploadBytes()),
		},
		Accept: strings.Join(accept, ","),
	})
}

// AddRecord creates one record of the kind in the path from its add form.
// Validation failures flash a warning and create nothing.
func (h *Handler) AddRecord(w http.ResponseWriter, r *http.Request) {
	kind, err := content.ParseKind(r.PathValue("kind"))
	if err != nil {
		h.NotFound(w, r)
		return
	}
	form := addForms[kind]

	warn := func(msg string) {
		h.sessions.Flash(w, r, session.FlashWarning, msg)
		http.Redirect(w, r, "/admin", http.StatusSeeOther)
	}

	maxBytes := h.cfg.MaxUploadBytes()
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes+(1<<20))
	if err := r.ParseMultipartForm(maxBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			warn(fmt.Sprintf("Upload rejected: the limit is %s.", utils.FormatBytes(maxBytes)))
			return
		}
		warn("The form could not be read. Please try again.")
		return
	}

	values := formValues{}
	for _, name := range form.required {
		v := strings.TrimSpace(r.PostFormValue(string(kind) + "-" + name))
		if v == "" {
			warn(fmt.Sprintf("Please fill in the %s field.", name))
			return
		}
		values[name] = v
	}
	for _, name := range form.optional {
		values[name] = strings.TrimSpace(r.PostFormValue(string(kind) + "-" + name))
	}

	var stored *upload.Stored
	if form.file != "" {
		fh, err := formFile(r, string(kind)+"-"+form.file)
		switch {
		case errors.Is(err, errNoFile):
			if form.fileRequired {
				warn("Please choose an image to upload.")
				return
			}
		case err != nil:
			logger.LogError("Reading %s upload failed: %v", kind, err)
			warn("The uploaded file could not be read.")
			return
		default:
			s, err := h.uploads.Save(fh)
			if errors.Is(err, upload.ErrInvalidFileType) {
				warn("Invalid file type. Allowed types: " + strings.Join(h.cfg.Upload.AllowedExtensions, ", ") + ".")
				return
			}
			if err != nil {
				logger.LogError("Storing %s upload failed: %v", kind, err)
				h.sessions.Flash(w, r, session.FlashDanger, "The uploaded file could not be saved.")
				http.Redirect(w, r, "/admin", http.StatusSeeOther)
				return
			}
			stored = &s
		}
	}

	if err := h.CoreCreateRecord(r.Context(), form.build(values, stored), stored); err != nil {
		logger.LogError("Creating %s failed: %v", kind, err)
		h.sessions.Flash(w, r, session.FlashDanger, fmt.Sprintf("The %s could not be saved.", strings.ToLower(kind.Label())))
		http.Redirect(w, r, "/admin", http.StatusSeeOther)
		return
	}

	logger.LogSuccess("%s added", kind.Label())
	h.sessions.Flash(w, r, session.FlashSuccess, form.success)
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

// DeleteRecord removes the record named by kind and id together with its file.
func (h *Handler) DeleteRecord(w http.ResponseWriter, r *http.Request) {
	kind, err := content.ParseKind(r.PathValue("kind"))
	if err != nil {
		h.sessions.Flash(w, r, session.FlashDanger, "Invalid type.")
		http.Redirect(w, r, "/admin", http.StatusSeeOther)
		return
	}

	id, err := utils.ParseID(r.PathValue("id"))
	if err != nil {
		h.NotFound(w, r)
		return
	}

	_, fileErr, err := h.CoreDeleteRecord(r.Context(), kind, id)
	if errors.Is(err, content.ErrNotFound) {
		h.NotFound(w, r)
		return
	}
	if err != nil {
		logger.LogError("Deleting %s %d failed: %v", kind, id, err)
		h.sessions.Flash(w, r, session.FlashDanger, fmt.Sprintf("The %s could not be deleted.", strings.ToLower(kind.Label())))
		http.Redirect(w, r, "/admin", http.StatusSeeOther)
		return
	}

	h.sessions.Flash(w, r, session.FlashSuccess, kind.Label()+" deleted.")
	if fileErr != nil {
		h.sessions.Flash(w, r, session.FlashWarning, "The record was deleted but its image file could not be removed.")
	}
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}
