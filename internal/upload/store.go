package upload

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	_ "golang.org/x/image/webp" // webp decoding for previews

	"clubsite/internal/appinfo"
	"clubsite/internal/config"
	"clubsite/pkg/logger"
	"clubsite/pkg/utils"
)

// ThumbDir is the preview subdirectory inside the upload dir.
const ThumbDir = "thumbs"

// Stored describes an accepted upload.
type Stored struct {
	// Name is the collision-resistant storage name inside the upload dir.
	Name string
	// Original is the sanitized client filename, kept for display only.
	Original string
	Size     int64
}

// Store writes accepted uploads into a single directory.
type Store struct {
	dir        string
	validator  *Validator
	thumbnails bool
	thumbSize  int
}

// NewStore prepares the upload directory described by cfg.
func NewStore(cfg config.UploadConfig) (*Store, error) {
	if err := os.MkdirAll(filepath.Join(cfg.Dir, ThumbDir), 0755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir %s: %w", cfg.Dir, err)
	}
	return &Store{
		dir:        cfg.Dir,
		validator:  NewValidator(cfg.AllowedExtensions),
		thumbnails: cfg.Thumbnails,
		thumbSize:  cfg.ThumbnailSize,
	}, nil
}

func (s *Store) Dir() string { return s.dir }

// issued reports whether name has the shape Put gives stored files:
// a canonical uuid stem and an allowed extension.
func (s *Store) issued(name string) bool {
	return issuedStem(strings.TrimSuffix(name, filepath.Ext(name))) && s.validator.Allowed(name)
}

func issuedStem(stem string) bool {
	if len(stem) != 36 {
		return false
	}
	_, err := uuid.Parse(stem)
	return err == nil
}

// Save stores a multipart upload. See Put.
func (s *Store) Save(fh *multipart.FileHeader) (Stored, error) {
	if !s.validator.Allowed(utils.SanitizeFilename(fh.Filename)) {
		return Stored{}, fmt.Errorf("%w: %q", ErrInvalidFileType, fh.Filename)
	}
	f, err := fh.Open()
	if err != nil {
		return Stored{}, fmt.Errorf("failed to open upload: %w", err)
	}
	defer f.Close()
	return s.Put(fh.Filename, f)
}

// Put validates original by extension and writes r under a fresh uuid name
// carrying the same extension. A preview is rendered best-effort.
func (s *Store) Put(original string, r io.Reader) (Stored, error) {
	clean := utils.SanitizeFilename(original)
	if !s.validator.Allowed(clean) {
		return Stored{}, fmt.Errorf("%w: %q", ErrInvalidFileType, original)
	}

	name := uuid.NewString() + "." + Extension(clean)
	path := filepath.Join(s.dir, name)

	dst, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return Stored{}, fmt.Errorf("failed to create %s: %w", name, err)
	}
	size, err := io.Copy(dst, r)
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
		return Stored{}, fmt.Errorf("failed to write %s: %w", name, err)
	}

	appinfo.AddAsset(size)

	if s.thumbnails {
		if err := s.renderThumbnail(name); err != nil {
			logger.LogWarn("Preview for %s (%s) skipped: %v", name, clean, err)
		}
	}

	return Stored{Name: name, Original: clean, Size: size}, nil
}

func (s *Store) renderThumbnail(name string) error {
	img, err := imaging.Open(filepath.Join(s.dir, name), imaging.AutoOrientation(true))
	if err != nil {
		return err
	}
	thumb := imaging.Fit(img, s.thumbSize, s.thumbSize, imaging.Lanczos)
	return imaging.Save(thumb, filepath.Join(s.dir, thumbnailName(name)), imaging.JPEGQuality(80))
}

// HasThumbnail reports whether a preview exists for the stored name.
func (s *Store) HasThumbnail(name string) bool {
	_, err := os.Stat(filepath.Join(s.dir, thumbnailName(name)))
	return err == nil
}

// ThumbnailPath is the preview location relative to the upload dir, slash separated.
func ThumbnailPath(name string) string {
	return filepath.ToSlash(thumbnailName(name))
}

// Remove deletes a stored file and its preview. A file that is already gone
// is not an error; any other failure is returned.
func (s *Store) Remove(name string) error {
	if name == "" || utils.SanitizeFilename(name) != name {
		return fmt.Errorf("refusing to remove %q outside the upload dir", name)
	}

	path := filepath.Join(s.dir, name)
	var size int64
	if info, err := os.Stat(path); err == nil {
		size = info.Size()
	}

	if err := os.Remove(path); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to remove %s: %w", name, err)
		}
	} else {
		appinfo.RemoveAsset(size)
	}

	if err := os.Remove(filepath.Join(s.dir, thumbnailName(name))); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.LogWarn("Preview for %s not removed: %v", name, err)
	}
	return nil
}

// Stats counts the stored originals (previews excluded) and their total size.
func (s *Store) Stats() (count int64, total int64, err error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, 0, err
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		count++
		total += info.Size()
	}
	return count, total, nil
}
