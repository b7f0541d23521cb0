// Package upload validates and stores the images attached to records.
package upload

import (
	"errors"
	"path/filepath"
	"strings"
)

var ErrInvalidFileType = errors.New("invalid file type")

// Validator accepts a filename when its lowercase extension is in the allow-list.
// The extension is the only gate: file contents are not inspected.
type Validator struct {
	allowed map[string]struct{}
}

// NewValidator builds a validator from extensions given without the dot, e.g. "png".
func NewValidator(extensions []string) *Validator {
	v := &Validator{allowed: make(map[string]struct{}, len(extensions))}
	for _, ext := range extensions {
		ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
		if ext != "" {
			v.allowed[ext] = struct{}{}
		}
	}
	return v
}

// Extension returns the lowercase substring after the last '.', or "" when there is none.
func Extension(filename string) string {
	i := strings.LastIndexByte(filename, '.')
	if i < 0 {
		return ""
	}
	return strings.ToLower(filename[i+1:])
}

func (v *Validator) Allowed(filename string) bool {
	if !strings.Contains(filename, ".") {
		return false
	}
	_, ok := v.allowed[Extension(filename)]
	return ok
}

// thumbnailName maps a stored name to its preview path relative to the upload dir.
func thumbnailName(stored string) string {
	stem := strings.TrimSuffix(stored, filepath.Ext(stored))
	return filepath.Join(ThumbDir, stem+".jpg")
}
