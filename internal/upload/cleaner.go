package upload

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"clubsite/internal/appinfo"
)

// Sweep removes stored originals that are not in referenced and are older
// than grace, together with their previews. Previews whose original is gone
// are removed as well. Only names the store issued are touched, so other
// files sharing the directory survive.
func (s *Store) Sweep(referenced map[string]struct{}, grace time.Duration) (removed int, freed int64, err error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, 0, err
	}
	cutoff := time.Now().Add(-grace)
	live := make(map[string]struct{}, len(entries))

	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !s.issued(name) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if _, ok := referenced[name]; ok || info.ModTime().After(cutoff) {
			live[thumbnailName(name)] = struct{}{}
			continue
		}

		if err := os.Remove(filepath.Join(s.dir, name)); err != nil {
			continue
		}
		appinfo.RemoveAsset(info.Size())
		removed++
		freed += info.Size()
	}

	thumbs, err := os.ReadDir(filepath.Join(s.dir, ThumbDir))
	if err != nil {
		return removed, freed, nil
	}
	for _, e := range thumbs {
		rel := filepath.Join(ThumbDir, e.Name())
		if _, ok := live[rel]; ok || e.IsDir() || !issuedStem(strings.TrimSuffix(e.Name(), ".jpg")) {
			continue
		}
		if info, err := e.Info(); err == nil && info.ModTime().After(cutoff) {
			continue
		}
		os.Remove(filepath.Join(s.dir, rel))
	}
	return removed, freed, nil
}
