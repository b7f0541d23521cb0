package upload

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clubsite/internal/config"
)

func newTestStore(t *testing.T, thumbs bool) *Store {
	t.Helper()
	s, err := NewStore(config.UploadConfig{
		Dir:               t.TempDir(),
		AllowedExtensions: []string{"png", "jpg", "jpeg", "gif", "webp"},
		Thumbnails:        thumbs,
		ThumbnailSize:     32,
	})
	require.NoError(t, err)
	return s
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 64, 48))
	for x := 0; x < 64; x++ {
		for y := 0; y < 48; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 4), G: uint8(y * 5), B: 120, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestValidatorAllowed(t *testing.T) {
	v := NewValidator([]string{"png", "jpg", "jpeg", "gif", "webp"})

	tests := map[string]bool{
		"photo.png":       true,
		"photo.JPG":       true,
		"archive.tar.gif": true,
		"x.webp":          true,
		"photo.EXE":       false,
		"photo":           false,
		"png":             false,
		"photo.":          false,
		".png":            true,
		"photo.png.exe":   false,
		"":                false,
	}

	for name, want := range tests {
		assert.Equal(t, want, v.Allowed(name), name)
	}
}

func TestNewValidatorNormalizes(t *testing.T) {
	v := NewValidator([]string{".PNG", " jpg ", ""})
	assert.True(t, v.Allowed("a.png"))
	assert.True(t, v.Allowed("a.Jpg"))
	assert.False(t, v.Allowed("a.gif"))
}

func TestPutStoresUnderFreshName(t *testing.T) {
	s := newTestStore(t, false)
	data := []byte("not really an image")

	first, err := s.Put("../../team photo.PNG", bytes.NewReader(data))
	require.NoError(t, err)
	second, err := s.Put("team photo.png", bytes.NewReader(data))
	require.NoError(t, err)

	assert.NotEqual(t, first.Name, second.Name)
	assert.True(t, strings.HasSuffix(first.Name, ".png"))
	assert.Equal(t, "team photo.PNG", first.Original)
	assert.Equal(t, int64(len(data)), first.Size)

	got, err := os.ReadFile(filepath.Join(s.Dir(), first.Name))
	require.NoError(t, err)
	assert.Equal(t, data, got)
}

func TestPutRejectsDisallowedExtension(t *testing.T) {
	s := newTestStore(t, false)

	for _, name := range []string{"photo.EXE", "photo", "notes.txt"} {
		_, err := s.Put(name, strings.NewReader("x"))
		assert.ErrorIs(t, err, ErrInvalidFileType, name)
	}

	count, _, err := s.Stats()
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestPutRendersThumbnail(t *testing.T) {
	s := newTestStore(t, true)

	stored, err := s.Put("sunset.png", bytes.NewReader(pngBytes(t)))
	require.NoError(t, err)
	assert.True(t, s.HasThumbnail(stored.Name))
	assert.Equal(t, "thumbs/"+strings.TrimSuffix(stored.Name, ".png")+".jpg", ThumbnailPath(stored.Name))

	require.NoError(t, s.Remove(stored.Name))
	assert.False(t, s.HasThumbnail(stored.Name))
	_, err = os.Stat(filepath.Join(s.Dir(), stored.Name))
	assert.True(t, os.IsNotExist(err))
}

func TestPutUndecodableImageSkipsThumbnail(t *testing.T) {
	s := newTestStore(t, true)

	stored, err := s.Put("broken.jpg", strings.NewReader("garbage"))
	require.NoError(t, err)
	assert.False(t, s.HasThumbnail(stored.Name))
}

func TestRemoveMissingFile(t *testing.T) {
	s := newTestStore(t, false)

	assert.NoError(t, s.Remove("already-gone.png"))
	assert.Error(t, s.Remove("../outside.png"))
	assert.Error(t, s.Remove(""))
}

func TestStats(t *testing.T) {
	s := newTestStore(t, true)

	_, err := s.Put("a.png", bytes.NewReader(pngBytes(t)))
	require.NoError(t, err)
	_, err = s.Put("b.gif", strings.NewReader("gif-ish"))
	require.NoError(t, err)

	count, total, err := s.Stats()
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
	assert.Positive(t, total)
}

func TestSweepRemovesUnreferenced(t *testing.T) {
	s := newTestStore(t, true)

	kept, err := s.Put("kept.png", bytes.NewReader(pngBytes(t)))
	require.NoError(t, err)
	orphan, err := s.Put("orphan.png", bytes.NewReader(pngBytes(t)))
	require.NoError(t, err)
	fresh, err := s.Put("fresh.gif", strings.NewReader("gif"))
	require.NoError(t, err)

	old := time.Now().Add(-time.Hour)
	for _, name := range []string{kept.Name, orphan.Name, ThumbnailPath(kept.Name), ThumbnailPath(orphan.Name)} {
		require.NoError(t, os.Chtimes(filepath.Join(s.Dir(), name), old, old))
	}

	removed, freed, err := s.Sweep(map[string]struct{}{kept.Name: {}}, 10*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	assert.Equal(t, orphan.Size, freed)

	_, err = os.Stat(filepath.Join(s.Dir(), orphan.Name))
	assert.True(t, os.IsNotExist(err))
	assert.False(t, s.HasThumbnail(orphan.Name))

	assert.True(t, s.HasThumbnail(kept.Name))
	_, err = os.Stat(filepath.Join(s.Dir(), fresh.Name))
	assert.NoError(t, err, "files inside the grace period stay")
}

func TestSweepKeepsForeignFiles(t *testing.T) {
	s := newTestStore(t, false)

	foreign := []string{
		"logo.png",
		"background.jpg",
		strings.ToUpper(uuid.NewString()) + "x.png",
		filepath.Join(ThumbDir, "banner.jpg"),
	}
	old := time.Now().Add(-time.Hour)
	for _, name := range foreign {
		path := filepath.Join(s.Dir(), name)
		require.NoError(t, os.WriteFile(path, []byte("asset"), 0o644))
		require.NoError(t, os.Chtimes(path, old, old))
	}

	removed, freed, err := s.Sweep(map[string]struct{}{}, 10*time.Minute)
	require.NoError(t, err)
	assert.Zero(t, removed)
	assert.Zero(t, freed)
	for _, name := range foreign {
		_, err := os.Stat(filepath.Join(s.Dir(), name))
		assert.NoError(t, err, name)
	}
}
