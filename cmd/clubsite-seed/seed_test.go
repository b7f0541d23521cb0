package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clubsite/internal/config"
	"clubsite/internal/content"
	"clubsite/internal/database"
	"clubsite/internal/upload"
)

func TestSeederRun(t *testing.T) {
	db, err := database.Open(config.DatabaseConfig{Path: database.MemoryPath})
	require.NoError(t, err)
	t.Cleanup(func() { database.Close(db) })

	uploads, err := upload.NewStore(config.UploadConfig{
		Dir:               t.TempDir(),
		AllowedExtensions: []string{"png"},
		ThumbnailSize:     64,
	})
	require.NoError(t, err)

	repo := content.NewRepository(db)
	s := NewSeeder(repo, uploads, 42)
	steps := 0
	s.step = func() { steps++ }

	want := Counts{Updates: 2, Clubs: 3, Posts: 4, Gallery: 2, Events: 1}
	done, err := s.Run(context.Background(), want)
	require.NoError(t, err)
	assert.Equal(t, want, done)
	assert.Equal(t, want.Total(), steps)

	listing, err := repo.LoadListing(context.Background())
	require.NoError(t, err)
	assert.Len(t, listing.Updates, 2)
	assert.Len(t, listing.Clubs, 3)
	assert.Len(t, listing.Posts, 4)
	assert.Len(t, listing.Events, 1)
	require.Len(t, listing.Gallery, 2)

	for _, g := range listing.Gallery {
		_, err := os.Stat(filepath.Join(uploads.Dir(), g.Filename))
		assert.NoError(t, err)
		assert.NotEmpty(t, g.Caption)
	}
}
