package database

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"clubsite/internal/config"
)

func openTestDB(t *testing.T, path string) *gorm.DB {
	t.Helper()
	db, err := Open(config.DatabaseConfig{Path: path})
	require.NoError(t, err)
	t.Cleanup(func() { Close(db) })
	return db
}

func TestOpenCreatesSchema(t *testing.T) {
	db := openTestDB(t, MemoryPath)

	for _, m := range Models() {
		assert.True(t, db.Migrator().HasTable(m), "%T table missing", m)
	}
}

func TestIdentityKeysAreNeverReused(t *testing.T) {
	db := openTestDB(t, MemoryPath)

	first := Event{Title: "Open day", Description: "Tours"}
	require.NoError(t, db.Create(&first).Error)
	require.NoError(t, db.Delete(&Event{}, first.ID).Error)

	second := Event{Title: "Fair", Description: "Stalls"}
	require.NoError(t, db.Create(&second).Error)

	assert.Greater(t, second.ID, first.ID)
}

func TestBlogPostDefaultsDatePosted(t *testing.T) {
	db := openTestDB(t, MemoryPath)

	before := time.Now().UTC().Add(-time.Second)
	post := BlogPost{Title: "Hello", Content: "First post"}
	require.NoError(t, db.Create(&post).Error)

	var stored BlogPost
	require.NoError(t, db.First(&stored, post.ID).Error)
	assert.False(t, stored.DatePosted.IsZero())
	assert.True(t, stored.DatePosted.After(before))

	fixed := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	dated := BlogPost{Title: "Old", Content: "Imported", DatePosted: fixed}
	require.NoError(t, db.Create(&dated).Error)
	assert.True(t, dated.DatePosted.Equal(fixed))
}

func TestSnapshot(t *testing.T) {
	dir := t.TempDir()
	db := openTestDB(t, filepath.Join(dir, "data", "site.db"))
	require.NoError(t, db.Create(&Club{Name: "Chess Club", Description: "Weekly meetups"}).Error)

	path, err := Snapshot(context.Background(), db, dir)
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())

	copyDB := openTestDB(t, path)
	var clubs []Club
	require.NoError(t, copyDB.Find(&clubs).Error)
	require.Len(t, clubs, 1)
	assert.Equal(t, "Chess Club", clubs[0].Name)
}

func TestReferencedFiles(t *testing.T) {
	db := openTestDB(t, MemoryPath)
	name := "club.png"
	empty := ""

	require.NoError(t, db.Create(&Club{Name: "Art", Description: "d", ImageFile: &name}).Error)
	require.NoError(t, db.Create(&Update{Title: "t", Description: "d", ImageFile: &empty}).Error)
	require.NoError(t, db.Create(&BlogPost{Title: "t", Content: "c"}).Error)
	require.NoError(t, db.Create(&GalleryImage{Filename: "g.jpg"}).Error)
	require.NoError(t, db.Create(&Event{Title: "e", Description: "d"}).Error)

	refs, err := ReferencedFiles(context.Background(), db)
	require.NoError(t, err)
	assert.Equal(t, map[string]struct{}{"club.png": {}, "g.jpg": {}}, refs)
}

func TestVacuumIfBloatedLeavesDenseFile(t *testing.T) {
	db := openTestDB(t, filepath.Join(t.TempDir(), "site.db"))
	require.NoError(t, db.Create(&Event{Title: "e", Description: "d"}).Error)

	vacuumed, err := VacuumIfBloated(context.Background(), db)
	require.NoError(t, err)
	assert.False(t, vacuumed)
}
