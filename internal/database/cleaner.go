package database

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"clubsite/pkg/logger"
)

/*
Upload maintenance
==================

A file is written to the upload dir before its row is inserted. When the insert
fails, or a delete could not remove the file, the file stays behind with nothing
pointing at it. The cleaner compares the upload dir against ReferencedFiles and
removes what is left over, skipping anything younger than a grace period so an
upload whose row is still being written is never touched.

After a sweep the database is vacuumed only when the freelist is larger than half
of the file, so routine deletes keep their pages for reuse.
*/

// ReferencedFiles returns every upload name that some row points at.
func ReferencedFiles(ctx context.Context, db *gorm.DB) (map[string]struct{}, error) {
	refs := make(map[string]struct{})
	tx := db.WithContext(ctx)

	sources := []struct {
		model  interface{}
		column string
	}{
		{&Update{}, "image_file"},
		{&Club{}, "image_file"},
		{&BlogPost{}, "image_file"},
		{&GalleryImage{}, "filename"},
	}

	for _, src := range sources {
		var names []string
		if err := tx.Model(src.model).Where(src.column+" IS NOT NULL AND "+src.column+" <> ''").Pluck(src.column, &names).Error; err != nil {
			return nil, fmt.Errorf("failed to collect %s references: %w", src.column, err)
		}
		for _, n := range names {
			refs[n] = struct{}{}
		}
	}
	return refs, nil
}

// VacuumIfBloated rebuilds the database file when more than half of its pages are free.
func VacuumIfBloated(ctx context.Context, db *gorm.DB) (bool, error) {
	var pages, free int64
	tx := db.WithContext(ctx)
	if err := tx.Raw("PRAGMA page_count").Scan(&pages).Error; err != nil {
		return false, err
	}
	if err := tx.Raw("PRAGMA freelist_count").Scan(&free).Error; err != nil {
		return false, err
	}
	if pages == 0 || float64(free) <= float64(pages)*0.50 {
		return false, nil
	}

	logger.LogWarn("DB is bloated (%d of %d pages free). Starting VACUUM...", free, pages)

	// Commit WAL to the main file before vacuuming.
	tx.Exec("PRAGMA wal_checkpoint(TRUNCATE);")

	start := time.Now()
	if err := tx.Exec("VACUUM;").Error; err != nil {
		return false, fmt.Errorf("vacuum failed: %w", err)
	}
	logger.LogInfo("VACUUM completed in %v.", time.Since(start))
	return true, nil
}
