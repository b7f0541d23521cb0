package main

import (
	"context"
	"time"

	"gorm.io/gorm"

	"clubsite/internal/database"
	"clubsite/internal/upload"
	"clubsite/pkg/logger"
	"clubsite/pkg/utils"
)

// startCleaner sweeps unreferenced uploads every interval until ctx ends.
func startCleaner(ctx context.Context, db *gorm.DB, uploads *upload.Store, interval, grace time.Duration) {
	logger.LogInfo("Upload cleaner started. Interval: %s, Grace: %s", interval, grace)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Run immediately to clear leftovers from a previous run.
	cleanOnce(ctx, db, uploads, grace)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			cleanOnce(ctx, db, uploads, grace)
		}
	}
}

func cleanOnce(ctx context.Context, db *gorm.DB, uploads *upload.Store, grace time.Duration) {
	refs, err := database.ReferencedFiles(ctx, db)
	if err != nil {
		logger.LogError("Cleaner failed to read references: %v", err)
		return
	}

	removed, freed, err := uploads.Sweep(refs, grace)
	if err != nil {
		logger.LogError("Cleaner failed to sweep %s: %v", uploads.Dir(), err)
		return
	}
	if removed > 0 {
		logger.LogInfo("Cleaner removed %d orphaned uploads (%s freed)", removed, utils.FormatBytes(freed))
	}

	if _, err := database.VacuumIfBloated(ctx, db); err != nil {
		logger.LogError("%v", err)
	}
}
