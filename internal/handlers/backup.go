package handlers

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"clubsite/internal/database"
	"clubsite/pkg/logger"
	"clubsite/pkg/utils"
)

// Backup streams a point-in-time snapshot of the SQLite database.
func (h *Handler) Backup(w http.ResponseWriter, r *http.Request) {
	// Ensure only one backup runs at a time to prevent resource exhaustion.
	if !h.backupMu.TryLock() {
		utils.WriteError(w, http.StatusTooManyRequests, utils.ErrBackupConcurrencyLimit, "Another backup is currently in progress.")
		return
	}
	defer h.backupMu.Unlock()

	ctx, cancel := context.WithTimeout(r.Context(), 60*time.Second)
	defer cancel()

	path, err := database.Snapshot(ctx, h.db, os.TempDir())
	if err != nil {
		logger.LogError("Backup failed: %v", err)
		utils.WriteError(w, http.StatusInternalServerError, utils.ErrServerInternal, "Internal database snapshot failed.")
		return
	}
	defer func() {
		if err := os.Remove(path); err != nil {
			logger.LogWarn("Backup temp file %s not removed: %v", path, err)
		}
	}()

	info, err := os.Stat(path)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, utils.ErrServerInternal, "Failed to verify backup integrity.")
		return
	}

	filename := filepath.Base(path)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.Header().Set("Content-Type", "application/x-sqlite3")
	w.Header().Set("Content-Length", fmt.Sprintf("%d", info.Size()))
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, private")

	logger.LogInfo("Backup %s sent (%s)", filename, utils.FormatBytes(info.Size()))
	http.ServeFile(w, r, path)
}
