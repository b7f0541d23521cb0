package database

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gorm.io/gorm"
)

// Snapshot writes a consistent copy of the live database into dir using
// VACUUM INTO and returns the file path. The caller owns the file.
func Snapshot(ctx context.Context, db *gorm.DB, dir string) (string, error) {
	timestamp := time.Now().Format("2006-01-02_15-04-05.000")
	path := filepath.Join(dir, fmt.Sprintf("clubsite_backup_%s.db", timestamp))

	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("snapshot target already exists: %s", path)
	}

	// VACUUM INTO does not accept bound parameters.
	quoted := strings.ReplaceAll(path, "'", "''")
	if err := db.WithContext(ctx).Exec(fmt.Sprintf("VACUUM INTO '%s'", quoted)).Error; err != nil {
		return "", fmt.Errorf("database snapshot failed: %w", err)
	}
	return path, nil
}
