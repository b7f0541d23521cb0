package handlers

import (
	"context"
	"errors"
	"fmt"

	"clubsite/internal/content"
	"clubsite/internal/upload"
	"clubsite/pkg/logger"
)

const (
	// MaxConcurrentDBOps limits the number of active SQLite write transactions.
	// SQLite allows only one writer at a time, so queueing in Go memory beats
	// waiting on the file lock.
	MaxConcurrentDBOps = 10
)

// dbGuard acts as a semaphore to limit concurrent database writes.
var dbGuard = make(chan struct{}, MaxConcurrentDBOps)

func acquire(ctx context.Context) error {
	select {
	case dbGuard <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func release() { <-dbGuard }

// CoreCreateRecord inserts rec. A file already stored for it is removed again
// when the insert fails so no orphan is left behind.
func (h *Handler) CoreCreateRecord(ctx context.Context, rec content.Record, stored *upload.Stored) error {
	if err := acquire(ctx); err != nil {
		return err
	}
	defer release()

	if err := h.repo.Create(ctx, rec); err != nil {
		if stored != nil {
			if rmErr := h.uploads.Remove(stored.Name); rmErr != nil {
				logger.LogWarn("Orphaned upload %s: %v", stored.Name, rmErr)
			}
		}
		return err
	}

	if kind, err := content.KindOf(rec); err == nil {
		h.metrics.RecordCreated(string(kind))
	}
	return nil
}

// CoreDeleteRecord deletes the row, then best-effort removes the files it
// referenced. The row is gone whenever err is nil; fileErr reports files that
// could not be removed for a reason other than already being absent.
func (h *Handler) CoreDeleteRecord(ctx context.Context, kind content.Kind, id uint) (deleted content.Deleted, fileErr error, err error) {
	if err := acquire(ctx); err != nil {
		return content.Deleted{}, nil, err
	}
	deleted, err = h.repo.Delete(ctx, kind, id)
	release()
	if err != nil {
		return content.Deleted{}, nil, err
	}

	h.metrics.RecordDeleted(string(kind))

	var errs []error
	for _, name := range deleted.Files {
		if rmErr := h.uploads.Remove(name); rmErr != nil {
			logger.LogWarn("Deleted %s %d but kept file: %v", kind, id, rmErr)
			errs = append(errs, rmErr)
		}
	}
	if len(errs) > 0 {
		fileErr = fmt.Errorf("file cleanup: %w", errors.Join(errs...))
	}
	return deleted, fileErr, nil
}
