// Package appinfo holds process-wide counters shown on the admin dashboard.
package appinfo

import (
	"sync/atomic"
	"time"
)

var (
	StartTime = time.Now()

	TotalAssetsCount atomic.Int64
	TotalAssetsSize  atomic.Int64
)

// AddAsset: Called when an upload is written to the upload dir
func AddAsset(size int64) {
	TotalAssetsCount.Add(1)
	TotalAssetsSize.Add(size)
}

// RemoveAsset: Called when a record deletion removes its file
func RemoveAsset(size int64) {
	TotalAssetsCount.Add(-1)
	TotalAssetsSize.Add(-size)
}

// SetInitialStats: Seeds the counters from the upload dir scan at startup.
func SetInitialStats(count, size int64) {
	TotalAssetsCount.Store(count)
	TotalAssetsSize.Store(size)
}

func Uptime() time.Duration {
	return time.Since(StartTime).Truncate(time.Second)
}
