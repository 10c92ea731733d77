package engine

import (
	"sync"
	"time"
)

// Synthetic progress model: neither backend reports real transfer
// telemetry, so while an upload is in flight the entry's progress
// advances by a fixed step on a fixed interval, holding below the
// ceiling until the provider call resolves and the terminal transition
// snaps it to 100 or 0.
const (
	DefaultTickInterval = 500 * time.Millisecond
	ProgressStep        = 10
	ProgressCeiling     = 90
)

// startEstimator begins ticking progress for the entry and returns a
// stop function. Stop is idempotent and must be called on every exit
// path of the upload; a tick that loses the race with stop is still
// harmless because advanceProgress refuses to touch non-Uploading
// entries.
func startEstimator(reg *Registry, entryID string, interval time.Duration) (stop func()) {
	done := make(chan struct{})
	var once sync.Once

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				reg.advanceProgress(entryID, ProgressStep, ProgressCeiling)
			}
		}
	}()

	return func() {
		once.Do(func() {
			close(done)
		})
	}
}
