package ingestion

import (
	"sync"
	"time"
)

// Stats tracks ingest outcomes across both transports.
type Stats struct {
	EventsAccepted     int64     `json:"events_accepted"`
	EventsRejected     int64     `json:"events_rejected"`
	ValidationFailures int64     `json:"validation_failures"`
	BinsCreated        int64     `json:"bins_created"`
	LastAcceptedAt     time.Time `json:"last_accepted_at"`
}

// StatsTracker is a goroutine-safe wrapper around Stats.
type StatsTracker struct {
	mu    sync.RWMutex
	stats Stats
}

func NewStatsTracker() *StatsTracker {
	return &StatsTracker{}
}

// Update applies a mutation under the lock.
func (t *StatsTracker) Update(fn func(*Stats)) {
	if fn == nil {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	fn(&t.stats)
}

// Snapshot returns a copy of the current stats.
func (t *StatsTracker) Snapshot() Stats {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.stats
}
