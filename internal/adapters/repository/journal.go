package repository

import (
	"context"
	"sync"

	"github.com/okian/mimic/internal/domain/model"
	"github.com/okian/mimic/pkg/metrics"
)

// Default journal configuration constants.
const (
	defaultCapacity = 4096
)

// RingJournal implements Store with a fixed-size ring buffer.
// Writes are O(1); Recent copies out at most n records under the lock.
type RingJournal struct {
	mu       sync.RWMutex
	ring     []model.RequestRecord
	next     int
	size     int
	capacity int

	// Totals are cumulative; they are not decremented on eviction.
	byRoute map[string]int
	replays int
}

// NewRingJournal creates a new ring journal with configuration options.
func NewRingJournal(ctx context.Context, opts ...Option) *RingJournal {
	j := &RingJournal{
		capacity: defaultCapacity,
	}

	// Apply all options
	for _, opt := range opts {
		opt(j)
	}

	j.ring = make([]model.RequestRecord, j.capacity)
	j.byRoute = make(map[string]int)

	metrics.UpdateJournalCapacity(j.capacity)
	metrics.UpdateJournalSize(0)

	return j
}

// Append adds a record to the journal.
func (j *RingJournal) Append(ctx context.Context, rec model.RequestRecord) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.ring[j.next] = rec
	j.next = (j.next + 1) % j.capacity
	if j.size < j.capacity {
		j.size++
	}

	j.byRoute[rec.Method+" "+rec.Route]++
	if rec.Repeat {
		j.replays++
	}

	metrics.UpdateJournalSize(j.size)
	return nil
}

// Recent returns up to n records, newest first.
func (j *RingJournal) Recent(ctx context.Context, n int) ([]model.RequestRecord, error) {
	if n < 1 {
		return nil, ErrInvalidLimit
	}

	j.mu.RLock()
	defer j.mu.RUnlock()

	if n > j.size {
		n = j.size
	}
	out := make([]model.RequestRecord, n)
	for i := 0; i < n; i++ {
		// next-1 is the newest record, walking backwards through the ring.
		idx := (j.next - 1 - i + j.capacity*2) % j.capacity
		out[i] = j.ring[idx]
	}
	return out, nil
}

// Count returns the number of records currently retained.
func (j *RingJournal) Count(ctx context.Context) int {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.size
}

// CountByRoute returns cumulative request totals keyed by "METHOD route".
func (j *RingJournal) CountByRoute(ctx context.Context) map[string]int {
	j.mu.RLock()
	defer j.mu.RUnlock()

	out := make(map[string]int, len(j.byRoute))
	for k, v := range j.byRoute {
		out[k] = v
	}
	return out
}

// Replays returns the cumulative number of records flagged as repeats.
func (j *RingJournal) Replays(ctx context.Context) int {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.replays
}

// Capacity returns the configured ring capacity.
func (j *RingJournal) Capacity() int {
	return j.capacity
}
