// Package replay tracks fingerprints of write requests so repeated
// identical submissions can be flagged in the journal and stats.
//
// Detection never changes a response. The echo endpoints are deterministic,
// so an identical request always yields an identical response; the detector
// only makes that visible to callers inspecting /history and /stats.
package replay

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"sync/atomic"
)

// Detector records request fingerprints to surface idempotent replays.
type Detector interface {
	// SeenAndRecord atomically checks if fp was seen and records it if not.
	// Returns true if fp was already seen, false if it was newly recorded.
	SeenAndRecord(ctx context.Context, fp string) bool

	Size() int64
}

// Fingerprint derives a stable identity for a write request from its
// method, path and raw body.
func Fingerprint(method, path string, body []byte) string {
	h := sha256.New()
	h.Write([]byte(method))
	h.Write([]byte{0})
	h.Write([]byte(path))
	h.Write([]byte{0})
	h.Write(body)
	return hex.EncodeToString(h.Sum(nil))
}

// inMemoryDetector implements Detector with a bounded map and a ring of
// insertion order for FIFO eviction. maxSize <= 0 means unbounded.
type inMemoryDetector struct {
	mu      sync.Mutex
	seen    map[string]struct{}
	ring    []string
	next    int
	maxSize int
	size    atomic.Int64
}

// NewInMemoryDetector creates a new in-memory detector with configuration options.
func NewInMemoryDetector(opts ...Option) Detector {
	d := &inMemoryDetector{
		maxSize: 50_000, // default max size
	}

	// Apply all options
	for _, opt := range opts {
		opt(d)
	}

	d.seen = make(map[string]struct{})
	if d.maxSize > 0 {
		d.ring = make([]string, d.maxSize)
	}

	return d
}

// SeenAndRecord atomically checks if fp was seen and records it if not.
func (d *inMemoryDetector) SeenAndRecord(ctx context.Context, fp string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.seen[fp]; exists {
		return true
	}

	if d.maxSize > 0 {
		// Evict the oldest fingerprint once the ring wraps.
		if old := d.ring[d.next]; old != "" {
			delete(d.seen, old)
			d.size.Add(-1)
		}
		d.ring[d.next] = fp
		d.next = (d.next + 1) % d.maxSize
	}

	d.seen[fp] = struct{}{}
	d.size.Add(1)
	return false
}

// Size returns the current number of tracked fingerprints.
func (d *inMemoryDetector) Size() int64 {
	return d.size.Load()
}
