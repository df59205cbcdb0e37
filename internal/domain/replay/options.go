package replay

// Option applies a configuration option to the in-memory detector.
type Option func(*inMemoryDetector)

// WithMaxSize sets the maximum number of fingerprints to keep in memory.
// If maxSize > 0: bounded mode with FIFO eviction.
// If maxSize <= 0: unbounded mode (no eviction, no size limit).
func WithMaxSize(maxSize int) Option {
	return func(d *inMemoryDetector) {
		d.maxSize = maxSize
	}
}
