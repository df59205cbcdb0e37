package repository

// Option applies a configuration option to the RingJournal.
type Option func(*RingJournal)

// WithCapacity sets the maximum number of records the journal retains.
func WithCapacity(capacity int) Option {
	return func(j *RingJournal) {
		if capacity > 0 {
			j.capacity = capacity
		}
	}
}
