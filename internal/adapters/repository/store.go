// Package repository defines the request journal interface and errors.
package repository

import (
	"context"

	"github.com/okian/mimic/internal/domain/model"
)

// Store provides append/read access to the request journal.
type Store interface {
	// Append adds a record to the journal, evicting the oldest record
	// once the configured capacity is reached.
	Append(ctx context.Context, rec model.RequestRecord) error

	// Recent returns up to n records, newest first.
	// Returns ErrInvalidLimit if n < 1.
	Recent(ctx context.Context, n int) ([]model.RequestRecord, error)

	// Count returns the number of records currently retained.
	Count(ctx context.Context) int

	// CountByRoute returns request totals keyed by "METHOD route".
	// Totals survive ring eviction.
	CountByRoute(ctx context.Context) map[string]int

	// Replays returns the total number of records flagged as repeats.
	Replays(ctx context.Context) int

	// Capacity returns the configured ring capacity.
	Capacity() int
}
