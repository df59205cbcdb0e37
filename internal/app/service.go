// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"runtime"
	"sync"

	"github.com/google/uuid"

	auditqueue "github.com/okian/mimic/internal/adapters/mq/queue"
	workerpool "github.com/okian/mimic/internal/adapters/mq/worker"
	repository "github.com/okian/mimic/internal/adapters/repository"
	"github.com/okian/mimic/internal/domain/model"
	"github.com/okian/mimic/internal/domain/replay"
	"github.com/okian/mimic/pkg/logger"
	"github.com/okian/mimic/pkg/metrics"
)

// Service implements the API dependencies for the sample echo API.
//
// The endpoints themselves are stateless; the service owns the supporting
// machinery around them: item id generation, replay detection, and the
// asynchronous audit pipeline feeding the request journal.
type Service struct {
	mu sync.RWMutex

	// Core components
	journal    repository.Store
	detector   replay.Detector
	auditQueue auditqueue.Queue
	workerPool *workerpool.Pool

	// Configuration
	workerCount     int
	queueSize       int
	journalSize     int
	replayCacheSize int

	// State
	started bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of audit worker goroutines.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum size of the audit queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithJournalSize sets the capacity of the request journal ring.
func WithJournalSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.journalSize = size
		}
	}
}

// WithReplayCacheSize sets the size of the replay fingerprint cache.
func WithReplayCacheSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.replayCacheSize = size
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:     runtime.NumCPU() * 2,
		queueSize:       1024,
		journalSize:     4096,
		replayCacheSize: 50_000,
		logger:          nil, // Will be replaced when service starts
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	// Initialize logger if not already set
	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting echo API service...")

	// Initialize components
	s.journal = repository.NewRingJournal(ctx,
		repository.WithCapacity(s.journalSize),
	)
	s.detector = replay.NewInMemoryDetector(
		replay.WithMaxSize(s.replayCacheSize),
	)
	s.auditQueue = auditqueue.NewInMemoryQueue(
		auditqueue.WithCapacity(s.queueSize),
	)

	s.workerPool = workerpool.NewPool(s.workerCount, s.auditQueue, s.journal)
	s.workerPool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "echo API service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("journalSize", s.journalSize),
	)

	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(context.Background(), "stopping echo API service...")

	// Close the queue first so workers drain what is left.
	if q, ok := s.auditQueue.(*auditqueue.InMemoryQueue); ok {
		_ = q.Close()
	}

	if s.workerPool != nil {
		s.workerPool.Stop()
	}

	s.started = false
	s.logger.Info(context.Background(), "echo API service stopped")
}

// NewItemID synthesizes an identifier for a created item.
func (s *Service) NewItemID() string {
	return "item_" + uuid.New().String()
}

// Observe records a handled request in the audit pipeline. fingerprint is
// empty for read requests; for writes it marks identical replays. The
// returned flag reports whether the request was a replay.
//
// Auditing is best effort: on queue backpressure the record is dropped and
// counted, and the client response is unaffected.
func (s *Service) Observe(ctx context.Context, rec model.RequestRecord, fingerprint string) bool {
	repeat := false
	if fingerprint != "" {
		repeat = s.detector.SeenAndRecord(ctx, fingerprint)
		if repeat {
			metrics.RecordReplayDetected()
		}
	}
	rec.Repeat = repeat

	if !s.auditQueue.Enqueue(ctx, rec) {
		metrics.RecordJournalDrop()
		s.logger.Debug(ctx, "audit record dropped",
			logger.String("method", rec.Method),
			logger.String("route", rec.Route),
		)
	}
	return repeat
}

// Recent returns up to n journal records, newest first.
func (s *Service) Recent(ctx context.Context, n int) ([]model.RequestRecord, error) {
	return s.journal.Recent(ctx, n)
}

// JournalCapacity returns the configured journal ring capacity.
func (s *Service) JournalCapacity() int {
	return s.journal.Capacity()
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":     s.started,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
		"journalSize": s.journalSize,
	}

	if s.started {
		queueLen := s.auditQueue.Len(ctx)
		journalLen := s.journal.Count(ctx)

		stats["queueLength"] = queueLen
		stats["journalLength"] = journalLen
		stats["requestsByRoute"] = s.journal.CountByRoute(ctx)
		stats["replaysDetected"] = s.journal.Replays(ctx)
		stats["replayCacheEntries"] = s.detector.Size()

		// Update metrics
		metrics.UpdateQueueSize(queueLen)
		metrics.UpdateJournalSize(journalLen)
		metrics.UpdateWorkerActiveCount(s.workerCount)
	}

	return stats
}
