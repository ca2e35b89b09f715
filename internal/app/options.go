package service

import (
	"time"

	"github.com/okian/nutriscreen/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of assessment workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the capacity of the screening queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets how many screening IDs are remembered.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithBatchParallelism bounds concurrent assessments within one batch.
func WithBatchParallelism(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.batchParallelism = n
		}
	}
}

// WithMaxBatchSize caps the number of subjects in one batch.
func WithMaxBatchSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxBatchSize = n
		}
	}
}

// WithMaxRecords caps the number of stored screening results. Zero keeps
// the store unbounded.
func WithMaxRecords(n int) Option {
	return func(s *Service) {
		if n >= 0 {
			s.maxRecords = n
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithIDGenerator sets how screening IDs are generated when the caller
// does not supply one.
func WithIDGenerator(gen func() string) Option {
	return func(s *Service) {
		if gen != nil {
			s.newID = gen
		}
	}
}

// WithClock sets the clock used for submission and assessment times.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}
