// Package service wires the assessment engine to the screening pipeline
// and exposes the operations the HTTP API needs.
package service

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/okian/nutriscreen/internal/adapters/mq/queue"
	"github.com/okian/nutriscreen/internal/adapters/mq/worker"
	"github.com/okian/nutriscreen/internal/adapters/repository"
	"github.com/okian/nutriscreen/internal/domain/assessment"
	"github.com/okian/nutriscreen/internal/domain/dedupe"
	"github.com/okian/nutriscreen/internal/domain/types"
	"github.com/okian/nutriscreen/pkg/logger"
	"github.com/okian/nutriscreen/pkg/metrics"
)

// Assessor runs one assessment.
type Assessor interface {
	AssessRequest(r assessment.Request) assessment.Result
}

// Service implements the screening operations.
type Service struct {
	mu sync.RWMutex

	assessor Assessor
	store    repository.Store
	deduper  dedupe.Deduper
	queue    queue.Queue
	pool     *worker.Pool

	workerCount      int
	queueSize        int
	dedupeSize       int
	batchParallelism int
	maxBatchSize     int
	maxRecords       int

	newID func() string
	now   func() time.Time

	started bool
	logger  logger.Logger
}

// New constructs a Service around assessor.
func New(assessor Assessor, opts ...Option) *Service {
	s := &Service{
		assessor:         assessor,
		workerCount:      runtime.NumCPU() * 2,
		queueSize:        10_000,
		dedupeSize:       100_000,
		batchParallelism: runtime.NumCPU(),
		maxBatchSize:     1_000,
		maxRecords:       1_000_000,
		newID:            uuid.NewString,
		now:              time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start creates the pipeline components and starts the workers.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}

	// Results and remembered IDs survive a restart; the queue does not.
	if s.store == nil {
		s.store = repository.NewMemoryStore(repository.WithMaxRecords(s.maxRecords))
		s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))
	}
	s.queue = queue.NewInMemoryQueue(queue.WithCapacity(s.queueSize))
	s.pool = worker.NewPool(s.workerCount, s.queue, s.assessor, s.store, worker.WithClock(s.now))
	// Workers outlive ctx; Stop drains the queue before they exit.
	s.pool.Start(context.WithoutCancel(ctx))
	metrics.UpdateQueueCapacity(s.queueSize)

	s.started = true
	s.logger.Info(ctx, "screening service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queue_size", s.queueSize),
		logger.Int("dedupe_size", s.dedupeSize),
		logger.Int("batch_parallelism", s.batchParallelism),
		logger.Int("max_records", s.maxRecords),
	)
	return nil
}

// Stop closes the queue and waits for queued screenings to be stored.
func (s *Service) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return nil
	}
	s.logger.Info(ctx, "stopping screening service")
	err := s.pool.Shutdown(ctx)
	s.started = false
	if err != nil {
		return fmt.Errorf("stop service: %w", err)
	}
	s.logger.Info(ctx, "screening service stopped")
	return nil
}

// Started reports whether the pipeline is running.
func (s *Service) Started() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.started
}

// Assess assesses one subject synchronously.
func (s *Service) Assess(_ context.Context, req assessment.Request) assessment.Result {
	start := time.Now()
	res := s.assessor.AssessRequest(req)
	metrics.RecordAssessmentLatency(float64(time.Since(start).Microseconds()) / 1000)
	record(&res)
	return res
}

// AssessBatch assesses every request with bounded parallelism. The result
// at index i belongs to the request at index i. It fails only for an
// empty or oversized batch or a cancelled context; bad subjects yield
// failed results.
func (s *Service) AssessBatch(ctx context.Context, reqs []assessment.Request) ([]assessment.Result, error) {
	switch {
	case len(reqs) == 0:
		return nil, ErrEmptyBatch
	case len(reqs) > s.maxBatchSize:
		return nil, fmt.Errorf("%w: %d subjects, limit %d", ErrBatchTooLarge, len(reqs), s.maxBatchSize)
	}
	metrics.RecordBatchSize(len(reqs))

	out := make([]assessment.Result, len(reqs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.batchParallelism)
	for i := range reqs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out[i] = s.Assess(gctx, reqs[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("assess batch: %w", err)
	}
	return out, nil
}

// Submit queues a screening for asynchronous assessment. An empty id gets
// a generated one. A screening ID seen before is reported as a duplicate
// and not queued again.
func (s *Service) Submit(ctx context.Context, id string, req assessment.Request) (types.Submission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started {
		return types.Submission{}, ErrNotStarted
	}
	if id == "" {
		id = s.newID()
	}

	if s.deduper.SeenAndRecord(ctx, id) {
		metrics.RecordScreeningDuplicate()
		s.logger.Debug(ctx, "duplicate screening", logger.String("screening_id", id))
		return types.Submission{ScreeningID: id, Duplicate: true}, nil
	}

	// Queued screenings will each take a slot once stored.
	if s.maxRecords > 0 && s.store.Count(ctx)+s.queue.Len(ctx) >= s.maxRecords {
		s.deduper.Unrecord(ctx, id)
		metrics.RecordError("service", "store_full")
		return types.Submission{}, fmt.Errorf("submit %s: %w: %d records", id, ErrStoreFull, s.maxRecords)
	}

	sc := types.Screening{ID: id, Request: req, SubmittedAt: s.now()}
	if err := s.queue.Enqueue(ctx, sc); err != nil {
		s.deduper.Unrecord(ctx, id)
		s.logger.Warn(ctx, "screening not queued", logger.String("screening_id", id), logger.Error(err))
		return types.Submission{}, fmt.Errorf("submit %s: %w", id, err)
	}
	metrics.RecordScreeningSubmitted()
	return types.Submission{ScreeningID: id}, nil
}

// Screening returns the stored result of a screening.
func (s *Service) Screening(ctx context.Context, id string) (types.Record, error) {
	store, err := s.repository()
	if err != nil {
		return types.Record{}, err
	}
	return store.Get(ctx, id)
}

// TopRisk returns the n highest-risk stored screenings.
func (s *Service) TopRisk(ctx context.Context, n int) ([]types.Record, error) {
	store, err := s.repository()
	if err != nil {
		return nil, err
	}
	return store.TopRisk(ctx, n)
}

// Stats returns pipeline state and population statistics.
func (s *Service) Stats(ctx context.Context) types.ServiceStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := types.ServiceStats{
		Started:    s.started,
		Workers:    s.workerCount,
		QueueSize:  s.queueSize,
		Population: types.NewStats(),
	}
	if s.started {
		st.QueueLength = s.queue.Len(ctx)
	}
	if s.store != nil {
		st.Remembered = s.deduper.Size()
		st.Stored = s.store.Count(ctx)
		st.Population = s.store.Stats(ctx)
	}
	return st
}

func (s *Service) repository() (repository.Store, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.store == nil {
		return nil, ErrNotStarted
	}
	return s.store, nil
}

func record(res *assessment.Result) {
	if !res.Success {
		metrics.RecordAssessmentFailure(string(res.ErrorKind))
		return
	}
	metrics.RecordAssessment(string(res.Classification.Group), string(res.Classification.Category),
		res.Classification.DecisionPath, res.Risk.Score)
}
