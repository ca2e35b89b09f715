// Package worker assesses queued screenings and stores the results.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"time"

	"github.com/okian/nutriscreen/internal/domain/assessment"
	"github.com/okian/nutriscreen/internal/domain/types"
	"github.com/okian/nutriscreen/pkg/logger"
	"github.com/okian/nutriscreen/pkg/metrics"
)

const poolShutdownTimeout = 30 * time.Second

// Screening is what workers read off the queue.
type Screening = types.Screening

// Assessor runs one assessment.
type Assessor interface {
	AssessRequest(r assessment.Request) assessment.Result
}

// Saver stores a finished screening.
type Saver interface {
	Save(ctx context.Context, rec types.Record) error
}

// Queue defines how workers receive screenings.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Screening
}

// Worker processes screenings until its queue closes.
type Worker interface {
	// Run starts the worker loop until ctx is canceled or the queue closes.
	Run(ctx context.Context)

	// Shutdown stops the worker and waits for the loop to exit.
	Shutdown(ctx context.Context) error
}

// InMemoryWorker implements Worker.
type InMemoryWorker struct {
	queue    Queue
	assessor Assessor
	saver    Saver
	name     string
	now      func() time.Time

	shutdown chan struct{}
	done     chan struct{}

	logger logger.Logger
}

// NewInMemoryWorker creates a worker.
func NewInMemoryWorker(q Queue, a Assessor, s Saver, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:    q,
		assessor: a,
		saver:    s,
		name:     "worker",
		now:      time.Now,
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.logger == nil {
		w.logger = logger.Get().Named(w.name)
	}
	return w
}

// Run starts the worker loop.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	items := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case s, ok := <-items:
			if !ok {
				return
			}
			if err := w.process(ctx, s); err != nil {
				w.logger.Error(ctx, "screening failed", logger.String("screening_id", s.ID), logger.Error(err))
			}
		}
	}
}

// Shutdown stops the worker.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	close(w.shutdown)
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

func (w *InMemoryWorker) process(ctx context.Context, s Screening) error { //nolint:gocritic // hugeParam: channel value
	metrics.AddWorkerActive(1)
	defer metrics.AddWorkerActive(-1)

	start := time.Now()
	res := w.assessor.AssessRequest(s.Request)
	assessedIn := time.Since(start)
	metrics.RecordAssessmentLatency(float64(assessedIn.Microseconds()) / 1000)

	if res.Success {
		metrics.RecordAssessment(string(res.Classification.Group), string(res.Classification.Category),
			res.Classification.DecisionPath, res.Risk.Score)
		w.logger.Debug(ctx, "screening assessed",
			logger.String("screening_id", s.ID),
			logger.String("status", res.Classification.Status),
			logger.Int("risk_score", res.Risk.Score),
			logger.Duration("took", assessedIn))
	} else {
		metrics.RecordAssessmentFailure(string(res.ErrorKind))
		w.logger.Warn(ctx, "screening rejected",
			logger.String("screening_id", s.ID),
			logger.String("error_kind", string(res.ErrorKind)),
			logger.String("message", res.Message))
	}

	rec := types.Record{
		ScreeningID: s.ID,
		Result:      res,
		SubmittedAt: s.SubmittedAt,
		AssessedAt:  w.now(),
	}
	if err := w.saver.Save(ctx, rec); err != nil {
		metrics.RecordWorkerError()
		metrics.RecordError("worker", "save")
		return fmt.Errorf("save screening %s: %w", s.ID, err)
	}
	metrics.RecordWorkerProcessingLatency(float64(time.Since(start).Microseconds()) / 1000)
	return nil
}

// Pool manages a fixed set of workers sharing one queue.
type Pool struct {
	workers []*InMemoryWorker
	queue   Queue
	logger  logger.Logger
}

// NewPool creates a pool of workerCount workers. A count below one uses
// the number of CPUs.
func NewPool(workerCount int, q Queue, a Assessor, s Saver, opts ...Option) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU()
	}
	p := &Pool{
		workers: make([]*InMemoryWorker, workerCount),
		queue:   q,
		logger:  logger.Get().Named("worker-pool"),
	}
	for i := range p.workers {
		wopts := append([]Option{WithName("worker-" + strconv.Itoa(i))}, opts...)
		p.workers[i] = NewInMemoryWorker(q, a, s, wopts...)
	}
	metrics.UpdateWorkerCount(workerCount)
	return p
}

// Size returns the number of workers.
func (p *Pool) Size() int { return len(p.workers) }

// Start starts all workers.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
	p.logger.Info(ctx, "worker pool started", logger.Int("workers", len(p.workers)))
}

// Shutdown closes the queue and waits for the workers to drain it.
func (p *Pool) Shutdown(ctx context.Context) error {
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	for i, w := range p.workers {
		select {
		case <-w.done:
		case <-shutdownCtx.Done():
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
			return fmt.Errorf("worker pool shutdown: %w", shutdownCtx.Err())
		}
	}
	return nil
}
