package async

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/joseph-ayodele/receipt-processor/internal/common"
	"github.com/joseph-ayodele/receipt-processor/internal/ingest"
)

// Processor ingests one file.
type Processor interface {
	IngestPath(ctx context.Context, path string) ingest.FileResult
}

// ProcessorQueue runs jobs on a fixed pool of workers and keeps every result.
type ProcessorQueue struct {
	proc    Processor
	logger  *zap.Logger
	workers int
	timeout time.Duration

	ch   chan Job
	wg   sync.WaitGroup
	once sync.Once

	mu      sync.Mutex
	closed  bool
	results []ingest.FileResult
}

type Option func(*ProcessorQueue)

func WithWorkers(n int) Option {
	return func(q *ProcessorQueue) {
		if n > 0 {
			q.workers = n
		}
	}
}

func WithQueueSize(n int) Option {
	return func(q *ProcessorQueue) {
		if n > 0 {
			q.ch = make(chan Job, n)
		}
	}
}

func WithProcessTimeout(d time.Duration) Option {
	return func(q *ProcessorQueue) {
		if d > 0 {
			q.timeout = d
		}
	}
}

func NewProcessorQueue(proc Processor, logger *zap.Logger, opts ...Option) *ProcessorQueue {
	q := &ProcessorQueue{
		proc:    proc,
		logger:  logger,
		workers: 4,
		timeout: 30 * time.Second,
		ch:      make(chan Job, 256),
	}
	for _, o := range opts {
		o(q)
	}
	q.start()
	return q
}

func (q *ProcessorQueue) start() {
	q.once.Do(func() {
		for i := 0; i < q.workers; i++ {
			q.wg.Add(1)
			go func(workerID int) {
				defer q.wg.Done()
				q.logger.Debug("worker started", zap.Int("worker_id", workerID))

				for job := range q.ch {
					ctx, cancel := context.WithTimeout(context.Background(), q.timeout)
					if job.TraceID != "" {
						ctx = common.WithRequestID(ctx, job.TraceID)
					}
					res := q.proc.IngestPath(ctx, job.Path)
					cancel()

					q.mu.Lock()
					q.results = append(q.results, res)
					q.mu.Unlock()

					q.logger.Info("job finished",
						zap.Int("worker_id", workerID),
						zap.String("path", job.Path),
						zap.String("status", string(res.Status)),
						zap.String("receipt_id", res.ReceiptID),
						zap.Duration("queued_for", time.Since(job.SubmittedAt)),
					)
				}

				q.logger.Debug("worker stopped", zap.Int("worker_id", workerID))
			}(i + 1)
		}
	})
}

// Enqueue blocks while the buffer is full.
func (q *ProcessorQueue) Enqueue(ctx context.Context, job Job) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		q.logger.Warn("cannot enqueue: queue is shutting down", zap.String("path", job.Path))
		return ErrQueueClosed
	}
	if job.SubmittedAt.IsZero() {
		job.SubmittedAt = time.Now()
	}
	select {
	case q.ch <- job:
		q.mu.Unlock()
		q.logger.Debug("queued file for processing", zap.String("path", job.Path))
		return nil
	default:
	}
	q.mu.Unlock()

	q.logger.Warn("queue full, applying backpressure", zap.String("path", job.Path))
	return q.blockingSend(ctx, job)
}

// blockingSend retries until there is room. ch is only closed under mu, so
// every send attempt happens with mu held.
func (q *ProcessorQueue) blockingSend(ctx context.Context, job Job) error {
	for {
		q.mu.Lock()
		if q.closed {
			q.mu.Unlock()
			return ErrQueueClosed
		}
		select {
		case q.ch <- job:
			q.mu.Unlock()
			return nil
		default:
		}
		q.mu.Unlock()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(5 * time.Millisecond):
		}
	}
}

// Shutdown stops accepting jobs and waits for queued ones to drain or ctx to end.
func (q *ProcessorQueue) Shutdown(ctx context.Context) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	close(q.ch)
	q.mu.Unlock()

	done := make(chan struct{})
	go func() { defer close(done); q.wg.Wait() }()

	select {
	case <-ctx.Done():
		q.logger.Warn("shutdown interrupted by context")
	case <-done:
		q.logger.Info("queue drained, shutdown complete")
	}
}

// Results returns a copy of the outcomes collected so far.
func (q *ProcessorQueue) Results() []ingest.FileResult {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]ingest.FileResult, len(q.results))
	copy(out, q.results)
	return out
}
