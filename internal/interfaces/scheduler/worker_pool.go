package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

var (
	jobTracer          = otel.Tracer("fintrack/scheduler")
	jobMeter           = otel.Meter("fintrack/scheduler")
	jobDuration, _     = jobMeter.Float64Histogram("scheduler.job.duration", metric.WithDescription("Job execution duration in seconds"), metric.WithUnit("s"))
	jobTotal, _        = jobMeter.Int64Counter("scheduler.job.total", metric.WithDescription("Total jobs executed by status"))
	jobQueueDropped, _ = jobMeter.Int64Counter("scheduler.job.queue_dropped", metric.WithDescription("Jobs dropped due to full queue"))
)

var (
	ErrQueueFull  = errors.New("job queue full")
	ErrPoolClosed = errors.New("worker pool is shut down")
)

// WorkerPool runs submitted jobs on a fixed number of goroutines.
type WorkerPool struct {
	workerCount int
	jobTimeout  time.Duration
	jobs        chan Job
	wg          sync.WaitGroup
	ctx         context.Context
	cancel      context.CancelFunc

	mu     sync.RWMutex
	closed bool
}

// NewWorkerPool creates a pool. Each job runs under jobTimeout; zero means no timeout.
func NewWorkerPool(workerCount int, jobTimeout time.Duration, queueSize int) *WorkerPool {
	if workerCount < 1 {
		workerCount = 1
	}
	ctx, cancel := context.WithCancel(context.Background())

	return &WorkerPool{
		workerCount: workerCount,
		jobTimeout:  jobTimeout,
		jobs:        make(chan Job, queueSize),
		ctx:         ctx,
		cancel:      cancel,
	}
}

func (wp *WorkerPool) Start() {
	zap.L().Info("Starting worker pool", zap.Int("workers", wp.workerCount))

	for i := 1; i <= wp.workerCount; i++ {
		wp.wg.Add(1)
		go wp.worker(i)
	}
}

func (wp *WorkerPool) worker(id int) {
	defer wp.wg.Done()

	for {
		select {
		case <-wp.ctx.Done():
			return
		case job, ok := <-wp.jobs:
			if !ok {
				return
			}
			wp.processJob(id, job)
		}
	}
}

func (wp *WorkerPool) processJob(workerID int, job Job) {
	log := zap.L().With(
		zap.Int("worker_id", workerID),
		zap.String("job", job.Name()),
	)
	log.Info("Processing job", zap.String("description", job.Description()))

	ctx := wp.ctx
	if wp.jobTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, wp.jobTimeout)
		defer cancel()
	}

	ctx, span := jobTracer.Start(ctx, "job.execute",
		trace.WithAttributes(
			attribute.Int("worker.id", workerID),
			attribute.String("job.name", job.Name()),
			attribute.String("job.description", job.Description()),
		),
	)
	defer span.End()

	start := time.Now()
	err := job.Execute(ctx)
	elapsed := time.Since(start)

	status := "success"
	if err != nil {
		status = "error"
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	attrs := metric.WithAttributes(attribute.String("job", job.Name()), attribute.String("status", status))
	jobTotal.Add(ctx, 1, attrs)
	jobDuration.Record(ctx, elapsed.Seconds(), attrs)

	if err != nil {
		log.Error("Job failed", zap.Duration("duration", elapsed), zap.Error(err))
		return
	}
	log.Info("Job completed", zap.Duration("duration", elapsed))
}

// Submit queues job without blocking. It returns ErrQueueFull when the
// queue has no room and ErrPoolClosed after shutdown.
func (wp *WorkerPool) Submit(job Job) error {
	wp.mu.RLock()
	defer wp.mu.RUnlock()
	if wp.closed {
		return ErrPoolClosed
	}

	select {
	case wp.jobs <- job:
		return nil
	default:
		jobQueueDropped.Add(context.Background(), 1, metric.WithAttributes(attribute.String("job", job.Name())))
		zap.L().Warn("Job queue full, dropping job", zap.String("job", job.Name()))
		return ErrQueueFull
	}
}

// Shutdown stops accepting jobs and waits up to timeout for queued and running
// jobs to finish. After the timeout running jobs are cancelled.
func (wp *WorkerPool) Shutdown(timeout time.Duration) {
	wp.mu.Lock()
	if wp.closed {
		wp.mu.Unlock()
		return
	}
	wp.closed = true
	close(wp.jobs)
	wp.mu.Unlock()

	done := make(chan struct{})
	go func() {
		wp.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		zap.L().Info("Worker pool: all workers finished")
	case <-time.After(timeout):
		zap.L().Warn("Worker pool: timeout reached, cancelling running jobs")
		wp.cancel()
		<-done
	}
	wp.cancel()
}
