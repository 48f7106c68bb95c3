package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/arthur-theuer/signaleditor/internal/config"
	"github.com/arthur-theuer/signaleditor/internal/report"
	"github.com/arthur-theuer/signaleditor/internal/resolver"
)

// ErrStopped is returned by Submit once Stop was called.
var ErrStopped = errors.New("export pipeline stopped")

const cleanupInterval = 5 * time.Minute

// Orchestrator runs report exports on a fixed pool of workers fed by a
// bounded queue.
type Orchestrator struct {
	jobs    *JobStore
	queue   chan *Job
	workers int
	limit   int
	worker  *Worker
	metrics *Metrics
	log     *slog.Logger

	mu      sync.Mutex
	stopped bool
	cancel  context.CancelFunc
	group   *errgroup.Group
}

// NewOrchestrator creates the pipeline. Call Start to launch workers.
func NewOrchestrator(cfg config.Config, res *resolver.Resolver, builder report.Builder, log *slog.Logger) *Orchestrator {
	log = log.With("component", "pipeline")
	return &Orchestrator{
		jobs:    NewJobStore(cfg.JobTTL),
		queue:   make(chan *Job, cfg.MaxQueueSize),
		workers: max(cfg.WorkerCount, 1),
		limit:   cfg.MaxQueueSize,
		worker:  NewWorker(res, builder, log),
		log:     log,
	}
}

// Instrument registers the pipeline metrics with reg.
func (o *Orchestrator) Instrument(reg prometheus.Registerer) {
	o.metrics = NewMetrics(reg, o.QueueDepth)
}

// Start launches the workers and the job store cleanup. They run until
// ctx ends or Stop is called.
func (o *Orchestrator) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	g, ctx := errgroup.WithContext(ctx)

	o.mu.Lock()
	o.cancel = cancel
	o.group = g
	o.mu.Unlock()

	for range o.workers {
		g.Go(func() error {
			for {
				select {
				case <-ctx.Done():
					return nil
				case job := <-o.queue:
					o.run(ctx, job)
				}
			}
		})
	}

	g.Go(func() error {
		ticker := time.NewTicker(cleanupInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				o.jobs.Cleanup()
			}
		}
	})
}

func (o *Orchestrator) run(ctx context.Context, job *Job) {
	start := time.Now()
	o.worker.Process(ctx, job)
	o.metrics.finished(job.Snapshot().Status, time.Since(start))
}

// Stop cancels the workers and waits for them. Jobs still queued are
// marked failed.
func (o *Orchestrator) Stop() {
	o.mu.Lock()
	o.stopped = true
	cancel, g := o.cancel, o.group
	o.mu.Unlock()

	if cancel != nil {
		cancel()
		g.Wait()
	}

	for {
		select {
		case job := <-o.queue:
			job.AddError("pipeline stopped before the job ran")
			job.SetStatus(StatusFailed, "shutdown")
		default:
			return
		}
	}
}

// Submit stores the job and queues it. A full queue fails the job at once.
func (o *Orchestrator) Submit(job *Job) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.stopped {
		return ErrStopped
	}

	o.jobs.Put(job)
	select {
	case o.queue <- job:
		o.log.Info("export queued", "job_id", job.ID, "file", job.File)
		return nil
	default:
		job.SetStatus(StatusFailed, "queue_full")
		o.metrics.finished(StatusFailed, 0)
		return fmt.Errorf("job queue is full (%d)", o.limit)
	}
}

// GetJob returns a job by ID.
func (o *Orchestrator) GetJob(id string) *Job {
	return o.jobs.Get(id)
}

// QueueDepth returns the number of jobs waiting for a worker.
func (o *Orchestrator) QueueDepth() int {
	return len(o.queue)
}
