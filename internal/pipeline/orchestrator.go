// Package pipeline runs browsing-data clears on a bounded worker queue and
// reports progress through jobs and transient notices.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dgallion1/startpage/internal/bridge"
	"github.com/dgallion1/startpage/internal/config"
)

var ErrStopped = errors.New("pipeline stopped")

// Orchestrator owns the job queue and its workers.
type Orchestrator struct {
	jobs    *JobStore
	queue   chan *Job
	clearer bridge.Clearer
	notices *Notices
	log     *slog.Logger
	cfg     config.Config
	backoff func(attempt int) time.Duration

	mu      sync.Mutex
	stopped bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewOrchestrator creates the pipeline. Call Start to run workers.
func NewOrchestrator(cfg config.Config, clearer bridge.Clearer, notices *Notices, log *slog.Logger) *Orchestrator {
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 1
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 16
	}
	if cfg.ClearLookback <= 0 {
		cfg.ClearLookback = 24 * time.Hour
	}
	if notices == nil {
		notices = NewNotices(cfg.NoticeTTL)
	}
	return &Orchestrator{
		jobs:    NewJobStore(cfg.JobTTL),
		queue:   make(chan *Job, cfg.MaxQueueSize),
		clearer: clearer,
		notices: notices,
		log:     log.With("component", "pipeline"),
		cfg:     cfg,
		backoff: Backoff,
	}
}

// Start launches worker goroutines.
func (o *Orchestrator) Start(ctx context.Context) {
	workerCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel

	for range o.cfg.WorkerCount {
		o.wg.Add(1)
		go func() {
			defer o.wg.Done()
			w := NewWorker(o.clearer, o.notices, o.log, o.backoff)
			for {
				select {
				case <-workerCtx.Done():
					return
				case job, ok := <-o.queue:
					if !ok {
						return
					}
					w.Process(workerCtx, job)
				}
			}
		}()
	}

	// Start job store cleanup.
	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-workerCtx.Done():
				return
			case <-ticker.C:
				o.jobs.Cleanup()
			}
		}
	}()
}

// Stop cancels in-flight work and waits for workers to exit.
func (o *Orchestrator) Stop() {
	o.mu.Lock()
	if o.stopped {
		o.mu.Unlock()
		return
	}
	o.stopped = true
	close(o.queue)
	o.mu.Unlock()

	if o.cancel != nil {
		o.cancel()
	}
	o.wg.Wait()
}

// SubmitClear queues a clear of everything newer than the lookback window.
func (o *Orchestrator) SubmitClear() (*Job, error) {
	job := NewJob(time.Now().Add(-o.cfg.ClearLookback))
	if err := o.Submit(job); err != nil {
		return job, err
	}
	return job, nil
}

// Submit queues a job for processing.
func (o *Orchestrator) Submit(job *Job) error {
	o.jobs.Put(job)

	o.mu.Lock()
	defer o.mu.Unlock()
	if o.stopped {
		job.SetStatus(StatusFailed, "stopped")
		return ErrStopped
	}
	select {
	case o.queue <- job:
		o.log.Info("clear job queued", "job_id", job.ID, "since", job.Since)
		return nil
	default:
		job.SetStatus(StatusFailed, "queue_full")
		return fmt.Errorf("job queue is full (%d)", o.cfg.MaxQueueSize)
	}
}

// GetJob returns a job by ID.
func (o *Orchestrator) GetJob(id string) *Job {
	return o.jobs.Get(id)
}

// QueueDepth returns current queue depth.
func (o *Orchestrator) QueueDepth() int {
	return len(o.queue)
}

// Notices returns the notice board workers post to.
func (o *Orchestrator) Notices() *Notices {
	return o.notices
}

// Clearer returns the bridge jobs are sent through.
func (o *Orchestrator) Clearer() bridge.Clearer {
	return o.clearer
}
