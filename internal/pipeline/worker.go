package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgallion1/startpage/internal/bridge"
)

// Worker runs clear jobs against the bridge.
type Worker struct {
	clearer bridge.Clearer
	notices *Notices
	log     *slog.Logger
	backoff func(attempt int) time.Duration
}

func NewWorker(clearer bridge.Clearer, notices *Notices, log *slog.Logger, backoff func(int) time.Duration) *Worker {
	if backoff == nil {
		backoff = Backoff
	}
	return &Worker{
		clearer: clearer,
		notices: notices,
		log:     log,
		backoff: backoff,
	}
}

// Process clears browsing data for one job, retrying transient failures.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID)
	start := time.Now()

	w.notices.Post(NoticeLoading, MsgClearing)
	job.SetStatus(StatusRunning, "clearing")

	var lastErr error
retry:
	for attempt := range MaxRetries {
		job.IncrAttempts()
		lastErr = w.clearer.ClearData(ctx, job.Since)
		if lastErr == nil || !IsRetryable(lastErr) || attempt == MaxRetries-1 {
			break
		}
		wait := retryDelay(lastErr, attempt, w.backoff)
		log.Warn("retryable bridge error", "attempt", attempt, "wait_ms", wait.Milliseconds(), "error", lastErr)
		job.SetStatus(StatusRetrying, fmt.Sprintf("retry %d", attempt+1))
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			lastErr = ctx.Err()
			break retry
		}
	}

	if lastErr != nil {
		log.Error("clear failed", "error", lastErr, "endpoint", w.clearer.Endpoint())
		job.AddError(lastErr.Error())
		w.notices.Post(NoticeError, MsgClearErr)
		job.SetStatus(StatusFailed, "clearing")
		return
	}

	w.notices.Post(NoticeSuccess, MsgCleared)
	job.SetStatus(StatusCompleted, "done")
	log.Info("browsing data cleared", "since", job.Since, "duration_ms", time.Since(start).Milliseconds())
}
