package pipeline

import (
	"errors"
	"math/rand/v2"
	"time"

	"github.com/dgallion1/startpage/internal/bridge"
)

// MaxRetries bounds bridge calls per clear job.
const MaxRetries = 3

// maxRetryWait caps any single wait, whether from backoff or the host.
const maxRetryWait = 30 * time.Second

// IsRetryable reports whether the bridge failure is transient.
func IsRetryable(err error) bool {
	var retryErr *bridge.RetryableError
	return errors.As(err, &retryErr)
}

// Backoff returns a duration for attempt n (0-indexed) with jitter.
func Backoff(attempt int) time.Duration {
	base := min(time.Duration(1<<uint(attempt))*time.Second, maxRetryWait)
	jitter := time.Duration(rand.Int64N(int64(base) / 2))
	return base + jitter
}

// retryDelay is the wait before the next bridge call. A host that names a
// Retry-After is obeyed up to maxRetryWait; otherwise backoff decides.
func retryDelay(err error, attempt int, backoff func(int) time.Duration) time.Duration {
	var retryErr *bridge.RetryableError
	if errors.As(err, &retryErr) && retryErr.RetryAfter > 0 {
		return min(retryErr.RetryAfter, maxRetryWait)
	}
	return backoff(attempt)
}
