package pipeline

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/dgallion1/startpage/internal/bridge"
)

func TestIsRetryable(t *testing.T) {
	re := &bridge.RetryableError{StatusCode: 503}
	if !IsRetryable(re) {
		t.Error("expected RetryableError to be retryable")
	}
	if !IsRetryable(fmt.Errorf("clear: %w", re)) {
		t.Error("expected wrapped RetryableError to be retryable")
	}
	if IsRetryable(errors.New("boom")) {
		t.Error("expected plain error not to be retryable")
	}
	if IsRetryable(nil) {
		t.Error("expected nil not to be retryable")
	}
}

func TestBackoff_Bounds(t *testing.T) {
	for attempt, base := range []time.Duration{time.Second, 2 * time.Second, 4 * time.Second} {
		for range 20 {
			d := Backoff(attempt)
			if d < base || d >= base+base/2 {
				t.Fatalf("attempt %d: expected [%v, %v), got %v", attempt, base, base+base/2, d)
			}
		}
	}
	if d := Backoff(10); d < 30*time.Second || d >= 45*time.Second {
		t.Errorf("expected capped backoff, got %v", d)
	}
}

func TestRetryDelay(t *testing.T) {
	fixed := func(int) time.Duration { return 5 * time.Millisecond }
	tests := []struct {
		name string
		err  error
		want time.Duration
	}{
		{"backoff without hint", &bridge.RetryableError{StatusCode: 503}, 5 * time.Millisecond},
		{"host hint", &bridge.RetryableError{StatusCode: 429, RetryAfter: 2 * time.Second}, 2 * time.Second},
		{"wrapped hint", fmt.Errorf("clear: %w", &bridge.RetryableError{StatusCode: 503, RetryAfter: time.Second}), time.Second},
		{"hint capped", &bridge.RetryableError{StatusCode: 429, RetryAfter: time.Hour}, 30 * time.Second},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := retryDelay(tt.err, 0, fixed); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}
