package bridge

import (
	"context"
	"time"
)

// DefaultSimulatedDelay mimics the host round trip when there is no host.
const DefaultSimulatedDelay = 800 * time.Millisecond

// Simulated acknowledges every request after a fixed delay.
type Simulated struct {
	Delay time.Duration
	stats *LatencyStats
}

func NewSimulated(delay time.Duration) *Simulated {
	if delay < 0 {
		delay = DefaultSimulatedDelay
	}
	return &Simulated{Delay: delay, stats: NewLatencyStats(time.Hour)}
}

func (s *Simulated) ClearData(ctx context.Context, _ time.Time) error {
	start := time.Now()
	defer func() { s.stats.Record(time.Since(start).Milliseconds()) }()

	t := time.NewTimer(s.Delay)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Simulated) Endpoint() string { return "simulated" }

func (s *Simulated) Stats() StatsSnapshot { return s.stats.Snapshot() }
