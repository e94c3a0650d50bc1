package server

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// DefaultSweepInterval is how often per-session memory is swept
const DefaultSweepInterval = 10 * time.Minute

// Sweeper drops expired entries and reports how many it dropped
type Sweeper interface {
	Sweep() int
}

// RunJanitor sweeps every sweeper each interval until ctx is done
func RunJanitor(ctx context.Context, interval time.Duration, log *zap.Logger, sweepers ...Sweeper) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			dropped := 0
			for _, s := range sweepers {
				dropped += s.Sweep()
			}
			if dropped > 0 {
				log.Debug("swept expired session state", zap.Int("dropped", dropped))
			}
		}
	}
}
