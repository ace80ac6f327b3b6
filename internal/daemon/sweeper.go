package daemon

import (
	"context"
	"time"

	"go.uber.org/zap"
	"swipe/internal/expiry"
)

// Sweeper drives the passive expiry engine on a fixed cadence. Chat-open
// sweeps are the UI's responsibility; this covers the periodic one.
type Sweeper struct {
	engine   *expiry.Engine
	interval time.Duration
	log      *zap.Logger
	cancel   context.CancelFunc
}

// NewSweeper creates a sweeper running Cleanup every interval.
func NewSweeper(engine *expiry.Engine, interval time.Duration, logger *zap.Logger) *Sweeper {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Sweeper{engine: engine, interval: interval, log: logger}
}

// Start begins the sweep loop.
func (s *Sweeper) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)
	go s.loop(ctx)
}

// Stop stops the sweep loop.
func (s *Sweeper) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
}

func (s *Sweeper) loop(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if n := s.engine.Cleanup(); n > 0 {
				s.log.Info("periodic sweep", zap.Int("removed", n))
			}
		case <-ctx.Done():
			return
		}
	}
}
