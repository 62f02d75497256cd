package service

import (
	"context"
	"log/slog"
	"time"
)

// IdleEvicter drops per-connection state that has not been used for maxIdle
// and reports how many entries went.
type IdleEvicter interface {
	EvictIdle(ctx context.Context, maxIdle time.Duration) int
}

// HousekeepingService periodically evicts idle connection sessions so the
// registry does not grow without bound.
type HousekeepingService struct {
	Sessions IdleEvicter
	Logger   *slog.Logger
	Interval time.Duration
	MaxIdle  time.Duration

	// Internal channels for lifecycle management
	stopCh chan struct{}
	doneCh chan struct{}
}

// NewHousekeepingService creates a new housekeeping service. A zero interval
// defaults to one minute and a zero maxIdle to the token lifetime.
func NewHousekeepingService(sessions IdleEvicter, logger *slog.Logger, interval, maxIdle time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = time.Minute
	}
	if maxIdle <= 0 {
		maxIdle = 45 * time.Minute
	}

	return &HousekeepingService{
		Sessions: sessions,
		Logger:   logger,
		Interval: interval,
		MaxIdle:  maxIdle,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start begins the background worker that periodically runs cleanup.
// Call Stop() to gracefully shutdown the worker.
func (s *HousekeepingService) Start() {
	go s.run()
	s.Logger.Info("housekeeping service started", "interval", s.Interval, "max_idle", s.MaxIdle)
}

// Stop gracefully shuts down the background worker.
// Blocks until the worker has finished any in-progress cleanup.
func (s *HousekeepingService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("housekeeping service stopped")
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.cleanup()
		case <-s.stopCh:
			return
		}
	}
}

func (s *HousekeepingService) cleanup() {
	evicted := s.Sessions.EvictIdle(context.Background(), s.MaxIdle)
	if evicted > 0 {
		s.Logger.Info("evicted idle sessions", "count", evicted)
		return
	}
	s.Logger.Debug("no idle sessions to evict")
}
