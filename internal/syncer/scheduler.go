package syncer

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Scheduler triggers incremental sync runs on a fixed interval.
type Scheduler struct {
	orchestrator *Orchestrator
	pollInterval time.Duration
	runTimeout   time.Duration
	logger       *zap.Logger
}

func NewScheduler(orchestrator *Orchestrator, pollInterval, runTimeout time.Duration, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		orchestrator: orchestrator,
		pollInterval: pollInterval,
		runTimeout:   runTimeout,
		logger:       logger,
	}
}

// Run starts the periodic sync loop and blocks until ctx is cancelled.
// The first run happens immediately on startup.
func (s *Scheduler) Run(ctx context.Context) {
	s.logger.Info("Sync scheduler started", zap.Duration("poll_interval", s.pollInterval))

	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	s.runOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Sync scheduler stopped.")
			return
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

func (s *Scheduler) runOnce(ctx context.Context) {
	runCtx, cancel := context.WithTimeout(ctx, s.runTimeout)
	defer cancel()

	summary, err := s.orchestrator.SyncAll(runCtx, ModeIncremental)
	if err != nil {
		s.logger.Error("Scheduled sync failed", zap.Error(err))
		return
	}

	s.logger.Info("Scheduled sync completed",
		zap.String("run_id", summary.RunID),
		zap.Int("success_count", summary.SuccessCount),
		zap.Int("total_sources", summary.TotalSources))
}
