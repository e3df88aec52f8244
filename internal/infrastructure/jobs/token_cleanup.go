package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/pro324test/store-sub001/internal/domain/repositories"
	"github.com/pro324test/store-sub001/pkg/logger"
)

// TokenCleanupJob removes refresh token rows long past expiry. Expiry itself
// is enforced lazily on rotation; this job only keeps the table from growing
// without bound.
type TokenCleanupJob struct {
	repo      repositories.RefreshTokenRepository
	interval  time.Duration
	retention time.Duration
	stop      chan struct{}
}

// NewTokenCleanupJob creates a cleanup job with the given sweep interval and
// post-expiry retention window
func NewTokenCleanupJob(repo repositories.RefreshTokenRepository, interval, retention time.Duration) *TokenCleanupJob {
	return &TokenCleanupJob{
		repo:      repo,
		interval:  interval,
		retention: retention,
		stop:      make(chan struct{}),
	}
}

// Start runs the sweep loop until the context is cancelled or Stop is called
func (j *TokenCleanupJob) Start(ctx context.Context) {
	logger.Info(ctx, "refresh token cleanup job started",
		zap.Duration("interval", j.interval),
		zap.Duration("retention", j.retention),
	)

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx, "refresh token cleanup job stopped")
			return
		case <-j.stop:
			logger.Info(ctx, "refresh token cleanup job stopped")
			return
		case <-ticker.C:
			j.sweep(ctx)
		}
	}
}

// Stop terminates the sweep loop
func (j *TokenCleanupJob) Stop() {
	close(j.stop)
}

func (j *TokenCleanupJob) sweep(ctx context.Context) {
	cutoff := time.Now().Add(-j.retention)
	deleted, err := j.repo.DeleteExpiredBefore(ctx, cutoff)
	if err != nil {
		logger.Error(ctx, "refresh token sweep failed", zap.Error(err))
		return
	}
	if deleted > 0 {
		logger.Info(ctx, "expired refresh tokens removed", zap.Int64("count", deleted))
	}
}
