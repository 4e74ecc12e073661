package cron

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// PromotionSweeper expires lapsed promotions in bulk.
type PromotionSweeper interface {
	SweepLapsed(ctx context.Context) (int, error)
}

// StartPromotionSweep runs the sweeper every interval until ctx is done.
func StartPromotionSweep(ctx context.Context, sweeper PromotionSweeper, every time.Duration, logger *zap.Logger) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Promotion sweep stopped")
			return
		case <-ticker.C:
			if _, err := sweeper.SweepLapsed(ctx); err != nil {
				logger.Warn("Promotion sweep failed", zap.Error(err))
			}
		}
	}
}
