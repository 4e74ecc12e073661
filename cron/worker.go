package cron

import (
	"context"
	"time"

	"tripmarket/config"
	"tripmarket/services/tasks"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// PromotionExpirer is the slice of the promotion engine the worker drives.
type PromotionExpirer interface {
	ExpirePromotion(ctx context.Context, tripID, promotionID string) error
}

// RedisQueueOpt is the asynq connection shared by the worker and the client
// that schedules expiry tasks.
func RedisQueueOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}
}

// InitExpiryWorker runs the promotion expiry worker in the background and
// returns the server so the caller can shut it down.
func InitExpiryWorker(ctx context.Context, expirer PromotionExpirer, logger *zap.Logger) *asynq.Server {
	srv := asynq.NewServer(
		RedisQueueOpt(),
		asynq.Config{
			Concurrency: 5,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypePromotionExpire, HandlePromotionExpiry(expirer, logger))

	go monitorRedisConnection(ctx, logger)

	go func() {
		logger.Info("Starting promotion expiry worker")
		const maxAttempts = 5

		for attempt := 1; attempt <= maxAttempts; attempt++ {
			err := srv.Run(mux)
			if err == nil {
				return
			}
			logger.Error("Expiry worker failed to start",
				zap.Int("attempt", attempt),
				zap.Int("maxAttempts", maxAttempts),
				zap.Error(err),
			)
			if attempt == maxAttempts {
				logger.Error("Expiry worker gave up; promotions will only expire lazily")
				return
			}
			time.Sleep(time.Duration(attempt*2) * time.Second)
		}
	}()
	return srv
}

// HandlePromotionExpiry decodes an expiry task and expires the promotion.
// Malformed payloads are dropped instead of retried.
func HandlePromotionExpiry(expirer PromotionExpirer, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		p, err := tasks.ParsePromotionExpiryPayload(task)
		if err != nil {
			logger.Error("Dropping promotion expiry task", zap.Error(err))
			return asynq.SkipRetry
		}

		if err := expirer.ExpirePromotion(ctx, p.TripID, p.PromotionID); err != nil {
			logger.Warn("Promotion expiry failed",
				zap.String("tripId", p.TripID),
				zap.String("promotionId", p.PromotionID),
				zap.Error(err),
			)
			return err
		}
		return nil
	}
}

// monitorRedisConnection pings the queue database until ctx is done.
func monitorRedisConnection(ctx context.Context, logger *zap.Logger) {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})
	defer client.Close()

	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := client.Ping(ctx).Err(); err != nil {
				logger.Warn("Queue Redis connection lost", zap.Error(err))
			}
		}
	}
}
