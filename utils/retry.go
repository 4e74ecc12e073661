package utils

import (
	"context"
	"time"

	"tripmarket/metrics"
	"tripmarket/models"

	"github.com/avast/retry-go/v4"
)

// RetryOnConflict runs op until it succeeds, fails with anything other than a
// models.ConflictError, or runs out of attempts. Business errors such as
// insufficient seats or credits are returned on first sight.
func RetryOnConflict(ctx context.Context, attempts uint, ledger string, op func() error) error {
	if attempts == 0 {
		attempts = 1
	}
	return retry.Do(
		op,
		retry.Context(ctx),
		retry.Attempts(attempts),
		retry.Delay(5*time.Millisecond),
		retry.MaxDelay(50*time.Millisecond),
		retry.MaxJitter(5*time.Millisecond),
		retry.DelayType(retry.CombineDelay(retry.BackOffDelay, retry.RandomDelay)),
		retry.LastErrorOnly(true),
		retry.RetryIf(models.IsConflict),
		retry.OnRetry(func(n uint, err error) {
			metrics.ConflictRetries.WithLabelValues(ledger).Inc()
		}),
	)
}
