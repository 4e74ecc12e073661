package promotion

import (
	"context"
	"time"

	tripRepo "tripmarket/database/repository/trip"
	"tripmarket/models"
	"tripmarket/services/credit"

	"go.uber.org/zap"
)

// PromotionEngine sells and manages trip promotions. Trip.IsPromoted is always
// derived from the promotion list it writes.
type PromotionEngine interface {
	// PromoteTrip returns the new promotion and the vendor balance left after paying for it.
	PromoteTrip(ctx context.Context, vendorID string, req models.PromoteTripRequest) (*models.Promotion, int64, error)
	CancelPromotion(ctx context.Context, vendorID, tripID, promotionID string) error
	ListActivePromotions(ctx context.Context, vendorID string) ([]models.TripPromotions, error)
	ExpirePromotion(ctx context.Context, tripID, promotionID string) error
	SweepLapsed(ctx context.Context) (int, error)
}

// ExpiryScheduler arranges for ExpirePromotion to run when a window closes.
type ExpiryScheduler interface {
	ScheduleExpiry(ctx context.Context, tripID, promotionID string, at time.Time) error
}

type DefaultPromotionEngine struct {
	Trips    tripRepo.TripRepository
	Credits  credit.CreditLedger
	Expiry   ExpiryScheduler
	Logger   *zap.Logger
	Attempts uint
	Now      func() time.Time
}

// NewPromotionEngine wires the engine. expiry may be nil, in which case
// lapsed promotions are only expired lazily on the next write or read.
func NewPromotionEngine(trips tripRepo.TripRepository, credits credit.CreditLedger, expiry ExpiryScheduler, attempts uint, logger *zap.Logger) *DefaultPromotionEngine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DefaultPromotionEngine{
		Trips:    trips,
		Credits:  credits,
		Expiry:   expiry,
		Logger:   logger,
		Attempts: attempts,
		Now:      time.Now,
	}
}
