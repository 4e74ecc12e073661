package promotion

import (
	"context"
	"fmt"
	"time"

	"tripmarket/metrics"
	"tripmarket/models"
	"tripmarket/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func describe(opt models.PromotionOption, trip *models.Trip) string {
	switch o := opt.(type) {
	case models.HomepageSpotlight:
		return fmt.Sprintf("Homepage spotlight for %d days: %s", o.Duration, trip.Title)
	case models.EmailCampaign:
		return fmt.Sprintf("Email campaign: %s", trip.Title)
	case models.SocialBoost:
		return fmt.Sprintf("Social boost: %s", trip.Title)
	}
	return string(opt.Type())
}

func (e *DefaultPromotionEngine) loadOwned(ctx context.Context, vendorID, tripID string) (*models.Trip, error) {
	trip, err := e.Trips.GetByID(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if trip.VendorID != vendorID {
		return nil, models.UnauthorizedError{Msg: "trip does not belong to this vendor"}
	}
	return trip, nil
}

func (e *DefaultPromotionEngine) PromoteTrip(ctx context.Context, vendorID string, req models.PromoteTripRequest) (*models.Promotion, int64, error) {
	opt, err := models.ParsePromotionOption(req.Type, req.Duration)
	if err != nil {
		return nil, 0, err
	}

	trip, err := e.loadOwned(ctx, vendorID, req.TripID)
	if err != nil {
		return nil, 0, err
	}
	if trip.Status != models.TripPublished {
		return nil, 0, models.ValidationError{Field: "tripId", Msg: "only published trips can be promoted"}
	}

	cost := opt.Cost()
	spend, err := e.Credits.Spend(ctx, vendorID, cost, describe(opt, trip), trip.ID)
	if err != nil {
		return nil, 0, err
	}

	now := e.Now().UTC()
	start, end := models.PromotionWindow(opt, now)
	promo := models.Promotion{
		ID:           uuid.New().String(),
		TripID:       trip.ID,
		Type:         opt.Type(),
		StartDate:    start,
		EndDate:      end,
		CreditsSpent: cost,
		Status:       models.PromotionActive,
		CreatedAt:    now,
	}

	err = e.mutate(ctx, trip.ID, func(t *models.Trip) (bool, error) {
		t.Promotions = append(t.Promotions, promo)
		return true, nil
	})
	if err != nil {
		e.refund(ctx, vendorID, trip.ID, cost, err)
		return nil, 0, err
	}

	if e.Expiry != nil {
		if err := e.Expiry.ScheduleExpiry(ctx, trip.ID, promo.ID, end); err != nil {
			e.Logger.Warn("Failed to schedule promotion expiry",
				zap.String("tripId", trip.ID),
				zap.String("promotionId", promo.ID),
				zap.Error(err),
			)
		}
	}

	metrics.PromotionsPurchased.WithLabelValues(string(promo.Type)).Inc()
	e.Logger.Info("Trip promoted",
		zap.String("vendorId", vendorID),
		zap.String("tripId", trip.ID),
		zap.String("promotionId", promo.ID),
		zap.String("type", string(promo.Type)),
		zap.Int64("credits", cost),
		zap.Time("endDate", end),
	)
	return &promo, spend.BalanceAfter, nil
}

// refund puts back credits spent on a promotion that could not be stored. It
// runs detached from the request so a cancelled caller still gets its money back.
func (e *DefaultPromotionEngine) refund(ctx context.Context, vendorID, tripID string, amount int64, cause error) {
	rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()

	if _, err := e.Credits.Refund(rctx, vendorID, amount, "Refund: promotion could not be activated", tripID); err != nil {
		e.Logger.Error("Failed to refund promotion spend",
			zap.String("vendorId", vendorID),
			zap.String("tripId", tripID),
			zap.Int64("amount", amount),
			zap.NamedError("cause", cause),
			zap.Error(err),
		)
		return
	}
	e.Logger.Warn("Promotion spend refunded",
		zap.String("vendorId", vendorID),
		zap.String("tripId", tripID),
		zap.Int64("amount", amount),
		zap.NamedError("cause", cause),
	)
}

// mutate applies change to a fresh copy of the trip's promotions, expires
// lapsed entries, recomputes IsPromoted and writes the list back under the
// promotions version. change returning false skips the write.
func (e *DefaultPromotionEngine) mutate(ctx context.Context, tripID string, change func(*models.Trip) (bool, error)) error {
	return utils.RetryOnConflict(ctx, e.Attempts, "promotion", func() error {
		trip, err := e.Trips.GetByID(ctx, tripID)
		if err != nil {
			return err
		}
		now := e.Now()
		lapsed := trip.ExpireLapsed(now)
		write, err := change(trip)
		if err != nil {
			return err
		}
		if !write && !lapsed {
			return nil
		}
		trip.RecomputePromoted(now)
		return e.Trips.ReplacePromotions(ctx, tripID, trip.PromotionsVersion, trip.Promotions, trip.IsPromoted)
	})
}

// CancelPromotion stops a promotion early. Spent credits are not returned.
func (e *DefaultPromotionEngine) CancelPromotion(ctx context.Context, vendorID, tripID, promotionID string) error {
	if _, err := e.loadOwned(ctx, vendorID, tripID); err != nil {
		return err
	}

	cancelled := false
	err := e.mutate(ctx, tripID, func(t *models.Trip) (bool, error) {
		for i := range t.Promotions {
			p := &t.Promotions[i]
			if p.ID != promotionID {
				continue
			}
			switch p.Status {
			case models.PromotionCancelled:
				return false, nil
			case models.PromotionExpired:
				return false, models.ValidationError{Field: "promotionId", Msg: "promotion has already expired"}
			}
			p.Status = models.PromotionCancelled
			cancelled = true
			return true, nil
		}
		return false, models.NotFoundError{Resource: "promotion", ID: promotionID}
	})
	if err != nil {
		return err
	}

	if cancelled {
		e.Logger.Info("Promotion cancelled",
			zap.String("vendorId", vendorID),
			zap.String("tripId", tripID),
			zap.String("promotionId", promotionID),
		)
	}
	return nil
}

// ListActivePromotions groups the vendor's live promotions by trip. Trips
// with nothing live are left out.
func (e *DefaultPromotionEngine) ListActivePromotions(ctx context.Context, vendorID string) ([]models.TripPromotions, error) {
	trips, err := e.Trips.ListByVendor(ctx, vendorID)
	if err != nil {
		return nil, err
	}

	now := e.Now()
	out := []models.TripPromotions{}
	for i := range trips {
		var live []models.Promotion
		for j := range trips[i].Promotions {
			if trips[i].Promotions[j].IsActiveAt(now) {
				live = append(live, trips[i].Promotions[j])
			}
		}
		if len(live) == 0 {
			continue
		}
		out = append(out, models.TripPromotions{
			TripID:      trips[i].ID,
			Title:       trips[i].Title,
			Destination: trips[i].Destination,
			Promotions:  live,
		})
	}
	return out, nil
}

// ExpirePromotion is run by the expiry worker once a window closes. It is a
// no-op for promotions that are no longer active or not yet due.
func (e *DefaultPromotionEngine) ExpirePromotion(ctx context.Context, tripID, promotionID string) error {
	found := false
	err := e.mutate(ctx, tripID, func(t *models.Trip) (bool, error) {
		for i := range t.Promotions {
			if t.Promotions[i].ID == promotionID {
				found = true
				break
			}
		}
		return false, nil
	})
	if err != nil {
		return err
	}
	if !found {
		return models.NotFoundError{Resource: "promotion", ID: promotionID}
	}
	e.Logger.Debug("Promotion expiry processed",
		zap.String("tripId", tripID),
		zap.String("promotionId", promotionID),
	)
	return nil
}

// SweepLapsed expires every lapsed promotion on promoted trips and returns
// how many trips were rewritten. It backs up the expiry worker.
func (e *DefaultPromotionEngine) SweepLapsed(ctx context.Context) (int, error) {
	trips, err := e.Trips.ListPromoted(ctx)
	if err != nil {
		return 0, err
	}

	now := e.Now()
	swept := 0
	for i := range trips {
		probe := trips[i]
		if !probe.ExpireLapsed(now) {
			continue
		}
		if err := e.mutate(ctx, probe.ID, func(*models.Trip) (bool, error) { return false, nil }); err != nil {
			if models.IsNotFound(err) {
				continue
			}
			return swept, fmt.Errorf("failed to sweep trip %s: %w", probe.ID, err)
		}
		swept++
	}
	if swept > 0 {
		e.Logger.Info("Expired lapsed promotions", zap.Int("trips", swept))
	}
	return swept, nil
}
