package coupon

import (
	"context"
	"fmt"

	"tripmarket/models"

	"go.uber.org/zap"
)

// Evaluate is a pure lookup over the rule table.
func (e *DefaultCouponEvaluator) Evaluate(code string) (models.Discount, error) {
	key := normalize(code)
	if key == "" {
		return models.Discount{}, models.InvalidCouponError{Code: code, Reason: "code is empty"}
	}
	rule, ok := e.Rules[key]
	if !ok {
		return models.Discount{}, models.InvalidCouponError{Code: key, Reason: "unknown code"}
	}
	if rule.Disabled {
		return models.Discount{}, models.InvalidCouponError{Code: key, Reason: "code is no longer active"}
	}
	return models.Discount{Code: key, PercentOff: rule.PercentOff, AmountOff: rule.AmountOff}, nil
}

// Validate shapes Evaluate's answer for the coupon check endpoint.
func (e *DefaultCouponEvaluator) Validate(code string) models.CouponValidation {
	d, err := e.Evaluate(code)
	if err != nil {
		return models.CouponValidation{Valid: false, Message: "Invalid coupon code"}
	}
	msg := fmt.Sprintf("%d%% discount applied", d.PercentOff)
	if d.AmountOff > 0 {
		msg = fmt.Sprintf("%d off applied", d.AmountOff)
	}
	return models.CouponValidation{
		Valid:      true,
		PercentOff: d.PercentOff,
		AmountOff:  d.AmountOff,
		Message:    msg,
	}
}

// Redeem claims code for userID. It is a no-op unless single-use is enabled.
func (e *DefaultCouponEvaluator) Redeem(ctx context.Context, code, userID string) error {
	if !e.SingleUse {
		return nil
	}
	key := normalize(code)
	ok, err := e.Redemptions.Claim(ctx, key, userID)
	if err != nil {
		return fmt.Errorf("failed to record coupon redemption: %w", err)
	}
	if !ok {
		return models.InvalidCouponError{Code: key, Reason: "already redeemed"}
	}
	return nil
}

// Unredeem gives a claimed code back, used when the booking it was claimed
// for does not go through.
func (e *DefaultCouponEvaluator) Unredeem(ctx context.Context, code, userID string) error {
	if !e.SingleUse {
		return nil
	}
	key := normalize(code)
	if err := e.Redemptions.Release(ctx, key, userID); err != nil {
		e.Logger.Warn("Failed to release coupon redemption",
			zap.String("code", key),
			zap.String("userId", userID),
			zap.Error(err),
		)
		return err
	}
	return nil
}
