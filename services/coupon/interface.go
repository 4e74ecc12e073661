package coupon

import (
	"context"
	"strings"

	"tripmarket/models"

	"go.uber.org/zap"
)

// CouponEvaluator resolves coupon codes against the static rule table and,
// when single-use is switched on, tracks one redemption per user and code.
type CouponEvaluator interface {
	Evaluate(code string) (models.Discount, error)
	Validate(code string) models.CouponValidation
	Redeem(ctx context.Context, code, userID string) error
	Unredeem(ctx context.Context, code, userID string) error
}

// RedemptionStore records which user has used which code.
type RedemptionStore interface {
	// Claim marks code as used by userID and reports false if it already was.
	Claim(ctx context.Context, code, userID string) (bool, error)
	Release(ctx context.Context, code, userID string) error
}

type DefaultCouponEvaluator struct {
	Rules       map[string]models.CouponRule
	SingleUse   bool
	Redemptions RedemptionStore
	Logger      *zap.Logger
}

// DefaultRules is the coupon table shipped with the marketplace.
var DefaultRules = []models.CouponRule{
	{Code: "GENZ20", PercentOff: 20, Description: "20% off for Gen Z travellers"},
	{Code: "WELCOME10", PercentOff: 10, Description: "10% off your first trip"},
	{Code: "MONSOON15", PercentOff: 15, Description: "15% off monsoon getaways"},
	{Code: "FLAT500", AmountOff: 500, Description: "500 off any booking"},
	{Code: "FLAT1000", AmountOff: 1000, Description: "1000 off any booking"},
}

// NewCouponEvaluator builds an evaluator over rules. redemptions may be nil
// when singleUse is false.
func NewCouponEvaluator(rules []models.CouponRule, singleUse bool, redemptions RedemptionStore, logger *zap.Logger) *DefaultCouponEvaluator {
	if logger == nil {
		logger = zap.NewNop()
	}
	table := make(map[string]models.CouponRule, len(rules))
	for _, r := range rules {
		table[normalize(r.Code)] = r
	}
	return &DefaultCouponEvaluator{
		Rules:       table,
		SingleUse:   singleUse && redemptions != nil,
		Redemptions: redemptions,
		Logger:      logger,
	}
}

func normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
