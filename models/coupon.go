package models

// CouponRule is a static discount rule. Exactly one of PercentOff and AmountOff is set.
type CouponRule struct {
	Code        string `json:"code"`
	PercentOff  int    `json:"percentOff,omitempty"`
	AmountOff   int64  `json:"amountOff,omitempty"`
	Description string `json:"description"`
	Disabled    bool   `json:"-"`
}

// Discount is the evaluated effect of a coupon.
type Discount struct {
	Code       string `json:"code"`
	PercentOff int    `json:"percentOff,omitempty"`
	AmountOff  int64  `json:"amountOff,omitempty"`
}

type ValidateCouponRequest struct {
	Code string `json:"code" binding:"required"`
}

// CouponValidation is the validateCoupon response body.
type CouponValidation struct {
	Valid      bool   `json:"valid"`
	PercentOff int    `json:"percentOff,omitempty"`
	AmountOff  int64  `json:"amountOff,omitempty"`
	Message    string `json:"message"`
}
