package handlers

import (
	"net/http"

	"tripmarket/services/coupon"

	"github.com/gin-gonic/gin"
)

type CouponHandler struct {
	Coupons coupon.CouponEvaluator
}

// ValidateCouponHandler handles POST /api/coupons/validate. An unknown code is
// a normal answer, not an error.
func (h *CouponHandler) ValidateCouponHandler(c *gin.Context) {
	var input struct {
		Code string `json:"code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		badInput(c, err)
		return
	}
	c.JSON(http.StatusOK, h.Coupons.Validate(input.Code))
}
