package handlers

import (
	"net/http"

	"tripmarket/models"
	"tripmarket/services/promotion"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type PromotionHandler struct {
	Promotions promotion.PromotionEngine
}

// PromoteTripHandler handles POST /api/vendors/:vendorId/promotions.
func (h *PromotionHandler) PromoteTripHandler(c *gin.Context) {
	var req models.PromoteTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badInput(c, err)
		return
	}
	vendorID := c.Param("vendorId")

	promo, remaining, err := h.Promotions.PromoteTrip(c.Request.Context(), vendorID, req)
	if err != nil {
		getLogger(c).Info("Promotion rejected",
			zap.String("vendorId", vendorID),
			zap.String("tripId", req.TripID),
			zap.Error(err),
		)
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"promotion": promo, "remainingBalance": remaining})
}

// ActivePromotionsHandler handles GET /api/vendors/:vendorId/promotions/active.
func (h *PromotionHandler) ActivePromotionsHandler(c *gin.Context) {
	active, err := h.Promotions.ListActivePromotions(c.Request.Context(), c.Param("vendorId"))
	if err != nil {
		respondError(c, err)
		return
	}
	if active == nil {
		active = []models.TripPromotions{}
	}
	c.JSON(http.StatusOK, active)
}

// CancelPromotionHandler handles DELETE /api/vendors/:vendorId/trips/:tripId/promotions/:promotionId.
func (h *PromotionHandler) CancelPromotionHandler(c *gin.Context) {
	err := h.Promotions.CancelPromotion(c.Request.Context(), c.Param("vendorId"), c.Param("tripId"), c.Param("promotionId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Promotion cancelled"})
}
