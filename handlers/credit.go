package handlers

import (
	"fmt"
	"net/http"

	"tripmarket/models"
	"tripmarket/services/credit"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type CreditHandler struct {
	Credits credit.CreditLedger
}

// PurchaseCreditsHandler handles POST /api/vendors/:vendorId/credits/purchase.
func (h *CreditHandler) PurchaseCreditsHandler(c *gin.Context) {
	var req models.PurchaseCreditsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badInput(c, err)
		return
	}
	vendorID := c.Param("vendorId")

	description := ""
	if req.PackageLabel != "" {
		description = fmt.Sprintf("Purchased %d credits (%s)", req.Amount, req.PackageLabel)
	}
	tx, err := h.Credits.Purchase(c.Request.Context(), vendorID, req.Amount, description)
	if err != nil {
		respondError(c, err)
		return
	}

	getLogger(c).Info("Credits purchased",
		zap.String("vendorId", vendorID),
		zap.Int64("amount", req.Amount),
		zap.Int64("balance", tx.BalanceAfter),
	)
	c.JSON(http.StatusOK, gin.H{"balance": tx.BalanceAfter, "transaction": tx})
}

// CreditBalanceHandler handles GET /api/vendors/:vendorId/credits/balance.
func (h *CreditHandler) CreditBalanceHandler(c *gin.Context) {
	balance, err := h.Credits.GetBalance(c.Request.Context(), c.Param("vendorId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"balance": balance})
}

// CreditHistoryHandler handles GET /api/vendors/:vendorId/credits/history.
func (h *CreditHandler) CreditHistoryHandler(c *gin.Context) {
	history, err := h.Credits.GetHistory(c.Request.Context(), c.Param("vendorId"))
	if err != nil {
		respondError(c, err)
		return
	}
	if history == nil {
		history = []models.CreditTransaction{}
	}
	c.JSON(http.StatusOK, history)
}
