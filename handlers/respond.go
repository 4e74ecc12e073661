package handlers

import (
	"context"
	"errors"
	"net/http"

	"tripmarket/models"
	"tripmarket/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// respondError maps a domain error onto an HTTP status and JSON body.
func respondError(c *gin.Context, err error) {
	if short, ok := models.AsInsufficientInventory(err); ok {
		utils.JSONError(c, http.StatusConflict, "insufficient_inventory", err.Error(), gin.H{
			"required":  short.Requested,
			"available": short.Available,
		})
		return
	}
	if short, ok := models.AsInsufficientCredits(err); ok {
		utils.JSONError(c, http.StatusConflict, "insufficient_credits", err.Error(), gin.H{
			"required":  short.Required,
			"available": short.Available,
		})
		return
	}

	switch {
	case models.IsValidation(err):
		utils.JSONError(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case models.IsInvalidCoupon(err):
		utils.JSONError(c, http.StatusBadRequest, "invalid_coupon", err.Error(), nil)
	case models.IsUnauthorized(err):
		utils.JSONError(c, http.StatusForbidden, "forbidden", err.Error(), nil)
	case models.IsNotFound(err):
		utils.JSONError(c, http.StatusNotFound, "not_found", err.Error(), nil)
	case models.IsConflict(err):
		utils.JSONError(c, http.StatusConflict, "conflict", "The resource is busy, please retry", nil)
	case errors.Is(err, context.DeadlineExceeded):
		utils.JSONError(c, http.StatusGatewayTimeout, "timeout", "The request timed out", nil)
	default:
		getLogger(c).Error("Request failed", zap.String("path", c.FullPath()), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "internal_error", "Internal Server Error", nil)
	}
}

func badInput(c *gin.Context, err error) {
	utils.JSONError(c, http.StatusBadRequest, "invalid_input", "invalid input", err.Error())
}
