package handlers

import (
	"net/http"

	"tripmarket/models"
	"tripmarket/services/trip"

	"github.com/gin-gonic/gin"
)

type TripHandler struct {
	TripService trip.TripService
}

// CreateTripHandler handles POST /api/vendors/:vendorId/trips.
func (h *TripHandler) CreateTripHandler(c *gin.Context) {
	var req models.CreateTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badInput(c, err)
		return
	}
	t, err := h.TripService.CreateTrip(c.Request.Context(), c.Param("vendorId"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, t)
}

// UpdateTripStatusHandler handles PATCH /api/vendors/:vendorId/trips/:tripId/status.
func (h *TripHandler) UpdateTripStatusHandler(c *gin.Context) {
	var input struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		badInput(c, err)
		return
	}
	status, ok := models.ParseTripStatus(input.Status)
	if !ok {
		respondError(c, models.ValidationError{Field: "status", Msg: "unknown trip status"})
		return
	}
	t, err := h.TripService.UpdateStatus(c.Request.Context(), c.Param("vendorId"), c.Param("tripId"), status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

// ListVendorTripsHandler handles GET /api/vendors/:vendorId/trips.
func (h *TripHandler) ListVendorTripsHandler(c *gin.Context) {
	trips, err := h.TripService.ListVendorTrips(c.Request.Context(), c.Param("vendorId"))
	if err != nil {
		respondError(c, err)
		return
	}
	if trips == nil {
		trips = []models.Trip{}
	}
	c.JSON(http.StatusOK, trips)
}

// GetTripHandler handles GET /api/trips/:tripId.
func (h *TripHandler) GetTripHandler(c *gin.Context) {
	t, err := h.TripService.GetTrip(c.Request.Context(), c.Param("tripId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}
