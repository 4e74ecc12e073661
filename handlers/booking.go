package handlers

import (
	"net/http"

	"tripmarket/models"
	"tripmarket/services/booking"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type BookingHandler struct {
	BookingService booking.BookingService
}

// CreateBookingHandler handles POST /api/bookings.
func (h *BookingHandler) CreateBookingHandler(c *gin.Context) {
	var req models.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badInput(c, err)
		return
	}

	b, err := h.BookingService.CreateBooking(c.Request.Context(), subject(c), req)
	if err != nil {
		getLogger(c).Info("Booking rejected", zap.String("tripId", req.TripID), zap.Error(err))
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"bookingId":     b.ID,
		"totalAmount":   b.TotalAmount,
		"bookingStatus": b.BookingStatus,
		"pricing":       b.Pricing,
	})
}

// GetBookingHandler handles GET /api/bookings/:bookingId.
func (h *BookingHandler) GetBookingHandler(c *gin.Context) {
	b, err := h.BookingService.GetBooking(c.Request.Context(), c.Param("bookingId"), subject(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// CancelBookingHandler handles POST /api/bookings/:bookingId/cancel.
func (h *BookingHandler) CancelBookingHandler(c *gin.Context) {
	b, err := h.BookingService.CancelBooking(c.Request.Context(), c.Param("bookingId"), subject(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// ConfirmBookingHandler handles POST /api/bookings/:bookingId/confirm.
func (h *BookingHandler) ConfirmBookingHandler(c *gin.Context) {
	b, err := h.BookingService.ConfirmBooking(c.Request.Context(), c.Param("bookingId"), subject(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// CompleteBookingHandler handles POST /api/bookings/:bookingId/complete.
func (h *BookingHandler) CompleteBookingHandler(c *gin.Context) {
	b, err := h.BookingService.CompleteBooking(c.Request.Context(), c.Param("bookingId"), subject(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}
