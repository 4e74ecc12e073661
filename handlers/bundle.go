package handlers

import (
	"tripmarket/services/booking"
	"tripmarket/services/coupon"
	"tripmarket/services/credit"
	"tripmarket/services/promotion"
	"tripmarket/services/trip"

	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	JWTSecret         []byte
	MaxRequestsPerMin int

	// Trip endpoints
	CreateTripHandler       gin.HandlerFunc
	UpdateTripStatusHandler gin.HandlerFunc
	ListVendorTripsHandler  gin.HandlerFunc
	GetTripHandler          gin.HandlerFunc

	// Booking endpoints
	CreateBookingHandler   gin.HandlerFunc
	GetBookingHandler      gin.HandlerFunc
	CancelBookingHandler   gin.HandlerFunc
	ConfirmBookingHandler  gin.HandlerFunc
	CompleteBookingHandler gin.HandlerFunc

	// Coupon endpoints
	ValidateCouponHandler gin.HandlerFunc

	// Vendor credit endpoints
	PurchaseCreditsHandler gin.HandlerFunc
	CreditBalanceHandler   gin.HandlerFunc
	CreditHistoryHandler   gin.HandlerFunc

	// Promotion endpoints
	PromoteTripHandler      gin.HandlerFunc
	ActivePromotionsHandler gin.HandlerFunc
	CancelPromotionHandler  gin.HandlerFunc

	HealthHandler gin.HandlerFunc
}

// Services is everything the HTTP layer calls into.
type Services struct {
	Trips      trip.TripService
	Bookings   booking.BookingService
	Coupons    coupon.CouponEvaluator
	Credits    credit.CreditLedger
	Promotions promotion.PromotionEngine
}

// NewHandlerBundle builds the handler structs over svc and collects their endpoints.
func NewHandlerBundle(svc Services, jwtSecret []byte, maxRequestsPerMin int) *HandlerBundle {
	tripHandler := &TripHandler{TripService: svc.Trips}
	bookingHandler := &BookingHandler{BookingService: svc.Bookings}
	couponHandler := &CouponHandler{Coupons: svc.Coupons}
	creditHandler := &CreditHandler{Credits: svc.Credits}
	promotionHandler := &PromotionHandler{Promotions: svc.Promotions}

	return &HandlerBundle{
		JWTSecret:         jwtSecret,
		MaxRequestsPerMin: maxRequestsPerMin,

		CreateTripHandler:       tripHandler.CreateTripHandler,
		UpdateTripStatusHandler: tripHandler.UpdateTripStatusHandler,
		ListVendorTripsHandler:  tripHandler.ListVendorTripsHandler,
		GetTripHandler:          tripHandler.GetTripHandler,

		CreateBookingHandler:   bookingHandler.CreateBookingHandler,
		GetBookingHandler:      bookingHandler.GetBookingHandler,
		CancelBookingHandler:   bookingHandler.CancelBookingHandler,
		ConfirmBookingHandler:  bookingHandler.ConfirmBookingHandler,
		CompleteBookingHandler: bookingHandler.CompleteBookingHandler,

		ValidateCouponHandler: couponHandler.ValidateCouponHandler,

		PurchaseCreditsHandler: creditHandler.PurchaseCreditsHandler,
		CreditBalanceHandler:   creditHandler.CreditBalanceHandler,
		CreditHistoryHandler:   creditHandler.CreditHistoryHandler,

		PromoteTripHandler:      promotionHandler.PromoteTripHandler,
		ActivePromotionsHandler: promotionHandler.ActivePromotionsHandler,
		CancelPromotionHandler:  promotionHandler.CancelPromotionHandler,

		HealthHandler: HealthHandler,
	}
}
