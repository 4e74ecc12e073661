package routes

import (
	"time"

	"tripmarket/handlers"
	"tripmarket/middleware"
	"tripmarket/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterTripRoutes registers the public trip lookup.
func RegisterTripRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/trips")
	{
		api.GET("/:tripId", hb.GetTripHandler)
	}
}

// RegisterBookingRoutes sets up the endpoints for the booking engine.
func RegisterBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/bookings")
	{
		api.POST("", middleware.JWTAuthMiddleware(hb.JWTSecret, utils.RoleUser), hb.CreateBookingHandler)

		// Either party to the booking may read, confirm or cancel it.
		party := api.Group("")
		party.Use(middleware.JWTAuthMiddleware(hb.JWTSecret, utils.RoleUser, utils.RoleVendor))
		party.GET("/:bookingId", hb.GetBookingHandler)
		party.POST("/:bookingId/cancel", hb.CancelBookingHandler)
		party.POST("/:bookingId/confirm", hb.ConfirmBookingHandler)

		api.POST("/:bookingId/complete", middleware.JWTAuthMiddleware(hb.JWTSecret, utils.RoleVendor), hb.CompleteBookingHandler)
	}
}

// RegisterCouponRoutes registers coupon validation.
func RegisterCouponRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/coupons")
	{
		api.POST("/validate", hb.ValidateCouponHandler)
	}
}

// RegisterVendorRoutes registers vendor trips, credits and promotions. Every
// route acts on the :vendorId named in the path and requires that vendor's token.
func RegisterVendorRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/vendors/:vendorId")
	api.Use(middleware.JWTAuthMiddleware(hb.JWTSecret, utils.RoleVendor, utils.RoleAdmin))
	api.Use(middleware.VendorScopeMiddleware())
	{
		api.POST("/trips", hb.CreateTripHandler)
		api.GET("/trips", hb.ListVendorTripsHandler)
		api.PATCH("/trips/:tripId/status", hb.UpdateTripStatusHandler)
		api.DELETE("/trips/:tripId/promotions/:promotionId", hb.CancelPromotionHandler)

		api.POST("/credits/purchase", hb.PurchaseCreditsHandler)
		api.GET("/credits/balance", hb.CreditBalanceHandler)
		api.GET("/credits/history", hb.CreditHistoryHandler)

		api.POST("/promotions", hb.PromoteTripHandler)
		api.GET("/promotions/active", hb.ActivePromotionsHandler)
	}
}

// RegisterOpsRoutes registers health and Prometheus endpoints.
func RegisterOpsRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/health", hb.HealthHandler)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.RateLimitMiddleware(hb.MaxRequestsPerMin))

	RegisterOpsRoutes(r, hb)
	RegisterTripRoutes(r, hb)
	RegisterBookingRoutes(r, hb)
	RegisterCouponRoutes(r, hb)
	RegisterVendorRoutes(r, hb)
}
