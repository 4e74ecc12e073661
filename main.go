package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tripmarket/config"
	"tripmarket/cron"
	"tripmarket/handlers"
	"tripmarket/metrics"
	"tripmarket/middleware"
	"tripmarket/routes"
	"tripmarket/services/booking"
	"tripmarket/services/coupon"
	"tripmarket/services/credit"
	"tripmarket/services/inventory"
	"tripmarket/services/pricing"
	"tripmarket/services/promotion"
	"tripmarket/services/tasks"
	"tripmarket/services/trip"
	"tripmarket/utils"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()
	defer logger.Sync()
	metrics.Register()

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	if config.AppConfig.JWTSecret == "" {
		logger.Fatal("main: JWT_SECRET must be set")
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	st, err := openStores(ctx, logger)
	if err != nil {
		logger.Fatal("main: failed to open stores", zap.Error(err))
	}
	defer st.close()

	cfg := config.AppConfig
	attempts := cfg.ConflictRetryAttempts

	// Coupons.
	var redemptions coupon.RedemptionStore
	if cfg.CouponSingleUse {
		redemptions = coupon.NewRedisRedemptionStore(utils.GetCacheClient())
		st.checks["redis"] = func(ctx context.Context) error {
			return utils.GetCacheClient().Ping(ctx).Err()
		}
	}
	couponSvc := coupon.NewCouponEvaluator(coupon.DefaultRules, cfg.CouponSingleUse, redemptions, logger)

	// Promotion expiry runs through asynq when enabled; otherwise promotions
	// expire lazily on read and write.
	var expiry promotion.ExpiryScheduler
	var queue *asynq.Client
	if cfg.ExpiryWorkerEnabled {
		queue = asynq.NewClient(cron.RedisQueueOpt())
		defer queue.Close()
		expiry = tasks.NewAsynqExpiryScheduler(queue)
	}

	// services.
	ledger := inventory.NewInventoryLedger(st.trips, attempts, logger)
	credits := credit.NewCreditLedger(st.accounts, attempts, logger)
	tripSvc := trip.NewTripService(st.trips, attempts, logger)
	promotionSvc := promotion.NewPromotionEngine(st.trips, credits, expiry, attempts, logger)
	bookingSvc := booking.NewBookingService(
		st.trips,
		st.bookings,
		ledger,
		couponSvc,
		pricing.NewCalculator(cfg.PlatformFee),
		attempts,
		logger,
	)

	if cfg.ExpiryWorkerEnabled {
		worker := cron.InitExpiryWorker(ctx, promotionSvc, logger)
		defer worker.Shutdown()
	}
	if cfg.PromotionSweepMinutes > 0 {
		go cron.StartPromotionSweep(ctx, promotionSvc, time.Duration(cfg.PromotionSweepMinutes)*time.Minute, logger)
	}
	utils.StartHealthMonitor(ctx, st.checks, 30*time.Second)

	// Assemble the handler bundle.
	handlerBundle := handlers.NewHandlerBundle(handlers.Services{
		Trips:      tripSvc,
		Bookings:   bookingSvc,
		Coupons:    couponSvc,
		Credits:    credits,
		Promotions: promotionSvc,
	}, []byte(cfg.JWTSecret), cfg.MaxRequestsPerMin)

	// Create the Gin router.
	router := gin.New()
	router.Use(middleware.RequestLogger(logger))
	router.Use(utils.ErrorHandler())
	router.Use(middleware.TimeoutMiddleware(time.Duration(cfg.RequestTimeoutSeconds) * time.Second))

	// Register routes with the assembled handler bundle.
	routes.RegisterRoutes(router, handlerBundle)

	port := cfg.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Info("Starting server", zap.String("addr", srv.Addr), zap.String("storeDriver", cfg.StoreDriver))
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("main: server failed to start", zap.Error(err))
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("main: server is shutting down...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("main: server forced to shutdown", zap.Error(err))
	}

	logger.Info("main: server stopped gracefully")
}
