// File: jasaku/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"jasaku/config"
	"jasaku/database"
	bookingRepoPkg "jasaku/database/repository/booking"
	paymentRepoPkg "jasaku/database/repository/payment"
	reconcileRepoPkg "jasaku/database/repository/reconcile"
	"jasaku/events"
	"jasaku/handlers"
	"jasaku/middleware"
	"jasaku/routes"
	bookingSvc "jasaku/services/booking"
	"jasaku/services/notification"
	"jasaku/services/reconcile"
	webhookSvc "jasaku/services/webhook"
	"jasaku/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()
	utils.FirebaseInit()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())
	router.Use(cors.Default())

	// repositories.
	bookingRepo := bookingRepoPkg.NewMongoBookingRepo()
	paymentRepo := paymentRepoPkg.NewMongoPaymentRepo()
	reconcileStore := reconcileRepoPkg.NewMongoReconciliationStore()

	if err := paymentRepo.EnsureIndexes(context.Background()); err != nil {
		logger.Sugar().Fatalf("main: failed to ensure payment indexes: %v", err)
	}

	// services.
	publisher := events.NewAsynqPublisher(logger)
	defer publisher.Close()

	reconciler := reconcile.NewReconciler(reconcileStore, publisher, logger)

	bookingService := &bookingSvc.DefaultBookingService{
		Bookings:   bookingRepo,
		Payments:   paymentRepo,
		Reconciler: reconciler,
		Prefix:     config.AppConfig.ExternalIDPrefix,
		Logger:     logger,
	}

	webhookService := &webhookSvc.DefaultService{
		CallbackToken: config.AppConfig.WebhookCallbackToken,
		Prefix:        config.AppConfig.ExternalIDPrefix,
		Engine:        reconciler,
		Dedupe:        utils.GetCacheClient(),
		Logger:        logger,
	}

	notificationService := &notification.FCMNotificationService{Logger: logger}
	events.InitStateChangeWorker(notificationService)

	bookingHandler := handlers.NewBookingHandler(bookingService, logger)
	webhookHandler := handlers.NewWebhookHandler(webhookService, logger)
	refundHandler := handlers.NewRefundHandler(reconciler, logger)

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		PaymentWebhookHandler:  webhookHandler.PaymentWebhookHandler,
		WebhookLivenessHandler: webhookHandler.WebhookLivenessHandler,

		CreateBookingHandler:       bookingHandler.CreateBookingHandler,
		GetBookingHandler:          bookingHandler.GetBookingHandler,
		InitiatePaymentHandler:     bookingHandler.InitiatePaymentHandler,
		UpdateBookingStatusHandler: bookingHandler.UpdateBookingStatusHandler,

		RefundPaymentHandler: refundHandler.RefundPaymentHandler,
	}

	// Register routes with the assembled handler bundle.
	routes.RegisterRoutes(router, handlerBundle)

	utils.StartHealthMonitor(utils.GetCacheClient(), database.MongoClient)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
