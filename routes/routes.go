package routes

import (
	"net/http"

	"jasaku/handlers"
	"jasaku/middleware"
	"jasaku/utils"

	"github.com/gin-gonic/gin"
)

// RegisterWebhookRoutes registers the payment gateway callback endpoints.
// Authentication happens inside the service via the shared callback token,
// so no actor middleware runs here.
func RegisterWebhookRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/webhooks")
	{
		api.POST("/payment", hb.PaymentWebhookHandler)
		api.GET("/payment", hb.WebhookLivenessHandler)
	}
}

// RegisterBookingRoutes registers the human-facing booking endpoints.
func RegisterBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/bookings")
	api.Use(middleware.ActorAuthMiddleware())
	{
		api.POST("", hb.CreateBookingHandler)
		api.GET("/:id", hb.GetBookingHandler)
		api.POST("/:id/payment", hb.InitiatePaymentHandler)
		api.PATCH("/:id/status", hb.UpdateBookingStatusHandler)
		api.POST("/:id/refund", middleware.RequireAdmin(), hb.RefundPaymentHandler)
	}
}

// RegisterRoutes wires all endpoint groups plus the health probe.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	RegisterWebhookRoutes(r, hb)
	RegisterBookingRoutes(r, hb)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, utils.GetHealthStatus())
	})
}
