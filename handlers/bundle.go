package handlers

import "github.com/gin-gonic/gin"

// HandlerBundle aggregates the route handlers wired in main.
type HandlerBundle struct {
	// Webhook endpoints.
	PaymentWebhookHandler  gin.HandlerFunc
	WebhookLivenessHandler gin.HandlerFunc

	// Booking endpoints.
	CreateBookingHandler       gin.HandlerFunc
	GetBookingHandler          gin.HandlerFunc
	InitiatePaymentHandler     gin.HandlerFunc
	UpdateBookingStatusHandler gin.HandlerFunc

	// Admin endpoints.
	RefundPaymentHandler gin.HandlerFunc
}
