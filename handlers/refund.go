package handlers

import (
	"net/http"

	"jasaku/middleware"
	"jasaku/services/reconcile"
	"jasaku/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RefundHandler serves the admin refund endpoint.
type RefundHandler struct {
	Reconciler reconcile.Reconciler
	Logger     *zap.Logger
}

// NewRefundHandler creates a RefundHandler.
func NewRefundHandler(rec reconcile.Reconciler, logger *zap.Logger) *RefundHandler {
	return &RefundHandler{Reconciler: rec, Logger: logger}
}

// RefundPaymentHandler reverses a completed payment: Payment -> REFUNDED,
// Booking -> CANCELLED, in one atomic unit.
func (h *RefundHandler) RefundPaymentHandler(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "missing actor context", "")
		return
	}

	var input struct {
		PaymentID string  `json:"payment_id"`
		Amount    float64 `json:"amount" binding:"required"`
		Reason    string  `json:"reason"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	result, err := h.Reconciler.Refund(c.Request.Context(), reconcile.RefundRequest{
		BookingID: c.Param("id"),
		PaymentID: input.PaymentID,
		Amount:    input.Amount,
		Reason:    input.Reason,
		Actor:     actor,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	h.Logger.Info("refund applied",
		zap.String("bookingId", result.Booking.ID),
		zap.Float64("amount", input.Amount),
		zap.String("adminId", actor.ID),
	)
	c.JSON(http.StatusOK, gin.H{"booking": result.Booking, "payment": result.Payment})
}
