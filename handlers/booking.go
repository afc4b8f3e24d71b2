package handlers

import (
	"errors"
	"net/http"

	"jasaku/middleware"
	"jasaku/models"
	"jasaku/services/booking"
	"jasaku/services/reconcile"
	"jasaku/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BookingHandler serves the human-facing booking endpoints.
type BookingHandler struct {
	Service booking.BookingService
	Logger  *zap.Logger
}

// NewBookingHandler creates a BookingHandler.
func NewBookingHandler(svc booking.BookingService, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{Service: svc, Logger: logger}
}

// CreateBookingHandler records a new service request for the calling customer.
func (h *BookingHandler) CreateBookingHandler(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "missing actor context", "")
		return
	}

	var input booking.CreateBookingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	created, err := h.Service.CreateBooking(c.Request.Context(), input, actor)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// GetBookingHandler returns the booking/payment projection.
func (h *BookingHandler) GetBookingHandler(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "missing actor context", "")
		return
	}

	view, err := h.Service.GetBooking(c.Request.Context(), c.Param("id"), actor)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// InitiatePaymentHandler creates the booking's payment and returns the
// external correlation id for the gateway checkout.
func (h *BookingHandler) InitiatePaymentHandler(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "missing actor context", "")
		return
	}

	var input struct {
		Method string `json:"method"`
	}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&input); err != nil {
			utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
			return
		}
	}

	payment, err := h.Service.InitiatePayment(c.Request.Context(), c.Param("id"), input.Method, actor)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, payment)
}

// UpdateBookingStatusHandler applies a human transition request; rejected
// transitions surface the specific reason, never a silent ignore.
func (h *BookingHandler) UpdateBookingStatusHandler(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "missing actor context", "")
		return
	}

	var input struct {
		Status models.BookingStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	result, err := h.Service.ChangeStatus(c.Request.Context(), c.Param("id"), input.Status, actor)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	response := gin.H{"booking": result.Booking, "changed": result.Changed}
	if result.Payment != nil {
		response["payment"] = result.Payment
	}
	c.JSON(http.StatusOK, response)
}

// respondServiceError maps the typed rejection taxonomy onto HTTP statuses.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, reconcile.ErrUnauthorized):
		utils.JSONError(c, http.StatusForbidden, "not allowed on this booking", err.Error())
	case errors.Is(err, reconcile.ErrNotFound):
		utils.JSONError(c, http.StatusNotFound, "not found", err.Error())
	case errors.Is(err, reconcile.ErrConflict):
		utils.JSONError(c, http.StatusConflict, "state changed concurrently", err.Error())
	case errors.Is(err, reconcile.ErrInvalidTransition),
		errors.Is(err, reconcile.ErrInconsistentJointState),
		errors.Is(err, reconcile.ErrRefundNotAllowed),
		errors.Is(err, reconcile.ErrInvalidRefundAmount),
		errors.Is(err, booking.ErrInvalidInput),
		errors.Is(err, booking.ErrNotPayable):
		utils.JSONError(c, http.StatusBadRequest, "request rejected", err.Error())
	default:
		zap.L().Error("unhandled service error", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "internal error", "")
	}
}
