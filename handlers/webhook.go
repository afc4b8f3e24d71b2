package handlers

import (
	"errors"
	"net/http"

	"jasaku/models"
	"jasaku/services/reconcile"
	"jasaku/services/webhook"
	"jasaku/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CallbackTokenHeader carries the gateway's shared-secret token.
const CallbackTokenHeader = "x-callback-token"

// WebhookHandler serves the payment gateway callback endpoint.
type WebhookHandler struct {
	Service webhook.Service
	Logger  *zap.Logger
}

// NewWebhookHandler creates a WebhookHandler.
func NewWebhookHandler(svc webhook.Service, logger *zap.Logger) *WebhookHandler {
	return &WebhookHandler{Service: svc, Logger: logger}
}

// PaymentWebhookHandler ingests one gateway notification. Syntactically valid,
// authenticated deliveries always get an HTTP success, including idempotent
// replays and unmapped events, so the gateway does not retry them forever.
// A transition the engine refuses is acknowledged too and only logged; the
// gateway cannot fix it by retrying.
func (h *WebhookHandler) PaymentWebhookHandler(c *gin.Context) {
	var event models.GatewayEvent
	if err := c.ShouldBindJSON(&event); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid webhook payload", err.Error())
		return
	}

	token := c.GetHeader(CallbackTokenHeader)
	result, err := h.Service.Process(c.Request.Context(), token, event)
	if err != nil {
		switch {
		case errors.Is(err, webhook.ErrInvalidToken):
			utils.JSONError(c, http.StatusUnauthorized, "invalid callback token", "")
		case errors.Is(err, webhook.ErrMalformedEvent), errors.Is(err, webhook.ErrMalformedExternalID):
			utils.JSONError(c, http.StatusBadRequest, "malformed webhook event", err.Error())
		case errors.Is(err, reconcile.ErrNotFound):
			utils.JSONError(c, http.StatusNotFound, "unknown booking or payment", err.Error())
		case errors.Is(err, reconcile.ErrConflict):
			// A retry should resolve a lost race.
			utils.JSONError(c, http.StatusConflict, "concurrent state change, retry", err.Error())
		case errors.Is(err, reconcile.ErrInvalidTransition), errors.Is(err, reconcile.ErrInconsistentJointState):
			h.Logger.Warn("webhook event refused by reconciliation engine",
				zap.String("event", event.Event),
				zap.String("externalId", event.Data.ExternalID),
				zap.Error(err),
			)
			c.JSON(http.StatusOK, webhook.Result{
				Message:    "event acknowledged but not applied",
				ExternalID: event.Data.ExternalID,
				Event:      event.Event,
			})
		default:
			h.Logger.Error("webhook processing failed", zap.Error(err))
			utils.JSONError(c, http.StatusInternalServerError, "failed to process webhook", "")
		}
		return
	}

	c.JSON(http.StatusOK, result)
}

// WebhookLivenessHandler answers gateway health probes on the callback path.
func (h *WebhookHandler) WebhookLivenessHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "payment webhook endpoint is live"})
}
