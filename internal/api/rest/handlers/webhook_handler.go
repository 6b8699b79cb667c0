package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/humbelmindai/humblemind-bi-platform/internal/domain"
	"github.com/humbelmindai/humblemind-bi-platform/internal/service"
	"github.com/humbelmindai/humblemind-bi-platform/pkg/logger"
)

// WebhookHandler handles inbound gateway notifications
type WebhookHandler struct {
	service service.BillingService
	log     *logger.Logger
}

// NewWebhookHandler creates a new webhook handler
func NewWebhookHandler(billingService service.BillingService, log *logger.Logger) *WebhookHandler {
	return &WebhookHandler{
		service: billingService,
		log:     log,
	}
}

// HandlePayFastWebhook processes a PayFast ITN delivery. The raw body goes
// to the service untouched: the signature covers the fields in the order
// the gateway sent them, so re-encoding the form would break verification.
func (h *WebhookHandler) HandlePayFastWebhook(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		h.log.Error("Failed to read webhook body: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read webhook body"})
		return
	}

	event, err := h.service.HandleNotification(c.Request.Context(), body)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidSignature) {
			h.log.Error("Rejected webhook with invalid signature from %s", c.ClientIP())
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid signature"})
			return
		}
		if domain.IsValidationError(err) {
			h.log.Warn("Rejected malformed webhook: %v", err)
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		h.log.Error("Failed to process webhook: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process webhook"})
		return
	}

	h.log.Info("Processed webhook for payment %s with status %s", event.PaymentID, event.RawStatus)
	c.JSON(http.StatusOK, gin.H{"received": true})
}

// PayFastWebhookInfo answers gateway endpoint verification probes
func (h *WebhookHandler) PayFastWebhookInfo(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "PayFast webhook endpoint"})
}
