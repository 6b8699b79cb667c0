package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/humbelmindai/humblemind-bi-platform/internal/domain"
	"github.com/humbelmindai/humblemind-bi-platform/internal/service"
	"github.com/humbelmindai/humblemind-bi-platform/pkg/logger"
)

// PaymentHandler handles payment creation requests from the dashboard
type PaymentHandler struct {
	service service.BillingService
	log     *logger.Logger
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(billingService service.BillingService, log *logger.Logger) *PaymentHandler {
	return &PaymentHandler{
		service: billingService,
		log:     log,
	}
}

// CreatePaymentRequest is the request body for creating a payment
type CreatePaymentRequest struct {
	Amount         float64 `json:"amount" binding:"required,gt=0"`
	ProductName    string  `json:"product_name" binding:"required"`
	CustomerEmail  string  `json:"customer_email" binding:"required,email"`
	CustomerName   string  `json:"customer_name" binding:"required"`
	PaymentType    string  `json:"payment_type" binding:"omitempty,oneof=subscription one_time"`
	OrganizationID string  `json:"organization_id"`
	UserID         string  `json:"user_id"`
}

// CreatePayment creates a gateway payment and returns the redirect URL
func (h *PaymentHandler) CreatePayment(c *gin.Context) {
	var req CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("Invalid payment request: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
		return
	}

	checkout, err := h.service.CreatePayment(c.Request.Context(), service.CreatePaymentRequest{
		Amount:         req.Amount,
		ProductName:    req.ProductName,
		CustomerEmail:  req.CustomerEmail,
		CustomerName:   req.CustomerName,
		PaymentType:    domain.PaymentType(req.PaymentType),
		OrganizationID: req.OrganizationID,
		UserID:         req.UserID,
	})
	if err != nil {
		if domain.IsValidationError(err) {
			h.log.Warn("Payment validation failed: %v", err)
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		h.log.Error("Failed to create payment: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create payment"})
		return
	}

	h.log.Info("Created payment %s for product %s", checkout.PaymentID, req.ProductName)
	c.JSON(http.StatusCreated, gin.H{
		"success":      true,
		"payment_id":   checkout.PaymentID,
		"payment_url":  checkout.PaymentURL,
		"payment_data": checkout.PaymentData,
	})
}
