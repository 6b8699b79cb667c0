package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/humbelmindai/humblemind-bi-platform/internal/metrics"
	"github.com/humbelmindai/humblemind-bi-platform/internal/payfast"
	"github.com/humbelmindai/humblemind-bi-platform/internal/repository"
	"github.com/humbelmindai/humblemind-bi-platform/internal/service"
	"github.com/humbelmindai/humblemind-bi-platform/pkg/logger"
)

const testPassphrase = "k0XGylo1g88Bd39BpT9LM"

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := logger.New(logger.ERROR)
	gateway := payfast.NewClient(payfast.Config{
		MerchantID:  "17365187",
		MerchantKey: "s0am9bnarksn8",
		Passphrase:  testPassphrase,
		Sandbox:     true,
	}, log)

	billingService := service.NewBillingService(
		gateway,
		repository.NewInMemorySubscriptionRepository(log),
		repository.NewInMemoryInvoiceRepository(log),
		repository.NewInMemoryActivityRepository(log),
		nil,
		metrics.NewBillingMetrics(prometheus.NewRegistry(), log),
		"https://app.example.com",
		log,
	)

	r := gin.New()
	paymentHandler := NewPaymentHandler(billingService, log)
	webhookHandler := NewWebhookHandler(billingService, log)
	r.POST("/api/v1/payments", paymentHandler.CreatePayment)
	r.POST("/webhooks/payfast", webhookHandler.HandlePayFastWebhook)
	r.GET("/webhooks/payfast", webhookHandler.PayFastWebhookInfo)
	return r
}

func signedWebhookBody(status string) []byte {
	var fields payfast.Fields
	fields.Add("m_payment_id", "payment_1756300000000_a1b2c3d4")
	fields.Add("pf_payment_id", "1089250")
	fields.Add("payment_status", status)
	fields.Add("item_name", "BI Professional")
	fields.Add("amount_gross", "899.00")
	fields.Add("amount_fee", "-20.68")
	fields.Add("amount_net", "878.32")
	fields.Add("custom_str1", "org_42")
	fields.Add("custom_str2", "user_7")
	fields.Add(payfast.SignatureField, fields.Sign(testPassphrase))
	return []byte(fields.Encode())
}

func TestHandlePayFastWebhookOK(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/webhooks/payfast", bytes.NewReader(signedWebhookBody("COMPLETE")))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var response map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, true, response["received"])
}

func TestHandlePayFastWebhookInvalidSignature(t *testing.T) {
	router := newTestRouter(t)

	body := strings.ReplaceAll(string(signedWebhookBody("COMPLETE")), "amount_gross=899.00", "amount_gross=1.00")
	req := httptest.NewRequest(http.MethodPost, "/webhooks/payfast", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid signature")
}

func TestHandlePayFastWebhookMalformedBody(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/webhooks/payfast", strings.NewReader(""))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPayFastWebhookInfo(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/webhooks/payfast", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCreatePaymentEndpoint(t *testing.T) {
	router := newTestRouter(t)

	payload := `{
		"amount": 899,
		"product_name": "BI Professional",
		"customer_email": "jane@example.com",
		"customer_name": "Jane Doe",
		"payment_type": "subscription",
		"organization_id": "org_42",
		"user_id": "user_7"
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	var response struct {
		Success    bool   `json:"success"`
		PaymentID  string `json:"payment_id"`
		PaymentURL string `json:"payment_url"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.True(t, response.Success)
	assert.True(t, strings.HasPrefix(response.PaymentID, "payment_"))
	assert.True(t, strings.HasPrefix(response.PaymentURL, "https://sandbox.payfast.co.za/eng/process?"))
}

func TestCreatePaymentEndpointValidation(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"missing amount", `{"product_name": "BI Professional", "customer_email": "jane@example.com", "customer_name": "Jane Doe"}`},
		{"negative amount", `{"amount": -5, "product_name": "BI Professional", "customer_email": "jane@example.com", "customer_name": "Jane Doe"}`},
		{"bad email", `{"amount": 899, "product_name": "BI Professional", "customer_email": "nope", "customer_name": "Jane Doe"}`},
		{"bad payment type", `{"amount": 899, "product_name": "BI Professional", "customer_email": "jane@example.com", "customer_name": "Jane Doe", "payment_type": "weekly"}`},
		{"not json", `amount=899`},
	}

	router := newTestRouter(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/payments", strings.NewReader(tt.payload))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}
