package rest

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/humbelmindai/humblemind-bi-platform/internal/api/rest/handlers"
	"github.com/humbelmindai/humblemind-bi-platform/internal/api/rest/middleware"
	"github.com/humbelmindai/humblemind-bi-platform/internal/service"
	"github.com/humbelmindai/humblemind-bi-platform/pkg/logger"
)

// SetupRouter configures the Gin router with routes and middleware
func SetupRouter(billingService service.BillingService, registry *prometheus.Registry, log *logger.Logger) *gin.Engine {
	r := gin.New()

	r.Use(middleware.LoggerMiddleware(log))
	r.Use(gin.Recovery())

	r.GET("/health", handlers.HealthCheck)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	paymentHandler := handlers.NewPaymentHandler(billingService, log)
	webhookHandler := handlers.NewWebhookHandler(billingService, log)

	v1 := r.Group("/api/v1")
	{
		payments := v1.Group("/payments")
		{
			payments.POST("", paymentHandler.CreatePayment)
		}
	}

	// Webhooks live at the router root: the notify URL handed to the
	// gateway must stay stable across API versions
	webhooks := r.Group("/webhooks")
	{
		webhooks.POST("/payfast", webhookHandler.HandlePayFastWebhook)
		webhooks.GET("/payfast", webhookHandler.PayFastWebhookInfo)
	}

	return r
}
