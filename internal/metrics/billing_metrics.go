package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/humbelmindai/humblemind-bi-platform/pkg/logger"
)

// BillingMetrics counts payment and webhook traffic
type BillingMetrics interface {
	IncPaymentInitiated(paymentType string)
	IncWebhookProcessed(status string)
	IncWebhookRejected(reason string)
	ObservePaymentAmount(amount float64, status string)
}

type billingMetrics struct {
	log               *logger.Logger
	paymentsInitiated *prometheus.CounterVec
	webhooksProcessed *prometheus.CounterVec
	webhooksRejected  *prometheus.CounterVec
	paymentsAmount    *prometheus.HistogramVec
}

// NewBillingMetrics creates new billing metrics on the given registry
func NewBillingMetrics(registry *prometheus.Registry, log *logger.Logger) BillingMetrics {
	paymentsInitiated := promauto.With(registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "billing_payments_initiated_total",
			Help: "The total number of initiated gateway payments",
		},
		[]string{"payment_type"},
	)

	webhooksProcessed := promauto.With(registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "billing_webhooks_processed_total",
			Help: "The total number of verified gateway webhooks by status",
		},
		[]string{"status"},
	)

	webhooksRejected := promauto.With(registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "billing_webhooks_rejected_total",
			Help: "The total number of rejected gateway webhooks by reason",
		},
		[]string{"reason"},
	)

	paymentsAmount := promauto.With(registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "billing_payments_amount",
			Help:    "Settled payment amounts distribution",
			Buckets: prometheus.ExponentialBuckets(10, 10, 5), // 10, 100, 1000, 10000, 100000
		},
		[]string{"status"},
	)

	return &billingMetrics{
		log:               log,
		paymentsInitiated: paymentsInitiated,
		webhooksProcessed: webhooksProcessed,
		webhooksRejected:  webhooksRejected,
		paymentsAmount:    paymentsAmount,
	}
}

// IncPaymentInitiated increments the initiated payments counter
func (m *billingMetrics) IncPaymentInitiated(paymentType string) {
	m.paymentsInitiated.WithLabelValues(paymentType).Inc()
}

// IncWebhookProcessed increments the processed webhooks counter
func (m *billingMetrics) IncWebhookProcessed(status string) {
	m.webhooksProcessed.WithLabelValues(status).Inc()
}

// IncWebhookRejected increments the rejected webhooks counter
func (m *billingMetrics) IncWebhookRejected(reason string) {
	m.webhooksRejected.WithLabelValues(reason).Inc()
}

// ObservePaymentAmount records a settled payment amount
func (m *billingMetrics) ObservePaymentAmount(amount float64, status string) {
	m.paymentsAmount.WithLabelValues(status).Observe(amount)
}
