package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/humbelmindai/humblemind-bi-platform/internal/domain"
	"github.com/humbelmindai/humblemind-bi-platform/internal/kafka/producer"
	"github.com/humbelmindai/humblemind-bi-platform/internal/metrics"
	"github.com/humbelmindai/humblemind-bi-platform/internal/payfast"
	"github.com/humbelmindai/humblemind-bi-platform/internal/repository"
	"github.com/humbelmindai/humblemind-bi-platform/pkg/logger"
)

const (
	// defaultProductID is the catalog entry a dashboard subscription bills against
	defaultProductID = "bi_professional"

	// invoiceCurrency is fixed by the gateway's settlement currency
	invoiceCurrency = "ZAR"

	// billingPeriod is the subscription period granted per settled payment
	billingPeriod = 30 * 24 * time.Hour
)

// CreatePaymentRequest is a domain-level request to start a gateway payment
type CreatePaymentRequest struct {
	Amount         float64
	ProductName    string
	CustomerName   string
	CustomerEmail  string
	PaymentType    domain.PaymentType
	OrganizationID string
	UserID         string
}

// PaymentCheckout is the caller-facing result of starting a payment
type PaymentCheckout struct {
	PaymentID   string         `json:"payment_id"`
	PaymentURL  string         `json:"payment_url"`
	PaymentData payfast.Fields `json:"payment_data"`
}

// BillingService orchestrates the payment lifecycle: outbound payment
// creation and inbound webhook processing with its persistence policy
type BillingService interface {
	// CreatePayment builds a signed gateway redirect and records the
	// pending billing state
	CreatePayment(ctx context.Context, req CreatePaymentRequest) (*PaymentCheckout, error)

	// HandleNotification authenticates a gateway webhook and applies the
	// status policy to subscriptions, invoices and the activity log
	HandleNotification(ctx context.Context, raw []byte) (*domain.PaymentEvent, error)
}

type billingService struct {
	gateway       *payfast.Client
	subscriptions repository.SubscriptionRepository
	invoices      repository.InvoiceRepository
	activity      repository.ActivityRepository
	events        producer.BillingProducer
	metrics       metrics.BillingMetrics
	siteURL       string
	log           *logger.Logger
}

// NewBillingService creates a new billing service. The event producer may
// be nil when Kafka is disabled.
func NewBillingService(
	gateway *payfast.Client,
	subscriptions repository.SubscriptionRepository,
	invoices repository.InvoiceRepository,
	activity repository.ActivityRepository,
	events producer.BillingProducer,
	billingMetrics metrics.BillingMetrics,
	siteURL string,
	log *logger.Logger,
) BillingService {
	return &billingService{
		gateway:       gateway,
		subscriptions: subscriptions,
		invoices:      invoices,
		activity:      activity,
		events:        events,
		metrics:       billingMetrics,
		siteURL:       siteURL,
		log:           log,
	}
}

// CreatePayment builds a signed gateway redirect and records the pending
// billing state. The pending subscription is written before the payer is
// redirected so the webhook always finds a record to activate.
func (s *billingService) CreatePayment(ctx context.Context, req CreatePaymentRequest) (*PaymentCheckout, error) {
	paymentType := req.PaymentType
	if paymentType == "" {
		paymentType = domain.PaymentTypeSubscription
	}

	paymentID := newPaymentID()
	base := strings.TrimRight(s.siteURL, "/")

	intent := domain.PaymentIntent{
		PaymentID:      paymentID,
		Type:           paymentType,
		Amount:         req.Amount,
		ItemName:       req.ProductName,
		CustomerName:   req.CustomerName,
		CustomerEmail:  req.CustomerEmail,
		ReturnURL:      base + "/billing?payment=success",
		CancelURL:      base + "/billing?payment=cancelled",
		NotifyURL:      base + "/webhooks/payfast",
		OrganizationID: req.OrganizationID,
		UserID:         req.UserID,
	}

	redirect, err := s.gateway.BuildPayment(intent)
	if err != nil {
		return nil, err
	}

	// Pending subscription record, activated later by the webhook.
	// Collaborator write failures are logged, not fatal: the payment
	// redirect must still reach the payer.
	if paymentType == domain.PaymentTypeSubscription && req.OrganizationID != "" {
		now := time.Now()
		_, err := s.subscriptions.UpsertByOrganizationID(ctx, domain.Subscription{
			OrganizationID:     req.OrganizationID,
			ProductID:          defaultProductID,
			Status:             domain.SubscriptionStatusIncomplete,
			CurrentPeriodStart: now,
			CurrentPeriodEnd:   now.Add(billingPeriod),
		})
		if err != nil {
			s.log.Error("Failed to record pending subscription for organization %s: %v", req.OrganizationID, err)
		}
	}

	if req.OrganizationID != "" && req.UserID != "" {
		s.recordActivity(ctx, domain.ActivityEntry{
			OrganizationID: req.OrganizationID,
			UserID:         req.UserID,
			Action:         domain.ActivityPaymentInitiated,
			ResourceType:   string(paymentType),
			ResourceID:     paymentID,
			Metadata: map[string]string{
				"amount":       fmt.Sprintf("%.2f", req.Amount),
				"product_name": req.ProductName,
				"payment_type": string(paymentType),
			},
		})
	}

	s.metrics.IncPaymentInitiated(string(paymentType))
	s.log.Info("Created payment %s (%s, %.2f)", paymentID, paymentType, req.Amount)

	return &PaymentCheckout{
		PaymentID:   paymentID,
		PaymentURL:  redirect.URL,
		PaymentData: redirect.Fields,
	}, nil
}

// HandleNotification authenticates the webhook, then applies the status
// policy. A PaymentEvent is always returned once the signature verifies,
// even for statuses that mutate nothing, so callers can audit them.
func (s *billingService) HandleNotification(ctx context.Context, raw []byte) (*domain.PaymentEvent, error) {
	event, err := s.gateway.ProcessWebhook(raw)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidSignature) {
			s.metrics.IncWebhookRejected("invalid_signature")
		} else {
			s.metrics.IncWebhookRejected("malformed")
		}
		return nil, err
	}

	switch event.Status {
	case domain.PaymentStatusComplete:
		s.applyPaymentCompleted(ctx, event)
		s.metrics.ObservePaymentAmount(event.AmountGross, "completed")
	case domain.PaymentStatusFailed, domain.PaymentStatusCancelled:
		s.applyPaymentFailed(ctx, event)
		s.metrics.ObservePaymentAmount(event.AmountGross, "failed")
	default:
		// PENDING and unrecognized statuses mutate nothing
		s.log.Info("No action for payment %s with status %q", event.PaymentID, event.RawStatus)
	}

	s.metrics.IncWebhookProcessed(string(event.Status))
	s.publishEvent(ctx, event)

	return event, nil
}

// applyPaymentCompleted activates the subscription, records the paid
// invoice and logs the activity
func (s *billingService) applyPaymentCompleted(ctx context.Context, event *domain.PaymentEvent) {
	now := time.Now()

	if event.OrganizationID != "" {
		subscription := domain.Subscription{
			OrganizationID:     event.OrganizationID,
			ProductID:          defaultProductID,
			Status:             domain.SubscriptionStatusActive,
			PayFastToken:       event.PayFastPaymentID,
			CurrentPeriodStart: now,
			CurrentPeriodEnd:   now.Add(billingPeriod),
		}
		if existing, err := s.subscriptions.GetByOrganizationID(ctx, event.OrganizationID); err == nil {
			subscription.ProductID = existing.ProductID
		}
		if _, err := s.subscriptions.UpsertByOrganizationID(ctx, subscription); err != nil {
			s.log.Error("Failed to activate subscription for organization %s: %v", event.OrganizationID, err)
		}
	}

	paidAt := now
	_, err := s.invoices.Insert(ctx, domain.Invoice{
		SubscriptionID:   event.PaymentID,
		PayFastPaymentID: event.PayFastPaymentID,
		Amount:           event.AmountGross,
		Currency:         invoiceCurrency,
		Status:           domain.InvoiceStatusPaid,
		InvoiceDate:      now,
		DueDate:          now,
		PaidAt:           &paidAt,
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			s.log.Warn("Gateway redelivered payment %s (pf %s), invoice already recorded",
				event.PaymentID, event.PayFastPaymentID)
		} else {
			s.log.Error("Failed to record invoice for payment %s: %v", event.PaymentID, err)
		}
	}

	if event.OrganizationID != "" && event.UserID != "" {
		s.recordActivity(ctx, domain.ActivityEntry{
			OrganizationID: event.OrganizationID,
			UserID:         event.UserID,
			Action:         domain.ActivityPaymentCompleted,
			ResourceType:   "subscription",
			ResourceID:     event.PaymentID,
			Metadata: map[string]string{
				"amount":             fmt.Sprintf("%.2f", event.AmountGross),
				"payfast_payment_id": event.PayFastPaymentID,
				"item_name":          event.ItemName,
			},
		})
	}
}

// applyPaymentFailed marks the subscription past due and logs the
// activity. No invoice is created for a failed or cancelled payment.
func (s *billingService) applyPaymentFailed(ctx context.Context, event *domain.PaymentEvent) {
	if event.OrganizationID != "" {
		existing, err := s.subscriptions.GetByOrganizationID(ctx, event.OrganizationID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				s.log.Warn("No subscription to mark past due for organization %s", event.OrganizationID)
			} else {
				s.log.Error("Failed to load subscription for organization %s: %v", event.OrganizationID, err)
			}
		} else {
			existing.Status = domain.SubscriptionStatusPastDue
			if _, err := s.subscriptions.UpsertByOrganizationID(ctx, existing); err != nil {
				s.log.Error("Failed to mark subscription past due for organization %s: %v", event.OrganizationID, err)
			}
		}
	}

	if event.OrganizationID != "" && event.UserID != "" {
		s.recordActivity(ctx, domain.ActivityEntry{
			OrganizationID: event.OrganizationID,
			UserID:         event.UserID,
			Action:         domain.ActivityPaymentFailed,
			ResourceType:   "subscription",
			ResourceID:     event.PaymentID,
			Metadata: map[string]string{
				"amount":    fmt.Sprintf("%.2f", event.AmountGross),
				"status":    event.RawStatus,
				"item_name": event.ItemName,
			},
		})
	}
}

// recordActivity appends an activity entry, logging write failures
func (s *billingService) recordActivity(ctx context.Context, entry domain.ActivityEntry) {
	if _, err := s.activity.Insert(ctx, entry); err != nil {
		s.log.Error("Failed to record %s activity for organization %s: %v", entry.Action, entry.OrganizationID, err)
	}
}

// publishEvent publishes the normalized event, logging publish failures.
// A downstream outage never fails the webhook: the gateway would retry a
// delivery whose state mutations already happened.
func (s *billingService) publishEvent(ctx context.Context, event *domain.PaymentEvent) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishPaymentEvent(ctx, *event); err != nil {
		s.log.Error("Failed to publish payment event for %s: %v", event.PaymentID, err)
	}
}

// newPaymentID generates a caller-side payment identifier, unique per attempt
func newPaymentID() string {
	return fmt.Sprintf("payment_%d_%s", time.Now().UnixMilli(), strings.Split(uuid.NewString(), "-")[0])
}
