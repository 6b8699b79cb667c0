package domain

import (
	"time"

	"github.com/google/uuid"
)

// SubscriptionStatus is the lifecycle state of an organization subscription
type SubscriptionStatus string

const (
	SubscriptionStatusActive     SubscriptionStatus = "active"
	SubscriptionStatusPastDue    SubscriptionStatus = "past_due"
	SubscriptionStatusCancelled  SubscriptionStatus = "cancelled"
	SubscriptionStatusIncomplete SubscriptionStatus = "incomplete"
)

// Subscription is the billing state of one organization. One subscription
// per organization; webhook processing upserts it by organization id.
type Subscription struct {
	ID                 uuid.UUID          `json:"id"`
	OrganizationID     string             `json:"organization_id"`
	ProductID          string             `json:"product_id"`
	Status             SubscriptionStatus `json:"status"`
	PayFastToken       string             `json:"payfast_token,omitempty"`
	CurrentPeriodStart time.Time          `json:"current_period_start"`
	CurrentPeriodEnd   time.Time          `json:"current_period_end"`
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`
}

// InvoiceStatus is the settlement state of an invoice record
type InvoiceStatus string

const (
	InvoiceStatusPaid   InvoiceStatus = "paid"
	InvoiceStatusUnpaid InvoiceStatus = "unpaid"
)

// Invoice records a settled gateway payment. PayFastPaymentID is the
// natural deduplication key for redelivered webhooks.
type Invoice struct {
	ID               uuid.UUID     `json:"id"`
	SubscriptionID   string        `json:"subscription_id"`
	PayFastPaymentID string        `json:"payfast_payment_id"`
	Amount           float64       `json:"amount"`
	Currency         string        `json:"currency"`
	Status           InvoiceStatus `json:"status"`
	InvoiceDate      time.Time     `json:"invoice_date"`
	DueDate          time.Time     `json:"due_date"`
	PaidAt           *time.Time    `json:"paid_at,omitempty"`
	CreatedAt        time.Time     `json:"created_at"`
}

// Activity action tags written to the activity log
const (
	ActivityPaymentInitiated = "payment_initiated"
	ActivityPaymentCompleted = "payment_completed"
	ActivityPaymentFailed    = "payment_failed"
)

// ActivityEntry is an audit record of a billing action
type ActivityEntry struct {
	ID             uuid.UUID         `json:"id"`
	OrganizationID string            `json:"organization_id"`
	UserID         string            `json:"user_id"`
	Action         string            `json:"action"`
	ResourceType   string            `json:"resource_type"`
	ResourceID     string            `json:"resource_id"`
	Metadata       map[string]string `json:"metadata,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
}
