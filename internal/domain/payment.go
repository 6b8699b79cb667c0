package domain

import "time"

// PaymentType discriminates how a payment intent bills the customer
type PaymentType string

const (
	PaymentTypeSubscription PaymentType = "subscription"
	PaymentTypeOneTime      PaymentType = "one_time"
)

// PaymentStatus is the closed set of gateway payment statuses.
// Values the gateway may introduce later map to PaymentStatusUnknown,
// never to a silent misroute.
type PaymentStatus string

const (
	PaymentStatusComplete  PaymentStatus = "COMPLETE"
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusFailed    PaymentStatus = "FAILED"
	PaymentStatusCancelled PaymentStatus = "CANCELLED"
	PaymentStatusUnknown   PaymentStatus = "UNKNOWN"
)

// ParsePaymentStatus maps a raw gateway status string onto the closed set
func ParsePaymentStatus(raw string) PaymentStatus {
	switch PaymentStatus(raw) {
	case PaymentStatusComplete, PaymentStatusPending, PaymentStatusFailed, PaymentStatusCancelled:
		return PaymentStatus(raw)
	default:
		return PaymentStatusUnknown
	}
}

// PaymentIntent describes an outbound payment attempt before it is
// translated into gateway wire format. Constructed per attempt, never stored.
type PaymentIntent struct {
	PaymentID      string      `json:"payment_id"`
	Type           PaymentType `json:"payment_type"`
	Amount         float64     `json:"amount"`
	ItemName       string      `json:"item_name"`
	CustomerName   string      `json:"customer_name"`
	CustomerEmail  string      `json:"customer_email"`
	ReturnURL      string      `json:"return_url"`
	CancelURL      string      `json:"cancel_url"`
	NotifyURL      string      `json:"notify_url"`
	OrganizationID string      `json:"organization_id,omitempty"`
	UserID         string      `json:"user_id,omitempty"`
}

// PaymentEvent is the normalized result of a verified gateway webhook.
// Constructed by the orchestrator, consumed immediately by the persistence
// layer and the event producer; not retained.
type PaymentEvent struct {
	PaymentID        string        `json:"payment_id"`
	PayFastPaymentID string        `json:"payfast_payment_id"`
	Status           PaymentStatus `json:"status"`
	RawStatus        string        `json:"raw_status"`
	AmountGross      float64       `json:"amount_gross"`
	AmountFee        float64       `json:"amount_fee"`
	AmountNet        float64       `json:"amount_net"`
	ItemName         string        `json:"item_name"`
	OrganizationID   string        `json:"organization_id,omitempty"`
	UserID           string        `json:"user_id,omitempty"`
	ReceivedAt       time.Time     `json:"received_at"`
}
