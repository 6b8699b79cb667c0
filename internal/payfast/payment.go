package payfast

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/humbelmindai/humblemind-bi-platform/internal/domain"
	"github.com/humbelmindai/humblemind-bi-platform/pkg/logger"
)

// Recurring billing wire codes per the gateway protocol:
// subscription_type 1 = recurring, frequency 3 = monthly, cycles 0 = indefinite.
const (
	subscriptionTypeRecurring = "1"
	frequencyMonthly          = "3"
	cyclesIndefinite          = "0"
)

// Client translates payment intents into signed gateway requests and
// gateway webhooks back into normalized payment events. Stateless; safe
// for concurrent use.
type Client struct {
	cfg      Config
	validate *validator.Validate
	log      *logger.Logger
}

// NewClient creates a new PayFast gateway client
func NewClient(cfg Config, log *logger.Logger) *Client {
	return &Client{
		cfg:      cfg,
		validate: validator.New(),
		log:      log,
	}
}

// PaymentRedirect is the result of building an outbound payment: the URL
// the payer's browser is sent to, plus the signed field map for callers
// that render an auto-submitting form instead of a bare redirect.
type PaymentRedirect struct {
	URL       string `json:"url"`
	Fields    Fields `json:"fields"`
	Signature string `json:"signature"`
}

// BuildPayment builds the signed gateway request for a payment intent.
// Pure aside from logging: no I/O, no state. Returns a ValidationError
// for a non-positive amount, malformed email or missing callback URL.
func (c *Client) BuildPayment(intent domain.PaymentIntent) (*PaymentRedirect, error) {
	if err := c.validateIntent(intent); err != nil {
		return nil, err
	}

	firstName, lastName := splitName(intent.CustomerName)

	// Construction order is the signing order. Do not reorder.
	var fields Fields
	fields.Add("merchant_id", c.cfg.MerchantID)
	fields.Add("merchant_key", c.cfg.MerchantKey)
	fields.Add("return_url", intent.ReturnURL)
	fields.Add("cancel_url", intent.CancelURL)
	fields.Add("notify_url", intent.NotifyURL)
	fields.Add("name_first", firstName)
	fields.Add("name_last", lastName)
	fields.Add("email_address", intent.CustomerEmail)
	fields.Add("m_payment_id", intent.PaymentID)
	fields.Add("amount", fmt.Sprintf("%.2f", intent.Amount))
	fields.Add("item_name", intent.ItemName)

	if intent.Type == domain.PaymentTypeSubscription {
		fields.Add("subscription_type", subscriptionTypeRecurring)
		fields.Add("frequency", frequencyMonthly)
		fields.Add("cycles", cyclesIndefinite)
	}

	if intent.OrganizationID != "" {
		fields.Add("custom_str1", intent.OrganizationID)
	}
	if intent.UserID != "" {
		fields.Add("custom_str2", intent.UserID)
	}

	signature := fields.Sign(c.cfg.Passphrase)
	fields.Add(SignatureField, signature)

	redirect := &PaymentRedirect{
		URL:       c.cfg.ProcessURL() + "?" + fields.Encode(),
		Fields:    fields,
		Signature: signature,
	}

	c.log.Debug("Built payment request %s (%s, %.2f)", intent.PaymentID, intent.Type, intent.Amount)
	return redirect, nil
}

// validateIntent checks the intent invariants before any field is built
func (c *Client) validateIntent(intent domain.PaymentIntent) error {
	if intent.PaymentID == "" {
		return domain.NewValidationError("payment_id", "is required")
	}
	if intent.Amount <= 0 {
		return domain.NewValidationError("amount", "must be strictly positive")
	}
	if intent.ItemName == "" {
		return domain.NewValidationError("item_name", "is required")
	}
	if err := c.validate.Var(intent.CustomerEmail, "required,email"); err != nil {
		return domain.NewValidationError("customer_email", "must be a valid email address")
	}
	for field, value := range map[string]string{
		"return_url": intent.ReturnURL,
		"cancel_url": intent.CancelURL,
		"notify_url": intent.NotifyURL,
	} {
		if err := c.validate.Var(value, "required,url"); err != nil {
			return domain.NewValidationError(field, "must be an absolute URL")
		}
	}
	return nil
}

// splitName splits a full name into the gateway's first/last name pair:
// first token, remaining tokens joined by a space (empty if none)
func splitName(fullName string) (string, string) {
	parts := strings.Fields(fullName)
	if len(parts) == 0 {
		return "", ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}
