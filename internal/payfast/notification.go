package payfast

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/humbelmindai/humblemind-bi-platform/internal/domain"
)

// ParseNotification parses a form-encoded ITN (Instant Transaction
// Notification) body into an ordered field map. Field order must survive
// parsing: the gateway signs fields in the order it sends them, so a
// url.Values map would destroy the information verification depends on.
func ParseNotification(raw []byte) (Fields, error) {
	body := strings.TrimSpace(string(raw))
	if body == "" {
		return nil, fmt.Errorf("empty notification body")
	}

	var fields Fields
	for _, pair := range strings.Split(body, "&") {
		if pair == "" {
			continue
		}
		rawKey, rawValue, _ := strings.Cut(pair, "=")
		key, err := url.QueryUnescape(rawKey)
		if err != nil {
			return nil, fmt.Errorf("malformed field key %q: %w", rawKey, err)
		}
		value, err := url.QueryUnescape(rawValue)
		if err != nil {
			return nil, fmt.Errorf("malformed value for field %q: %w", key, err)
		}
		fields.Add(key, value)
	}

	return fields, nil
}

// ProcessWebhook authenticates and normalizes an inbound gateway webhook.
// The signature gate is unconditional and precedes all parsing of business
// fields: on a digest mismatch it returns domain.ErrInvalidSignature and
// nothing else happens. On success it always returns a PaymentEvent, even
// for statuses the caller will not act on.
func (c *Client) ProcessWebhook(raw []byte) (*domain.PaymentEvent, error) {
	fields, err := ParseNotification(raw)
	if err != nil {
		return nil, domain.NewValidationError("body", err.Error())
	}

	claimed := fields.Get(SignatureField)
	if claimed == "" || !fields.Verify(c.cfg.Passphrase, claimed) {
		return nil, domain.ErrInvalidSignature
	}

	gross, err := parseAmount(fields, "amount_gross")
	if err != nil {
		return nil, err
	}
	fee, err := parseAmount(fields, "amount_fee")
	if err != nil {
		return nil, err
	}
	net, err := parseAmount(fields, "amount_net")
	if err != nil {
		return nil, err
	}

	rawStatus := fields.Get("payment_status")
	event := &domain.PaymentEvent{
		PaymentID:        fields.Get("m_payment_id"),
		PayFastPaymentID: fields.Get("pf_payment_id"),
		Status:           domain.ParsePaymentStatus(rawStatus),
		RawStatus:        rawStatus,
		AmountGross:      gross,
		AmountFee:        fee,
		AmountNet:        net,
		ItemName:         fields.Get("item_name"),
		OrganizationID:   fields.Get("custom_str1"),
		UserID:           fields.Get("custom_str2"),
		ReceivedAt:       time.Now(),
	}

	c.log.Debug("Verified webhook for payment %s, status %s", event.PaymentID, event.RawStatus)
	return event, nil
}

// parseAmount reads a decimal field from a verified notification
func parseAmount(fields Fields, key string) (float64, error) {
	value := fields.Get(key)
	amount, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, domain.NewValidationError(key, fmt.Sprintf("%q is not a decimal amount", value))
	}
	return amount, nil
}
