package payfast

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/humbelmindai/humblemind-bi-platform/internal/domain"
)

// signedNotification builds a form-encoded ITN body signed with the test
// passphrase, mirroring what the gateway posts to the notify URL
func signedNotification(status string) []byte {
	var fields Fields
	fields.Add("m_payment_id", "payment_1756300000000_a1b2c3d4")
	fields.Add("pf_payment_id", "1089250")
	fields.Add("payment_status", status)
	fields.Add("item_name", "BI Professional")
	fields.Add("amount_gross", "899.00")
	fields.Add("amount_fee", "-20.68")
	fields.Add("amount_net", "878.32")
	fields.Add("custom_str1", "org_42")
	fields.Add("custom_str2", "user_7")
	fields.Add("merchant_id", "17365187")
	fields.Add(SignatureField, fields.Sign(testPassphrase))
	return []byte(fields.Encode())
}

func TestParseNotificationPreservesOrder(t *testing.T) {
	fields, err := ParseNotification([]byte("b=2&a=1&c=3"))
	require.NoError(t, err)

	assert.Equal(t, Fields{
		{Key: "b", Value: "2"},
		{Key: "a", Value: "1"},
		{Key: "c", Value: "3"},
	}, fields)
}

func TestParseNotificationDecodesFormEncoding(t *testing.T) {
	fields, err := ParseNotification([]byte("item_name=BI+Professional&email_address=jane%40example.com"))
	require.NoError(t, err)

	assert.Equal(t, "BI Professional", fields.Get("item_name"))
	assert.Equal(t, "jane@example.com", fields.Get("email_address"))
}

func TestParseNotificationRejectsEmptyBody(t *testing.T) {
	_, err := ParseNotification([]byte("  \n"))
	assert.Error(t, err)
}

func TestParseNotificationRejectsBadEscape(t *testing.T) {
	_, err := ParseNotification([]byte("item_name=%zz"))
	assert.Error(t, err)
}

func TestProcessWebhookValidSignature(t *testing.T) {
	client := newTestClient(true)

	event, err := client.ProcessWebhook(signedNotification("COMPLETE"))
	require.NoError(t, err)

	assert.Equal(t, "payment_1756300000000_a1b2c3d4", event.PaymentID)
	assert.Equal(t, "1089250", event.PayFastPaymentID)
	assert.Equal(t, domain.PaymentStatusComplete, event.Status)
	assert.Equal(t, "COMPLETE", event.RawStatus)
	assert.InDelta(t, 899.00, event.AmountGross, 0.001)
	assert.InDelta(t, -20.68, event.AmountFee, 0.001)
	assert.InDelta(t, 878.32, event.AmountNet, 0.001)
	assert.Equal(t, "BI Professional", event.ItemName)
	assert.Equal(t, "org_42", event.OrganizationID)
	assert.Equal(t, "user_7", event.UserID)
	assert.False(t, event.ReceivedAt.IsZero())
}

func TestProcessWebhookTamperedBody(t *testing.T) {
	client := newTestClient(true)

	body := signedNotification("COMPLETE")
	tampered := []byte(strings.ReplaceAll(string(body), "amount_gross=899.00", "amount_gross=1.00"))

	event, err := client.ProcessWebhook(tampered)
	assert.Nil(t, event)
	assert.ErrorIs(t, err, domain.ErrInvalidSignature)
}

func TestProcessWebhookMissingSignature(t *testing.T) {
	client := newTestClient(true)

	event, err := client.ProcessWebhook([]byte("m_payment_id=p1&payment_status=COMPLETE"))
	assert.Nil(t, event)
	assert.ErrorIs(t, err, domain.ErrInvalidSignature)
}

func TestProcessWebhookWrongPassphrase(t *testing.T) {
	client := newTestClient(true)
	client.cfg.Passphrase = "a-different-passphrase"

	event, err := client.ProcessWebhook(signedNotification("COMPLETE"))
	assert.Nil(t, event)
	assert.ErrorIs(t, err, domain.ErrInvalidSignature)
}

func TestProcessWebhookUnparsableAmount(t *testing.T) {
	client := newTestClient(true)

	var fields Fields
	fields.Add("m_payment_id", "p1")
	fields.Add("payment_status", "COMPLETE")
	fields.Add("amount_gross", "eight hundred")
	fields.Add("amount_fee", "-20.68")
	fields.Add("amount_net", "878.32")
	fields.Add(SignatureField, fields.Sign(testPassphrase))

	event, err := client.ProcessWebhook([]byte(fields.Encode()))
	assert.Nil(t, event)
	assert.True(t, domain.IsValidationError(err))
	assert.Contains(t, err.Error(), "amount_gross")
}

func TestProcessWebhookUnknownStatus(t *testing.T) {
	client := newTestClient(true)

	event, err := client.ProcessWebhook(signedNotification("CHARGEBACK"))
	require.NoError(t, err)

	assert.Equal(t, domain.PaymentStatusUnknown, event.Status)
	assert.Equal(t, "CHARGEBACK", event.RawStatus)
}

func TestProcessWebhookMalformedBody(t *testing.T) {
	client := newTestClient(true)

	event, err := client.ProcessWebhook([]byte(""))
	assert.Nil(t, event)
	assert.True(t, domain.IsValidationError(err))
	assert.False(t, errors.Is(err, domain.ErrInvalidSignature))
}
