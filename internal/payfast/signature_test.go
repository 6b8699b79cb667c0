package payfast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPassphrase = "k0XGylo1g88Bd39BpT9LM"

func gatewayExampleFields() Fields {
	var fields Fields
	fields.Add("merchant_id", "17365187")
	fields.Add("merchant_key", "s0am9bnarksn8")
	fields.Add("amount", "899.00")
	fields.Add("item_name", "BI Professional")
	return fields
}

func TestSignKnownVector(t *testing.T) {
	fields := gatewayExampleFields()

	digest := fields.Sign(testPassphrase)

	// Stable digest of the gateway's documented example; any change to the
	// canonicalization rules breaks this value.
	assert.Equal(t, "c3ffb5986fff9567ad176afe83358587", digest)
}

func TestSignIsDeterministic(t *testing.T) {
	fields := gatewayExampleFields()

	first := fields.Sign(testPassphrase)
	second := fields.Sign(testPassphrase)

	require.Len(t, first, 32)
	assert.Equal(t, first, second)
	assert.Regexp(t, "^[0-9a-f]{32}$", first)
}

func TestVerifyRoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		fields Fields
	}{
		{"gateway example", gatewayExampleFields()},
		{"single field", Fields{{Key: "merchant_id", Value: "10000100"}}},
		{"values with spaces and symbols", Fields{
			{Key: "item_name", Value: "BI Professional (annual)"},
			{Key: "email_address", Value: "jane.doe+billing@example.com"},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			digest := tt.fields.Sign(testPassphrase)
			assert.True(t, tt.fields.Verify(testPassphrase, digest))
		})
	}
}

func TestVerifyRejectsMutation(t *testing.T) {
	fields := gatewayExampleFields()
	digest := fields.Sign(testPassphrase)

	// Mutate a single character of each field value in turn
	for i := range fields {
		mutated := make(Fields, len(fields))
		copy(mutated, fields)
		value := []byte(mutated[i].Value)
		value[0] ^= 0x01
		mutated[i].Value = string(value)

		assert.False(t, mutated.Verify(testPassphrase, digest),
			"mutation of %q must invalidate the digest", fields[i].Key)
	}
}

func TestVerifyRejectsWrongPassphrase(t *testing.T) {
	fields := gatewayExampleFields()
	digest := fields.Sign(testPassphrase)

	assert.False(t, fields.Verify("some-other-passphrase", digest))
}

func TestCanonicalSkipsEmptyAndSignatureFields(t *testing.T) {
	var fields Fields
	fields.Add("merchant_id", "17365187")
	fields.Add("name_last", "")
	fields.Add(SignatureField, "deadbeefdeadbeefdeadbeefdeadbeef")
	fields.Add("amount", "899.00")

	canonical := fields.Canonical(testPassphrase)

	assert.Equal(t, "merchant_id=17365187&amount=899.00&passphrase="+testPassphrase, canonical)
}

func TestCanonicalEncodesSpacesAsPlus(t *testing.T) {
	var fields Fields
	fields.Add("item_name", "BI Professional")

	canonical := fields.Canonical(testPassphrase)

	assert.Contains(t, canonical, "item_name=BI+Professional")
	assert.NotContains(t, canonical, "%20")
}

func TestSignIsOrderSensitive(t *testing.T) {
	var a Fields
	a.Add("merchant_id", "17365187")
	a.Add("amount", "899.00")

	var b Fields
	b.Add("amount", "899.00")
	b.Add("merchant_id", "17365187")

	assert.NotEqual(t, a.Sign(testPassphrase), b.Sign(testPassphrase))
}

func TestFieldsGetAndHas(t *testing.T) {
	fields := gatewayExampleFields()

	assert.Equal(t, "17365187", fields.Get("merchant_id"))
	assert.Equal(t, "", fields.Get("missing"))
	assert.True(t, fields.Has("amount"))
	assert.False(t, fields.Has("signature"))
}
