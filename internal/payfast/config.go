package payfast

// Gateway endpoints. The processing path is fixed by the gateway protocol.
const (
	sandboxHost    = "https://sandbox.payfast.co.za"
	productionHost = "https://www.payfast.co.za"
	processPath    = "/eng/process"
)

// Config holds the merchant credentials and environment selection for the
// PayFast gateway. Read once at startup, immutable afterwards.
type Config struct {
	MerchantID  string
	MerchantKey string
	Passphrase  string
	Sandbox     bool
}

// ProcessURL returns the payment processing endpoint for the configured
// environment
func (c Config) ProcessURL() string {
	if c.Sandbox {
		return sandboxHost + processPath
	}
	return productionHost + processPath
}
