package payment

import (
	"errors"
)

// GatewayConfig holds the credentials of the card/UPI gateway account
type GatewayConfig struct {
	// KeyID is the public key id, echoed to the checkout page
	KeyID string
	// KeySecret signs payment confirmations
	KeySecret string
}

// Errors for configuration validation
var (
	ErrMissingKeyID     = errors.New("payment: missing key id")
	ErrMissingKeySecret = errors.New("payment: missing key secret")
)

// Validate validates the configuration
func (c *GatewayConfig) Validate() error {
	if c.KeyID == "" {
		return ErrMissingKeyID
	}
	if c.KeySecret == "" {
		return ErrMissingKeySecret
	}
	return nil
}
