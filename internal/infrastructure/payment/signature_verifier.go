package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/printease/backend/internal/domain/printing"
	"github.com/printease/backend/internal/domain/shared"
)

// ErrInvalidSignature is returned for confirmations the gateway did not sign
var ErrInvalidSignature = shared.NewDomainError("PAYMENT_INVALID", "Payment signature verification failed")

// SignatureVerifier checks gateway confirmations signed as
// hex(HMAC-SHA256(key_secret, gateway_order_id + "|" + payment_id))
type SignatureVerifier struct {
	secret []byte
}

// NewSignatureVerifier creates a verifier from a validated config
func NewSignatureVerifier(cfg *GatewayConfig) (*SignatureVerifier, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &SignatureVerifier{secret: []byte(cfg.KeySecret)}, nil
}

// Verify implements printing.PaymentVerifier
func (v *SignatureVerifier) Verify(_ context.Context, c printing.PaymentConfirmation) error {
	if c.GatewayOrderID == "" || c.PaymentID == "" || c.Signature == "" {
		return ErrInvalidSignature
	}
	got, err := hex.DecodeString(strings.ToLower(c.Signature))
	if err != nil {
		return ErrInvalidSignature
	}
	if !hmac.Equal(got, v.sign(c.GatewayOrderID, c.PaymentID)) {
		return ErrInvalidSignature
	}
	return nil
}

// Sign returns the hex signature the gateway would attach. Used by tests
// and by the development checkout stub.
func (v *SignatureVerifier) Sign(gatewayOrderID, paymentID string) string {
	return hex.EncodeToString(v.sign(gatewayOrderID, paymentID))
}

func (v *SignatureVerifier) sign(gatewayOrderID, paymentID string) []byte {
	mac := hmac.New(sha256.New, v.secret)
	mac.Write([]byte(gatewayOrderID + "|" + paymentID))
	return mac.Sum(nil)
}

var _ printing.PaymentVerifier = (*SignatureVerifier)(nil)
