package payments

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"

	"englishku_backend/internals/configs"
)

const (
	ProviderRazorpay = "razorpay"
	ProviderMidtrans = "midtrans"

	// StatusCaptured is the only payment status that activates a plan.
	StatusCaptured = "captured"
)

var (
	ErrMissingFields    = errors.New("missing payment fields")
	ErrInvalidSignature = errors.New("invalid signature")
	ErrGateway          = errors.New("payment gateway error")
)

// OrderRequest is an order for one plan. Amount is in major units (rupees);
// each gateway converts it to what its API expects.
type OrderRequest struct {
	Receipt  string
	Plan     string
	Amount   int64
	Currency string
	Email    string
	Name     string
}

// Order is what the client needs to open the checkout.
type Order struct {
	Provider    string `json:"provider"`
	OrderID     string `json:"order_id"`
	Amount      int64  `json:"amount"`
	Currency    string `json:"currency"`
	KeyID       string `json:"key_id,omitempty"`
	Token       string `json:"token,omitempty"`
	RedirectURL string `json:"redirect_url,omitempty"`
}

// Gateway is a payment provider.
type Gateway interface {
	Provider() string
	CreateOrder(ctx context.Context, req OrderRequest) (*Order, error)
	// VerifyCallback checks what the checkout handed back to the client.
	VerifyCallback(orderID, paymentID, signature string) error
	// PaymentStatus asks the provider for the payment state, normalised so
	// a settled payment reads StatusCaptured.
	PaymentStatus(ctx context.Context, orderID, paymentID string) (string, error)
}

// Sign is the checkout signature: hex HMAC-SHA256 of "orderID|paymentID".
func Sign(orderID, paymentID, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature compares in constant time.
func VerifySignature(orderID, paymentID, signature, secret string) bool {
	if orderID == "" || paymentID == "" || signature == "" || secret == "" {
		return false
	}
	want := Sign(orderID, paymentID, secret)
	return hmac.Equal([]byte(want), []byte(strings.ToLower(strings.TrimSpace(signature))))
}

// NewGatewayFromEnv picks the provider from PAYMENT_PROVIDER. It returns nil
// when the chosen provider has no credentials.
func NewGatewayFromEnv() Gateway {
	switch strings.ToLower(configs.GetEnv("PAYMENT_PROVIDER", ProviderRazorpay)) {
	case ProviderMidtrans:
		key := configs.GetEnv("MIDTRANS_SERVER_KEY")
		if key == "" {
			return nil
		}
		return NewMidtransGateway(key, configs.GetEnvBool("MIDTRANS_USE_PROD", false))
	default:
		id, secret := configs.GetEnv("RAZORPAY_KEY_ID"), configs.GetEnv("RAZORPAY_KEY_SECRET")
		if id == "" || secret == "" {
			return nil
		}
		return NewRazorpayGateway(id, secret)
	}
}
