package payments

import (
	"context"
	"fmt"
	"sync"
)

// FakeGateway signs like Razorpay and answers statuses from a map. Used by
// tests and by local runs without gateway credentials.
type FakeGateway struct {
	Secret string
	// Statuses by payment id; unknown ids read StatusCaptured.
	Statuses map[string]string
	Err      error

	mu     sync.Mutex
	seq    int
	Orders []OrderRequest
}

func NewFakeGateway(secret string) *FakeGateway {
	return &FakeGateway{Secret: secret, Statuses: map[string]string{}}
}

func (f *FakeGateway) Provider() string { return "fake" }

func (f *FakeGateway) CreateOrder(_ context.Context, req OrderRequest) (*Order, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	f.Orders = append(f.Orders, req)
	return &Order{
		Provider: f.Provider(),
		OrderID:  fmt.Sprintf("order_fake_%d", f.seq),
		Amount:   req.Amount * 100,
		Currency: req.Currency,
	}, nil
}

func (f *FakeGateway) VerifyCallback(orderID, paymentID, signature string) error {
	if orderID == "" || paymentID == "" || signature == "" {
		return ErrMissingFields
	}
	if !VerifySignature(orderID, paymentID, signature, f.Secret) {
		return ErrInvalidSignature
	}
	return nil
}

func (f *FakeGateway) PaymentStatus(_ context.Context, _ string, paymentID string) (string, error) {
	if f.Err != nil {
		return "", f.Err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if s, ok := f.Statuses[paymentID]; ok {
		return s, nil
	}
	return StatusCaptured, nil
}
