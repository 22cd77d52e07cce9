package payments

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
)

const razorpayAPI = "https://api.razorpay.com/v1"

// RazorpayGateway calls the Razorpay REST API with basic auth.
type RazorpayGateway struct {
	KeyID     string
	KeySecret string
	BaseURL   string
	Timeout   time.Duration
}

func NewRazorpayGateway(keyID, keySecret string) *RazorpayGateway {
	return &RazorpayGateway{
		KeyID:     keyID,
		KeySecret: keySecret,
		BaseURL:   razorpayAPI,
		Timeout:   15 * time.Second,
	}
}

func (g *RazorpayGateway) Provider() string { return ProviderRazorpay }

type razorpayOrder struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

type razorpayPayment struct {
	ID      string `json:"id"`
	OrderID string `json:"order_id"`
	Status  string `json:"status"`
	Amount  int64  `json:"amount"`
}

type razorpayError struct {
	Error struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"error"`
}

// CreateOrder sends the amount in paise.
func (g *RazorpayGateway) CreateOrder(ctx context.Context, req OrderRequest) (*Order, error) {
	body := fiber.Map{
		"amount":   req.Amount * 100,
		"currency": req.Currency,
		"receipt":  req.Receipt,
		"notes":    fiber.Map{"plan": req.Plan},
	}
	var out razorpayOrder
	if err := g.do(ctx, fiber.Post(g.BaseURL+"/orders").JSON(body), &out); err != nil {
		return nil, err
	}
	return &Order{
		Provider: ProviderRazorpay,
		OrderID:  out.ID,
		Amount:   out.Amount,
		Currency: out.Currency,
		KeyID:    g.KeyID,
	}, nil
}

func (g *RazorpayGateway) VerifyCallback(orderID, paymentID, signature string) error {
	if orderID == "" || paymentID == "" || signature == "" {
		return ErrMissingFields
	}
	if !VerifySignature(orderID, paymentID, signature, g.KeySecret) {
		return ErrInvalidSignature
	}
	return nil
}

// PaymentStatus fetches the payment. A payment that belongs to another
// order reports its real status but never StatusCaptured.
func (g *RazorpayGateway) PaymentStatus(ctx context.Context, orderID, paymentID string) (string, error) {
	var out razorpayPayment
	if err := g.do(ctx, fiber.Get(g.BaseURL+"/payments/"+paymentID), &out); err != nil {
		return "", err
	}
	if out.OrderID != "" && out.OrderID != orderID {
		return "order_mismatch", nil
	}
	return strings.ToLower(out.Status), nil
}

func (g *RazorpayGateway) do(ctx context.Context, a *fiber.Agent, out any) error {
	timeout := g.Timeout
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); left < timeout || timeout <= 0 {
			timeout = left
		}
	}
	if timeout <= 0 {
		return fmt.Errorf("%w: %v", ErrGateway, context.DeadlineExceeded)
	}
	a.BasicAuth(g.KeyID, g.KeySecret).Timeout(timeout)
	if err := a.Parse(); err != nil {
		return fmt.Errorf("%w: %v", ErrGateway, err)
	}

	code, body, errs := a.Bytes()
	if len(errs) > 0 {
		return fmt.Errorf("%w: %v", ErrGateway, errors.Join(errs...))
	}
	if code < 200 || code >= 300 {
		var apiErr razorpayError
		if err := sonic.Unmarshal(body, &apiErr); err == nil && apiErr.Error.Description != "" {
			return fmt.Errorf("%w: %d %s", ErrGateway, code, apiErr.Error.Description)
		}
		return fmt.Errorf("%w: status %d", ErrGateway, code)
	}
	if err := sonic.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: decode: %v", ErrGateway, err)
	}
	return nil
}
