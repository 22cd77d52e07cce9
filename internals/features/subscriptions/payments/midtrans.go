package payments

import (
	"context"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"

	midtrans "github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/coreapi"
	"github.com/midtrans/midtrans-go/snap"
)

// MidtransGateway opens checkouts with Snap and reads payment state with
// the Core API. Midtrans callbacks carry no client signature; the status is
// always read back with the server key, and webhooks are checked with
// VerifyNotification.
type MidtransGateway struct {
	ServerKey string
	snap      snap.Client
	core      coreapi.Client
}

func NewMidtransGateway(serverKey string, useProduction bool) *MidtransGateway {
	env := midtrans.Sandbox
	if useProduction {
		env = midtrans.Production
	}
	g := &MidtransGateway{ServerKey: serverKey}
	g.snap.New(serverKey, env)
	g.core.New(serverKey, env)
	return g
}

func (g *MidtransGateway) Provider() string { return ProviderMidtrans }

func (g *MidtransGateway) CreateOrder(_ context.Context, req OrderRequest) (*Order, error) {
	sr := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  req.Receipt,
			GrossAmt: req.Amount,
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: req.Name,
			Email: req.Email,
		},
		Items: &[]midtrans.ItemDetails{{
			ID:       req.Plan,
			Price:    req.Amount,
			Qty:      1,
			Name:     planItemName(req.Plan),
			Category: "subscription",
		}},
	}
	resp, merr := g.snap.CreateTransaction(sr)
	if merr != nil {
		return nil, fmt.Errorf("%w: %s", ErrGateway, merr.Error())
	}
	return &Order{
		Provider:    ProviderMidtrans,
		OrderID:     req.Receipt,
		Amount:      req.Amount,
		Currency:    req.Currency,
		Token:       resp.Token,
		RedirectURL: resp.RedirectURL,
	}, nil
}

func planItemName(plan string) string {
	if plan == "" {
		return "Subscription"
	}
	return strings.ToUpper(plan[:1]) + plan[1:] + " plan"
}

func (g *MidtransGateway) VerifyCallback(orderID, _, _ string) error {
	if orderID == "" {
		return ErrMissingFields
	}
	return nil
}

func (g *MidtransGateway) PaymentStatus(_ context.Context, orderID, _ string) (string, error) {
	resp, merr := g.core.CheckTransaction(orderID)
	if merr != nil {
		return "", fmt.Errorf("%w: %s", ErrGateway, merr.Error())
	}
	return NormaliseMidtransStatus(resp.TransactionStatus, resp.FraudStatus), nil
}

// NormaliseMidtransStatus maps an accepted capture or a settlement to
// StatusCaptured; everything else is passed through.
func NormaliseMidtransStatus(transactionStatus, fraudStatus string) string {
	switch strings.ToLower(transactionStatus) {
	case "settlement":
		return StatusCaptured
	case "capture":
		if fraudStatus == "" || strings.EqualFold(fraudStatus, "accept") {
			return StatusCaptured
		}
		return "challenge"
	default:
		return strings.ToLower(transactionStatus)
	}
}

// Notification is the webhook body Midtrans posts.
type Notification struct {
	TransactionStatus string `json:"transaction_status"`
	StatusCode        string `json:"status_code"`
	SignatureKey      string `json:"signature_key"`
	OrderID           string `json:"order_id"`
	GrossAmount       string `json:"gross_amount"`
	PaymentType       string `json:"payment_type"`
	FraudStatus       string `json:"fraud_status"`
	TransactionID     string `json:"transaction_id"`
}

// NotificationSignature is hex SHA512(order_id + status_code + gross_amount + server_key).
func NotificationSignature(n Notification, serverKey string) string {
	sum := sha512.Sum512([]byte(n.OrderID + n.StatusCode + n.GrossAmount + serverKey))
	return hex.EncodeToString(sum[:])
}

func (g *MidtransGateway) VerifyNotification(n Notification) bool {
	if n.SignatureKey == "" || g.ServerKey == "" {
		return false
	}
	want := NotificationSignature(n, g.ServerKey)
	got := strings.ToLower(n.SignatureKey)
	return subtle.ConstantTimeCompare([]byte(want), []byte(got)) == 1
}
