package payments

import (
	"context"
	"net"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifySignature(t *testing.T) {
	const secret = "s3cret"
	sig := Sign("order_1", "pay_1", secret)

	assert.True(t, VerifySignature("order_1", "pay_1", sig, secret))
	assert.True(t, VerifySignature("order_1", "pay_1", "  "+sig+" ", secret))

	assert.False(t, VerifySignature("order_1", "pay_2", sig, secret))
	assert.False(t, VerifySignature("order_2", "pay_1", sig, secret))
	assert.False(t, VerifySignature("order_1", "pay_1", sig, "other"))
	assert.False(t, VerifySignature("order_1", "pay_1", "deadbeef", secret))
	assert.False(t, VerifySignature("order_1", "pay_1", "", secret))
	assert.False(t, VerifySignature("order_1", "pay_1", sig, ""))
}

func TestNormaliseMidtransStatus(t *testing.T) {
	cases := []struct {
		status, fraud, want string
	}{
		{"settlement", "", StatusCaptured},
		{"capture", "accept", StatusCaptured},
		{"capture", "", StatusCaptured},
		{"capture", "challenge", "challenge"},
		{"pending", "", "pending"},
		{"EXPIRE", "", "expire"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, NormaliseMidtransStatus(tc.status, tc.fraud), tc.status+"/"+tc.fraud)
	}
}

func TestVerifyNotification(t *testing.T) {
	g := &MidtransGateway{ServerKey: "SB-server"}
	n := Notification{OrderID: "sub-1", StatusCode: "200", GrossAmount: "99.00"}
	n.SignatureKey = NotificationSignature(n, "SB-server")
	assert.True(t, g.VerifyNotification(n))

	tampered := n
	tampered.GrossAmount = "1.00"
	assert.False(t, g.VerifyNotification(tampered))

	n.SignatureKey = ""
	assert.False(t, g.VerifyNotification(n))
}

// razorpayStub serves the two endpoints the gateway calls.
func razorpayStub(t *testing.T) string {
	t.Helper()
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Use(func(c *fiber.Ctx) error {
		if c.Get(fiber.HeaderAuthorization) == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": fiber.Map{"code": "BAD_REQUEST_ERROR", "description": "Authentication failed"},
			})
		}
		return c.Next()
	})
	app.Post("/orders", func(c *fiber.Ctx) error {
		var body struct {
			Amount   int64  `json:"amount"`
			Currency string `json:"currency"`
			Receipt  string `json:"receipt"`
		}
		if err := c.BodyParser(&body); err != nil {
			return err
		}
		return c.JSON(fiber.Map{"id": "order_" + body.Receipt, "amount": body.Amount, "currency": body.Currency, "status": "created"})
	})
	app.Get("/payments/:id", func(c *fiber.Ctx) error {
		if c.Params("id") == "pay_missing" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": fiber.Map{"code": "BAD_REQUEST_ERROR", "description": "The id provided does not exist"},
			})
		}
		return c.JSON(fiber.Map{"id": c.Params("id"), "order_id": "order_r1", "status": "captured"})
	})

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() { _ = app.Listener(ln) }()
	t.Cleanup(func() { _ = app.Shutdown() })
	return "http://" + ln.Addr().String()
}

func TestRazorpayGateway(t *testing.T) {
	ctx := context.Background()
	g := NewRazorpayGateway("rzp_test", "secret")
	g.BaseURL = razorpayStub(t)

	order, err := g.CreateOrder(ctx, OrderRequest{Receipt: "r1", Plan: "basic", Amount: 99, Currency: "INR"})
	require.NoError(t, err)
	assert.Equal(t, "order_r1", order.OrderID)
	assert.Equal(t, int64(9900), order.Amount)
	assert.Equal(t, "rzp_test", order.KeyID)

	status, err := g.PaymentStatus(ctx, "order_r1", "pay_1")
	require.NoError(t, err)
	assert.Equal(t, StatusCaptured, status)

	status, err = g.PaymentStatus(ctx, "order_other", "pay_1")
	require.NoError(t, err)
	assert.NotEqual(t, StatusCaptured, status)

	_, err = g.PaymentStatus(ctx, "order_r1", "pay_missing")
	require.ErrorIs(t, err, ErrGateway)
	assert.Contains(t, err.Error(), "does not exist")
}

func TestRazorpayVerifyCallback(t *testing.T) {
	g := NewRazorpayGateway("rzp_test", "secret")
	assert.ErrorIs(t, g.VerifyCallback("order_1", "", "x"), ErrMissingFields)
	assert.ErrorIs(t, g.VerifyCallback("order_1", "pay_1", "bad"), ErrInvalidSignature)
	assert.NoError(t, g.VerifyCallback("order_1", "pay_1", Sign("order_1", "pay_1", "secret")))
}
