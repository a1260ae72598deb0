package payment

import (
	"context"
	"errors"
	"fmt"
	"time"

	razorpay "github.com/razorpay/razorpay-go"
)

var ErrGatewayFailure = errors.New("payment gateway request failed")

type Order struct {
	ID       string
	Amount   int64
	Currency string
}

// Gateway abstracts the upstream payment provider so services receive
// an injected capability instead of a package-level client, and tests
// can substitute a fake.
type Gateway interface {
	// CreateOrder opens a charge intent for the given amount in minor
	// currency units (paise).
	CreateOrder(ctx context.Context, amountMinorUnits int64, currency, receipt string) (*Order, error)
	// Refund reverses a captured payment and returns the gateway's
	// refund id.
	Refund(ctx context.Context, gatewayPaymentID string, amountMinorUnits int64) (string, error)
}

type razorpayGateway struct {
	client *razorpay.Client
}

func NewRazorpayGateway(keyID, keySecret string, timeout time.Duration) Gateway {
	client := razorpay.NewClient(keyID, keySecret)
	if timeout > 0 {
		client.SetTimeout(int16(timeout.Seconds()))
	}
	return &razorpayGateway{client: client}
}

func (g *razorpayGateway) CreateOrder(_ context.Context, amountMinorUnits int64, currency, receipt string) (*Order, error) {
	data := map[string]interface{}{
		"amount":   amountMinorUnits,
		"currency": currency,
		"receipt":  receipt,
	}

	body, err := g.client.Order.Create(data, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGatewayFailure, err)
	}

	id, _ := body["id"].(string)
	if id == "" {
		return nil, fmt.Errorf("%w: order response missing id", ErrGatewayFailure)
	}

	order := &Order{ID: id, Amount: amountMinorUnits, Currency: currency}
	if amt, ok := body["amount"].(float64); ok {
		order.Amount = int64(amt)
	}
	if cur, ok := body["currency"].(string); ok {
		order.Currency = cur
	}

	return order, nil
}

func (g *razorpayGateway) Refund(_ context.Context, gatewayPaymentID string, amountMinorUnits int64) (string, error) {
	body, err := g.client.Payment.Refund(gatewayPaymentID, int(amountMinorUnits), nil, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGatewayFailure, err)
	}

	id, _ := body["id"].(string)
	if id == "" {
		return "", fmt.Errorf("%w: refund response missing id", ErrGatewayFailure)
	}

	return id, nil
}
