// Package providers holds the HTTP clients for the external payment
// providers: the hosted card checkout and the two-step order rail.
package providers

import (
	"context"

	"github.com/shopspring/decimal"
)

// SessionRequest asks the card provider to open a hosted checkout session.
type SessionRequest struct {
	Amount     decimal.Decimal
	Currency   string
	Quantity   int
	SuccessURL string
	CancelURL  string
	// Metadata is echoed back on the provider's webhook.
	Metadata map[string]string
}

// Session is the provider's handle on an open checkout.
type Session struct {
	ID  string
	URL string
}

// CheckoutProvider is the card rail's provider surface.
type CheckoutProvider interface {
	CreateSession(ctx context.Context, req SessionRequest) (*Session, error)
}

// CaptureResult is the provider's answer to an order capture.
type CaptureResult struct {
	OrderID  string
	Status   string
	CustomID string
}

// OrderProvider is the two-step rail's provider surface.
type OrderProvider interface {
	// CreateOrder opens an order carrying customID and returns its ID.
	CreateOrder(ctx context.Context, amount decimal.Decimal, currency, customID string) (string, error)

	// CaptureOrder captures an approved order. The caller decides what a
	// non-COMPLETED status means.
	CaptureOrder(ctx context.Context, orderID string) (*CaptureResult, error)
}

// OrderStatusCompleted is the only capture status that releases tickets.
const OrderStatusCompleted = "COMPLETED"
