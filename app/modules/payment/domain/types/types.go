// Package paymenttypes holds the payment DTOs exchanged between the payment
// service, its handlers, and the provider clients.
package paymenttypes

import (
	"time"

	"github.com/shopspring/decimal"
)

// CheckoutSession is what the card rail hands back to the frontend.
type CheckoutSession struct {
	SessionID string `json:"sessionId"`
	URL       string `json:"url"`
}

// OrderCreated is what the two-step rail hands back after order creation.
type OrderCreated struct {
	OrderID string `json:"orderId"`
}

// Confirmation reports the outcome of a confirmed payment: the receipt the
// ticket service produced.
type Confirmation struct {
	LotteryID      string `json:"lotteryId"`
	UserID         string `json:"userId"`
	TicketNumbers  []int  `json:"ticketNumbers"`
	Minted         int    `json:"minted"`
	TransactionRef string `json:"transactionRef"`
}

// WebhookAck is returned to the card provider for every accepted webhook,
// whether or not it minted anything.
type WebhookAck struct {
	Received bool   `json:"received"`
	Handled  string `json:"handled,omitempty"`
}

// PaymentInfo is the admin-facing view of a payment record.
type PaymentInfo struct {
	ID             string          `json:"id"`
	UserID         string          `json:"userId"`
	LotteryID      string          `json:"lotteryId"`
	Quantity       int             `json:"quantity"`
	Method         string          `json:"method"`
	TransactionRef string          `json:"transactionRef"`
	Amount         decimal.Decimal `json:"amount"`
	Status         string          `json:"status"`
	CreatedAt      time.Time       `json:"createdAt"`
}

// SweepReport summarizes one pending-payment sweep.
type SweepReport struct {
	Expired int `json:"expired"`
}

// Failure reasons surfaced to handlers.
const (
	ReasonInvalidRequest     = "invalid_request"
	ReasonInvalidSignature   = "invalid_signature"
	ReasonOrderNotCompleted  = "order_not_completed"
	ReasonInvalidClaim       = "invalid_claim"
	ReasonRoundNotFound      = "round_not_found"
	ReasonRoundNotActive     = "round_not_active"
	ReasonRoundFull          = "round_full"
	ReasonPaymentNotFound    = "payment_not_found"
	ReasonProviderUnavailable = "provider_unavailable"
)

// Failure is the domain-level failure payload for payment operations.
type Failure struct {
	Reason  string `json:"reason"`
	Message string `json:"message"`
}
