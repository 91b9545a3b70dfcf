// Package tickettypes holds the ticket DTOs exchanged between the ticket
// service, its callers, and the event bus.
package tickettypes

import (
	"time"

	"github.com/shopspring/decimal"
)

// TicketInfo is the externally visible view of a ticket.
type TicketInfo struct {
	ID             string          `json:"id"`
	LotteryID      string          `json:"lotteryId"`
	UserID         string          `json:"userId"`
	TicketNumber   int             `json:"ticketNumber"`
	Price          decimal.Decimal `json:"price"`
	PaymentMethod  string          `json:"paymentMethod"`
	TransactionRef string          `json:"transactionRef"`
	IsWinner       bool            `json:"isWinner"`
	PurchasedAt    time.Time       `json:"purchasedAt"`
}

// IssueCommand asks for tickets to be minted against a confirmed payment.
type IssueCommand struct {
	LotteryID      string `json:"lotteryId"`
	UserID         string `json:"userId"`
	Quantity       int    `json:"quantity"`
	PaymentMethod  string `json:"paymentMethod"`
	TransactionRef string `json:"transactionRef"`
}

// IssueReceipt reports what a confirmation minted. Replays return the
// previously minted numbers with Minted == 0.
type IssueReceipt struct {
	LotteryID      string `json:"lotteryId"`
	UserID         string `json:"userId"`
	TicketNumbers  []int  `json:"ticketNumbers"`
	Minted         int    `json:"minted"`
	AlreadyIssued  int    `json:"alreadyIssued"`
	TransactionRef string `json:"transactionRef"`
}

// Failure reasons surfaced to callers.
const (
	ReasonRoundNotFound  = "round_not_found"
	ReasonRoundNotActive = "round_not_active"
	ReasonRoundFull      = "round_full"
	ReasonInvalidCommand = "invalid_command"
)

// Failure is the domain-level failure payload for ticket operations.
type Failure struct {
	Reason  string `json:"reason"`
	Message string `json:"message"`
}
