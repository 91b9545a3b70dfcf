// Package ticketevents defines the ticket issuance topics and payloads
// published to the event bus.
package ticketevents

import "time"

const TicketsIssuedV1 = "lottery.tickets.issued.v1"

// TicketsIssuedPayloadV1 announces freshly minted tickets for a confirmed
// payment.
type TicketsIssuedPayloadV1 struct {
	LotteryID      string    `json:"lotteryId"`
	UserID         string    `json:"userId"`
	TicketNumbers  []int     `json:"ticketNumbers"`
	PaymentMethod  string    `json:"paymentMethod"`
	TransactionRef string    `json:"transactionRef"`
	IssuedAt       time.Time `json:"issuedAt"`
}
