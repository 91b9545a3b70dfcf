// Package lotteryevents defines the round lifecycle topics and payloads
// published to the event bus.
package lotteryevents

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	RoundCreatedV1   = "lottery.round.created.v1"
	RoundCompletedV1 = "lottery.round.completed.v1"
)

// RoundCreatedPayloadV1 announces a freshly opened round.
type RoundCreatedPayloadV1 struct {
	LotteryID   string          `json:"lotteryId"`
	Round       int64           `json:"round"`
	StartTime   time.Time       `json:"startTime"`
	EndTime     time.Time       `json:"endTime"`
	TicketPrice decimal.Decimal `json:"ticketPrice"`
	MaxTickets  int             `json:"maxTickets"`
}

// RoundCompletedPayloadV1 announces a completed draw.
type RoundCompletedPayloadV1 struct {
	LotteryID    string          `json:"lotteryId"`
	Round        int64           `json:"round"`
	WinnerTicket int             `json:"winnerTicket"`
	TicketsSold  int             `json:"ticketsSold"`
	TotalPool    decimal.Decimal `json:"totalPool"`
}
