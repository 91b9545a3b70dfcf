// Package lotterytypes holds the round DTOs exchanged between the lottery
// service, its handlers, and the event bus.
package lotterytypes

import (
	"time"

	"github.com/shopspring/decimal"
)

// RoundInfo is the externally visible view of a round.
type RoundInfo struct {
	ID           string          `json:"id"`
	Round        int64           `json:"round"`
	StartTime    time.Time       `json:"startTime"`
	EndTime      time.Time       `json:"endTime"`
	TicketPrice  decimal.Decimal `json:"ticketPrice"`
	TotalPool    decimal.Decimal `json:"totalPool"`
	TicketsSold  int             `json:"ticketsSold"`
	MaxTickets   int             `json:"maxTickets"`
	Status       string          `json:"status"`
	WinnerTicket *int            `json:"winnerTicket,omitempty"`
}

// Failure reasons surfaced to handlers. Handlers map these to HTTP status
// codes; the service never touches HTTP.
const (
	ReasonRoundNotFound     = "round_not_found"
	ReasonNoActiveRound     = "no_active_round"
	ReasonActiveRoundExists = "active_round_exists"
	ReasonNotDrawable       = "not_drawable"
)

// Failure is the domain-level failure payload for round operations.
type Failure struct {
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

// DrawOutcome describes how a draw attempt ended.
type DrawOutcome string

const (
	// DrawCompleted means a winner was selected and the round closed.
	DrawCompleted DrawOutcome = "completed"
	// DrawSkipped means too few tickets were sold; the round stays open
	// with its end time pushed out.
	DrawSkipped DrawOutcome = "skipped"
)

// DrawResult is the outcome of DrawRound.
type DrawResult struct {
	Outcome      DrawOutcome `json:"outcome"`
	Round        *RoundInfo  `json:"round"`
	WinnerTicket *int        `json:"winnerTicket,omitempty"`
}
