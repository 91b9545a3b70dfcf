package lotterydb

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

// RoundStatus is the lifecycle state of a lottery round.
type RoundStatus string

const (
	StatusActive    RoundStatus = "active"
	StatusDrawing   RoundStatus = "drawing"
	StatusCompleted RoundStatus = "completed"
)

// Round is a single lottery round. Rounds are historical records and are
// never deleted.
type Round struct {
	bun.BaseModel `bun:"table:lotteries,alias:l"`

	ID           uuid.UUID       `bun:"id,pk,type:uuid,default:gen_random_uuid()"`
	Round        int64           `bun:"round,notnull"`
	StartTime    time.Time       `bun:"start_time,notnull"`
	EndTime      time.Time       `bun:"end_time,notnull"`
	TicketPrice  decimal.Decimal `bun:"ticket_price,type:numeric(12,2),notnull"`
	TotalPool    decimal.Decimal `bun:"total_pool,type:numeric(14,2),notnull"`
	TicketsSold  int             `bun:"tickets_sold,notnull,default:0"`
	MaxTickets   int             `bun:"max_tickets,notnull"`
	Status       RoundStatus     `bun:"status,notnull"`
	WinnerTicket *int            `bun:"winner_ticket"`
	CreatedAt    time.Time       `bun:"created_at,notnull,default:now()"`
	UpdatedAt    time.Time       `bun:"updated_at,notnull,default:now()"`
}
