package ticketdb

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

// Payment methods a ticket can be bought with.
const (
	MethodCard    = "card"
	MethodOrder   = "order"
	MethodOnChain = "onchain"
)

// Ticket is one issued ticket. The pair (lottery_id, ticket_number) is
// unique, as is (payment_method, transaction_ref, batch_seq): the latter is
// what makes payment confirmation replays idempotent.
type Ticket struct {
	bun.BaseModel `bun:"table:tickets,alias:t"`

	ID           uuid.UUID `bun:"id,pk,type:uuid,default:gen_random_uuid()"`
	LotteryID    uuid.UUID `bun:"lottery_id,notnull,type:uuid"`
	UserID       string    `bun:"user_id,notnull"`
	TicketNumber int       `bun:"ticket_number,notnull"`
	// Price is copied from the round's ticket_price at purchase time, so a
	// later round re-pricing never rewrites sold tickets.
	Price          decimal.Decimal `bun:"price,type:numeric(12,2),notnull"`
	PaymentMethod  string          `bun:"payment_method,notnull"`
	TransactionRef string          `bun:"transaction_ref,notnull"`
	BatchSeq       int             `bun:"batch_seq,notnull,default:0"`
	IsWinner       bool            `bun:"is_winner,notnull,default:false"`
	PurchasedAt    time.Time       `bun:"purchased_at,notnull,default:now()"`
}
