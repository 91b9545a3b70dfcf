package paymentdb

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

// PaymentStatus is the lifecycle state of a payment record.
type PaymentStatus string

const (
	StatusPending   PaymentStatus = "pending"
	StatusCompleted PaymentStatus = "completed"
	StatusFailed    PaymentStatus = "failed"
	StatusExpired   PaymentStatus = "expired"
)

// Payment is one payment attempt across any rail. TransactionRef is the
// provider-side reference: a checkout session ID, an order ID, or an
// on-chain signature. The pair (method, transaction_ref) is unique.
type Payment struct {
	bun.BaseModel `bun:"table:payments,alias:p"`

	ID             uuid.UUID       `bun:"id,pk,type:uuid,default:gen_random_uuid()"`
	UserID         string          `bun:"user_id,notnull"`
	LotteryID      uuid.UUID       `bun:"lottery_id,notnull,type:uuid"`
	Quantity       int             `bun:"quantity,notnull"`
	Method         string          `bun:"method,notnull"`
	TransactionRef string          `bun:"transaction_ref,notnull"`
	Amount         decimal.Decimal `bun:"amount,type:numeric(14,2),notnull"`
	Status         PaymentStatus   `bun:"status,notnull"`
	CreatedAt      time.Time       `bun:"created_at,notnull,default:now()"`
	UpdatedAt      time.Time       `bun:"updated_at,notnull,default:now()"`
}
