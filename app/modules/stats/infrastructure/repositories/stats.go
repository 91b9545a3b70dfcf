// Package statsdb runs the read-only aggregation queries behind the public
// stats endpoint and the admin dashboard.
package statsdb

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

// ErrUnavailable wraps any store failure so callers can distinguish "the
// numbers are broken" from "there are no numbers". A summary is never
// silently zeroed.
var ErrUnavailable = errors.New("stats unavailable")

// Summary is the aggregate across all rounds and tickets.
type Summary struct {
	TotalRounds        int             `json:"totalRounds"`
	TotalTicketsSold   int64           `json:"totalTicketsSold"`
	TotalPoolPaidOut   decimal.Decimal `json:"totalPoolPaidOut"`
	ActiveUsers        int             `json:"activeUsers"`
	AvgTicketsPerRound float64         `json:"avgTicketsPerRound"`
}

// Repository defines the contract for stats aggregation.
type Repository interface {
	// Summarize computes the aggregate summary in one round trip.
	Summarize(ctx context.Context, db bun.IDB) (*Summary, error)
}

// Impl implements the Repository interface using Bun.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new stats repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

// Summarize computes the aggregate summary.
func (r *Impl) Summarize(ctx context.Context, db bun.IDB) (*Summary, error) {
	db = r.resolveDB(db)
	summary := new(Summary)
	err := db.NewRaw(`
		SELECT
			(SELECT COUNT(*) FROM lotteries WHERE status = 'completed')                              AS total_rounds,
			(SELECT COALESCE(SUM(tickets_sold), 0) FROM lotteries)                                   AS total_tickets_sold,
			(SELECT COALESCE(SUM(total_pool), 0) FROM lotteries WHERE status = 'completed')          AS total_pool_paid_out,
			(SELECT COUNT(DISTINCT user_id) FROM tickets)                                            AS active_users,
			(SELECT COALESCE(AVG(tickets_sold), 0) FROM lotteries WHERE status = 'completed')        AS avg_tickets_per_round
	`).Scan(ctx,
		&summary.TotalRounds,
		&summary.TotalTicketsSold,
		&summary.TotalPoolPaidOut,
		&summary.ActiveUsers,
		&summary.AvgTicketsPerRound,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return summary, nil
}
