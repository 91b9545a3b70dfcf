package lotterydb

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Repository defines the contract for round persistence.
type Repository interface {
	// GetActive retrieves the single Active round, or ErrNotFound.
	GetActive(ctx context.Context, db bun.IDB) (*Round, error)

	// GetByID retrieves a round by ID, or ErrNotFound.
	GetByID(ctx context.Context, db bun.IDB, id uuid.UUID) (*Round, error)

	// ListCompleted retrieves completed rounds, newest first.
	ListCompleted(ctx context.Context, db bun.IDB, limit int) ([]*Round, error)

	// LastRoundNumber returns the highest round number, 0 if none exist.
	LastRoundNumber(ctx context.Context, db bun.IDB) (int64, error)

	// Create persists a new round. A second Active round violates the
	// partial unique index and surfaces as ErrActiveRoundExists.
	Create(ctx context.Context, db bun.IDB, round *Round) error

	// ReserveTicket atomically increments tickets_sold and total_pool on an
	// Active round with headroom, returning the updated row. Zero rows
	// resolve to ErrNotFound, ErrNotActive, or ErrRoundFull.
	ReserveTicket(ctx context.Context, db bun.IDB, id uuid.UUID) (*Round, error)

	// BeginDraw transitions Active -> Drawing. Only one concurrent caller
	// wins; the loser gets ErrNotDrawable (or ErrNotFound).
	BeginDraw(ctx context.Context, db bun.IDB, id uuid.UUID) (*Round, error)

	// CompleteDraw transitions Drawing -> Completed with the winning number.
	CompleteDraw(ctx context.Context, db bun.IDB, id uuid.UUID, winnerTicket int) error

	// RevertDraw returns a Drawing round to Active with a new end time.
	// Used when the draw is skipped for lack of sales.
	RevertDraw(ctx context.Context, db bun.IDB, id uuid.UUID, endTime time.Time) error

	// MarkWinningTicket flags the round's winning ticket.
	MarkWinningTicket(ctx context.Context, db bun.IDB, lotteryID uuid.UUID, ticketNumber int) error
}
