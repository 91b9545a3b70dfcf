package ticketdb

import (
	"context"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Repository defines the contract for ticket persistence.
type Repository interface {
	// Insert persists a ticket. A replayed confirmation surfaces as
	// ErrDuplicateConfirmation; a colliding number as ErrDuplicateNumber.
	Insert(ctx context.Context, db bun.IDB, ticket *Ticket) error

	// ListByConfirmation returns the tickets already minted for a
	// confirmation reference, ordered by batch_seq.
	ListByConfirmation(ctx context.Context, db bun.IDB, method, transactionRef string) ([]*Ticket, error)

	// ListByUser returns a user's tickets, newest first.
	ListByUser(ctx context.Context, db bun.IDB, userID string, limit int) ([]*Ticket, error)

	// ListByLottery returns every ticket of a round, ordered by number.
	ListByLottery(ctx context.Context, db bun.IDB, lotteryID uuid.UUID) ([]*Ticket, error)

	// CountByUser returns how many tickets a user holds overall.
	CountByUser(ctx context.Context, db bun.IDB, userID string) (int, error)
}
