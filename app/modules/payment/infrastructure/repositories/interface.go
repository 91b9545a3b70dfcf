package paymentdb

import (
	"context"
	"time"

	"github.com/uptrace/bun"
)

// Repository defines the contract for payment persistence.
type Repository interface {
	// Create persists a new payment attempt. A replayed reference surfaces
	// as ErrDuplicateRef.
	Create(ctx context.Context, db bun.IDB, payment *Payment) error

	// GetByRef retrieves a payment by rail and provider reference, or
	// ErrNotFound.
	GetByRef(ctx context.Context, db bun.IDB, method, transactionRef string) (*Payment, error)

	// UpdateStatus transitions a payment's status. Returns ErrNotFound
	// when no row matches.
	UpdateStatus(ctx context.Context, db bun.IDB, method, transactionRef string, status PaymentStatus) error

	// ListPendingBefore returns pending payments created before the cutoff,
	// oldest first.
	ListPendingBefore(ctx context.Context, db bun.IDB, cutoff time.Time) ([]*Payment, error)

	// ExpirePendingBefore marks pending payments created before the cutoff
	// as expired and reports how many rows changed.
	ExpirePendingBefore(ctx context.Context, db bun.IDB, cutoff time.Time) (int, error)

	// ListRecent returns the latest payments across all rails.
	ListRecent(ctx context.Context, db bun.IDB, limit int) ([]*Payment, error)
}
