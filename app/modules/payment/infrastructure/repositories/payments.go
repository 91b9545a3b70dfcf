package paymentdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/driver/pgdriver"
)

var (
	// ErrNotFound is returned when a payment does not exist.
	ErrNotFound = errors.New("payment not found")

	// ErrDuplicateRef is returned when the rail already recorded this
	// provider reference.
	ErrDuplicateRef = errors.New("payment reference already recorded")
)

// Impl implements the Repository interface using Bun.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new payment repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

// Create persists a new payment attempt.
func (r *Impl) Create(ctx context.Context, db bun.IDB, payment *Payment) error {
	db = r.resolveDB(db)
	_, err := db.NewInsert().
		Model(payment).
		Exec(ctx)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateRef
		}
		return fmt.Errorf("failed to create payment: %w", err)
	}
	return nil
}

// GetByRef retrieves a payment by rail and provider reference.
func (r *Impl) GetByRef(ctx context.Context, db bun.IDB, method, transactionRef string) (*Payment, error) {
	db = r.resolveDB(db)
	payment := new(Payment)
	err := db.NewSelect().
		Model(payment).
		Where("method = ? AND transaction_ref = ?", method, transactionRef).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get payment by ref: %w", err)
	}
	return payment, nil
}

// UpdateStatus transitions a payment's status.
func (r *Impl) UpdateStatus(ctx context.Context, db bun.IDB, method, transactionRef string, status PaymentStatus) error {
	db = r.resolveDB(db)
	result, err := db.NewUpdate().
		Model((*Payment)(nil)).
		Set("status = ?", status).
		Set("updated_at = ?", time.Now()).
		Where("method = ? AND transaction_ref = ?", method, transactionRef).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update payment status: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// ListPendingBefore returns pending payments created before the cutoff.
func (r *Impl) ListPendingBefore(ctx context.Context, db bun.IDB, cutoff time.Time) ([]*Payment, error) {
	db = r.resolveDB(db)
	var payments []*Payment
	err := db.NewSelect().
		Model(&payments).
		Where("status = ? AND created_at < ?", StatusPending, cutoff).
		Order("created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending payments: %w", err)
	}
	return payments, nil
}

// ExpirePendingBefore marks stale pending payments as expired.
func (r *Impl) ExpirePendingBefore(ctx context.Context, db bun.IDB, cutoff time.Time) (int, error) {
	db = r.resolveDB(db)
	result, err := db.NewUpdate().
		Model((*Payment)(nil)).
		Set("status = ?", StatusExpired).
		Set("updated_at = ?", time.Now()).
		Where("status = ? AND created_at < ?", StatusPending, cutoff).
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to expire pending payments: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return int(rows), nil
}

// ListRecent returns the latest payments across all rails.
func (r *Impl) ListRecent(ctx context.Context, db bun.IDB, limit int) ([]*Payment, error) {
	db = r.resolveDB(db)
	var payments []*Payment
	err := db.NewSelect().
		Model(&payments).
		Order("created_at DESC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent payments: %w", err)
	}
	return payments, nil
}

func isUniqueViolation(err error) bool {
	var pgErr pgdriver.Error
	if errors.As(err, &pgErr) {
		return pgErr.Field('C') == "23505"
	}
	return false
}
