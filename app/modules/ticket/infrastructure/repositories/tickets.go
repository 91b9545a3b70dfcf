package ticketdb

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/driver/pgdriver"
)

var (
	// ErrDuplicateConfirmation is returned when a confirmation reference
	// with the same batch sequence was already used to mint a ticket.
	ErrDuplicateConfirmation = errors.New("payment confirmation already processed")

	// ErrDuplicateNumber is returned when the ticket number is already
	// taken in the round. This indicates a reservation bug, not user error.
	ErrDuplicateNumber = errors.New("ticket number already issued")
)

// Impl implements the Repository interface using Bun.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new ticket repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

// Insert persists a ticket.
func (r *Impl) Insert(ctx context.Context, db bun.IDB, ticket *Ticket) error {
	db = r.resolveDB(db)
	_, err := db.NewInsert().
		Model(ticket).
		Exec(ctx)
	if err != nil {
		if name, ok := uniqueViolation(err); ok {
			if strings.Contains(name, "confirmation") {
				return ErrDuplicateConfirmation
			}
			return ErrDuplicateNumber
		}
		return fmt.Errorf("failed to insert ticket: %w", err)
	}
	return nil
}

// ListByConfirmation returns the tickets already minted for a confirmation
// reference.
func (r *Impl) ListByConfirmation(ctx context.Context, db bun.IDB, method, transactionRef string) ([]*Ticket, error) {
	db = r.resolveDB(db)
	var tickets []*Ticket
	err := db.NewSelect().
		Model(&tickets).
		Where("payment_method = ? AND transaction_ref = ?", method, transactionRef).
		Order("batch_seq ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tickets by confirmation: %w", err)
	}
	return tickets, nil
}

// ListByUser returns a user's tickets, newest first.
func (r *Impl) ListByUser(ctx context.Context, db bun.IDB, userID string, limit int) ([]*Ticket, error) {
	db = r.resolveDB(db)
	var tickets []*Ticket
	err := db.NewSelect().
		Model(&tickets).
		Where("user_id = ?", userID).
		Order("purchased_at DESC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tickets by user: %w", err)
	}
	return tickets, nil
}

// ListByLottery returns every ticket of a round, ordered by number.
func (r *Impl) ListByLottery(ctx context.Context, db bun.IDB, lotteryID uuid.UUID) ([]*Ticket, error) {
	db = r.resolveDB(db)
	var tickets []*Ticket
	err := db.NewSelect().
		Model(&tickets).
		Where("lottery_id = ?", lotteryID).
		Order("ticket_number ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tickets by lottery: %w", err)
	}
	return tickets, nil
}

// CountByUser returns how many tickets a user holds overall.
func (r *Impl) CountByUser(ctx context.Context, db bun.IDB, userID string) (int, error) {
	db = r.resolveDB(db)
	count, err := db.NewSelect().
		Model((*Ticket)(nil)).
		Where("user_id = ?", userID).
		Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count tickets by user: %w", err)
	}
	return count, nil
}

// uniqueViolation reports whether err is a Postgres unique violation and
// names the violated constraint.
func uniqueViolation(err error) (string, bool) {
	var pgErr pgdriver.Error
	if errors.As(err, &pgErr) && pgErr.Field('C') == "23505" {
		return pgErr.Field('n'), true
	}
	return "", false
}
