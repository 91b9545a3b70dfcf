package lotterydb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/driver/pgdriver"
)

var (
	// ErrNotFound is returned when a round does not exist.
	ErrNotFound = errors.New("round not found")

	// ErrActiveRoundExists is returned when creation would produce a second
	// Active round.
	ErrActiveRoundExists = errors.New("an active round already exists")

	// ErrNotActive is returned when an operation requires an Active round.
	ErrNotActive = errors.New("round is not active")

	// ErrRoundFull is returned when the round has sold out.
	ErrRoundFull = errors.New("round has no tickets left")

	// ErrNotDrawable is returned when a draw transition loses the race or
	// targets a round that is not Active.
	ErrNotDrawable = errors.New("round is not in a drawable state")
)

// Impl implements the Repository interface using Bun.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new round repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

// resolveDB returns the provided db handle, falling back to the repository's
// default connection if db is nil.
func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

// GetActive retrieves the single Active round.
func (r *Impl) GetActive(ctx context.Context, db bun.IDB) (*Round, error) {
	db = r.resolveDB(db)
	round := new(Round)
	err := db.NewSelect().
		Model(round).
		Where("status = ?", StatusActive).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get active round: %w", err)
	}
	return round, nil
}

// GetByID retrieves a round by ID.
func (r *Impl) GetByID(ctx context.Context, db bun.IDB, id uuid.UUID) (*Round, error) {
	db = r.resolveDB(db)
	round := new(Round)
	err := db.NewSelect().
		Model(round).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get round by ID: %w", err)
	}
	return round, nil
}

// ListCompleted retrieves completed rounds, newest first.
func (r *Impl) ListCompleted(ctx context.Context, db bun.IDB, limit int) ([]*Round, error) {
	db = r.resolveDB(db)
	var rounds []*Round
	err := db.NewSelect().
		Model(&rounds).
		Where("status = ?", StatusCompleted).
		Order("round DESC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list completed rounds: %w", err)
	}
	return rounds, nil
}

// LastRoundNumber returns the highest round number, 0 if none exist.
func (r *Impl) LastRoundNumber(ctx context.Context, db bun.IDB) (int64, error) {
	db = r.resolveDB(db)
	var last int64
	err := db.NewSelect().
		Model((*Round)(nil)).
		ColumnExpr("COALESCE(MAX(round), 0)").
		Scan(ctx, &last)
	if err != nil {
		return 0, fmt.Errorf("failed to get last round number: %w", err)
	}
	return last, nil
}

// Create persists a new round.
func (r *Impl) Create(ctx context.Context, db bun.IDB, round *Round) error {
	db = r.resolveDB(db)
	_, err := db.NewInsert().
		Model(round).
		Exec(ctx)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrActiveRoundExists
		}
		return fmt.Errorf("failed to create round: %w", err)
	}
	return nil
}

// ReserveTicket performs the conditional increment that backs ticket
// issuance. The WHERE clause enforces both the Active status and the
// capacity bound so two concurrent buyers can never mint the same number.
func (r *Impl) ReserveTicket(ctx context.Context, db bun.IDB, id uuid.UUID) (*Round, error) {
	db = r.resolveDB(db)
	round := new(Round)
	err := db.NewUpdate().
		Model(round).
		Set("tickets_sold = tickets_sold + 1").
		Set("total_pool = total_pool + ticket_price").
		Set("updated_at = ?", time.Now()).
		Where("id = ? AND status = ? AND tickets_sold < max_tickets", id, StatusActive).
		Returning("*").
		Scan(ctx)
	if err == nil {
		return round, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to reserve ticket: %w", err)
	}

	// No row matched; look at the round to say why.
	current, getErr := r.GetByID(ctx, db, id)
	if getErr != nil {
		return nil, getErr
	}
	if current.Status != StatusActive {
		return nil, ErrNotActive
	}
	return nil, ErrRoundFull
}

// BeginDraw transitions Active -> Drawing.
func (r *Impl) BeginDraw(ctx context.Context, db bun.IDB, id uuid.UUID) (*Round, error) {
	db = r.resolveDB(db)
	round := new(Round)
	err := db.NewUpdate().
		Model(round).
		Set("status = ?", StatusDrawing).
		Set("updated_at = ?", time.Now()).
		Where("id = ? AND status = ?", id, StatusActive).
		Returning("*").
		Scan(ctx)
	if err == nil {
		return round, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to begin draw: %w", err)
	}

	if _, getErr := r.GetByID(ctx, db, id); getErr != nil {
		return nil, getErr
	}
	return nil, ErrNotDrawable
}

// CompleteDraw transitions Drawing -> Completed with the winning number.
func (r *Impl) CompleteDraw(ctx context.Context, db bun.IDB, id uuid.UUID, winnerTicket int) error {
	db = r.resolveDB(db)
	result, err := db.NewUpdate().
		Model((*Round)(nil)).
		Set("status = ?", StatusCompleted).
		Set("winner_ticket = ?", winnerTicket).
		Set("updated_at = ?", time.Now()).
		Where("id = ? AND status = ?", id, StatusDrawing).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to complete draw: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotDrawable
	}
	return nil
}

// RevertDraw returns a Drawing round to Active with a new end time.
func (r *Impl) RevertDraw(ctx context.Context, db bun.IDB, id uuid.UUID, endTime time.Time) error {
	db = r.resolveDB(db)
	result, err := db.NewUpdate().
		Model((*Round)(nil)).
		Set("status = ?", StatusActive).
		Set("end_time = ?", endTime).
		Set("updated_at = ?", time.Now()).
		Where("id = ? AND status = ?", id, StatusDrawing).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to revert draw: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotDrawable
	}
	return nil
}

// MarkWinningTicket flags the round's winning ticket.
func (r *Impl) MarkWinningTicket(ctx context.Context, db bun.IDB, lotteryID uuid.UUID, ticketNumber int) error {
	db = r.resolveDB(db)
	result, err := db.NewUpdate().
		Table("tickets").
		Set("is_winner = TRUE").
		Where("lottery_id = ? AND ticket_number = ?", lotteryID, ticketNumber).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to mark winning ticket: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("winning ticket %d not found for lottery %s", ticketNumber, lotteryID)
	}
	return nil
}

// isUniqueViolation reports whether err is a Postgres unique violation.
func isUniqueViolation(err error) bool {
	var pgErr pgdriver.Error
	if errors.As(err, &pgErr) {
		return pgErr.Field('C') == "23505"
	}
	return false
}
