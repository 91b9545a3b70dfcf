package lotteryservice

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	lotterydb "github.com/cryptolotto/lotto-backend/app/modules/lottery/infrastructure/repositories"
)

// ------------------------
// Fake Round Repo
// ------------------------

type FakeRoundRepo struct {
	trace []string

	GetActiveFunc         func(ctx context.Context, db bun.IDB) (*lotterydb.Round, error)
	GetByIDFunc           func(ctx context.Context, db bun.IDB, id uuid.UUID) (*lotterydb.Round, error)
	ListCompletedFunc     func(ctx context.Context, db bun.IDB, limit int) ([]*lotterydb.Round, error)
	LastRoundNumberFunc   func(ctx context.Context, db bun.IDB) (int64, error)
	CreateFunc            func(ctx context.Context, db bun.IDB, round *lotterydb.Round) error
	ReserveTicketFunc     func(ctx context.Context, db bun.IDB, id uuid.UUID) (*lotterydb.Round, error)
	BeginDrawFunc         func(ctx context.Context, db bun.IDB, id uuid.UUID) (*lotterydb.Round, error)
	CompleteDrawFunc      func(ctx context.Context, db bun.IDB, id uuid.UUID, winnerTicket int) error
	RevertDrawFunc        func(ctx context.Context, db bun.IDB, id uuid.UUID, endTime time.Time) error
	MarkWinningTicketFunc func(ctx context.Context, db bun.IDB, lotteryID uuid.UUID, ticketNumber int) error
}

func NewFakeRoundRepo() *FakeRoundRepo {
	return &FakeRoundRepo{
		trace: []string{},
	}
}

func (f *FakeRoundRepo) record(step string) {
	f.trace = append(f.trace, step)
}

// --- Repository Interface Implementation ---

func (f *FakeRoundRepo) GetActive(ctx context.Context, db bun.IDB) (*lotterydb.Round, error) {
	f.record("GetActive")
	if f.GetActiveFunc != nil {
		return f.GetActiveFunc(ctx, db)
	}
	return nil, lotterydb.ErrNotFound
}

func (f *FakeRoundRepo) GetByID(ctx context.Context, db bun.IDB, id uuid.UUID) (*lotterydb.Round, error) {
	f.record("GetByID")
	if f.GetByIDFunc != nil {
		return f.GetByIDFunc(ctx, db, id)
	}
	return nil, lotterydb.ErrNotFound
}

func (f *FakeRoundRepo) ListCompleted(ctx context.Context, db bun.IDB, limit int) ([]*lotterydb.Round, error) {
	f.record("ListCompleted")
	if f.ListCompletedFunc != nil {
		return f.ListCompletedFunc(ctx, db, limit)
	}
	return nil, nil
}

func (f *FakeRoundRepo) LastRoundNumber(ctx context.Context, db bun.IDB) (int64, error) {
	f.record("LastRoundNumber")
	if f.LastRoundNumberFunc != nil {
		return f.LastRoundNumberFunc(ctx, db)
	}
	return 0, nil
}

func (f *FakeRoundRepo) Create(ctx context.Context, db bun.IDB, round *lotterydb.Round) error {
	f.record("Create")
	if f.CreateFunc != nil {
		return f.CreateFunc(ctx, db, round)
	}
	return nil
}

func (f *FakeRoundRepo) ReserveTicket(ctx context.Context, db bun.IDB, id uuid.UUID) (*lotterydb.Round, error) {
	f.record("ReserveTicket")
	if f.ReserveTicketFunc != nil {
		return f.ReserveTicketFunc(ctx, db, id)
	}
	return nil, lotterydb.ErrNotFound
}

func (f *FakeRoundRepo) BeginDraw(ctx context.Context, db bun.IDB, id uuid.UUID) (*lotterydb.Round, error) {
	f.record("BeginDraw")
	if f.BeginDrawFunc != nil {
		return f.BeginDrawFunc(ctx, db, id)
	}
	return nil, lotterydb.ErrNotFound
}

func (f *FakeRoundRepo) CompleteDraw(ctx context.Context, db bun.IDB, id uuid.UUID, winnerTicket int) error {
	f.record("CompleteDraw")
	if f.CompleteDrawFunc != nil {
		return f.CompleteDrawFunc(ctx, db, id, winnerTicket)
	}
	return nil
}

func (f *FakeRoundRepo) RevertDraw(ctx context.Context, db bun.IDB, id uuid.UUID, endTime time.Time) error {
	f.record("RevertDraw")
	if f.RevertDrawFunc != nil {
		return f.RevertDrawFunc(ctx, db, id, endTime)
	}
	return nil
}

func (f *FakeRoundRepo) MarkWinningTicket(ctx context.Context, db bun.IDB, lotteryID uuid.UUID, ticketNumber int) error {
	f.record("MarkWinningTicket")
	if f.MarkWinningTicketFunc != nil {
		return f.MarkWinningTicketFunc(ctx, db, lotteryID, ticketNumber)
	}
	return nil
}

// --- Accessors for assertions ---

func (f *FakeRoundRepo) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

// Ensure the fake actually satisfies the interface
var _ lotterydb.Repository = (*FakeRoundRepo)(nil)
