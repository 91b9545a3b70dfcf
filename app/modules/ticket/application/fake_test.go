package ticketservice

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"

	lotterydb "github.com/cryptolotto/lotto-backend/app/modules/lottery/infrastructure/repositories"
	ticketdb "github.com/cryptolotto/lotto-backend/app/modules/ticket/infrastructure/repositories"
)

// ------------------------
// Fake Ticket Repo
// ------------------------

type FakeTicketRepo struct {
	trace    []string
	inserted []*ticketdb.Ticket

	InsertFunc             func(ctx context.Context, db bun.IDB, ticket *ticketdb.Ticket) error
	ListByConfirmationFunc func(ctx context.Context, db bun.IDB, method, transactionRef string) ([]*ticketdb.Ticket, error)
	ListByUserFunc         func(ctx context.Context, db bun.IDB, userID string, limit int) ([]*ticketdb.Ticket, error)
	ListByLotteryFunc      func(ctx context.Context, db bun.IDB, lotteryID uuid.UUID) ([]*ticketdb.Ticket, error)
	CountByUserFunc        func(ctx context.Context, db bun.IDB, userID string) (int, error)
}

func NewFakeTicketRepo() *FakeTicketRepo {
	return &FakeTicketRepo{
		trace: []string{},
	}
}

func (f *FakeTicketRepo) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeTicketRepo) Insert(ctx context.Context, db bun.IDB, ticket *ticketdb.Ticket) error {
	f.record("Insert")
	if f.InsertFunc != nil {
		if err := f.InsertFunc(ctx, db, ticket); err != nil {
			return err
		}
	}
	f.inserted = append(f.inserted, ticket)
	return nil
}

func (f *FakeTicketRepo) ListByConfirmation(ctx context.Context, db bun.IDB, method, transactionRef string) ([]*ticketdb.Ticket, error) {
	f.record("ListByConfirmation")
	if f.ListByConfirmationFunc != nil {
		return f.ListByConfirmationFunc(ctx, db, method, transactionRef)
	}
	return nil, nil
}

func (f *FakeTicketRepo) ListByUser(ctx context.Context, db bun.IDB, userID string, limit int) ([]*ticketdb.Ticket, error) {
	f.record("ListByUser")
	if f.ListByUserFunc != nil {
		return f.ListByUserFunc(ctx, db, userID, limit)
	}
	return nil, nil
}

func (f *FakeTicketRepo) ListByLottery(ctx context.Context, db bun.IDB, lotteryID uuid.UUID) ([]*ticketdb.Ticket, error) {
	f.record("ListByLottery")
	if f.ListByLotteryFunc != nil {
		return f.ListByLotteryFunc(ctx, db, lotteryID)
	}
	return nil, nil
}

func (f *FakeTicketRepo) CountByUser(ctx context.Context, db bun.IDB, userID string) (int, error) {
	f.record("CountByUser")
	if f.CountByUserFunc != nil {
		return f.CountByUserFunc(ctx, db, userID)
	}
	return 0, nil
}

func (f *FakeTicketRepo) Inserted() []*ticketdb.Ticket {
	out := make([]*ticketdb.Ticket, len(f.inserted))
	copy(out, f.inserted)
	return out
}

var _ ticketdb.Repository = (*FakeTicketRepo)(nil)

// ------------------------
// Fake Round Repo
// ------------------------

// FakeRoundRepo implements just enough of the round repository for
// issuance: ReserveTicket behaves like the real conditional increment.
type FakeRoundRepo struct {
	Round *lotterydb.Round

	ReserveTicketFunc func(ctx context.Context, db bun.IDB, id uuid.UUID) (*lotterydb.Round, error)

	reserveCalls int
}

func NewFakeRoundRepo(sold, max int) *FakeRoundRepo {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	return &FakeRoundRepo{
		Round: &lotterydb.Round{
			ID:          uuid.New(),
			Round:       1,
			StartTime:   start,
			EndTime:     start.Add(7 * 24 * time.Hour),
			TicketPrice: decimal.NewFromInt(1),
			TicketsSold: sold,
			MaxTickets:  max,
			Status:      lotterydb.StatusActive,
		},
	}
}

func (f *FakeRoundRepo) ReserveTicket(ctx context.Context, db bun.IDB, id uuid.UUID) (*lotterydb.Round, error) {
	f.reserveCalls++
	if f.ReserveTicketFunc != nil {
		return f.ReserveTicketFunc(ctx, db, id)
	}
	if id != f.Round.ID {
		return nil, lotterydb.ErrNotFound
	}
	if f.Round.Status != lotterydb.StatusActive {
		return nil, lotterydb.ErrNotActive
	}
	if f.Round.TicketsSold >= f.Round.MaxTickets {
		return nil, lotterydb.ErrRoundFull
	}
	f.Round.TicketsSold++
	snapshot := *f.Round
	return &snapshot, nil
}

func (f *FakeRoundRepo) ReserveCalls() int { return f.reserveCalls }

func (f *FakeRoundRepo) GetActive(ctx context.Context, db bun.IDB) (*lotterydb.Round, error) {
	return f.Round, nil
}

func (f *FakeRoundRepo) GetByID(ctx context.Context, db bun.IDB, id uuid.UUID) (*lotterydb.Round, error) {
	if id != f.Round.ID {
		return nil, lotterydb.ErrNotFound
	}
	return f.Round, nil
}

func (f *FakeRoundRepo) ListCompleted(ctx context.Context, db bun.IDB, limit int) ([]*lotterydb.Round, error) {
	return nil, nil
}

func (f *FakeRoundRepo) LastRoundNumber(ctx context.Context, db bun.IDB) (int64, error) {
	return f.Round.Round, nil
}

func (f *FakeRoundRepo) Create(ctx context.Context, db bun.IDB, round *lotterydb.Round) error {
	return nil
}

func (f *FakeRoundRepo) BeginDraw(ctx context.Context, db bun.IDB, id uuid.UUID) (*lotterydb.Round, error) {
	return nil, lotterydb.ErrNotDrawable
}

func (f *FakeRoundRepo) CompleteDraw(ctx context.Context, db bun.IDB, id uuid.UUID, winnerTicket int) error {
	return nil
}

func (f *FakeRoundRepo) RevertDraw(ctx context.Context, db bun.IDB, id uuid.UUID, endTime time.Time) error {
	return nil
}

func (f *FakeRoundRepo) MarkWinningTicket(ctx context.Context, db bun.IDB, lotteryID uuid.UUID, ticketNumber int) error {
	return nil
}

var _ lotterydb.Repository = (*FakeRoundRepo)(nil)
