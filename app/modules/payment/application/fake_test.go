package paymentservice

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"

	lotterydb "github.com/cryptolotto/lotto-backend/app/modules/lottery/infrastructure/repositories"
	paymentdb "github.com/cryptolotto/lotto-backend/app/modules/payment/infrastructure/repositories"
	"github.com/cryptolotto/lotto-backend/app/modules/payment/infrastructure/providers"
	ticketservice "github.com/cryptolotto/lotto-backend/app/modules/ticket/application"
	tickettypes "github.com/cryptolotto/lotto-backend/app/modules/ticket/domain/types"
	"github.com/cryptolotto/lotto-backend/app/shared/results"
)

// ------------------------
// Fake Payment Repo
// ------------------------

type FakePaymentRepo struct {
	trace   []string
	created []*paymentdb.Payment

	CreateFunc              func(ctx context.Context, db bun.IDB, payment *paymentdb.Payment) error
	GetByRefFunc            func(ctx context.Context, db bun.IDB, method, transactionRef string) (*paymentdb.Payment, error)
	UpdateStatusFunc        func(ctx context.Context, db bun.IDB, method, transactionRef string, status paymentdb.PaymentStatus) error
	ListPendingBeforeFunc   func(ctx context.Context, db bun.IDB, cutoff time.Time) ([]*paymentdb.Payment, error)
	ExpirePendingBeforeFunc func(ctx context.Context, db bun.IDB, cutoff time.Time) (int, error)
	ListRecentFunc          func(ctx context.Context, db bun.IDB, limit int) ([]*paymentdb.Payment, error)
}

func NewFakePaymentRepo() *FakePaymentRepo {
	return &FakePaymentRepo{trace: []string{}}
}

func (f *FakePaymentRepo) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakePaymentRepo) Create(ctx context.Context, db bun.IDB, payment *paymentdb.Payment) error {
	f.record("Create")
	if f.CreateFunc != nil {
		if err := f.CreateFunc(ctx, db, payment); err != nil {
			return err
		}
	}
	f.created = append(f.created, payment)
	return nil
}

func (f *FakePaymentRepo) GetByRef(ctx context.Context, db bun.IDB, method, transactionRef string) (*paymentdb.Payment, error) {
	f.record("GetByRef")
	if f.GetByRefFunc != nil {
		return f.GetByRefFunc(ctx, db, method, transactionRef)
	}
	return nil, paymentdb.ErrNotFound
}

func (f *FakePaymentRepo) UpdateStatus(ctx context.Context, db bun.IDB, method, transactionRef string, status paymentdb.PaymentStatus) error {
	f.record("UpdateStatus")
	if f.UpdateStatusFunc != nil {
		return f.UpdateStatusFunc(ctx, db, method, transactionRef, status)
	}
	return nil
}

func (f *FakePaymentRepo) ListPendingBefore(ctx context.Context, db bun.IDB, cutoff time.Time) ([]*paymentdb.Payment, error) {
	f.record("ListPendingBefore")
	if f.ListPendingBeforeFunc != nil {
		return f.ListPendingBeforeFunc(ctx, db, cutoff)
	}
	return nil, nil
}

func (f *FakePaymentRepo) ExpirePendingBefore(ctx context.Context, db bun.IDB, cutoff time.Time) (int, error) {
	f.record("ExpirePendingBefore")
	if f.ExpirePendingBeforeFunc != nil {
		return f.ExpirePendingBeforeFunc(ctx, db, cutoff)
	}
	return 0, nil
}

func (f *FakePaymentRepo) ListRecent(ctx context.Context, db bun.IDB, limit int) ([]*paymentdb.Payment, error) {
	f.record("ListRecent")
	if f.ListRecentFunc != nil {
		return f.ListRecentFunc(ctx, db, limit)
	}
	return nil, nil
}

func (f *FakePaymentRepo) Created() []*paymentdb.Payment {
	out := make([]*paymentdb.Payment, len(f.created))
	copy(out, f.created)
	return out
}

func (f *FakePaymentRepo) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

var _ paymentdb.Repository = (*FakePaymentRepo)(nil)

// ------------------------
// Fake Round Repo (reads only)
// ------------------------

type FakeRoundRepo struct {
	Round *lotterydb.Round
}

func NewFakeRoundRepo() *FakeRoundRepo {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	return &FakeRoundRepo{
		Round: &lotterydb.Round{
			ID:          uuid.New(),
			Round:       3,
			StartTime:   start,
			EndTime:     start.Add(7 * 24 * time.Hour),
			TicketPrice: decimal.NewFromInt(1),
			TicketsSold: 100,
			MaxTickets:  10000,
			Status:      lotterydb.StatusActive,
		},
	}
}

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

func (f *FakeRoundRepo) ReserveTicket(ctx context.Context, db bun.IDB, id uuid.UUID) (*lotterydb.Round, error) {
	return nil, lotterydb.ErrNotFound
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

// ------------------------
// Fake Ticket Issuer
// ------------------------

type FakeIssuer struct {
	Commands []tickettypes.IssueCommand

	IssueBatchFunc func(ctx context.Context, cmd tickettypes.IssueCommand) (ticketservice.IssueBatchResult, error)
}

func NewFakeIssuer() *FakeIssuer {
	return &FakeIssuer{}
}

func (f *FakeIssuer) IssueBatch(ctx context.Context, cmd tickettypes.IssueCommand) (ticketservice.IssueBatchResult, error) {
	f.Commands = append(f.Commands, cmd)
	if f.IssueBatchFunc != nil {
		return f.IssueBatchFunc(ctx, cmd)
	}
	numbers := make([]int, cmd.Quantity)
	for i := range numbers {
		numbers[i] = i + 1
	}
	return results.SuccessResult[*tickettypes.IssueReceipt, *tickettypes.Failure](&tickettypes.IssueReceipt{
		LotteryID:      cmd.LotteryID,
		UserID:         cmd.UserID,
		TicketNumbers:  numbers,
		Minted:         cmd.Quantity,
		TransactionRef: cmd.TransactionRef,
	}), nil
}

func (f *FakeIssuer) ListUserTickets(ctx context.Context, userID string, limit int) (ticketservice.TicketListResult, error) {
	return results.SuccessResult[[]*tickettypes.TicketInfo, *tickettypes.Failure](nil), nil
}

var _ ticketservice.Service = (*FakeIssuer)(nil)

// ------------------------
// Fake Providers
// ------------------------

type FakeProvider struct {
	Sessions []providers.SessionRequest
	Orders   []string

	CreateSessionFunc func(ctx context.Context, req providers.SessionRequest) (*providers.Session, error)
	CreateOrderFunc   func(ctx context.Context, amount decimal.Decimal, currency, customID string) (string, error)
	CaptureOrderFunc  func(ctx context.Context, orderID string) (*providers.CaptureResult, error)
}

func NewFakeProvider() *FakeProvider {
	return &FakeProvider{}
}

func (f *FakeProvider) CreateSession(ctx context.Context, req providers.SessionRequest) (*providers.Session, error) {
	f.Sessions = append(f.Sessions, req)
	if f.CreateSessionFunc != nil {
		return f.CreateSessionFunc(ctx, req)
	}
	return &providers.Session{ID: "sess_123", URL: "https://pay.example/s/sess_123"}, nil
}

func (f *FakeProvider) CreateOrder(ctx context.Context, amount decimal.Decimal, currency, customID string) (string, error) {
	f.Orders = append(f.Orders, customID)
	if f.CreateOrderFunc != nil {
		return f.CreateOrderFunc(ctx, amount, currency, customID)
	}
	return "ORDER-1", nil
}

func (f *FakeProvider) CaptureOrder(ctx context.Context, orderID string) (*providers.CaptureResult, error) {
	if f.CaptureOrderFunc != nil {
		return f.CaptureOrderFunc(ctx, orderID)
	}
	return &providers.CaptureResult{OrderID: orderID, Status: providers.OrderStatusCompleted}, nil
}

var (
	_ providers.CheckoutProvider = (*FakeProvider)(nil)
	_ providers.OrderProvider    = (*FakeProvider)(nil)
)
