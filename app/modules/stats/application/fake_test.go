package statsservice

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	lotterydb "github.com/cryptolotto/lotto-backend/app/modules/lottery/infrastructure/repositories"
	statsdb "github.com/cryptolotto/lotto-backend/app/modules/stats/infrastructure/repositories"
)

// ------------------------
// Fake Stats Repo
// ------------------------

type FakeStatsRepo struct {
	SummarizeFunc func(ctx context.Context, db bun.IDB) (*statsdb.Summary, error)
}

func (f *FakeStatsRepo) Summarize(ctx context.Context, db bun.IDB) (*statsdb.Summary, error) {
	if f.SummarizeFunc != nil {
		return f.SummarizeFunc(ctx, db)
	}
	return &statsdb.Summary{}, nil
}

// ------------------------
// Fake Round Repo
// ------------------------

// FakeRoundRepo only serves the read path the stats module exercises.
type FakeRoundRepo struct {
	Rounds []*lotterydb.Round

	ListCompletedFunc func(ctx context.Context, db bun.IDB, limit int) ([]*lotterydb.Round, error)
}

func (f *FakeRoundRepo) GetActive(ctx context.Context, db bun.IDB) (*lotterydb.Round, error) {
	return nil, lotterydb.ErrNotFound
}

func (f *FakeRoundRepo) GetByID(ctx context.Context, db bun.IDB, id uuid.UUID) (*lotterydb.Round, error) {
	return nil, lotterydb.ErrNotFound
}

func (f *FakeRoundRepo) ListCompleted(ctx context.Context, db bun.IDB, limit int) ([]*lotterydb.Round, error) {
	if f.ListCompletedFunc != nil {
		return f.ListCompletedFunc(ctx, db, limit)
	}
	if limit < len(f.Rounds) {
		return f.Rounds[:limit], nil
	}
	return f.Rounds, nil
}

func (f *FakeRoundRepo) LastRoundNumber(ctx context.Context, db bun.IDB) (int64, error) {
	return 0, nil
}

func (f *FakeRoundRepo) Create(ctx context.Context, db bun.IDB, round *lotterydb.Round) error {
	return nil
}

func (f *FakeRoundRepo) ReserveTicket(ctx context.Context, db bun.IDB, id uuid.UUID) (*lotterydb.Round, error) {
	return nil, lotterydb.ErrNotFound
}

func (f *FakeRoundRepo) BeginDraw(ctx context.Context, db bun.IDB, id uuid.UUID) (*lotterydb.Round, error) {
	return nil, lotterydb.ErrNotFound
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
