package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/riverqueue/river"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	lotteryservice "github.com/cryptolotto/lotto-backend/app/modules/lottery/application"
	lotterytypes "github.com/cryptolotto/lotto-backend/app/modules/lottery/domain/types"
	paymentservice "github.com/cryptolotto/lotto-backend/app/modules/payment/application"
	paymenttypes "github.com/cryptolotto/lotto-backend/app/modules/payment/domain/types"
	"github.com/cryptolotto/lotto-backend/app/shared/results"
)

// ------------------------
// Fake Lottery Service
// ------------------------

type FakeLotteryService struct {
	trace []string

	GetCurrentRoundFunc func(ctx context.Context) (lotteryservice.RoundResult, error)
	DrawRoundFunc       func(ctx context.Context, id uuid.UUID) (lotteryservice.DrawRoundResult, error)
	CreateRoundFunc     func(ctx context.Context) (lotteryservice.RoundResult, error)
}

func (f *FakeLotteryService) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeLotteryService) GetCurrentRound(ctx context.Context) (lotteryservice.RoundResult, error) {
	f.record("GetCurrentRound")
	if f.GetCurrentRoundFunc != nil {
		return f.GetCurrentRoundFunc(ctx)
	}
	return results.FailureResult[*lotterytypes.RoundInfo](&lotterytypes.Failure{
		Reason: lotterytypes.ReasonNoActiveRound,
	}), nil
}

func (f *FakeLotteryService) GetRound(ctx context.Context, id uuid.UUID) (lotteryservice.RoundResult, error) {
	f.record("GetRound")
	return lotteryservice.RoundResult{}, errors.New("not used")
}

func (f *FakeLotteryService) ListHistory(ctx context.Context, limit int) (lotteryservice.RoundListResult, error) {
	f.record("ListHistory")
	return lotteryservice.RoundListResult{}, errors.New("not used")
}

func (f *FakeLotteryService) CreateRound(ctx context.Context) (lotteryservice.RoundResult, error) {
	f.record("CreateRound")
	if f.CreateRoundFunc != nil {
		return f.CreateRoundFunc(ctx)
	}
	return results.SuccessResult[*lotterytypes.RoundInfo, *lotterytypes.Failure](&lotterytypes.RoundInfo{
		ID: uuid.NewString(),
	}), nil
}

func (f *FakeLotteryService) DrawRound(ctx context.Context, id uuid.UUID) (lotteryservice.DrawRoundResult, error) {
	f.record("DrawRound")
	if f.DrawRoundFunc != nil {
		return f.DrawRoundFunc(ctx, id)
	}
	return lotteryservice.DrawRoundResult{}, errors.New("not used")
}

func activeRound(id uuid.UUID) lotteryservice.RoundResult {
	return results.SuccessResult[*lotterytypes.RoundInfo, *lotterytypes.Failure](&lotterytypes.RoundInfo{
		ID:     id.String(),
		Status: "active",
	})
}

func drawOutcome(outcome lotterytypes.DrawOutcome) lotteryservice.DrawRoundResult {
	return results.SuccessResult[*lotterytypes.DrawResult, *lotterytypes.Failure](&lotterytypes.DrawResult{
		Outcome: outcome,
	})
}

// ------------------------
// Fake Payment Service
// ------------------------

type FakePaymentService struct {
	SweepPendingFunc func(ctx context.Context) (paymentservice.SweepResult, error)
}

func (f *FakePaymentService) CreateCheckoutSession(ctx context.Context, userID, lotteryID string, quantity int) (paymentservice.SessionResult, error) {
	return paymentservice.SessionResult{}, errors.New("not used")
}

func (f *FakePaymentService) HandleCheckoutWebhook(ctx context.Context, signature string, body []byte) (paymentservice.WebhookResult, error) {
	return paymentservice.WebhookResult{}, errors.New("not used")
}

func (f *FakePaymentService) CreateOrder(ctx context.Context, userID, lotteryID string, quantity int) (paymentservice.OrderResult, error) {
	return paymentservice.OrderResult{}, errors.New("not used")
}

func (f *FakePaymentService) CaptureOrder(ctx context.Context, orderID string) (paymentservice.ConfirmationResult, error) {
	return paymentservice.ConfirmationResult{}, errors.New("not used")
}

func (f *FakePaymentService) ConfirmOnChain(ctx context.Context, userID, lotteryID string, quantity int, signature string) (paymentservice.ConfirmationResult, error) {
	return paymentservice.ConfirmationResult{}, errors.New("not used")
}

func (f *FakePaymentService) SweepPending(ctx context.Context) (paymentservice.SweepResult, error) {
	if f.SweepPendingFunc != nil {
		return f.SweepPendingFunc(ctx)
	}
	return results.SuccessResult[*paymenttypes.SweepReport, *paymenttypes.Failure](&paymenttypes.SweepReport{}), nil
}

func (f *FakePaymentService) ListRecentPayments(ctx context.Context, limit int) (paymentservice.PaymentListResult, error) {
	return paymentservice.PaymentListResult{}, errors.New("not used")
}

// ------------------------
// Tests
// ------------------------

func TestDrawWorkerCompletedDrawOpensNextRound(t *testing.T) {
	roundID := uuid.New()
	fake := &FakeLotteryService{
		GetCurrentRoundFunc: func(ctx context.Context) (lotteryservice.RoundResult, error) {
			return activeRound(roundID), nil
		},
		DrawRoundFunc: func(ctx context.Context, id uuid.UUID) (lotteryservice.DrawRoundResult, error) {
			assert.Equal(t, roundID, id)
			return drawOutcome(lotterytypes.DrawCompleted), nil
		},
	}
	worker := NewDrawWorker(fake, slog.Default())

	err := worker.Work(context.Background(), &river.Job[DrawAndRecreateJob]{})
	require.NoError(t, err)
	assert.Equal(t, []string{"GetCurrentRound", "DrawRound", "CreateRound"}, fake.trace)
}

func TestDrawWorkerSkippedDrawDoesNotRecreate(t *testing.T) {
	roundID := uuid.New()
	fake := &FakeLotteryService{
		GetCurrentRoundFunc: func(ctx context.Context) (lotteryservice.RoundResult, error) {
			return activeRound(roundID), nil
		},
		DrawRoundFunc: func(ctx context.Context, id uuid.UUID) (lotteryservice.DrawRoundResult, error) {
			return drawOutcome(lotterytypes.DrawSkipped), nil
		},
	}
	worker := NewDrawWorker(fake, slog.Default())

	err := worker.Work(context.Background(), &river.Job[DrawAndRecreateJob]{})
	require.NoError(t, err)
	assert.Equal(t, []string{"GetCurrentRound", "DrawRound"}, fake.trace)
}

func TestDrawWorkerNoActiveRoundCreatesOne(t *testing.T) {
	fake := &FakeLotteryService{}
	worker := NewDrawWorker(fake, slog.Default())

	err := worker.Work(context.Background(), &river.Job[DrawAndRecreateJob]{})
	require.NoError(t, err)
	assert.Equal(t, []string{"GetCurrentRound", "CreateRound"}, fake.trace)
}

func TestDrawWorkerLostRaceIsNotAnError(t *testing.T) {
	roundID := uuid.New()
	fake := &FakeLotteryService{
		GetCurrentRoundFunc: func(ctx context.Context) (lotteryservice.RoundResult, error) {
			return activeRound(roundID), nil
		},
		DrawRoundFunc: func(ctx context.Context, id uuid.UUID) (lotteryservice.DrawRoundResult, error) {
			return results.FailureResult[*lotterytypes.DrawResult](&lotterytypes.Failure{
				Reason: lotterytypes.ReasonNotDrawable,
			}), nil
		},
	}
	worker := NewDrawWorker(fake, slog.Default())

	err := worker.Work(context.Background(), &river.Job[DrawAndRecreateJob]{})
	require.NoError(t, err)
	assert.Equal(t, []string{"GetCurrentRound", "DrawRound"}, fake.trace)
}

func TestDrawWorkerStoreErrorRetries(t *testing.T) {
	wantErr := errors.New("connection reset")
	fake := &FakeLotteryService{
		GetCurrentRoundFunc: func(ctx context.Context) (lotteryservice.RoundResult, error) {
			return lotteryservice.RoundResult{}, wantErr
		},
	}
	worker := NewDrawWorker(fake, slog.Default())

	err := worker.Work(context.Background(), &river.Job[DrawAndRecreateJob]{})
	assert.ErrorIs(t, err, wantErr)
}

func TestSweepWorker(t *testing.T) {
	called := false
	fake := &FakePaymentService{
		SweepPendingFunc: func(ctx context.Context) (paymentservice.SweepResult, error) {
			called = true
			return results.SuccessResult[*paymenttypes.SweepReport, *paymenttypes.Failure](&paymenttypes.SweepReport{
				Expired: 3,
			}), nil
		},
	}
	worker := NewSweepWorker(fake, slog.Default())

	err := worker.Work(context.Background(), &river.Job[PaymentSweepJob]{})
	require.NoError(t, err)
	assert.True(t, called)
}

func TestSweepWorkerErrorRetries(t *testing.T) {
	wantErr := errors.New("connection reset")
	fake := &FakePaymentService{
		SweepPendingFunc: func(ctx context.Context) (paymentservice.SweepResult, error) {
			return paymentservice.SweepResult{}, wantErr
		},
	}
	worker := NewSweepWorker(fake, slog.Default())

	err := worker.Work(context.Background(), &river.Job[PaymentSweepJob]{})
	assert.ErrorIs(t, err, wantErr)
}
