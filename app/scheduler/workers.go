package scheduler

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/riverqueue/river"

	lotteryservice "github.com/cryptolotto/lotto-backend/app/modules/lottery/application"
	lotterytypes "github.com/cryptolotto/lotto-backend/app/modules/lottery/domain/types"
	paymentservice "github.com/cryptolotto/lotto-backend/app/modules/payment/application"
	"github.com/cryptolotto/lotto-backend/app/shared/attr"
)

// DrawWorker executes the weekly draw tick. The whole cycle is one job:
// draw the current round, and only a completed draw opens the next one. A
// skipped draw leaves the extended round in place, so the lottery never
// runs two rounds at once.
type DrawWorker struct {
	river.WorkerDefaults[DrawAndRecreateJob]
	lottery lotteryservice.Service
	logger  *slog.Logger
}

// NewDrawWorker creates a new DrawWorker.
func NewDrawWorker(lottery lotteryservice.Service, logger *slog.Logger) *DrawWorker {
	return &DrawWorker{lottery: lottery, logger: logger}
}

// Work runs one draw cycle.
func (w *DrawWorker) Work(ctx context.Context, job *river.Job[DrawAndRecreateJob]) error {
	current, err := w.lottery.GetCurrentRound(ctx)
	if err != nil {
		return fmt.Errorf("failed to load current round: %w", err)
	}
	if current.IsFailure() {
		// Nothing to draw; make sure a round is open for sales.
		w.logger.InfoContext(ctx, "No active round at draw tick, creating one")
		return w.openNextRound(ctx)
	}

	roundID, err := uuid.Parse((*current.Success).ID)
	if err != nil {
		return fmt.Errorf("stored round has invalid ID: %w", err)
	}

	drawn, err := w.lottery.DrawRound(ctx, roundID)
	if err != nil {
		return fmt.Errorf("draw failed: %w", err)
	}
	if drawn.IsFailure() {
		// Lost a race with a manual draw; the next tick retries.
		f := *drawn.Failure
		w.logger.WarnContext(ctx, "Draw tick skipped",
			attr.String("reason", f.Reason),
			attr.UUID("round_id", roundID),
		)
		return nil
	}

	result := *drawn.Success
	if result.Outcome == lotterytypes.DrawSkipped {
		w.logger.InfoContext(ctx, "Draw skipped for lack of sales, round extended",
			attr.UUID("round_id", roundID),
		)
		return nil
	}

	return w.openNextRound(ctx)
}

func (w *DrawWorker) openNextRound(ctx context.Context) error {
	created, err := w.lottery.CreateRound(ctx)
	if err != nil {
		return fmt.Errorf("failed to create next round: %w", err)
	}
	if created.IsFailure() {
		// A round already exists; another instance won the tick.
		f := *created.Failure
		w.logger.InfoContext(ctx, "Next round not created", attr.String("reason", f.Reason))
	}
	return nil
}

// SweepWorker runs the pending-payment sweep.
type SweepWorker struct {
	river.WorkerDefaults[PaymentSweepJob]
	payments paymentservice.Service
	logger   *slog.Logger
}

// NewSweepWorker creates a new SweepWorker.
func NewSweepWorker(payments paymentservice.Service, logger *slog.Logger) *SweepWorker {
	return &SweepWorker{payments: payments, logger: logger}
}

// Work runs one sweep.
func (w *SweepWorker) Work(ctx context.Context, job *river.Job[PaymentSweepJob]) error {
	result, err := w.payments.SweepPending(ctx)
	if err != nil {
		return fmt.Errorf("payment sweep failed: %w", err)
	}
	if report := *result.Success; report.Expired > 0 {
		w.logger.InfoContext(ctx, "Expired stale pending payments",
			attr.Int("expired", report.Expired),
		)
	}
	return nil
}
