package ticketservice

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/cryptolotto/lotto-backend/app/shared/attr"
	"github.com/cryptolotto/lotto-backend/app/shared/operation"
	"github.com/cryptolotto/lotto-backend/app/shared/results"

	lotterydb "github.com/cryptolotto/lotto-backend/app/modules/lottery/infrastructure/repositories"
	ticketevents "github.com/cryptolotto/lotto-backend/app/modules/ticket/domain/events"
	tickettypes "github.com/cryptolotto/lotto-backend/app/modules/ticket/domain/types"
	ticketdb "github.com/cryptolotto/lotto-backend/app/modules/ticket/infrastructure/repositories"
)

// maxBatchQuantity caps a single confirmation. Larger purchases come in as
// multiple payments upstream.
const maxBatchQuantity = 100

func validMethod(method string) bool {
	switch method {
	case ticketdb.MethodCard, ticketdb.MethodOrder, ticketdb.MethodOnChain:
		return true
	}
	return false
}

// IssueBatch mints Quantity tickets for a confirmed payment. The whole batch
// commits or rolls back as one unit, and the reservation counter hands out
// each number exactly once. Replaying the same confirmation returns the
// previously minted numbers without minting again; a replay that lost a
// concurrent race is detected by the confirmation unique index.
func (s *TicketService) IssueBatch(ctx context.Context, cmd tickettypes.IssueCommand) (IssueBatchResult, error) {
	return operation.WithTelemetry(ctx, s.deps(), "IssueBatch", cmd.TransactionRef,
		func(ctx context.Context) (IssueBatchResult, error) {
			if f := validateIssueCommand(cmd); f != nil {
				return results.FailureResult[*tickettypes.IssueReceipt](f), nil
			}
			lotteryID, err := uuid.Parse(cmd.LotteryID)
			if err != nil {
				return results.FailureResult[*tickettypes.IssueReceipt](&tickettypes.Failure{
					Reason:  tickettypes.ReasonInvalidCommand,
					Message: "invalid lottery id",
				}), nil
			}

			result, err := operation.RunInTx(ctx, s.db,
				func(ctx context.Context, db bun.IDB) (IssueBatchResult, error) {
					return s.issueBatchTx(ctx, db, cmd, lotteryID)
				})
			if err == nil {
				if result.IsSuccess() {
					s.afterIssue(ctx, cmd, *result.Success)
				}
				return result, nil
			}

			// Sentinel errors roll the transaction back and resolve to
			// domain failures here.
			switch {
			case errors.Is(err, lotterydb.ErrNotFound):
				return results.FailureResult[*tickettypes.IssueReceipt](&tickettypes.Failure{
					Reason:  tickettypes.ReasonRoundNotFound,
					Message: "lottery round not found",
				}), nil
			case errors.Is(err, lotterydb.ErrNotActive):
				return results.FailureResult[*tickettypes.IssueReceipt](&tickettypes.Failure{
					Reason:  tickettypes.ReasonRoundNotActive,
					Message: "lottery round is not accepting tickets",
				}), nil
			case errors.Is(err, lotterydb.ErrRoundFull):
				return results.FailureResult[*tickettypes.IssueReceipt](&tickettypes.Failure{
					Reason:  tickettypes.ReasonRoundFull,
					Message: "lottery round is sold out",
				}), nil
			case errors.Is(err, ticketdb.ErrDuplicateConfirmation):
				return s.replayReceipt(ctx, cmd)
			default:
				return IssueBatchResult{}, err
			}
		})
}

func validateIssueCommand(cmd tickettypes.IssueCommand) *tickettypes.Failure {
	switch {
	case cmd.UserID == "":
		return &tickettypes.Failure{Reason: tickettypes.ReasonInvalidCommand, Message: "missing user id"}
	case cmd.Quantity < 1 || cmd.Quantity > maxBatchQuantity:
		return &tickettypes.Failure{
			Reason:  tickettypes.ReasonInvalidCommand,
			Message: fmt.Sprintf("quantity must be between 1 and %d", maxBatchQuantity),
		}
	case !validMethod(cmd.PaymentMethod):
		return &tickettypes.Failure{Reason: tickettypes.ReasonInvalidCommand, Message: "unknown payment method"}
	case cmd.TransactionRef == "":
		return &tickettypes.Failure{Reason: tickettypes.ReasonInvalidCommand, Message: "missing transaction reference"}
	}
	return nil
}

// issueBatchTx runs inside a transaction; any error return rolls the whole
// batch back.
func (s *TicketService) issueBatchTx(
	ctx context.Context,
	db bun.IDB,
	cmd tickettypes.IssueCommand,
	lotteryID uuid.UUID,
) (IssueBatchResult, error) {
	existing, err := s.tickets.ListByConfirmation(ctx, db, cmd.PaymentMethod, cmd.TransactionRef)
	if err != nil {
		return IssueBatchResult{}, err
	}
	minted := make(map[int]int, len(existing))
	for _, t := range existing {
		minted[t.BatchSeq] = t.TicketNumber
	}

	numbers := make([]int, 0, cmd.Quantity)
	freshly := 0
	for seq := 0; seq < cmd.Quantity; seq++ {
		if n, ok := minted[seq]; ok {
			numbers = append(numbers, n)
			continue
		}

		round, err := s.rounds.ReserveTicket(ctx, db, lotteryID)
		if err != nil {
			return IssueBatchResult{}, err
		}

		ticket := &ticketdb.Ticket{
			ID:             uuid.New(),
			LotteryID:      lotteryID,
			UserID:         cmd.UserID,
			TicketNumber:   round.TicketsSold,
			Price:          round.TicketPrice,
			PaymentMethod:  cmd.PaymentMethod,
			TransactionRef: cmd.TransactionRef,
			BatchSeq:       seq,
			PurchasedAt:    now().UTC(),
		}
		if err := s.tickets.Insert(ctx, db, ticket); err != nil {
			return IssueBatchResult{}, err
		}
		numbers = append(numbers, round.TicketsSold)
		freshly++
	}

	receipt := &tickettypes.IssueReceipt{
		LotteryID:      cmd.LotteryID,
		UserID:         cmd.UserID,
		TicketNumbers:  numbers,
		Minted:         freshly,
		AlreadyIssued:  len(minted),
		TransactionRef: cmd.TransactionRef,
	}
	return results.SuccessResult[*tickettypes.IssueReceipt, *tickettypes.Failure](receipt), nil
}

// afterIssue records metrics and publishes the issued event once the batch
// has committed.
func (s *TicketService) afterIssue(ctx context.Context, cmd tickettypes.IssueCommand, receipt *tickettypes.IssueReceipt) {
	if receipt.Minted == 0 {
		s.logger.InfoContext(ctx, "Confirmation replayed, no tickets minted",
			attr.ExtractCorrelationID(ctx),
			attr.String("transaction_ref", cmd.TransactionRef),
			attr.Int("already_issued", receipt.AlreadyIssued),
		)
		return
	}

	for i := 0; i < receipt.Minted; i++ {
		s.counters.RecordTicketIssued(ctx, cmd.PaymentMethod)
	}
	s.logger.InfoContext(ctx, "Tickets issued",
		attr.ExtractCorrelationID(ctx),
		attr.String("lottery_id", cmd.LotteryID),
		attr.String("user_id", cmd.UserID),
		attr.String("payment_method", cmd.PaymentMethod),
		attr.Int("minted", receipt.Minted),
	)
	s.publishEvent(ctx, ticketevents.TicketsIssuedV1, ticketevents.TicketsIssuedPayloadV1{
		LotteryID:      cmd.LotteryID,
		UserID:         cmd.UserID,
		TicketNumbers:  receipt.TicketNumbers,
		PaymentMethod:  cmd.PaymentMethod,
		TransactionRef: cmd.TransactionRef,
		IssuedAt:       now().UTC(),
	})
}

// replayReceipt handles a confirmation that lost a concurrent race: the
// other writer committed first, so read back what it minted.
func (s *TicketService) replayReceipt(ctx context.Context, cmd tickettypes.IssueCommand) (IssueBatchResult, error) {
	existing, err := s.tickets.ListByConfirmation(ctx, nil, cmd.PaymentMethod, cmd.TransactionRef)
	if err != nil {
		return IssueBatchResult{}, err
	}
	numbers := make([]int, 0, len(existing))
	for _, t := range existing {
		numbers = append(numbers, t.TicketNumber)
	}
	receipt := &tickettypes.IssueReceipt{
		LotteryID:      cmd.LotteryID,
		UserID:         cmd.UserID,
		TicketNumbers:  numbers,
		Minted:         0,
		AlreadyIssued:  len(existing),
		TransactionRef: cmd.TransactionRef,
	}
	return results.SuccessResult[*tickettypes.IssueReceipt, *tickettypes.Failure](receipt), nil
}
