package paymentservice

import (
	"context"
	"strings"

	"github.com/cryptolotto/lotto-backend/app/shared/attr"
	"github.com/cryptolotto/lotto-backend/app/shared/operation"
	"github.com/cryptolotto/lotto-backend/app/shared/results"

	paymentevents "github.com/cryptolotto/lotto-backend/app/modules/payment/domain/events"
	paymenttypes "github.com/cryptolotto/lotto-backend/app/modules/payment/domain/types"
	tickettypes "github.com/cryptolotto/lotto-backend/app/modules/ticket/domain/types"
	ticketdb "github.com/cryptolotto/lotto-backend/app/modules/ticket/infrastructure/repositories"
)

// minSignatureLength is a shape check on submitted transaction signatures.
// On-chain verification against the ledger is not performed here; the
// signature's uniqueness is what prevents replayed claims from minting.
const minSignatureLength = 10

// ConfirmOnChain accepts an on-chain payment claim. The transaction
// signature doubles as the idempotency key, so a wallet resubmitting the
// same signature gets the original tickets back.
func (s *PaymentService) ConfirmOnChain(ctx context.Context, userID, lotteryID string, quantity int, signature string) (ConfirmationResult, error) {
	return operation.WithTelemetry(ctx, s.deps(), "ConfirmOnChain", userID,
		func(ctx context.Context) (ConfirmationResult, error) {
			signature = strings.TrimSpace(signature)
			if len(signature) < minSignatureLength {
				s.counters.RecordPaymentRejected(ctx, ticketdb.MethodOnChain, "invalid_signature")
				return results.FailureResult[*paymenttypes.Confirmation](&paymenttypes.Failure{
					Reason:  paymenttypes.ReasonInvalidClaim,
					Message: "transaction signature is missing or too short",
				}), nil
			}

			s.logger.InfoContext(ctx, "On-chain claim accepted on shape check",
				attr.ExtractCorrelationID(ctx),
				attr.String("user_id", userID),
				attr.String("signature_prefix", signature[:minSignatureLength]),
			)

			issue, err := s.issuer.IssueBatch(ctx, tickettypes.IssueCommand{
				LotteryID:      lotteryID,
				UserID:         userID,
				Quantity:       quantity,
				PaymentMethod:  ticketdb.MethodOnChain,
				TransactionRef: signature,
			})
			if err != nil {
				return ConfirmationResult{}, err
			}
			if issue.IsFailure() {
				f := *issue.Failure
				s.counters.RecordPaymentRejected(ctx, ticketdb.MethodOnChain, f.Reason)
				return results.FailureResult[*paymenttypes.Confirmation](issueFailure(f)), nil
			}

			receipt := *issue.Success
			s.settlePaymentRecord(ctx, ticketdb.MethodOnChain, signature, userID, lotteryID, quantity)

			if receipt.Minted > 0 {
				s.counters.RecordPaymentConfirmed(ctx, ticketdb.MethodOnChain)
				s.publishConfirmed(ctx, paymentevents.PaymentConfirmedPayloadV1{
					LotteryID:      lotteryID,
					UserID:         userID,
					Method:         ticketdb.MethodOnChain,
					TransactionRef: signature,
					Quantity:       quantity,
					ConfirmedAt:    now().UTC(),
				})
			}
			return results.SuccessResult[*paymenttypes.Confirmation, *paymenttypes.Failure](&paymenttypes.Confirmation{
				LotteryID:      lotteryID,
				UserID:         userID,
				TicketNumbers:  receipt.TicketNumbers,
				Minted:         receipt.Minted,
				TransactionRef: signature,
			}), nil
		})
}
