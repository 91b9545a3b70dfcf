package paymentservice

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/cryptolotto/lotto-backend/app/shared/attr"
	"github.com/cryptolotto/lotto-backend/app/shared/operation"
	"github.com/cryptolotto/lotto-backend/app/shared/results"

	paymentevents "github.com/cryptolotto/lotto-backend/app/modules/payment/domain/events"
	paymenttypes "github.com/cryptolotto/lotto-backend/app/modules/payment/domain/types"
	paymentdb "github.com/cryptolotto/lotto-backend/app/modules/payment/infrastructure/repositories"
	"github.com/cryptolotto/lotto-backend/app/modules/payment/infrastructure/providers"
	tickettypes "github.com/cryptolotto/lotto-backend/app/modules/ticket/domain/types"
	ticketdb "github.com/cryptolotto/lotto-backend/app/modules/ticket/infrastructure/repositories"
)

// CreateOrder opens a two-step order with the provider. The purchase
// parameters ride along as the composite custom id and come back at
// capture time, so capture needs nothing but the order id.
func (s *PaymentService) CreateOrder(ctx context.Context, userID, lotteryID string, quantity int) (OrderResult, error) {
	return operation.WithTelemetry(ctx, s.deps(), "CreateOrder", userID,
		func(ctx context.Context) (OrderResult, error) {
			round, f, err := s.roundWithHeadroom(ctx, lotteryID, quantity)
			if err != nil {
				return OrderResult{}, err
			}
			if f != nil {
				return results.FailureResult[*paymenttypes.OrderCreated](f), nil
			}

			amount := round.TicketPrice.Mul(decimalFromInt(quantity))
			customID := buildCustomID(userID, lotteryID, quantity)
			orderID, err := s.orders.CreateOrder(ctx, amount, "USD", customID)
			if err != nil {
				return OrderResult{}, err
			}

			payment := &paymentdb.Payment{
				ID:             uuid.New(),
				UserID:         userID,
				LotteryID:      round.ID,
				Quantity:       quantity,
				Method:         ticketdb.MethodOrder,
				TransactionRef: orderID,
				Amount:         amount,
				Status:         paymentdb.StatusPending,
				CreatedAt:      now().UTC(),
				UpdatedAt:      now().UTC(),
			}
			if err := s.payments.Create(ctx, nil, payment); err != nil {
				return OrderResult{}, err
			}

			s.logger.InfoContext(ctx, "Order created",
				attr.ExtractCorrelationID(ctx),
				attr.String("user_id", userID),
				attr.String("order_id", orderID),
				attr.Int("quantity", quantity),
			)
			return results.SuccessResult[*paymenttypes.OrderCreated, *paymenttypes.Failure](&paymenttypes.OrderCreated{
				OrderID: orderID,
			}), nil
		})
}

// CaptureOrder captures an approved order and mints its tickets. Only a
// COMPLETED capture releases tickets; anything else is rejected without
// side effects. The order id is the idempotency key, so capturing twice
// reports the same ticket numbers without minting again.
func (s *PaymentService) CaptureOrder(ctx context.Context, orderID string) (ConfirmationResult, error) {
	return operation.WithTelemetry(ctx, s.deps(), "CaptureOrder", orderID,
		func(ctx context.Context) (ConfirmationResult, error) {
			if orderID == "" {
				return results.FailureResult[*paymenttypes.Confirmation](&paymenttypes.Failure{
					Reason:  paymenttypes.ReasonInvalidRequest,
					Message: "missing order id",
				}), nil
			}

			capture, err := s.orders.CaptureOrder(ctx, orderID)
			if err != nil {
				return ConfirmationResult{}, err
			}
			if capture.Status != providers.OrderStatusCompleted {
				s.counters.RecordPaymentRejected(ctx, ticketdb.MethodOrder, "status_"+strings.ToLower(capture.Status))
				s.logger.WarnContext(ctx, "Order capture not completed",
					attr.ExtractCorrelationID(ctx),
					attr.String("order_id", orderID),
					attr.String("status", capture.Status),
				)
				return results.FailureResult[*paymenttypes.Confirmation](&paymenttypes.Failure{
					Reason:  paymenttypes.ReasonOrderNotCompleted,
					Message: fmt.Sprintf("order capture returned status %s", capture.Status),
				}), nil
			}

			userID, lotteryID, quantity, err := parseCustomID(capture.CustomID)
			if err != nil {
				s.counters.RecordPaymentRejected(ctx, ticketdb.MethodOrder, "invalid_custom_id")
				return results.FailureResult[*paymenttypes.Confirmation](&paymenttypes.Failure{
					Reason:  paymenttypes.ReasonInvalidRequest,
					Message: "order carries no parsable purchase reference",
				}), nil
			}

			issue, err := s.issuer.IssueBatch(ctx, tickettypes.IssueCommand{
				LotteryID:      lotteryID,
				UserID:         userID,
				Quantity:       quantity,
				PaymentMethod:  ticketdb.MethodOrder,
				TransactionRef: orderID,
			})
			if err != nil {
				return ConfirmationResult{}, err
			}
			if issue.IsFailure() {
				f := *issue.Failure
				s.counters.RecordPaymentRejected(ctx, ticketdb.MethodOrder, f.Reason)
				return results.FailureResult[*paymenttypes.Confirmation](issueFailure(f)), nil
			}

			receipt := *issue.Success
			s.settlePaymentRecord(ctx, ticketdb.MethodOrder, orderID, userID, lotteryID, quantity)

			if receipt.Minted > 0 {
				s.counters.RecordPaymentConfirmed(ctx, ticketdb.MethodOrder)
				s.publishConfirmed(ctx, paymentevents.PaymentConfirmedPayloadV1{
					LotteryID:      lotteryID,
					UserID:         userID,
					Method:         ticketdb.MethodOrder,
					TransactionRef: orderID,
					Quantity:       quantity,
					ConfirmedAt:    now().UTC(),
				})
			}
			return results.SuccessResult[*paymenttypes.Confirmation, *paymenttypes.Failure](&paymenttypes.Confirmation{
				LotteryID:      lotteryID,
				UserID:         userID,
				TicketNumbers:  receipt.TicketNumbers,
				Minted:         receipt.Minted,
				TransactionRef: orderID,
			}), nil
		})
}

// buildCustomID packs the purchase parameters into the provider's custom
// id field: user_lottery_quantity.
func buildCustomID(userID, lotteryID string, quantity int) string {
	return fmt.Sprintf("%s_%s_%d", userID, lotteryID, quantity)
}

// parseCustomID unpacks a composite custom id. User IDs may themselves
// contain underscores, so parsing anchors on the two rightmost segments.
func parseCustomID(customID string) (userID, lotteryID string, quantity int, err error) {
	parts := strings.Split(customID, "_")
	if len(parts) < 3 {
		return "", "", 0, errors.New("custom id has too few segments")
	}
	quantity, err = strconv.Atoi(parts[len(parts)-1])
	if err != nil {
		return "", "", 0, fmt.Errorf("custom id quantity: %w", err)
	}
	lotteryID = parts[len(parts)-2]
	if _, err := uuid.Parse(lotteryID); err != nil {
		return "", "", 0, fmt.Errorf("custom id lottery: %w", err)
	}
	userID = strings.Join(parts[:len(parts)-2], "_")
	if userID == "" {
		return "", "", 0, errors.New("custom id user missing")
	}
	return userID, lotteryID, quantity, nil
}
