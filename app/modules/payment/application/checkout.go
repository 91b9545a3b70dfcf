package paymentservice

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/cryptolotto/lotto-backend/app/shared/attr"
	"github.com/cryptolotto/lotto-backend/app/shared/operation"
	"github.com/cryptolotto/lotto-backend/app/shared/results"

	lotterydb "github.com/cryptolotto/lotto-backend/app/modules/lottery/infrastructure/repositories"
	paymentevents "github.com/cryptolotto/lotto-backend/app/modules/payment/domain/events"
	paymenttypes "github.com/cryptolotto/lotto-backend/app/modules/payment/domain/types"
	paymentdb "github.com/cryptolotto/lotto-backend/app/modules/payment/infrastructure/repositories"
	"github.com/cryptolotto/lotto-backend/app/modules/payment/infrastructure/providers"
	tickettypes "github.com/cryptolotto/lotto-backend/app/modules/ticket/domain/types"
	ticketdb "github.com/cryptolotto/lotto-backend/app/modules/ticket/infrastructure/repositories"
)

// Webhook event types recognized on the card rail.
const (
	eventCheckoutCompleted = "checkout.session.completed"
	eventPaymentFailed     = "payment_intent.payment_failed"
)

// CreateCheckoutSession opens a hosted card checkout for quantity tickets
// of the given round and records the payment as pending until the webhook
// settles it.
func (s *PaymentService) CreateCheckoutSession(ctx context.Context, userID, lotteryID string, quantity int) (SessionResult, error) {
	return operation.WithTelemetry(ctx, s.deps(), "CreateCheckoutSession", userID,
		func(ctx context.Context) (SessionResult, error) {
			round, f, err := s.roundWithHeadroom(ctx, lotteryID, quantity)
			if err != nil {
				return SessionResult{}, err
			}
			if f != nil {
				return results.FailureResult[*paymenttypes.CheckoutSession](f), nil
			}

			amount := round.TicketPrice.Mul(decimalFromInt(quantity))
			session, err := s.checkout.CreateSession(ctx, providers.SessionRequest{
				Amount:     amount,
				Currency:   "USD",
				Quantity:   quantity,
				SuccessURL: s.frontendURL + "/payment/success",
				CancelURL:  s.frontendURL + "/payment/cancel",
				Metadata: map[string]string{
					"userId":    userID,
					"lotteryId": lotteryID,
					"quantity":  strconv.Itoa(quantity),
				},
			})
			if err != nil {
				return SessionResult{}, err
			}

			payment := &paymentdb.Payment{
				ID:             uuid.New(),
				UserID:         userID,
				LotteryID:      round.ID,
				Quantity:       quantity,
				Method:         ticketdb.MethodCard,
				TransactionRef: session.ID,
				Amount:         amount,
				Status:         paymentdb.StatusPending,
				CreatedAt:      now().UTC(),
				UpdatedAt:      now().UTC(),
			}
			if err := s.payments.Create(ctx, nil, payment); err != nil {
				return SessionResult{}, err
			}

			s.logger.InfoContext(ctx, "Checkout session opened",
				attr.ExtractCorrelationID(ctx),
				attr.String("user_id", userID),
				attr.String("session_id", session.ID),
				attr.Int("quantity", quantity),
			)
			return results.SuccessResult[*paymenttypes.CheckoutSession, *paymenttypes.Failure](&paymenttypes.CheckoutSession{
				SessionID: session.ID,
				URL:       session.URL,
			}), nil
		})
}

// webhookEvent is the shape of the card provider's webhook body.
type webhookEvent struct {
	Type string `json:"type"`
	Data struct {
		Object struct {
			ID       string            `json:"id"`
			Metadata map[string]string `json:"metadata"`
		} `json:"object"`
	} `json:"data"`
}

// HandleCheckoutWebhook verifies and settles a card provider webhook. A bad
// signature rejects the delivery with zero side effects. A completed
// checkout mints tickets through the idempotent batch issuance, so
// provider redeliveries are safe. Unknown event types are acknowledged and
// ignored.
func (s *PaymentService) HandleCheckoutWebhook(ctx context.Context, signature string, body []byte) (WebhookResult, error) {
	return operation.WithTelemetry(ctx, s.deps(), "HandleCheckoutWebhook", "webhook",
		func(ctx context.Context) (WebhookResult, error) {
			if !s.verifySignature(signature, body) {
				s.counters.RecordPaymentRejected(ctx, ticketdb.MethodCard, "invalid_signature")
				return results.FailureResult[*paymenttypes.WebhookAck](&paymenttypes.Failure{
					Reason:  paymenttypes.ReasonInvalidSignature,
					Message: "webhook signature verification failed",
				}), nil
			}

			var event webhookEvent
			if err := json.Unmarshal(body, &event); err != nil {
				return results.FailureResult[*paymenttypes.WebhookAck](&paymenttypes.Failure{
					Reason:  paymenttypes.ReasonInvalidRequest,
					Message: "malformed webhook body",
				}), nil
			}

			switch event.Type {
			case eventCheckoutCompleted:
				return s.settleCheckout(ctx, event)
			case eventPaymentFailed:
				return s.failCheckout(ctx, event)
			default:
				s.logger.InfoContext(ctx, "Ignoring webhook event",
					attr.ExtractCorrelationID(ctx),
					attr.String("event_type", event.Type),
				)
				return ackResult(""), nil
			}
		})
}

func (s *PaymentService) settleCheckout(ctx context.Context, event webhookEvent) (WebhookResult, error) {
	sessionID := event.Data.Object.ID
	meta := event.Data.Object.Metadata
	quantity, err := strconv.Atoi(meta["quantity"])
	if err != nil || meta["userId"] == "" || meta["lotteryId"] == "" {
		s.counters.RecordPaymentRejected(ctx, ticketdb.MethodCard, "invalid_metadata")
		return results.FailureResult[*paymenttypes.WebhookAck](&paymenttypes.Failure{
			Reason:  paymenttypes.ReasonInvalidRequest,
			Message: "webhook metadata incomplete",
		}), nil
	}

	issue, err := s.issuer.IssueBatch(ctx, tickettypes.IssueCommand{
		LotteryID:      meta["lotteryId"],
		UserID:         meta["userId"],
		Quantity:       quantity,
		PaymentMethod:  ticketdb.MethodCard,
		TransactionRef: sessionID,
	})
	if err != nil {
		return WebhookResult{}, err
	}
	if issue.IsFailure() {
		f := *issue.Failure
		s.counters.RecordPaymentRejected(ctx, ticketdb.MethodCard, f.Reason)
		return results.FailureResult[*paymenttypes.WebhookAck](issueFailure(f)), nil
	}

	receipt := *issue.Success
	s.settlePaymentRecord(ctx, ticketdb.MethodCard, sessionID, meta["userId"], meta["lotteryId"], quantity)

	if receipt.Minted > 0 {
		s.counters.RecordPaymentConfirmed(ctx, ticketdb.MethodCard)
		s.publishConfirmed(ctx, paymentevents.PaymentConfirmedPayloadV1{
			LotteryID:      meta["lotteryId"],
			UserID:         meta["userId"],
			Method:         ticketdb.MethodCard,
			TransactionRef: sessionID,
			Quantity:       quantity,
			ConfirmedAt:    now().UTC(),
		})
	}
	return ackResult(eventCheckoutCompleted), nil
}

func (s *PaymentService) failCheckout(ctx context.Context, event webhookEvent) (WebhookResult, error) {
	ref := event.Data.Object.ID
	err := s.payments.UpdateStatus(ctx, nil, ticketdb.MethodCard, ref, paymentdb.StatusFailed)
	if err != nil && !errors.Is(err, paymentdb.ErrNotFound) {
		return WebhookResult{}, err
	}
	s.logger.WarnContext(ctx, "Card payment failed",
		attr.ExtractCorrelationID(ctx),
		attr.String("transaction_ref", ref),
	)
	return ackResult(eventPaymentFailed), nil
}

// settlePaymentRecord marks the pending record completed, creating it when
// the webhook arrived for a session this instance never saw (e.g. after a
// crash between session creation and persistence).
func (s *PaymentService) settlePaymentRecord(ctx context.Context, method, ref, userID, lotteryID string, quantity int) {
	err := s.payments.UpdateStatus(ctx, nil, method, ref, paymentdb.StatusCompleted)
	if err == nil {
		return
	}
	if !errors.Is(err, paymentdb.ErrNotFound) {
		s.logger.ErrorContext(ctx, "Failed to settle payment record",
			attr.String("transaction_ref", ref), attr.Error(err))
		return
	}

	roundID, parseErr := uuid.Parse(lotteryID)
	if parseErr != nil {
		return
	}
	amount := decimalFromInt(quantity)
	if round, getErr := s.rounds.GetByID(ctx, nil, roundID); getErr == nil {
		amount = round.TicketPrice.Mul(decimalFromInt(quantity))
	}
	createErr := s.payments.Create(ctx, nil, &paymentdb.Payment{
		ID:             uuid.New(),
		UserID:         userID,
		LotteryID:      roundID,
		Quantity:       quantity,
		Method:         method,
		TransactionRef: ref,
		Amount:         amount,
		Status:         paymentdb.StatusCompleted,
		CreatedAt:      now().UTC(),
		UpdatedAt:      now().UTC(),
	})
	if createErr != nil && !errors.Is(createErr, paymentdb.ErrDuplicateRef) {
		s.logger.ErrorContext(ctx, "Failed to backfill payment record",
			attr.String("transaction_ref", ref), attr.Error(createErr))
	}
}

// verifySignature checks the hex HMAC-SHA256 of the raw body against the
// shared webhook secret in constant time. A "sha256=" prefix is accepted.
func (s *PaymentService) verifySignature(signature string, body []byte) bool {
	signature = strings.TrimPrefix(strings.TrimSpace(signature), "sha256=")
	if signature == "" || s.cfg.WebhookSecret == "" {
		return false
	}
	given, err := hex.DecodeString(signature)
	if err != nil {
		return false
	}
	mac := hmac.New(sha256.New, []byte(s.cfg.WebhookSecret))
	mac.Write(body)
	return hmac.Equal(given, mac.Sum(nil))
}

// roundWithHeadroom loads the round and checks it can still absorb the
// purchase. The check is advisory; the reservation counter is the real
// gate at issuance time.
func (s *PaymentService) roundWithHeadroom(ctx context.Context, lotteryID string, quantity int) (*lotterydb.Round, *paymenttypes.Failure, error) {
	if quantity < 1 || quantity > 100 {
		return nil, &paymenttypes.Failure{
			Reason:  paymenttypes.ReasonInvalidRequest,
			Message: "quantity must be between 1 and 100",
		}, nil
	}
	id, err := uuid.Parse(lotteryID)
	if err != nil {
		return nil, &paymenttypes.Failure{
			Reason:  paymenttypes.ReasonInvalidRequest,
			Message: "invalid lottery id",
		}, nil
	}

	round, err := s.rounds.GetByID(ctx, nil, id)
	if errors.Is(err, lotterydb.ErrNotFound) {
		return nil, &paymenttypes.Failure{
			Reason:  paymenttypes.ReasonRoundNotFound,
			Message: "lottery round not found",
		}, nil
	}
	if err != nil {
		return nil, nil, err
	}
	if round.Status != lotterydb.StatusActive {
		return nil, &paymenttypes.Failure{
			Reason:  paymenttypes.ReasonRoundNotActive,
			Message: "lottery round is not accepting tickets",
		}, nil
	}
	if round.TicketsSold+quantity > round.MaxTickets {
		return nil, &paymenttypes.Failure{
			Reason:  paymenttypes.ReasonRoundFull,
			Message: "not enough tickets left in this round",
		}, nil
	}
	return round, nil, nil
}

func ackResult(handled string) WebhookResult {
	return results.SuccessResult[*paymenttypes.WebhookAck, *paymenttypes.Failure](&paymenttypes.WebhookAck{
		Received: true,
		Handled:  handled,
	})
}
