package paymentservice

import (
	"context"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace"

	"github.com/cryptolotto/lotto-backend/app/shared/attr"
	"github.com/cryptolotto/lotto-backend/app/shared/eventbus"
	"github.com/cryptolotto/lotto-backend/app/shared/metrics"
	"github.com/cryptolotto/lotto-backend/app/shared/operation"
	"github.com/cryptolotto/lotto-backend/app/shared/results"
	"github.com/cryptolotto/lotto-backend/config"

	lotterydb "github.com/cryptolotto/lotto-backend/app/modules/lottery/infrastructure/repositories"
	paymentevents "github.com/cryptolotto/lotto-backend/app/modules/payment/domain/events"
	paymenttypes "github.com/cryptolotto/lotto-backend/app/modules/payment/domain/types"
	paymentdb "github.com/cryptolotto/lotto-backend/app/modules/payment/infrastructure/repositories"
	"github.com/cryptolotto/lotto-backend/app/modules/payment/infrastructure/providers"
	ticketservice "github.com/cryptolotto/lotto-backend/app/modules/ticket/application"
	tickettypes "github.com/cryptolotto/lotto-backend/app/modules/ticket/domain/types"
)

type (
	// SessionResult carries an opened checkout session or a domain failure.
	SessionResult = results.OperationResult[*paymenttypes.CheckoutSession, *paymenttypes.Failure]
	// OrderResult carries a created order or a domain failure.
	OrderResult = results.OperationResult[*paymenttypes.OrderCreated, *paymenttypes.Failure]
	// ConfirmationResult carries a mint confirmation or a domain failure.
	ConfirmationResult = results.OperationResult[*paymenttypes.Confirmation, *paymenttypes.Failure]
	// WebhookResult carries a webhook ack or a domain failure.
	WebhookResult = results.OperationResult[*paymenttypes.WebhookAck, *paymenttypes.Failure]
	// SweepResult carries a sweep report.
	SweepResult = results.OperationResult[*paymenttypes.SweepReport, *paymenttypes.Failure]
	// PaymentListResult carries a page of payment records.
	PaymentListResult = results.OperationResult[[]*paymenttypes.PaymentInfo, *paymenttypes.Failure]
)

// Service is the payment confirmation contract: one entry point per rail
// plus the pending sweep and the admin listing.
type Service interface {
	CreateCheckoutSession(ctx context.Context, userID, lotteryID string, quantity int) (SessionResult, error)
	HandleCheckoutWebhook(ctx context.Context, signature string, body []byte) (WebhookResult, error)
	CreateOrder(ctx context.Context, userID, lotteryID string, quantity int) (OrderResult, error)
	CaptureOrder(ctx context.Context, orderID string) (ConfirmationResult, error)
	ConfirmOnChain(ctx context.Context, userID, lotteryID string, quantity int, signature string) (ConfirmationResult, error)
	SweepPending(ctx context.Context) (SweepResult, error)
	ListRecentPayments(ctx context.Context, limit int) (PaymentListResult, error)
}

// PaymentService adapts the three payment rails onto ticket issuance. It
// never mints tickets itself; every confirmed payment funnels through the
// ticket service's idempotent batch issuance.
type PaymentService struct {
	payments paymentdb.Repository
	rounds   lotterydb.Repository
	issuer   ticketservice.Service
	checkout providers.CheckoutProvider
	orders   providers.OrderProvider
	logger   *slog.Logger
	metrics  metrics.Operation
	counters metrics.LotteryCounters
	tracer   trace.Tracer
	db       *bun.DB
	bus      eventbus.EventBus
	cfg      config.PaymentConfig

	frontendURL string
}

var _ Service = (*PaymentService)(nil)

// NewPaymentService creates a new PaymentService.
func NewPaymentService(
	payments paymentdb.Repository,
	rounds lotterydb.Repository,
	issuer ticketservice.Service,
	checkout providers.CheckoutProvider,
	orders providers.OrderProvider,
	logger *slog.Logger,
	operationMetrics metrics.Operation,
	counters metrics.LotteryCounters,
	tracer trace.Tracer,
	db *bun.DB,
	bus eventbus.EventBus,
	cfg config.PaymentConfig,
	frontendURL string,
) *PaymentService {
	if logger == nil {
		logger = slog.Default()
	}
	if counters == nil {
		counters = metrics.NewNoopCounters()
	}
	if bus == nil {
		bus = eventbus.NoOpBus{}
	}
	return &PaymentService{
		payments:    payments,
		rounds:      rounds,
		issuer:      issuer,
		checkout:    checkout,
		orders:      orders,
		logger:      logger,
		metrics:     operationMetrics,
		counters:    counters,
		tracer:      tracer,
		db:          db,
		bus:         bus,
		cfg:         cfg,
		frontendURL: frontendURL,
	}
}

func (s *PaymentService) deps() operation.Deps {
	return operation.Deps{
		Logger:  s.logger,
		Metrics: s.metrics,
		Tracer:  s.tracer,
		Service: "PaymentService",
	}
}

func (s *PaymentService) publishConfirmed(ctx context.Context, payload paymentevents.PaymentConfirmedPayloadV1) {
	correlationID := ""
	if id, ok := ctx.Value(attr.CorrelationIDKey).(string); ok {
		correlationID = id
	}
	msg, err := eventbus.NewJSONMessage(correlationID, payload)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to build event message",
			attr.String("topic", paymentevents.PaymentConfirmedV1), attr.Error(err))
		return
	}
	if err := s.bus.Publish(paymentevents.PaymentConfirmedV1, msg); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish event",
			attr.String("topic", paymentevents.PaymentConfirmedV1), attr.Error(err))
	}
}

func toPaymentInfo(p *paymentdb.Payment) *paymenttypes.PaymentInfo {
	return &paymenttypes.PaymentInfo{
		ID:             p.ID.String(),
		UserID:         p.UserID,
		LotteryID:      p.LotteryID.String(),
		Quantity:       p.Quantity,
		Method:         p.Method,
		TransactionRef: p.TransactionRef,
		Amount:         p.Amount,
		Status:         string(p.Status),
		CreatedAt:      p.CreatedAt,
	}
}

// issueFailure translates a ticket-service failure into this module's
// failure vocabulary so handlers see one shape.
func issueFailure(f *tickettypes.Failure) *paymenttypes.Failure {
	reason := paymenttypes.ReasonInvalidRequest
	switch f.Reason {
	case tickettypes.ReasonRoundNotFound:
		reason = paymenttypes.ReasonRoundNotFound
	case tickettypes.ReasonRoundNotActive:
		reason = paymenttypes.ReasonRoundNotActive
	case tickettypes.ReasonRoundFull:
		reason = paymenttypes.ReasonRoundFull
	}
	return &paymenttypes.Failure{Reason: reason, Message: f.Message}
}

func decimalFromInt(n int) decimal.Decimal {
	return decimal.NewFromInt(int64(n))
}

var now = time.Now
