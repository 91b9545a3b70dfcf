package ticketservice

import (
	"context"
	"log/slog"
	"time"

	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace"

	"github.com/cryptolotto/lotto-backend/app/shared/attr"
	"github.com/cryptolotto/lotto-backend/app/shared/eventbus"
	"github.com/cryptolotto/lotto-backend/app/shared/metrics"
	"github.com/cryptolotto/lotto-backend/app/shared/operation"
	"github.com/cryptolotto/lotto-backend/app/shared/results"

	lotterydb "github.com/cryptolotto/lotto-backend/app/modules/lottery/infrastructure/repositories"
	tickettypes "github.com/cryptolotto/lotto-backend/app/modules/ticket/domain/types"
	ticketdb "github.com/cryptolotto/lotto-backend/app/modules/ticket/infrastructure/repositories"
)

type (
	// IssueBatchResult carries a mint receipt or a domain failure.
	IssueBatchResult = results.OperationResult[*tickettypes.IssueReceipt, *tickettypes.Failure]
	// TicketListResult carries a page of tickets or a domain failure.
	TicketListResult = results.OperationResult[[]*tickettypes.TicketInfo, *tickettypes.Failure]
)

// Service is the ticket issuance contract.
type Service interface {
	IssueBatch(ctx context.Context, cmd tickettypes.IssueCommand) (IssueBatchResult, error)
	ListUserTickets(ctx context.Context, userID string, limit int) (TicketListResult, error)
}

// TicketService mints tickets against confirmed payments. Numbering is
// delegated to the round repository's atomic reservation; this service owns
// idempotency and batch semantics.
type TicketService struct {
	tickets  ticketdb.Repository
	rounds   lotterydb.Repository
	logger   *slog.Logger
	metrics  metrics.Operation
	counters metrics.LotteryCounters
	tracer   trace.Tracer
	db       *bun.DB
	bus      eventbus.EventBus
}

var _ Service = (*TicketService)(nil)

// NewTicketService creates a new TicketService.
func NewTicketService(
	tickets ticketdb.Repository,
	rounds lotterydb.Repository,
	logger *slog.Logger,
	operationMetrics metrics.Operation,
	counters metrics.LotteryCounters,
	tracer trace.Tracer,
	db *bun.DB,
	bus eventbus.EventBus,
) *TicketService {
	if logger == nil {
		logger = slog.Default()
	}
	if counters == nil {
		counters = metrics.NewNoopCounters()
	}
	if bus == nil {
		bus = eventbus.NoOpBus{}
	}
	return &TicketService{
		tickets:  tickets,
		rounds:   rounds,
		logger:   logger,
		metrics:  operationMetrics,
		counters: counters,
		tracer:   tracer,
		db:       db,
		bus:      bus,
	}
}

func (s *TicketService) deps() operation.Deps {
	return operation.Deps{
		Logger:  s.logger,
		Metrics: s.metrics,
		Tracer:  s.tracer,
		Service: "TicketService",
	}
}

func (s *TicketService) publishEvent(ctx context.Context, topic string, payload any) {
	correlationID := ""
	if id, ok := ctx.Value(attr.CorrelationIDKey).(string); ok {
		correlationID = id
	}
	msg, err := eventbus.NewJSONMessage(correlationID, payload)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to build event message",
			attr.String("topic", topic), attr.Error(err))
		return
	}
	if err := s.bus.Publish(topic, msg); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish event",
			attr.String("topic", topic), attr.Error(err))
	}
}

func toTicketInfo(t *ticketdb.Ticket) *tickettypes.TicketInfo {
	return &tickettypes.TicketInfo{
		ID:             t.ID.String(),
		LotteryID:      t.LotteryID.String(),
		UserID:         t.UserID,
		TicketNumber:   t.TicketNumber,
		Price:          t.Price,
		PaymentMethod:  t.PaymentMethod,
		TransactionRef: t.TransactionRef,
		IsWinner:       t.IsWinner,
		PurchasedAt:    t.PurchasedAt,
	}
}

var now = time.Now
