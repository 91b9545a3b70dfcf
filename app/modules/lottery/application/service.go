package lotteryservice

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace"

	"github.com/cryptolotto/lotto-backend/app/shared/attr"
	"github.com/cryptolotto/lotto-backend/app/shared/eventbus"
	"github.com/cryptolotto/lotto-backend/app/shared/metrics"
	"github.com/cryptolotto/lotto-backend/app/shared/operation"
	"github.com/cryptolotto/lotto-backend/app/shared/results"
	"github.com/cryptolotto/lotto-backend/config"

	lotterytypes "github.com/cryptolotto/lotto-backend/app/modules/lottery/domain/types"
	lotterydb "github.com/cryptolotto/lotto-backend/app/modules/lottery/infrastructure/repositories"
)

type (
	// RoundResult carries a single round or a domain failure.
	RoundResult = results.OperationResult[*lotterytypes.RoundInfo, *lotterytypes.Failure]
	// RoundListResult carries a page of rounds or a domain failure.
	RoundListResult = results.OperationResult[[]*lotterytypes.RoundInfo, *lotterytypes.Failure]
	// DrawRoundResult carries the outcome of a draw attempt.
	DrawRoundResult = results.OperationResult[*lotterytypes.DrawResult, *lotterytypes.Failure]
)

// Service is the round lifecycle contract.
type Service interface {
	GetCurrentRound(ctx context.Context) (RoundResult, error)
	GetRound(ctx context.Context, id uuid.UUID) (RoundResult, error)
	ListHistory(ctx context.Context, limit int) (RoundListResult, error)
	CreateRound(ctx context.Context) (RoundResult, error)
	DrawRound(ctx context.Context, id uuid.UUID) (DrawRoundResult, error)
}

// LotteryService manages round lifecycle: creation, lookup, and the draw.
type LotteryService struct {
	repo     lotterydb.Repository
	logger   *slog.Logger
	metrics  metrics.Operation
	counters metrics.LotteryCounters
	tracer   trace.Tracer
	db       *bun.DB
	bus      eventbus.EventBus
	cfg      config.LotteryConfig

	// pickWinner returns a uniform number in [1, n]; overridable in tests.
	pickWinner func(n int) int
}

var _ Service = (*LotteryService)(nil)

// NewLotteryService creates a new LotteryService.
func NewLotteryService(
	repo lotterydb.Repository,
	logger *slog.Logger,
	operationMetrics metrics.Operation,
	counters metrics.LotteryCounters,
	tracer trace.Tracer,
	db *bun.DB,
	bus eventbus.EventBus,
	cfg config.LotteryConfig,
) *LotteryService {
	if logger == nil {
		logger = slog.Default()
	}
	if counters == nil {
		counters = metrics.NewNoopCounters()
	}
	if bus == nil {
		bus = eventbus.NoOpBus{}
	}
	return &LotteryService{
		repo:     repo,
		logger:   logger,
		metrics:  operationMetrics,
		counters: counters,
		tracer:   tracer,
		db:       db,
		bus:      bus,
		cfg:      cfg,
		pickWinner: func(n int) int {
			return rand.IntN(n) + 1
		},
	}
}

func (s *LotteryService) deps() operation.Deps {
	return operation.Deps{
		Logger:  s.logger,
		Metrics: s.metrics,
		Tracer:  s.tracer,
		Service: "LotteryService",
	}
}

// publishEvent marshals and publishes a domain event; failures are logged
// but never fail the operation that produced them.
func (s *LotteryService) publishEvent(ctx context.Context, topic string, payload any) {
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

func toRoundInfo(r *lotterydb.Round) *lotterytypes.RoundInfo {
	return &lotterytypes.RoundInfo{
		ID:           r.ID.String(),
		Round:        r.Round,
		StartTime:    r.StartTime,
		EndTime:      r.EndTime,
		TicketPrice:  r.TicketPrice,
		TotalPool:    r.TotalPool,
		TicketsSold:  r.TicketsSold,
		MaxTickets:   r.MaxTickets,
		Status:       string(r.Status),
		WinnerTicket: r.WinnerTicket,
	}
}

// now is split out so lifecycle tests can pin time if they need to.
var now = time.Now
