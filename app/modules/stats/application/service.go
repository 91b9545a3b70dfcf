package statsservice

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/trace"

	"github.com/cryptolotto/lotto-backend/app/shared/metrics"
	"github.com/cryptolotto/lotto-backend/app/shared/operation"
	"github.com/cryptolotto/lotto-backend/app/shared/results"

	lotterydb "github.com/cryptolotto/lotto-backend/app/modules/lottery/infrastructure/repositories"
	statsdb "github.com/cryptolotto/lotto-backend/app/modules/stats/infrastructure/repositories"
)

// SummaryResult carries the aggregate summary. There is no domain failure
// shape here: either the numbers are computed or the store is unavailable.
type SummaryResult = results.OperationResult[*statsdb.Summary, *struct{}]

// Service is the stats aggregation contract.
type Service interface {
	Summary(ctx context.Context) (SummaryResult, error)
	ExportRounds(ctx context.Context) ([]byte, error)
}

// StatsService serves the public summary and the admin export.
type StatsService struct {
	stats   statsdb.Repository
	rounds  lotterydb.Repository
	logger  *slog.Logger
	metrics metrics.Operation
	tracer  trace.Tracer
}

var _ Service = (*StatsService)(nil)

// NewStatsService creates a new StatsService.
func NewStatsService(
	stats statsdb.Repository,
	rounds lotterydb.Repository,
	logger *slog.Logger,
	operationMetrics metrics.Operation,
	tracer trace.Tracer,
) *StatsService {
	if logger == nil {
		logger = slog.Default()
	}
	return &StatsService{
		stats:   stats,
		rounds:  rounds,
		logger:  logger,
		metrics: operationMetrics,
		tracer:  tracer,
	}
}

func (s *StatsService) deps() operation.Deps {
	return operation.Deps{
		Logger:  s.logger,
		Metrics: s.metrics,
		Tracer:  s.tracer,
		Service: "StatsService",
	}
}

// Summary computes the aggregate summary. A store failure propagates as an
// error (handlers answer 503); it is never masked as a zeroed summary.
func (s *StatsService) Summary(ctx context.Context) (SummaryResult, error) {
	return operation.WithTelemetry(ctx, s.deps(), "Summary", "summary",
		func(ctx context.Context) (SummaryResult, error) {
			summary, err := s.stats.Summarize(ctx, nil)
			if err != nil {
				return SummaryResult{}, err
			}
			return results.SuccessResult[*statsdb.Summary, *struct{}](summary), nil
		})
}
