package lotteryservice

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"

	"github.com/cryptolotto/lotto-backend/app/shared/attr"
	"github.com/cryptolotto/lotto-backend/app/shared/operation"
	"github.com/cryptolotto/lotto-backend/app/shared/results"

	lotteryevents "github.com/cryptolotto/lotto-backend/app/modules/lottery/domain/events"
	lotterytypes "github.com/cryptolotto/lotto-backend/app/modules/lottery/domain/types"
	lotterydb "github.com/cryptolotto/lotto-backend/app/modules/lottery/infrastructure/repositories"
)

// GetCurrentRound returns the single Active round, or a no_active_round
// failure when none is open.
func (s *LotteryService) GetCurrentRound(ctx context.Context) (RoundResult, error) {
	return operation.WithTelemetry(ctx, s.deps(), "GetCurrentRound", "current",
		func(ctx context.Context) (RoundResult, error) {
			round, err := s.repo.GetActive(ctx, nil)
			if errors.Is(err, lotterydb.ErrNotFound) {
				return results.FailureResult[*lotterytypes.RoundInfo](&lotterytypes.Failure{
					Reason:  lotterytypes.ReasonNoActiveRound,
					Message: "no lottery round is currently open",
				}), nil
			}
			if err != nil {
				return RoundResult{}, err
			}
			return results.SuccessResult[*lotterytypes.RoundInfo, *lotterytypes.Failure](toRoundInfo(round)), nil
		})
}

// GetRound returns a round by ID regardless of its status.
func (s *LotteryService) GetRound(ctx context.Context, id uuid.UUID) (RoundResult, error) {
	return operation.WithTelemetry(ctx, s.deps(), "GetRound", id.String(),
		func(ctx context.Context) (RoundResult, error) {
			round, err := s.repo.GetByID(ctx, nil, id)
			if errors.Is(err, lotterydb.ErrNotFound) {
				return results.FailureResult[*lotterytypes.RoundInfo](&lotterytypes.Failure{
					Reason:  lotterytypes.ReasonRoundNotFound,
					Message: "lottery round not found",
				}), nil
			}
			if err != nil {
				return RoundResult{}, err
			}
			return results.SuccessResult[*lotterytypes.RoundInfo, *lotterytypes.Failure](toRoundInfo(round)), nil
		})
}

// ListHistory returns completed rounds, newest first.
func (s *LotteryService) ListHistory(ctx context.Context, limit int) (RoundListResult, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return operation.WithTelemetry(ctx, s.deps(), "ListHistory", "history",
		func(ctx context.Context) (RoundListResult, error) {
			rounds, err := s.repo.ListCompleted(ctx, nil, limit)
			if err != nil {
				return RoundListResult{}, err
			}
			infos := make([]*lotterytypes.RoundInfo, 0, len(rounds))
			for _, r := range rounds {
				infos = append(infos, toRoundInfo(r))
			}
			return results.SuccessResult[[]*lotterytypes.RoundInfo, *lotterytypes.Failure](infos), nil
		})
}

// CreateRound opens a new round numbered one past the highest existing
// round. Only one Active round may exist at a time.
func (s *LotteryService) CreateRound(ctx context.Context) (RoundResult, error) {
	return operation.WithTelemetry(ctx, s.deps(), "CreateRound", "create",
		func(ctx context.Context) (RoundResult, error) {
			result, err := operation.RunInTx(ctx, s.db,
				func(ctx context.Context, db bun.IDB) (RoundResult, error) {
					last, err := s.repo.LastRoundNumber(ctx, db)
					if err != nil {
						return RoundResult{}, err
					}

					start := now().UTC()
					round := &lotterydb.Round{
						ID:          uuid.New(),
						Round:       last + 1,
						StartTime:   start,
						EndTime:     start.Add(s.cfg.RoundDuration),
						TicketPrice: s.cfg.TicketPriceUSD,
						TotalPool:   decimal.Zero,
						MaxTickets:  s.cfg.MaxTickets,
						Status:      lotterydb.StatusActive,
					}

					if err := s.repo.Create(ctx, db, round); err != nil {
						if errors.Is(err, lotterydb.ErrActiveRoundExists) {
							return results.FailureResult[*lotterytypes.RoundInfo](&lotterytypes.Failure{
								Reason:  lotterytypes.ReasonActiveRoundExists,
								Message: "an active round already exists",
							}), nil
						}
						return RoundResult{}, err
					}
					return results.SuccessResult[*lotterytypes.RoundInfo, *lotterytypes.Failure](toRoundInfo(round)), nil
				})
			if err != nil || result.IsFailure() {
				return result, err
			}

			info := *result.Success
			s.counters.RecordRoundCreated(ctx)
			s.logger.InfoContext(ctx, "Round created",
				attr.ExtractCorrelationID(ctx),
				attr.String("lottery_id", info.ID),
				attr.Int64("round", info.Round),
			)
			s.publishEvent(ctx, lotteryevents.RoundCreatedV1, lotteryevents.RoundCreatedPayloadV1{
				LotteryID:   info.ID,
				Round:       info.Round,
				StartTime:   info.StartTime,
				EndTime:     info.EndTime,
				TicketPrice: info.TicketPrice,
				MaxTickets:  info.MaxTickets,
			})
			return result, nil
		})
}
