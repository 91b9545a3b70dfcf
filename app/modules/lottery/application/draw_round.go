package lotteryservice

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/cryptolotto/lotto-backend/app/shared/attr"
	"github.com/cryptolotto/lotto-backend/app/shared/operation"
	"github.com/cryptolotto/lotto-backend/app/shared/results"

	lotteryevents "github.com/cryptolotto/lotto-backend/app/modules/lottery/domain/events"
	lotterytypes "github.com/cryptolotto/lotto-backend/app/modules/lottery/domain/types"
	lotterydb "github.com/cryptolotto/lotto-backend/app/modules/lottery/infrastructure/repositories"
)

// DrawRound closes an Active round by selecting a uniformly random winning
// ticket among those sold. A round that sold fewer than the configured
// minimum is not drawn: it stays Active and its end time is pushed out by
// one round duration. Concurrent draw attempts on the same round are
// serialized by the Active -> Drawing transition; the loser receives a
// not_drawable failure.
func (s *LotteryService) DrawRound(ctx context.Context, id uuid.UUID) (DrawRoundResult, error) {
	return operation.WithTelemetry(ctx, s.deps(), "DrawRound", id.String(),
		func(ctx context.Context) (DrawRoundResult, error) {
			result, err := operation.RunInTx(ctx, s.db,
				func(ctx context.Context, db bun.IDB) (DrawRoundResult, error) {
					round, err := s.repo.BeginDraw(ctx, db, id)
					if errors.Is(err, lotterydb.ErrNotFound) {
						return results.FailureResult[*lotterytypes.DrawResult](&lotterytypes.Failure{
							Reason:  lotterytypes.ReasonRoundNotFound,
							Message: "lottery round not found",
						}), nil
					}
					if errors.Is(err, lotterydb.ErrNotDrawable) {
						return results.FailureResult[*lotterytypes.DrawResult](&lotterytypes.Failure{
							Reason:  lotterytypes.ReasonNotDrawable,
							Message: "round is not in a drawable state",
						}), nil
					}
					if err != nil {
						return DrawRoundResult{}, err
					}

					if round.TicketsSold < s.cfg.DrawMinTickets {
						newEnd := round.EndTime.Add(s.cfg.RoundDuration)
						if err := s.repo.RevertDraw(ctx, db, id, newEnd); err != nil {
							return DrawRoundResult{}, err
						}
						round.Status = lotterydb.StatusActive
						round.EndTime = newEnd
						return results.SuccessResult[*lotterytypes.DrawResult, *lotterytypes.Failure](&lotterytypes.DrawResult{
							Outcome: lotterytypes.DrawSkipped,
							Round:   toRoundInfo(round),
						}), nil
					}

					winner := s.pickWinner(round.TicketsSold)
					if err := s.repo.CompleteDraw(ctx, db, id, winner); err != nil {
						return DrawRoundResult{}, err
					}
					if err := s.repo.MarkWinningTicket(ctx, db, id, winner); err != nil {
						return DrawRoundResult{}, err
					}
					round.Status = lotterydb.StatusCompleted
					round.WinnerTicket = &winner
					return results.SuccessResult[*lotterytypes.DrawResult, *lotterytypes.Failure](&lotterytypes.DrawResult{
						Outcome:      lotterytypes.DrawCompleted,
						Round:        toRoundInfo(round),
						WinnerTicket: &winner,
					}), nil
				})
			if err != nil || result.IsFailure() {
				return result, err
			}

			draw := *result.Success
			switch draw.Outcome {
			case lotterytypes.DrawSkipped:
				s.counters.RecordDrawSkipped(ctx)
				s.logger.InfoContext(ctx, "Draw skipped, round extended",
					attr.ExtractCorrelationID(ctx),
					attr.UUID("lottery_id", id),
					attr.Int("tickets_sold", draw.Round.TicketsSold),
					attr.Time("new_end_time", draw.Round.EndTime),
				)
			case lotterytypes.DrawCompleted:
				s.counters.RecordDrawCompleted(ctx)
				s.logger.InfoContext(ctx, "Draw completed",
					attr.ExtractCorrelationID(ctx),
					attr.UUID("lottery_id", id),
					attr.Int("winner_ticket", *draw.WinnerTicket),
					attr.Int("tickets_sold", draw.Round.TicketsSold),
				)
				s.publishEvent(ctx, lotteryevents.RoundCompletedV1, lotteryevents.RoundCompletedPayloadV1{
					LotteryID:    draw.Round.ID,
					Round:        draw.Round.Round,
					WinnerTicket: *draw.WinnerTicket,
					TicketsSold:  draw.Round.TicketsSold,
					TotalPool:    draw.Round.TotalPool,
				})
			}
			return result, nil
		})
}
