package ticketservice

import (
	"context"

	"github.com/cryptolotto/lotto-backend/app/shared/operation"
	"github.com/cryptolotto/lotto-backend/app/shared/results"

	tickettypes "github.com/cryptolotto/lotto-backend/app/modules/ticket/domain/types"
)

// ListUserTickets returns a user's tickets, newest first.
func (s *TicketService) ListUserTickets(ctx context.Context, userID string, limit int) (TicketListResult, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return operation.WithTelemetry(ctx, s.deps(), "ListUserTickets", userID,
		func(ctx context.Context) (TicketListResult, error) {
			tickets, err := s.tickets.ListByUser(ctx, nil, userID, limit)
			if err != nil {
				return TicketListResult{}, err
			}
			infos := make([]*tickettypes.TicketInfo, 0, len(tickets))
			for _, t := range tickets {
				infos = append(infos, toTicketInfo(t))
			}
			return results.SuccessResult[[]*tickettypes.TicketInfo, *tickettypes.Failure](infos), nil
		})
}
