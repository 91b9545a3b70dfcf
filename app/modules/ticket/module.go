// Package ticket wires the ticket issuance module: repository, service, and
// HTTP handlers. The issuance service is also consumed directly by the
// payment module once a payment is confirmed.
package ticket

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace"

	lotterydb "github.com/cryptolotto/lotto-backend/app/modules/lottery/infrastructure/repositories"
	ticketservice "github.com/cryptolotto/lotto-backend/app/modules/ticket/application"
	tickethandlers "github.com/cryptolotto/lotto-backend/app/modules/ticket/infrastructure/handlers"
	ticketdb "github.com/cryptolotto/lotto-backend/app/modules/ticket/infrastructure/repositories"
	"github.com/cryptolotto/lotto-backend/app/shared/eventbus"
	"github.com/cryptolotto/lotto-backend/app/shared/metrics"
)

// Module bundles the ticket module's service and handlers.
type Module struct {
	Service  ticketservice.Service
	Handlers tickethandlers.Handlers
}

// NewModule creates and initializes the ticket module.
func NewModule(
	logger *slog.Logger,
	operationMetrics metrics.Operation,
	counters metrics.LotteryCounters,
	tracer trace.Tracer,
	db *bun.DB,
	bus eventbus.EventBus,
	rounds lotterydb.Repository,
) *Module {
	repo := ticketdb.NewRepository(db)
	service := ticketservice.NewTicketService(repo, rounds, logger, operationMetrics, counters, tracer, db, bus)
	handlers := tickethandlers.NewTicketHandlers(service, logger, tracer)

	return &Module{
		Service:  service,
		Handlers: handlers,
	}
}

// RegisterUserRoutes mounts the authenticated user-facing ticket endpoints.
func (m *Module) RegisterUserRoutes(r chi.Router) {
	r.Get("/user/tickets", m.Handlers.HandleListMyTickets)
}
