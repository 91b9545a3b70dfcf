// Package lottery wires the round lifecycle module: repository, service,
// and HTTP handlers.
package lottery

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace"

	lotteryservice "github.com/cryptolotto/lotto-backend/app/modules/lottery/application"
	lotteryhandlers "github.com/cryptolotto/lotto-backend/app/modules/lottery/infrastructure/handlers"
	lotterydb "github.com/cryptolotto/lotto-backend/app/modules/lottery/infrastructure/repositories"
	"github.com/cryptolotto/lotto-backend/app/shared/eventbus"
	"github.com/cryptolotto/lotto-backend/app/shared/metrics"
	"github.com/cryptolotto/lotto-backend/config"
)

// Module bundles the lottery module's service and handlers.
type Module struct {
	Service  lotteryservice.Service
	Handlers lotteryhandlers.Handlers
}

// NewModule creates and initializes the lottery module.
func NewModule(
	logger *slog.Logger,
	operationMetrics metrics.Operation,
	counters metrics.LotteryCounters,
	tracer trace.Tracer,
	db *bun.DB,
	bus eventbus.EventBus,
	cfg config.LotteryConfig,
) *Module {
	repo := lotterydb.NewRepository(db)
	service := lotteryservice.NewLotteryService(repo, logger, operationMetrics, counters, tracer, db, bus, cfg)
	handlers := lotteryhandlers.NewLotteryHandlers(service, logger, tracer)

	return &Module{
		Service:  service,
		Handlers: handlers,
	}
}

// RegisterPublicRoutes mounts the read-only round endpoints.
func (m *Module) RegisterPublicRoutes(r chi.Router) {
	r.Get("/lottery/current", m.Handlers.HandleGetCurrentRound)
	r.Get("/lottery/history", m.Handlers.HandleListHistory)
	r.Get("/lottery/{id}", m.Handlers.HandleGetRound)
}

// RegisterAdminRoutes mounts round administration endpoints. The caller is
// expected to have admin auth middleware on r already.
func (m *Module) RegisterAdminRoutes(r chi.Router) {
	r.Post("/lottery", m.Handlers.HandleCreateRound)
	r.Post("/lottery/{id}/draw", m.Handlers.HandleDrawRound)
}
