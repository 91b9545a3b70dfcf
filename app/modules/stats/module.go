// Package stats wires the aggregation module: repository, service, and
// HTTP handlers for the public summary and the admin dashboard.
package stats

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace"

	lotteryservice "github.com/cryptolotto/lotto-backend/app/modules/lottery/application"
	lotterydb "github.com/cryptolotto/lotto-backend/app/modules/lottery/infrastructure/repositories"
	statsservice "github.com/cryptolotto/lotto-backend/app/modules/stats/application"
	statshandlers "github.com/cryptolotto/lotto-backend/app/modules/stats/infrastructure/handlers"
	statsdb "github.com/cryptolotto/lotto-backend/app/modules/stats/infrastructure/repositories"
	"github.com/cryptolotto/lotto-backend/app/shared/metrics"
)

// Module bundles the stats module's service and handlers.
type Module struct {
	Service  statsservice.Service
	Handlers statshandlers.Handlers
}

// NewModule creates and initializes the stats module. It reads from the
// lottery and ticket tables but owns no tables of its own.
func NewModule(
	logger *slog.Logger,
	operationMetrics metrics.Operation,
	tracer trace.Tracer,
	db *bun.DB,
	roundRepo lotterydb.Repository,
	roundService lotteryservice.Service,
) *Module {
	repo := statsdb.NewRepository(db)
	service := statsservice.NewStatsService(repo, roundRepo, logger, operationMetrics, tracer)
	handlers := statshandlers.NewStatsHandlers(service, roundService, logger, tracer)

	return &Module{
		Service:  service,
		Handlers: handlers,
	}
}

// RegisterPublicRoutes mounts the public summary endpoint.
func (m *Module) RegisterPublicRoutes(r chi.Router) {
	r.Get("/lottery/stats", m.Handlers.HandleSummary)
}

// RegisterAdminRoutes mounts the dashboard endpoints. The caller is expected
// to have admin auth middleware on r already.
func (m *Module) RegisterAdminRoutes(r chi.Router) {
	r.Get("/dashboard", m.Handlers.HandleDashboard)
	r.Get("/dashboard/export", m.Handlers.HandleExport)
}
