// Package user wires the profile module: repository, service, and HTTP
// handlers.
package user

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace"

	userservice "github.com/cryptolotto/lotto-backend/app/modules/user/application"
	userhandlers "github.com/cryptolotto/lotto-backend/app/modules/user/infrastructure/handlers"
	userdb "github.com/cryptolotto/lotto-backend/app/modules/user/infrastructure/repositories"
	"github.com/cryptolotto/lotto-backend/app/shared/metrics"
)

// Module bundles the user module's service and handlers.
type Module struct {
	Service  userservice.Service
	Handlers userhandlers.Handlers
}

// NewModule creates and initializes the user module.
func NewModule(
	logger *slog.Logger,
	operationMetrics metrics.Operation,
	tracer trace.Tracer,
	db *bun.DB,
) *Module {
	repo := userdb.NewRepository(db)
	service := userservice.NewUserService(repo, logger, operationMetrics, tracer, db)
	handlers := userhandlers.NewUserHandlers(service, logger, tracer)

	return &Module{
		Service:  service,
		Handlers: handlers,
	}
}

// RegisterUserRoutes mounts the profile endpoints. The caller is expected to
// have auth middleware on r already.
func (m *Module) RegisterUserRoutes(r chi.Router) {
	r.Get("/user/profile", m.Handlers.HandleGetProfile)
	r.Put("/user/profile", m.Handlers.HandleUpdateProfile)
}

// RegisterAdminRoutes mounts the admin user listing. The caller is expected
// to have admin auth middleware on r already.
func (m *Module) RegisterAdminRoutes(r chi.Router) {
	r.Get("/users", m.Handlers.HandleListUsers)
}
