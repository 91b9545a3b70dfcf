// Package payment wires the payment confirmation module: repository,
// provider clients, service, and HTTP handlers.
package payment

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace"

	lotterydb "github.com/cryptolotto/lotto-backend/app/modules/lottery/infrastructure/repositories"
	paymentservice "github.com/cryptolotto/lotto-backend/app/modules/payment/application"
	paymenthandlers "github.com/cryptolotto/lotto-backend/app/modules/payment/infrastructure/handlers"
	paymentdb "github.com/cryptolotto/lotto-backend/app/modules/payment/infrastructure/repositories"
	"github.com/cryptolotto/lotto-backend/app/modules/payment/infrastructure/providers"
	ticketservice "github.com/cryptolotto/lotto-backend/app/modules/ticket/application"
	"github.com/cryptolotto/lotto-backend/app/shared/eventbus"
	"github.com/cryptolotto/lotto-backend/app/shared/metrics"
	"github.com/cryptolotto/lotto-backend/config"
)

// Module bundles the payment module's service and handlers.
type Module struct {
	Service  paymentservice.Service
	Handlers paymenthandlers.Handlers
}

// NewModule creates and initializes the payment module against the shared
// provider gateway.
func NewModule(
	logger *slog.Logger,
	operationMetrics metrics.Operation,
	counters metrics.LotteryCounters,
	tracer trace.Tracer,
	db *bun.DB,
	bus eventbus.EventBus,
	rounds lotterydb.Repository,
	issuer ticketservice.Service,
	cfg config.PaymentConfig,
	frontendURL string,
) *Module {
	repo := paymentdb.NewRepository(db)
	provider := providers.NewHTTPClient(cfg.OrderProviderURL, cfg.ProviderAPIKey)
	service := paymentservice.NewPaymentService(
		repo, rounds, issuer, provider, provider,
		logger, operationMetrics, counters, tracer, db, bus,
		cfg, frontendURL,
	)
	handlers := paymenthandlers.NewPaymentHandlers(service, logger, tracer)

	return &Module{
		Service:  service,
		Handlers: handlers,
	}
}

// RegisterUserRoutes mounts the authenticated purchase endpoints.
func (m *Module) RegisterUserRoutes(r chi.Router) {
	r.Post("/payment/checkout/session", m.Handlers.HandleCreateCheckoutSession)
	r.Post("/payment/order", m.Handlers.HandleCreateOrder)
	r.Post("/payment/order/capture", m.Handlers.HandleCaptureOrder)
	r.Post("/payment/onchain", m.Handlers.HandleConfirmOnChain)
}

// RegisterWebhookRoutes mounts the unauthenticated, signature-verified
// provider callback.
func (m *Module) RegisterWebhookRoutes(r chi.Router) {
	r.Post("/payment/checkout/webhook", m.Handlers.HandleCheckoutWebhook)
}

// RegisterAdminRoutes mounts the admin payment listing.
func (m *Module) RegisterAdminRoutes(r chi.Router) {
	r.Get("/payments", m.Handlers.HandleListPayments)
}
