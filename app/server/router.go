// Package server assembles the HTTP API: route tree, auth middleware, and
// the listener lifecycle.
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/cryptolotto/lotto-backend/app/modules/lottery"
	"github.com/cryptolotto/lotto-backend/app/modules/payment"
	"github.com/cryptolotto/lotto-backend/app/modules/stats"
	"github.com/cryptolotto/lotto-backend/app/modules/ticket"
	"github.com/cryptolotto/lotto-backend/app/modules/user"
	"github.com/cryptolotto/lotto-backend/app/shared/httpx"
	"github.com/cryptolotto/lotto-backend/config"
)

// Modules collects the mounted module surfaces.
type Modules struct {
	Lottery *lottery.Module
	Ticket  *ticket.Module
	Payment *payment.Module
	Stats   *stats.Module
	User    *user.Module
}

// NewRouter builds the full route tree. Public reads need no token, the
// purchase and profile surface needs a bearer token, admin endpoints
// additionally need the admin role, and the payment webhook authenticates
// by signature instead of token.
func NewRouter(mods Modules, cfg *config.Config) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(CorrelationID)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		httpx.WriteSuccess(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(api chi.Router) {
		// Public reads.
		api.Group(func(pub chi.Router) {
			mods.Lottery.RegisterPublicRoutes(pub)
			mods.Stats.RegisterPublicRoutes(pub)
		})

		// Signature-verified webhook; no bearer token.
		api.Group(func(hook chi.Router) {
			hook.Use(RateLimit(cfg.HTTP.PaymentRPS))
			mods.Payment.RegisterWebhookRoutes(hook)
		})

		// Authenticated user surface.
		api.Group(func(auth chi.Router) {
			auth.Use(Authenticate(cfg.JWT.Secret))

			auth.Group(func(pay chi.Router) {
				pay.Use(RateLimit(cfg.HTTP.PaymentRPS))
				mods.Payment.RegisterUserRoutes(pay)
			})

			mods.Ticket.RegisterUserRoutes(auth)
			mods.User.RegisterUserRoutes(auth)
		})

		// Admin surface.
		api.Route("/admin", func(admin chi.Router) {
			admin.Use(Authenticate(cfg.JWT.Secret))
			admin.Use(RequireAdmin)
			mods.Lottery.RegisterAdminRoutes(admin)
			mods.Payment.RegisterAdminRoutes(admin)
			mods.Stats.RegisterAdminRoutes(admin)
			mods.User.RegisterAdminRoutes(admin)
		})
	})

	return r
}
