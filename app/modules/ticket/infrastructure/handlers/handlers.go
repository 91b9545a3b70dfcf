package tickethandlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"go.opentelemetry.io/otel/trace"

	ticketservice "github.com/cryptolotto/lotto-backend/app/modules/ticket/application"
	"github.com/cryptolotto/lotto-backend/app/shared/authn"
	"github.com/cryptolotto/lotto-backend/app/shared/httpx"
)

// TicketHandlers implements the Handlers interface.
type TicketHandlers struct {
	service ticketservice.Service
	logger  *slog.Logger
	tracer  trace.Tracer
}

// NewTicketHandlers creates a new TicketHandlers instance.
func NewTicketHandlers(
	service ticketservice.Service,
	logger *slog.Logger,
	tracer trace.Tracer,
) Handlers {
	return &TicketHandlers{
		service: service,
		logger:  logger,
		tracer:  tracer,
	}
}

// HandleListMyTickets serves GET /api/user/tickets.
func (h *TicketHandlers) HandleListMyTickets(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "TicketHandlers.HandleListMyTickets")
	defer span.End()

	userID := authn.UserID(ctx)
	if userID == "" {
		httpx.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			httpx.WriteError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	result, err := h.service.ListUserTickets(ctx, userID, limit)
	if err != nil {
		httpx.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	httpx.WriteSuccess(w, http.StatusOK, *result.Success)
}
