package userhandlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"go.opentelemetry.io/otel/trace"

	userservice "github.com/cryptolotto/lotto-backend/app/modules/user/application"
	usertypes "github.com/cryptolotto/lotto-backend/app/modules/user/domain/types"
	"github.com/cryptolotto/lotto-backend/app/shared/authn"
	"github.com/cryptolotto/lotto-backend/app/shared/httpx"
)

// UserHandlers implements the Handlers interface.
type UserHandlers struct {
	service userservice.Service
	logger  *slog.Logger
	tracer  trace.Tracer
}

// NewUserHandlers creates a new UserHandlers instance.
func NewUserHandlers(
	service userservice.Service,
	logger *slog.Logger,
	tracer trace.Tracer,
) Handlers {
	return &UserHandlers{
		service: service,
		logger:  logger,
		tracer:  tracer,
	}
}

// HandleGetProfile serves GET /api/user/profile.
func (h *UserHandlers) HandleGetProfile(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "UserHandlers.HandleGetProfile")
	defer span.End()

	userID := authn.UserID(ctx)
	if userID == "" {
		httpx.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	result, err := h.service.GetProfile(ctx, userID)
	if err != nil {
		httpx.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	httpx.WriteSuccess(w, http.StatusOK, *result.Success)
}

// HandleUpdateProfile serves PUT /api/user/profile.
func (h *UserHandlers) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "UserHandlers.HandleUpdateProfile")
	defer span.End()

	userID := authn.UserID(ctx)
	if userID == "" {
		httpx.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var cmd usertypes.UpdateProfileCommand
	if err := httpx.DecodeJSON(r, &cmd); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.service.UpdateProfile(ctx, userID, cmd)
	if err != nil {
		httpx.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if result.IsFailure() {
		f := *result.Failure
		httpx.WriteError(w, http.StatusBadRequest, f.Message)
		return
	}
	httpx.WriteSuccess(w, http.StatusOK, *result.Success)
}

// HandleListUsers serves GET /api/admin/users.
func (h *UserHandlers) HandleListUsers(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "UserHandlers.HandleListUsers")
	defer span.End()

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			httpx.WriteError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	result, err := h.service.ListUsers(ctx, limit)
	if err != nil {
		httpx.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	httpx.WriteSuccess(w, http.StatusOK, *result.Success)
}
