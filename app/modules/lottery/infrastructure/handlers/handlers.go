package lotteryhandlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	lotteryservice "github.com/cryptolotto/lotto-backend/app/modules/lottery/application"
	lotterytypes "github.com/cryptolotto/lotto-backend/app/modules/lottery/domain/types"
	"github.com/cryptolotto/lotto-backend/app/shared/attr"
	"github.com/cryptolotto/lotto-backend/app/shared/httpx"
)

// LotteryHandlers implements the Handlers interface.
type LotteryHandlers struct {
	service lotteryservice.Service
	logger  *slog.Logger
	tracer  trace.Tracer
}

// NewLotteryHandlers creates a new LotteryHandlers instance.
func NewLotteryHandlers(
	service lotteryservice.Service,
	logger *slog.Logger,
	tracer trace.Tracer,
) Handlers {
	return &LotteryHandlers{
		service: service,
		logger:  logger,
		tracer:  tracer,
	}
}

// failureStatus maps domain failure reasons to HTTP status codes.
func failureStatus(reason string) int {
	switch reason {
	case lotterytypes.ReasonRoundNotFound, lotterytypes.ReasonNoActiveRound:
		return http.StatusNotFound
	case lotterytypes.ReasonActiveRoundExists, lotterytypes.ReasonNotDrawable:
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}

// HandleGetCurrentRound serves GET /api/lottery/current.
func (h *LotteryHandlers) HandleGetCurrentRound(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "LotteryHandlers.HandleGetCurrentRound")
	defer span.End()

	result, err := h.service.GetCurrentRound(ctx)
	if err != nil {
		httpx.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if result.IsFailure() {
		f := *result.Failure
		httpx.WriteError(w, failureStatus(f.Reason), f.Message)
		return
	}
	httpx.WriteSuccess(w, http.StatusOK, *result.Success)
}

// HandleGetRound serves GET /api/lottery/{id}.
func (h *LotteryHandlers) HandleGetRound(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "LotteryHandlers.HandleGetRound")
	defer span.End()

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid lottery id")
		return
	}

	result, err := h.service.GetRound(ctx, id)
	if err != nil {
		httpx.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if result.IsFailure() {
		f := *result.Failure
		httpx.WriteError(w, failureStatus(f.Reason), f.Message)
		return
	}
	httpx.WriteSuccess(w, http.StatusOK, *result.Success)
}

// HandleListHistory serves GET /api/lottery/history.
func (h *LotteryHandlers) HandleListHistory(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "LotteryHandlers.HandleListHistory")
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

	result, err := h.service.ListHistory(ctx, limit)
	if err != nil {
		httpx.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	httpx.WriteSuccess(w, http.StatusOK, *result.Success)
}

// HandleCreateRound serves POST /api/admin/lottery.
func (h *LotteryHandlers) HandleCreateRound(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "LotteryHandlers.HandleCreateRound")
	defer span.End()

	result, err := h.service.CreateRound(ctx)
	if err != nil {
		httpx.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if result.IsFailure() {
		f := *result.Failure
		httpx.WriteError(w, failureStatus(f.Reason), f.Message)
		return
	}
	httpx.WriteSuccess(w, http.StatusCreated, *result.Success)
}

// HandleDrawRound serves POST /api/admin/lottery/{id}/draw.
func (h *LotteryHandlers) HandleDrawRound(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "LotteryHandlers.HandleDrawRound")
	defer span.End()

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid lottery id")
		return
	}

	result, err := h.service.DrawRound(ctx, id)
	if err != nil {
		h.logger.ErrorContext(ctx, "Draw failed",
			attr.UUID("lottery_id", id),
			attr.Error(err),
		)
		httpx.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if result.IsFailure() {
		f := *result.Failure
		httpx.WriteError(w, failureStatus(f.Reason), f.Message)
		return
	}
	httpx.WriteSuccess(w, http.StatusOK, *result.Success)
}
