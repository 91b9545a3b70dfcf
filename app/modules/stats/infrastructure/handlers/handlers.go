package statshandlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/trace"

	lotteryservice "github.com/cryptolotto/lotto-backend/app/modules/lottery/application"
	lotterytypes "github.com/cryptolotto/lotto-backend/app/modules/lottery/domain/types"
	statsservice "github.com/cryptolotto/lotto-backend/app/modules/stats/application"
	statsdb "github.com/cryptolotto/lotto-backend/app/modules/stats/infrastructure/repositories"
	"github.com/cryptolotto/lotto-backend/app/shared/attr"
	"github.com/cryptolotto/lotto-backend/app/shared/httpx"
)

// dashboardHistoryLimit bounds the round list on the admin dashboard.
const dashboardHistoryLimit = 10

// StatsHandlers implements the Handlers interface.
type StatsHandlers struct {
	service statsservice.Service
	rounds  lotteryservice.Service
	logger  *slog.Logger
	tracer  trace.Tracer
}

// NewStatsHandlers creates a new StatsHandlers instance.
func NewStatsHandlers(
	service statsservice.Service,
	rounds lotteryservice.Service,
	logger *slog.Logger,
	tracer trace.Tracer,
) Handlers {
	return &StatsHandlers{
		service: service,
		rounds:  rounds,
		logger:  logger,
		tracer:  tracer,
	}
}

// HandleSummary serves GET /api/lottery/stats.
func (h *StatsHandlers) HandleSummary(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "StatsHandlers.HandleSummary")
	defer span.End()

	result, err := h.service.Summary(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "Stats summary failed", attr.Error(err))
		httpx.WriteError(w, http.StatusServiceUnavailable, "stats unavailable")
		return
	}
	httpx.WriteSuccess(w, http.StatusOK, *result.Success)
}

// dashboard is the admin dashboard payload.
type dashboard struct {
	Summary      *statsdb.Summary          `json:"summary"`
	RecentRounds []*lotterytypes.RoundInfo `json:"recentRounds"`
	GeneratedAt  time.Time                 `json:"generatedAt"`
}

// HandleDashboard serves GET /api/admin/dashboard.
func (h *StatsHandlers) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "StatsHandlers.HandleDashboard")
	defer span.End()

	summary, err := h.service.Summary(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "Dashboard summary failed", attr.Error(err))
		httpx.WriteError(w, http.StatusServiceUnavailable, "stats unavailable")
		return
	}

	history, err := h.rounds.ListHistory(ctx, dashboardHistoryLimit)
	if err != nil || history.IsFailure() {
		httpx.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	httpx.WriteSuccess(w, http.StatusOK, dashboard{
		Summary:      *summary.Success,
		RecentRounds: *history.Success,
		GeneratedAt:  time.Now().UTC(),
	})
}

// HandleExport serves GET /api/admin/dashboard/export as an XLSX download.
func (h *StatsHandlers) HandleExport(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "StatsHandlers.HandleExport")
	defer span.End()

	workbook, err := h.service.ExportRounds(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "Round export failed", attr.Error(err))
		httpx.WriteError(w, http.StatusInternalServerError, "export failed")
		return
	}

	filename := fmt.Sprintf("rounds-%s.xlsx", time.Now().UTC().Format("20060102"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(workbook); err != nil {
		h.logger.ErrorContext(ctx, "Failed to stream export", attr.Error(err))
	}
}
