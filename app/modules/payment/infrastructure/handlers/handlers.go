package paymenthandlers

import (
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"go.opentelemetry.io/otel/trace"

	paymentservice "github.com/cryptolotto/lotto-backend/app/modules/payment/application"
	paymenttypes "github.com/cryptolotto/lotto-backend/app/modules/payment/domain/types"
	"github.com/cryptolotto/lotto-backend/app/shared/attr"
	"github.com/cryptolotto/lotto-backend/app/shared/authn"
	"github.com/cryptolotto/lotto-backend/app/shared/httpx"
)

// SignatureHeader carries the webhook HMAC.
const SignatureHeader = "X-Webhook-Signature"

// maxWebhookBody caps webhook payloads at 256 KiB.
const maxWebhookBody = 256 << 10

// PaymentHandlers implements the Handlers interface.
type PaymentHandlers struct {
	service paymentservice.Service
	logger  *slog.Logger
	tracer  trace.Tracer
}

// NewPaymentHandlers creates a new PaymentHandlers instance.
func NewPaymentHandlers(
	service paymentservice.Service,
	logger *slog.Logger,
	tracer trace.Tracer,
) Handlers {
	return &PaymentHandlers{
		service: service,
		logger:  logger,
		tracer:  tracer,
	}
}

func failureStatus(reason string) int {
	switch reason {
	case paymenttypes.ReasonRoundNotFound, paymenttypes.ReasonPaymentNotFound:
		return http.StatusNotFound
	case paymenttypes.ReasonProviderUnavailable:
		return http.StatusBadGateway
	default:
		return http.StatusBadRequest
	}
}

type purchaseRequest struct {
	LotteryID string `json:"lotteryId"`
	Quantity  int    `json:"quantity"`
}

// HandleCreateCheckoutSession serves POST /api/payment/checkout/session.
func (h *PaymentHandlers) HandleCreateCheckoutSession(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "PaymentHandlers.HandleCreateCheckoutSession")
	defer span.End()

	userID := authn.UserID(ctx)
	if userID == "" {
		httpx.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req purchaseRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	result, err := h.service.CreateCheckoutSession(ctx, userID, req.LotteryID, req.Quantity)
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

// HandleCheckoutWebhook serves POST /api/payment/checkout/webhook. The body
// is read raw; signature verification happens over the exact bytes sent.
func (h *PaymentHandlers) HandleCheckoutWebhook(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "PaymentHandlers.HandleCheckoutWebhook")
	defer span.End()

	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "unreadable body")
		return
	}

	result, err := h.service.HandleCheckoutWebhook(ctx, r.Header.Get(SignatureHeader), body)
	if err != nil {
		h.logger.ErrorContext(ctx, "Webhook processing failed", attr.Error(err))
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

// HandleCreateOrder serves POST /api/payment/order.
func (h *PaymentHandlers) HandleCreateOrder(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "PaymentHandlers.HandleCreateOrder")
	defer span.End()

	userID := authn.UserID(ctx)
	if userID == "" {
		httpx.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req purchaseRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	result, err := h.service.CreateOrder(ctx, userID, req.LotteryID, req.Quantity)
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

// HandleCaptureOrder serves POST /api/payment/order/capture.
func (h *PaymentHandlers) HandleCaptureOrder(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "PaymentHandlers.HandleCaptureOrder")
	defer span.End()

	if authn.UserID(ctx) == "" {
		httpx.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req struct {
		OrderID string `json:"orderId"`
	}
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	result, err := h.service.CaptureOrder(ctx, req.OrderID)
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

// HandleConfirmOnChain serves POST /api/payment/onchain.
func (h *PaymentHandlers) HandleConfirmOnChain(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "PaymentHandlers.HandleConfirmOnChain")
	defer span.End()

	userID := authn.UserID(ctx)
	if userID == "" {
		httpx.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req struct {
		LotteryID string `json:"lotteryId"`
		Quantity  int    `json:"quantity"`
		Signature string `json:"signature"`
	}
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	result, err := h.service.ConfirmOnChain(ctx, userID, req.LotteryID, req.Quantity, req.Signature)
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

// HandleListPayments serves GET /api/admin/payments.
func (h *PaymentHandlers) HandleListPayments(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "PaymentHandlers.HandleListPayments")
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

	result, err := h.service.ListRecentPayments(ctx, limit)
	if err != nil {
		httpx.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	httpx.WriteSuccess(w, http.StatusOK, *result.Success)
}
