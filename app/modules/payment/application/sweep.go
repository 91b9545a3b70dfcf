package paymentservice

import (
	"context"

	"github.com/cryptolotto/lotto-backend/app/shared/attr"
	"github.com/cryptolotto/lotto-backend/app/shared/operation"
	"github.com/cryptolotto/lotto-backend/app/shared/results"

	paymenttypes "github.com/cryptolotto/lotto-backend/app/modules/payment/domain/types"
)

// SweepPending runs the periodic pending-payment sweep: payments still
// pending past the reconciliation age are logged for follow-up, and those
// older than the expiry window are marked expired.
func (s *PaymentService) SweepPending(ctx context.Context) (SweepResult, error) {
	return operation.WithTelemetry(ctx, s.deps(), "SweepPending", "sweep",
		func(ctx context.Context) (SweepResult, error) {
			stale, err := s.payments.ListPendingBefore(ctx, nil, now().Add(-s.cfg.PendingMaxAge))
			if err != nil {
				return SweepResult{}, err
			}
			for _, p := range stale {
				s.logger.WarnContext(ctx, "Payment still pending past reconciliation age",
					attr.String("payment_id", p.ID.String()),
					attr.String("method", p.Method),
					attr.String("transaction_ref", p.TransactionRef),
					attr.Time("created_at", p.CreatedAt),
				)
			}

			expired, err := s.payments.ExpirePendingBefore(ctx, nil, now().Add(-s.cfg.PendingExpiry))
			if err != nil {
				return SweepResult{}, err
			}
			if expired > 0 {
				s.logger.InfoContext(ctx, "Expired stale pending payments",
					attr.Int("expired", expired),
				)
			}
			return results.SuccessResult[*paymenttypes.SweepReport, *paymenttypes.Failure](&paymenttypes.SweepReport{
				Expired: expired,
			}), nil
		})
}

// ListRecentPayments returns the latest payment records for the admin view.
func (s *PaymentService) ListRecentPayments(ctx context.Context, limit int) (PaymentListResult, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	return operation.WithTelemetry(ctx, s.deps(), "ListRecentPayments", "recent",
		func(ctx context.Context) (PaymentListResult, error) {
			payments, err := s.payments.ListRecent(ctx, nil, limit)
			if err != nil {
				return PaymentListResult{}, err
			}
			infos := make([]*paymenttypes.PaymentInfo, 0, len(payments))
			for _, p := range payments {
				infos = append(infos, toPaymentInfo(p))
			}
			return results.SuccessResult[[]*paymenttypes.PaymentInfo, *paymenttypes.Failure](infos), nil
		})
}
