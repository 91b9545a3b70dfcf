// Package operation wraps service operations with the telemetry and
// transaction discipline every module shares: a tracing span, attempt and
// duration metrics, panic recovery, and an optional bun transaction scope.
package operation

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/cryptolotto/lotto-backend/app/shared/attr"
	"github.com/cryptolotto/lotto-backend/app/shared/metrics"
	"github.com/cryptolotto/lotto-backend/app/shared/results"
)

// Deps bundles the cross-cutting collaborators an operation needs.
type Deps struct {
	Logger  *slog.Logger
	Metrics metrics.Operation
	Tracer  trace.Tracer
	Service string
}

// Func is the generic signature for a service operation body.
type Func[S any, F any] func(ctx context.Context) (results.OperationResult[S, F], error)

// WithTelemetry runs op under a span, records attempt/outcome metrics, and
// converts panics into errors. An error return is an infrastructure fault; a
// failure result is an expected domain outcome and still counts as success
// at the metrics level.
func WithTelemetry[S any, F any](
	ctx context.Context,
	deps Deps,
	operationName string,
	identifier string,
	op Func[S, F],
) (result results.OperationResult[S, F], err error) {
	var span trace.Span
	if deps.Tracer != nil {
		ctx, span = deps.Tracer.Start(ctx, operationName, trace.WithAttributes(
			attribute.String("operation", operationName),
			attribute.String("identifier", identifier),
		))
	} else {
		span = trace.SpanFromContext(ctx)
	}
	defer span.End()

	if deps.Metrics != nil {
		deps.Metrics.RecordOperationAttempt(ctx, operationName, deps.Service)
	}

	startTime := time.Now()
	defer func() {
		if deps.Metrics != nil {
			deps.Metrics.RecordOperationDuration(ctx, operationName, deps.Service, time.Since(startTime))
		}
	}()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in %s: %v", operationName, r)
			deps.Logger.ErrorContext(ctx, "Critical panic recovered",
				attr.ExtractCorrelationID(ctx),
				attr.String("identifier", identifier),
				attr.Error(err),
			)
			if deps.Metrics != nil {
				deps.Metrics.RecordOperationFailure(ctx, operationName, deps.Service)
			}
			span.RecordError(err)
			result = results.OperationResult[S, F]{}
		}
	}()

	result, err = op(ctx)

	if err != nil {
		wrappedErr := fmt.Errorf("%s: %w", operationName, err)
		deps.Logger.ErrorContext(ctx, "Operation failed with error",
			attr.ExtractCorrelationID(ctx),
			attr.String("operation", operationName),
			attr.String("identifier", identifier),
			attr.Error(wrappedErr),
		)
		if deps.Metrics != nil {
			deps.Metrics.RecordOperationFailure(ctx, operationName, deps.Service)
		}
		span.RecordError(wrappedErr)
		return result, wrappedErr
	}

	if result.IsFailure() {
		deps.Logger.WarnContext(ctx, "Operation returned failure result",
			attr.ExtractCorrelationID(ctx),
			attr.String("operation", operationName),
			attr.String("identifier", identifier),
			attr.Any("failure_payload", *result.Failure),
		)
	}

	if result.IsSuccess() {
		deps.Logger.InfoContext(ctx, "Operation completed successfully",
			attr.ExtractCorrelationID(ctx),
			attr.String("operation", operationName),
			attr.String("identifier", identifier),
		)
	}

	if deps.Metrics != nil {
		deps.Metrics.RecordOperationSuccess(ctx, operationName, deps.Service)
	}

	return result, nil
}

// RunInTx runs fn inside a database transaction. A nil db (unit tests with
// fakes) runs fn with a nil handle; repositories fall back to their default
// connection in that case.
func RunInTx[S any, F any](
	ctx context.Context,
	db *bun.DB,
	fn func(ctx context.Context, db bun.IDB) (results.OperationResult[S, F], error),
) (results.OperationResult[S, F], error) {
	if db == nil {
		return fn(ctx, nil)
	}

	var result results.OperationResult[S, F]

	err := db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		var txErr error
		result, txErr = fn(ctx, tx)
		return txErr
	})

	return result, err
}
