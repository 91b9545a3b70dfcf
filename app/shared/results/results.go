package results

// OperationResult carries either a success payload or a domain failure.
// Infrastructure errors travel on the error return of the operation itself;
// a failure here is an expected, business-level outcome (no active round,
// capacity reached, duplicate confirmation) that callers branch on.
type OperationResult[S any, F any] struct {
	Success *S
	Failure *F
}

// SuccessResult wraps a success payload.
func SuccessResult[S any, F any](s S) OperationResult[S, F] {
	return OperationResult[S, F]{Success: &s}
}

// FailureResult wraps a domain failure payload.
func FailureResult[S any, F any](f F) OperationResult[S, F] {
	return OperationResult[S, F]{Failure: &f}
}

// IsSuccess reports whether the operation produced a success payload.
func (r OperationResult[S, F]) IsSuccess() bool {
	return r.Success != nil
}

// IsFailure reports whether the operation produced a domain failure.
func (r OperationResult[S, F]) IsFailure() bool {
	return r.Failure != nil
}
