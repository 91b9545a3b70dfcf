package lotteryhandlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"

	lotteryservice "github.com/cryptolotto/lotto-backend/app/modules/lottery/application"
	lotterytypes "github.com/cryptolotto/lotto-backend/app/modules/lottery/domain/types"
	"github.com/cryptolotto/lotto-backend/app/shared/results"
)

// ------------------------
// Fake Lottery Service
// ------------------------

type FakeService struct {
	GetCurrentRoundFunc func(ctx context.Context) (lotteryservice.RoundResult, error)
	GetRoundFunc        func(ctx context.Context, id uuid.UUID) (lotteryservice.RoundResult, error)
	ListHistoryFunc     func(ctx context.Context, limit int) (lotteryservice.RoundListResult, error)
	CreateRoundFunc     func(ctx context.Context) (lotteryservice.RoundResult, error)
	DrawRoundFunc       func(ctx context.Context, id uuid.UUID) (lotteryservice.DrawRoundResult, error)
}

func (f *FakeService) GetCurrentRound(ctx context.Context) (lotteryservice.RoundResult, error) {
	return f.GetCurrentRoundFunc(ctx)
}

func (f *FakeService) GetRound(ctx context.Context, id uuid.UUID) (lotteryservice.RoundResult, error) {
	return f.GetRoundFunc(ctx, id)
}

func (f *FakeService) ListHistory(ctx context.Context, limit int) (lotteryservice.RoundListResult, error) {
	return f.ListHistoryFunc(ctx, limit)
}

func (f *FakeService) CreateRound(ctx context.Context) (lotteryservice.RoundResult, error) {
	return f.CreateRoundFunc(ctx)
}

func (f *FakeService) DrawRound(ctx context.Context, id uuid.UUID) (lotteryservice.DrawRoundResult, error) {
	return f.DrawRoundFunc(ctx, id)
}

func newTestRouter(svc lotteryservice.Service) chi.Router {
	h := NewLotteryHandlers(svc, slog.Default(), noop.NewTracerProvider().Tracer("test"))
	r := chi.NewRouter()
	r.Get("/lottery/current", h.HandleGetCurrentRound)
	r.Get("/lottery/history", h.HandleListHistory)
	r.Get("/lottery/{id}", h.HandleGetRound)
	r.Post("/lottery", h.HandleCreateRound)
	r.Post("/lottery/{id}/draw", h.HandleDrawRound)
	return r
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func roundSuccess(info *lotterytypes.RoundInfo) lotteryservice.RoundResult {
	return results.SuccessResult[*lotterytypes.RoundInfo, *lotterytypes.Failure](info)
}

func roundFailure(reason, msg string) lotteryservice.RoundResult {
	return results.FailureResult[*lotterytypes.RoundInfo](&lotterytypes.Failure{
		Reason:  reason,
		Message: msg,
	})
}

func TestHandleGetCurrentRound(t *testing.T) {
	want := &lotterytypes.RoundInfo{
		ID:     uuid.NewString(),
		Round:  7,
		Status: "active",
	}
	router := newTestRouter(&FakeService{
		GetCurrentRoundFunc: func(ctx context.Context) (lotteryservice.RoundResult, error) {
			return roundSuccess(want), nil
		},
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/lottery/current", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	env := decodeEnvelope(t, rec)
	require.True(t, env.Success)

	var got lotterytypes.RoundInfo
	require.NoError(t, json.Unmarshal(env.Data, &got))
	decimalEq := cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) })
	if diff := cmp.Diff(*want, got, decimalEq); diff != "" {
		t.Errorf("round mismatch (-want +got):\n%s", diff)
	}
}

func TestHandleGetCurrentRoundNoActiveRound(t *testing.T) {
	router := newTestRouter(&FakeService{
		GetCurrentRoundFunc: func(ctx context.Context) (lotteryservice.RoundResult, error) {
			return roundFailure(lotterytypes.ReasonNoActiveRound, "no active round"), nil
		},
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/lottery/current", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.False(t, env.Success)
	assert.Equal(t, "no active round", env.Error)
}

func TestHandleGetRound(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		result     lotteryservice.RoundResult
		err        error
		wantStatus int
	}{
		{
			name:       "found",
			path:       "/lottery/" + uuid.NewString(),
			result:     roundSuccess(&lotterytypes.RoundInfo{Round: 3}),
			wantStatus: http.StatusOK,
		},
		{
			name:       "not found",
			path:       "/lottery/" + uuid.NewString(),
			result:     roundFailure(lotterytypes.ReasonRoundNotFound, "round not found"),
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "bad id",
			path:       "/lottery/not-a-uuid",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "store error",
			path:       "/lottery/" + uuid.NewString(),
			err:        errors.New("connection reset"),
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(&FakeService{
				GetRoundFunc: func(ctx context.Context, id uuid.UUID) (lotteryservice.RoundResult, error) {
					return tt.result, tt.err
				},
			})

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestHandleListHistoryPassesLimit(t *testing.T) {
	var gotLimit int
	router := newTestRouter(&FakeService{
		ListHistoryFunc: func(ctx context.Context, limit int) (lotteryservice.RoundListResult, error) {
			gotLimit = limit
			return results.SuccessResult[[]*lotterytypes.RoundInfo, *lotterytypes.Failure](nil), nil
		},
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/lottery/history?limit=5", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 5, gotLimit)
}

func TestHandleListHistoryRejectsBadLimit(t *testing.T) {
	router := newTestRouter(&FakeService{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/lottery/history?limit=abc", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleCreateRound(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		router := newTestRouter(&FakeService{
			CreateRoundFunc: func(ctx context.Context) (lotteryservice.RoundResult, error) {
				return roundSuccess(&lotterytypes.RoundInfo{Round: 8}), nil
			},
		})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/lottery", nil))
		assert.Equal(t, http.StatusCreated, rec.Code)
	})

	t.Run("active round exists", func(t *testing.T) {
		router := newTestRouter(&FakeService{
			CreateRoundFunc: func(ctx context.Context) (lotteryservice.RoundResult, error) {
				return roundFailure(lotterytypes.ReasonActiveRoundExists, "an active round already exists"), nil
			},
		})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/lottery", nil))
		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}

func TestHandleDrawRound(t *testing.T) {
	winner := 42
	router := newTestRouter(&FakeService{
		DrawRoundFunc: func(ctx context.Context, id uuid.UUID) (lotteryservice.DrawRoundResult, error) {
			return results.SuccessResult[*lotterytypes.DrawResult, *lotterytypes.Failure](&lotterytypes.DrawResult{
				Outcome:      lotterytypes.DrawCompleted,
				WinnerTicket: &winner,
			}), nil
		},
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/lottery/"+uuid.NewString()+"/draw", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	env := decodeEnvelope(t, rec)
	require.True(t, env.Success)

	var got lotterytypes.DrawResult
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, lotterytypes.DrawCompleted, got.Outcome)
	require.NotNil(t, got.WinnerTicket)
	assert.Equal(t, winner, *got.WinnerTicket)
}
