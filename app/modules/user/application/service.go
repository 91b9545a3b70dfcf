// Package userservice implements profile reads and updates. Identity is
// established upstream; every operation takes the already-authenticated
// subject ID.
package userservice

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace"

	usertypes "github.com/cryptolotto/lotto-backend/app/modules/user/domain/types"
	userdb "github.com/cryptolotto/lotto-backend/app/modules/user/infrastructure/repositories"
	"github.com/cryptolotto/lotto-backend/app/shared/attr"
	"github.com/cryptolotto/lotto-backend/app/shared/metrics"
	"github.com/cryptolotto/lotto-backend/app/shared/operation"
	"github.com/cryptolotto/lotto-backend/app/shared/results"
)

// ProfileResult carries a profile or a domain failure.
type ProfileResult = results.OperationResult[*usertypes.Profile, *usertypes.Failure]

// ProfileListResult carries a page of profiles.
type ProfileListResult = results.OperationResult[[]*usertypes.Profile, *usertypes.Failure]

// Service is the user module's application contract.
type Service interface {
	GetProfile(ctx context.Context, userID string) (ProfileResult, error)
	UpdateProfile(ctx context.Context, userID string, cmd usertypes.UpdateProfileCommand) (ProfileResult, error)
	ListUsers(ctx context.Context, limit int) (ProfileListResult, error)
}

// UserService implements Service on the user repository.
type UserService struct {
	users   userdb.Repository
	logger  *slog.Logger
	metrics metrics.Operation
	tracer  trace.Tracer
	db      *bun.DB
}

var _ Service = (*UserService)(nil)

// NewUserService creates a new UserService.
func NewUserService(
	users userdb.Repository,
	logger *slog.Logger,
	operationMetrics metrics.Operation,
	tracer trace.Tracer,
	db *bun.DB,
) *UserService {
	if logger == nil {
		logger = slog.Default()
	}
	return &UserService{
		users:   users,
		logger:  logger,
		metrics: operationMetrics,
		tracer:  tracer,
		db:      db,
	}
}

func (s *UserService) deps() operation.Deps {
	return operation.Deps{
		Logger:  s.logger,
		Metrics: s.metrics,
		Tracer:  s.tracer,
		Service: "UserService",
	}
}

// GetProfile returns the stored profile, or an empty one if the subject has
// never written a profile. The subject is authenticated upstream, so a
// missing row is not an error.
func (s *UserService) GetProfile(ctx context.Context, userID string) (ProfileResult, error) {
	return operation.WithTelemetry(ctx, s.deps(), "GetProfile", userID,
		func(ctx context.Context) (ProfileResult, error) {
			user, err := s.users.Get(ctx, nil, userID)
			if err != nil {
				if errors.Is(err, userdb.ErrNotFound) {
					return results.SuccessResult[*usertypes.Profile, *usertypes.Failure](&usertypes.Profile{
						UserID: userID,
					}), nil
				}
				return ProfileResult{}, err
			}
			return results.SuccessResult[*usertypes.Profile, *usertypes.Failure](toProfile(user)), nil
		})
}

// UpdateProfile validates and writes the mutable profile fields.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, cmd usertypes.UpdateProfileCommand) (ProfileResult, error) {
	return operation.WithTelemetry(ctx, s.deps(), "UpdateProfile", userID,
		func(ctx context.Context) (ProfileResult, error) {
			name := strings.TrimSpace(cmd.Name)
			if name == "" || len(name) > usertypes.MaxNameLength {
				return results.FailureResult[*usertypes.Profile](&usertypes.Failure{
					Reason:  usertypes.ReasonInvalidName,
					Message: "name must be 1-100 characters",
				}), nil
			}

			user := &userdb.User{
				ID:        userID,
				Name:      name,
				CreatedAt: now().UTC(),
			}
			if err := s.users.Upsert(ctx, nil, user); err != nil {
				return ProfileResult{}, err
			}

			s.logger.InfoContext(ctx, "Profile updated",
				attr.String("user_id", userID),
			)
			return results.SuccessResult[*usertypes.Profile, *usertypes.Failure](toProfile(user)), nil
		})
}

// ListUsers returns profile rows for the admin listing, newest first.
func (s *UserService) ListUsers(ctx context.Context, limit int) (ProfileListResult, error) {
	return operation.WithTelemetry(ctx, s.deps(), "ListUsers", "all",
		func(ctx context.Context) (ProfileListResult, error) {
			if limit <= 0 || limit > 500 {
				limit = 100
			}
			users, err := s.users.List(ctx, nil, limit)
			if err != nil {
				return ProfileListResult{}, err
			}
			profiles := make([]*usertypes.Profile, 0, len(users))
			for _, u := range users {
				profiles = append(profiles, toProfile(u))
			}
			return results.SuccessResult[[]*usertypes.Profile, *usertypes.Failure](profiles), nil
		})
}

func toProfile(user *userdb.User) *usertypes.Profile {
	return &usertypes.Profile{
		UserID:    user.ID,
		Name:      user.Name,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

var now = time.Now
