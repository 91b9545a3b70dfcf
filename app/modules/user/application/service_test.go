package userservice

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"

	usertypes "github.com/cryptolotto/lotto-backend/app/modules/user/domain/types"
	userdb "github.com/cryptolotto/lotto-backend/app/modules/user/infrastructure/repositories"
	"github.com/cryptolotto/lotto-backend/app/shared/metrics"
)

type FakeUserRepo struct {
	users map[string]*userdb.User
	order []string

	GetFunc    func(ctx context.Context, db bun.IDB, id string) (*userdb.User, error)
	UpsertFunc func(ctx context.Context, db bun.IDB, user *userdb.User) error
	ListFunc   func(ctx context.Context, db bun.IDB, limit int) ([]*userdb.User, error)
}

func NewFakeUserRepo() *FakeUserRepo {
	return &FakeUserRepo{users: map[string]*userdb.User{}}
}

func (f *FakeUserRepo) Get(ctx context.Context, db bun.IDB, id string) (*userdb.User, error) {
	if f.GetFunc != nil {
		return f.GetFunc(ctx, db, id)
	}
	user, ok := f.users[id]
	if !ok {
		return nil, userdb.ErrNotFound
	}
	return user, nil
}

func (f *FakeUserRepo) Upsert(ctx context.Context, db bun.IDB, user *userdb.User) error {
	if f.UpsertFunc != nil {
		return f.UpsertFunc(ctx, db, user)
	}
	if _, ok := f.users[user.ID]; !ok {
		f.order = append(f.order, user.ID)
	}
	f.users[user.ID] = user
	return nil
}

// List returns newest first, mirroring the created_at DESC query.
func (f *FakeUserRepo) List(ctx context.Context, db bun.IDB, limit int) ([]*userdb.User, error) {
	if f.ListFunc != nil {
		return f.ListFunc(ctx, db, limit)
	}
	out := make([]*userdb.User, 0, len(f.order))
	for i := len(f.order) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, f.users[f.order[i]])
	}
	return out, nil
}

func newTestService(repo userdb.Repository) *UserService {
	return NewUserService(repo, slog.Default(), metrics.NewNoop(), nil, nil)
}

func TestGetProfileMissingRowIsEmptyProfile(t *testing.T) {
	svc := newTestService(NewFakeUserRepo())

	result, err := svc.GetProfile(context.Background(), "user_1234")
	require.NoError(t, err)
	require.True(t, result.IsSuccess())
	profile := *result.Success
	assert.Equal(t, "user_1234", profile.UserID)
	assert.Empty(t, profile.Name)
}

func TestUpdateThenGetProfile(t *testing.T) {
	repo := NewFakeUserRepo()
	svc := newTestService(repo)
	name := gofakeit.Name()

	updated, err := svc.UpdateProfile(context.Background(), "user_1234", usertypes.UpdateProfileCommand{
		Name: "  " + name + "  ",
	})
	require.NoError(t, err)
	require.True(t, updated.IsSuccess())
	assert.Equal(t, name, (*updated.Success).Name)

	got, err := svc.GetProfile(context.Background(), "user_1234")
	require.NoError(t, err)
	require.True(t, got.IsSuccess())
	assert.Equal(t, name, (*got.Success).Name)
}

func TestUpdateProfileValidation(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "empty", input: "", wantErr: true},
		{name: "whitespace only", input: "   ", wantErr: true},
		{name: "too long", input: strings.Repeat("x", usertypes.MaxNameLength+1), wantErr: true},
		{name: "at limit", input: strings.Repeat("x", usertypes.MaxNameLength), wantErr: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(NewFakeUserRepo())

			result, err := svc.UpdateProfile(context.Background(), "u1", usertypes.UpdateProfileCommand{Name: tt.input})
			require.NoError(t, err)
			if tt.wantErr {
				require.True(t, result.IsFailure())
				assert.Equal(t, usertypes.ReasonInvalidName, (*result.Failure).Reason)
			} else {
				assert.True(t, result.IsSuccess())
			}
		})
	}
}

func TestListUsersNewestFirst(t *testing.T) {
	repo := NewFakeUserRepo()
	svc := newTestService(repo)

	for _, id := range []string{"u1", "u2", "u3"} {
		_, err := svc.UpdateProfile(context.Background(), id, usertypes.UpdateProfileCommand{Name: "user " + id})
		require.NoError(t, err)
	}

	result, err := svc.ListUsers(context.Background(), 10)
	require.NoError(t, err)
	require.True(t, result.IsSuccess())

	profiles := *result.Success
	require.Len(t, profiles, 3)
	assert.Equal(t, "u3", profiles[0].UserID)
	assert.Equal(t, "u1", profiles[2].UserID)
}

func TestListUsersDefaultsLimit(t *testing.T) {
	var gotLimit int
	repo := NewFakeUserRepo()
	repo.ListFunc = func(ctx context.Context, db bun.IDB, limit int) ([]*userdb.User, error) {
		gotLimit = limit
		return nil, nil
	}
	svc := newTestService(repo)

	tests := []struct {
		name  string
		limit int
		want  int
	}{
		{name: "zero", limit: 0, want: 100},
		{name: "negative", limit: -1, want: 100},
		{name: "over cap", limit: 1000, want: 100},
		{name: "in range", limit: 25, want: 25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ListUsers(context.Background(), tt.limit)
			require.NoError(t, err)
			assert.Equal(t, tt.want, gotLimit)
		})
	}
}

func TestProfileStoreErrorsPropagate(t *testing.T) {
	wantErr := errors.New("connection reset")
	repo := NewFakeUserRepo()
	repo.GetFunc = func(ctx context.Context, db bun.IDB, id string) (*userdb.User, error) {
		return nil, wantErr
	}
	repo.UpsertFunc = func(ctx context.Context, db bun.IDB, user *userdb.User) error {
		return wantErr
	}
	svc := newTestService(repo)

	_, err := svc.GetProfile(context.Background(), "u1")
	assert.ErrorIs(t, err, wantErr)

	_, err = svc.UpdateProfile(context.Background(), "u1", usertypes.UpdateProfileCommand{Name: "Alice"})
	assert.ErrorIs(t, err, wantErr)
}
