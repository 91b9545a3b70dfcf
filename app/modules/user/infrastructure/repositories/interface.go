package userdb

import (
	"context"
	"errors"

	"github.com/uptrace/bun"
)

// ErrNotFound indicates no profile row exists for the subject.
var ErrNotFound = errors.New("user not found")

// Repository defines the contract for profile persistence.
type Repository interface {
	// Get retrieves a profile by subject ID, or ErrNotFound.
	Get(ctx context.Context, db bun.IDB, id string) (*User, error)

	// Upsert creates the profile row on first write, otherwise updates
	// the mutable fields.
	Upsert(ctx context.Context, db bun.IDB, user *User) error

	// List retrieves profile rows, newest first.
	List(ctx context.Context, db bun.IDB, limit int) ([]*User, error)
}
