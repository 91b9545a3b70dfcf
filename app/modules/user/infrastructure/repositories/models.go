package userdb

import (
	"time"

	"github.com/uptrace/bun"
)

// User is a profile row keyed by the JWT subject. Rows appear on first
// profile write; authentication itself happens upstream.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID        string    `bun:"id,pk"`
	Name      string    `bun:"name,notnull,default:''"`
	CreatedAt time.Time `bun:"created_at,notnull,default:now()"`
	UpdatedAt time.Time `bun:"updated_at,notnull,default:now()"`
}
