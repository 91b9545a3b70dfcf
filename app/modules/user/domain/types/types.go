// Package usertypes holds the user module's shared domain shapes.
package usertypes

import "time"

// Failure reasons for profile operations.
const (
	ReasonInvalidName = "invalid_name"
)

// MaxNameLength caps display names.
const MaxNameLength = 100

// Profile is the caller-facing view of a user row.
type Profile struct {
	UserID    string    `json:"userId"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// UpdateProfileCommand carries the mutable profile fields.
type UpdateProfileCommand struct {
	Name string `json:"name"`
}

// Failure is the domain failure payload for profile operations.
type Failure struct {
	Reason  string `json:"reason"`
	Message string `json:"message"`
}
